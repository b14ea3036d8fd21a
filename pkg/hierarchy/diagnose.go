package hierarchy

import (
	"errors"
	"slices"

	"github.com/dominikbraun/graph"
)

// Report explains which nodes [Order] would drop or reject.
type Report struct {
	// Orphans are nodes whose parent ID matches no node.
	Orphans []string `json:"orphans,omitempty"`
	// Unreachable are nodes nested (directly or not) below an orphan or a
	// cycle. They are dropped together with it.
	Unreachable []string `json:"unreachable,omitempty"`
	// Cycles lists each closed parent chain, IDs sorted.
	Cycles [][]string `json:"cycles,omitempty"`
	// Duplicates lists IDs used by more than one node.
	Duplicates []string `json:"duplicates,omitempty"`
	// EmptyIDs counts nodes using the root sentinel as their own ID.
	EmptyIDs int `json:"emptyIds,omitempty"`
}

// OK reports whether [Order] would keep every node.
func (r Report) OK() bool {
	return len(r.Orphans) == 0 && len(r.Unreachable) == 0 && len(r.Cycles) == 0 &&
		len(r.Duplicates) == 0 && r.EmptyIDs == 0
}

// Dropped returns the number of nodes that [Order] would silently drop.
func (r Report) Dropped() int {
	return len(r.Orphans) + len(r.Unreachable)
}

// Diagnose inspects nodes without ordering them. Unlike [Order] it never
// fails: malformed input is described in the returned [Report].
func Diagnose[N Node](nodes []N) Report {
	var r Report

	g := graph.New(graph.StringHash, graph.Directed())
	present := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		id := n.NodeID()
		if id == Root {
			r.EmptyIDs++
			continue
		}
		if err := g.AddVertex(id); errors.Is(err, graph.ErrVertexAlreadyExists) {
			if !slices.Contains(r.Duplicates, id) {
				r.Duplicates = append(r.Duplicates, id)
			}
			continue
		}
		present[id] = true
	}

	children := make(map[string][]string, len(nodes))
	seen := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		id, parent := n.NodeID(), n.ParentNodeID()
		if id == Root || seen[id] {
			continue
		}
		seen[id] = true
		children[parent] = append(children[parent], id)
		switch {
		case parent == Root:
		case parent == id:
			r.Cycles = append(r.Cycles, []string{id})
		case !present[parent]:
			r.Orphans = append(r.Orphans, id)
		default:
			_ = g.AddEdge(parent, id)
		}
	}

	if sccs, err := graph.StronglyConnectedComponents(g); err == nil {
		for _, scc := range sccs {
			if len(scc) > 1 {
				slices.Sort(scc)
				r.Cycles = append(r.Cycles, scc)
			}
		}
	}
	slices.SortFunc(r.Cycles, func(a, b []string) int { return slices.Compare(a, b) })

	reached := make(map[string]bool, len(nodes))
	queue := []string{Root}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, c := range children[id] {
			if !reached[c] {
				reached[c] = true
				queue = append(queue, c)
			}
		}
	}

	inCycle := make(map[string]bool)
	for _, c := range r.Cycles {
		for _, id := range c {
			inCycle[id] = true
		}
	}
	for _, n := range nodes {
		id := n.NodeID()
		if id == Root || reached[id] || inCycle[id] || slices.Contains(r.Orphans, id) ||
			slices.Contains(r.Unreachable, id) {
			continue
		}
		r.Unreachable = append(r.Unreachable, id)
	}
	return r
}
