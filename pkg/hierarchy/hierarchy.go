package hierarchy

import (
	"errors"
	"fmt"
)

// Root is the parent ID of top-level nodes.
const Root = ""

var (
	// ErrEmptyNodeID is returned by [Order] when a node uses the [Root]
	// sentinel as its own ID. Such a node would be its own ancestor.
	ErrEmptyNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Order] when two nodes share an ID.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrCycle is returned by [Order] when following parent IDs from some
	// node leads back to that node.
	ErrCycle = errors.New("cyclic parent reference")
)

// Node is anything that knows its own ID and the ID of its parent.
type Node interface {
	NodeID() string
	ParentNodeID() string
}

// Item is a minimal [Node] for callers without a payload of their own.
type Item struct {
	ID       string `json:"id"`
	ParentID string `json:"parentId"`
}

// NodeID implements [Node].
func (i Item) NodeID() string { return i.ID }

// ParentNodeID implements [Node].
func (i Item) ParentNodeID() string { return i.ParentID }

// Order returns nodes in pre-order: every node follows its parent and
// siblings keep their relative input order. Orphans and their descendants
// are dropped.
//
// Order returns [ErrEmptyNodeID], [ErrDuplicateNodeID] or [ErrCycle]
// (wrapped with the offending ID) for malformed input. The input slice is
// not modified; the result is never nil.
func Order[N Node](nodes []N) ([]N, error) {
	children, index, err := group(nodes)
	if err != nil {
		return nil, err
	}

	out := make([]N, 0, len(nodes))
	type frame struct {
		id   string
		next int
	}
	stack := []frame{{id: Root}}
	for len(stack) > 0 {
		top := len(stack) - 1
		kids := children[stack[top].id]
		if stack[top].next >= len(kids) {
			stack = stack[:top]
			continue
		}
		n := nodes[kids[stack[top].next]]
		stack[top].next++
		out = append(out, n)
		stack = append(stack, frame{id: n.NodeID()})
	}

	if len(out) < len(nodes) {
		if id, ok := findCycle(nodes, index); ok {
			return nil, fmt.Errorf("%w: %q", ErrCycle, id)
		}
	}
	return out, nil
}

// MustOrder is like [Order] but panics on malformed input.
// It is intended for statically known hierarchies in tests and examples.
func MustOrder[N Node](nodes []N) []N {
	out, err := Order(nodes)
	if err != nil {
		panic(err)
	}
	return out
}

// group indexes nodes by ID and collects child positions per parent ID,
// preserving input order.
func group[N Node](nodes []N) (map[string][]int, map[string]int, error) {
	children := make(map[string][]int, len(nodes))
	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		id := n.NodeID()
		if id == Root {
			return nil, nil, fmt.Errorf("%w: node at position %d", ErrEmptyNodeID, i)
		}
		if _, dup := index[id]; dup {
			return nil, nil, fmt.Errorf("%w: %q", ErrDuplicateNodeID, id)
		}
		index[id] = i
		parent := n.ParentNodeID()
		children[parent] = append(children[parent], i)
	}
	return children, index, nil
}

// findCycle follows parent chains and reports the first node found on a
// closed loop. Chains ending at Root or at a missing parent are acyclic.
func findCycle[N Node](nodes []N, index map[string]int) (string, bool) {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(nodes))
	for start := range nodes {
		var path []int
		i := start
		for {
			if state[i] == done {
				break
			}
			if state[i] == visiting {
				return nodes[i].NodeID(), true
			}
			state[i] = visiting
			path = append(path, i)
			parent, ok := index[nodes[i].ParentNodeID()]
			if !ok {
				break
			}
			i = parent
		}
		for _, p := range path {
			state[p] = done
		}
	}
	return "", false
}

// Depths returns the nesting depth of every node in an ordered sequence, as
// produced by [Order]. Children of [Root] have depth 0. Nodes whose parent
// does not precede them are treated as top level.
func Depths[N Node](ordered []N) map[string]int {
	depths := make(map[string]int, len(ordered))
	for _, n := range ordered {
		if d, ok := depths[n.ParentNodeID()]; ok {
			depths[n.NodeID()] = d + 1
			continue
		}
		depths[n.NodeID()] = 0
	}
	return depths
}
