package ui

import (
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/matzehuels/adminstack/pkg/hierarchy"
)

// Tree renders a pre-ordered hierarchy with box-drawing branches. Nodes
// whose parent is not in ordered are shown at the top level.
func Tree[N hierarchy.Node](ordered []N, label func(N) string, theme Theme) string {
	root := tree.New().
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(theme.DimStyle()).
		ItemStyle(theme.TextStyle())

	nodes := make(map[string]*tree.Tree, len(ordered))
	for _, n := range ordered {
		t := tree.Root(label(n)).
			Enumerator(tree.RoundedEnumerator).
			EnumeratorStyle(theme.DimStyle()).
			ItemStyle(theme.TextStyle())
		parent, ok := nodes[n.ParentNodeID()]
		if !ok {
			parent = root
		}
		parent.Child(t)
		nodes[n.NodeID()] = t
	}
	return root.String()
}
