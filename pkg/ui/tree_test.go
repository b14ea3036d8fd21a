package ui

import (
	"strings"
	"testing"

	"github.com/matzehuels/adminstack/pkg/hierarchy"
)

func TestTree(t *testing.T) {
	ordered, err := hierarchy.Order([]hierarchy.Item{
		{ID: "root"},
		{ID: "a", ParentID: "root"},
		{ID: "a1", ParentID: "a"},
		{ID: "b", ParentID: "root"},
	})
	if err != nil {
		t.Fatal(err)
	}

	got := Tree(ordered, func(i hierarchy.Item) string { return i.ID }, DefaultTheme())
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("Tree() has %d lines, want 4:\n%s", len(lines), got)
	}
	order := []string{"root", "a", "a1", "b"}
	for i, id := range order {
		if !strings.Contains(lines[i], id) {
			t.Errorf("line %d = %q, want %s", i, lines[i], id)
		}
	}
	// Children are indented deeper than their parent.
	if strings.Index(lines[2], "a1") <= strings.Index(lines[1], "a") {
		t.Errorf("a1 not nested under a:\n%s", got)
	}
}
