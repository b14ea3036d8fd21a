// Package hierarchy orders flat sets of parent-linked nodes.
//
// # Overview
//
// Admin views register breadcrumbs and tab switches in mount order, which
// rarely matches their logical nesting. Each registration only knows its own
// ID and the ID of the view it is nested in. [Order] restores the nesting:
// every node appears after its parent, and siblings stay grouped under their
// parent in the order they were registered (depth-first, pre-order).
//
//	nodes := []hierarchy.Item{
//	    {ID: "edit", ParentID: "list"},
//	    {ID: "list", ParentID: hierarchy.Root},
//	    {ID: "detail", ParentID: "list"},
//	}
//	ordered, err := hierarchy.Order(nodes)
//	// list, edit, detail
//
// # Root Sentinel
//
// Top-level nodes carry [Root] (the empty string) as their parent ID. No node
// may use [Root] as its own ID.
//
// # Orphans and Malformed Input
//
// A node whose parent ID matches no node in the input is an orphan. Orphans,
// and everything nested below them, are dropped silently: views mount and
// unmount independently, so a child can briefly be registered before its
// parent.
//
// Duplicate IDs and cyclic parent chains are rejected with
// [ErrDuplicateNodeID] and [ErrCycle]. [Diagnose] explains what [Order] would
// drop and why.
//
// # Complexity
//
// [Order] groups children by parent ID in one pass and walks the resulting
// tree with an explicit stack, so it runs in O(n) time and never recurses.
//
// # Concurrency
//
// All functions are pure: they never mutate their input and keep no state
// between calls, so they are safe to call concurrently.
package hierarchy
