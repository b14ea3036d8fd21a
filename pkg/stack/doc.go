// Package stack tracks the breadcrumbs and tab switches of nested admin views
// and provides back navigation.
//
// A [Stack] is the single owner of navigation state for one view tree. Nested
// views never touch the state directly; they receive the [API] capability and
// register themselves through it, typically with [Register] on mount and
// [Handle.Remove] on unmount. Every mutation produces a new immutable
// [State] snapshot, so readers and subscribers never observe a half-applied
// update.
//
// Registration order is mount order, which is not nesting order. Consumers
// therefore read [Stack.VisibleBreadcrumbs] and [Stack.Switches], which order
// entries by parent ID with [hierarchy.Order].
//
// # Invisible Breadcrumbs
//
// A breadcrumb marked invisible is not shown in the trail. Instead its URL
// replaces the URL of the closest visible breadcrumb before it, so clicking
// that crumb returns to the deepest page of the collapsed run:
//
//	A(/1) → B(/2, invisible) → C(/3)   shows   A(/2) → C(/3)
//
// # Navigation
//
// The router is not part of this package. A [Navigator] is injected into
// [New] and receives the target URL of [Stack.GoBack] and [Stack.GoAllBack].
package stack
