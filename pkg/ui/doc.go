// Package ui renders the terminal building blocks of an admin screen:
// the table pagination toolbar, the breadcrumb trail with its back button,
// and tree views of ordered hierarchies.
//
// Components are plain functions or bubbletea models that share a [Theme].
// They never navigate or fetch on their own; paging goes through a
// table.API and navigation through a stack.API supplied by the caller.
package ui
