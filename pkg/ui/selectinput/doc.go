// Package selectinput is a searchable select for the terminal, built on
// bubbles/list and bubbles/textinput.
//
// Four constructors cover the usual variants:
//
//   - [New] filters a static option list
//   - [NewAsync] loads options from a [Loader] as the user types
//   - [NewCreatable] additionally offers to create the typed value
//   - [NewAsyncCreatable] combines both
//
// Every variant renders its control with the themed bordered input unless
// the caller supplies [Components].Control, and merges caller [Styles] over
// the themed defaults key by key.
package selectinput
