// Package io reads and writes hierarchy nodes and table rows as JSON.
//
// # Node Format
//
// Nodes are objects with an "id" and an optional "parentId". Any other
// fields are carried through untouched, so ordering a file and writing it
// back preserves everything the producer put there:
//
//	[
//	  {"id": "products", "title": "Products"},
//	  {"id": "edit", "parentId": "products", "url": "/products/1"}
//	]
//
// The array may also be wrapped as {"nodes": [...]}. An empty or missing
// "parentId" marks a top-level node.
//
// # Row Format
//
// [ReadRows] accepts an array of objects or {"rows": [...]} and is used to
// browse JSON files as tables.
package io
