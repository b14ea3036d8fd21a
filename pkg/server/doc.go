// Package server exposes hierarchy ordering and per-session navigation
// stacks over HTTP.
//
// Every stack lives in a [session.Store] under the session ID taken from
// the URL. Requests load the stored state, apply one operation and write
// the state back, so any number of server processes can share a Redis
// backed store.
//
// # Routes
//
//	GET    /healthz
//	GET    /version
//	POST   /order                              nodes in, ordered nodes out
//	POST   /order?diagnose=1                   nodes in, diagnosis out
//	GET    /stacks/{session}                   full state
//	DELETE /stacks/{session}
//	GET    /stacks/{session}/breadcrumbs       ordered breadcrumbs
//	POST   /stacks/{session}/breadcrumbs
//	PUT    /stacks/{session}/breadcrumbs/{id}
//	DELETE /stacks/{session}/breadcrumbs/{id}
//	GET    /stacks/{session}/visible           trail with invisible entries collapsed
//	POST   /stacks/{session}/back              {"url": ...} of the previous page
//	POST   /stacks/{session}/back/all          {"url": ...} of the top-level page
//	GET    /stacks/{session}/switches
//	PUT    /stacks/{session}/switches/{id}
//	DELETE /stacks/{session}/switches/{id}
//
// Errors are returned as {"code": ..., "message": ...} with the code taken
// from pkg/errors.
package server
