// Package pkg provides the core libraries of adminstack.
//
// # Overview
//
// Adminstack keeps the navigation state of admin interfaces: which pages a
// user walked through, which tab switches are active, and which page of a
// data table is shown. Everything is built on one primitive, ordering a
// parent/child hierarchy parents-first.
//
//  1. [hierarchy] - Pre-order of nodes that name their parent
//  2. [stack] - Breadcrumb and switch registry with back navigation
//  3. [table] - Paged, sorted and filtered queries against a data source
//  4. [ui] - Terminal components (breadcrumbs, pagination, select, tree)
//  5. [server] - The stack over HTTP, one stack per session
//
// # Architecture
//
// A page registers its breadcrumb when it opens and removes it when it
// closes. The stack orders all registrations with [hierarchy] and exposes
// the visible trail:
//
//	Page registrations (id, parentId, url, title)
//	         ↓
//	    [hierarchy] package (pre-order, orphans dropped)
//	         ↓
//	    [stack] package (visible trail, back targets)
//	         ↓
//	    [ui] header or [server] JSON
//
// # Quick Start
//
//	st := stack.New(stack.NavigatorFunc(func(ctx context.Context, url string) error {
//	    fmt.Println("navigate to", url)
//	    return nil
//	}), stack.WithTopLevel("top", "Home", "/"))
//
//	products, _ := stack.Register(st, "top", "/products", "Products", false)
//	defer products.Remove()
//
//	header, _ := ui.Header(st, ui.DefaultTheme())
//	fmt.Println(header)
//
//	_ = st.GoBack(ctx) // navigate to /
//
// # Main Packages
//
// [hierarchy] - Generic over any type with NodeID and ParentNodeID.
// [hierarchy.Diagnose] explains what ordering drops.
//
// [stack] - Thread-safe state with snapshot subscriptions. Invisible
// breadcrumbs hand their URL to the visible breadcrumb before them.
//
// [table] - Query binds a document and base variables to a [table.Client].
// Sort, filter and page changes refetch; stale responses are discarded.
//
// [graphql] - HTTP client implementing [table.Client], with retries and an
// optional response [cache].
//
// [session] - Persistent stack state in files or Redis.
//
// [render/nodelink] - Graphviz diagrams of any hierarchy.
//
// # Infrastructure
//
// [cache] - File, Redis and null caches for query responses.
//
// [config] - TOML settings.
//
// [errors] - Error codes shared by the CLI and the HTTP API.
//
// [observability] - Hooks for ordering, cache and HTTP activity.
//
// [hierarchy]: https://pkg.go.dev/github.com/matzehuels/adminstack/pkg/hierarchy
// [stack]: https://pkg.go.dev/github.com/matzehuels/adminstack/pkg/stack
// [table]: https://pkg.go.dev/github.com/matzehuels/adminstack/pkg/table
// [ui]: https://pkg.go.dev/github.com/matzehuels/adminstack/pkg/ui
// [server]: https://pkg.go.dev/github.com/matzehuels/adminstack/pkg/server
// [graphql]: https://pkg.go.dev/github.com/matzehuels/adminstack/pkg/graphql
// [session]: https://pkg.go.dev/github.com/matzehuels/adminstack/pkg/session
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/adminstack/pkg/render/nodelink
// [cache]: https://pkg.go.dev/github.com/matzehuels/adminstack/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/adminstack/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/adminstack/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/adminstack/pkg/observability
package pkg
