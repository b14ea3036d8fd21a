// Package nodelink draws breadcrumb and switch hierarchies as Graphviz
// node-link diagrams.
//
// [ToDOT] emits DOT source with one box per node and an edge from every
// parent to its children, laid out top to bottom. Invisible breadcrumbs are
// drawn dashed and grey since they never show up in the trail. [RenderSVG]
// renders DOT in-process with [github.com/goccy/go-graphviz]:
//
//	dot := nodelink.ToDOT(nodelink.FromBreadcrumbs(state.Breadcrumbs), nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
package nodelink
