// Package render turns ordered hierarchies into diagrams.
//
// The [nodelink] subpackage produces Graphviz node-link diagrams of
// breadcrumb and switch trees. This package holds the format helpers they
// share: [FormatFromPath] maps an output file to a [Format], and [ToPDF] and
// [ToPNG] convert rendered SVG through the external rsvg-convert tool.
//
//	dot := nodelink.ToDOT(nodelink.FromBreadcrumbs(crumbs), nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(svg)
//
// [nodelink]: github.com/matzehuels/adminstack/pkg/render/nodelink
package render
