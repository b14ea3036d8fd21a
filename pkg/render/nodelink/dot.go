package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/adminstack/pkg/hierarchy"
	"github.com/matzehuels/adminstack/pkg/stack"
)

// Node is one box of the diagram.
type Node struct {
	ID       string
	ParentID string
	Label    string

	// Dashed draws the node with a dashed grey outline.
	Dashed bool

	// Meta is listed under the label in detailed diagrams.
	Meta map[string]string
}

// Options configures ToDOT.
type Options struct {
	// Detailed adds Meta lines to node labels.
	Detailed bool
}

// FromBreadcrumbs converts breadcrumbs in their given order. Invisible
// breadcrumbs are dashed.
func FromBreadcrumbs(crumbs []stack.Breadcrumb) []Node {
	nodes := make([]Node, len(crumbs))
	for i, b := range crumbs {
		label := b.Title
		if label == "" {
			label = b.ID
		}
		nodes[i] = Node{
			ID:       b.ID,
			ParentID: b.ParentID,
			Label:    label,
			Dashed:   b.Invisible,
			Meta:     map[string]string{"url": b.URL},
		}
	}
	return nodes
}

// FromSwitches converts switches in their given order.
func FromSwitches(switches []stack.Switch) []Node {
	nodes := make([]Node, len(switches))
	for i, s := range switches {
		meta := map[string]string{}
		if s.ActivePage != "" {
			meta["active"] = s.ActivePage
		}
		nodes[i] = Node{ID: s.ID, ParentID: s.ParentID, Label: s.ID, Meta: meta}
	}
	return nodes
}

// FromItems converts any hierarchy. Items implementing fmt.Stringer are
// labelled by String, others by node id.
func FromItems[N hierarchy.Node](items []N) []Node {
	nodes := make([]Node, len(items))
	for i, it := range items {
		label := it.NodeID()
		if s, ok := any(it).(fmt.Stringer); ok {
			label = s.String()
		}
		nodes[i] = Node{ID: it.NodeID(), ParentID: it.ParentNodeID(), Label: label}
	}
	return nodes
}

// ToDOT returns Graphviz DOT source for nodes. Edges are only drawn to
// parents that are present, so orphans appear as separate roots.
func ToDOT(nodes []Node, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	present := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		present[n.ID] = true
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(fmtAttrs(n, opts), ", "))
	}

	buf.WriteString("\n")
	for _, n := range nodes {
		if n.ParentID != hierarchy.Root && present[n.ParentID] {
			fmt.Fprintf(&buf, "  %q -> %q;\n", n.ParentID, n.ID)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n Node, detailed bool) string {
	if !detailed || len(n.Meta) == 0 {
		return n.Label
	}
	parts := []string{n.Label}
	for _, k := range slices.Sorted(maps.Keys(n.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %s", k, n.Meta[k]))
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(n Node, opts Options) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed))}
	if n.Dashed {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=gray30")
	}
	return attrs
}

// RenderSVG renders DOT source to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the root svg tag with one whose size matches
// its viewBox, so the diagram scales cleanly when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
