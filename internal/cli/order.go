package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/adminstack/pkg/hierarchy"
	nodeio "github.com/matzehuels/adminstack/pkg/io"
	"github.com/matzehuels/adminstack/pkg/render"
	"github.com/matzehuels/adminstack/pkg/render/nodelink"
	"github.com/matzehuels/adminstack/pkg/ui"
)

type orderOpts struct {
	output   string
	tree     bool
	dot      bool
	render   string
	detailed bool
	diagnose bool
	scale    float64
}

func (c *CLI) orderCommand() *cobra.Command {
	var opts orderOpts

	cmd := &cobra.Command{
		Use:   "order [file]",
		Short: "Order a node hierarchy parents-first",
		Long: `Order reads JSON nodes with "id" and "parentId" fields and prints them
in pre-order: every node after its parent, siblings in input order. Nodes
whose parent is missing are dropped together with their descendants.

Reads stdin when no file (or "-") is given.`,
		Example: `  adminstack order pages.json
  adminstack order pages.json --tree
  adminstack order pages.json --render pages.svg
  cat pages.json | adminstack order --diagnose`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return c.runOrder(cmd.Context(), cmd.OutOrStdout(), path, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write ordered JSON to file instead of stdout")
	cmd.Flags().BoolVar(&opts.tree, "tree", false, "print the hierarchy as a tree")
	cmd.Flags().BoolVar(&opts.dot, "dot", false, "print Graphviz DOT")
	cmd.Flags().StringVar(&opts.render, "render", "", "render a diagram to file (.svg, .png, .pdf, .dot)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "list extra fields in diagram labels")
	cmd.Flags().BoolVar(&opts.diagnose, "diagnose", false, "report orphans, cycles and duplicates instead of ordering")
	cmd.Flags().Float64Var(&opts.scale, "scale", 2, "PNG scale factor")
	cmd.MarkFlagsMutuallyExclusive("tree", "dot", "diagnose")

	return cmd
}

func (c *CLI) runOrder(ctx context.Context, w io.Writer, path string, opts orderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	recs, err := nodeio.ImportNodes(path)
	if err != nil {
		return err
	}
	logger.Debug("read nodes", "path", path, "count", len(recs))

	if opts.diagnose {
		return printDiagnosis(w, hierarchy.Diagnose(recs))
	}

	ordered, err := hierarchy.OrderObserved(ctx, "nodes", recs)
	if err != nil {
		return err
	}
	if dropped := len(recs) - len(ordered); dropped > 0 {
		logger.Warn("dropped unreachable nodes", "count", dropped)
	}

	switch {
	case opts.tree:
		fmt.Fprintln(w, ui.Tree(ordered, nodeio.Record.String, theme))
	case opts.dot:
		fmt.Fprint(w, nodelink.ToDOT(recordNodes(ordered, opts.detailed), nodelink.Options{Detailed: opts.detailed}))
	case opts.output != "":
		if err := nodeio.ExportNodes(opts.output, ordered); err != nil {
			return err
		}
		printSuccess(w, "Ordered %d nodes", len(ordered))
		printFile(w, opts.output)
	case opts.render == "":
		if err := nodeio.WriteNodes(w, ordered); err != nil {
			return err
		}
	}

	if opts.render != "" {
		if err := c.renderNodes(ctx, w, recordNodes(ordered, opts.detailed), opts.render, opts.detailed, opts.scale); err != nil {
			return err
		}
	}
	prog.done(fmt.Sprintf("Ordered %d nodes", len(ordered)))
	return nil
}

// recordNodes converts records to diagram nodes, carrying string fields
// as metadata.
func recordNodes(recs []nodeio.Record, detailed bool) []nodelink.Node {
	nodes := nodelink.FromItems(recs)
	if !detailed {
		return nodes
	}
	for i, r := range recs {
		meta := map[string]string{}
		for k := range r.Extra {
			var s string
			if ok, err := r.Field(k, &s); ok && err == nil && s != "" && s != nodes[i].Label {
				meta[k] = s
			}
		}
		nodes[i].Meta = meta
	}
	return nodes
}

// renderNodes writes a diagram of nodes to path, the format taken from
// the file extension.
func (c *CLI) renderNodes(ctx context.Context, w io.Writer, nodes []nodelink.Node, path string, detailed bool, scale float64) error {
	format, err := render.FormatFromPath(path)
	if err != nil {
		return err
	}
	dot := nodelink.ToDOT(nodes, nodelink.Options{Detailed: detailed})
	if format == render.FormatDOT {
		return writeRendered(w, path, []byte(dot))
	}

	spin := newSpinner(ctx, os.Stderr, "Rendering "+string(format)+"...")
	spin.Start()
	data, err := nodelink.RenderSVG(ctx, dot)
	if err == nil {
		switch format {
		case render.FormatPNG:
			data, err = render.ToPNG(data, scale)
		case render.FormatPDF:
			data, err = render.ToPDF(data)
		}
	}
	spin.Stop()
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}
	return writeRendered(w, path, data)
}

func writeRendered(w io.Writer, path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	printSuccess(w, "Rendered diagram")
	printFile(w, path)
	return nil
}

func printDiagnosis(w io.Writer, r hierarchy.Report) error {
	if r.OK() {
		printSuccess(w, "All nodes are reachable")
		return nil
	}
	list := func(ids []string) string { return strings.Join(ids, ", ") }
	if len(r.Orphans) > 0 {
		printWarning(w, "%d orphaned", len(r.Orphans))
		printDetail(w, "%s", list(r.Orphans))
	}
	if len(r.Unreachable) > 0 {
		printWarning(w, "%d unreachable", len(r.Unreachable))
		printDetail(w, "%s", list(r.Unreachable))
	}
	for _, cycle := range r.Cycles {
		printError(w, "cycle: %s", list(cycle))
	}
	if len(r.Duplicates) > 0 {
		printError(w, "duplicate ids: %s", list(r.Duplicates))
	}
	if r.EmptyIDs > 0 {
		printError(w, "%d nodes without id", r.EmptyIDs)
	}
	printKeyValue(w, "dropped", fmt.Sprint(r.Dropped()))
	return nil
}
