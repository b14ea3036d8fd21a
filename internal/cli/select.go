package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/adminstack/pkg/graphql"
	nodeio "github.com/matzehuels/adminstack/pkg/io"
	"github.com/matzehuels/adminstack/pkg/table"
	"github.com/matzehuels/adminstack/pkg/ui/selectinput"
)

type selectOpts struct {
	file        string
	endpoint    string
	queryFile   string
	rowsPath    string
	valueField  string
	labelField  string
	placeholder string
	creatable   bool
	height      int
}

func (c *CLI) selectCommand() *cobra.Command {
	var opts selectOpts

	cmd := &cobra.Command{
		Use:   "select [value[=label]...]",
		Short: "Pick a value from a searchable list",
		Long: `Select shows a searchable list and prints the chosen value. Options come
from the arguments, from a JSON rows file, or are loaded from a GraphQL
endpoint as you type (the typed text is sent as the "query" variable).

With --creatable the typed text can be picked as a new value.`,
		Example: `  adminstack select red=Red green=Green blue=Blue
  adminstack select --file users.json --value-field id --label-field name
  adminstack select --endpoint https://admin.example.com/graphql \
      --query-file tags.graphql --rows-path tags --creatable`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.newSelect(cmd.Context(), args, opts)
			if err != nil {
				return err
			}
			final, err := tea.NewProgram(selectModel{inner: m}, tea.WithContext(cmd.Context()), tea.WithOutput(os.Stderr)).Run()
			if err != nil {
				return err
			}
			opt, ok := final.(selectModel).inner.Selected()
			if !ok {
				return nil
			}
			if opt.Created {
				loggerFromContext(cmd.Context()).Info("created new value", "value", opt.Value)
			}
			fmt.Fprintln(cmd.OutOrStdout(), opt.Value)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "JSON rows file with the options")
	cmd.Flags().StringVar(&opts.endpoint, "endpoint", "", "GraphQL endpoint loading options as you type")
	cmd.Flags().StringVar(&opts.queryFile, "query-file", "", "GraphQL query document for --endpoint")
	cmd.Flags().StringVar(&opts.rowsPath, "rows-path", "", "dot path to the option list in the GraphQL data")
	cmd.Flags().StringVar(&opts.valueField, "value-field", "id", "row field holding the value")
	cmd.Flags().StringVar(&opts.labelField, "label-field", "name", "row field holding the label")
	cmd.Flags().StringVar(&opts.placeholder, "placeholder", "Select...", "placeholder of the empty input")
	cmd.Flags().BoolVar(&opts.creatable, "creatable", false, "allow picking the typed text as a new value")
	cmd.Flags().IntVar(&opts.height, "height", 8, "visible options")
	return cmd
}

func (c *CLI) newSelect(ctx context.Context, args []string, opts selectOpts) (selectinput.Model, error) {
	mopts := []selectinput.Opt{
		selectinput.WithTheme(theme),
		selectinput.WithPlaceholder(opts.placeholder),
		selectinput.WithContext(ctx),
		selectinput.WithHeight(opts.height),
	}

	if opts.endpoint != "" {
		loader, err := c.graphqlLoader(ctx, opts)
		if err != nil {
			return selectinput.Model{}, err
		}
		if opts.creatable {
			return selectinput.NewAsyncCreatable(loader, mopts...), nil
		}
		return selectinput.NewAsync(loader, mopts...), nil
	}

	var options []selectinput.Option
	if opts.file != "" {
		rows, err := nodeio.ImportRows(opts.file)
		if err != nil {
			return selectinput.Model{}, err
		}
		options = rowOptions(rows, opts.valueField, opts.labelField)
	}
	for _, a := range args {
		value, label, ok := strings.Cut(a, "=")
		if !ok {
			label = value
		}
		options = append(options, selectinput.Option{Value: value, Label: label})
	}
	if len(options) == 0 && !opts.creatable {
		return selectinput.Model{}, fmt.Errorf("no options given")
	}
	if opts.creatable {
		return selectinput.NewCreatable(options, mopts...), nil
	}
	return selectinput.New(options, mopts...), nil
}

func (c *CLI) graphqlLoader(ctx context.Context, opts selectOpts) (selectinput.Loader, error) {
	if opts.queryFile == "" || opts.rowsPath == "" {
		return nil, fmt.Errorf("--query-file and --rows-path are required with --endpoint")
	}
	doc, err := os.ReadFile(opts.queryFile)
	if err != nil {
		return nil, err
	}
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	client := graphql.NewClient(opts.endpoint,
		graphql.WithHeaders(cfg.GraphQL.Headers),
		graphql.WithLogger(loggerFromContext(ctx)))
	resolve := resolveGraphQL(opts.rowsPath, "")

	return func(ctx context.Context, query string) ([]selectinput.Option, error) {
		resp, err := client.Query(ctx, table.Request{
			Query:     string(doc),
			Variables: map[string]any{"query": query, "limit": cfg.Table.PageSize},
		})
		if err != nil {
			return nil, err
		}
		td := resolve(graphqlPage{Data: resp.Data})
		return rowOptions(td.Rows, opts.valueField, opts.labelField), nil
	}, nil
}

func rowOptions(rows []table.Row, valueField, labelField string) []selectinput.Option {
	out := make([]selectinput.Option, 0, len(rows))
	for _, r := range rows {
		value := cellString(r[valueField])
		if value == "" {
			continue
		}
		label := cellString(r[labelField])
		if label == "" {
			label = value
		}
		out = append(out, selectinput.Option{Value: value, Label: label})
	}
	return out
}

// selectModel quits once an option is picked.
type selectModel struct {
	inner selectinput.Model
}

func (m selectModel) Init() tea.Cmd { return m.inner.Init() }

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case selectinput.SelectedMsg:
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || (msg.Type == tea.KeyEsc && m.inner.Query() == "") {
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.inner, cmd = m.inner.Update(msg)
	return m, cmd
}

func (m selectModel) View() string {
	return StyleTitle.Render("Select") + "\n" + m.inner.View()
}
