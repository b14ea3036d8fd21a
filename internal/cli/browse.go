package cli

import (
	"context"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/adminstack/pkg/cache"
	"github.com/matzehuels/adminstack/pkg/graphql"
	nodeio "github.com/matzehuels/adminstack/pkg/io"
	"github.com/matzehuels/adminstack/pkg/table"
	"github.com/matzehuels/adminstack/pkg/ui"
)

type browseOpts struct {
	endpoint  string
	queryFile string
	rowsPath  string
	totalPath string
	columns   []string
	idColumn  string
	rowName   string
	pageSize  int
	noCache   bool
}

func (c *CLI) browseCommand() *cobra.Command {
	var opts browseOpts

	cmd := &cobra.Command{
		Use:   "browse [rows.json]",
		Short: "Browse a paged table interactively",
		Long: `Browse shows rows page by page with the pagination toolbar below the
table. Rows come from a JSON file (an array of objects, or {"rows": [...]})
or from a GraphQL endpoint queried with "offset" and "limit" variables.

Keys: ↑/↓ move, ←/→ page, tab pick column, s sort, / filter, enter select,
r reload, q quit. The selected row is printed as JSON on exit.`,
		Example: `  adminstack browse users.json --columns id,name,email
  adminstack browse --endpoint https://admin.example.com/graphql \
      --query-file users.graphql --rows-path users.items --total-path users.total`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if opts.pageSize == 0 {
				opts.pageSize = cfg.Table.PageSize
			}
			if opts.endpoint == "" {
				opts.endpoint = cfg.GraphQL.Endpoint
			}

			var m tea.Model
			switch {
			case len(args) == 1:
				rows, err := nodeio.ImportRows(args[0])
				if err != nil {
					return err
				}
				m = newMemoryBrowser(cmd.Context(), rows, opts)
			case opts.endpoint != "":
				m, err = c.newGraphQLBrowser(cmd.Context(), opts)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("give a rows file or a GraphQL endpoint")
			}

			final, err := tea.NewProgram(m, tea.WithContext(cmd.Context()), tea.WithOutput(os.Stderr)).Run()
			if err != nil {
				return err
			}
			if row := selectedRow(final); row != nil {
				return nodeio.WriteJSON(cmd.OutOrStdout(), row)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.endpoint, "endpoint", "", "GraphQL endpoint (default from config)")
	cmd.Flags().StringVar(&opts.queryFile, "query-file", "", "file holding the GraphQL query document")
	cmd.Flags().StringVar(&opts.rowsPath, "rows-path", "", "dot path to the row list in the GraphQL data")
	cmd.Flags().StringVar(&opts.totalPath, "total-path", "", "dot path to the total count in the GraphQL data")
	cmd.Flags().StringSliceVar(&opts.columns, "columns", nil, "columns to show (default: keys of the first row)")
	cmd.Flags().StringVar(&opts.idColumn, "id-column", "id", "column identifying a row")
	cmd.Flags().StringVar(&opts.rowName, "row-name", "rows", "what the count label calls rows")
	cmd.Flags().IntVar(&opts.pageSize, "page-size", 0, "rows per page (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable response caching")
	return cmd
}

func newMemoryBrowser(ctx context.Context, rows []table.Row, opts browseOpts) *browseModel[table.MemoryData] {
	q := table.New(table.NewMemoryClient(rows), "", table.Options[table.MemoryData, table.Row]{
		Variables: map[string]any{"offset": 0, "limit": opts.pageSize},
		Resolve:   table.ResolveMemory,
		Logger:    loggerFromContext(ctx),
	})
	return newBrowseModel(ctx, q, opts)
}

func (c *CLI) newGraphQLBrowser(ctx context.Context, opts browseOpts) (*browseModel[graphqlPage], error) {
	if opts.queryFile == "" || opts.rowsPath == "" {
		return nil, fmt.Errorf("--query-file and --rows-path are required with a GraphQL endpoint")
	}
	doc, err := os.ReadFile(opts.queryFile)
	if err != nil {
		return nil, err
	}
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	gopts := []graphql.Option{
		graphql.WithHeaders(cfg.GraphQL.Headers),
		graphql.WithLogger(loggerFromContext(ctx)),
	}
	if cfg.GraphQL.CacheTTL > 0 && !opts.noCache {
		cc, err := c.newCache(ctx, false)
		if err != nil {
			return nil, err
		}
		gopts = append(gopts, graphql.WithCache(cc, cfg.GraphQL.CacheTTL),
			graphql.WithKeyer(cache.NewScopedKeyer(cache.NewDefaultKeyer(), "browse")))
	}
	client := pagedClient(graphql.NewClient(opts.endpoint, gopts...))

	q := table.New(client, string(doc), table.Options[graphqlPage, table.Row]{
		Variables: map[string]any{"offset": 0, "limit": opts.pageSize},
		Resolve:   resolveGraphQL(opts.rowsPath, opts.totalPath),
		Logger:    loggerFromContext(ctx),
	})
	return newBrowseModel(ctx, q, opts), nil
}

// fetchedMsg reports the end of a refetch, sort or filter change.
type fetchedMsg struct{ err error }

// browseModel is a table view over any table.Query producing rows.
type browseModel[D any] struct {
	ctx       context.Context
	query     *table.Query[D, table.Row]
	selection *table.Selection
	pager     ui.PaginationModel
	filter    textinput.Model
	scrolled  *atomic.Bool

	columns   []string
	idColumn  string
	cursor    int
	column    int
	filtering bool
	chosen    table.Row
	err       error
}

func newBrowseModel[D any](ctx context.Context, q *table.Query[D, table.Row], opts browseOpts) *browseModel[D] {
	m := &browseModel[D]{
		ctx:       ctx,
		query:     q,
		selection: &table.Selection{},
		columns:   opts.columns,
		idColumn:  opts.idColumn,
		scrolled:  &atomic.Bool{},
	}
	m.pager = ui.NewPaginationModel(ctx, q, ui.Pagination{RowName: opts.rowName, Theme: theme})
	m.filter = textinput.New()
	m.filter.Prompt = "/ "
	m.filter.Placeholder = "filter"
	q.AttachScroller(table.ScrollerFunc(func() { m.scrolled.Store(true) }))
	return m
}

func (m *browseModel[D]) Init() tea.Cmd {
	return m.run(m.query.Refetch)
}

func (m *browseModel[D]) run(fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg { return fetchedMsg{err: fn(ctx)} }
}

func (m *browseModel[D]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case fetchedMsg:
		m.err = msg.err
		m.refresh()
		return m, nil
	case ui.PageChangedMsg:
		m.err = msg.Err
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m *browseModel[D]) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.filtering = false
		m.filter.Blur()
		filters := map[string]any{}
		if v := strings.TrimSpace(m.filter.Value()); v != "" {
			filters["query"] = v
		}
		m.cursor = 0
		return m, m.run(func(ctx context.Context) error { return m.query.ChangeFilters(ctx, filters) })
	case tea.KeyEsc:
		m.filtering = false
		m.filter.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	return m, cmd
}

func (m *browseModel[D]) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.rows()
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(rows)-1 {
			m.cursor++
		}
	case "tab":
		if cols := m.visibleColumns(); len(cols) > 0 {
			m.column = (m.column + 1) % len(cols)
		}
	case "s":
		if cols := m.visibleColumns(); len(cols) > 0 {
			col := cols[m.column]
			return m, m.run(func(ctx context.Context) error { return m.query.ChangeSort(ctx, col) })
		}
	case "/":
		m.filtering = true
		return m, m.filter.Focus()
	case "r":
		return m, m.run(m.query.Refetch)
	case "enter":
		if m.cursor < len(rows) {
			row := rows[m.cursor]
			m.selection.SelectID(cellString(row[m.idColumn]))
			m.chosen = row
			return m, tea.Quit
		}
	default:
		var cmd tea.Cmd
		m.pager, cmd = m.pager.Update(msg)
		return m, cmd
	}
	return m, nil
}

// refresh pulls count and paging actions from the query result.
func (m *browseModel[D]) refresh() {
	if m.scrolled.Swap(false) {
		m.cursor = 0
	}
	res := m.query.Result()
	if res.TableData == nil {
		return
	}
	m.pager.SetTableData(res.TableData.TotalCount, res.TableData.PagingActions)
	m.cursor = min(m.cursor, max(len(res.TableData.Rows)-1, 0))
}

func (m *browseModel[D]) rows() []table.Row {
	if td := m.query.Result().TableData; td != nil {
		return td.Rows
	}
	return nil
}

func (m *browseModel[D]) visibleColumns() []string {
	if len(m.columns) > 0 {
		return m.columns
	}
	rows := m.rows()
	if len(rows) == 0 {
		return nil
	}
	cols := slices.Sorted(maps.Keys(rows[0]))
	if i := slices.Index(cols, m.idColumn); i > 0 {
		cols = append([]string{m.idColumn}, slices.Delete(cols, i, i+1)...)
	}
	return cols
}

func (m *browseModel[D]) View() string {
	var b strings.Builder
	res := m.query.Result()

	b.WriteString(StyleTitle.Render("Browse"))
	if f := m.query.Filters()["query"]; f != nil {
		b.WriteString(StyleDim.Render(fmt.Sprintf("  filter: %v", f)))
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ move  ←/→ page  tab column  s sort  / filter  ⏎ select  q quit"))
	b.WriteString("\n\n")

	if m.filtering {
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
	}

	rows := m.rows()
	cols := m.visibleColumns()
	switch {
	case res.TableData == nil && res.Loading:
		b.WriteString(StyleDim.Render("Loading..."))
	case len(rows) == 0:
		b.WriteString(StyleDim.Render("No rows"))
	default:
		b.WriteString(m.renderTable(rows, cols))
	}
	b.WriteString("\n\n")

	b.WriteString(m.pager.View())
	if a := m.pager.Actions; a != nil && a.TotalPages > 0 {
		b.WriteString(StyleDim.Render(fmt.Sprintf("  page %d/%d", a.Page, a.TotalPages)))
	}
	if res.Loading {
		b.WriteString(StyleDim.Render("  loading"))
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(theme.ErrorStyle().Render(m.err.Error()))
	}
	return b.String()
}

func (m *browseModel[D]) renderTable(rows []table.Row, cols []string) string {
	sortCol, order := m.query.Sort()
	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c
		if c == sortCol {
			if order == table.OrderDesc {
				headers[i] += " ▼"
			} else {
				headers[i] += " ▲"
			}
		}
	}

	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = make([]string, len(cols))
		for j, c := range cols {
			cells[i][j] = cellString(r[c])
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(theme.Muted).Bold(true)
	return lgtable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Dim)).
		Headers(headers...).
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == lgtable.HeaderRow {
				if col == m.column {
					return headerStyle.Foreground(theme.Primary)
				}
				return headerStyle
			}
			if row == m.cursor {
				return lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(theme.Text)
		}).
		Render()
}

// selectedRow returns the row picked in a finished browse program.
func selectedRow(m tea.Model) table.Row {
	switch b := m.(type) {
	case *browseModel[table.MemoryData]:
		return b.chosen
	case *browseModel[graphqlPage]:
		return b.chosen
	}
	return nil
}
