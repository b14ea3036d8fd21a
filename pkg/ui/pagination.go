package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/adminstack/pkg/table"
)

// Arrow glyphs of the pagination toolbar.
const (
	ArrowPrevious = "‹"
	ArrowNext     = "›"
)

// Pagination is the toolbar below a table: the row count on the left and
// previous/next arrows on the right.
type Pagination struct {
	TotalCount int

	// RowName labels the count, e.g. "users".
	RowName string

	// RowNameFunc, when set, takes precedence over RowName and receives
	// the total count, e.g. to pluralize.
	RowNameFunc func(count int) string

	Actions *table.PagingActions
	Theme   Theme
}

// Label returns "{count} {rowName}".
func (p Pagination) Label() string {
	name := p.RowName
	if p.RowNameFunc != nil {
		name = p.RowNameFunc(p.TotalCount)
	}
	return strings.TrimSpace(fmt.Sprintf("%d %s", p.TotalCount, name))
}

// View renders the toolbar. Arrows without an action are dimmed.
func (p Pagination) View() string {
	arrow := func(glyph string, enabled bool) string {
		if enabled {
			return p.Theme.ActiveStyle().Render(glyph)
		}
		return p.Theme.DimStyle().Render(glyph)
	}
	return p.Theme.TextStyle().Render(p.Label()) + "  " +
		arrow(ArrowPrevious, p.Actions.HasPrevious()) + " " +
		arrow(ArrowNext, p.Actions.HasNext())
}

// PageChangedMsg reports the outcome of a page change started by
// PaginationModel.
type PageChangedMsg struct {
	Err error
}

// PaginationModel drives a table.API from the keyboard: ← and h go to the
// previous page, → and l to the next one. Keys for missing pages are ignored.
type PaginationModel struct {
	Pagination
	API table.API
	Ctx context.Context
}

// NewPaginationModel returns a model paging api.
func NewPaginationModel(ctx context.Context, api table.API, p Pagination) PaginationModel {
	return PaginationModel{Pagination: p, API: api, Ctx: ctx}
}

func (m PaginationModel) Init() tea.Cmd { return nil }

func (m PaginationModel) Update(msg tea.Msg) (PaginationModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || m.Actions == nil {
		return m, nil
	}
	var action func(context.Context, table.API) error
	switch key.String() {
	case "left", "h":
		action = m.Actions.FetchPreviousPage
	case "right", "l":
		action = m.Actions.FetchNextPage
	}
	if action == nil {
		return m, nil
	}
	ctx, api := m.Ctx, m.API
	if ctx == nil {
		ctx = context.Background()
	}
	return m, func() tea.Msg {
		return PageChangedMsg{Err: action(ctx, api)}
	}
}

// SetTableData refreshes the count and actions from a query result.
func (m *PaginationModel) SetTableData(total int, actions *table.PagingActions) {
	m.TotalCount = total
	m.Actions = actions
}
