package table

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/charmbracelet/log"
)

// Sort orders accepted in the "order" variable.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// ErrNoResolver is the panic value of New when Options.Resolve is nil.
var ErrNoResolver = errors.New("table: resolve function is required")

// Request is a single query execution.
type Request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// Response carries the raw data object of a query result.
type Response struct {
	Data json.RawMessage `json:"data"`
}

// Client executes list queries. The GraphQL transport and MemoryClient
// both implement it.
type Client interface {
	Query(ctx context.Context, req Request) (*Response, error)
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, req Request) (*Response, error)

// Query implements Client.
func (f ClientFunc) Query(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}

// TableData is the table view of a query result.
type TableData[R any] struct {
	Rows          []R
	TotalCount    int
	PagingActions *PagingActions
}

// Scroller is the view a query scrolls into view before paging.
type Scroller interface {
	ScrollIntoView()
}

// ScrollerFunc adapts a function to the Scroller interface.
type ScrollerFunc func()

// ScrollIntoView implements Scroller.
func (f ScrollerFunc) ScrollIntoView() { f() }

// API is the control surface views use to drive a bound query.
type API interface {
	ChangeFilters(ctx context.Context, filters map[string]any) error
	ChangeSort(ctx context.Context, column string) error
	ChangePage(ctx context.Context, vars map[string]any) error
	Variables() map[string]any
	QueryDocument() string
	OnRowCreated(id string)
	OnRowDeleted()
	AttachScroller(s Scroller)
}

// Options configure a Query.
type Options[D, R any] struct {
	// Variables are the base variables sent with every fetch.
	Variables map[string]any

	// Resolve maps the decoded data object to table data.
	Resolve func(D) TableData[R]

	// Selection, when set, is told about created and deleted rows.
	Selection SelectionAPI

	// Logger defaults to log.Default().
	Logger *log.Logger
}

// Result is a snapshot of a Query's state.
type Result[D, R any] struct {
	// Data is the last successfully fetched data, nil before the first success.
	Data *D

	// TableData is Resolve(*Data), nil when Data is nil.
	TableData *TableData[R]

	Loading bool
	Err     error
}

// Query is a list query bound to a table. It is safe for concurrent use.
type Query[D, R any] struct {
	client   Client
	document string
	opts     Options[D, R]
	logger   *log.Logger

	mu       sync.Mutex
	filters  map[string]any
	sort     string
	order    string
	data     *D
	loading  int
	err      error
	seq      uint64
	applied  uint64
	scroller Scroller
}

// New binds document to client. It panics if opts.Resolve is nil.
func New[D, R any](client Client, document string, opts Options[D, R]) *Query[D, R] {
	if opts.Resolve == nil {
		panic(ErrNoResolver)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Query[D, R]{
		client:   client,
		document: document,
		opts:     opts,
		logger:   logger,
		filters:  map[string]any{},
	}
}

var _ API = (*Query[struct{}, struct{}])(nil)

// Refetch runs the query with the current variables.
func (q *Query[D, R]) Refetch(ctx context.Context) error {
	return q.fetch(ctx, q.Variables(), nil)
}

// Variables returns base variables overlaid with filters and, when a sort
// column is set, "sort" and "order".
func (q *Query[D, R]) Variables() map[string]any {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.variablesLocked()
}

func (q *Query[D, R]) variablesLocked() map[string]any {
	vars := make(map[string]any, len(q.opts.Variables)+len(q.filters)+2)
	maps.Copy(vars, q.opts.Variables)
	maps.Copy(vars, q.filters)
	if q.sort != "" {
		vars["sort"] = q.sort
		vars["order"] = q.order
	}
	return vars
}

// QueryDocument returns the bound query text.
func (q *Query[D, R]) QueryDocument() string { return q.document }

// Sort returns the current sort column and order.
func (q *Query[D, R]) Sort() (column, order string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.sort, q.order
}

// Filters returns a copy of the current filters.
func (q *Query[D, R]) Filters() map[string]any {
	q.mu.Lock()
	defer q.mu.Unlock()
	return maps.Clone(q.filters)
}

// ChangeFilters replaces the filters and refetches.
func (q *Query[D, R]) ChangeFilters(ctx context.Context, filters map[string]any) error {
	q.mu.Lock()
	q.filters = maps.Clone(filters)
	if q.filters == nil {
		q.filters = map[string]any{}
	}
	vars := q.variablesLocked()
	q.mu.Unlock()
	return q.fetch(ctx, vars, nil)
}

// ChangeSort sorts by column. Sorting by the current column again flips
// the order, a new column starts ascending. The sort state is committed
// only when the fetch succeeds.
func (q *Query[D, R]) ChangeSort(ctx context.Context, column string) error {
	q.mu.Lock()
	order := OrderAsc
	if q.sort == column && q.order == OrderAsc {
		order = OrderDesc
	}
	vars := q.variablesLocked()
	q.mu.Unlock()

	vars["sort"] = column
	vars["order"] = order
	return q.fetch(ctx, vars, func() {
		q.sort = column
		q.order = order
	})
}

// ChangePage scrolls the attached view into view and fetches with the
// current variables overlaid by vars. The page result replaces the data.
func (q *Query[D, R]) ChangePage(ctx context.Context, vars map[string]any) error {
	q.mu.Lock()
	s := q.scroller
	merged := q.variablesLocked()
	q.mu.Unlock()

	if s != nil {
		s.ScrollIntoView()
	}
	maps.Copy(merged, vars)
	return q.fetch(ctx, merged, nil)
}

// AttachScroller sets the view scrolled into view on page changes.
func (q *Query[D, R]) AttachScroller(s Scroller) {
	q.mu.Lock()
	q.scroller = s
	q.mu.Unlock()
}

// OnRowCreated selects id in the selection, if any.
func (q *Query[D, R]) OnRowCreated(id string) {
	if q.opts.Selection != nil {
		q.opts.Selection.SelectID(id)
	}
}

// OnRowDeleted clears the selection, if any.
func (q *Query[D, R]) OnRowDeleted() {
	if q.opts.Selection != nil {
		q.opts.Selection.Deselect()
	}
}

// Result returns the current state. Data is kept from the last success
// while a fetch is loading or after it failed.
func (q *Query[D, R]) Result() Result[D, R] {
	q.mu.Lock()
	res := Result[D, R]{Data: q.data, Loading: q.loading > 0, Err: q.err}
	q.mu.Unlock()

	if res.Data != nil {
		td := q.opts.Resolve(*res.Data)
		res.TableData = &td
	}
	return res
}

// fetch executes the query. Results older than the last applied one are
// discarded so a slow page never overwrites a newer one. commit runs under
// the lock when the result is applied.
func (q *Query[D, R]) fetch(ctx context.Context, vars map[string]any, commit func()) error {
	q.mu.Lock()
	q.seq++
	seq := q.seq
	q.loading++
	q.mu.Unlock()

	q.logger.Debug("table fetch", "vars", vars)
	data, err := q.execute(ctx, vars)

	q.mu.Lock()
	defer q.mu.Unlock()
	q.loading--
	if seq < q.applied {
		q.logger.Debug("table fetch superseded", "seq", seq)
		return err
	}
	q.applied = seq
	if err != nil {
		q.err = err
		return err
	}
	q.err = nil
	q.data = data
	if commit != nil {
		commit()
	}
	return nil
}

func (q *Query[D, R]) execute(ctx context.Context, vars map[string]any) (*D, error) {
	resp, err := q.client.Query(ctx, Request{Query: q.document, Variables: vars})
	if err != nil {
		return nil, err
	}
	if resp == nil || len(resp.Data) == 0 || string(resp.Data) == "null" {
		return nil, fmt.Errorf("table: empty response")
	}
	var d D
	if err := json.Unmarshal(resp.Data, &d); err != nil {
		return nil, fmt.Errorf("table: decode response: %w", err)
	}
	return &d, nil
}
