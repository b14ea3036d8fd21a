package table

import (
	"context"
	"encoding/json"
	"errors"
	"maps"
	"sync"
	"testing"
)

type userRow struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type usersData struct {
	Users struct {
		Nodes      []userRow `json:"nodes"`
		TotalCount int       `json:"totalCount"`
	} `json:"users"`
}

func resolveUsers(d usersData) TableData[userRow] {
	return TableData[userRow]{Rows: d.Users.Nodes, TotalCount: d.Users.TotalCount}
}

// recordingClient answers with a fixed data object and records requests.
type recordingClient struct {
	mu   sync.Mutex
	reqs []Request
	resp func(Request) (*Response, error)
}

func (c *recordingClient) Query(_ context.Context, req Request) (*Response, error) {
	c.mu.Lock()
	c.reqs = append(c.reqs, req)
	c.mu.Unlock()
	return c.resp(req)
}

func (c *recordingClient) last() Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reqs[len(c.reqs)-1]
}

func usersResponse(names ...string) *Response {
	var d usersData
	for i, n := range names {
		d.Users.Nodes = append(d.Users.Nodes, userRow{ID: string(rune('a' + i)), Name: n})
	}
	d.Users.TotalCount = len(names)
	b, _ := json.Marshal(d)
	return &Response{Data: b}
}

func newUsersQuery(c Client, opts Options[usersData, userRow]) *Query[usersData, userRow] {
	opts.Resolve = resolveUsers
	return New(c, "query Users { users { nodes { id name } totalCount } }", opts)
}

func TestQuery_Refetch(t *testing.T) {
	c := &recordingClient{resp: func(Request) (*Response, error) { return usersResponse("ada", "bob"), nil }}
	q := newUsersQuery(c, Options[usersData, userRow]{Variables: map[string]any{"limit": 10}})

	if res := q.Result(); res.Data != nil || res.TableData != nil {
		t.Fatalf("Result() before fetch = %+v, want empty", res)
	}
	if err := q.Refetch(context.Background()); err != nil {
		t.Fatalf("Refetch() error: %v", err)
	}

	res := q.Result()
	if res.TableData == nil || res.TableData.TotalCount != 2 || len(res.TableData.Rows) != 2 {
		t.Fatalf("TableData = %+v, want 2 rows", res.TableData)
	}
	if res.Loading || res.Err != nil {
		t.Errorf("Loading=%v Err=%v, want false, nil", res.Loading, res.Err)
	}
	if got := c.last(); got.Query != q.QueryDocument() || got.Variables["limit"] != 10 {
		t.Errorf("request = %+v", got)
	}
}

func TestQuery_Variables(t *testing.T) {
	c := &recordingClient{resp: func(Request) (*Response, error) { return usersResponse("ada"), nil }}
	base := map[string]any{"limit": 10, "query": "base"}
	q := newUsersQuery(c, Options[usersData, userRow]{Variables: base})
	ctx := context.Background()

	if got := q.Variables(); !maps.Equal(got, map[string]any{"limit": 10, "query": "base"}) {
		t.Errorf("Variables() = %v", got)
	}

	if err := q.ChangeFilters(ctx, map[string]any{"query": "ada"}); err != nil {
		t.Fatal(err)
	}
	if err := q.ChangeSort(ctx, "name"); err != nil {
		t.Fatal(err)
	}

	want := map[string]any{"limit": 10, "query": "ada", "sort": "name", "order": OrderAsc}
	if got := q.Variables(); !maps.Equal(got, want) {
		t.Errorf("Variables() = %v, want %v", got, want)
	}
	if got := c.last().Variables; !maps.Equal(got, want) {
		t.Errorf("last request variables = %v, want %v", got, want)
	}
	if base["query"] != "base" {
		t.Error("base variables were mutated")
	}

	// Filters are replaced, not merged.
	if err := q.ChangeFilters(ctx, map[string]any{"role": "admin"}); err != nil {
		t.Fatal(err)
	}
	if got := q.Variables(); got["query"] != "base" || got["role"] != "admin" {
		t.Errorf("Variables() after replacing filters = %v", got)
	}
}

func TestQuery_ChangeSort(t *testing.T) {
	fail := false
	c := &recordingClient{resp: func(Request) (*Response, error) {
		if fail {
			return nil, errors.New("down")
		}
		return usersResponse("ada"), nil
	}}
	q := newUsersQuery(c, Options[usersData, userRow]{})
	ctx := context.Background()

	steps := []struct {
		column    string
		wantOrder string
	}{
		{"name", OrderAsc},
		{"name", OrderDesc},
		{"name", OrderAsc},
		{"id", OrderAsc},
		{"id", OrderDesc},
		{"name", OrderAsc},
	}
	for i, s := range steps {
		if err := q.ChangeSort(ctx, s.column); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		col, order := q.Sort()
		if col != s.column || order != s.wantOrder {
			t.Errorf("step %d: Sort() = %s %s, want %s %s", i, col, order, s.column, s.wantOrder)
		}
	}

	fail = true
	if err := q.ChangeSort(ctx, "id"); err == nil {
		t.Fatal("ChangeSort() should fail")
	}
	if col, order := q.Sort(); col != "name" || order != OrderAsc {
		t.Errorf("failed ChangeSort committed state: %s %s", col, order)
	}
}

func TestQuery_ChangePage(t *testing.T) {
	c := &recordingClient{resp: func(r Request) (*Response, error) {
		if r.Variables["offset"] == 2 {
			return usersResponse("cyd"), nil
		}
		return usersResponse("ada", "bob"), nil
	}}
	q := newUsersQuery(c, Options[usersData, userRow]{Variables: map[string]any{"limit": 2}})
	ctx := context.Background()

	scrolled := 0
	q.AttachScroller(ScrollerFunc(func() { scrolled++ }))

	if err := q.Refetch(ctx); err != nil {
		t.Fatal(err)
	}
	if scrolled != 0 {
		t.Errorf("Refetch scrolled %d times", scrolled)
	}
	if err := q.ChangePage(ctx, map[string]any{"offset": 2}); err != nil {
		t.Fatal(err)
	}
	if scrolled != 1 {
		t.Errorf("ChangePage scrolled %d times, want 1", scrolled)
	}

	got := c.last().Variables
	if got["offset"] != 2 || got["limit"] != 2 {
		t.Errorf("page variables = %v", got)
	}
	res := q.Result()
	if len(res.TableData.Rows) != 1 || res.TableData.Rows[0].Name != "cyd" {
		t.Errorf("page result did not replace data: %+v", res.TableData.Rows)
	}
	// Page variables are not sticky.
	if _, ok := q.Variables()["offset"]; ok {
		t.Error("offset leaked into Variables()")
	}
}

func TestQuery_KeepDataDuringLoad(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	calls := 0
	c := &recordingClient{resp: func(Request) (*Response, error) {
		calls++
		switch calls {
		case 1:
			return usersResponse("ada"), nil
		case 2:
			close(started)
			<-release
			return nil, errors.New("boom")
		}
		return usersResponse("bob"), nil
	}}
	q := newUsersQuery(c, Options[usersData, userRow]{})
	ctx := context.Background()

	if err := q.Refetch(ctx); err != nil {
		t.Fatal(err)
	}

	done := make(chan error)
	go func() { done <- q.Refetch(ctx) }()
	<-started

	res := q.Result()
	if !res.Loading {
		t.Error("Loading = false during fetch")
	}
	if res.TableData == nil || res.TableData.Rows[0].Name != "ada" {
		t.Errorf("data during load = %+v, want previous rows", res.TableData)
	}

	close(release)
	if err := <-done; err == nil {
		t.Fatal("second fetch should fail")
	}
	res = q.Result()
	if res.Loading || res.Err == nil {
		t.Errorf("after failure Loading=%v Err=%v", res.Loading, res.Err)
	}
	if res.TableData.Rows[0].Name != "ada" {
		t.Error("failed fetch dropped previous data")
	}

	if err := q.Refetch(ctx); err != nil {
		t.Fatal(err)
	}
	res = q.Result()
	if res.Err != nil || res.TableData.Rows[0].Name != "bob" {
		t.Errorf("after recovery = %+v", res)
	}
}

func TestQuery_DecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		resp *Response
	}{
		{"nil response", nil},
		{"null data", &Response{Data: json.RawMessage("null")}},
		{"bad json", &Response{Data: json.RawMessage(`{"users": 1}`)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ClientFunc(func(context.Context, Request) (*Response, error) { return tt.resp, nil })
			q := newUsersQuery(c, Options[usersData, userRow]{})
			if err := q.Refetch(context.Background()); err == nil {
				t.Error("Refetch() should fail")
			}
			if q.Result().Data != nil {
				t.Error("Data should stay nil")
			}
		})
	}
}

func TestQuery_Selection(t *testing.T) {
	c := ClientFunc(func(context.Context, Request) (*Response, error) { return usersResponse(), nil })

	// Without a selection API the callbacks are no-ops.
	q := newUsersQuery(c, Options[usersData, userRow]{})
	q.OnRowCreated("x")
	q.OnRowDeleted()

	var changes []string
	sel := &Selection{OnChange: func(id string, ok bool) {
		if ok {
			changes = append(changes, "select:"+id)
		} else {
			changes = append(changes, "deselect")
		}
	}}
	q = newUsersQuery(c, Options[usersData, userRow]{Selection: sel})

	q.OnRowCreated("42")
	if id, ok := sel.Selected(); !ok || id != "42" {
		t.Errorf("Selected() = %q, %v", id, ok)
	}
	q.OnRowDeleted()
	if _, ok := sel.Selected(); ok {
		t.Error("row still selected after delete")
	}
	if len(changes) != 2 || changes[0] != "select:42" || changes[1] != "deselect" {
		t.Errorf("changes = %v", changes)
	}
}

func TestNew_RequiresResolve(t *testing.T) {
	defer func() {
		if r := recover(); r != ErrNoResolver {
			t.Errorf("recover() = %v, want ErrNoResolver", r)
		}
	}()
	New[usersData, userRow](nil, "", Options[usersData, userRow]{})
}
