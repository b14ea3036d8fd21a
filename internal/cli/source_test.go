package cli

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/adminstack/pkg/table"
	"github.com/matzehuels/adminstack/pkg/ui/selectinput"
)

func TestResolveGraphQL(t *testing.T) {
	data := json.RawMessage(`{"users":{"total":7,"items":[{"id":1,"name":"Ada"},{"id":2,"name":"Linus"},"skipped"]}}`)

	tests := []struct {
		name      string
		totalPath string
		page      graphqlPage
		wantRows  int
		wantTotal int
		wantNext  bool
		wantPrev  bool
	}{
		{"with total", "users.total", graphqlPage{Data: data, Offset: 2, Limit: 2}, 2, 7, true, true},
		{"full page without total", "", graphqlPage{Data: data, Offset: 0, Limit: 2}, 2, 3, true, false},
		{"short page without total", "", graphqlPage{Data: data, Offset: 4, Limit: 5}, 2, 6, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			td := resolveGraphQL("users.items", tt.totalPath)(tt.page)
			if len(td.Rows) != tt.wantRows {
				t.Errorf("rows = %d, want %d", len(td.Rows), tt.wantRows)
			}
			if td.TotalCount != tt.wantTotal {
				t.Errorf("total = %d, want %d", td.TotalCount, tt.wantTotal)
			}
			if got := td.PagingActions.HasNext(); got != tt.wantNext {
				t.Errorf("HasNext = %v, want %v", got, tt.wantNext)
			}
			if got := td.PagingActions.HasPrevious(); got != tt.wantPrev {
				t.Errorf("HasPrevious = %v, want %v", got, tt.wantPrev)
			}
		})
	}
}

func TestResolveGraphQL_BadPath(t *testing.T) {
	td := resolveGraphQL("users.missing", "")(graphqlPage{Data: json.RawMessage(`{"users":[]}`)})
	if len(td.Rows) != 0 || td.TotalCount != 0 {
		t.Errorf("got %+v, want empty", td)
	}
}

func TestPagedClient(t *testing.T) {
	inner := table.ClientFunc(func(_ context.Context, req table.Request) (*table.Response, error) {
		return &table.Response{Data: json.RawMessage(`{"items":[]}`)}, nil
	})

	resp, err := pagedClient(inner).Query(context.Background(), table.Request{
		Variables: map[string]any{"offset": 20, "limit": 10.0},
	})
	if err != nil {
		t.Fatal(err)
	}
	var page graphqlPage
	if err := json.Unmarshal(resp.Data, &page); err != nil {
		t.Fatal(err)
	}
	if page.Offset != 20 || page.Limit != 10 || string(page.Data) != `{"items":[]}` {
		t.Errorf("page = %+v", page)
	}
}

func TestLookupPath(t *testing.T) {
	v := map[string]any{"a": map[string]any{"b": []any{1.0}}}
	tests := []struct {
		path string
		ok   bool
	}{
		{"", true},
		{"a", true},
		{"a.b", true},
		{"a.c", false},
		{"a.b.c", false},
	}
	for _, tt := range tests {
		if got := lookupPath(v, tt.path); (got != nil) != tt.ok {
			t.Errorf("lookupPath(%q) = %v", tt.path, got)
		}
	}
}

func TestCellString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{3.0, "3"},
		{2.5, "2.5"},
		{true, "true"},
		{map[string]any{"a": 1.0}, `{"a":1}`},
		{[]any{"a"}, `["a"]`},
	}
	for _, tt := range tests {
		if got := cellString(tt.in); got != tt.want {
			t.Errorf("cellString(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRowOptions(t *testing.T) {
	rows := []table.Row{
		{"id": 1.0, "name": "Ada"},
		{"id": 2.0},
		{"name": "no id"},
	}
	got := rowOptions(rows, "id", "name")
	want := []selectinput.Option{{Value: "1", Label: "Ada"}, {Value: "2", Label: "2"}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("option %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestNewSelect(t *testing.T) {
	c := New(io.Discard, LogInfo)
	ctx := context.Background()

	if _, err := c.newSelect(ctx, nil, selectOpts{height: 5}); err == nil {
		t.Error("expected error without options")
	}
	if _, err := c.newSelect(ctx, nil, selectOpts{creatable: true, height: 5}); err != nil {
		t.Errorf("creatable select without options: %v", err)
	}
	if _, err := c.newSelect(ctx, nil, selectOpts{endpoint: "http://localhost"}); err == nil {
		t.Error("expected error for endpoint without query file")
	}
}

func TestSelectModel_QuitsOnSelection(t *testing.T) {
	c := New(io.Discard, LogInfo)
	inner, err := c.newSelect(context.Background(), []string{"red=Red", "green"}, selectOpts{height: 5})
	if err != nil {
		t.Fatal(err)
	}

	var m tea.Model = selectModel{inner: inner}
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter produced no command")
	}
	m, cmd = m.Update(cmd())
	if cmd == nil {
		t.Fatal("selection did not quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("selection did not quit")
	}

	opt, ok := m.(selectModel).inner.Selected()
	if !ok || opt.Value != "red" || opt.Label != "Red" {
		t.Errorf("selected = %+v, %v", opt, ok)
	}
}

func TestSelectModel_CtrlC(t *testing.T) {
	c := New(io.Discard, LogInfo)
	inner, err := c.newSelect(context.Background(), []string{"a"}, selectOpts{height: 5})
	if err != nil {
		t.Fatal(err)
	}
	_, cmd := selectModel{inner: inner}.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c produced no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c did not quit")
	}
}
