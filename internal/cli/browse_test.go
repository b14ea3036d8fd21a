package cli

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/adminstack/pkg/table"
)

func sampleRows(n int) []table.Row {
	rows := make([]table.Row, n)
	for i := range rows {
		rows[i] = table.Row{"id": i + 1, "name": fmt.Sprintf("user-%02d", n-i)}
	}
	return rows
}

// step runs cmd and feeds its message back into m.
func step(t *testing.T, m tea.Model, cmd tea.Cmd) tea.Model {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	m, _ = m.Update(cmd())
	return m
}

func press(m tea.Model, key string) (tea.Model, tea.Cmd) {
	switch key {
	case "right":
		return m.Update(tea.KeyMsg{Type: tea.KeyRight})
	case "left":
		return m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	case "down":
		return m.Update(tea.KeyMsg{Type: tea.KeyDown})
	case "tab":
		return m.Update(tea.KeyMsg{Type: tea.KeyTab})
	case "enter":
		return m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	}
	return m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
}

func newTestBrowser(t *testing.T, n, pageSize int) *browseModel[table.MemoryData] {
	t.Helper()
	m := newMemoryBrowser(context.Background(), sampleRows(n), browseOpts{
		pageSize: pageSize,
		idColumn: "id",
		rowName:  "users",
	})
	step(t, m, m.Init())
	return m
}

func TestBrowse_FirstPage(t *testing.T) {
	m := newTestBrowser(t, 5, 2)

	if got := len(m.rows()); got != 2 {
		t.Fatalf("rows = %d, want 2", got)
	}
	view := m.View()
	for _, want := range []string{"user-05", "user-04", "5 users", "page 1/3"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "user-03") {
		t.Error("view shows a row of the second page")
	}
}

func TestBrowse_Paging(t *testing.T) {
	m := newTestBrowser(t, 5, 2)

	// Move the cursor so the page change has something to reset.
	press(m, "down")
	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", m.cursor)
	}

	_, cmd := press(m, "right")
	step(t, m, cmd)
	if got := m.rows()[0]["name"]; got != "user-03" {
		t.Errorf("first row on page 2 = %v, want user-03", got)
	}
	if m.cursor != 0 {
		t.Errorf("cursor = %d after page change, want 0", m.cursor)
	}

	_, cmd = press(m, "right")
	step(t, m, cmd)
	if got := len(m.rows()); got != 1 {
		t.Errorf("last page rows = %d, want 1", got)
	}
	if _, cmd = press(m, "right"); cmd != nil {
		t.Error("next page key on the last page should be ignored")
	}

	_, cmd = press(m, "left")
	step(t, m, cmd)
	if got := m.rows()[0]["name"]; got != "user-03" {
		t.Errorf("first row after going back = %v, want user-03", got)
	}
}

func TestBrowse_SortAndFilter(t *testing.T) {
	m := newTestBrowser(t, 5, 0)

	// Columns are id, name; tab selects name.
	press(m, "tab")
	_, cmd := press(m, "s")
	step(t, m, cmd)

	col, order := m.query.Sort()
	if col != "name" || order != table.OrderAsc {
		t.Fatalf("sort = %s %s, want name asc", col, order)
	}
	if got := m.rows()[0]["name"]; got != "user-01" {
		t.Errorf("first row = %v, want user-01", got)
	}
	if !strings.Contains(m.View(), "name ▲") {
		t.Error("header does not mark the sort column")
	}

	press(m, "/")
	if !m.filtering {
		t.Fatal("slash did not open the filter")
	}
	for _, r := range "03" {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	_, cmd = press(m, "enter")
	step(t, m, cmd)

	if m.filtering {
		t.Error("filter still open after enter")
	}
	rows := m.rows()
	if len(rows) != 1 || rows[0]["name"] != "user-03" {
		t.Errorf("filtered rows = %v", rows)
	}
	if !strings.Contains(m.View(), "filter: 03") {
		t.Error("view does not show the active filter")
	}
}

func TestBrowse_Select(t *testing.T) {
	m := newTestBrowser(t, 3, 0)

	press(m, "down")
	_, cmd := press(m, "enter")
	if cmd == nil {
		t.Fatal("enter should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("enter did not quit")
	}

	row := selectedRow(m)
	if row == nil || row["name"] != "user-02" {
		t.Fatalf("selected = %v, want user-02", row)
	}
	if id, ok := m.selection.Selected(); !ok || id != "2" {
		t.Errorf("selection = %q, %v; want 2", id, ok)
	}
}

func TestBrowse_Empty(t *testing.T) {
	m := newTestBrowser(t, 0, 10)
	if !strings.Contains(m.View(), "No rows") {
		t.Errorf("empty view:\n%s", m.View())
	}
	if _, cmd := press(m, "enter"); cmd != nil {
		t.Error("enter without rows should do nothing")
	}
}
