package selectinput

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/adminstack/pkg/ui"
)

// Option is a selectable value.
type Option struct {
	Value string
	Label string

	// Created marks an option made from the typed text of a creatable select.
	Created bool
}

// FilterValue implements list.Item.
func (o Option) FilterValue() string { return o.Label }

// Loader returns the options matching query.
type Loader func(ctx context.Context, query string) ([]Option, error)

// ControlState is what a custom control renders.
type ControlState struct {
	Input       string
	Placeholder string
	Focused     bool
	Selected    *Option
	Loading     bool
	Styles      Styles
}

// Components replaces rendered parts of the select.
type Components struct {
	// Control renders the input box. Nil uses the themed control.
	Control func(ControlState) string
}

// SelectedMsg is emitted when the user picks an option.
type SelectedMsg struct {
	Option Option
}

// optionsLoadedMsg carries a Loader result back into Update.
type optionsLoadedMsg struct {
	owner   int64
	query   string
	options []Option
	err     error
}

var nextOwner atomic.Int64

// Model is the bubbletea model of a select.
type Model struct {
	owner      int64
	theme      ui.Theme
	styles     Styles
	components Components
	ctx        context.Context

	input    textinput.Model
	list     list.Model
	all      []Option
	loader   Loader
	create   bool
	loading  bool
	err      error
	selected *Option
}

// Opt configures a Model.
type Opt func(*Model)

// WithTheme sets the theme the default styles derive from.
func WithTheme(t ui.Theme) Opt {
	return func(m *Model) { m.theme = t }
}

// WithStyles merges s over the themed defaults.
func WithStyles(s Styles) Opt {
	return func(m *Model) { m.styles = s }
}

// WithComponents overrides rendered parts.
func WithComponents(c Components) Opt {
	return func(m *Model) { m.components = c }
}

// WithPlaceholder sets the placeholder of the empty control.
func WithPlaceholder(p string) Opt {
	return func(m *Model) { m.input.Placeholder = p }
}

// WithContext sets the context loaders run with.
func WithContext(ctx context.Context) Opt {
	return func(m *Model) { m.ctx = ctx }
}

// WithHeight sets how many options are visible at once.
func WithHeight(h int) Opt {
	return func(m *Model) { m.list.SetHeight(h) }
}

// New returns a select over a static option list.
func New(options []Option, opts ...Opt) Model {
	m := newModel(opts)
	m.all = options
	m.refilter()
	return m
}

// NewAsync returns a select whose options come from loader.
func NewAsync(loader Loader, opts ...Opt) Model {
	m := newModel(opts)
	m.loader = loader
	return m
}

// NewCreatable returns a static select that can create the typed value.
func NewCreatable(options []Option, opts ...Opt) Model {
	m := New(options, opts...)
	m.create = true
	return m
}

// NewAsyncCreatable returns an async select that can create the typed value.
func NewAsyncCreatable(loader Loader, opts ...Opt) Model {
	m := NewAsync(loader, opts...)
	m.create = true
	return m
}

func newModel(opts []Opt) Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "Select..."
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.Focus()

	l := list.New(nil, optionDelegate{}, 40, 8)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	m := Model{
		owner: nextOwner.Add(1),
		theme: ui.DefaultTheme(),
		ctx:   context.Background(),
		input: ti,
		list:  l,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.styles = m.styles.merge(DefaultStyles(m.theme))
	m.list.SetDelegate(optionDelegate{styles: m.styles})
	return m
}

// Init starts the first load of an async select.
func (m Model) Init() tea.Cmd {
	if m.loader == nil {
		return nil
	}
	return m.load("")
}

// Update handles keys and loader results.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case optionsLoadedMsg:
		if msg.owner != m.owner || msg.query != m.input.Value() {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.all = msg.options
		}
		m.refilter()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyUp:
			m.list.CursorUp()
			return m, nil
		case tea.KeyDown:
			m.list.CursorDown()
			return m, nil
		case tea.KeyEnter:
			opt, ok := m.list.SelectedItem().(Option)
			if !ok {
				return m, nil
			}
			m.selected = &opt
			return m, func() tea.Msg { return SelectedMsg{Option: opt} }
		case tea.KeyEsc:
			return m.SetQuery("")
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}
	m, load := m.SetQuery(m.input.Value())
	return m, tea.Batch(cmd, load)
}

// SetQuery replaces the typed text. Static selects refilter immediately,
// async selects return the command that loads matching options.
func (m Model) SetQuery(q string) (Model, tea.Cmd) {
	m.input.SetValue(q)
	if m.loader != nil {
		return m, m.load(q)
	}
	m.refilter()
	return m, nil
}

func (m *Model) load(q string) tea.Cmd {
	m.loading = true
	loader, ctx, owner := m.loader, m.ctx, m.owner
	return func() tea.Msg {
		opts, err := loader(ctx, q)
		return optionsLoadedMsg{owner: owner, query: q, options: opts, err: err}
	}
}

// refilter rebuilds the visible options from all options and the query.
func (m *Model) refilter() {
	q := strings.ToLower(strings.TrimSpace(m.input.Value()))
	items := make([]list.Item, 0, len(m.all)+1)
	exact := false
	for _, o := range m.all {
		label := strings.ToLower(o.Label)
		if label == q {
			exact = true
		}
		// Async loaders filter on their side.
		if m.loader == nil && q != "" && !strings.Contains(label, q) {
			continue
		}
		items = append(items, o)
	}
	if m.create && q != "" && !exact {
		typed := strings.TrimSpace(m.input.Value())
		items = append([]list.Item{Option{Value: typed, Label: typed, Created: true}}, items...)
	}
	m.list.SetItems(items)
	m.list.Select(0)
}

// Options returns the currently visible options.
func (m Model) Options() []Option {
	items := m.list.Items()
	out := make([]Option, 0, len(items))
	for _, it := range items {
		out = append(out, it.(Option))
	}
	return out
}

// Highlighted returns the option under the cursor.
func (m Model) Highlighted() (Option, bool) {
	o, ok := m.list.SelectedItem().(Option)
	return o, ok
}

// Selected returns the picked option, if any.
func (m Model) Selected() (Option, bool) {
	if m.selected == nil {
		return Option{}, false
	}
	return *m.selected, true
}

// Query returns the typed text.
func (m Model) Query() string { return m.input.Value() }

// Loading reports whether an async load is in flight.
func (m Model) Loading() bool { return m.loading }

// Err returns the last loader error.
func (m Model) Err() error { return m.err }

// Focus focuses the control.
func (m *Model) Focus() tea.Cmd { return m.input.Focus() }

// Blur removes focus from the control.
func (m *Model) Blur() { m.input.Blur() }

// Focused reports whether the control has focus.
func (m Model) Focused() bool { return m.input.Focused() }

// View renders the control above the option list.
func (m Model) View() string {
	state := ControlState{
		Input:       m.input.Value(),
		Placeholder: m.input.Placeholder,
		Focused:     m.input.Focused(),
		Selected:    m.selected,
		Loading:     m.loading,
		Styles:      m.styles,
	}
	var b strings.Builder
	if m.components.Control != nil {
		b.WriteString(m.components.Control(state))
	} else {
		b.WriteString(m.control(state))
	}
	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString(m.theme.ErrorStyle().Render(m.err.Error()))
	case m.loading && len(m.list.Items()) == 0:
		b.WriteString(m.theme.MutedStyle().Render("Loading..."))
	case len(m.list.Items()) == 0:
		b.WriteString(m.theme.MutedStyle().Render("No options"))
	default:
		b.WriteString(m.list.View())
	}
	return b.String()
}

func (m Model) control(s ControlState) string {
	box := apply(s.Styles.Control)
	if s.Focused {
		box = apply(s.Styles.ControlFocused)
	}
	text := m.input.View()
	if s.Input == "" && s.Selected != nil {
		text = s.Selected.Label
	}
	indicators := apply(s.Styles.DropdownIndicator).Render("▾")
	if s.Input != "" {
		indicators = apply(s.Styles.ClearIndicator).Render("×") + indicators
	}
	return box.Render(lipgloss.JoinHorizontal(lipgloss.Center, text, " ", indicators))
}

// optionDelegate renders one option per line.
type optionDelegate struct {
	styles Styles
}

func (d optionDelegate) Height() int                         { return 1 }
func (d optionDelegate) Spacing() int                        { return 0 }
func (d optionDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d optionDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	o, ok := item.(Option)
	if !ok {
		return
	}
	label := o.Label
	if o.Created {
		label = fmt.Sprintf("Create %q", o.Label)
	}
	style := apply(d.styles.Option)
	if index == m.Index() {
		style = apply(d.styles.SelectedOption)
	}
	fmt.Fprint(w, style.Render(label))
}
