package stack

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/adminstack/pkg/hierarchy"
)

var (
	// ErrNoPreviousPage is returned by [Stack.GoBack] when fewer than two
	// breadcrumbs are visible.
	ErrNoPreviousPage = errors.New("no previous page")

	// ErrEmptyStack is returned by [Stack.GoAllBack] when no breadcrumb is
	// registered.
	ErrEmptyStack = errors.New("no breadcrumbs registered")

	// ErrNotFound is returned by update and remove operations for unknown IDs.
	ErrNotFound = errors.New("entry not found")
)

// Breadcrumb is one entry of the navigation trail.
type Breadcrumb struct {
	ID        string `json:"id"`
	ParentID  string `json:"parentId"`
	URL       string `json:"url"`
	Title     string `json:"title"`
	Invisible bool   `json:"invisible,omitempty"`
}

// NodeID implements [hierarchy.Node].
func (b Breadcrumb) NodeID() string { return b.ID }

// ParentNodeID implements [hierarchy.Node].
func (b Breadcrumb) ParentNodeID() string { return b.ParentID }

// Switch is the registration of a tab or page switch.
type Switch struct {
	ID                  string `json:"id"`
	ParentID            string `json:"parentId"`
	IsInitialPageActive bool   `json:"isInitialPageActive"`
	ActivePage          string `json:"activePage,omitempty"`
}

// NodeID implements [hierarchy.Node].
func (s Switch) NodeID() string { return s.ID }

// ParentNodeID implements [hierarchy.Node].
func (s Switch) ParentNodeID() string { return s.ParentID }

// SwitchOptions carries everything of a [Switch] except its ID.
type SwitchOptions struct {
	ParentID            string `json:"parentId"`
	ActivePage          string `json:"activePage,omitempty"`
	IsInitialPageActive bool   `json:"isInitialPageActive"`
}

// State is an immutable snapshot of a stack. Entries are kept in
// registration order. Callers must not modify the slices.
type State struct {
	Breadcrumbs []Breadcrumb `json:"breadcrumbs"`
	Switches    []Switch     `json:"switches"`
}

// Navigator performs the actual navigation, usually by pushing onto the
// router history.
type Navigator interface {
	Push(ctx context.Context, url string) error
}

// NavigatorFunc adapts a function to [Navigator].
type NavigatorFunc func(ctx context.Context, url string) error

// Push implements [Navigator].
func (f NavigatorFunc) Push(ctx context.Context, url string) error { return f(ctx, url) }

// API is the capability handed to nested views.
type API interface {
	AddBreadcrumb(b Breadcrumb)
	UpdateBreadcrumb(b Breadcrumb) error
	RemoveBreadcrumb(id string)
	GoBack(ctx context.Context) error
	GoAllBack(ctx context.Context) error
	AddSwitchMeta(id string, opts SwitchOptions)
	RemoveSwitchMeta(id string)
	Switches() ([]Switch, error)
}

// Stack owns the navigation state of one view tree.
// It is safe for concurrent use; mutations are applied one at a time.
type Stack struct {
	applyMu     sync.Mutex // serializes mutations and notifications
	mu          sync.Mutex
	state       State
	nav         Navigator
	logger      *log.Logger
	subscribers map[int]func(State)
	nextSub     int
}

// Option configures a [Stack].
type Option func(*Stack)

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(s *Stack) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithState seeds the stack with a previously saved snapshot.
func WithState(st State) Option {
	return func(s *Stack) {
		s.state = State{
			Breadcrumbs: slices.Clone(st.Breadcrumbs),
			Switches:    slices.Clone(st.Switches),
		}
	}
}

// WithTopLevel registers the top-level breadcrumb with the given ID, title
// and URL.
func WithTopLevel(id, title, url string) Option {
	return func(s *Stack) {
		s.state.Breadcrumbs = append(slices.Clone(s.state.Breadcrumbs), Breadcrumb{
			ID:       id,
			ParentID: hierarchy.Root,
			URL:      url,
			Title:    title,
		})
	}
}

// New creates a stack navigating through nav. A nil nav makes navigation
// calls no-ops that only report the target.
func New(nav Navigator, opts ...Option) *Stack {
	s := &Stack{
		nav:         nav,
		logger:      log.Default(),
		subscribers: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ API = (*Stack)(nil)

// Snapshot returns the current state.
func (s *Stack) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to receive every new snapshot. fn runs
// synchronously after each mutation and must not mutate the stack. The
// returned function cancels the subscription.
func (s *Stack) Subscribe(fn func(State)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// apply runs fn on the current state, stores the result and notifies
// subscribers in mutation order. Subscribers may read the stack but must not
// mutate it.
func (s *Stack) apply(fn func(State) (State, error)) error {
	s.applyMu.Lock()
	defer s.applyMu.Unlock()

	s.mu.Lock()
	next, err := fn(s.state)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.state = next
	subs := make([]func(State), 0, len(s.subscribers))
	for i := range s.nextSub {
		if sub, ok := s.subscribers[i]; ok {
			subs = append(subs, sub)
		}
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(next)
	}
	return nil
}

// AddBreadcrumb appends a breadcrumb.
func (s *Stack) AddBreadcrumb(b Breadcrumb) {
	_ = s.apply(func(st State) (State, error) {
		st.Breadcrumbs = append(slices.Clone(st.Breadcrumbs), b)
		return st, nil
	})
	s.logger.Debug("breadcrumb added", "id", b.ID, "parent", b.ParentID, "url", b.URL)
}

// UpdateBreadcrumb replaces the breadcrumb with the same ID, keeping its
// position. It returns [ErrNotFound] for unknown IDs.
func (s *Stack) UpdateBreadcrumb(b Breadcrumb) error {
	return s.apply(func(st State) (State, error) {
		i := slices.IndexFunc(st.Breadcrumbs, func(c Breadcrumb) bool { return c.ID == b.ID })
		if i < 0 {
			return st, fmt.Errorf("%w: breadcrumb %q", ErrNotFound, b.ID)
		}
		crumbs := slices.Clone(st.Breadcrumbs)
		crumbs[i] = b
		st.Breadcrumbs = crumbs
		return st, nil
	})
}

// RemoveBreadcrumb removes the breadcrumb with the given ID, if any.
func (s *Stack) RemoveBreadcrumb(id string) {
	_ = s.apply(func(st State) (State, error) {
		st.Breadcrumbs = slices.DeleteFunc(slices.Clone(st.Breadcrumbs), func(c Breadcrumb) bool { return c.ID == id })
		return st, nil
	})
	s.logger.Debug("breadcrumb removed", "id", id)
}

// AddSwitchMeta registers a switch or replaces an existing registration
// with the same ID in place.
func (s *Stack) AddSwitchMeta(id string, opts SwitchOptions) {
	_ = s.apply(func(st State) (State, error) {
		sw := Switch{
			ID:                  id,
			ParentID:            opts.ParentID,
			IsInitialPageActive: opts.IsInitialPageActive,
			ActivePage:          opts.ActivePage,
		}
		switches := slices.Clone(st.Switches)
		if i := slices.IndexFunc(switches, func(x Switch) bool { return x.ID == id }); i >= 0 {
			switches[i] = sw
		} else {
			switches = append(switches, sw)
		}
		st.Switches = switches
		return st, nil
	})
}

// RemoveSwitchMeta removes the switch registration with the given ID, if any.
func (s *Stack) RemoveSwitchMeta(id string) {
	_ = s.apply(func(st State) (State, error) {
		st.Switches = slices.DeleteFunc(slices.Clone(st.Switches), func(x Switch) bool { return x.ID == id })
		return st, nil
	})
}

// Switches returns the registered switches ordered by nesting.
func (s *Stack) Switches() ([]Switch, error) {
	return OrderSwitches(context.Background(), s.Snapshot().Switches)
}

// VisibleBreadcrumbs returns the breadcrumb trail as displayed: ordered by
// nesting with invisible entries collapsed into their predecessor.
func (s *Stack) VisibleBreadcrumbs() ([]Breadcrumb, error) {
	return Visible(context.Background(), s.Snapshot().Breadcrumbs)
}

// Validate reports whether the current breadcrumbs and switches can be
// ordered. Callers that persist the stack check it before saving, so a
// cyclic or duplicate registration never reaches the store.
func (s *Stack) Validate(ctx context.Context) error {
	st := s.Snapshot()
	if _, err := OrderBreadcrumbs(ctx, st.Breadcrumbs); err != nil {
		return err
	}
	_, err := OrderSwitches(ctx, st.Switches)
	return err
}

// CanGoBack reports whether [Stack.GoBack] has a target.
func (s *Stack) CanGoBack() bool {
	crumbs, err := s.VisibleBreadcrumbs()
	return err == nil && len(crumbs) > 1
}

// BackTarget returns the URL [Stack.GoBack] would navigate to.
func (s *Stack) BackTarget() (string, error) {
	return s.backTarget(context.Background())
}

func (s *Stack) backTarget(ctx context.Context) (string, error) {
	crumbs, err := Visible(ctx, s.Snapshot().Breadcrumbs)
	if err != nil {
		return "", err
	}
	if len(crumbs) < 2 {
		return "", ErrNoPreviousPage
	}
	return crumbs[len(crumbs)-2].URL, nil
}

// GoBack navigates to the second-to-last visible breadcrumb.
func (s *Stack) GoBack(ctx context.Context) error {
	url, err := s.backTarget(ctx)
	if err != nil {
		return err
	}
	return s.push(ctx, url)
}

// RootTarget returns the URL [Stack.GoAllBack] would navigate to.
func (s *Stack) RootTarget() (string, error) {
	return s.rootTarget(context.Background())
}

func (s *Stack) rootTarget(ctx context.Context) (string, error) {
	crumbs, err := OrderBreadcrumbs(ctx, s.Snapshot().Breadcrumbs)
	if err != nil {
		return "", err
	}
	if len(crumbs) == 0 {
		return "", ErrEmptyStack
	}
	return crumbs[0].URL, nil
}

// GoAllBack navigates to the top-level breadcrumb.
func (s *Stack) GoAllBack(ctx context.Context) error {
	url, err := s.rootTarget(ctx)
	if err != nil {
		return err
	}
	return s.push(ctx, url)
}

func (s *Stack) push(ctx context.Context, url string) error {
	s.logger.Debug("navigating", "url", url)
	if s.nav == nil {
		return nil
	}
	return s.nav.Push(ctx, url)
}

// OrderBreadcrumbs orders breadcrumbs by nesting. ctx is passed to the
// order hooks.
func OrderBreadcrumbs(ctx context.Context, crumbs []Breadcrumb) ([]Breadcrumb, error) {
	return hierarchy.OrderObserved(ctx, "breadcrumbs", crumbs)
}

// OrderSwitches orders switch registrations by nesting.
func OrderSwitches(ctx context.Context, switches []Switch) ([]Switch, error) {
	return hierarchy.OrderObserved(ctx, "switches", switches)
}

// Visible orders crumbs and collapses invisible entries: the URL of an
// invisible breadcrumb overwrites the URL of the previously kept visible
// breadcrumb and the invisible one is dropped. An invisible breadcrumb
// without a visible predecessor is dropped without effect.
func Visible(ctx context.Context, crumbs []Breadcrumb) ([]Breadcrumb, error) {
	ordered, err := OrderBreadcrumbs(ctx, crumbs)
	if err != nil {
		return nil, err
	}
	out := make([]Breadcrumb, 0, len(ordered))
	for _, c := range ordered {
		if c.Invisible {
			if len(out) > 0 {
				out[len(out)-1].URL = c.URL
			}
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
