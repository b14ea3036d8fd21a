package stack

import (
	"sync"

	"github.com/google/uuid"

	"github.com/matzehuels/adminstack/pkg/errors"
)

// Handle is the registration of one mounted breadcrumb view.
// Nested views use [Handle.ID] as their parent ID.
type Handle struct {
	api     API
	mu      sync.Mutex
	crumb   Breadcrumb
	removed bool
}

// NewID returns a fresh breadcrumb or switch ID.
func NewID() string {
	return uuid.NewString()
}

// Register mounts a breadcrumb below parentID and returns its handle.
// The URL and title are validated before anything is registered.
func Register(api API, parentID, url, title string, invisible bool) (*Handle, error) {
	if err := errors.ValidateURL(url); err != nil {
		return nil, err
	}
	h := &Handle{
		api: api,
		crumb: Breadcrumb{
			ID:        NewID(),
			ParentID:  parentID,
			URL:       url,
			Title:     title,
			Invisible: invisible,
		},
	}
	api.AddBreadcrumb(h.crumb)
	return h, nil
}

// ID returns the generated breadcrumb ID.
func (h *Handle) ID() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.crumb.ID
}

// Breadcrumb returns the currently registered breadcrumb.
func (h *Handle) Breadcrumb() Breadcrumb {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.crumb
}

// Update changes URL, title and visibility of the registration.
// Updating a removed handle returns [ErrNotFound].
func (h *Handle) Update(url, title string, invisible bool) error {
	if err := errors.ValidateURL(url); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.removed {
		return ErrNotFound
	}
	next := h.crumb
	next.URL, next.Title, next.Invisible = url, title, invisible
	if err := h.api.UpdateBreadcrumb(next); err != nil {
		return err
	}
	h.crumb = next
	return nil
}

// Remove unregisters the breadcrumb. It is safe to call more than once.
func (h *Handle) Remove() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.removed {
		return
	}
	h.removed = true
	h.api.RemoveBreadcrumb(h.crumb.ID)
}
