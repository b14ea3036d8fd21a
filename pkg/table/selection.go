package table

import "sync"

// SelectionAPI receives row selection changes from a table.
type SelectionAPI interface {
	SelectID(id string)
	Deselect()
}

// Selection is a SelectionAPI that remembers the selected row.
type Selection struct {
	mu       sync.Mutex
	id       string
	selected bool

	// OnChange, when set, is called after every change outside the lock.
	OnChange func(id string, selected bool)
}

// SelectID selects id.
func (s *Selection) SelectID(id string) {
	s.mu.Lock()
	s.id, s.selected = id, true
	fn := s.OnChange
	s.mu.Unlock()
	if fn != nil {
		fn(id, true)
	}
}

// Deselect clears the selection.
func (s *Selection) Deselect() {
	s.mu.Lock()
	s.id, s.selected = "", false
	fn := s.OnChange
	s.mu.Unlock()
	if fn != nil {
		fn("", false)
	}
}

// Selected returns the selected id, if any.
func (s *Selection) Selected() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id, s.selected
}
