package stack

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/matzehuels/adminstack/pkg/hierarchy"
)

func TestRegisterNested(t *testing.T) {
	s := New(nil)
	root, err := Register(s, hierarchy.Root, "/orders", "Orders", false)
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if _, err := uuid.Parse(root.ID()); err != nil {
		t.Errorf("ID() = %q is not a UUID: %v", root.ID(), err)
	}
	child, err := Register(s, root.ID(), "/orders/7", "Order 7", false)
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	crumbs, err := s.VisibleBreadcrumbs()
	if err != nil {
		t.Fatalf("VisibleBreadcrumbs() error: %v", err)
	}
	if len(crumbs) != 2 || crumbs[0].Title != "Orders" || crumbs[1].Title != "Order 7" {
		t.Errorf("VisibleBreadcrumbs() = %+v", crumbs)
	}

	if err := child.Update("/orders/7/items", "Items", true); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	crumbs, _ = s.VisibleBreadcrumbs()
	if len(crumbs) != 1 || crumbs[0].URL != "/orders/7/items" {
		t.Errorf("after hiding child: %+v", crumbs)
	}

	child.Remove()
	child.Remove()
	if err := child.Update("/x", "x", false); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update() after Remove error = %v, want ErrNotFound", err)
	}
	if n := len(s.Snapshot().Breadcrumbs); n != 1 {
		t.Errorf("got %d breadcrumbs after Remove, want 1", n)
	}
}

func TestRegisterValidatesURL(t *testing.T) {
	s := New(nil)
	if _, err := Register(s, hierarchy.Root, "javascript:alert(1)", "x", false); err == nil {
		t.Error("Register() should reject non-path URLs")
	}
	if n := len(s.Snapshot().Breadcrumbs); n != 0 {
		t.Errorf("rejected registration added %d breadcrumbs", n)
	}
}
