package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	pkgerrors "github.com/matzehuels/adminstack/pkg/errors"
	"github.com/matzehuels/adminstack/pkg/hierarchy"
	"github.com/matzehuels/adminstack/pkg/session"
	"github.com/matzehuels/adminstack/pkg/stack"
)

func newTestServer(t *testing.T, opts ...Option) (http.Handler, *session.FileStore) {
	t.Helper()
	store, err := session.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	opts = append([]Option{WithLogger(log.New(io.Discard))}, opts...)
	return New(store, opts...).Handler(), store
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code pkgerrors.Code) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	if got := decode[ErrorResponse](t, rec).Code; got != code {
		t.Errorf("code = %q, want %q", got, code)
	}
}

func TestHealth(t *testing.T) {
	h, _ := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if decode[map[string]string](t, rec)["status"] != "ok" {
		t.Errorf("body = %s", rec.Body.String())
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("CORS header = %q", got)
	}
}

func TestOrder(t *testing.T) {
	h, _ := newTestServer(t)

	t.Run("ordered", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/order",
			`[{"id":"c","parentId":"b"},{"id":"a"},{"id":"b","parentId":"a","title":"B"},{"id":"x","parentId":"missing"}]`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
		got := decode[[]map[string]any](t, rec)
		var ids []string
		for _, n := range got {
			ids = append(ids, n["id"].(string))
		}
		if strings.Join(ids, ",") != "a,b,c" {
			t.Errorf("ids = %v, want a,b,c", ids)
		}
		if got[1]["title"] != "B" {
			t.Errorf("extra field lost: %v", got[1])
		}
	})

	t.Run("cycle", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/order", `[{"id":"a","parentId":"b"},{"id":"b","parentId":"a"}]`)
		expectError(t, rec, http.StatusConflict, pkgerrors.ErrCodeCycle)
	})

	t.Run("duplicate", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/order", `[{"id":"a"},{"id":"a"}]`)
		expectError(t, rec, http.StatusConflict, pkgerrors.ErrCodeDuplicateID)
	})

	t.Run("malformed", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/order", `{"id":`)
		expectError(t, rec, http.StatusBadRequest, pkgerrors.ErrCodeInvalidInput)
	})

	t.Run("diagnose", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/order?diagnose=1", `[{"id":"a"},{"id":"b","parentId":"gone"}]`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		report := decode[hierarchy.Report](t, rec)
		if len(report.Orphans) != 1 || report.Orphans[0] != "b" {
			t.Errorf("Orphans = %v", report.Orphans)
		}
	})
}

func TestBreadcrumbFlow(t *testing.T) {
	h, store := newTestServer(t, WithTopLevel("Home", "/"))
	base := "/stacks/s1"

	rec := do(t, h, http.MethodPost, base+"/breadcrumbs",
		`{"id":"products","parentId":"top","url":"/products","title":"Products"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add products: %d %s", rec.Code, rec.Body.String())
	}
	rec = do(t, h, http.MethodPost, base+"/breadcrumbs",
		`{"id":"edit","parentId":"products","url":"/products/1","title":"Edit"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add edit: %d %s", rec.Code, rec.Body.String())
	}

	visible := decode[VisibleResponse](t, do(t, h, http.MethodGet, base+"/visible", ""))
	if len(visible.Breadcrumbs) != 3 || !visible.CanGoBack {
		t.Fatalf("visible = %+v", visible)
	}

	if got := decode[NavigateResponse](t, do(t, h, http.MethodPost, base+"/back", "")).URL; got != "/products" {
		t.Errorf("back = %q, want /products", got)
	}
	if got := decode[NavigateResponse](t, do(t, h, http.MethodPost, base+"/back/all", "")).URL; got != "/" {
		t.Errorf("back/all = %q, want /", got)
	}

	rec = do(t, h, http.MethodPut, base+"/breadcrumbs/edit",
		`{"parentId":"products","url":"/products/1/edit","title":"Edit","invisible":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: %d %s", rec.Code, rec.Body.String())
	}
	visible = decode[VisibleResponse](t, do(t, h, http.MethodGet, base+"/visible", ""))
	if len(visible.Breadcrumbs) != 2 || visible.Breadcrumbs[1].URL != "/products/1/edit" {
		t.Errorf("visible after collapse = %+v", visible.Breadcrumbs)
	}

	rec = do(t, h, http.MethodDelete, base+"/breadcrumbs/edit", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", rec.Code)
	}
	crumbs := decode[[]stack.Breadcrumb](t, do(t, h, http.MethodGet, base+"/breadcrumbs", ""))
	if len(crumbs) != 2 || crumbs[0].ID != TopLevelID || crumbs[1].ID != "products" {
		t.Errorf("breadcrumbs = %+v", crumbs)
	}

	sess, err := store.Get(context.Background(), "s1")
	if err != nil || sess == nil {
		t.Fatalf("stored session = %v, %v", sess, err)
	}
	if len(sess.State.Breadcrumbs) != 2 {
		t.Errorf("stored breadcrumbs = %+v", sess.State.Breadcrumbs)
	}
}

func TestBreadcrumbErrors(t *testing.T) {
	h, _ := newTestServer(t)
	base := "/stacks/s2"

	do(t, h, http.MethodPost, base+"/breadcrumbs", `{"id":"a","url":"/a","title":"A"}`)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   pkgerrors.Code
	}{
		{"duplicate id", http.MethodPost, base + "/breadcrumbs", `{"id":"a","url":"/a","title":"A"}`, http.StatusConflict, pkgerrors.ErrCodeDuplicateID},
		{"bad url", http.MethodPost, base + "/breadcrumbs", `{"url":"javascript:alert(1)","title":"X"}`, http.StatusBadRequest, pkgerrors.ErrCodeInvalidURL},
		{"unknown field", http.MethodPost, base + "/breadcrumbs", `{"url":"/x","nope":1}`, http.StatusBadRequest, pkgerrors.ErrCodeInvalidInput},
		{"update unknown", http.MethodPut, base + "/breadcrumbs/zzz", `{"url":"/z","title":"Z"}`, http.StatusNotFound, pkgerrors.ErrCodeNotFound},
		{"back without history", http.MethodPost, base + "/back", "", http.StatusConflict, pkgerrors.ErrCodeNoHistory},
		{"back all on empty", http.MethodPost, "/stacks/empty/back/all", "", http.StatusConflict, pkgerrors.ErrCodeNoHistory},
		{"bad session", http.MethodGet, "/stacks/bad.id/visible", "", http.StatusBadRequest, pkgerrors.ErrCodeInvalidSession},
		{"unknown route", http.MethodGet, "/nope", "", http.StatusNotFound, pkgerrors.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectError(t, do(t, h, tt.method, tt.path, tt.body), tt.status, tt.code)
		})
	}
}

func TestCyclicWritesAreRejected(t *testing.T) {
	h, store := newTestServer(t, WithTopLevel("Home", "/"))
	base := "/stacks/s6"

	expectError(t, do(t, h, http.MethodPost, base+"/breadcrumbs", `{"id":"x","parentId":"x","url":"/x"}`),
		http.StatusConflict, pkgerrors.ErrCodeCycle)

	for _, body := range []string{
		`{"id":"y","parentId":"top","url":"/y","title":"Y"}`,
		`{"id":"z","parentId":"y","url":"/z","title":"Z"}`,
	} {
		if rec := do(t, h, http.MethodPost, base+"/breadcrumbs", body); rec.Code != http.StatusCreated {
			t.Fatalf("add %s: %d %s", body, rec.Code, rec.Body.String())
		}
	}

	// y under z closes a loop y -> z -> y.
	expectError(t, do(t, h, http.MethodPut, base+"/breadcrumbs/y", `{"parentId":"z","url":"/y"}`),
		http.StatusConflict, pkgerrors.ErrCodeCycle)

	rec := do(t, h, http.MethodGet, base+"/visible", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("visible: %d %s", rec.Code, rec.Body.String())
	}
	if got := decode[VisibleResponse](t, rec).Breadcrumbs; len(got) != 3 {
		t.Errorf("visible = %+v, want top, y, z", got)
	}
	if got := decode[NavigateResponse](t, do(t, h, http.MethodPost, base+"/back", "")).URL; got != "/y" {
		t.Errorf("back = %q, want /y", got)
	}

	sess, err := store.Get(context.Background(), "s6")
	if err != nil || sess == nil {
		t.Fatalf("stored session = %v, %v", sess, err)
	}
	for _, b := range sess.State.Breadcrumbs {
		if b.ID == "x" {
			t.Error("self-parented breadcrumb was stored")
		}
		if b.ID == "y" && b.ParentID != TopLevelID {
			t.Errorf("stored y parent = %q, want %q", b.ParentID, TopLevelID)
		}
	}

	sw := base + "/switches/"
	expectError(t, do(t, h, http.MethodPut, sw+"a", `{"parentId":"a"}`), http.StatusConflict, pkgerrors.ErrCodeCycle)
	if rec := do(t, h, http.MethodPut, sw+"a", `{"parentId":"b"}`); rec.Code != http.StatusOK {
		t.Fatalf("put a: %d %s", rec.Code, rec.Body.String())
	}
	expectError(t, do(t, h, http.MethodPut, sw+"b", `{"parentId":"a"}`), http.StatusConflict, pkgerrors.ErrCodeCycle)
	if rec := do(t, h, http.MethodGet, base+"/switches", ""); rec.Code != http.StatusOK {
		t.Errorf("switches after rejected loop: %d %s", rec.Code, rec.Body.String())
	}
}

func TestGeneratedBreadcrumbID(t *testing.T) {
	h, _ := newTestServer(t)
	rec := do(t, h, http.MethodPost, "/stacks/s3/breadcrumbs", `{"url":"/a","title":"A"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	if b := decode[stack.Breadcrumb](t, rec); b.ID == "" {
		t.Error("expected a generated ID")
	}
}

func TestSwitches(t *testing.T) {
	h, _ := newTestServer(t)
	base := "/stacks/s4/switches"

	for _, req := range []struct{ id, body string }{
		{"inner", `{"parentId":"outer","activePage":"details"}`},
		{"outer", `{"parentId":"","isInitialPageActive":true}`},
	} {
		if rec := do(t, h, http.MethodPut, base+"/"+req.id, req.body); rec.Code != http.StatusOK {
			t.Fatalf("put %s: %d %s", req.id, rec.Code, rec.Body.String())
		}
	}

	got := decode[[]stack.Switch](t, do(t, h, http.MethodGet, base, ""))
	if len(got) != 2 || got[0].ID != "outer" || got[1].ID != "inner" {
		t.Fatalf("switches = %+v", got)
	}
	if got[1].ActivePage != "details" || !got[0].IsInitialPageActive {
		t.Errorf("switch fields = %+v", got)
	}

	if rec := do(t, h, http.MethodDelete, base+"/outer", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", rec.Code)
	}
	got = decode[[]stack.Switch](t, do(t, h, http.MethodGet, base, ""))
	if len(got) != 0 {
		t.Errorf("orphaned switch should be dropped, got %+v", got)
	}
}

func TestDeleteState(t *testing.T) {
	h, store := newTestServer(t)
	do(t, h, http.MethodPost, "/stacks/s5/breadcrumbs", `{"id":"a","url":"/a","title":"A"}`)

	if rec := do(t, h, http.MethodDelete, "/stacks/s5", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if sess, _ := store.Get(context.Background(), "s5"); sess != nil {
		t.Errorf("session still stored: %+v", sess)
	}
	st := decode[stack.State](t, do(t, h, http.MethodGet, "/stacks/s5", ""))
	if len(st.Breadcrumbs) != 0 {
		t.Errorf("state = %+v", st)
	}
}

func TestListenAndServe_Shutdown(t *testing.T) {
	store, err := session.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	srv := New(store, WithLogger(log.New(io.Discard)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestClassify(t *testing.T) {
	if got := classify(stack.ErrNotFound).Code; got != pkgerrors.ErrCodeNotFound {
		t.Errorf("classify(ErrNotFound) = %q", got)
	}
	if got := classify(session.ErrNotFound).Code; got != pkgerrors.ErrCodeSessionNotFound {
		t.Errorf("classify(session.ErrNotFound) = %q", got)
	}
	rec := httptest.NewRecorder()
	writeError(rec, io.ErrUnexpectedEOF)
	if rec.Code != http.StatusInternalServerError || !bytes.Contains(rec.Body.Bytes(), []byte("internal error")) {
		t.Errorf("internal error response = %d %s", rec.Code, rec.Body.String())
	}
}
