package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/adminstack/pkg/buildinfo"
	pkgerrors "github.com/matzehuels/adminstack/pkg/errors"
	"github.com/matzehuels/adminstack/pkg/hierarchy"
	nodeio "github.com/matzehuels/adminstack/pkg/io"
	"github.com/matzehuels/adminstack/pkg/session"
	"github.com/matzehuels/adminstack/pkg/stack"
)

// BreadcrumbRequest is the body of breadcrumb create and update requests.
// ID is optional on create; a fresh one is generated when empty.
type BreadcrumbRequest struct {
	ID        string `json:"id,omitempty"`
	ParentID  string `json:"parentId"`
	URL       string `json:"url"`
	Title     string `json:"title"`
	Invisible bool   `json:"invisible,omitempty"`
}

// VisibleResponse is the body of GET /stacks/{session}/visible.
type VisibleResponse struct {
	Breadcrumbs []stack.Breadcrumb `json:"breadcrumbs"`
	CanGoBack   bool               `json:"canGoBack"`
}

// NavigateResponse is the body of the back endpoints.
type NavigateResponse struct {
	URL string `json:"url"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	recs, err := nodeio.ReadNodes(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, pkgerrors.Wrap(pkgerrors.ErrCodeInvalidInput, err, "invalid nodes"))
		return
	}
	if diagnose, _ := strconv.ParseBool(r.URL.Query().Get("diagnose")); diagnose {
		writeJSON(w, http.StatusOK, hierarchy.Diagnose(recs))
		return
	}
	ordered, err := hierarchy.OrderObserved(r.Context(), "nodes", recs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ordered)
}

func (s *Server) validateSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := pkgerrors.ValidateSessionID(chi.URLParam(r, "session")); err != nil {
			writeError(w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// load returns the stack of the request's session. New sessions are
// seeded with the configured top-level breadcrumb.
func (s *Server) load(ctx context.Context, id string, nav stack.Navigator) (*session.Session, *stack.Stack, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	opts := []stack.Option{stack.WithLogger(s.logger)}
	if sess == nil {
		sess = session.New(id, s.ttl)
		if s.topTitle != "" {
			opts = append(opts, stack.WithTopLevel(TopLevelID, s.topTitle, s.topURL))
		}
	} else {
		opts = append(opts, stack.WithState(sess.State))
	}
	return sess, stack.New(nav, opts...), nil
}

// read runs fn against the session's stack without persisting it.
func (s *Server) read(w http.ResponseWriter, r *http.Request, fn func(*stack.Stack) (any, error)) {
	_, st, err := s.load(r.Context(), chi.URLParam(r, "session"), nil)
	if err != nil {
		writeError(w, err)
		return
	}
	v, err := fn(st)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// mutate runs fn against the session's stack and stores the result.
// A result that cannot be ordered is rejected and not stored. A nil
// response value is written as 204 No Content.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, status int, fn func(*stack.Stack) (any, error)) {
	id := chi.URLParam(r, "session")
	unlock := s.lock(id)
	defer unlock()

	sess, st, err := s.load(r.Context(), id, nil)
	if err != nil {
		writeError(w, err)
		return
	}
	v, err := fn(st)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := st.Validate(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	sess.State = st.Snapshot()
	sess.Touch(s.ttl)
	if err := s.store.Set(r.Context(), sess); err != nil {
		s.logger.Error("save session", "session", id, "err", err)
		writeError(w, err)
		return
	}
	if v == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, status, v)
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	s.read(w, r, func(st *stack.Stack) (any, error) {
		return st.Snapshot(), nil
	})
}

func (s *Server) handleDeleteState(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "session")
	unlock := s.lock(id)
	defer unlock()
	if err := s.store.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListBreadcrumbs(w http.ResponseWriter, r *http.Request) {
	s.read(w, r, func(st *stack.Stack) (any, error) {
		return stack.OrderBreadcrumbs(r.Context(), st.Snapshot().Breadcrumbs)
	})
}

func (s *Server) handleAddBreadcrumb(w http.ResponseWriter, r *http.Request) {
	var req BreadcrumbRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := pkgerrors.ValidateURL(req.URL); err != nil {
		writeError(w, err)
		return
	}
	if req.ID == "" {
		req.ID = stack.NewID()
	} else if err := pkgerrors.ValidateNodeID(req.ID); err != nil {
		writeError(w, err)
		return
	}
	s.mutate(w, r, http.StatusCreated, func(st *stack.Stack) (any, error) {
		for _, c := range st.Snapshot().Breadcrumbs {
			if c.ID == req.ID {
				return nil, pkgerrors.New(pkgerrors.ErrCodeDuplicateID, "breadcrumb %q already exists", req.ID)
			}
		}
		b := stack.Breadcrumb(req)
		st.AddBreadcrumb(b)
		return b, nil
	})
}

func (s *Server) handleUpdateBreadcrumb(w http.ResponseWriter, r *http.Request) {
	var req BreadcrumbRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := pkgerrors.ValidateURL(req.URL); err != nil {
		writeError(w, err)
		return
	}
	req.ID = chi.URLParam(r, "id")
	s.mutate(w, r, http.StatusOK, func(st *stack.Stack) (any, error) {
		b := stack.Breadcrumb(req)
		if err := st.UpdateBreadcrumb(b); err != nil {
			return nil, err
		}
		return b, nil
	})
}

func (s *Server) handleRemoveBreadcrumb(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mutate(w, r, 0, func(st *stack.Stack) (any, error) {
		st.RemoveBreadcrumb(id)
		return nil, nil
	})
}

func (s *Server) handleVisible(w http.ResponseWriter, r *http.Request) {
	s.read(w, r, func(st *stack.Stack) (any, error) {
		crumbs, err := stack.Visible(r.Context(), st.Snapshot().Breadcrumbs)
		if err != nil {
			return nil, err
		}
		return VisibleResponse{Breadcrumbs: crumbs, CanGoBack: len(crumbs) > 1}, nil
	})
}

func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, (*stack.Stack).GoBack)
}

func (s *Server) handleBackAll(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, (*stack.Stack).GoAllBack)
}

// navigate reports the URL a navigation would push. The stack itself does
// not change; the client performs the actual navigation.
func (s *Server) navigate(w http.ResponseWriter, r *http.Request, fn func(*stack.Stack, context.Context) error) {
	var target string
	nav := stack.NavigatorFunc(func(_ context.Context, url string) error {
		target = url
		return nil
	})
	_, st, err := s.load(r.Context(), chi.URLParam(r, "session"), nav)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := fn(st, r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NavigateResponse{URL: target})
}

func (s *Server) handleListSwitches(w http.ResponseWriter, r *http.Request) {
	s.read(w, r, func(st *stack.Stack) (any, error) {
		return stack.OrderSwitches(r.Context(), st.Snapshot().Switches)
	})
}

func (s *Server) handleSetSwitch(w http.ResponseWriter, r *http.Request) {
	var opts stack.SwitchOptions
	if err := decodeBody(w, r, &opts); err != nil {
		writeError(w, err)
		return
	}
	id := chi.URLParam(r, "id")
	if err := pkgerrors.ValidateNodeID(id); err != nil {
		writeError(w, err)
		return
	}
	s.mutate(w, r, http.StatusOK, func(st *stack.Stack) (any, error) {
		st.AddSwitchMeta(id, opts)
		return stack.Switch{
			ID:                  id,
			ParentID:            opts.ParentID,
			IsInitialPageActive: opts.IsInitialPageActive,
			ActivePage:          opts.ActivePage,
		}, nil
	})
}

func (s *Server) handleRemoveSwitch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mutate(w, r, 0, func(st *stack.Stack) (any, error) {
		st.RemoveSwitchMeta(id)
		return nil, nil
	})
}
