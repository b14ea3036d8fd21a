package server

import (
	"encoding/json"
	"errors"
	"net/http"

	pkgerrors "github.com/matzehuels/adminstack/pkg/errors"
	"github.com/matzehuels/adminstack/pkg/hierarchy"
	"github.com/matzehuels/adminstack/pkg/session"
	"github.com/matzehuels/adminstack/pkg/stack"
)

var (
	errRouteNotFound    = pkgerrors.New(pkgerrors.ErrCodeNotFound, "no such route")
	errMethodNotAllowed = pkgerrors.New(pkgerrors.ErrCodeUnsupported, "method not allowed")
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Code    pkgerrors.Code `json:"code"`
	Message string         `json:"message"`
}

// classify attaches a code to the package sentinels the handlers can see.
func classify(err error) *pkgerrors.Error {
	var e *pkgerrors.Error
	if errors.As(err, &e) {
		return e
	}
	code := pkgerrors.ErrCodeInternal
	switch {
	case errors.Is(err, hierarchy.ErrCycle):
		code = pkgerrors.ErrCodeCycle
	case errors.Is(err, hierarchy.ErrDuplicateNodeID):
		code = pkgerrors.ErrCodeDuplicateID
	case errors.Is(err, hierarchy.ErrEmptyNodeID):
		code = pkgerrors.ErrCodeInvalidNodeID
	case errors.Is(err, stack.ErrNotFound):
		code = pkgerrors.ErrCodeNotFound
	case errors.Is(err, stack.ErrNoPreviousPage), errors.Is(err, stack.ErrEmptyStack):
		code = pkgerrors.ErrCodeNoHistory
	case errors.Is(err, session.ErrNotFound):
		code = pkgerrors.ErrCodeSessionNotFound
	}
	return &pkgerrors.Error{Code: code, Message: err.Error()}
}

func statusFor(code pkgerrors.Code) int {
	switch code {
	case pkgerrors.ErrCodeInvalidInput, pkgerrors.ErrCodeInvalidNodeID,
		pkgerrors.ErrCodeInvalidURL, pkgerrors.ErrCodeInvalidSession,
		pkgerrors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case pkgerrors.ErrCodeNotFound, pkgerrors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case pkgerrors.ErrCodeDuplicateID, pkgerrors.ErrCodeCycle, pkgerrors.ErrCodeNoHistory:
		return http.StatusConflict
	case pkgerrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case pkgerrors.ErrCodeNetwork, pkgerrors.ErrCodeQuery:
		return http.StatusBadGateway
	case pkgerrors.ErrCodeUnsupported:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	e := classify(err)
	msg := e.Message
	if e.Code == pkgerrors.ErrCodeInternal {
		msg = "internal error"
	}
	writeJSON(w, statusFor(e.Code), ErrorResponse{Code: e.Code, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return pkgerrors.Wrap(pkgerrors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}
