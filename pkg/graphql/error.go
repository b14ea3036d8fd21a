package graphql

import (
	"strings"
)

// Location is a position in the query document.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// ErrorItem is one entry of a response's "errors" list.
type ErrorItem struct {
	Message    string         `json:"message"`
	Locations  []Location     `json:"locations,omitempty"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// Error is returned when the server answers with a non-empty "errors" list.
type Error struct {
	Items []ErrorItem
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Items))
	for i, it := range e.Items {
		msgs[i] = it.Message
	}
	return "graphql: " + strings.Join(msgs, "; ")
}

// Code returns the "code" extension of the first error, if any.
func (e *Error) Code() string {
	for _, it := range e.Items {
		if c, ok := it.Extensions["code"].(string); ok {
			return c
		}
	}
	return ""
}
