package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Record is a hierarchy node that keeps unknown JSON fields.
type Record struct {
	ID       string
	ParentID string

	// Extra holds every other field in its original encoding.
	Extra map[string]json.RawMessage
}

// NodeID implements hierarchy.Node.
func (r Record) NodeID() string { return r.ID }

// ParentNodeID implements hierarchy.Node.
func (r Record) ParentNodeID() string { return r.ParentID }

// String returns the "title" or "label" field when present, else the id.
func (r Record) String() string {
	for _, k := range []string{"title", "label", "name"} {
		var s string
		if raw, ok := r.Extra[k]; ok && json.Unmarshal(raw, &s) == nil && s != "" {
			return s
		}
	}
	return r.ID
}

// Field decodes the extra field key into v.
func (r Record) Field(key string, v any) (bool, error) {
	raw, ok := r.Extra[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, v)
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Record) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	rawID, ok := fields["id"]
	if !ok {
		return fmt.Errorf("missing id")
	}
	if err := json.Unmarshal(rawID, &r.ID); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	r.ParentID = ""
	if raw, ok := fields["parentId"]; ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		if err := json.Unmarshal(raw, &r.ParentID); err != nil {
			return fmt.Errorf("parentId: %w", err)
		}
	}
	delete(fields, "id")
	delete(fields, "parentId")
	r.Extra = nil
	if len(fields) > 0 {
		r.Extra = fields
	}
	return nil
}

// MarshalJSON writes id, parentId (when set) and the extra fields in key
// order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	write := func(key string, raw []byte) {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(key)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(raw)
	}
	id, err := json.Marshal(r.ID)
	if err != nil {
		return nil, err
	}
	write("id", id)
	if r.ParentID != "" {
		p, err := json.Marshal(r.ParentID)
		if err != nil {
			return nil, err
		}
		write("parentId", p)
	}
	for _, k := range slices.Sorted(maps.Keys(r.Extra)) {
		if k == "id" || k == "parentId" {
			continue
		}
		write(k, r.Extra[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
