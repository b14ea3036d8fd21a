package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/adminstack/pkg/table"
)

// ReadNodes decodes a node array, bare or wrapped as {"nodes": [...]}.
// ReadNodes does not close r.
func ReadNodes(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	raw, err := unwrap(data, "nodes")
	if err != nil {
		return nil, err
	}
	var recs []Record
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, fmt.Errorf("decode nodes: %w", err)
	}
	return recs, nil
}

// ImportNodes reads nodes from the file at path, or stdin when path is "-".
func ImportNodes(path string) ([]Record, error) {
	if path == "-" {
		return ReadNodes(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	recs, err := ReadNodes(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}

// WriteNodes writes recs as an indented JSON array.
func WriteNodes(w io.Writer, recs []Record) error {
	if recs == nil {
		recs = []Record{}
	}
	return writeIndented(w, recs)
}

// ExportNodes writes recs to the file at path.
func ExportNodes(path string, recs []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteNodes(f, recs); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadRows decodes table rows, bare or wrapped as {"rows": [...]}.
func ReadRows(r io.Reader) ([]table.Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	raw, err := unwrap(data, "rows")
	if err != nil {
		return nil, err
	}
	var rows []table.Row
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	return rows, nil
}

// ImportRows reads rows from the file at path, or stdin when path is "-".
func ImportRows(path string) ([]table.Row, error) {
	if path == "-" {
		return ReadRows(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadRows(f)
}

// unwrap returns data itself when it is an array, or the array under key
// when it is an object.
func unwrap(data []byte, key string) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty input")
	}
	if trimmed[0] == '[' {
		return trimmed, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	raw, ok := obj[key]
	if !ok {
		return nil, fmt.Errorf("expected an array or an object with %q", key)
	}
	return raw, nil
}

func writeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteJSON writes any value as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	return writeIndented(w, v)
}
