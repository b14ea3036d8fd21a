package table

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// Row is a single untyped table row.
type Row = map[string]any

// MemoryData is the data object MemoryClient responds with.
type MemoryData struct {
	Rows       []Row `json:"rows"`
	TotalCount int   `json:"totalCount"`
	Offset     int   `json:"offset"`
	Limit      int   `json:"limit"`
}

// ResolveMemory turns MemoryData into offset/limit paged table data.
func ResolveMemory(d MemoryData) TableData[Row] {
	return TableData[Row]{
		Rows:          d.Rows,
		TotalCount:    d.TotalCount,
		PagingActions: OffsetLimitPaging(d.Offset, d.Limit, d.TotalCount),
	}
}

// MemoryClient answers every query from an in-memory row slice, ignoring
// the query document. Supported variables:
//
//	query   case-insensitive substring matched against every column
//	sort    column to sort by
//	order   "asc" (default) or "desc"
//	offset  rows to skip
//	limit   page size, 0 or absent returns all rows
type MemoryClient struct {
	mu   sync.RWMutex
	rows []Row
}

// NewMemoryClient returns a client over rows. The slice is not copied.
func NewMemoryClient(rows []Row) *MemoryClient {
	return &MemoryClient{rows: rows}
}

// Append adds rows to the client.
func (c *MemoryClient) Append(rows ...Row) {
	c.mu.Lock()
	c.rows = append(c.rows, rows...)
	c.mu.Unlock()
}

// Len returns the number of rows before filtering.
func (c *MemoryClient) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rows)
}

// Query implements Client.
func (c *MemoryClient) Query(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vars := req.Variables

	c.mu.RLock()
	rows := make([]Row, 0, len(c.rows))
	needle := strings.ToLower(stringVar(vars, "query"))
	for _, r := range c.rows {
		if needle == "" || rowContains(r, needle) {
			rows = append(rows, r)
		}
	}
	c.mu.RUnlock()

	if col := stringVar(vars, "sort"); col != "" {
		desc := strings.EqualFold(stringVar(vars, "order"), OrderDesc)
		slices.SortStableFunc(rows, func(a, b Row) int {
			c := compareValues(a[col], b[col])
			if desc {
				return -c
			}
			return c
		})
	}

	total := len(rows)
	offset, _ := intVar(vars, "offset")
	limit, _ := intVar(vars, "limit")
	offset = min(max(offset, 0), total)
	end := total
	if limit > 0 {
		end = min(offset+limit, total)
	}

	data, err := json.Marshal(MemoryData{
		Rows:       rows[offset:end],
		TotalCount: total,
		Offset:     offset,
		Limit:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("table: encode rows: %w", err)
	}
	return &Response{Data: data}, nil
}

func rowContains(r Row, needle string) bool {
	for _, v := range r {
		if v == nil {
			continue
		}
		if strings.Contains(strings.ToLower(fmt.Sprint(v)), needle) {
			return true
		}
	}
	return false
}

// compareValues orders nil first, numbers numerically and everything else
// by its string form.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return cmp.Compare(af, bf)
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func stringVar(vars map[string]any, key string) string {
	v, ok := vars[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func intVar(vars map[string]any, key string) (int, bool) {
	switch n := vars[key].(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	}
	return 0, false
}
