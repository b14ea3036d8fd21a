package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/matzehuels/adminstack/pkg/table"
)

// graphqlPage wraps a GraphQL data object with the paging variables it was
// fetched with, so the resolver can build offset/limit actions.
type graphqlPage struct {
	Data   json.RawMessage `json:"data"`
	Offset int             `json:"offset"`
	Limit  int             `json:"limit"`
}

// pagedClient records the "offset" and "limit" variables of every request
// next to the response data.
func pagedClient(inner table.Client) table.Client {
	return table.ClientFunc(func(ctx context.Context, req table.Request) (*table.Response, error) {
		resp, err := inner.Query(ctx, req)
		if err != nil {
			return nil, err
		}
		page := graphqlPage{
			Data:   resp.Data,
			Offset: intValue(req.Variables["offset"]),
			Limit:  intValue(req.Variables["limit"]),
		}
		data, err := json.Marshal(page)
		if err != nil {
			return nil, err
		}
		return &table.Response{Data: data}, nil
	})
}

// resolveGraphQL finds the row list at rowsPath and the total count at
// totalPath, both dot-separated. Without a total path the row count of the
// page is used and paging stops after the first short page.
func resolveGraphQL(rowsPath, totalPath string) func(graphqlPage) table.TableData[table.Row] {
	return func(p graphqlPage) table.TableData[table.Row] {
		var root any
		if err := json.Unmarshal(p.Data, &root); err != nil {
			return table.TableData[table.Row]{}
		}
		var rows []table.Row
		if list, ok := lookupPath(root, rowsPath).([]any); ok {
			for _, item := range list {
				if row, ok := item.(map[string]any); ok {
					rows = append(rows, row)
				}
			}
		}
		total := p.Offset + len(rows)
		if totalPath != "" {
			total = intValue(lookupPath(root, totalPath))
		} else if p.Limit > 0 && len(rows) == p.Limit {
			total++
		}
		return table.TableData[table.Row]{
			Rows:          rows,
			TotalCount:    total,
			PagingActions: table.OffsetLimitPaging(p.Offset, p.Limit, total),
		}
	}
}

func lookupPath(v any, path string) any {
	if path == "" {
		return v
	}
	for _, key := range strings.Split(path, ".") {
		m, ok := v.(map[string]any)
		if !ok {
			return nil
		}
		v = m[key]
	}
	return v
}

func intValue(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case json.Number:
		i, _ := n.Int64()
		return int(i)
	}
	return 0
}

// cellString formats a row value for display.
func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		if x == float64(int64(x)) {
			return fmt.Sprintf("%d", int64(x))
		}
		return fmt.Sprintf("%g", x)
	case map[string]any, []any:
		b, _ := json.Marshal(x)
		return string(b)
	default:
		return fmt.Sprint(x)
	}
}
