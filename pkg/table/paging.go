package table

import "context"

// PagingActions move a table to its neighbouring pages. A nil action means
// there is no such page.
type PagingActions struct {
	FetchNextPage     func(ctx context.Context, api API) error
	FetchPreviousPage func(ctx context.Context, api API) error

	// Page is the 1-based current page, 0 when unknown.
	Page int

	// TotalPages is 0 when unknown.
	TotalPages int
}

// HasNext reports whether a next page exists.
func (p *PagingActions) HasNext() bool { return p != nil && p.FetchNextPage != nil }

// HasPrevious reports whether a previous page exists.
func (p *PagingActions) HasPrevious() bool { return p != nil && p.FetchPreviousPage != nil }

func changePage(vars map[string]any) func(context.Context, API) error {
	return func(ctx context.Context, api API) error {
		return api.ChangePage(ctx, vars)
	}
}

// OffsetLimitPaging pages with "offset"/"limit" variables.
func OffsetLimitPaging(offset, limit, total int) *PagingActions {
	if limit <= 0 {
		return &PagingActions{Page: 1, TotalPages: 1}
	}
	offset = max(offset, 0)
	p := &PagingActions{
		Page:       offset/limit + 1,
		TotalPages: max(ceilDiv(total, limit), 1),
	}
	if offset+limit < total {
		p.FetchNextPage = changePage(map[string]any{"offset": offset + limit, "limit": limit})
	}
	if offset > 0 {
		p.FetchPreviousPage = changePage(map[string]any{"offset": max(offset-limit, 0), "limit": limit})
	}
	return p
}

// PagePaging pages with a 1-based "page" variable.
func PagePaging(page, size, total int) *PagingActions {
	if size <= 0 {
		return &PagingActions{Page: 1, TotalPages: 1}
	}
	pages := max(ceilDiv(total, size), 1)
	page = min(max(page, 1), pages)
	p := &PagingActions{Page: page, TotalPages: pages}
	if page < pages {
		p.FetchNextPage = changePage(map[string]any{"page": page + 1})
	}
	if page > 1 {
		p.FetchPreviousPage = changePage(map[string]any{"page": page - 1})
	}
	return p
}

// PageInfo is a relay-style connection page description.
type PageInfo struct {
	HasNextPage     bool   `json:"hasNextPage"`
	HasPreviousPage bool   `json:"hasPreviousPage"`
	StartCursor     string `json:"startCursor"`
	EndCursor       string `json:"endCursor"`
}

// CursorPaging pages with relay "after"/"before" cursors. The opposite
// cursor is cleared so base variables cannot leak into the page request.
func CursorPaging(info PageInfo) *PagingActions {
	p := &PagingActions{}
	if info.HasNextPage {
		p.FetchNextPage = changePage(map[string]any{"after": info.EndCursor, "before": nil})
	}
	if info.HasPreviousPage {
		p.FetchPreviousPage = changePage(map[string]any{"before": info.StartCursor, "after": nil})
	}
	return p
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
