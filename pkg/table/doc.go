// Package table binds a paginated list query to a table view.
//
// A [Query] owns the query document, the caller's base variables, the
// current filters and sort state, and the most recent successful result.
// Views drive it through the [API] interface: changing filters or sort
// refetches with the merged variables, and paging fetches a page whose
// result replaces the current data.
//
// # Keep data during load
//
// While a fetch is in flight, or after a fetch fails, [Query.Result] keeps
// returning the last successful data so a table never flashes empty
// between pages:
//
//	q := table.New(client, usersQuery, table.Options[UsersData, User]{
//	    Variables: map[string]any{"limit": 25},
//	    Resolve:   resolveUsers,
//	})
//	if err := q.Refetch(ctx); err != nil {
//	    return err
//	}
//	res := q.Result()
//	fmt.Println(res.TableData.TotalCount)
//
// # Paging strategies
//
// [OffsetLimitPaging], [PagePaging] and [CursorPaging] build the
// [PagingActions] a resolver attaches to its [TableData]. Each action calls
// [API.ChangePage] with the variables of the neighbouring page; a nil action
// means there is no such page.
//
// # In-memory client
//
// [MemoryClient] answers queries from a row slice. It supports a free-text
// "query" filter, "sort"/"order" and "offset"/"limit", which makes it handy
// for tests and for browsing JSON files from the CLI.
package table
