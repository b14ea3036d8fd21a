// Package graphql is a small GraphQL-over-HTTP client that backs table
// queries.
//
// [Client] POSTs {"query", "variables"} as JSON and decodes the standard
// {"data", "errors"} envelope. A non-empty "errors" list is returned as an
// [*Error]; transport failures carry the pkg/errors codes NETWORK_ERROR or
// TIMEOUT and are retried with backoff. When a cache TTL is configured,
// successful responses are stored under a key derived from the endpoint,
// the query and the variables.
//
//	c := graphql.NewClient("https://api.example.com/graphql",
//	    graphql.WithHeaders(map[string]string{"Authorization": "Bearer " + token}),
//	    graphql.WithCache(fileCache, 5*time.Minute),
//	)
//	q := table.New(c, usersQuery, opts)
package graphql
