package hierarchy

import (
	"context"
	"time"

	"github.com/matzehuels/adminstack/pkg/observability"
)

// OrderObserved is [Order] reporting to the installed observability order
// hooks. kind names the ordered collection, e.g. "breadcrumbs".
func OrderObserved[N Node](ctx context.Context, kind string, nodes []N) ([]N, error) {
	hooks := observability.Order()
	hooks.OnOrderStart(ctx, kind, len(nodes))
	start := time.Now()
	out, err := Order(nodes)
	hooks.OnOrderComplete(ctx, kind, len(out), len(nodes)-len(out), time.Since(start), err)
	return out, err
}
