package collector

import (
	"context"

	"github.com/publicvector/databreach-rss/app/breach"
)

// Collector fetches raw breach entries from one source. Implementations are
// synchronous and blocking on network I/O; concurrency across sources is the
// Runner's job. A failing collector contributes zero entries — the aggregation
// proceeds without it.
type Collector interface {
	Name() string
	Run(ctx context.Context) ([]breach.Entry, error)
}
