package collector

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/publicvector/databreach-rss/app/breach"
	"github.com/publicvector/databreach-rss/app/config"
)

// Runner fans collectors out over a bounded worker pool and gathers their
// entries. Results are concatenated in collector registration order regardless
// of completion order, so the downstream first-non-empty merge sees a
// reproducible arrival order. A collector that fails or times out contributes
// zero entries.
type Runner struct {
	collectors  []Collector
	workerCount int
	timeout     time.Duration
}

func NewRunner(collectors []Collector, workerCount int, timeout time.Duration) *Runner {
	return &Runner{
		collectors:  collectors,
		workerCount: workerCount,
		timeout:     timeout,
	}
}

func (r *Runner) Run(ctx context.Context) []breach.Entry {
	results := make([][]breach.Entry, len(r.collectors))

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < r.workerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = r.collect(ctx, r.collectors[i])
			}
		}()
	}

	for i := range r.collectors {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var entries []breach.Entry
	for i, result := range results {
		slog.Info("Source collected", "source", r.collectors[i].Name(), "entries", len(result))
		entries = append(entries, result...)
	}
	return entries
}

func (r *Runner) collect(ctx context.Context, c Collector) []breach.Entry {
	collectCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	entries, err := c.Run(collectCtx)
	if err != nil {
		slog.Warn("Source collection failed", "source", c.Name(), "duration", time.Since(start), "error", err)
		return nil
	}
	return entries
}

// Build maps source definitions onto collector implementations. API sources
// are dispatched on their URL; an unrecognized API source is skipped with a
// warning rather than failing the whole run.
func Build(sources []*config.Source, timeout time.Duration, userAgent string) []Collector {
	client := &http.Client{Timeout: timeout}

	var collectors []Collector
	for _, source := range sources {
		if !source.Enabled {
			slog.Debug("Source disabled, skipping", "source", source.Name)
			continue
		}

		switch source.Kind {
		case "rss":
			collectors = append(collectors, NewRSSCollector(source, userAgent))
		case "api":
			switch {
			case strings.Contains(source.URL, "ransomware.live"):
				collectors = append(collectors, NewRansomwareLiveCollector(source, client, userAgent))
			case strings.Contains(source.URL, "hhs.gov"):
				collectors = append(collectors, NewHHSOCRCollector(source, client, userAgent))
			default:
				slog.Warn("No API collector for source, skipping", "source", source.Name, "url", source.URL)
			}
		}
	}
	return collectors
}
