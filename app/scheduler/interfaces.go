package scheduler

import (
	"context"

	"github.com/publicvector/databreach-rss/app/blog"
	"github.com/publicvector/databreach-rss/app/breach"
)

// EntryCollector fans the configured sources out and gathers their entries.
type EntryCollector interface {
	Run(ctx context.Context) []breach.Entry
}

// BlogGenerator produces cached posts for a batch of cases.
type BlogGenerator interface {
	RunBatch(ctx context.Context, cases []*breach.Case, limit int) blog.BatchResult
}

// Publisher receives the result of a completed collection run.
type Publisher interface {
	Publish(cases []*breach.Case, batch blog.BatchResult)
}

// SiteBuilder writes the static site for a completed run. Optional; a nil
// builder disables static output.
type SiteBuilder interface {
	Run(cases []*breach.Case, batch blog.BatchResult) error
}

type SchedulerInterface interface {
	Start()
	Stop()
	EnqueueRefresh() error
}
