package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/publicvector/databreach-rss/app/breach"
	"github.com/publicvector/databreach-rss/app/cfg"
	"github.com/publicvector/databreach-rss/app/database"
)

var _ SchedulerInterface = (*Scheduler)(nil)

// Scheduler drives the collection pipeline: collect entries from all sources,
// fold them into cases, archive, generate blogs, publish the run. One run is
// in flight at a time; the ticker and manual refreshes share the same path.
type Scheduler struct {
	collector    EntryCollector
	generator    BlogGenerator
	validator    *breach.Validator
	caseRepo     database.CaseRepository
	publisher    Publisher
	siteBuilder  SiteBuilder
	interval     time.Duration
	maxPerSource int
	blogLimit    int
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	refresh      chan struct{}
}

func NewScheduler(collector EntryCollector, generator BlogGenerator,
	caseRepo database.CaseRepository, publisher Publisher, siteBuilder SiteBuilder) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		collector:    collector,
		generator:    generator,
		validator:    breach.NewValidator(),
		caseRepo:     caseRepo,
		publisher:    publisher,
		siteBuilder:  siteBuilder,
		interval:     time.Duration(cfg.UpdateInterval) * time.Second,
		maxPerSource: cfg.MaxPerSource,
		blogLimit:    cfg.BlogLimit,
		ctx:          ctx,
		cancel:       cancel,
		refresh:      make(chan struct{}, 1),
	}
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.runOnce()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.runOnce()
			case <-s.refresh:
				s.runOnce()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

// EnqueueRefresh requests an out-of-band collection run. A refresh that is
// already pending absorbs the request.
func (s *Scheduler) EnqueueRefresh() error {
	select {
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
	}

	select {
	case s.refresh <- struct{}{}:
		return nil
	default:
		return fmt.Errorf("refresh already pending")
	}
}

// RunOnce executes a single collection run synchronously. Used for one-shot
// invocations; the serve loop calls the same pipeline.
func (s *Scheduler) RunOnce(ctx context.Context) ([]*breach.Case, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return s.run(ctx), nil
}

func (s *Scheduler) runOnce() {
	s.run(s.ctx)
}

func (s *Scheduler) run(ctx context.Context) []*breach.Case {
	start := time.Now()
	slog.Info("Collection run started")

	entries := s.collector.Run(ctx)
	cases := breach.Aggregate(entries, s.maxPerSource)

	slog.Info("Entries aggregated", "entries", len(entries), "cases", len(cases))

	// Archive uses metadata-only validation; the generator re-validates with
	// extracted article text before spending a generation call.
	for _, c := range cases {
		result := s.validator.Run(c, "")
		if err := s.caseRepo.UpsertCase(c, result.QualityScore, result.IsValid); err != nil {
			slog.Error("Failed to archive case", "company", c.Company, "id", c.ID, "error", err)
		}
	}

	batch := s.generator.RunBatch(ctx, cases, s.blogLimit)

	s.publisher.Publish(cases, batch)

	if s.siteBuilder != nil {
		if err := s.siteBuilder.Run(cases, batch); err != nil {
			slog.Error("Static site generation failed", "error", err)
		}
	}

	slog.Info("Collection run finished", "duration", time.Since(start).Round(time.Millisecond),
		"cases", len(cases), "blogs_generated", batch.Generated, "blogs_cached", batch.Cached,
		"blogs_skipped", batch.Skipped)

	return cases
}
