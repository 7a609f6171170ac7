package api

import (
	"sync"
	"time"

	"github.com/publicvector/databreach-rss/app/blog"
	"github.com/publicvector/databreach-rss/app/breach"
	"github.com/publicvector/databreach-rss/app/database"
	"github.com/publicvector/databreach-rss/app/feed"
)

type GeneratorInterface interface {
	RunRSS(cases []*breach.Case) string
	RunAtom(cases []*breach.Case) string
}

var _ GeneratorInterface = (*feed.Generator)(nil)

// Refresher triggers an out-of-band collection run.
type Refresher interface {
	EnqueueRefresh() error
}

// Snapshot holds the result of the most recent collection run. The scheduler
// publishes; handlers read. Readers always see a complete, consistent run.
type Snapshot struct {
	mu        sync.RWMutex
	cases     []*breach.Case
	batch     blog.BatchResult
	updatedAt time.Time
}

func NewSnapshot() *Snapshot {
	return &Snapshot{}
}

// hydrateLimit caps how many archived cases seed the snapshot at startup.
const hydrateLimit = 200

// Hydrate seeds the snapshot from the case archive so the API serves the
// previous run's data between process start and the first collection run.
// The next published run replaces the seeded state wholesale.
func (s *Snapshot) Hydrate(caseRepo database.CaseRepository, blogCache *blog.Cache) error {
	records, err := caseRepo.GetRecentCases(hydrateLimit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	cases := make([]*breach.Case, 0, len(records))
	batch := blog.BatchResult{Total: len(records)}
	for _, rec := range records {
		c := rec.ToCase()
		cases = append(cases, c)
		if post := blogCache.Get(c.ID); post != nil {
			batch.Posts = append(batch.Posts, post)
			batch.Cached++
		}
	}

	s.Publish(cases, batch)
	return nil
}

func (s *Snapshot) Publish(cases []*breach.Case, batch blog.BatchResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cases = cases
	s.batch = batch
	s.updatedAt = time.Now().UTC()
}

func (s *Snapshot) Get() ([]*breach.Case, blog.BatchResult, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cases, s.batch, s.updatedAt
}

type Handler struct {
	snapshot  *Snapshot
	generator GeneratorInterface
	caseRepo  database.CaseRepository
	blogCache *blog.Cache
	refresher Refresher
}
