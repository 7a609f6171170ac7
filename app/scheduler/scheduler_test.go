package scheduler

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/publicvector/databreach-rss/app/blog"
	"github.com/publicvector/databreach-rss/app/breach"
	"github.com/publicvector/databreach-rss/app/cfg"
	"github.com/publicvector/databreach-rss/app/database"
)

func setupTestConfig() {
	oldArgs := os.Args
	os.Args = []string{"test"}
	defer func() { os.Args = oldArgs }()

	if os.Getenv("PORT") == "" {
		os.Setenv("PORT", "8080")
	}

	cfg.Load()
}

// MockCollector implements a simple mock for testing
type MockCollector struct {
	mu      sync.Mutex
	runs    int
	entries []breach.Entry
}

var _ EntryCollector = (*MockCollector)(nil)

func (m *MockCollector) Run(ctx context.Context) []breach.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs++
	return m.entries
}

func (m *MockCollector) Runs() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runs
}

// MockBlogGenerator implements a simple mock for testing
type MockBlogGenerator struct {
	mu    sync.Mutex
	batch blog.BatchResult
	seen  [][]*breach.Case
}

var _ BlogGenerator = (*MockBlogGenerator)(nil)

func (m *MockBlogGenerator) RunBatch(ctx context.Context, cases []*breach.Case, limit int) blog.BatchResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen = append(m.seen, cases)
	m.batch.Total = len(cases)
	return m.batch
}

// MockCaseRepository implements a simple mock for testing
type MockCaseRepository struct {
	mu       sync.Mutex
	upserted []*breach.Case
}

var _ database.CaseRepository = (*MockCaseRepository)(nil)

func (m *MockCaseRepository) UpsertCase(c *breach.Case, qualityScore float64, isValid bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserted = append(m.upserted, c)
	return nil
}

func (m *MockCaseRepository) GetRecentCases(limit int) ([]database.CaseRecord, error) {
	return nil, nil
}

func (m *MockCaseRepository) GetCaseCount() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.upserted), nil
}

func (m *MockCaseRepository) GetSourceStats() (map[string]int, error) {
	return map[string]int{}, nil
}

// MockPublisher implements a simple mock for testing
type MockPublisher struct {
	mu        sync.Mutex
	published int
	lastCases []*breach.Case
	lastBatch blog.BatchResult
}

var _ Publisher = (*MockPublisher)(nil)

func (m *MockPublisher) Publish(cases []*breach.Case, batch blog.BatchResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published++
	m.lastCases = cases
	m.lastBatch = batch
}

func (m *MockPublisher) Published() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.published
}

func testEntries() []breach.Entry {
	a := breach.NewEntry("Acme Corp", "2024-03-05", "Source A", "https://example.com/a")
	a.Description = "A long enough description of the incident that passes the length checks easily."
	b := breach.NewEntry("Acme Corp", "2024-03-12", "Source B", "https://example.com/b")
	return []breach.Entry{a, b}
}

func newTestScheduler(collector *MockCollector, generator *MockBlogGenerator,
	repo *MockCaseRepository, publisher *MockPublisher) *Scheduler {
	setupTestConfig()
	return NewScheduler(collector, generator, repo, publisher, nil)
}

func TestRunOncePipeline(t *testing.T) {
	collector := &MockCollector{entries: testEntries()}
	generator := &MockBlogGenerator{}
	repo := &MockCaseRepository{}
	publisher := &MockPublisher{}

	s := newTestScheduler(collector, generator, repo, publisher)

	cases, err := s.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}

	if len(cases) != 1 {
		t.Fatalf("Expected 1 merged case from 2 same-month entries, got %d", len(cases))
	}
	if cases[0].Company != "Acme Corp" {
		t.Errorf("Expected merged case for Acme Corp, got %q", cases[0].Company)
	}

	count, _ := repo.GetCaseCount()
	if count != 1 {
		t.Errorf("Expected 1 archived case, got %d", count)
	}

	if publisher.Published() != 1 {
		t.Errorf("Expected 1 publish, got %d", publisher.Published())
	}
	if len(generator.seen) != 1 {
		t.Errorf("Expected generator invoked once, got %d", len(generator.seen))
	}
}

func TestRunOnceCancelledContext(t *testing.T) {
	collector := &MockCollector{}
	s := newTestScheduler(collector, &MockBlogGenerator{}, &MockCaseRepository{}, &MockPublisher{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.RunOnce(ctx); err == nil {
		t.Error("Expected error from cancelled context")
	}
	if collector.Runs() != 0 {
		t.Errorf("Expected no collection with cancelled context, got %d runs", collector.Runs())
	}
}

func TestStartRunsInitialCollection(t *testing.T) {
	collector := &MockCollector{entries: testEntries()}
	publisher := &MockPublisher{}
	s := newTestScheduler(collector, &MockBlogGenerator{}, &MockCaseRepository{}, publisher)

	s.Start()
	defer s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for publisher.Published() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	if publisher.Published() == 0 {
		t.Error("Expected an initial collection run after Start")
	}
}

func TestEnqueueRefreshTriggersRun(t *testing.T) {
	collector := &MockCollector{entries: testEntries()}
	publisher := &MockPublisher{}
	s := newTestScheduler(collector, &MockBlogGenerator{}, &MockCaseRepository{}, publisher)

	s.Start()
	defer s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for publisher.Published() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	if err := s.EnqueueRefresh(); err != nil {
		t.Fatalf("EnqueueRefresh failed: %v", err)
	}

	deadline = time.Now().Add(2 * time.Second)
	for publisher.Published() < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	if publisher.Published() < 2 {
		t.Errorf("Expected refresh to trigger a second run, got %d", publisher.Published())
	}
}

func TestEnqueueRefreshAfterStop(t *testing.T) {
	s := newTestScheduler(&MockCollector{}, &MockBlogGenerator{}, &MockCaseRepository{}, &MockPublisher{})

	s.Start()
	s.Stop()

	if err := s.EnqueueRefresh(); err == nil {
		t.Error("Expected error enqueueing refresh after Stop")
	}
}

func TestStopWaitsForLoop(t *testing.T) {
	s := newTestScheduler(&MockCollector{}, &MockBlogGenerator{}, &MockCaseRepository{}, &MockPublisher{})

	s.Start()

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Stop did not return")
	}
}
