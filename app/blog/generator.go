package blog

import (
	"context"
	"log/slog"
	"sync"

	"github.com/publicvector/databreach-rss/app/breach"
)

// GenerateFunc produces a post for a validated case. Implementations make the
// expensive external call (see AnthropicWriter); failures are reported as
// errors and never partially cached.
type GenerateFunc func(ctx context.Context, c *breach.Case, supplementary string) (*Post, error)

// TextExtractor supplies supplementary article text for a source URL.
type TextExtractor interface {
	Run(url string) string
}

// Generator is the at-most-once gate in front of the expensive generation
// step. For a given case ID the GenerateFunc runs no more than once across the
// cache's lifetime: repeat calls short-circuit to the cached post, including
// across process restarts via the disk-backed cache.
type Generator struct {
	cache     *Cache
	validator *breach.Validator
	extractor TextExtractor
	limiter   *RateLimiter
	generate  GenerateFunc

	// Serializes the miss path so concurrent calls for the same case
	// cannot both invoke the GenerateFunc.
	genMu sync.Mutex
}

// BatchResult summarizes one RunBatch invocation.
type BatchResult struct {
	Posts     []*Post
	Total     int
	Generated int
	Cached    int
	Skipped   int
}

func NewGenerator(cache *Cache, extractor TextExtractor, limiter *RateLimiter, generate GenerateFunc) *Generator {
	return &Generator{
		cache:     cache,
		validator: breach.NewValidator(),
		extractor: extractor,
		limiter:   limiter,
		generate:  generate,
	}
}

// Cache exposes the underlying post cache for read-side consumers.
func (g *Generator) Cache() *Cache {
	return g.cache
}

// Validate runs validation for a case including its extracted article text,
// without generating anything.
func (g *Generator) Validate(c *breach.Case) breach.Result {
	return g.validator.Run(c, g.extractor.Run(c.URL))
}

// Run returns the post for a case, generating it if absent. Returns nil when
// validation fails or the generation call fails; neither outcome writes to the
// cache, so a later run may retry.
func (g *Generator) Run(ctx context.Context, c *breach.Case) *Post {
	if cached := g.cache.Get(c.ID); cached != nil {
		slog.Debug("Using cached blog", "company", c.Company, "id", c.ID)
		return cached
	}

	g.genMu.Lock()
	defer g.genMu.Unlock()

	// Re-check under the lock: another caller may have generated this case
	// while we waited.
	if cached := g.cache.Get(c.ID); cached != nil {
		return cached
	}

	supplementary := g.extractor.Run(c.URL)

	validation := g.validator.Run(c, supplementary)
	if !validation.IsValid {
		slog.Debug("Skipping blog generation", "company", c.Company, "reasons", validation.Reasons)
		return nil
	}

	g.limiter.Acquire()

	post, err := g.generate(ctx, c, supplementary)
	if err != nil {
		slog.Error("Blog generation failed", "company", c.Company, "error", err)
		return nil
	}

	post.ID = c.ID
	post.QualityScore = validation.QualityScore
	g.cache.Set(post)

	slog.Info("Generated blog", "company", c.Company, "id", c.ID, "score", validation.QualityScore)
	return post
}

// RunBatch generates posts for a list of cases. Cached posts are collected
// first; new generations then proceed up to limit additional posts (0 = no
// limit). Validation failures and generation failures count as skipped and are
// not retried within the batch.
func (g *Generator) RunBatch(ctx context.Context, cases []*breach.Case, limit int) BatchResult {
	result := BatchResult{Total: len(cases)}

	var pending []*breach.Case
	for _, c := range cases {
		if cached := g.cache.Get(c.ID); cached != nil {
			result.Posts = append(result.Posts, cached)
			result.Cached++
			continue
		}
		pending = append(pending, c)
	}

	for _, c := range pending {
		if limit > 0 && result.Generated >= limit {
			break
		}
		if ctx.Err() != nil {
			break
		}

		post := g.Run(ctx, c)
		if post == nil {
			result.Skipped++
			continue
		}
		result.Posts = append(result.Posts, post)
		result.Generated++
	}

	return result
}
