package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/publicvector/databreach-rss/app/blog"
	"github.com/publicvector/databreach-rss/app/breach"
	"github.com/publicvector/databreach-rss/app/database"
	"github.com/publicvector/databreach-rss/app/feed"
)

func NewHandler(snapshot *Snapshot, caseRepo database.CaseRepository,
	blogCache *blog.Cache, refresher Refresher) *Handler {
	return &Handler{
		snapshot:  snapshot,
		generator: feed.NewGenerator(),
		caseRepo:  caseRepo,
		blogCache: blogCache,
		refresher: refresher,
	}
}

func (h *Handler) GetRSS(c *gin.Context) {
	cases, _, updatedAt := h.snapshot.Get()

	c.Header("Content-Type", "application/rss+xml; charset=utf-8")
	c.Header("X-Feed-Items", strconv.Itoa(len(cases)))
	if !updatedAt.IsZero() {
		c.Header("X-Last-Updated", updatedAt.Format(time.RFC3339))
	}

	c.String(http.StatusOK, h.generator.RunRSS(cases))
}

func (h *Handler) GetAtom(c *gin.Context) {
	cases, _, updatedAt := h.snapshot.Get()

	c.Header("Content-Type", "application/atom+xml; charset=utf-8")
	c.Header("X-Feed-Items", strconv.Itoa(len(cases)))
	if !updatedAt.IsZero() {
		c.Header("X-Last-Updated", updatedAt.Format(time.RFC3339))
	}

	c.String(http.StatusOK, h.generator.RunAtom(cases))
}

func (h *Handler) GetJSON(c *gin.Context) {
	cases, _, updatedAt := h.snapshot.Get()

	views := make([]map[string]interface{}, 0, len(cases))
	for _, bc := range cases {
		views = append(views, caseToJSON(bc))
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"breaches":   views,
		"total":      len(views),
		"updated_at": updatedAt.Format(time.RFC3339),
	})
}

func (h *Handler) GetBlogs(c *gin.Context) {
	_, batch, updatedAt := h.snapshot.Get()

	posts := batch.Posts
	if posts == nil {
		posts = []*blog.Post{}
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"blogs": posts,
		"meta": map[string]interface{}{
			"total_entries":   batch.Total,
			"generated_count": batch.Generated,
			"cached_count":    batch.Cached,
			"skipped_count":   batch.Skipped,
			"updated_at":      updatedAt.Format(time.RFC3339),
		},
	})
}

func (h *Handler) GetBlogByID(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing blog ID parameter"})
		return
	}

	post := h.blogCache.Get(id)
	if post == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Blog not found"})
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	cases, _, updatedAt := h.snapshot.Get()
	health["current_cases"] = len(cases)
	if !updatedAt.IsZero() {
		health["last_run_at"] = updatedAt.Format(time.RFC3339)
	}

	if count, err := h.caseRepo.GetCaseCount(); err == nil {
		health["archived_cases"] = count
	}

	health["cached_blogs"] = h.blogCache.Len()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.caseRepo.GetSourceStats()
	if err != nil {
		slog.Error("Database error", "operation", "source_stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	count, err := h.caseRepo.GetCaseCount()
	if err != nil {
		slog.Error("Database error", "operation", "case_count", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"archived_cases": count,
		"sources":        stats,
	})
}

func (h *Handler) APIRefresh(c *gin.Context) {
	if err := h.refresher.EnqueueRefresh(); err != nil {
		slog.Error("Error enqueueing refresh", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Failed to enqueue refresh",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"message": "Collection run enqueued",
	})
}

func caseToJSON(c *breach.Case) map[string]interface{} {
	return map[string]interface{}{
		"id":               c.ID,
		"company":          c.Company,
		"date_reported":    c.DateReported,
		"sources":          c.Sources,
		"url":              c.URL,
		"description":      c.Description,
		"records_affected": c.RecordsAffected,
		"location":         c.Location,
		"threat_actor":     c.ThreatActor,
		"breach_type":      c.BreachType,
	}
}
