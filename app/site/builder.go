package site

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/publicvector/databreach-rss/app/blog"
	"github.com/publicvector/databreach-rss/app/breach"
	"github.com/publicvector/databreach-rss/app/feed"
)

// Builder writes the static site: feeds, JSON data, an index page and one HTML
// page per generated blog post. The output directory is suitable for plain
// file hosting.
type Builder struct {
	outputDir string
	feedGen   *feed.Generator
	markdown  goldmark.Markdown
}

func NewBuilder(outputDir string) *Builder {
	return &Builder{
		outputDir: outputDir,
		feedGen:   feed.NewGenerator(),
		markdown:  goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// caseView is the JSON shape of one case in data.json. Field names are the
// published data format and must stay stable.
type caseView struct {
	ID              string   `json:"id"`
	Company         string   `json:"company"`
	DateReported    string   `json:"date_reported"`
	Sources         []string `json:"sources"`
	URL             string   `json:"url"`
	Description     string   `json:"description"`
	RecordsAffected string   `json:"records_affected"`
	Location        string   `json:"location"`
	ThreatActor     string   `json:"threat_actor"`
	BreachType      string   `json:"breach_type"`
}

type blogsDocument struct {
	Blogs []*blog.Post `json:"blogs"`
	Meta  blogsMeta    `json:"meta"`
}

type blogsMeta struct {
	TotalEntries   int    `json:"total_entries"`
	GeneratedCount int    `json:"generated_count"`
	CachedCount    int    `json:"cached_count"`
	SkippedCount   int    `json:"skipped_count"`
	Timestamp      string `json:"timestamp"`
}

// Run writes the complete static site for one collection run.
func (b *Builder) Run(cases []*breach.Case, batch blog.BatchResult) error {
	if err := os.MkdirAll(filepath.Join(b.outputDir, "blogs"), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := b.writeFile("rss.xml", []byte(b.feedGen.RunRSS(cases))); err != nil {
		return err
	}
	if err := b.writeFile("atom.xml", []byte(b.feedGen.RunAtom(cases))); err != nil {
		return err
	}

	if err := b.writeJSON("data.json", casesToViews(cases)); err != nil {
		return err
	}

	doc := blogsDocument{
		Blogs: batch.Posts,
		Meta: blogsMeta{
			TotalEntries:   batch.Total,
			GeneratedCount: batch.Generated,
			CachedCount:    batch.Cached,
			SkippedCount:   batch.Skipped,
			Timestamp:      time.Now().UTC().Format(time.RFC3339),
		},
	}
	if doc.Blogs == nil {
		doc.Blogs = []*blog.Post{}
	}
	if err := b.writeJSON("blogs.json", doc); err != nil {
		return err
	}

	for _, post := range batch.Posts {
		if err := b.writePostPage(post); err != nil {
			slog.Error("Failed to write blog page", "id", post.ID, "error", err)
		}
	}

	if err := b.writeIndexPage(cases, batch.Posts); err != nil {
		return err
	}
	if err := b.writeBreachesPage(cases); err != nil {
		return err
	}

	if err := b.writeJSON("last_updated.json", map[string]string{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		return err
	}

	slog.Info("Static site generated", "dir", b.outputDir, "cases", len(cases), "blogs", len(batch.Posts))
	return nil
}

func casesToViews(cases []*breach.Case) []caseView {
	views := make([]caseView, 0, len(cases))
	for _, c := range cases {
		views = append(views, caseView{
			ID:              c.ID,
			Company:         c.Company,
			DateReported:    c.DateReported,
			Sources:         c.Sources,
			URL:             c.URL,
			Description:     c.Description,
			RecordsAffected: c.RecordsAffected,
			Location:        c.Location,
			ThreatActor:     c.ThreatActor,
			BreachType:      c.BreachType,
		})
	}
	return views
}

func (b *Builder) writePostPage(post *blog.Post) error {
	whatHappened, err := b.renderMarkdown(post.WhatHappened)
	if err != nil {
		return err
	}
	whoIsAffected, err := b.renderMarkdown(post.WhoIsAffected)
	if err != nil {
		return err
	}
	contactUs, err := b.renderMarkdown(post.ContactUs)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	err = postTemplate.Execute(&buf, map[string]any{
		"Post":          post,
		"WhatHappened":  whatHappened,
		"WhoIsAffected": whoIsAffected,
		"ContactUs":     contactUs,
		"GeneratedDate": shortDate(post.GeneratedAt),
	})
	if err != nil {
		return fmt.Errorf("failed to render blog page: %w", err)
	}

	return b.writeFile(filepath.Join("blogs", post.ID+".html"), buf.Bytes())
}

func (b *Builder) writeIndexPage(cases []*breach.Case, posts []*blog.Post) error {
	recent := posts
	if len(recent) > 5 {
		recent = recent[:5]
	}

	var buf bytes.Buffer
	err := indexTemplate.Execute(&buf, map[string]any{
		"CaseCount": len(cases),
		"BlogCount": len(posts),
		"Recent":    recent,
	})
	if err != nil {
		return fmt.Errorf("failed to render index page: %w", err)
	}

	return b.writeFile("index.html", buf.Bytes())
}

func (b *Builder) writeBreachesPage(cases []*breach.Case) error {
	var buf bytes.Buffer
	err := breachesTemplate.Execute(&buf, map[string]any{
		"Cases": casesToViews(cases),
	})
	if err != nil {
		return fmt.Errorf("failed to render breaches page: %w", err)
	}

	return b.writeFile("breaches.html", buf.Bytes())
}

func (b *Builder) renderMarkdown(source string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := b.markdown.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

func (b *Builder) writeFile(name string, content []byte) error {
	path := filepath.Join(b.outputDir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func (b *Builder) writeJSON(name string, v any) error {
	content, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	return b.writeFile(name, content)
}

func shortDate(timestamp string) string {
	if len(timestamp) >= 10 {
		return timestamp[:10]
	}
	return timestamp
}
