package blog

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
)

const minExtractedLength = 100

// Extractor pulls readable article text from a case's source URL. The text
// supplements sparse descriptions for validation and gives the writer more
// material to work from. Extraction is strictly best-effort: any failure
// yields an empty string.
type Extractor struct {
	client    *http.Client
	userAgent string
}

func NewExtractor(timeout time.Duration, userAgent string) *Extractor {
	return &Extractor{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Run fetches the URL and extracts the main article text. Returns "" for
// non-http URLs, fetch failures, or pages with no usable article body.
func (e *Extractor) Run(rawURL string) string {
	if !strings.HasPrefix(rawURL, "http") {
		return ""
	}

	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		slog.Debug("Article fetch failed", "url", rawURL, "error", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Debug("Article fetch returned non-OK status", "url", rawURL, "status", resp.StatusCode)
		return ""
	}

	article, err := readability.FromReader(resp.Body, pageURL)
	if err != nil {
		slog.Debug("Article extraction failed", "url", rawURL, "error", err)
		return ""
	}

	text := strings.TrimSpace(article.TextContent)
	if len(text) < minExtractedLength {
		return ""
	}

	slog.Debug("Article text extracted", "url", rawURL, "chars", len(text))
	return text
}
