package collector

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/publicvector/databreach-rss/app/breach"
	"github.com/publicvector/databreach-rss/app/config"
)

// Patterns that pull a company name out of a news headline, most specific
// first: "breach at X" phrasings, then "X data breach", then a generic
// colon-prefix split.
var headlinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:data\s+breach|breach|ransomware)\s+(?:at|hits?|targets?)\s+(.+?)(?:[,:;]|$)`),
	regexp.MustCompile(`(?i)^(.+?)\s+(?:data\s+breach|breach|hack(?:ed)?|ransomware|cyber\s*attack)`),
	regexp.MustCompile(`^([^:]+):`),
}

var tagRe = regexp.MustCompile(`<[^>]+>`)

// RSSCollector turns a news or tracker RSS/Atom feed into breach entries. The
// keyword list from the source definition gates which items count as breach
// reports; registries and trackers that publish breach data exclusively leave
// it empty.
type RSSCollector struct {
	source *config.Source
	parser *gofeed.Parser
}

func NewRSSCollector(source *config.Source, userAgent string) *RSSCollector {
	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	return &RSSCollector{
		source: source,
		parser: parser,
	}
}

func (c *RSSCollector) Name() string {
	return c.source.Name
}

func (c *RSSCollector) Run(ctx context.Context) ([]breach.Entry, error) {
	feed, err := c.parser.ParseURLWithContext(c.source.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	var entries []breach.Entry
	for _, item := range feed.Items {
		if len(entries) >= c.source.Limit {
			break
		}

		description := stripHTML(item.Description)
		if !c.matchesKeywords(item.Title, description) {
			continue
		}

		entry := breach.NewEntry(companyFromHeadline(item.Title), c.itemDate(item), c.source.Name, item.Link)
		entry.Description = description
		entry.BreachType = c.source.BreachType
		entries = append(entries, entry)
	}

	return entries, nil
}

func (c *RSSCollector) itemDate(item *gofeed.Item) string {
	if item.PublishedParsed != nil {
		return item.PublishedParsed.UTC().Format("2006-01-02")
	}
	return item.Published
}

func (c *RSSCollector) matchesKeywords(title, description string) bool {
	if len(c.source.Keywords) == 0 {
		return true
	}
	haystack := strings.ToLower(title + " " + description)
	for _, keyword := range c.source.Keywords {
		if strings.Contains(haystack, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

// companyFromHeadline extracts the organization name from a news headline,
// falling back to the full title when no pattern matches. Heuristic only; the
// identity resolver's normalization absorbs most of the noise.
func companyFromHeadline(title string) string {
	title = strings.TrimSpace(title)
	for _, pattern := range headlinePatterns {
		if m := pattern.FindStringSubmatch(title); m != nil {
			if candidate := strings.TrimSpace(m[1]); candidate != "" {
				return candidate
			}
		}
	}
	return title
}

func stripHTML(s string) string {
	return strings.TrimSpace(tagRe.ReplaceAllString(s, " "))
}
