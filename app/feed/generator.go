package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/publicvector/databreach-rss/app/breach"
	"github.com/publicvector/databreach-rss/app/cfg"
)

const (
	feedTitle       = "Data Breach & Ransomware Feed"
	feedDescription = "Aggregated data breach notifications from state registries, federal sources, and ransomware trackers"
)

// Generator renders merged breach cases as RSS 2.0 and Atom documents.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// sorted returns cases ordered newest first by normalized report date. Cases
// with unparseable dates sort last rather than defaulting to "now" and
// claiming the top of the feed.
func (g *Generator) sorted(cases []*breach.Case) []*breach.Case {
	out := make([]*breach.Case, len(cases))
	copy(out, cases)
	sort.SliceStable(out, func(i, j int) bool {
		return breach.ParseDateOrZero(out[i].DateReported).After(breach.ParseDateOrZero(out[j].DateReported))
	})
	return out
}

// RunRSS renders the RSS 2.0 document.
func (g *Generator) RunRSS(cases []*breach.Case) string {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", feedTitle, 4)
	g.writeElement(&buf, "link", g.feedLink(), 4)
	g.writeElement(&buf, "description", feedDescription, 4)
	g.writeElement(&buf, "language", "en", 4)
	g.writeElement(&buf, "lastBuildDate", time.Now().UTC().Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("Breach-RSS/%s", cfg.Get().Version), 4)
	buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
		html.EscapeString(g.feedLink()+"/rss")))

	for _, c := range g.sorted(cases) {
		g.writeRSSItem(&buf, c)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String()
}

func (g *Generator) writeRSSItem(buf *bytes.Buffer, c *breach.Case) {
	buf.WriteString("    <item>\n")

	buf.WriteString("      <guid isPermaLink=\"false\">")
	xml.EscapeText(buf, []byte(c.ID))
	buf.WriteString("</guid>\n")

	g.writeElement(buf, "title", c.Company, 6)
	g.writeElement(buf, "link", CaseLink(c), 6)
	g.writeElement(buf, "description", Describe(c), 6)
	g.writeElement(buf, "pubDate", breach.ParseDate(c.DateReported).Format(time.RFC1123Z), 6)

	g.writeElement(buf, "category", c.BreachType, 6)
	for _, source := range c.Sources {
		g.writeElement(buf, "category", source, 6)
	}
	if c.ThreatActor != "" {
		g.writeElement(buf, "category", "Actor: "+c.ThreatActor, 6)
	}

	buf.WriteString("    </item>\n")
}

// RunAtom renders the Atom document.
func (g *Generator) RunAtom(cases []*breach.Case) string {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<feed xmlns="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n")

	g.writeElement(&buf, "title", feedTitle, 2)
	g.writeElement(&buf, "subtitle", feedDescription, 2)
	g.writeElement(&buf, "id", g.feedLink(), 2)
	g.writeElement(&buf, "updated", time.Now().UTC().Format(time.RFC3339), 2)
	buf.WriteString(fmt.Sprintf("  <link href=\"%s\" rel=\"self\" />\n", html.EscapeString(g.feedLink()+"/atom")))

	for _, c := range g.sorted(cases) {
		buf.WriteString("  <entry>\n")
		g.writeElement(&buf, "id", "urn:breach:"+c.ID, 4)
		g.writeElement(&buf, "title", c.Company, 4)
		buf.WriteString(fmt.Sprintf("    <link href=\"%s\" />\n", html.EscapeString(CaseLink(c))))
		g.writeElement(&buf, "updated", breach.ParseDate(c.DateReported).Format(time.RFC3339), 4)
		g.writeElement(&buf, "summary", Describe(c), 4)
		buf.WriteString("  </entry>\n")
	}

	buf.WriteString("</feed>")

	return buf.String()
}

// CaseLink returns the item link, substituting a search URL when the source
// did not give a usable one.
func CaseLink(c *breach.Case) string {
	if strings.HasPrefix(c.URL, "http") {
		return c.URL
	}
	return "https://www.google.com/search?q=" + url.QueryEscape(c.Company+" data breach")
}

// Describe composes the display description: the narrative description when a
// source provided one, a synthesized summary otherwise, followed by the
// structured metadata the case carries.
func Describe(c *breach.Case) string {
	var parts []string

	if c.Description != "" {
		parts = append(parts, c.Description)
	} else {
		summary := fmt.Sprintf("%s reported a %s", c.Company, strings.ToLower(c.BreachType))
		if c.RecordsAffected != "" && c.RecordsAffected != "Unknown" && c.RecordsAffected != "N/A" {
			summary += fmt.Sprintf(" affecting %s records", c.RecordsAffected)
		}
		if c.Location != "" {
			summary += fmt.Sprintf(" in %s", c.Location)
		}
		if c.ThreatActor != "" {
			summary += fmt.Sprintf(". Attributed to %s", c.ThreatActor)
		}
		summary += "."
		parts = append(parts, summary)
	}

	var metadata []string
	if c.ThreatActor != "" {
		metadata = append(metadata, "Threat Actor: "+c.ThreatActor)
	}
	if c.RecordsAffected != "" && c.RecordsAffected != "Unknown" && c.RecordsAffected != "N/A" {
		metadata = append(metadata, "Records Affected: "+c.RecordsAffected)
	}
	if c.Location != "" {
		metadata = append(metadata, "Location: "+c.Location)
	}
	metadata = append(metadata, "Source: "+c.SourceList())
	metadata = append(metadata, "Type: "+c.BreachType)

	parts = append(parts, strings.Join(metadata, " | "))

	return strings.Join(parts, "\n")
}

func (g *Generator) feedLink() string {
	appCfg := cfg.Get()
	if appCfg.BaseUrl != "" {
		return appCfg.BaseUrl
	}
	return "http://localhost:" + appCfg.Port
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}
