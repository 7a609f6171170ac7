package feed

import (
	"os"
	"strings"
	"testing"

	"github.com/publicvector/databreach-rss/app/breach"
	"github.com/publicvector/databreach-rss/app/cfg"
)

func setupTestConfig() {
	// Clear os.Args to prevent config parsing from failing
	oldArgs := os.Args
	os.Args = []string{"test"}
	defer func() { os.Args = oldArgs }()

	if os.Getenv("PORT") == "" {
		os.Setenv("PORT", "8080")
	}

	cfg.Load()
}

func sampleCase() *breach.Case {
	return &breach.Case{
		ID:              "abc123",
		Company:         "Acme Corp",
		DateReported:    "2024-03-05",
		Sources:         []string{"State AG", "Ransomware Tracker"},
		URL:             "https://example.com/notice",
		Description:     "Attackers accessed customer records over a two-week window.",
		RecordsAffected: "120,000",
		Location:        "California",
		ThreatActor:     "Lazarus",
		BreachType:      "Ransomware",
	}
}

func TestGenerateRSS(t *testing.T) {
	setupTestConfig()
	generator := NewGenerator()

	rss := generator.RunRSS([]*breach.Case{sampleCase()})

	if !strings.Contains(rss, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Error("RSS should contain XML declaration")
	}
	if !strings.Contains(rss, `<rss version="2.0"`) {
		t.Error("RSS should contain rss element with version")
	}
	if !strings.Contains(rss, "<title>Acme Corp</title>") {
		t.Error("RSS should contain the case company as item title")
	}
	if !strings.Contains(rss, `<guid isPermaLink="false">abc123</guid>`) {
		t.Error("RSS should contain the case ID as GUID")
	}
	if !strings.Contains(rss, "<link>https://example.com/notice</link>") {
		t.Error("RSS should contain the case URL as item link")
	}
	if !strings.Contains(rss, "Threat Actor: Lazarus") {
		t.Error("RSS description should carry the threat actor metadata")
	}
	if !strings.Contains(rss, "<category>Ransomware</category>") {
		t.Error("RSS should categorize by breach type")
	}
	if !strings.Contains(rss, "<category>State AG</category>") {
		t.Error("RSS should categorize by source")
	}
	if !strings.Contains(rss, "<category>Actor: Lazarus</category>") {
		t.Error("RSS should categorize by threat actor")
	}
	if !strings.Contains(rss, "<pubDate>") {
		t.Error("RSS item should carry a pubDate")
	}
}

func TestGenerateRSSSortsNewestFirst(t *testing.T) {
	setupTestConfig()
	generator := NewGenerator()

	older := sampleCase()
	older.ID = "older"
	older.Company = "Older Corp"
	older.DateReported = "2024-01-05"

	newer := sampleCase()
	newer.ID = "newer"
	newer.Company = "Newer Corp"
	newer.DateReported = "2024-03-05"

	undated := sampleCase()
	undated.ID = "undated"
	undated.Company = "Undated Corp"
	undated.DateReported = "pending investigation"

	rss := generator.RunRSS([]*breach.Case{undated, older, newer})

	newerIdx := strings.Index(rss, "Newer Corp")
	olderIdx := strings.Index(rss, "Older Corp")
	undatedIdx := strings.Index(rss, "Undated Corp")

	if newerIdx == -1 || olderIdx == -1 || undatedIdx == -1 {
		t.Fatal("Expected all cases present in the feed")
	}
	if newerIdx > olderIdx {
		t.Error("Expected newest case first")
	}
	if undatedIdx < olderIdx {
		t.Error("Expected undated case last")
	}
}

func TestGenerateRSSEscapesContent(t *testing.T) {
	setupTestConfig()
	generator := NewGenerator()

	c := sampleCase()
	c.Company = "Smith & Wesson <Holdings>"
	c.Description = "Records with <script> content & ampersands"

	rss := generator.RunRSS([]*breach.Case{c})

	if !strings.Contains(rss, "Smith &amp; Wesson &lt;Holdings&gt;") {
		t.Error("RSS should escape XML entities in the title")
	}
	if strings.Contains(rss, "<script>") {
		t.Error("RSS should not contain unescaped markup from the description")
	}
}

func TestGenerateAtom(t *testing.T) {
	setupTestConfig()
	generator := NewGenerator()

	atom := generator.RunAtom([]*breach.Case{sampleCase()})

	if !strings.Contains(atom, `<feed xmlns="http://www.w3.org/2005/Atom">`) {
		t.Error("Atom should contain the feed element with namespace")
	}
	if !strings.Contains(atom, "<id>urn:breach:abc123</id>") {
		t.Error("Atom entry should carry a urn ID derived from the case ID")
	}
	if !strings.Contains(atom, "<title>Acme Corp</title>") {
		t.Error("Atom entry should carry the company as title")
	}
	if !strings.Contains(atom, "<updated>") {
		t.Error("Atom entries should carry updated timestamps")
	}
}

func TestCaseLinkFallsBackToSearch(t *testing.T) {
	c := sampleCase()
	c.URL = "see attached PDF"

	link := CaseLink(c)
	if !strings.HasPrefix(link, "https://www.google.com/search?q=") {
		t.Errorf("Expected search fallback link, got %q", link)
	}
	if !strings.Contains(link, "Acme+Corp") {
		t.Errorf("Expected company in search query, got %q", link)
	}
}

func TestDescribeSynthesizesSummary(t *testing.T) {
	c := sampleCase()
	c.Description = ""

	desc := Describe(c)
	if !strings.Contains(desc, "Acme Corp reported a ransomware") {
		t.Errorf("Expected synthesized summary, got %q", desc)
	}
	if !strings.Contains(desc, "affecting 120,000 records") {
		t.Errorf("Expected records in summary, got %q", desc)
	}
	if !strings.Contains(desc, "Source: State AG, Ransomware Tracker") {
		t.Errorf("Expected source metadata, got %q", desc)
	}
}

func TestDescribeOmitsPlaceholderRecords(t *testing.T) {
	c := sampleCase()
	c.RecordsAffected = "Unknown"

	desc := Describe(c)
	if strings.Contains(desc, "Records Affected") {
		t.Errorf("Expected placeholder record count omitted, got %q", desc)
	}
}
