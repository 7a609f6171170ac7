package breach

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Identity resolution: entries from different sources describing the same
// breach case must map to the same case ID even when they disagree on casing,
// punctuation, corporate suffixes or date precision. Collisions between
// distinct cases (notably when no date can be extracted) are an accepted
// data-quality limitation and are silently merged.

var (
	nonAlnumRe   = regexp.MustCompile(`[^a-z0-9_\s]+`)
	yearMonthRe  = regexp.MustCompile(`(\d{4})-(\d{2})`)
	slashDateRe  = regexp.MustCompile(`(\d{1,2})/\d{1,2}/(\d{4})`)
	monthYearRe  = regexp.MustCompile(`(\d{1,2})/(\d{4})`)
	deaccenter   = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	corpSuffixes = []string{" inc", " llc", " ltd", " corp", " corporation", " company", " co"}
)

// NormalizeName canonicalizes an organization name for identity matching:
// lower-case, diacritics folded, punctuation stripped, trailing corporate
// suffixes removed.
func NormalizeName(name string) string {
	lowered := strings.ToLower(name)
	if folded, _, err := transform.String(deaccenter, lowered); err == nil {
		lowered = folded
	}
	lowered = nonAlnumRe.ReplaceAllString(lowered, "")
	for _, suffix := range corpSuffixes {
		lowered = strings.TrimSuffix(lowered, suffix)
	}
	return strings.TrimSpace(lowered)
}

// DateBucket extracts a coarse YYYY-MM bucket from a free-text reported date.
// Returns "" when no recognizable date pattern is present; such entries key on
// the name alone, which raises the collision risk but still groups repeats.
func DateBucket(dateReported string) string {
	if dateReported == "" {
		return ""
	}
	if m := yearMonthRe.FindStringSubmatch(dateReported); m != nil {
		return m[1] + "-" + m[2]
	}
	if m := slashDateRe.FindStringSubmatch(dateReported); m != nil {
		return m[2] + "-" + padMonth(m[1])
	}
	if m := monthYearRe.FindStringSubmatch(dateReported); m != nil {
		return m[2] + "-" + padMonth(m[1])
	}
	return ""
}

func padMonth(month string) string {
	if len(month) == 1 {
		return "0" + month
	}
	return month
}

// CaseID is the cross-source identity key: a deterministic digest of the
// normalized company name plus the coarse date bucket. The md5-hex format
// matches the on-disk blog cache keys, so existing caches remain addressable.
func CaseID(e Entry) string {
	sum := md5.Sum([]byte(NormalizeName(e.Company) + DateBucket(e.DateReported)))
	return hex.EncodeToString(sum[:])
}

// UniqueID fingerprints a single observation. Unlike CaseID it keeps the
// source name, so the same case reported by two sources gets two IDs. Feed
// items carry the case ID; this pre-merge form matches the identifiers in
// caches written before cross-source merging existed.
func (e Entry) UniqueID() string {
	date := e.DateReported
	if len(date) > 10 {
		date = date[:10]
	}
	sum := md5.Sum([]byte(fmt.Sprintf("%s%s%s", NormalizeName(e.Company), date, e.Source)))
	return hex.EncodeToString(sum[:])
}

func isPlaceholderCount(v string) bool {
	switch v {
	case "", "Unknown", "N/A":
		return true
	}
	return false
}

func newCase(e Entry) *Case {
	return &Case{
		ID:                   CaseID(e),
		Company:              e.Company,
		DateReported:         e.DateReported,
		Sources:              []string{e.Source},
		URL:                  e.URL,
		Description:          e.Description,
		RecordsAffected:      e.RecordsAffected,
		StateRecordsAffected: e.StateRecordsAffected,
		Location:             e.Location,
		ThreatActor:          e.ThreatActor,
		BreachType:           e.BreachType,
	}
}

// Merge folds a later observation of the same case into an existing Case.
// The source set always accumulates; every other optional field keeps the
// first non-empty value seen, so arrival order decides conflicts. Callers who
// need reproducible output must fold entries in a fixed order.
func Merge(c *Case, e Entry) {
	present := false
	for _, s := range c.Sources {
		if s == e.Source {
			present = true
			break
		}
	}
	if !present {
		c.Sources = append(c.Sources, e.Source)
		sort.Strings(c.Sources)
	}

	if c.ThreatActor == "" && e.ThreatActor != "" {
		c.ThreatActor = e.ThreatActor
	}
	if c.Description == "" && e.Description != "" {
		c.Description = e.Description
	}
	if isPlaceholderCount(c.RecordsAffected) && !isPlaceholderCount(e.RecordsAffected) {
		c.RecordsAffected = e.RecordsAffected
	}
	if c.StateRecordsAffected == "" && e.StateRecordsAffected != "" {
		c.StateRecordsAffected = e.StateRecordsAffected
	}
	if c.Location == "" && e.Location != "" {
		c.Location = e.Location
	}
}

// Aggregate truncates each source's contribution to maxPerSource entries
// (0 = unlimited), then performs a single sequential fold keyed by CaseID.
// Output preserves the insertion order of first-seen case IDs; sorting for
// display is the caller's concern.
func Aggregate(entries []Entry, maxPerSource int) []*Case {
	perSource := make(map[string]int)
	cases := make(map[string]*Case)
	var order []*Case

	for _, e := range entries {
		if maxPerSource > 0 {
			if perSource[e.Source] >= maxPerSource {
				continue
			}
			perSource[e.Source]++
		}

		id := CaseID(e)
		if existing, ok := cases[id]; ok {
			Merge(existing, e)
			continue
		}
		c := newCase(e)
		cases[id] = c
		order = append(order, c)
	}

	return order
}
