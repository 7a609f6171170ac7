package breach

import (
	"log/slog"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Reported dates arrive in whatever shape the source emits. ParseDate tries a
// fixed list of literal layouts first so the common shapes stay cheap and
// predictable, then hands anything unusual to the permissive dateparse
// fallback.
var dateLayouts = []string{
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"2006-01-02",
	"01/02/2006",
	"01/02/06",
	"January 2, 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 Jan 2006",
	"2 January 2006",
}

// ParseDate converts a free-text reported date into a UTC timestamp. It never
// fails: empty or unparseable input yields the current UTC time as an
// "unknown date" sentinel, which callers must not treat as a real event time.
// Naive parses are assumed UTC.
func ParseDate(dateReported string) time.Time {
	parsed, ok := parseDate(dateReported)
	if !ok {
		return time.Now().UTC()
	}
	return parsed
}

// ParseDateOrZero is the sort-key variant: unknown dates come back as the zero
// time so they sink to the end of a newest-first ordering instead of floating
// to the top the way the "now" sentinel would.
func ParseDateOrZero(dateReported string) time.Time {
	parsed, ok := parseDate(dateReported)
	if !ok {
		return time.Time{}
	}
	return parsed
}

func parseDate(dateReported string) (time.Time, bool) {
	clean := strings.TrimSpace(dateReported)
	if clean == "" {
		return time.Time{}, false
	}

	// Some APIs emit fractional seconds beyond what any layout accepts;
	// drop the fraction entirely when it is longer than four digits.
	if idx := strings.LastIndex(clean, "."); idx >= 0 && len(clean)-idx-1 > 4 {
		clean = clean[:idx]
	}

	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, clean); err == nil {
			return parsed.UTC(), true
		}
	}

	if parsed, err := dateparse.ParseIn(clean, time.UTC); err == nil {
		return parsed.UTC(), true
	}

	slog.Debug("Unparseable reported date", "value", dateReported)
	return time.Time{}, false
}
