package database

import (
	"github.com/publicvector/databreach-rss/app/breach"
)

// CaseRepository archives merged breach cases across collection runs. The
// in-memory aggregation is authoritative within a run; the archive is the
// reporting surface that survives restarts.
type CaseRepository interface {
	UpsertCase(c *breach.Case, qualityScore float64, isValid bool) error
	GetRecentCases(limit int) ([]CaseRecord, error)
	GetCaseCount() (int, error)
	GetSourceStats() (map[string]int, error)
}
