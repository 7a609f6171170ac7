package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/publicvector/databreach-rss/app/breach"
)

// CaseRecord is one archived case row.
type CaseRecord struct {
	CaseID               string
	Company              string
	DateReported         string
	ReportedAt           string
	Sources              []string
	URL                  string
	Description          string
	RecordsAffected      string
	StateRecordsAffected string
	Location             string
	ThreatActor          string
	BreachType           string
	QualityScore         float64
	IsValid              bool
	FirstSeenAt          string
	LastSeenAt           string
}

// ToCase converts an archived row back into the in-memory case shape so
// a restarted process can serve the previous run before the next collection
// finishes.
func (rec CaseRecord) ToCase() *breach.Case {
	return &breach.Case{
		ID:                   rec.CaseID,
		Company:              rec.Company,
		DateReported:         rec.DateReported,
		Sources:              rec.Sources,
		URL:                  rec.URL,
		Description:          rec.Description,
		RecordsAffected:      rec.RecordsAffected,
		StateRecordsAffected: rec.StateRecordsAffected,
		Location:             rec.Location,
		ThreatActor:          rec.ThreatActor,
		BreachType:           rec.BreachType,
	}
}

type SQLCaseRepository struct {
	db *DB
}

var _ CaseRepository = (*SQLCaseRepository)(nil)

func NewCaseRepository(db *DB) *SQLCaseRepository {
	return &SQLCaseRepository{db: db}
}

// UpsertCase inserts a merged case or refreshes an existing row. Sources and
// narrative fields are replaced with the latest merge result; first_seen_at is
// preserved on conflict.
func (r *SQLCaseRepository) UpsertCase(c *breach.Case, qualityScore float64, isValid bool) error {
	reportedAt := ""
	if t := breach.ParseDateOrZero(c.DateReported); !t.IsZero() {
		reportedAt = t.Format(time.RFC3339)
	}

	valid := 0
	if isValid {
		valid = 1
	}

	_, err := r.db.Exec(`
		INSERT INTO cases (
			case_id, company, date_reported, reported_at, sources, url,
			description, records_affected, state_records_affected, location,
			threat_actor, breach_type, quality_score, is_valid
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (case_id) DO UPDATE SET
			company = excluded.company,
			date_reported = excluded.date_reported,
			reported_at = excluded.reported_at,
			sources = excluded.sources,
			url = excluded.url,
			description = excluded.description,
			records_affected = excluded.records_affected,
			state_records_affected = excluded.state_records_affected,
			location = excluded.location,
			threat_actor = excluded.threat_actor,
			breach_type = excluded.breach_type,
			quality_score = excluded.quality_score,
			is_valid = excluded.is_valid,
			last_seen_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
	`, c.ID, c.Company, c.DateReported, reportedAt, strings.Join(c.Sources, ","), c.URL,
		c.Description, c.RecordsAffected, c.StateRecordsAffected, c.Location,
		c.ThreatActor, c.BreachType, qualityScore, valid)

	if err != nil {
		return fmt.Errorf("failed to upsert case: %w", err)
	}

	return nil
}

// GetRecentCases returns archived cases newest first by normalized report
// date. Cases whose date could not be normalized sort last.
func (r *SQLCaseRepository) GetRecentCases(limit int) ([]CaseRecord, error) {
	rows, err := r.db.Query(`
		SELECT case_id, company, date_reported, reported_at, sources, url,
			description, records_affected, state_records_affected, location,
			threat_actor, breach_type, quality_score, is_valid,
			first_seen_at, last_seen_at
		FROM cases
		ORDER BY reported_at = '' ASC, reported_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query cases: %w", err)
	}
	defer rows.Close()

	var records []CaseRecord
	for rows.Next() {
		var rec CaseRecord
		var sources string
		var valid int

		err := rows.Scan(&rec.CaseID, &rec.Company, &rec.DateReported, &rec.ReportedAt,
			&sources, &rec.URL, &rec.Description, &rec.RecordsAffected,
			&rec.StateRecordsAffected, &rec.Location, &rec.ThreatActor,
			&rec.BreachType, &rec.QualityScore, &valid, &rec.FirstSeenAt, &rec.LastSeenAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan case: %w", err)
		}

		if sources != "" {
			rec.Sources = strings.Split(sources, ",")
		}
		rec.IsValid = valid != 0
		records = append(records, rec)
	}

	return records, rows.Err()
}

func (r *SQLCaseRepository) GetCaseCount() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM cases`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count cases: %w", err)
	}
	return count, nil
}

// GetSourceStats returns how many archived cases each source contributed to.
// A case merged from multiple sources counts once per source.
func (r *SQLCaseRepository) GetSourceStats() (map[string]int, error) {
	rows, err := r.db.Query(`SELECT sources FROM cases`)
	if err != nil {
		return nil, fmt.Errorf("failed to query source stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var sources string
		if err := rows.Scan(&sources); err != nil {
			return nil, fmt.Errorf("failed to scan sources: %w", err)
		}
		for _, source := range strings.Split(sources, ",") {
			if source = strings.TrimSpace(source); source != "" {
				stats[source]++
			}
		}
	}

	return stats, rows.Err()
}
