package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/publicvector/databreach-rss/app/breach"
	"github.com/publicvector/databreach-rss/app/config"
)

// HHSOCRCollector pulls HIPAA breach reports from the HHS Office for Civil
// Rights breach portal JSON endpoint.
type HHSOCRCollector struct {
	source    *config.Source
	client    *http.Client
	userAgent string
}

type hhsBreach struct {
	Name                string `json:"Name_of_Covered_Entity"`
	State               string `json:"State"`
	EntityType          string `json:"Covered_Entity_Type"`
	IndividualsAffected string `json:"Individuals_Affected"`
	SubmissionDate      string `json:"Breach_Submission_Date"`
	TypeOfBreach        string `json:"Type_of_Breach"`
	LocationOfInfo      string `json:"Location_of_Breached_Information"`
}

func NewHHSOCRCollector(source *config.Source, client *http.Client, userAgent string) *HHSOCRCollector {
	return &HHSOCRCollector{
		source:    source,
		client:    client,
		userAgent: userAgent,
	}
}

func (c *HHSOCRCollector) Name() string {
	return c.source.Name
}

func (c *HHSOCRCollector) Run(ctx context.Context) ([]breach.Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.source.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch breach reports: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var reports []hhsBreach
	if err := json.Unmarshal(body, &reports); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	var entries []breach.Entry
	for _, report := range reports {
		if len(entries) >= c.source.Limit {
			break
		}
		if strings.TrimSpace(report.Name) == "" {
			continue
		}

		entry := breach.NewEntry(report.Name, report.SubmissionDate, c.source.Name, c.source.URL)
		entry.Location = report.State
		entry.BreachType = c.source.BreachType
		if report.IndividualsAffected != "" {
			entry.RecordsAffected = report.IndividualsAffected
		}
		entry.Description = c.describe(report)
		entries = append(entries, entry)
	}

	return entries, nil
}

func (c *HHSOCRCollector) describe(report hhsBreach) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("%s reported a breach to HHS OCR", report.Name))
	if report.TypeOfBreach != "" {
		parts = append(parts, fmt.Sprintf("classified as %q", report.TypeOfBreach))
	}
	if report.IndividualsAffected != "" {
		parts = append(parts, fmt.Sprintf("affecting %s individuals", report.IndividualsAffected))
	}
	if report.LocationOfInfo != "" {
		parts = append(parts, fmt.Sprintf("involving %s", report.LocationOfInfo))
	}
	return strings.Join(parts, ", ") + "."
}
