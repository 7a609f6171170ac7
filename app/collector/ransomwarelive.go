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

// RansomwareLiveCollector pulls recent victims from the ransomware.live API
// (free, no auth). Victims without a name are skipped; US filtering follows
// the country field when present.
type RansomwareLiveCollector struct {
	source    *config.Source
	client    *http.Client
	userAgent string
	usOnly    bool
}

type ransomwareVictim struct {
	Victim      string `json:"victim"`
	Group       string `json:"group"`
	AttackDate  string `json:"attackdate"`
	Country     string `json:"country"`
	Activity    string `json:"activity"`
	Description string `json:"description"`
	ClaimURL    string `json:"claim_url"`
	PostURL     string `json:"post_url"`
	Discovered  string `json:"discovered"`
}

func NewRansomwareLiveCollector(source *config.Source, client *http.Client, userAgent string) *RansomwareLiveCollector {
	return &RansomwareLiveCollector{
		source:    source,
		client:    client,
		userAgent: userAgent,
		usOnly:    true,
	}
}

func (c *RansomwareLiveCollector) Name() string {
	return c.source.Name
}

func (c *RansomwareLiveCollector) Run(ctx context.Context) ([]breach.Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.source.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch victims: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var victims []ransomwareVictim
	if err := json.Unmarshal(body, &victims); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	var entries []breach.Entry
	for _, victim := range victims {
		if len(entries) >= c.source.Limit {
			break
		}
		if strings.TrimSpace(victim.Victim) == "" {
			continue
		}
		if c.usOnly && victim.Country != "" && victim.Country != "US" {
			continue
		}

		date := victim.AttackDate
		if date == "" {
			date = victim.Discovered
		}
		link := victim.PostURL
		if link == "" {
			link = victim.ClaimURL
		}

		entry := breach.NewEntry(victim.Victim, date, c.source.Name, link)
		entry.ThreatActor = victim.Group
		entry.BreachType = "Ransomware"
		entry.Location = victim.Country
		if victim.Description != "" {
			entry.Description = victim.Description
		} else if victim.Group != "" {
			entry.Description = fmt.Sprintf("%s was listed as a victim by the %s ransomware group.", victim.Victim, victim.Group)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
