package breach

// Breach record types shared by collectors, the resolver and the validator.

// Entry is a single normalized observation produced by one collector from one
// source. Collectors resolve missing fields to the documented defaults before
// handing entries to the core, so the core never deals with absent attributes.
type Entry struct {
	Company              string // organization name, free text
	DateReported         string // reported date, arbitrary source format
	Source               string
	URL                  string
	Description          string
	RecordsAffected      string // free text, "Unknown" when the source does not say
	StateRecordsAffected string // jurisdiction-specific count, e.g. state residents
	Location             string
	ThreatActor          string
	BreachType           string // defaults to "Data Breach"
}

// NewEntry returns an Entry with the field defaults applied.
func NewEntry(company, dateReported, source, url string) Entry {
	return Entry{
		Company:         company,
		DateReported:    dateReported,
		Source:          source,
		URL:             url,
		RecordsAffected: "Unknown",
		BreachType:      "Data Breach",
	}
}

// Case is the authoritative merged record for one breach case. All entries
// sharing a case ID are folded into a single Case; Sources accumulates the
// deduplicated, sorted set of contributing source names.
type Case struct {
	ID                   string
	Company              string
	DateReported         string
	Sources              []string
	URL                  string
	Description          string
	RecordsAffected      string
	StateRecordsAffected string
	Location             string
	ThreatActor          string
	BreachType           string
}

// SourceList returns the display form of the contributing sources.
func (c *Case) SourceList() string {
	out := ""
	for i, s := range c.Sources {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}
