package breach

import (
	"reflect"
	"testing"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Acme Corp", "acme"},
		{"ACME, Inc.", "acme"},
		{"acme", "acme"},
		{"Exposé Médical LLC", "expose medical"},
		{"Smith & Jones Company", "smith  jones"},
		{"Initech Co", "initech"},
		{"  Globex Corporation  ", "globex"},
	}

	for _, tt := range tests {
		if got := NormalizeName(tt.input); got != tt.expected {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestDateBucket(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"2024-03-05", "2024-03"},
		{"2024-03-05T10:00:00Z", "2024-03"},
		{"03/05/2024", "2024-03"},
		{"3/5/2024", "2024-03"},
		{"03/2024", "2024-03"},
		{"3/2024", "2024-03"},
		{"March 5, 2024", ""},
		{"", ""},
		{"not-a-date", ""},
	}

	for _, tt := range tests {
		if got := DateBucket(tt.input); got != tt.expected {
			t.Errorf("DateBucket(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestCaseID_SameCaseAcrossSources(t *testing.T) {
	a := NewEntry("Acme Corp", "2024-03-05", "Maine AG", "https://example.com/a")
	b := NewEntry("ACME, Inc.", "2024-03-12", "databreaches.net", "https://example.com/b")

	if CaseID(a) != CaseID(b) {
		t.Errorf("Expected same case ID for name/date variants, got %s vs %s", CaseID(a), CaseID(b))
	}
}

func TestCaseID_DifferentCases(t *testing.T) {
	a := NewEntry("Acme Corp", "2024-03-05", "Maine AG", "")
	b := NewEntry("Acme Corp", "2024-04-05", "Maine AG", "")
	c := NewEntry("Globex Corp", "2024-03-05", "Maine AG", "")

	if CaseID(a) == CaseID(b) {
		t.Error("Different date buckets should produce different case IDs")
	}
	if CaseID(a) == CaseID(c) {
		t.Error("Different companies should produce different case IDs")
	}
}

func TestCaseID_Deterministic(t *testing.T) {
	e := NewEntry("Acme Corp", "2024-03-05", "Maine AG", "")
	if CaseID(e) != CaseID(e) {
		t.Error("CaseID must be deterministic")
	}
}

func TestUniqueID_KeepsSource(t *testing.T) {
	a := NewEntry("Acme Corp", "2024-03-05", "Maine AG", "")
	b := NewEntry("Acme Corp", "2024-03-05", "Texas AG", "")

	if a.UniqueID() == b.UniqueID() {
		t.Error("UniqueID should differ per source")
	}
}

func TestAggregate_MergesAcrossSources(t *testing.T) {
	a := NewEntry("Acme Corp", "2024-03-05", "Source A", "https://a.example.com")
	a.Description = "Short desc"

	b := NewEntry("ACME, Inc.", "03/15/2024", "Source B", "https://b.example.com")
	b.Description = "A much longer description of the incident with plenty of detail about what happened."
	b.ThreatActor = "Lazarus"
	b.RecordsAffected = "120,000"

	cases := Aggregate([]Entry{a, b}, 0)

	if len(cases) != 1 {
		t.Fatalf("Expected 1 merged case, got %d", len(cases))
	}

	c := cases[0]
	if !reflect.DeepEqual(c.Sources, []string{"Source A", "Source B"}) {
		t.Errorf("Expected both sources sorted, got %v", c.Sources)
	}
	// Source A arrived first with a non-empty description, so its value wins.
	if c.Description != "Short desc" {
		t.Errorf("Expected first non-empty description to win, got %q", c.Description)
	}
	if c.ThreatActor != "Lazarus" {
		t.Errorf("Expected actor adopted from Source B, got %q", c.ThreatActor)
	}
	if c.RecordsAffected != "120,000" {
		t.Errorf("Expected placeholder records count replaced, got %q", c.RecordsAffected)
	}
}

func TestAggregate_MonthOnlyDateMerges(t *testing.T) {
	a := NewEntry("Acme Corp", "2024-03-05", "Source A", "https://a.example.com")
	b := NewEntry("ACME, Inc.", "03/2024", "Source B", "https://b.example.com")

	cases := Aggregate([]Entry{a, b}, 0)
	if len(cases) != 1 {
		t.Fatalf("Expected day-precision and month-only dates to share a bucket, got %d cases", len(cases))
	}
	if len(cases[0].Sources) != 2 {
		t.Errorf("Expected both sources on the merged case, got %v", cases[0].Sources)
	}
}

func TestAggregate_FillsEmptyFieldsOnly(t *testing.T) {
	a := NewEntry("Acme Corp", "2024-03-05", "Source A", "")
	a.Location = "Maine"

	b := NewEntry("Acme Corp", "2024-03-05", "Source B", "")
	b.Location = "Texas"

	cases := Aggregate([]Entry{a, b}, 0)
	if cases[0].Location != "Maine" {
		t.Errorf("Non-empty location must not be overwritten, got %q", cases[0].Location)
	}
}

func TestMerge_Idempotent(t *testing.T) {
	a := NewEntry("Acme Corp", "2024-03-05", "Source A", "")
	a.Description = "Some description"

	once := Aggregate([]Entry{a}, 0)[0]
	twice := Aggregate([]Entry{a, a}, 0)[0]

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Merging the same entry twice changed the case: %+v vs %+v", once, twice)
	}
	if len(twice.Sources) != 1 {
		t.Errorf("Expected no duplicate source accumulation, got %v", twice.Sources)
	}
}

func TestAggregate_MaxPerSource(t *testing.T) {
	entries := []Entry{
		NewEntry("Company One", "2024-01-01", "Source A", ""),
		NewEntry("Company Two", "2024-01-02", "Source A", ""),
		NewEntry("Company Three", "2024-01-03", "Source A", ""),
		NewEntry("Company Four", "2024-01-04", "Source B", ""),
	}

	cases := Aggregate(entries, 2)
	if len(cases) != 3 {
		t.Errorf("Expected 2 from Source A + 1 from Source B, got %d cases", len(cases))
	}

	unlimited := Aggregate(entries, 0)
	if len(unlimited) != 4 {
		t.Errorf("Expected no cap with 0, got %d cases", len(unlimited))
	}
}

func TestAggregate_PreservesInsertionOrder(t *testing.T) {
	entries := []Entry{
		NewEntry("Zeta Corp", "2024-01-01", "Source A", ""),
		NewEntry("Alpha Corp", "2024-01-02", "Source A", ""),
		NewEntry("Zeta Corp", "2024-01-15", "Source B", ""),
	}

	cases := Aggregate(entries, 0)
	if len(cases) != 2 {
		t.Fatalf("Expected 2 cases, got %d", len(cases))
	}
	if cases[0].Company != "Zeta Corp" || cases[1].Company != "Alpha Corp" {
		t.Errorf("Expected first-seen order, got %q then %q", cases[0].Company, cases[1].Company)
	}
}

func TestAggregate_EmptyDateStillKeyed(t *testing.T) {
	a := NewEntry("Acme Corp", "", "Source A", "")
	b := NewEntry("acme", "unparseable", "Source B", "")

	cases := Aggregate([]Entry{a, b}, 0)
	if len(cases) != 1 {
		t.Errorf("Entries without date buckets should merge on name alone, got %d cases", len(cases))
	}
}
