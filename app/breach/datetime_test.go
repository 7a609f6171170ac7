package breach

import (
	"testing"
	"time"
)

func TestParseDate_KnownFormats(t *testing.T) {
	expected := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	tests := []string{
		"2024-03-05",
		"03/05/2024",
		"03/05/24",
		"March 5, 2024",
		"Mar 5, 2024",
		"Mar 5 2024",
		"5 Mar 2024",
		"5 March 2024",
	}

	for _, input := range tests {
		got := ParseDate(input)
		if !got.Equal(expected) {
			t.Errorf("ParseDate(%q) = %v, want %v", input, got, expected)
		}
	}
}

func TestParseDate_Timestamps(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Time
	}{
		{"2024-03-05T10:00:00Z", time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)},
		{"2024-03-05 10:00:00", time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)},
		{"Tue, 05 Mar 2024 10:00:00 +0000", time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)},
		// Fractional seconds beyond four digits are truncated away.
		{"2024-03-05T10:00:00.123456Z", time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got := ParseDate(tt.input)
		if !got.Equal(tt.expected) {
			t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestParseDate_AlwaysUTC(t *testing.T) {
	inputs := []string{"2024-03-05", "03/05/2024", "2024-03-05T10:00:00+02:00", "", "not-a-date"}

	for _, input := range inputs {
		got := ParseDate(input)
		if got.Location() != time.UTC {
			t.Errorf("ParseDate(%q) returned non-UTC location %v", input, got.Location())
		}
	}
}

func TestParseDate_UnknownFallsBackToNow(t *testing.T) {
	before := time.Now().UTC()
	got := ParseDate("not-a-date")
	after := time.Now().UTC()

	if got.Before(before) || got.After(after) {
		t.Errorf("Expected sentinel near now, got %v", got)
	}

	if empty := ParseDate(""); empty.Before(before) {
		t.Errorf("Expected sentinel near now for empty input, got %v", empty)
	}
}

func TestParseDateOrZero_UnknownSinks(t *testing.T) {
	if !ParseDateOrZero("not-a-date").IsZero() {
		t.Error("Unparseable date should map to the zero time for sorting")
	}
	if !ParseDateOrZero("").IsZero() {
		t.Error("Empty date should map to the zero time for sorting")
	}
	if ParseDateOrZero("2024-03-05").IsZero() {
		t.Error("Parseable date should not map to the zero time")
	}
}
