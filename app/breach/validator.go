package breach

import (
	"fmt"
	"math"
	"strings"
)

// The validator gates which merged cases are rich enough to justify expensive
// downstream generation. It is a pure function of its inputs: same case, same
// supplementary text, same result.

const (
	// MinContentLength is the minimum combined description plus
	// supplementary text length a case needs to be generation-eligible.
	MinContentLength = 50

	// MinQualityScore is the score floor below which an otherwise valid
	// case is still rejected.
	MinQualityScore = 0.5
)

// placeholderNames are company-name values treated as absent.
var placeholderNames = map[string]bool{
	"unknown": true,
	"n/a":     true,
	"na":      true,
	"none":    true,
	"":        true,
	"tbd":     true,
}

// genericBreachTypes are type strings that carry no signal beyond the default.
var genericBreachTypes = map[string]bool{
	"data breach": true,
	"breach":      true,
	"unknown":     true,
	"":            true,
}

// Result is the outcome of validating one case. Reasons lists every failing
// condition, not just the first, so callers can log useful diagnostics.
type Result struct {
	IsValid      bool
	QualityScore float64
	Reasons      []string
}

type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

func isPlaceholderValue(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "unknown", "n/a", "na", "":
		return true
	}
	return false
}

// Run validates a merged case for generation eligibility. Both hard
// requirements (meaningful company name, enough combined content) must hold,
// and the additive quality score must reach MinQualityScore. The supplementary
// argument carries article text extracted from the case URL and counts toward
// the content requirement only, alongside the description-length signals.
func (v *Validator) Run(c *Case, supplementary string) Result {
	var reasons []string

	hasValidName := !placeholderNames[strings.ToLower(strings.TrimSpace(c.Company))]
	if !hasValidName {
		reasons = append(reasons, "Missing or invalid company name")
	}

	combined := c.Description
	if supplementary != "" {
		combined = c.Description + " " + supplementary
	}
	hasContent := len(strings.TrimSpace(combined)) >= MinContentLength
	if !hasContent {
		reasons = append(reasons, fmt.Sprintf("Insufficient content (need %d+ chars)", MinContentLength))
	}

	score := 0.0
	if hasValidName {
		score += 0.3
	}
	if len(c.Description) >= 50 {
		score += 0.2
	}
	if len(c.Description) >= 200 {
		score += 0.1
	}
	if !isPlaceholderValue(c.RecordsAffected) {
		score += 0.15
	}
	if !isPlaceholderValue(c.ThreatActor) {
		score += 0.1
	}
	if !isPlaceholderValue(c.Location) {
		score += 0.05
	}
	if !genericBreachTypes[strings.ToLower(c.BreachType)] {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	score = math.Round(score*100) / 100

	isValid := hasValidName && hasContent
	if isValid && score < MinQualityScore {
		reasons = append(reasons, fmt.Sprintf("Quality score %.2f below threshold %.1f", score, MinQualityScore))
		isValid = false
	}

	return Result{
		IsValid:      isValid,
		QualityScore: score,
		Reasons:      reasons,
	}
}
