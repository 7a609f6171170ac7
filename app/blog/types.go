package blog

// Post is the expensive generated artifact for one breach case. Posts are
// immutable after creation and keyed by the case ID, so a case is written at
// most once. The JSON field names are the on-disk cache format and must stay
// stable across versions.
type Post struct {
	ID            string  `json:"id"`
	CompanyName   string  `json:"company_name"`
	Title         string  `json:"title"`
	WhatHappened  string  `json:"what_happened"`
	WhoIsAffected string  `json:"who_is_affected"`
	ContactUs     string  `json:"contact_us"`
	GeneratedAt   string  `json:"generated_at"`
	SourceURL     string  `json:"source_url"`
	QualityScore  float64 `json:"quality_score"`
}
