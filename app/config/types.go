package config

// Source describes one breach data source, loaded from a YAML file in the
// sources directory. The file name (without extension) becomes the Name when
// the file does not set one.
type Source struct {
	Name    string `yaml:"name"`
	Kind    string `yaml:"kind"` // "rss" or "api"
	URL     string `yaml:"url"`
	Enabled bool   `yaml:"enabled"`
	Limit   int    `yaml:"limit"` // max entries fetched from this source

	// Keywords gates news feeds: an item must match at least one keyword in
	// its title or description to be treated as a breach report. Empty means
	// take everything (registries and trackers publish breach data only).
	Keywords []string `yaml:"keywords"`

	// BreachType is the default incident type for entries from this source.
	BreachType string `yaml:"breach_type"`
}
