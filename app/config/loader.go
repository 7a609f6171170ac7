package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader reads source definitions from a directory of YAML files.
type Loader struct {
	sourcesDir string
}

func NewLoader(sourcesDir string) *Loader {
	return &Loader{sourcesDir: sourcesDir}
}

// LoadAll loads every .yaml/.yml file in the sources directory in a
// deterministic order (.yaml files sorted by name, then .yml), so the
// collection order and therefore merge arrival order is reproducible across
// runs. A missing directory yields an empty list.
func (l *Loader) LoadAll() ([]*Source, error) {
	if _, err := os.Stat(l.sourcesDir); os.IsNotExist(err) {
		return nil, nil
	}

	files, err := filepath.Glob(filepath.Join(l.sourcesDir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YAML files: %w", err)
	}
	ymlFiles, err := filepath.Glob(filepath.Join(l.sourcesDir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YML files: %w", err)
	}
	files = append(files, ymlFiles...)

	var sources []*Source
	for _, file := range files {
		source, err := l.loadFile(file)
		if err != nil {
			return nil, fmt.Errorf("error loading %s: %w", file, err)
		}
		if err := l.validate(source); err != nil {
			return nil, fmt.Errorf("invalid source %s: %w", file, err)
		}
		sources = append(sources, source)
		slog.Debug("Loaded source definition", "file", file, "source", source.Name)
	}

	return sources, nil
}

func (l *Loader) loadFile(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var source Source
	if err := yaml.Unmarshal(data, &source); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	l.setDefaults(&source, path)

	return &source, nil
}

func (l *Loader) setDefaults(source *Source, path string) {
	if source.Name == "" {
		base := filepath.Base(path)
		source.Name = strings.TrimSuffix(strings.TrimSuffix(base, ".yaml"), ".yml")
	}
	if source.Kind == "" {
		source.Kind = "rss"
	}
	if source.Limit == 0 {
		source.Limit = 50
	}
	if source.BreachType == "" {
		source.BreachType = "Data Breach"
	}
}

func (l *Loader) validate(source *Source) error {
	if source.URL == "" {
		return fmt.Errorf("source URL is required")
	}
	if source.Kind != "rss" && source.Kind != "api" {
		return fmt.Errorf("unknown source kind: %s", source.Kind)
	}
	if source.Limit < 0 {
		return fmt.Errorf("limit must be non-negative")
	}
	return nil
}
