package cfg

import (
	"cmp"
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage
	DBPath   string `long:"db-path" env:"DB_PATH" default:"./breaches.db" description:"Path to the SQLite case archive"`
	CacheDir string `long:"cache-dir" env:"BLOG_CACHE_DIR" default:"./blog_cache" description:"Directory for the generated blog cache"`

	// Collection
	SourcesDir     string `long:"sources-dir" env:"SOURCES_DIR" default:"./sources" description:"Directory containing source definition files"`
	MaxPerSource   int    `long:"max-per-source" env:"MAX_PER_SOURCE" default:"25" description:"Max entries per source for a balanced feed (0 = unlimited)"`
	WorkerCount    int    `long:"worker-count" env:"WORKER_COUNT" default:"5" description:"Number of concurrent collector workers"`
	FetchTimeout   int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"30" description:"Per-source fetch timeout in seconds"`
	UpdateInterval int    `long:"update-interval" env:"UPDATE_INTERVAL" default:"3600" description:"Seconds between collection runs in serve mode"`

	// Blog generation
	AnthropicAPIKey    string `long:"anthropic-api-key" env:"ANTHROPIC_API_KEY" description:"Anthropic API key (blog generation disabled when empty)"`
	BlogModel          string `long:"blog-model" env:"BLOG_MODEL" description:"Model used for blog generation"`
	BlogLimit          int    `long:"blog-limit" env:"BLOG_LIMIT" default:"10" description:"Max new blogs generated per run (0 = unlimited)"`
	BlogRateLimit      int    `long:"blog-rate-limit" env:"BLOG_RATE_LIMIT" default:"20" description:"Max generation calls per minute"`
	ContactBoilerplate string `long:"contact-boilerplate" env:"BLOG_CONTACT_BOILERPLATE" description:"Contact section appended to every generated blog"`

	// HTTP server
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl      string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://breaches.example.com)"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for management endpoints (optional)"`

	// Static site output
	OutputDir string `long:"output-dir" env:"OUTPUT_DIR" default:"./public" description:"Directory for generated static files"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Breach RSS/1.0" description:"User agent string for HTTP requests"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
	OneShot   bool   `long:"one-shot" env:"ONE_SHOT" description:"Run a single collection, write the static site, and exit"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:             raw.DBPath,
		CacheDir:           raw.CacheDir,
		SourcesDir:         raw.SourcesDir,
		MaxPerSource:       raw.MaxPerSource,
		WorkerCount:        raw.WorkerCount,
		FetchTimeout:       raw.FetchTimeout,
		UpdateInterval:     raw.UpdateInterval,
		AnthropicAPIKey:    raw.AnthropicAPIKey,
		BlogModel:          raw.BlogModel,
		BlogLimit:          raw.BlogLimit,
		BlogRateLimit:      raw.BlogRateLimit,
		ContactBoilerplate: raw.ContactBoilerplate,
		Port:               raw.Port,
		BaseUrl:            raw.BaseUrl,
		APIAccessKey:       raw.APIAccessKey,
		OutputDir:          raw.OutputDir,
		UserAgent:          raw.UserAgent,
		Debug:              raw.Debug,
		OneShot:            raw.OneShot,
		Version:            GetVersion(),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

// validate rejects configurations that cannot work. Only programmer-error
// conditions fail here; everything else degrades at runtime.
func validate(cfg *Cfg) error {
	if cfg.BlogRateLimit < 1 {
		return fmt.Errorf("blog rate limit must be at least 1 call per minute, got %d", cfg.BlogRateLimit)
	}
	if cfg.WorkerCount < 1 {
		return fmt.Errorf("worker count must be at least 1, got %d", cfg.WorkerCount)
	}
	if cfg.FetchTimeout < 1 {
		return fmt.Errorf("fetch timeout must be at least 1 second, got %d", cfg.FetchTimeout)
	}
	if cfg.MaxPerSource < 0 {
		return fmt.Errorf("max per source must be non-negative, got %d", cfg.MaxPerSource)
	}
	if cfg.BlogLimit < 0 {
		return fmt.Errorf("blog limit must be non-negative, got %d", cfg.BlogLimit)
	}
	return nil
}
