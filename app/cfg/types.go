package cfg

type Cfg struct {
	// Storage
	DBPath   string
	CacheDir string

	// Collection
	SourcesDir     string
	MaxPerSource   int
	WorkerCount    int
	FetchTimeout   int
	UpdateInterval int

	// Blog generation
	AnthropicAPIKey    string
	BlogModel          string
	BlogLimit          int
	BlogRateLimit      int
	ContactBoilerplate string

	// HTTP server
	Port         string
	BaseUrl      string
	APIAccessKey string

	// Static site output
	OutputDir string

	// Application metadata
	UserAgent string
	Debug     bool
	OneShot   bool
	Version   string
}
