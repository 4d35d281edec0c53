package sitekb

import "time"

// Config holds every tunable of the crawl and ingestion pipeline.
type Config struct {
	Crawl    CrawlConfig    `yaml:"crawl"`
	PDF      PDFConfig      `yaml:"pdf"`
	CSV      CSVConfig      `yaml:"csv"`
	API      APIConfig      `yaml:"api"`
	Feedback FeedbackConfig `yaml:"feedback"`
	Store    StoreConfig    `yaml:"store"`
	Embed    EmbedConfig    `yaml:"embed"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Serve    ServeConfig    `yaml:"serve"`
	Log      LogConfig      `yaml:"log"`
}

// CrawlConfig controls site crawling.
type CrawlConfig struct {
	Sites           []string      `yaml:"sites"`
	MaxPages        int           `yaml:"max_pages"`
	Delay           time.Duration `yaml:"delay"`
	UserAgent       string        `yaml:"user_agent"`
	RenderTimeout   time.Duration `yaml:"render_timeout"`
	Headless        bool          `yaml:"headless"`
	PagesDir        string        `yaml:"pages_dir"`
	Markdown        bool          `yaml:"markdown"`
	BrowserMaxPages int           `yaml:"browser_max_pages"`
	Extractor       string        `yaml:"extractor"`
}

// PDFConfig controls PDF downloads and the local PDF source.
type PDFConfig struct {
	Dir         string        `yaml:"dir"`
	Timeout     time.Duration `yaml:"timeout"`
	Concurrency int           `yaml:"concurrency"`
}

// CSVConfig locates the FAQ dataset.
type CSVConfig struct {
	Path   string `yaml:"path"`
	Column string `yaml:"column"`
}

// APIConfig lists JSON endpoints to ingest.
type APIConfig struct {
	URLs    []string      `yaml:"urls"`
	Field   string        `yaml:"field"`
	Timeout time.Duration `yaml:"timeout"`
}

// FeedbackConfig locates the feedback log.
type FeedbackConfig struct {
	Path string `yaml:"path"`
}

// StoreConfig locates the knowledge store and the hash registry.
type StoreConfig struct {
	Path   string `yaml:"path"`
	Hashes string `yaml:"hashes"`
}

// EmbedConfig selects the embedding model.
type EmbedConfig struct {
	Model string `yaml:"model"`
}

// ScheduleConfig controls periodic re-ingestion.
type ScheduleConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// ServeConfig controls the HTTP server.
type ServeConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig controls structured logging level and output format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns a Config with the reference pipeline policy.
func DefaultConfig() *Config {
	return &Config{
		Crawl: CrawlConfig{
			MaxPages:        150,
			Delay:           800 * time.Millisecond,
			UserAgent:       "sitekb/1.0",
			RenderTimeout:   20 * time.Second,
			Headless:        true,
			PagesDir:        "scraped_pages",
			BrowserMaxPages: 75,
			Extractor:       "trafilatura",
		},
		PDF: PDFConfig{
			Dir:         "company_docs",
			Timeout:     15 * time.Second,
			Concurrency: 4,
		},
		CSV: CSVConfig{
			Path:   "faq.csv",
			Column: "prompt",
		},
		API: APIConfig{
			Field:   "content",
			Timeout: 10 * time.Second,
		},
		Feedback: FeedbackConfig{
			Path: "feedback.txt",
		},
		Store: StoreConfig{
			Path:   "knowledge.db",
			Hashes: "ingested_hashes.json",
		},
		Embed: EmbedConfig{
			Model: "gemini-embedding-001",
		},
		Schedule: ScheduleConfig{
			Interval: 12 * time.Hour,
		},
		Serve: ServeConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate returns an error if the configuration cannot drive a pipeline.
func (c *Config) Validate() error {
	if c.Crawl.MaxPages <= 0 {
		return Errorf(EINVALID, "crawl.max_pages must be positive")
	}
	if c.Crawl.Delay < 0 {
		return Errorf(EINVALID, "crawl.delay must not be negative")
	}
	if c.Crawl.PagesDir == "" {
		return Errorf(EINVALID, "crawl.pages_dir required")
	}
	switch c.Crawl.Extractor {
	case "trafilatura", "readability":
	default:
		return Errorf(EINVALID, "crawl.extractor must be trafilatura or readability, got %q", c.Crawl.Extractor)
	}
	if c.PDF.Dir == "" {
		return Errorf(EINVALID, "pdf.dir required")
	}
	if c.Store.Path == "" {
		return Errorf(EINVALID, "store.path required")
	}
	if c.Store.Hashes == "" {
		return Errorf(EINVALID, "store.hashes required")
	}
	if c.Schedule.Interval < time.Second {
		return Errorf(EINVALID, "schedule.interval must be at least 1s")
	}
	return nil
}
