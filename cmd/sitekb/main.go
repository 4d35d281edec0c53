package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/sitekb"
	"github.com/fwojciec/sitekb/crawl"
	"github.com/fwojciec/sitekb/fs"
	"github.com/fwojciec/sitekb/gemini"
	"github.com/fwojciec/sitekb/goquery"
	"github.com/fwojciec/sitekb/htmltomarkdown"
	kbhttp "github.com/fwojciec/sitekb/http"
	"github.com/fwojciec/sitekb/ingest"
	"github.com/fwojciec/sitekb/pdf"
	kbprom "github.com/fwojciec/sitekb/prometheus"
	"github.com/fwojciec/sitekb/readability"
	"github.com/fwojciec/sitekb/rod"
	kbslog "github.com/fwojciec/sitekb/slog"
	"github.com/fwojciec/sitekb/sqlite"
	"github.com/fwojciec/sitekb/trafilatura"
	"github.com/fwojciec/sitekb/yaml"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Getenv looks up environment variables. Defaults to os.Getenv.
	Getenv func(string) string

	// Renderer and Embedder replace the browser and the Gemini API when
	// set, for end-to-end testing.
	Renderer sitekb.Renderer
	Embedder sitekb.Embedder
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{Getenv: os.Getenv}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sitekb"),
		kong.Description("Crawl a company site and keep a knowledge store in sync with it."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'sitekb --help' to see available commands")
	}
	switch args[0] {
	case "help", "--help", "-h":
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := yaml.LoadConfig(cli.Config, m.Getenv)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cli.Crawl.MaxPages > 0 {
		cfg.Crawl.MaxPages = cli.Crawl.MaxPages
	}
	if cli.Crawl.Delay > 0 {
		cfg.Crawl.Delay = cli.Crawl.Delay
	}

	logger := kbslog.NewLogger(stderr, cfg.Log.Level, cfg.Log.Format)
	reg := prometheus.NewRegistry()
	metrics := kbprom.NewMetrics(reg)

	deps.Config = cfg
	deps.Logger = logger
	deps.Metrics = kbprom.Handler(reg)

	switch cmd := kongCtx.Selected().Name; cmd {
	case "crawl":
		renderer, err := m.renderer(cfg, metrics, logger, stderr)
		if err != nil {
			return err
		}
		defer renderer.Close()
		deps.Discoverer = m.siteSource(cfg, renderer, logger)

	case "ingest", "serve":
		embedder, err := m.embedder(ctx, cfg, stderr)
		if err != nil {
			return err
		}

		var site *crawl.SiteSource
		if len(cfg.Crawl.Sites) > 0 && !(cmd == "ingest" && cli.Ingest.NoCrawl) {
			renderer, err := m.renderer(cfg, metrics, logger, stderr)
			if err != nil {
				return err
			}
			defer renderer.Close()
			site = m.siteSource(cfg, renderer, logger)
		}

		feedback := fs.NewFeedbackLog(cfg.Feedback.Path)
		deps.Feedback = feedback
		deps.Ingester = kbprom.NewIngester(m.coordinator(cfg, site, feedback, embedder, logger), metrics)
		deps.Scheduler = &ingest.Scheduler{
			Ingester: deps.Ingester,
			Interval: cfg.Schedule.Interval,
			Logger:   logger,
		}

	case "reset":
		deps.Registry = fs.NewHashRegistry(cfg.Store.Hashes)
	}

	return kongCtx.Run(deps)
}

func (m *Main) renderer(cfg *sitekb.Config, metrics *kbprom.Metrics, logger *slog.Logger, stderr io.Writer) (sitekb.Renderer, error) {
	r := m.Renderer
	if r == nil {
		manager, err := rod.NewBrowserManager(
			rod.WithMaxPages(int64(cfg.Crawl.BrowserMaxPages)),
			rod.WithHeadless(cfg.Crawl.Headless),
		)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		r = rod.NewRenderer(manager, rod.WithTimeout(cfg.Crawl.RenderTimeout))
	}
	return kbprom.NewRenderer(rod.NewLoggingRenderer(r, logger), metrics), nil
}

func (m *Main) embedder(ctx context.Context, cfg *sitekb.Config, stderr io.Writer) (sitekb.Embedder, error) {
	if m.Embedder != nil {
		return m.Embedder, nil
	}

	apiKey := m.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(stderr, "Hint: get an API key at https://aistudio.google.com/apikey")
		return nil, sitekb.Errorf(sitekb.EINVALID, "GEMINI_API_KEY not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}
	return gemini.NewEmbedder(client, gemini.WithModel(cfg.Embed.Model)), nil
}

func (m *Main) siteSource(cfg *sitekb.Config, renderer sitekb.Renderer, logger *slog.Logger) *crawl.SiteSource {
	writer := fs.NewManifestWriter(cfg.Crawl.PagesDir)
	compliance := kbhttp.NewComplianceChecker(kbhttp.WithLogger(logger))

	crawler := &crawl.Crawler{
		Compliance: kbslog.NewLoggingComplianceChecker(compliance, logger),
		Renderer:   renderer,
		Links:      goquery.NewLinkExtractor(),
		Limiter:    crawl.NewDomainLimiter(cfg.Crawl.Delay),
		Logger:     logger,
		TextFunc:   goquery.Text,
		UserAgent:  cfg.Crawl.UserAgent,
		MaxPages:   cfg.Crawl.MaxPages,
	}
	if cfg.Crawl.Markdown {
		crawler.Extractor = newExtractor(cfg.Crawl.Extractor)
		crawler.Converter = htmltomarkdown.NewConverter()
	}

	return &crawl.SiteSource{
		Crawler: crawler,
		Writer:  writer,
		PDFs: &crawl.PDFFetcher{
			Downloader:  kbhttp.NewDownloader(nil, cfg.PDF.Timeout, cfg.Crawl.UserAgent),
			Dir:         cfg.PDF.Dir,
			Concurrency: cfg.PDF.Concurrency,
			Logger:      logger,
		},
		Manifest: fs.NewManifestSource(writer.ManifestPath()),
		Sites:    cfg.Crawl.Sites,
		Logger:   logger,
	}
}

// coordinator wires the sources in their fixed order: manifest, CSV,
// local PDFs, API, feedback. A nil site reads the existing manifest
// without crawling.
func (m *Main) coordinator(cfg *sitekb.Config, site *crawl.SiteSource, feedback *fs.FeedbackLog, embedder sitekb.Embedder, logger *slog.Logger) *ingest.Coordinator {
	var manifest sitekb.Source = fs.NewManifestSource(fs.NewManifestWriter(cfg.Crawl.PagesDir).ManifestPath())
	if site != nil {
		manifest = site
	}

	api := kbhttp.NewAPISource(nil, cfg.API.URLs, cfg.API.Field)
	if cfg.API.Timeout > 0 {
		api.Timeout = cfg.API.Timeout
	}

	sources := kbslog.WrapSources(logger,
		manifest,
		fs.NewCSVSource(cfg.CSV.Path, cfg.CSV.Column),
		pdf.NewFolderSource(cfg.PDF.Dir),
		api,
		feedback,
	)

	return &ingest.Coordinator{
		Aggregator: ingest.NewAggregator(logger, sources...),
		Registry:   fs.NewHashRegistry(cfg.Store.Hashes),
		Stores:     kbslog.NewLoggingStoreService(sqlite.NewStoreService(), logger),
		Embedder:   embedder,
		StorePath:  cfg.Store.Path,
		LockPath:   cfg.Store.Path + ".lock",
		Logger:     logger,
	}
}

func newExtractor(name string) sitekb.Extractor {
	if name == "readability" {
		return readability.NewExtractor()
	}
	return trafilatura.NewExtractor()
}
