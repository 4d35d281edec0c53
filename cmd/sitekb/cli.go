package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/fwojciec/sitekb"
	"github.com/fwojciec/sitekb/crawl"
	"github.com/fwojciec/sitekb/ingest"
)

// Discoverer crawls one site and persists what it found.
type Discoverer interface {
	Discover(ctx context.Context, site string) (*crawl.Discovery, error)
}

// FeedbackAppender records a user feedback entry.
type FeedbackAppender interface {
	Append(ctx context.Context, text string) error
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx        context.Context
	Stdout     io.Writer
	Stderr     io.Writer
	Config     *sitekb.Config
	Logger     *slog.Logger
	Discoverer Discoverer
	Ingester   sitekb.Ingester
	Registry   sitekb.HashRegistry
	Feedback   FeedbackAppender
	Scheduler  *ingest.Scheduler
	Metrics    http.Handler
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config string `short:"c" default:"sitekb.yaml" env:"SITEKB_CONFIG" help:"Path to the YAML config file"`

	Crawl  CrawlCmd  `cmd:"" help:"Crawl a site, write the manifest and download its PDFs"`
	Ingest IngestCmd `cmd:"" help:"Run one ingestion cycle"`
	Serve  ServeCmd  `cmd:"" help:"Serve HTTP endpoints and re-ingest on a schedule"`
	Reset  ResetCmd  `cmd:"" help:"Forget every ingested content hash"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URL      string        `arg:"" help:"Site URL to crawl"`
	MaxPages int           `short:"n" help:"Maximum pages to visit (overrides config)"`
	Delay    time.Duration `short:"d" help:"Delay between page loads (overrides config)"`
}

// IngestCmd is the "ingest" subcommand.
type IngestCmd struct {
	NoCrawl bool `help:"Ingest the existing manifest without crawling"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr    string `help:"Listen address (overrides config)"`
	NoStart bool   `help:"Skip the ingestion cycle at startup"`
}

// ResetCmd is the "reset" subcommand.
type ResetCmd struct {
	Force bool `help:"Confirm reset"`
}
