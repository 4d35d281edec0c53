package crawl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fwojciec/sitekb"
)

// Ensure SiteSource implements sitekb.Source.
var _ sitekb.Source = (*SiteSource)(nil)

// Discovery is the outcome of crawling one site and persisting the results.
type Discovery struct {
	Crawl     *Result
	Manifest  sitekb.Manifest
	PDFs      *PDFResult
	Endpoints []string
}

// SiteSource is the crawl-manifest Source. Load discovers every configured
// site (crawl, write manifest, download PDFs) and then yields the Documents
// of the whole manifest, including pages recorded by earlier runs.
type SiteSource struct {
	Crawler  *Crawler
	Writer   sitekb.ManifestWriter
	PDFs     *PDFFetcher
	Manifest sitekb.Source
	Sites    []string
	Logger   *slog.Logger
}

// Name implements sitekb.Source.
func (s *SiteSource) Name() string { return "manifest" }

// Load discovers each site in order, then loads the manifest. A failing
// site is logged and skipped; its error is joined into the returned error.
func (s *SiteSource) Load(ctx context.Context) ([]*sitekb.Document, error) {
	var errs []error
	for _, site := range s.Sites {
		if _, err := s.Discover(ctx, site); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger().Warn("site discovery failed", "url", site, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", site, err))
		}
	}

	docs, err := s.Manifest.Load(ctx)
	if sitekb.ErrorCode(err) == sitekb.ENOTFOUND && len(s.Sites) > 0 && len(errs) == 0 {
		// Every site was crawled but none produced text.
		err = nil
	}
	return docs, errors.Join(append(errs, err)...)
}

// Discover crawls one site, records its pages in the manifest and
// downloads the PDFs they reference.
func (s *SiteSource) Discover(ctx context.Context, site string) (*Discovery, error) {
	res, err := s.Crawler.Crawl(ctx, site)
	if err != nil {
		return nil, err
	}

	m, err := s.Writer.Write(ctx, res.Pages)
	if err != nil {
		return nil, fmt.Errorf("writing manifest: %w", err)
	}
	d := &Discovery{Crawl: res, Manifest: m, Endpoints: m.Endpoints()}

	if s.PDFs != nil {
		d.PDFs, err = s.PDFs.FetchAll(ctx, m)
		if err != nil {
			return d, fmt.Errorf("fetching pdfs: %w", err)
		}
	}

	s.logger().Info("site discovered",
		"url", site,
		"pages", len(res.Pages),
		"saved", len(m),
		"endpoints", len(d.Endpoints),
	)
	return d, nil
}

func (s *SiteSource) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}
