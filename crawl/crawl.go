// Package crawl provides site crawling orchestration. It coordinates
// compliance checks, browser rendering, link discovery, and the follow-up
// manifest and PDF steps.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/fwojciec/sitekb"
)

// DefaultMaxPages bounds a crawl when Crawler.MaxPages is unset.
const DefaultMaxPages = 150

// Crawler performs a bounded breadth-first traversal of one site.
type Crawler struct {
	Compliance sitekb.ComplianceChecker
	Renderer   sitekb.Renderer
	Links      sitekb.LinkExtractor
	Limiter    sitekb.DomainLimiter
	Logger     *slog.Logger

	// Optional. When both are set, page text is the Markdown rendering of
	// the main content instead of the browser's visible text.
	Extractor sitekb.Extractor
	Converter sitekb.Converter

	// Optional. Used when the browser returned HTML but no visible text.
	TextFunc func(html string) string

	UserAgent string
	MaxPages  int
}

// Result holds the outcome of a crawl.
type Result struct {
	// Pages holds one record per visited URL, in visit order.
	Pages []*sitekb.PageRecord

	// Allowed is false when robots.txt denied the crawl.
	Allowed bool

	// Failed counts pages whose render failed.
	Failed int
}

// Crawl visits baseURL and the same-site pages reachable from it, at most
// MaxPages of them, in breadth-first order. Per-page failures are logged
// and skipped. The only error conditions are an invalid baseURL and
// context cancellation, in which case the pages gathered so far are
// returned alongside the error.
func (c *Crawler) Crawl(ctx context.Context, baseURL string) (*Result, error) {
	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" || (base.Scheme != "http" && base.Scheme != "https") {
		return nil, sitekb.Errorf(sitekb.EINVALID, "invalid base URL: %q", baseURL)
	}
	logger := c.logger()

	if !c.Compliance.IsAllowed(ctx, baseURL, c.UserAgent) {
		logger.Warn("crawl disallowed by robots.txt", "url", baseURL)
		return &Result{}, nil
	}

	maxPages := c.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	frontier := NewFrontier(uint(maxPages)*100, 0.0001)
	seeds := c.Compliance.SitemapURLs(ctx, baseURL)
	if len(seeds) == 0 {
		seeds = []string{baseURL}
	}
	for _, u := range seeds {
		frontier.Push(u)
	}
	logger.Info("crawl started", "url", baseURL, "seeds", len(seeds), "max_pages", maxPages)

	result := &Result{Allowed: true}
	visited := make(map[string]bool)

	for frontier.Len() > 0 && len(visited) < maxPages {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		pageURL, _ := frontier.Pop()
		if visited[pageURL] {
			continue
		}
		visited[pageURL] = true

		if c.Limiter != nil {
			if err := c.Limiter.Wait(ctx, base.Host); err != nil {
				return result, err
			}
		}

		page, links, err := c.visit(ctx, pageURL)
		if err != nil {
			result.Failed++
			logger.Warn("page failed", "url", pageURL, "err", err)
		}
		result.Pages = append(result.Pages, page)

		for _, link := range links {
			if !visited[link] {
				frontier.Push(link)
			}
		}
	}

	logger.Info("crawl finished",
		"url", baseURL,
		"visited", len(visited),
		"failed", result.Failed,
		"queued", frontier.Len(),
	)
	return result, nil
}

// visit renders one URL and returns its record and outgoing same-site links.
// The record is never nil; on error it holds whatever was captured.
func (c *Crawler) visit(ctx context.Context, pageURL string) (*sitekb.PageRecord, []string, error) {
	rendered, err := c.Renderer.Render(ctx, pageURL)
	if rendered == nil {
		rendered = &sitekb.RenderResult{}
	}
	page := &sitekb.PageRecord{
		URL:          pageURL,
		HTML:         rendered.HTML,
		Text:         rendered.Text,
		PDFURLs:      sitekb.AppendUnique(nil, rendered.PDFURLs...),
		EndpointURLs: sitekb.AppendUnique(nil, rendered.EndpointURLs...),
	}
	if err != nil {
		return page, nil, fmt.Errorf("render: %w", err)
	}
	if page.HTML == "" {
		return page, nil, nil
	}

	page.Text = c.pageText(page)

	links, err := c.Links.ExtractLinks(page.HTML, pageURL)
	if err != nil {
		return page, nil, fmt.Errorf("extract links: %w", err)
	}
	page.PDFURLs = sitekb.AppendUnique(page.PDFURLs, links.PDFs...)
	return page, links.Pages, nil
}

func (c *Crawler) pageText(page *sitekb.PageRecord) string {
	if c.Extractor != nil && c.Converter != nil {
		if md, err := c.markdown(page.HTML); err != nil {
			c.logger().Debug("markdown conversion failed", "url", page.URL, "err", err)
		} else if md != "" {
			return md
		}
	}
	if page.Text == "" && c.TextFunc != nil {
		return c.TextFunc(page.HTML)
	}
	return page.Text
}

func (c *Crawler) markdown(html string) (string, error) {
	extracted, err := c.Extractor.Extract(html)
	if err != nil {
		return "", err
	}
	if extracted.ContentHTML == "" {
		return "", nil
	}
	return c.Converter.Convert(extracted.ContentHTML)
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}
