package http

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/fwojciec/sitekb"
	"github.com/temoto/robotstxt"
)

const (
	// DefaultRobotsTimeout bounds the robots.txt request.
	DefaultRobotsTimeout = 5 * time.Second

	// DefaultSitemapTimeout bounds each sitemap request.
	DefaultSitemapTimeout = 8 * time.Second

	// maxSitemaps caps how many sitemap documents one discovery may fetch
	// when following sitemap indexes.
	maxSitemaps = 50
)

// Ensure ComplianceChecker implements sitekb.ComplianceChecker.
var _ sitekb.ComplianceChecker = (*ComplianceChecker)(nil)

// ComplianceChecker reads robots.txt and sitemap.xml over plain HTTP.
// Every failure degrades to a permissive default and is logged as a warning.
type ComplianceChecker struct {
	client         *http.Client
	logger         *slog.Logger
	robotsTimeout  time.Duration
	sitemapTimeout time.Duration
	userAgent      string
}

// ComplianceOption configures a ComplianceChecker.
type ComplianceOption func(*ComplianceChecker)

// WithClient sets the HTTP client. Defaults to http.DefaultClient.
func WithClient(client *http.Client) ComplianceOption {
	return func(c *ComplianceChecker) {
		c.client = client
	}
}

// WithLogger sets the logger used for degraded-policy warnings.
func WithLogger(logger *slog.Logger) ComplianceOption {
	return func(c *ComplianceChecker) {
		c.logger = logger
	}
}

// WithRobotsTimeout overrides DefaultRobotsTimeout.
func WithRobotsTimeout(d time.Duration) ComplianceOption {
	return func(c *ComplianceChecker) {
		c.robotsTimeout = d
	}
}

// WithSitemapTimeout overrides DefaultSitemapTimeout.
func WithSitemapTimeout(d time.Duration) ComplianceOption {
	return func(c *ComplianceChecker) {
		c.sitemapTimeout = d
	}
}

// NewComplianceChecker creates a ComplianceChecker.
func NewComplianceChecker(opts ...ComplianceOption) *ComplianceChecker {
	c := &ComplianceChecker{
		client:         http.DefaultClient,
		logger:         slog.New(slog.DiscardHandler),
		robotsTimeout:  DefaultRobotsTimeout,
		sitemapTimeout: DefaultSitemapTimeout,
		userAgent:      DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsAllowed fetches /robots.txt for baseURL's host and evaluates the rules
// for userAgent against baseURL's path.
func (c *ComplianceChecker) IsAllowed(ctx context.Context, baseURL, userAgent string) bool {
	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		c.logger.Warn("robots check skipped", "url", baseURL, "reason", "unparseable url")
		return true
	}

	robotsURL := base.ResolveReference(&url.URL{Path: "/robots.txt"}).String()
	body, _, err := get(ctx, c.client, c.robotsTimeout, maxBodySize, userAgent, robotsURL)
	if err != nil {
		c.logger.Warn("robots.txt unavailable, allowing crawl", "url", robotsURL, "error", err)
		return true
	}

	robots, err := robotstxt.FromBytes(body)
	if err != nil {
		c.logger.Warn("robots.txt unparseable, allowing crawl", "url", robotsURL, "error", err)
		return true
	}

	path := base.EscapedPath()
	if path == "" {
		path = "/"
	}
	return robots.TestAgent(path, userAgent)
}

// SitemapURLs fetches /sitemap.xml for baseURL's host and returns the page
// locations that start with baseURL. Sitemap indexes are followed.
func (c *ComplianceChecker) SitemapURLs(ctx context.Context, baseURL string) []string {
	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return []string{}
	}

	sitemapURL := base.ResolveReference(&url.URL{Path: "/sitemap.xml"}).String()
	seen := make(map[string]bool)
	locs := c.collect(ctx, sitemapURL, seen)

	urls := []string{}
	unique := make(map[string]bool, len(locs))
	for _, loc := range locs {
		if !strings.HasPrefix(loc, baseURL) || unique[loc] {
			continue
		}
		unique[loc] = true
		urls = append(urls, loc)
	}
	return urls
}

// collect fetches one sitemap document and returns its page locations,
// descending into nested sitemaps for a <sitemapindex>.
func (c *ComplianceChecker) collect(ctx context.Context, sitemapURL string, seen map[string]bool) []string {
	if seen[sitemapURL] || len(seen) >= maxSitemaps || ctx.Err() != nil {
		return nil
	}
	seen[sitemapURL] = true

	body, _, err := get(ctx, c.client, c.sitemapTimeout, maxBodySize, c.userAgent, sitemapURL)
	if err != nil {
		c.logger.Warn("sitemap unavailable", "url", sitemapURL, "error", err)
		return nil
	}

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(bytes.NewReader(body)); err != nil {
		c.logger.Warn("sitemap unparseable", "url", sitemapURL, "error", err)
		return nil
	}
	root := doc.Root()
	if root == nil {
		c.logger.Warn("sitemap empty", "url", sitemapURL)
		return nil
	}

	if root.Tag == "sitemapindex" {
		var locs []string
		for _, loc := range locations(root, "sitemap") {
			locs = append(locs, c.collect(ctx, loc, seen)...)
		}
		return locs
	}
	return locations(root, "url")
}

// locations returns the trimmed <loc> text of every child element named tag.
func locations(root *etree.Element, tag string) []string {
	var locs []string
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if u := strings.TrimSpace(loc.Text()); u != "" {
			locs = append(locs, u)
		}
	}
	return locs
}
