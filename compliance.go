package sitekb

import "context"

// ComplianceChecker evaluates a site's crawl policy.
// Neither method fails: errors degrade to a safe default.
type ComplianceChecker interface {
	// IsAllowed reports whether userAgent may crawl baseURL according to
	// robots.txt. Unreachable or unreadable robots.txt means allowed.
	IsAllowed(ctx context.Context, baseURL, userAgent string) bool

	// SitemapURLs returns the sitemap URLs prefixed by baseURL, or an
	// empty slice when no usable sitemap exists.
	SitemapURLs(ctx context.Context, baseURL string) []string
}
