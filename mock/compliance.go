package mock

import (
	"context"

	"github.com/fwojciec/sitekb"
)

var _ sitekb.ComplianceChecker = (*ComplianceChecker)(nil)

// ComplianceChecker is a mock implementation of sitekb.ComplianceChecker.
type ComplianceChecker struct {
	IsAllowedFn   func(ctx context.Context, baseURL, userAgent string) bool
	SitemapURLsFn func(ctx context.Context, baseURL string) []string
}

func (c *ComplianceChecker) IsAllowed(ctx context.Context, baseURL, userAgent string) bool {
	return c.IsAllowedFn(ctx, baseURL, userAgent)
}

func (c *ComplianceChecker) SitemapURLs(ctx context.Context, baseURL string) []string {
	return c.SitemapURLsFn(ctx, baseURL)
}
