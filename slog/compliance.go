package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitekb"
)

// Ensure LoggingComplianceChecker implements sitekb.ComplianceChecker.
var _ sitekb.ComplianceChecker = (*LoggingComplianceChecker)(nil)

// LoggingComplianceChecker wraps a ComplianceChecker with logging of
// robots decisions and sitemap discovery.
type LoggingComplianceChecker struct {
	next   sitekb.ComplianceChecker
	logger *slog.Logger
}

// NewLoggingComplianceChecker creates a new LoggingComplianceChecker.
func NewLoggingComplianceChecker(next sitekb.ComplianceChecker, logger *slog.Logger) *LoggingComplianceChecker {
	return &LoggingComplianceChecker{next: next, logger: logger}
}

// IsAllowed delegates to the wrapped checker and logs the decision.
func (c *LoggingComplianceChecker) IsAllowed(ctx context.Context, baseURL, userAgent string) (allowed bool) {
	defer func(begin time.Time) {
		c.logger.Info("robots check",
			"url", baseURL,
			"user_agent", userAgent,
			"allowed", allowed,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return c.next.IsAllowed(ctx, baseURL, userAgent)
}

// SitemapURLs delegates to the wrapped checker and logs the URL count.
func (c *LoggingComplianceChecker) SitemapURLs(ctx context.Context, baseURL string) (urls []string) {
	defer func(begin time.Time) {
		c.logger.Info("sitemap discovery",
			"url", baseURL,
			"count", len(urls),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return c.next.SitemapURLs(ctx, baseURL)
}
