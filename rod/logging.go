package rod

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitekb"
)

// Ensure LoggingRenderer implements sitekb.Renderer.
var _ sitekb.Renderer = (*LoggingRenderer)(nil)

// LoggingRenderer wraps a Renderer with logging.
type LoggingRenderer struct {
	next   sitekb.Renderer
	logger *slog.Logger
}

// NewLoggingRenderer creates a new LoggingRenderer.
func NewLoggingRenderer(next sitekb.Renderer, logger *slog.Logger) *LoggingRenderer {
	return &LoggingRenderer{next: next, logger: logger}
}

// Render logs the URL, output sizes and captured request counts.
func (r *LoggingRenderer) Render(ctx context.Context, url string) (res *sitekb.RenderResult, err error) {
	defer func(begin time.Time) {
		r.logger.Info("render",
			"url", url,
			"bytes", len(res.HTML),
			"pdfs", len(res.PDFURLs),
			"endpoints", len(res.EndpointURLs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	res, err = r.next.Render(ctx, url)
	if res == nil {
		res = &sitekb.RenderResult{}
	}
	return res, err
}

// Close delegates to the wrapped renderer.
func (r *LoggingRenderer) Close() error {
	return r.next.Close()
}
