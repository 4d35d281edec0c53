package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitekb"
)

// Ensure LoggingSource implements sitekb.Source.
var _ sitekb.Source = (*LoggingSource)(nil)

// LoggingSource wraps a Source with debug logging.
type LoggingSource struct {
	next   sitekb.Source
	logger *slog.Logger
}

// NewLoggingSource creates a new LoggingSource.
func NewLoggingSource(next sitekb.Source, logger *slog.Logger) *LoggingSource {
	return &LoggingSource{next: next, logger: logger}
}

// Name returns the wrapped source's name.
func (s *LoggingSource) Name() string {
	return s.next.Name()
}

// Load delegates to the wrapped source and logs the document count.
func (s *LoggingSource) Load(ctx context.Context) (docs []*sitekb.Document, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("source load",
			"source", s.next.Name(),
			"count", len(docs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Load(ctx)
}

// WrapSources decorates every source with a LoggingSource.
func WrapSources(logger *slog.Logger, sources ...sitekb.Source) []sitekb.Source {
	wrapped := make([]sitekb.Source, len(sources))
	for i, src := range sources {
		wrapped[i] = NewLoggingSource(src, logger)
	}
	return wrapped
}
