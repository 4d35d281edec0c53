package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fwojciec/sitekb"
)

// Aggregator concatenates the Documents of several sources in a fixed order.
type Aggregator struct {
	sources []sitekb.Source
	logger  *slog.Logger
}

// NewAggregator creates an Aggregator that reads sources in the given order.
func NewAggregator(logger *slog.Logger, sources ...sitekb.Source) *Aggregator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Aggregator{sources: sources, logger: logger}
}

// Aggregate loads every source and returns their Documents in source order
// along with one SourceResult per source. A failing source never stops
// the others.
func (a *Aggregator) Aggregate(ctx context.Context) ([]*sitekb.Document, []sitekb.SourceResult) {
	var all []*sitekb.Document
	results := make([]sitekb.SourceResult, 0, len(a.sources))

	for _, src := range a.sources {
		docs, err := load(ctx, src)
		if err != nil {
			level := slog.LevelWarn
			if sitekb.ErrorCode(err) == sitekb.ENOTFOUND {
				level = slog.LevelInfo
			}
			a.logger.Log(ctx, level, "source failed", "source", src.Name(), "kept", len(docs), "error", err)
		}
		all = append(all, docs...)
		results = append(results, sitekb.SourceResult{Name: src.Name(), Count: len(docs), Err: err})
	}

	return all, results
}

// load calls src.Load, converting a panic into an error.
func load(ctx context.Context, src sitekb.Source) (docs []*sitekb.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			docs = nil
			err = fmt.Errorf("source %s panicked: %v", src.Name(), r)
		}
	}()
	return src.Load(ctx)
}
