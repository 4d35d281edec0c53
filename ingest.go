package sitekb

import "context"

// IngestResult summarizes one ingestion cycle.
type IngestResult struct {
	RunID      string
	Aggregated int
	Added      int
	Created    bool
	Sources    []SourceResult
}

// Ingester runs one full ingestion cycle.
type Ingester interface {
	IngestAll(ctx context.Context) (*IngestResult, error)
}
