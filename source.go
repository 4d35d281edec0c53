package sitekb

import "context"

// Source produces Documents from one origin.
type Source interface {
	// Name identifies the source in logs and results.
	Name() string

	// Load returns the source's Documents. A non-nil error marks the
	// source as failed; any Documents returned alongside it are kept.
	Load(ctx context.Context) ([]*Document, error)
}

// SourceResult records the outcome of loading one Source.
type SourceResult struct {
	Name  string
	Count int
	Err   error
}
