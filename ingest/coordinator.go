package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fwojciec/sitekb"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// lockRetry is how often a held file lock is polled.
const lockRetry = 250 * time.Millisecond

// Ensure Coordinator implements sitekb.Ingester.
var _ sitekb.Ingester = (*Coordinator)(nil)

// Coordinator runs ingestion cycles. Cycles are serialized within the
// process by a mutex and across processes by a lock file next to the store.
type Coordinator struct {
	Aggregator *Aggregator
	Registry   sitekb.HashRegistry
	Stores     sitekb.StoreService
	Embedder   sitekb.Embedder
	StorePath  string

	// LockPath is the cross-process lock file. Empty disables file locking.
	LockPath string

	Logger *slog.Logger

	mu sync.Mutex
}

// IngestAll aggregates, deduplicates against the registry and appends new
// Documents to the store. When nothing is new the store is not touched.
// The registry is saved only after the store has been saved.
func (c *Coordinator) IngestAll(ctx context.Context) (res *sitekb.IngestResult, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.LockPath != "" {
		lock := flock.New(c.LockPath)
		// Blocks until the lock is free or ctx ends.
		if _, err := lock.TryLockContext(ctx, lockRetry); err != nil {
			return nil, fmt.Errorf("acquiring ingestion lock: %w", err)
		}
		defer func() { _ = lock.Unlock() }()
	}

	logger := c.logger()
	res = &sitekb.IngestResult{RunID: uuid.NewString()}
	logger = logger.With("run", res.RunID)

	registered, err := c.Registry.Load(ctx)
	if err != nil {
		return res, fmt.Errorf("loading hash registry: %w", err)
	}

	docs, sources := c.Aggregator.Aggregate(ctx)
	res.Aggregated = len(docs)
	res.Sources = sources

	newDocs, newHashes := Deduplicate(docs, registered)
	if len(newDocs) == 0 {
		logger.Info("no new documents", "aggregated", len(docs))
		return res, nil
	}

	store, created, err := c.open(ctx, newDocs)
	if err != nil {
		return res, err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing knowledge store: %w", cerr)
		}
	}()

	if err := store.Save(ctx); err != nil {
		return res, fmt.Errorf("saving knowledge store: %w", err)
	}
	if err := c.Registry.Save(ctx, registered.Union(newHashes)); err != nil {
		return res, fmt.Errorf("saving hash registry: %w", err)
	}

	res.Added = len(newDocs)
	res.Created = created
	logger.Info("ingested", "aggregated", len(docs), "added", len(newDocs), "created", created)
	return res, nil
}

// open loads the existing store and stages docs on it, or creates a new
// store from docs when none exists yet.
func (c *Coordinator) open(ctx context.Context, docs []*sitekb.Document) (sitekb.KnowledgeStore, bool, error) {
	store, err := c.Stores.Load(ctx, c.StorePath, c.Embedder)
	if sitekb.ErrorCode(err) == sitekb.ENOTFOUND {
		store, err = c.Stores.Create(ctx, c.StorePath, docs, c.Embedder)
		if err != nil {
			return nil, false, fmt.Errorf("creating knowledge store: %w", err)
		}
		return store, true, nil
	} else if err != nil {
		return nil, false, fmt.Errorf("loading knowledge store: %w", err)
	}

	if err := store.AddDocuments(ctx, docs); err != nil {
		_ = store.Close()
		return nil, false, fmt.Errorf("adding documents: %w", err)
	}
	return store, false, nil
}

func (c *Coordinator) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}
