package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitekb"
)

// Ensure LoggingStoreService implements sitekb.StoreService.
var _ sitekb.StoreService = (*LoggingStoreService)(nil)

// LoggingStoreService wraps a StoreService with logging of store opens.
type LoggingStoreService struct {
	next   sitekb.StoreService
	logger *slog.Logger
}

// NewLoggingStoreService creates a new LoggingStoreService.
func NewLoggingStoreService(next sitekb.StoreService, logger *slog.Logger) *LoggingStoreService {
	return &LoggingStoreService{next: next, logger: logger}
}

// Load delegates to the wrapped service. A missing store is logged as
// such rather than as an error.
func (s *LoggingStoreService) Load(ctx context.Context, path string, embedder sitekb.Embedder) (store sitekb.KnowledgeStore, err error) {
	defer func(begin time.Time) {
		if sitekb.ErrorCode(err) == sitekb.ENOTFOUND {
			s.logger.Info("store load", "path", path, "found", false, "duration", time.Since(begin))
			return
		}
		s.logger.Info("store load",
			"path", path,
			"found", err == nil,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Load(ctx, path, embedder)
}

// Create delegates to the wrapped service and logs the document count.
func (s *LoggingStoreService) Create(ctx context.Context, path string, docs []*sitekb.Document, embedder sitekb.Embedder) (store sitekb.KnowledgeStore, err error) {
	defer func(begin time.Time) {
		s.logger.Info("store create",
			"path", path,
			"count", len(docs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Create(ctx, path, docs, embedder)
}
