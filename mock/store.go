package mock

import (
	"context"

	"github.com/fwojciec/sitekb"
)

var (
	_ sitekb.StoreService   = (*StoreService)(nil)
	_ sitekb.KnowledgeStore = (*KnowledgeStore)(nil)
	_ sitekb.Embedder       = (*Embedder)(nil)
)

// StoreService is a mock implementation of sitekb.StoreService.
type StoreService struct {
	LoadFn   func(ctx context.Context, path string, embedder sitekb.Embedder) (sitekb.KnowledgeStore, error)
	CreateFn func(ctx context.Context, path string, docs []*sitekb.Document, embedder sitekb.Embedder) (sitekb.KnowledgeStore, error)
}

func (s *StoreService) Load(ctx context.Context, path string, embedder sitekb.Embedder) (sitekb.KnowledgeStore, error) {
	return s.LoadFn(ctx, path, embedder)
}

func (s *StoreService) Create(ctx context.Context, path string, docs []*sitekb.Document, embedder sitekb.Embedder) (sitekb.KnowledgeStore, error) {
	return s.CreateFn(ctx, path, docs, embedder)
}

// KnowledgeStore is a mock implementation of sitekb.KnowledgeStore.
type KnowledgeStore struct {
	AddDocumentsFn func(ctx context.Context, docs []*sitekb.Document) error
	SaveFn         func(ctx context.Context) error
	CloseFn        func() error
}

func (s *KnowledgeStore) AddDocuments(ctx context.Context, docs []*sitekb.Document) error {
	return s.AddDocumentsFn(ctx, docs)
}

func (s *KnowledgeStore) Save(ctx context.Context) error {
	return s.SaveFn(ctx)
}

func (s *KnowledgeStore) Close() error {
	return s.CloseFn()
}

// Embedder is a mock implementation of sitekb.Embedder.
type Embedder struct {
	EmbedFn func(ctx context.Context, text string) ([]float32, error)
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.EmbedFn(ctx, text)
}
