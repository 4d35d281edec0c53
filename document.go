package sitekb

import "context"

// Document is the uniform content unit passed between ingestion stages,
// whatever its origin (crawled page, CSV row, PDF, API item, feedback line).
type Document struct {
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
}

// Metadata describes where a Document came from.
type Metadata struct {
	// Source is a URL, file name or tag identifying the origin.
	Source string `json:"source"`

	// Hash is the content digest. Set only after deduplication.
	Hash string `json:"hash,omitempty"`
}

// Embedder turns text into a vector. Used opaquely by the knowledge store.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// KnowledgeStore is an open handle to the downstream retrieval store.
type KnowledgeStore interface {
	// AddDocuments embeds and stages docs for the next Save.
	AddDocuments(ctx context.Context, docs []*Document) error

	// Save persists all staged documents.
	Save(ctx context.Context) error

	// Close releases the handle. Unsaved documents are discarded.
	Close() error
}

// StoreService opens knowledge stores.
type StoreService interface {
	// Load opens an existing store at path.
	// Returns ENOTFOUND if no store exists there yet.
	Load(ctx context.Context, path string, embedder Embedder) (KnowledgeStore, error)

	// Create creates a fresh store at path staged with docs.
	Create(ctx context.Context, path string, docs []*Document, embedder Embedder) (KnowledgeStore, error)
}
