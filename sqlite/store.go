package sqlite

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/sitekb"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var (
	_ sitekb.StoreService   = (*StoreService)(nil)
	_ sitekb.KnowledgeStore = (*Store)(nil)
)

// StoreService opens knowledge stores backed by SQLite files.
type StoreService struct{}

// NewStoreService creates a new StoreService.
func NewStoreService() *StoreService {
	return &StoreService{}
}

// Load opens the store at path. Returns ENOTFOUND if the file does not exist.
func (s *StoreService) Load(ctx context.Context, path string, embedder sitekb.Embedder) (sitekb.KnowledgeStore, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, sitekb.Errorf(sitekb.ENOTFOUND, "knowledge store not found: %s", path)
	}
	return Open(path, embedder)
}

// Create creates the store file at path and stages docs on it. Returns
// ECONFLICT if a store already exists there.
func (s *StoreService) Create(ctx context.Context, path string, docs []*sitekb.Document, embedder sitekb.Embedder) (sitekb.KnowledgeStore, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, sitekb.Errorf(sitekb.ECONFLICT, "knowledge store already exists: %s", path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store dir: %w", err)
		}
	}

	store, err := Open(path, embedder)
	if err != nil {
		return nil, err
	}
	if err := store.AddDocuments(ctx, docs); err != nil {
		_ = store.Close()
		_ = os.Remove(path)
		return nil, err
	}
	return store, nil
}

// Store is an open knowledge store. Added documents are embedded
// immediately and written to the database in one transaction on Save.
type Store struct {
	db       *DB
	embedder sitekb.Embedder
	staged   []row
}

type row struct {
	id        string
	doc       *sitekb.Document
	embedding []float32
}

// Open opens or creates the database at path.
func Open(path string, embedder sitekb.Embedder) (*Store, error) {
	db := NewDB(path)
	if err := db.Open(); err != nil {
		return nil, err
	}
	return &Store{db: db, embedder: embedder}, nil
}

// AddDocuments embeds docs and stages them for Save. Nothing is staged
// if any embedding fails.
func (s *Store) AddDocuments(ctx context.Context, docs []*sitekb.Document) error {
	if s.embedder == nil {
		return sitekb.Errorf(sitekb.EINVALID, "embedder required")
	}

	rows := make([]row, 0, len(docs))
	for _, doc := range docs {
		vec, err := s.embedder.Embed(ctx, doc.Content)
		if err != nil {
			return fmt.Errorf("embedding %s: %w", doc.Metadata.Source, err)
		}
		rows = append(rows, row{id: uuid.New().String(), doc: doc, embedding: vec})
	}
	s.staged = append(s.staged, rows...)
	return nil
}

// Save writes the staged documents.
func (s *Store) Save(ctx context.Context) error {
	if len(s.staged) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, r := range s.staged {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO documents (id, source, hash, content, embedding, dims, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, r.id, r.doc.Metadata.Source, r.doc.Metadata.Hash, r.doc.Content,
			EncodeEmbedding(r.embedding), len(r.embedding), now); err != nil {
			return fmt.Errorf("inserting document: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.staged = nil
	return nil
}

// Count returns the number of saved documents.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&n)
	return n, err
}

// StoredDocument is a saved document with its embedding.
type StoredDocument struct {
	ID        string
	Document  sitekb.Document
	Embedding []float32
}

// Documents returns the saved documents in insertion order.
func (s *Store) Documents(ctx context.Context) ([]*StoredDocument, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, hash, content, embedding
		FROM documents
		ORDER BY rowid
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*StoredDocument
	for rows.Next() {
		var d StoredDocument
		var blob []byte
		if err := rows.Scan(&d.ID, &d.Document.Metadata.Source, &d.Document.Metadata.Hash, &d.Document.Content, &blob); err != nil {
			return nil, err
		}
		if d.Embedding, err = DecodeEmbedding(blob); err != nil {
			return nil, err
		}
		docs = append(docs, &d)
	}
	return docs, rows.Err()
}

// Close closes the database. Staged documents are discarded.
func (s *Store) Close() error {
	s.staged = nil
	return s.db.Close()
}

// EncodeEmbedding packs v as little-endian float32 values.
func EncodeEmbedding(v []float32) []byte {
	b := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(f))
	}
	return b
}

// DecodeEmbedding reverses EncodeEmbedding.
func DecodeEmbedding(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, sitekb.Errorf(sitekb.EINVALID, "embedding blob length %d is not a multiple of 4", len(b))
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return v, nil
}
