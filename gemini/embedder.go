// Package gemini implements sitekb.Embedder with the Google Gemini API.
package gemini

import (
	"context"
	"strings"

	"github.com/fwojciec/sitekb"
	"google.golang.org/genai"
)

// DefaultModel is the embedding model used when none is configured.
const DefaultModel = "gemini-embedding-001"

// taskType tells the API the vectors index documents for retrieval.
const taskType = "RETRIEVAL_DOCUMENT"

// Ensure Embedder implements sitekb.Embedder at compile time.
var _ sitekb.Embedder = (*Embedder)(nil)

// Embedder turns document text into vectors via Gemini.
type Embedder struct {
	client     *genai.Client
	model      string
	dimensions int32
}

// EmbedderOption configures an Embedder.
type EmbedderOption func(*Embedder)

// WithModel overrides DefaultModel.
func WithModel(model string) EmbedderOption {
	return func(e *Embedder) {
		if model != "" {
			e.model = model
		}
	}
}

// WithDimensions truncates vectors to n dimensions. Zero keeps the model's
// native size.
func WithDimensions(n int32) EmbedderOption {
	return func(e *Embedder) {
		e.dimensions = n
	}
}

// NewEmbedder creates a new Embedder.
func NewEmbedder(client *genai.Client, opts ...EmbedderOption) *Embedder {
	e := &Embedder{client: client, model: DefaultModel}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Embed returns the embedding of text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, sitekb.Errorf(sitekb.EINVALID, "text required")
	}
	if e.client == nil {
		return nil, sitekb.Errorf(sitekb.EINVALID, "gemini client not configured")
	}

	result, err := e.client.Models.EmbedContent(ctx, e.model, genai.Text(text), BuildEmbedConfig(e.dimensions))
	if err != nil {
		return nil, err
	}
	if result == nil || len(result.Embeddings) == 0 || result.Embeddings[0] == nil {
		return nil, sitekb.Errorf(sitekb.EINTERNAL, "gemini returned no embedding")
	}

	return result.Embeddings[0].Values, nil
}

// BuildEmbedConfig returns the EmbedContentConfig for document embeddings.
func BuildEmbedConfig(dimensions int32) *genai.EmbedContentConfig {
	config := &genai.EmbedContentConfig{TaskType: taskType}
	if dimensions > 0 {
		config.OutputDimensionality = &dimensions
	}
	return config
}
