package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fwojciec/sitekb"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultAPITimeout bounds each API request.
	DefaultAPITimeout = 10 * time.Second

	// DefaultAPIField is the JSON field read from list items.
	DefaultAPIField = "content"

	apiConcurrency = 4
)

// Ensure APISource implements sitekb.Source.
var _ sitekb.Source = (*APISource)(nil)

// APISource turns JSON API responses into Documents.
//
// A response whose top level is a list of objects that all carry the
// configured field yields one Document per item. Any other JSON value
// yields a single Document holding the compact JSON text.
type APISource struct {
	URLs    []string
	Field   string
	Timeout time.Duration

	client    *http.Client
	userAgent string
}

// NewAPISource creates an APISource over urls. A nil client means
// http.DefaultClient.
func NewAPISource(client *http.Client, urls []string, field string) *APISource {
	if client == nil {
		client = http.DefaultClient
	}
	if field == "" {
		field = DefaultAPIField
	}
	return &APISource{
		URLs:      urls,
		Field:     field,
		Timeout:   DefaultAPITimeout,
		client:    client,
		userAgent: DefaultUserAgent,
	}
}

// Name implements sitekb.Source.
func (s *APISource) Name() string { return "api" }

// Load fetches every URL concurrently and returns Documents in URL order.
// Failed URLs contribute nothing; their errors are joined.
func (s *APISource) Load(ctx context.Context) ([]*sitekb.Document, error) {
	results := make([][]*sitekb.Document, len(s.URLs))
	errs := make([]error, len(s.URLs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(apiConcurrency)
	for i, u := range s.URLs {
		g.Go(func() error {
			docs, err := s.fetch(ctx, u)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", u, err)
				return nil
			}
			results[i] = docs
			return nil
		})
	}
	_ = g.Wait()

	var docs []*sitekb.Document
	for _, r := range results {
		docs = append(docs, r...)
	}
	return docs, errors.Join(errs...)
}

func (s *APISource) fetch(ctx context.Context, apiURL string) ([]*sitekb.Document, error) {
	body, _, err := get(ctx, s.client, s.Timeout, maxBodySize, s.userAgent, apiURL)
	if err != nil {
		return nil, err
	}
	contents, err := ParseAPIResponse(body, s.Field)
	if err != nil {
		return nil, err
	}
	docs := make([]*sitekb.Document, 0, len(contents))
	for _, c := range contents {
		docs = append(docs, &sitekb.Document{
			Content:  c,
			Metadata: sitekb.Metadata{Source: apiURL},
		})
	}
	return docs, nil
}

// ParseAPIResponse extracts document texts from a JSON body. Returns
// EINVALID if the body is not JSON.
func ParseAPIResponse(body []byte, field string) ([]string, error) {
	var items []map[string]json.RawMessage
	if err := json.Unmarshal(body, &items); err == nil && len(items) > 0 && allHaveField(items, field) {
		contents := make([]string, 0, len(items))
		for _, item := range items {
			contents = append(contents, fieldText(item[field]))
		}
		return contents, nil
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, body); err != nil {
		return nil, sitekb.Errorf(sitekb.EINVALID, "malformed json: %v", err)
	}
	return []string{compact.String()}, nil
}

func allHaveField(items []map[string]json.RawMessage, field string) bool {
	for _, item := range items {
		if _, ok := item[field]; !ok {
			return false
		}
	}
	return true
}

// fieldText returns a JSON string value unquoted and anything else as
// its JSON text.
func fieldText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}
