// Package readability extracts the main content of a page with
// go-readability. It is lighter than the trafilatura extractor and suits
// sites built around a single article element.
package readability

import (
	"strings"

	"github.com/fwojciec/sitekb"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements sitekb.Extractor at compile time.
var _ sitekb.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the article title and content HTML.
func (e *Extractor) Extract(rawHTML string) (*sitekb.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, sitekb.Errorf(sitekb.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	return &sitekb.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
