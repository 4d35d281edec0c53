// Package trafilatura extracts the main content of a page with
// go-trafilatura, falling back to its readability and dom-distiller
// heuristics when the primary extraction finds too little.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/sitekb"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements sitekb.Extractor at compile time.
var _ sitekb.Extractor = (*Extractor)(nil)

// Extractor strips navigation, footers and comment sections from a
// rendered page and returns the remaining content as HTML.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{opts: trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
	}}
}

// Extract returns the page title and main content HTML. ContentHTML is
// empty when nothing resembling content was found.
func (e *Extractor) Extract(rawHTML string) (*sitekb.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, sitekb.Errorf(sitekb.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return nil, err
	}

	res := &sitekb.ExtractResult{Title: result.Metadata.Title}
	if result.ContentNode != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, err
		}
		res.ContentHTML = buf.String()
	}
	return res, nil
}
