package sitekb

import (
	"context"
	"net/url"
	"strings"
)

// PageRecord is the outcome of rendering one URL during a crawl.
type PageRecord struct {
	URL          string
	HTML         string
	Text         string
	PDFURLs      []string
	EndpointURLs []string
}

// RenderResult holds the content and the network activity observed
// while a page was loaded in the browser.
type RenderResult struct {
	HTML         string
	Text         string
	PDFURLs      []string
	EndpointURLs []string
}

// Renderer loads a URL in a browser and returns its rendered content.
type Renderer interface {
	// Render navigates to url and returns the rendered HTML and visible text
	// together with the PDF and API requests observed during the load.
	// The result is never nil. On failure it carries empty HTML and text but
	// keeps whatever PDF and endpoint URLs were captured before the error.
	Render(ctx context.Context, url string) (*RenderResult, error)

	// Close releases browser resources.
	Close() error
}

// RequestClassifier decides whether an outgoing browser request points at a
// PDF document or an API-like endpoint. resourceType is the browser's
// resource type name (e.g. "XHR", "Fetch", "Document").
type RequestClassifier func(rawURL, resourceType string) (isPDF, isEndpoint bool)

// ClassifyRequest is the default RequestClassifier. A request whose path ends
// in .pdf is a PDF. XHR and fetch requests, and any URL containing "api",
// are endpoints. The heuristic over- and under-matches; treat its output as
// a hint.
func ClassifyRequest(rawURL, resourceType string) (isPDF, isEndpoint bool) {
	isPDF = IsPDFURL(rawURL)
	switch strings.ToLower(resourceType) {
	case "xhr", "fetch":
		isEndpoint = true
	}
	if strings.Contains(strings.ToLower(rawURL), "api") {
		isEndpoint = true
	}
	return isPDF, isEndpoint
}

// IsPDFURL reports whether the URL path ends in .pdf, ignoring case.
func IsPDFURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return strings.HasSuffix(strings.ToLower(rawURL), ".pdf")
	}
	return strings.HasSuffix(strings.ToLower(u.Path), ".pdf")
}

// StripFragment removes the #fragment from a URL so links that differ only
// by fragment normalize to the same string.
func StripFragment(rawURL string) string {
	if idx := strings.Index(rawURL, "#"); idx != -1 {
		return rawURL[:idx]
	}
	return rawURL
}

// AppendUnique appends the values not already present in dst, preserving order.
func AppendUnique(dst []string, values ...string) []string {
	seen := make(map[string]struct{}, len(dst))
	for _, v := range dst {
		seen[v] = struct{}{}
	}
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		dst = append(dst, v)
	}
	return dst
}
