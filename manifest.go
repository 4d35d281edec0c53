package sitekb

import (
	"context"
	"sort"
)

// ManifestEntry records where a crawled page's text was stored and which
// auxiliary resources it referenced.
type ManifestEntry struct {
	SourceURL string   `json:"-"`
	File      string   `json:"file"`
	PDFs      []string `json:"pdfs"`
	Endpoints []string `json:"endpoints"`
}

// Manifest maps source URL to its entry.
type Manifest map[string]*ManifestEntry

// URLs returns the manifest keys in sorted order.
func (m Manifest) URLs() []string {
	urls := make([]string, 0, len(m))
	for u := range m {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	return urls
}

// PDFURLs returns every PDF URL referenced by the manifest, deduplicated,
// in sorted source URL order.
func (m Manifest) PDFURLs() []string {
	var pdfs []string
	for _, u := range m.URLs() {
		pdfs = AppendUnique(pdfs, m[u].PDFs...)
	}
	return pdfs
}

// Endpoints returns the sorted union of all endpoint URLs in the manifest.
func (m Manifest) Endpoints() []string {
	var endpoints []string
	for _, e := range m {
		endpoints = AppendUnique(endpoints, e.Endpoints...)
	}
	sort.Strings(endpoints)
	return endpoints
}

// ManifestWriter persists crawl output.
type ManifestWriter interface {
	// Write stores one text file per page with non-empty text and records
	// the pages in the manifest index.
	Write(ctx context.Context, pages []*PageRecord) (Manifest, error)
}

// Downloader fetches a single remote PDF.
type Downloader interface {
	// Download returns the body of url. Returns EINVALID if the response
	// is not a PDF.
	Download(ctx context.Context, url string) ([]byte, error)
}
