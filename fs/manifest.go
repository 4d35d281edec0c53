package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/sitekb"
)

// ManifestFileName is the name of the manifest index inside a pages directory.
const ManifestFileName = "manifest.json"

// Ensure ManifestWriter implements sitekb.ManifestWriter at compile time.
var _ sitekb.ManifestWriter = (*ManifestWriter)(nil)

// ManifestWriter stores crawled pages as text files in a directory and
// indexes them in manifest.json.
type ManifestWriter struct {
	dir string
}

// NewManifestWriter creates a ManifestWriter rooted at dir.
func NewManifestWriter(dir string) *ManifestWriter {
	return &ManifestWriter{dir: dir}
}

// ManifestPath returns the path of the manifest index.
func (w *ManifestWriter) ManifestPath() string {
	return filepath.Join(w.dir, ManifestFileName)
}

// PageFileName returns the stable file name for a page URL.
func PageFileName(pageURL string) string {
	return fmt.Sprintf("%016x.txt", xxhash.Sum64String(pageURL))
}

// FormatPage formats page text with its source URL header.
func FormatPage(pageURL, text string) string {
	return "URL: " + pageURL + "\n\n" + text
}

// Write stores each page with non-empty text and merges the pages into the
// existing manifest. It returns the entries for the pages written by this
// call.
func (w *ManifestWriter) Write(ctx context.Context, pages []*sitekb.PageRecord) (sitekb.Manifest, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating pages dir: %w", err)
	}

	merged, err := ReadManifest(w.ManifestPath())
	if err != nil && sitekb.ErrorCode(err) != sitekb.ENOTFOUND {
		return nil, err
	}
	if merged == nil {
		merged = sitekb.Manifest{}
	}

	written := sitekb.Manifest{}
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if strings.TrimSpace(page.Text) == "" {
			continue
		}

		path := filepath.Join(w.dir, PageFileName(page.URL))
		if err := writeFileAtomic(path, []byte(FormatPage(page.URL, page.Text))); err != nil {
			return nil, fmt.Errorf("writing page %s: %w", page.URL, err)
		}

		entry := &sitekb.ManifestEntry{
			SourceURL: page.URL,
			File:      path,
			PDFs:      nonNil(page.PDFURLs),
			Endpoints: nonNil(page.EndpointURLs),
		}
		written[page.URL] = entry
		merged[page.URL] = entry
	}

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := writeFileAtomic(w.ManifestPath(), data); err != nil {
		return nil, fmt.Errorf("writing manifest: %w", err)
	}
	return written, nil
}

// ReadManifest loads a manifest index. Returns ENOTFOUND if it does not exist.
func ReadManifest(path string) (sitekb.Manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, sitekb.Errorf(sitekb.ENOTFOUND, "manifest %s not found", path)
	} else if err != nil {
		return nil, err
	}

	var m sitekb.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, sitekb.Errorf(sitekb.EINVALID, "parsing manifest %s: %v", path, err)
	}
	if m == nil {
		m = sitekb.Manifest{}
	}
	for u, e := range m {
		if e == nil {
			delete(m, u)
			continue
		}
		e.SourceURL = u
	}
	return m, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Ensure ManifestSource implements sitekb.Source at compile time.
var _ sitekb.Source = (*ManifestSource)(nil)

// ManifestSource yields one Document per manifest entry, tagged with the
// page's source URL.
type ManifestSource struct {
	path string
}

// NewManifestSource creates a ManifestSource reading the manifest at path.
func NewManifestSource(path string) *ManifestSource {
	return &ManifestSource{path: path}
}

// Name returns "manifest".
func (s *ManifestSource) Name() string { return "manifest" }

// Load reads the manifest and the page files it references. Unreadable page
// files are reported in the error while the remaining pages are returned.
func (s *ManifestSource) Load(ctx context.Context) ([]*sitekb.Document, error) {
	m, err := ReadManifest(s.path)
	if err != nil {
		return nil, err
	}

	var docs []*sitekb.Document
	var errs []error
	for _, u := range m.URLs() {
		if err := ctx.Err(); err != nil {
			return docs, err
		}
		data, err := os.ReadFile(m[u].File)
		if err != nil {
			errs = append(errs, fmt.Errorf("reading page %s: %w", u, err))
			continue
		}
		docs = append(docs, &sitekb.Document{
			Content:  string(data),
			Metadata: sitekb.Metadata{Source: u},
		})
	}
	return docs, errors.Join(errs...)
}
