package fs_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/sitekb"
	"github.com/fwojciec/sitekb/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManifestWriter_Write(t *testing.T) {
	t.Parallel()

	t.Run("writes page files and manifest", func(t *testing.T) {
		t.Parallel()

		// Given a writer targeting an empty directory
		dir := t.TempDir()
		w := fs.NewManifestWriter(dir)

		// When I write two pages, one without text
		m, err := w.Write(context.Background(), []*sitekb.PageRecord{
			{
				URL:          "https://example.com/about",
				Text:         "About us",
				PDFURLs:      []string{"https://example.com/a.pdf"},
				EndpointURLs: []string{"https://example.com/api/team"},
			},
			{URL: "https://example.com/blank", Text: "  \n "},
		})

		// Then only the page with text is recorded
		require.NoError(t, err)
		require.Len(t, m, 1)
		entry := m["https://example.com/about"]
		require.NotNil(t, entry)
		assert.Equal(t, filepath.Join(dir, fs.PageFileName("https://example.com/about")), entry.File)

		// And the file carries the URL header
		data, err := os.ReadFile(entry.File)
		require.NoError(t, err)
		assert.Equal(t, "URL: https://example.com/about\n\nAbout us", string(data))

		// And the manifest index uses the documented layout
		raw, err := os.ReadFile(w.ManifestPath())
		require.NoError(t, err)
		var index map[string]map[string]any
		require.NoError(t, json.Unmarshal(raw, &index))
		assert.Equal(t, []any{"https://example.com/a.pdf"}, index["https://example.com/about"]["pdfs"])
		assert.Equal(t, []any{"https://example.com/api/team"}, index["https://example.com/about"]["endpoints"])
		assert.Equal(t, entry.File, index["https://example.com/about"]["file"])
	})

	t.Run("merges into existing manifest", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		w := fs.NewManifestWriter(dir)
		_, err := w.Write(context.Background(), []*sitekb.PageRecord{{URL: "https://a.example.com/", Text: "A"}})
		require.NoError(t, err)

		written, err := w.Write(context.Background(), []*sitekb.PageRecord{{URL: "https://b.example.org/", Text: "B"}})
		require.NoError(t, err)
		assert.Len(t, written, 1)

		all, err := fs.ReadManifest(w.ManifestPath())
		require.NoError(t, err)
		assert.Equal(t, []string{"https://a.example.com/", "https://b.example.org/"}, all.URLs())
		assert.Equal(t, "https://b.example.org/", all["https://b.example.org/"].SourceURL)
	})

	t.Run("page file names are stable and short", func(t *testing.T) {
		t.Parallel()

		name := fs.PageFileName("https://example.com/" + string(make([]byte, 500)))

		assert.Len(t, name, len("0123456789abcdef.txt"))
		assert.Equal(t, fs.PageFileName("https://example.com/x"), fs.PageFileName("https://example.com/x"))
		assert.NotEqual(t, fs.PageFileName("https://example.com/x"), fs.PageFileName("https://example.com/y"))
	})
}

func TestReadManifest(t *testing.T) {
	t.Parallel()

	t.Run("returns not found for missing file", func(t *testing.T) {
		t.Parallel()

		_, err := fs.ReadManifest(filepath.Join(t.TempDir(), "manifest.json"))

		assert.Equal(t, sitekb.ENOTFOUND, sitekb.ErrorCode(err))
	})

	t.Run("returns invalid for malformed file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "manifest.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))

		_, err := fs.ReadManifest(path)

		assert.Equal(t, sitekb.EINVALID, sitekb.ErrorCode(err))
	})
}

func TestManifestSource_Load(t *testing.T) {
	t.Parallel()

	t.Run("yields one document per page tagged with its url", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		w := fs.NewManifestWriter(dir)
		_, err := w.Write(context.Background(), []*sitekb.PageRecord{
			{URL: "https://example.com/b", Text: "Bee"},
			{URL: "https://example.com/a", Text: "Ay"},
		})
		require.NoError(t, err)

		src := fs.NewManifestSource(w.ManifestPath())
		docs, err := src.Load(context.Background())

		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "https://example.com/a", docs[0].Metadata.Source)
		assert.Equal(t, "URL: https://example.com/a\n\nAy", docs[0].Content)
		assert.Equal(t, "manifest", src.Name())
	})

	t.Run("keeps readable pages when one file is missing", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		w := fs.NewManifestWriter(dir)
		m, err := w.Write(context.Background(), []*sitekb.PageRecord{
			{URL: "https://example.com/a", Text: "Ay"},
			{URL: "https://example.com/b", Text: "Bee"},
		})
		require.NoError(t, err)
		require.NoError(t, os.Remove(m["https://example.com/b"].File))

		docs, err := fs.NewManifestSource(w.ManifestPath()).Load(context.Background())

		require.Error(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "https://example.com/a", docs[0].Metadata.Source)
	})
}
