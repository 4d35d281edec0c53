package crawl_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/sitekb"
	"github.com/fwojciec/sitekb/crawl"
	"github.com/fwojciec/sitekb/fs"
	"github.com/fwojciec/sitekb/goquery"
	"github.com/fwojciec/sitekb/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiteSource_Load(t *testing.T) {
	t.Parallel()

	t.Run("crawls sites then yields manifest documents", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		site := &siteRenderer{pages: map[string]string{
			"https://example.com/":      links("/about", "/files/menu.pdf"),
			"https://example.com/about": links("/"),
		}}
		downloads := 0
		writer := fs.NewManifestWriter(filepath.Join(dir, "pages"))
		src := &crawl.SiteSource{
			Crawler: &crawl.Crawler{
				Compliance: allowAll(),
				Renderer:   site.renderer(),
				Links:      goquery.NewLinkExtractor(),
			},
			Writer: writer,
			PDFs: &crawl.PDFFetcher{
				Dir: filepath.Join(dir, "pdfs"),
				Downloader: &mock.Downloader{
					DownloadFn: func(_ context.Context, _ string) ([]byte, error) {
						downloads++
						return []byte("%PDF-1.4"), nil
					},
				},
				Concurrency: 1,
			},
			Manifest: fs.NewManifestSource(writer.ManifestPath()),
			Sites:    []string{"https://example.com/"},
		}

		docs, err := src.Load(context.Background())

		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "https://example.com/", docs[0].Metadata.Source)
		assert.Equal(t, "URL: https://example.com/about\n\ntext of https://example.com/about", docs[1].Content)
		assert.Equal(t, 1, downloads)
		_, err = os.Stat(filepath.Join(dir, "pdfs", "menu.pdf"))
		assert.NoError(t, err)
		assert.Equal(t, "manifest", src.Name())
	})

	t.Run("a failing site does not hide earlier manifest content", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writer := fs.NewManifestWriter(dir)
		_, err := writer.Write(context.Background(), []*sitekb.PageRecord{{URL: "https://old.example.com/", Text: "kept"}})
		require.NoError(t, err)

		src := &crawl.SiteSource{
			Crawler: &crawl.Crawler{
				Compliance: allowAll(),
				Renderer:   (&siteRenderer{}).renderer(),
				Links:      goquery.NewLinkExtractor(),
			},
			Writer:   writer,
			Manifest: fs.NewManifestSource(writer.ManifestPath()),
			Sites:    []string{"not a url"},
		}

		docs, err := src.Load(context.Background())

		require.Error(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "https://old.example.com/", docs[0].Metadata.Source)
	})

	t.Run("manifest write failure is reported per site", func(t *testing.T) {
		t.Parallel()

		site := &siteRenderer{pages: map[string]string{"https://example.com/": links()}}
		src := &crawl.SiteSource{
			Crawler: &crawl.Crawler{
				Compliance: allowAll(),
				Renderer:   site.renderer(),
				Links:      goquery.NewLinkExtractor(),
			},
			Writer: &mock.ManifestWriter{
				WriteFn: func(_ context.Context, _ []*sitekb.PageRecord) (sitekb.Manifest, error) {
					return nil, errors.New("disk full")
				},
			},
			Manifest: &mock.Source{
				NameFn: func() string { return "manifest" },
				LoadFn: func(_ context.Context) ([]*sitekb.Document, error) { return nil, nil },
			},
			Sites: []string{"https://example.com/"},
		}

		_, err := src.Load(context.Background())

		assert.ErrorContains(t, err, "disk full")
	})
}

func TestSiteSource_Discover(t *testing.T) {
	t.Parallel()

	site := &siteRenderer{pages: map[string]string{
		"https://example.com/": links("/contact"),
	}}
	r := site.renderer()
	r.RenderFn = func(ctx context.Context, url string) (*sitekb.RenderResult, error) {
		res, err := site.renderer().RenderFn(ctx, url)
		res.EndpointURLs = []string{"https://example.com/api/menu"}
		return res, err
	}
	writer := fs.NewManifestWriter(t.TempDir())
	src := &crawl.SiteSource{
		Crawler: &crawl.Crawler{
			Compliance: allowAll(),
			Renderer:   r,
			Links:      goquery.NewLinkExtractor(),
		},
		Writer: writer,
	}

	d, err := src.Discover(context.Background(), "https://example.com/")

	require.NoError(t, err)
	assert.Len(t, d.Crawl.Pages, 2)
	assert.Len(t, d.Manifest, 1, "the failed /contact page has no text")
	assert.Equal(t, []string{"https://example.com/api/menu"}, d.Endpoints)
	assert.Nil(t, d.PDFs)
}
