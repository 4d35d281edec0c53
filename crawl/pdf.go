package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/sitekb"
	"golang.org/x/sync/errgroup"
)

// PDFFetcher downloads the PDFs referenced by a manifest into Dir.
// Files already present are skipped, so repeated runs only fetch what is
// missing.
type PDFFetcher struct {
	Downloader  sitekb.Downloader
	Dir         string
	Concurrency int
	RetryDelays []time.Duration
	Logger      *slog.Logger
}

// PDFResult summarizes one FetchAll call.
type PDFResult struct {
	Downloaded []string
	Skipped    int
	Failed     int
}

// FetchAll downloads every PDF URL in manifest whose target file does not
// exist yet. Per-file failures are logged and counted; only a failure to
// create Dir or context cancellation is returned as an error.
func (f *PDFFetcher) FetchAll(ctx context.Context, manifest sitekb.Manifest) (*PDFResult, error) {
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating pdf dir: %w", err)
	}
	logger := f.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	result := &PDFResult{}
	targets := make(map[string]bool)
	var todo [][2]string
	for _, u := range manifest.PDFURLs() {
		name := PDFFileName(u)
		if targets[name] {
			continue
		}
		targets[name] = true

		dest := filepath.Join(f.Dir, name)
		if _, err := os.Stat(dest); err == nil {
			result.Skipped++
			continue
		}
		todo = append(todo, [2]string{u, dest})
	}

	concurrency := f.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, item := range todo {
		pdfURL, dest := item[0], item[1]
		g.Go(func() error {
			err := f.fetch(gctx, pdfURL, dest, logger)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed++
				logger.Warn("pdf download failed", "url", pdfURL, "err", err)
				return nil
			}
			result.Downloaded = append(result.Downloaded, dest)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

func (f *PDFFetcher) fetch(ctx context.Context, pdfURL, dest string, logger *slog.Logger) error {
	logf := func(format string, args ...any) {
		logger.Debug(fmt.Sprintf(format, args...))
	}
	body, err := Retry(ctx, pdfURL, f.RetryDelays, logf, func(ctx context.Context) ([]byte, error) {
		return f.Downloader.Download(ctx, pdfURL)
	})
	if err != nil {
		return err
	}
	return writeFileAtomic(dest, body)
}

// PDFFileName returns the local file name for a PDF URL: the last path
// segment, or a hash of the URL when the path has none.
func PDFFileName(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		if name := path.Base(u.Path); name != "" && name != "/" && name != "." {
			return name
		}
	}
	return fmt.Sprintf("%016x.pdf", xxhash.Sum64String(rawURL))
}

// writeFileAtomic writes data to a temp file next to dest and renames it
// into place, so dest never holds a partial download.
func writeFileAtomic(dest string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dest)
}
