package mock

import (
	"context"

	"github.com/fwojciec/sitekb"
)

var (
	_ sitekb.ManifestWriter = (*ManifestWriter)(nil)
	_ sitekb.Downloader     = (*Downloader)(nil)
	_ sitekb.Ingester       = (*Ingester)(nil)
)

// ManifestWriter is a mock implementation of sitekb.ManifestWriter.
type ManifestWriter struct {
	WriteFn func(ctx context.Context, pages []*sitekb.PageRecord) (sitekb.Manifest, error)
}

func (w *ManifestWriter) Write(ctx context.Context, pages []*sitekb.PageRecord) (sitekb.Manifest, error) {
	return w.WriteFn(ctx, pages)
}

// Downloader is a mock implementation of sitekb.Downloader.
type Downloader struct {
	DownloadFn func(ctx context.Context, url string) ([]byte, error)
}

func (d *Downloader) Download(ctx context.Context, url string) ([]byte, error) {
	return d.DownloadFn(ctx, url)
}

// Ingester is a mock implementation of sitekb.Ingester.
type Ingester struct {
	IngestAllFn func(ctx context.Context) (*sitekb.IngestResult, error)
}

func (i *Ingester) IngestAll(ctx context.Context) (*sitekb.IngestResult, error) {
	return i.IngestAllFn(ctx)
}
