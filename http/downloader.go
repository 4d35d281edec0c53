package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/sitekb"
)

// DefaultDownloadTimeout bounds a single PDF download.
const DefaultDownloadTimeout = 15 * time.Second

// Ensure Downloader implements sitekb.Downloader.
var _ sitekb.Downloader = (*Downloader)(nil)

// Downloader fetches PDF documents over HTTP.
type Downloader struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	maxSize   int64
}

// DownloaderOption configures a Downloader.
type DownloaderOption func(*Downloader)

// WithMaxSize sets the largest accepted document in bytes. Larger responses
// fail instead of being truncated. Defaults to 64 MiB.
func WithMaxSize(n int64) DownloaderOption {
	return func(d *Downloader) {
		if n > 0 {
			d.maxSize = n
		}
	}
}

// NewDownloader creates a Downloader. A nil client means http.DefaultClient;
// a zero timeout means DefaultDownloadTimeout.
func NewDownloader(client *http.Client, timeout time.Duration, userAgent string, opts ...DownloaderOption) *Downloader {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = DefaultDownloadTimeout
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	d := &Downloader{client: client, timeout: timeout, userAgent: userAgent, maxSize: maxBodySize}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Download returns the body of url when the server answers 200 with a PDF
// content type.
func (d *Downloader) Download(ctx context.Context, url string) ([]byte, error) {
	body, header, err := get(ctx, d.client, d.timeout, d.maxSize, d.userAgent, url)
	if err != nil {
		return nil, err
	}
	if ct := header.Get("Content-Type"); !strings.Contains(strings.ToLower(ct), "pdf") {
		return nil, sitekb.Errorf(sitekb.EINVALID, "not a pdf: %s (content-type %q)", url, ct)
	}
	return body, nil
}
