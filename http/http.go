// Package http implements the network-facing sitekb services that do not
// need a browser: robots.txt and sitemap compliance, PDF downloads and
// JSON API sources.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/sitekb"
)

// DefaultUserAgent identifies sitekb to remote servers.
const DefaultUserAgent = "sitekb/1.0"

// maxBodySize caps how much of a response body is read into memory.
const maxBodySize = 64 << 20

// get issues a GET request and returns the response body and status.
// Non-2xx responses are returned as errors after the body is drained.
// A body longer than limit bytes is an EINVALID error, never a truncated
// result.
func get(ctx context.Context, client *http.Client, timeout time.Duration, limit int64, userAgent, targetURL string) ([]byte, http.Header, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("creating request: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, resp.Header, &statusError{code: resp.StatusCode, url: targetURL}
	}

	if resp.ContentLength > limit {
		return nil, resp.Header, tooLarge(targetURL, limit)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, resp.Header, fmt.Errorf("reading %s: %w", targetURL, err)
	}
	if int64(len(body)) > limit {
		return nil, resp.Header, tooLarge(targetURL, limit)
	}
	return body, resp.Header, nil
}

func tooLarge(targetURL string, limit int64) error {
	return sitekb.Errorf(sitekb.EINVALID, "response from %s exceeds %d bytes", targetURL, limit)
}

type statusError struct {
	code int
	url  string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.code, e.url)
}
