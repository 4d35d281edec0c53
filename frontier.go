package sitekb

import "context"

// URLFrontier is the pending-URL queue of a crawl. It doubles as the
// dedup set: a URL is accepted at most once per crawl.
type URLFrontier interface {
	// Push enqueues url. Returns false if the URL has already been seen.
	Push(url string) bool

	// Pop returns the oldest queued URL.
	// Returns false if the frontier is empty.
	Pop() (string, bool)

	// Len returns the number of URLs in the queue.
	Len() int

	// Seen returns true if the URL has been queued before.
	Seen(url string) bool
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
