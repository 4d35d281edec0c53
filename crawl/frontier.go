package crawl

import (
	"sync"

	"github.com/fwojciec/sitekb"
	"github.com/fwojciec/sitekb/bloom"
)

// Compile-time interface verification.
var _ sitekb.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory FIFO URL queue giving breadth-first crawl order.
// Deduplication is exact: a Bloom filter answers the common "never seen"
// case and a set of queued URLs confirms its positives. It is safe for
// concurrent use.
type Frontier struct {
	mu     sync.Mutex
	filter *bloom.Set
	queued map[string]struct{}
	queue  []string
}

// NewFrontier creates a new Frontier whose filter is sized for n expected
// URLs at the given false positive rate.
func NewFrontier(n uint, fpRate float64) *Frontier {
	return &Frontier{
		filter: bloom.NewSet(n, fpRate),
		queued: make(map[string]struct{}),
	}
}

// Push appends url to the queue. Returns false if the URL has already been
// seen. URLs differing only by fragment are considered duplicates.
func (f *Frontier) Push(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	url = sitekb.StripFragment(url)
	if !f.filter.Insert(url) && f.has(url) {
		return false
	}
	f.queued[url] = struct{}{}
	f.queue = append(f.queue, url)
	return true
}

// Pop removes and returns the oldest URL.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return "", false
	}
	url := f.queue[0]
	f.queue[0] = ""
	f.queue = f.queue[1:]
	return url, true
}

// Len returns the number of URLs in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Seen returns true if the URL has been queued before.
// URL fragments are stripped before checking.
func (f *Frontier) Seen(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	url = sitekb.StripFragment(url)
	return f.filter.Contains(url) && f.has(url)
}

func (f *Frontier) has(url string) bool {
	_, ok := f.queued[url]
	return ok
}
