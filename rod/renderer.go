package rod

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fwojciec/sitekb"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

const (
	// DefaultRenderTimeout bounds one page render, navigation through text
	// extraction.
	DefaultRenderTimeout = 20 * time.Second

	// DefaultIdleWindow is how long the network must stay quiet before the
	// page counts as loaded.
	DefaultIdleWindow = 500 * time.Millisecond

	// DefaultSettle is the pause after scrolling that lets lazy content load.
	DefaultSettle = 400 * time.Millisecond
)

// scrollToBottom triggers lazy-loaded content.
const scrollToBottom = `() => window.scrollTo(0, document.body ? document.body.scrollHeight : 0)`

// Ensure Renderer implements sitekb.Renderer at compile time.
var _ sitekb.Renderer = (*Renderer)(nil)

// Renderer loads pages in headless Chrome and records the PDF and API
// requests each page makes while loading. Every render runs in its own
// incognito browser context which is disposed before Render returns.
//
// Renderer is safe for concurrent use.
type Renderer struct {
	manager    *BrowserManager
	timeout    time.Duration
	idle       time.Duration
	settle     time.Duration
	classifier sitekb.RequestClassifier
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTimeout sets the per-render timeout.
// Defaults to DefaultRenderTimeout (20s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(r *Renderer) {
		r.timeout = d
	}
}

// WithSettle sets the post-scroll pause.
func WithSettle(d time.Duration) Option {
	return func(r *Renderer) {
		r.settle = d
	}
}

// WithIdleWindow sets the network-idle window.
func WithIdleWindow(d time.Duration) Option {
	return func(r *Renderer) {
		r.idle = d
	}
}

// WithClassifier replaces sitekb.ClassifyRequest.
func WithClassifier(c sitekb.RequestClassifier) Option {
	return func(r *Renderer) {
		r.classifier = c
	}
}

// NewRenderer creates a Renderer on top of manager. The Renderer owns the
// manager: closing the Renderer closes the browser.
func NewRenderer(manager *BrowserManager, opts ...Option) *Renderer {
	r := &Renderer{
		manager:    manager,
		timeout:    DefaultRenderTimeout,
		idle:       DefaultIdleWindow,
		settle:     DefaultSettle,
		classifier: sitekb.ClassifyRequest,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render navigates to url, waits for the network to go idle, scrolls to
// the bottom once and returns the DOM and visible text. On failure the
// result still carries the requests captured so far.
func (r *Renderer) Render(ctx context.Context, url string) (*sitekb.RenderResult, error) {
	reqs := newRequestLog(r.classifier)

	if err := ctx.Err(); err != nil {
		return reqs.result(), err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	incognito, err := r.manager.Browser().Incognito()
	if err != nil {
		return reqs.result(), fmt.Errorf("creating browser context: %w", err)
	}
	defer func() { _ = incognito.Close() }()

	page, err := incognito.Page(proto.TargetCreateTarget{})
	if err != nil {
		return reqs.result(), fmt.Errorf("opening page: %w", err)
	}
	defer func() { _ = page.Close() }()
	r.manager.IncrementPageCount()

	p := page.Context(ctx)

	listen := p.EachEvent(func(e *proto.NetworkRequestWillBeSent) {
		reqs.add(e.Request.URL, string(e.Type))
	})
	go listen()

	html, text, err := r.load(ctx, p, url)
	if err != nil {
		return reqs.result(), err
	}

	res := reqs.result()
	res.HTML = html
	res.Text = text
	return res, nil
}

func (r *Renderer) load(ctx context.Context, p *rod.Page, url string) (html, text string, err error) {
	waitIdle := p.WaitRequestIdle(r.idle, nil, nil, nil)

	if err := p.Navigate(url); err != nil {
		return "", "", fmt.Errorf("navigating to %s: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return "", "", fmt.Errorf("waiting for load: %w", err)
	}
	waitIdle()

	if _, err := p.Eval(scrollToBottom); err != nil {
		return "", "", fmt.Errorf("scrolling: %w", err)
	}

	select {
	case <-ctx.Done():
		return "", "", ctx.Err()
	case <-time.After(r.settle):
	}

	html, err = p.HTML()
	if err != nil {
		return "", "", fmt.Errorf("reading html: %w", err)
	}

	body, err := p.Element("body")
	if err != nil {
		return "", "", fmt.Errorf("locating body: %w", err)
	}
	text, err = body.Text()
	if err != nil {
		return "", "", fmt.Errorf("reading text: %w", err)
	}

	return html, text, nil
}

// Close releases browser resources.
func (r *Renderer) Close() error {
	return r.manager.Close()
}

// requestLog accumulates classified request URLs in first-seen order.
type requestLog struct {
	mu        sync.Mutex
	classify  sitekb.RequestClassifier
	pdfs      []string
	endpoints []string
}

func newRequestLog(classify sitekb.RequestClassifier) *requestLog {
	if classify == nil {
		classify = sitekb.ClassifyRequest
	}
	return &requestLog{classify: classify}
}

func (l *requestLog) add(url, resourceType string) {
	isPDF, isEndpoint := l.classify(url, resourceType)
	if !isPDF && !isEndpoint {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if isPDF {
		l.pdfs = sitekb.AppendUnique(l.pdfs, url)
	}
	if isEndpoint {
		l.endpoints = sitekb.AppendUnique(l.endpoints, url)
	}
}

// result returns a RenderResult holding copies of the captured URLs.
func (l *requestLog) result() *sitekb.RenderResult {
	l.mu.Lock()
	defer l.mu.Unlock()
	return &sitekb.RenderResult{
		PDFURLs:      append([]string(nil), l.pdfs...),
		EndpointURLs: append([]string(nil), l.endpoints...),
	}
}
