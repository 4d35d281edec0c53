package prometheus

import (
	"context"
	"time"

	"github.com/fwojciec/sitekb"
)

// Ensure Renderer implements sitekb.Renderer at compile time.
var _ sitekb.Renderer = (*Renderer)(nil)

// Renderer records render outcomes, latency and captured requests.
type Renderer struct {
	next    sitekb.Renderer
	metrics *Metrics
}

// NewRenderer wraps next with metrics.
func NewRenderer(next sitekb.Renderer, metrics *Metrics) *Renderer {
	return &Renderer{next: next, metrics: metrics}
}

func (r *Renderer) Render(ctx context.Context, url string) (*sitekb.RenderResult, error) {
	begin := time.Now()
	result, err := r.next.Render(ctx, url)
	r.metrics.RenderDuration.Observe(time.Since(begin).Seconds())

	status := "ok"
	if err != nil {
		status = "error"
	}
	r.metrics.PagesRendered.WithLabelValues(status).Inc()
	if result != nil {
		r.metrics.RequestsCaptured.WithLabelValues("pdf").Add(float64(len(result.PDFURLs)))
		r.metrics.RequestsCaptured.WithLabelValues("endpoint").Add(float64(len(result.EndpointURLs)))
	}
	return result, err
}

func (r *Renderer) Close() error {
	return r.next.Close()
}
