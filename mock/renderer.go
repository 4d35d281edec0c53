package mock

import (
	"context"

	"github.com/fwojciec/sitekb"
)

var _ sitekb.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of sitekb.Renderer.
type Renderer struct {
	RenderFn func(ctx context.Context, url string) (*sitekb.RenderResult, error)
	CloseFn  func() error
}

func (r *Renderer) Render(ctx context.Context, url string) (*sitekb.RenderResult, error) {
	return r.RenderFn(ctx, url)
}

func (r *Renderer) Close() error {
	return r.CloseFn()
}
