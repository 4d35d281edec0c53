package mock

import (
	"context"

	"github.com/fwojciec/sitekb"
)

var _ sitekb.Source = (*Source)(nil)

// Source is a mock implementation of sitekb.Source.
type Source struct {
	NameFn func() string
	LoadFn func(ctx context.Context) ([]*sitekb.Document, error)
}

func (s *Source) Name() string {
	return s.NameFn()
}

func (s *Source) Load(ctx context.Context) ([]*sitekb.Document, error) {
	return s.LoadFn(ctx)
}
