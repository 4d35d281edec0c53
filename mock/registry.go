package mock

import (
	"context"

	"github.com/fwojciec/sitekb"
)

var _ sitekb.HashRegistry = (*HashRegistry)(nil)

// HashRegistry is a mock implementation of sitekb.HashRegistry.
type HashRegistry struct {
	LoadFn  func(ctx context.Context) (sitekb.HashSet, error)
	SaveFn  func(ctx context.Context, hashes sitekb.HashSet) error
	ResetFn func(ctx context.Context) error
}

func (r *HashRegistry) Load(ctx context.Context) (sitekb.HashSet, error) {
	return r.LoadFn(ctx)
}

func (r *HashRegistry) Save(ctx context.Context, hashes sitekb.HashSet) error {
	return r.SaveFn(ctx, hashes)
}

func (r *HashRegistry) Reset(ctx context.Context) error {
	return r.ResetFn(ctx)
}
