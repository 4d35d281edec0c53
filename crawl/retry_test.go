package crawl_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fwojciec/sitekb"
	"github.com/fwojciec/sitekb/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetry(t *testing.T) {
	t.Parallel()

	t.Run("returns first success", func(t *testing.T) {
		t.Parallel()

		calls := 0
		v, err := crawl.Retry(context.Background(), "x", []time.Duration{0, 0}, nil, func(context.Context) (int, error) {
			calls++
			if calls < 2 {
				return 0, errors.New("transient")
			}
			return 42, nil
		})

		require.NoError(t, err)
		assert.Equal(t, 42, v)
		assert.Equal(t, 2, calls)
	})

	t.Run("gives up after all delays", func(t *testing.T) {
		t.Parallel()

		calls := 0
		var logged []string
		logger := func(format string, args ...any) { logged = append(logged, fmt.Sprintf(format, args...)) }

		_, err := crawl.Retry(context.Background(), "x", []time.Duration{0, 0}, logger, func(context.Context) (string, error) {
			calls++
			return "", errors.New("down")
		})

		require.EqualError(t, err, "down")
		assert.Equal(t, 3, calls)
		assert.Len(t, logged, 2)
	})

	t.Run("does not retry invalid errors", func(t *testing.T) {
		t.Parallel()

		calls := 0
		_, err := crawl.Retry(context.Background(), "x", []time.Duration{0, 0}, nil, func(context.Context) ([]byte, error) {
			calls++
			return nil, sitekb.Errorf(sitekb.EINVALID, "not a pdf")
		})

		assert.Equal(t, sitekb.EINVALID, sitekb.ErrorCode(err))
		assert.Equal(t, 1, calls)
	})

	t.Run("stops on context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := crawl.Retry(ctx, "x", []time.Duration{time.Hour}, nil, func(context.Context) (int, error) {
			return 0, errors.New("down")
		})

		assert.ErrorIs(t, err, context.Canceled)
	})
}
