package sitekb_test

import (
	"testing"
	"time"

	"github.com/fwojciec/sitekb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := sitekb.DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 12*time.Hour, cfg.Schedule.Interval)
	assert.Equal(t, "prompt", cfg.CSV.Column)
	assert.Equal(t, "content", cfg.API.Field)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	t.Run("rejects zero max pages", func(t *testing.T) {
		t.Parallel()

		cfg := sitekb.DefaultConfig()
		cfg.Crawl.MaxPages = 0

		err := cfg.Validate()

		assert.Equal(t, sitekb.EINVALID, sitekb.ErrorCode(err))
	})

	t.Run("rejects negative delay", func(t *testing.T) {
		t.Parallel()

		cfg := sitekb.DefaultConfig()
		cfg.Crawl.Delay = -time.Second

		assert.Equal(t, sitekb.EINVALID, sitekb.ErrorCode(cfg.Validate()))
	})

	t.Run("rejects empty store path", func(t *testing.T) {
		t.Parallel()

		cfg := sitekb.DefaultConfig()
		cfg.Store.Path = ""

		assert.Equal(t, sitekb.EINVALID, sitekb.ErrorCode(cfg.Validate()))
	})

	t.Run("rejects sub-second interval", func(t *testing.T) {
		t.Parallel()

		cfg := sitekb.DefaultConfig()
		cfg.Schedule.Interval = 10 * time.Millisecond

		assert.Equal(t, sitekb.EINVALID, sitekb.ErrorCode(cfg.Validate()))
	})
}
