package gemini_test

import (
	"context"
	"testing"

	"github.com/fwojciec/sitekb"
	"github.com/fwojciec/sitekb/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedder_Embed_ReturnsErrorWhenTextEmpty(t *testing.T) {
	t.Parallel()

	embedder := gemini.NewEmbedder(nil) // nil client ok for this test

	_, err := embedder.Embed(context.Background(), "  \n")

	require.Error(t, err)
	assert.Equal(t, sitekb.EINVALID, sitekb.ErrorCode(err))
	assert.Contains(t, sitekb.ErrorMessage(err), "text required")
}

func TestEmbedder_Embed_ReturnsErrorWithoutClient(t *testing.T) {
	t.Parallel()

	embedder := gemini.NewEmbedder(nil, gemini.WithModel("text-embedding-004"))

	_, err := embedder.Embed(context.Background(), "hello")

	assert.Equal(t, sitekb.EINVALID, sitekb.ErrorCode(err))
}

func TestBuildEmbedConfig(t *testing.T) {
	t.Parallel()

	t.Run("uses retrieval document task", func(t *testing.T) {
		t.Parallel()

		config := gemini.BuildEmbedConfig(0)

		assert.Equal(t, "RETRIEVAL_DOCUMENT", config.TaskType)
		assert.Nil(t, config.OutputDimensionality)
	})

	t.Run("sets output dimensionality", func(t *testing.T) {
		t.Parallel()

		config := gemini.BuildEmbedConfig(768)

		require.NotNil(t, config.OutputDimensionality)
		assert.Equal(t, int32(768), *config.OutputDimensionality)
	})
}
