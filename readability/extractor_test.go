package readability_test

import (
	"testing"

	"github.com/fwojciec/sitekb"
	"github.com/fwojciec/sitekb/readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := readability.NewExtractor().Extract("")

		require.Error(t, err)
		assert.Equal(t, sitekb.EINVALID, sitekb.ErrorCode(err))
	})

	t.Run("extracts title", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Opening Hours</title></head>
<body><article><p>We are open Monday to Friday.</p></article></body>
</html>`

		result, err := readability.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Equal(t, "Opening Hours", result.Title)
	})

	t.Run("keeps article text and removes navigation", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>About</title></head>
<body>
<nav class="menu"><ul><li><a href="/">Home</a></li><li><a href="/shop">Shop</a></li></ul></nav>
<article>
<h1>About the bakery</h1>
<p>Founded in 1987, the bakery bakes sourdough and rye loaves every morning using flour from local mills.</p>
<p>Our cafe serves breakfast and lunch and hosts weekend baking classes for adults and children.</p>
</article>
</body>
</html>`

		result, err := readability.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "sourdough and rye")
		assert.NotContains(t, result.ContentHTML, `class="menu"`)
	})
}
