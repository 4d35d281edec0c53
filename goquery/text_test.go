package goquery_test

import (
	"testing"

	"github.com/fwojciec/sitekb/goquery"
	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	t.Parallel()

	t.Run("drops scripts and styles", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><style>p{color:red}</style></head><body>
<h1>Opening hours</h1>
<script>track()</script>
<p>Mon   to Fri,
9 to 5</p>
</body></html>`

		assert.Equal(t, "Opening hours\nMon to Fri,\n9 to 5", goquery.Text(html))
	})

	t.Run("returns empty for empty input", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, goquery.Text(""))
	})
}
