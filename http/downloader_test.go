package http_test

import (
	"context"
	"testing"

	"github.com/fwojciec/sitekb"
	sitekbhttp "github.com/fwojciec/sitekb/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloader_Download(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, map[string]string{
		"/files/report.pdf": "%PDF-1.4 fake",
		"/files/page.html":  "<html></html>",
	})
	d := sitekbhttp.NewDownloader(srv.Client(), 0, "")

	t.Run("returns pdf body", func(t *testing.T) {
		t.Parallel()

		body, err := d.Download(context.Background(), srv.URL+"/files/report.pdf")

		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.4 fake", string(body))
	})

	t.Run("rejects non-pdf content type", func(t *testing.T) {
		t.Parallel()

		_, err := d.Download(context.Background(), srv.URL+"/files/page.html")

		assert.Equal(t, sitekb.EINVALID, sitekb.ErrorCode(err))
	})

	t.Run("returns error on 404", func(t *testing.T) {
		t.Parallel()

		_, err := d.Download(context.Background(), srv.URL+"/files/missing.pdf")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP 404")
	})

	t.Run("rejects body larger than max size", func(t *testing.T) {
		t.Parallel()

		small := sitekbhttp.NewDownloader(srv.Client(), 0, "", sitekbhttp.WithMaxSize(8))

		body, err := small.Download(context.Background(), srv.URL+"/files/report.pdf")

		assert.Equal(t, sitekb.EINVALID, sitekb.ErrorCode(err))
		assert.Nil(t, body)
	})
}
