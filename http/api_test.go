package http_test

import (
	"context"
	"testing"

	"github.com/fwojciec/sitekb"
	sitekbhttp "github.com/fwojciec/sitekb/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAPIResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "list of objects with field",
			body: `[{"content":"first","id":1},{"content":"second"}]`,
			want: []string{"first", "second"},
		},
		{
			name: "non-string field values keep their json text",
			body: `[{"content":42},{"content":{"a":1}}]`,
			want: []string{"42", `{"a":1}`},
		},
		{
			name: "list where an item lacks the field is stringified",
			body: `[{"content":"first"},{"title":"no content"}]`,
			want: []string{`[{"content":"first"},{"title":"no content"}]`},
		},
		{
			name: "object is stringified",
			body: "{\n  \"status\": \"ok\"\n}",
			want: []string{`{"status":"ok"}`},
		},
		{
			name: "empty list is stringified",
			body: `[]`,
			want: []string{`[]`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := sitekbhttp.ParseAPIResponse([]byte(tt.body), "content")

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("malformed json is invalid", func(t *testing.T) {
		t.Parallel()

		_, err := sitekbhttp.ParseAPIResponse([]byte(`{"oops"`), "content")

		assert.Equal(t, sitekb.EINVALID, sitekb.ErrorCode(err))
	})
}

func TestAPISource_Load(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, map[string]string{
		"/api/faq.json":    `[{"content":"Opening hours are 9-5"},{"content":"We ship worldwide"}]`,
		"/api/status.json": `{"status":"ok"}`,
		"/api/broken.json": `{"status":`,
	})

	t.Run("returns documents in configured url order", func(t *testing.T) {
		t.Parallel()

		src := sitekbhttp.NewAPISource(srv.Client(), []string{
			srv.URL + "/api/status.json",
			srv.URL + "/api/faq.json",
		}, "")

		docs, err := src.Load(context.Background())

		require.NoError(t, err)
		require.Len(t, docs, 3)
		assert.Equal(t, `{"status":"ok"}`, docs[0].Content)
		assert.Equal(t, "Opening hours are 9-5", docs[1].Content)
		assert.Equal(t, srv.URL+"/api/faq.json", docs[2].Metadata.Source)
		assert.Equal(t, "api", src.Name())
	})

	t.Run("failing urls contribute nothing", func(t *testing.T) {
		t.Parallel()

		src := sitekbhttp.NewAPISource(srv.Client(), []string{
			srv.URL + "/api/missing.json",
			srv.URL + "/api/broken.json",
			srv.URL + "/api/faq.json",
		}, "content")

		docs, err := src.Load(context.Background())

		require.Error(t, err)
		assert.Len(t, docs, 2)
	})

	t.Run("no urls yields nothing", func(t *testing.T) {
		t.Parallel()

		docs, err := sitekbhttp.NewAPISource(srv.Client(), nil, "content").Load(context.Background())

		require.NoError(t, err)
		assert.Empty(t, docs)
	})
}
