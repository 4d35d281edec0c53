package ingest_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/fwojciec/sitekb"
	"github.com/fwojciec/sitekb/fs"
	"github.com/fwojciec/sitekb/ingest"
	"github.com/fwojciec/sitekb/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticSource(name string, contents ...string) *mock.Source {
	return &mock.Source{
		NameFn: func() string { return name },
		LoadFn: func(_ context.Context) ([]*sitekb.Document, error) {
			docs := make([]*sitekb.Document, 0, len(contents))
			for _, c := range contents {
				docs = append(docs, &sitekb.Document{Content: c, Metadata: sitekb.Metadata{Source: name}})
			}
			return docs, nil
		},
	}
}

func contents(docs []*sitekb.Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Content)
	}
	return out
}

func TestAggregator_Aggregate(t *testing.T) {
	t.Parallel()

	t.Run("concatenates sources in order", func(t *testing.T) {
		t.Parallel()

		agg := ingest.NewAggregator(nil,
			staticSource("manifest", "page"),
			staticSource("csv", "row1", "row2"),
			staticSource("feedback", "note"),
		)

		docs, results := agg.Aggregate(context.Background())

		assert.Equal(t, []string{"page", "row1", "row2", "note"}, contents(docs))
		require.Len(t, results, 3)
		assert.Equal(t, sitekb.SourceResult{Name: "csv", Count: 2}, results[1])
	})

	t.Run("a missing csv does not affect the other sources", func(t *testing.T) {
		t.Parallel()

		missing := fs.NewCSVSource(filepath.Join(t.TempDir(), "faq.csv"), "prompt")
		agg := ingest.NewAggregator(nil,
			staticSource("manifest", "page"),
			missing,
			staticSource("pdf", "brochure"),
			staticSource("api", "item"),
			staticSource("feedback", "note"),
		)

		docs, results := agg.Aggregate(context.Background())

		assert.Equal(t, []string{"page", "brochure", "item", "note"}, contents(docs))
		assert.Equal(t, sitekb.ENOTFOUND, sitekb.ErrorCode(results[1].Err))
		assert.Zero(t, results[1].Count)
	})

	t.Run("keeps documents returned alongside an error", func(t *testing.T) {
		t.Parallel()

		partial := &mock.Source{
			NameFn: func() string { return "api" },
			LoadFn: func(_ context.Context) ([]*sitekb.Document, error) {
				return []*sitekb.Document{{Content: "ok"}}, errors.New("one url failed")
			},
		}

		docs, results := ingest.NewAggregator(nil, partial).Aggregate(context.Background())

		assert.Equal(t, []string{"ok"}, contents(docs))
		assert.Equal(t, 1, results[0].Count)
		assert.Error(t, results[0].Err)
	})

	t.Run("a panicking source contributes nothing", func(t *testing.T) {
		t.Parallel()

		bad := &mock.Source{
			NameFn: func() string { return "bad" },
			LoadFn: func(_ context.Context) ([]*sitekb.Document, error) {
				panic("boom")
			},
		}

		docs, results := ingest.NewAggregator(nil, bad, staticSource("csv", "row")).Aggregate(context.Background())

		assert.Equal(t, []string{"row"}, contents(docs))
		assert.ErrorContains(t, results[0].Err, "boom")
	})
}
