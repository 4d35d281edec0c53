package main_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	main "github.com/fwojciec/sitekb/cmd/sitekb"
	"github.com/fwojciec/sitekb/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) string { return "" }

// writeConfig writes a config file that keeps every path inside dir.
func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	cfg := fmt.Sprintf(`crawl:
  pages_dir: %[1]s/pages
pdf:
  dir: %[1]s/pdfs
csv:
  path: %[1]s/faq.csv
feedback:
  path: %[1]s/feedback.txt
store:
  path: %[1]s/kb.db
  hashes: %[1]s/hashes.json
log:
  level: error
`, dir)
	path := filepath.Join(dir, "sitekb.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return path
}

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	parser, err := kong.New(cli,
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)

	_, _ = parser.Parse([]string{"--help"})

	for _, cmd := range []string{"crawl", "ingest", "serve", "reset"} {
		assert.Contains(t, stdout.String(), cmd, "Help should mention %s command", cmd)
	}
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("help returns nil", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.Getenv = noEnv
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"--help"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Usage:")
		assert.Contains(t, stdout.String(), "ingest")
	})

	t.Run("no arguments is an error", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.Getenv = noEnv

		err := m.Run(context.Background(), nil, &bytes.Buffer{}, &bytes.Buffer{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
	})

	t.Run("ingest without API key fails with hint", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		m := main.NewMain()
		m.Getenv = noEnv
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"--config", writeConfig(t, dir), "ingest", "--no-crawl"}, &bytes.Buffer{}, stderr)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "GEMINI_API_KEY")
		assert.Contains(t, stderr.String(), "aistudio.google.com")
	})

	t.Run("ingest twice adds content once", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cfg := writeConfig(t, dir)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "faq.csv"), []byte("prompt,answer\nWhen do you open?,9am\nDo you deliver?,Yes\n"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "feedback.txt"), []byte("Opening hours changed to 8am\n"), 0o644))

		m := main.NewMain()
		m.Getenv = noEnv
		m.Embedder = &mock.Embedder{
			EmbedFn: func(ctx context.Context, text string) ([]float32, error) {
				return []float32{float32(len(text)), 1}, nil
			},
		}

		stdout := &bytes.Buffer{}
		err := m.Run(context.Background(), []string{"--config", cfg, "ingest", "--no-crawl"}, stdout, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Created store with 3 documents")
		assert.FileExists(t, filepath.Join(dir, "kb.db"))
		assert.FileExists(t, filepath.Join(dir, "hashes.json"))

		stdout.Reset()
		err = m.Run(context.Background(), []string{"--config", cfg, "ingest", "--no-crawl"}, stdout, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No new content (3 documents checked)")
	})

	t.Run("reset removes the hash registry", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cfg := writeConfig(t, dir)
		hashes := filepath.Join(dir, "hashes.json")
		require.NoError(t, os.WriteFile(hashes, []byte(`["ef46db3751d8e999"]`), 0o644))

		m := main.NewMain()
		m.Getenv = noEnv
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"--config", cfg, "reset", "--force"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Hash registry cleared")
		assert.NoFileExists(t, hashes)
	})

	t.Run("invalid config is rejected", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("crawl:\n  max_pages: -1\n"), 0o644))

		m := main.NewMain()
		m.Getenv = noEnv

		err := m.Run(context.Background(), []string{"--config", path, "reset", "--force"}, &bytes.Buffer{}, &bytes.Buffer{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "loading config")
	})
}
