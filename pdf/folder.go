// Package pdf reads text out of PDF documents stored on disk.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/sitekb"
	"github.com/ledongthuc/pdf"
)

// Ensure FolderSource implements sitekb.Source.
var _ sitekb.Source = (*FolderSource)(nil)

// FolderSource yields one Document per PDF file in a directory, with the
// text of all pages joined by newlines. Files that yield no text are
// skipped. Subdirectories are not walked.
type FolderSource struct {
	dir string
}

// NewFolderSource creates a FolderSource over dir.
func NewFolderSource(dir string) *FolderSource {
	return &FolderSource{dir: dir}
}

// Name implements sitekb.Source.
func (s *FolderSource) Name() string { return "pdf" }

// Load reads every *.pdf file in the directory in name order. Returns
// ENOTFOUND if the directory does not exist. Unreadable files are skipped
// and their errors joined.
func (s *FolderSource) Load(ctx context.Context) ([]*sitekb.Document, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, sitekb.Errorf(sitekb.ENOTFOUND, "pdf folder not found: %s", s.dir)
	} else if err != nil {
		return nil, err
	}

	var docs []*sitekb.Document
	var errs []error
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return docs, err
		}
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		text, err := ExtractText(data)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", e.Name(), err))
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		docs = append(docs, &sitekb.Document{
			Content:  text,
			Metadata: sitekb.Metadata{Source: e.Name()},
		})
	}
	return docs, errors.Join(errs...)
}

// ExtractText returns the plain text of every page in data joined by
// newlines. Pages that fail to decode are skipped. Returns EINVALID if
// data is not a readable PDF.
func ExtractText(data []byte) (text string, err error) {
	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = sitekb.Errorf(sitekb.EINVALID, "malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", sitekb.Errorf(sitekb.EINVALID, "open pdf: %v", err)
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		t, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages = append(pages, t)
	}
	return strings.Join(pages, "\n"), nil
}
