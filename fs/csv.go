package fs

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/sitekb"
	"golang.org/x/text/encoding/charmap"
)

// Ensure CSVSource implements sitekb.Source at compile time.
var _ sitekb.Source = (*CSVSource)(nil)

// CSVSource yields one Document per row of a CSV dataset with a header row.
// Rows whose configured cell is blank or missing are skipped.
type CSVSource struct {
	path   string
	column string
}

// NewCSVSource creates a CSVSource reading column from the file at path.
func NewCSVSource(path, column string) *CSVSource {
	return &CSVSource{path: path, column: column}
}

// Name returns "csv".
func (s *CSVSource) Name() string { return "csv" }

// Load parses the file and returns the non-blank values of the configured
// column. Files that are not valid UTF-8 are decoded as ISO-8859-1.
// A malformed file yields no Documents.
func (s *CSVSource) Load(ctx context.Context) ([]*sitekb.Document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, sitekb.Errorf(sitekb.ENOTFOUND, "csv %s not found", s.path)
	} else if err != nil {
		return nil, err
	}

	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		if data, err = charmap.ISO8859_1.NewDecoder().Bytes(data); err != nil {
			return nil, fmt.Errorf("decoding csv %s: %w", s.path, err)
		}
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, sitekb.Errorf(sitekb.EINVALID, "parsing csv %s: %v", s.path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	col := -1
	for i, name := range records[0] {
		if strings.TrimSpace(name) == s.column {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, sitekb.Errorf(sitekb.EINVALID, "csv %s has no column %q", s.path, s.column)
	}

	var docs []*sitekb.Document
	for _, row := range records[1:] {
		if col >= len(row) {
			continue
		}
		text := strings.TrimSpace(row[col])
		if text == "" {
			continue
		}
		docs = append(docs, &sitekb.Document{
			Content:  text,
			Metadata: sitekb.Metadata{Source: s.path},
		})
	}
	return docs, nil
}
