package fs

import (
	"bufio"
	"context"
	"errors"
	"os"
	"strings"
	"sync"

	"github.com/fwojciec/sitekb"
)

// FeedbackSourceTag is the metadata source of feedback Documents.
const FeedbackSourceTag = "user_feedback"

// Ensure FeedbackLog implements sitekb.Source at compile time.
var _ sitekb.Source = (*FeedbackLog)(nil)

// FeedbackLog is an append-only text file holding one feedback entry per line.
type FeedbackLog struct {
	mu   sync.Mutex
	path string
}

// NewFeedbackLog creates a FeedbackLog backed by the file at path.
func NewFeedbackLog(path string) *FeedbackLog {
	return &FeedbackLog{path: path}
}

// Append adds one entry. Line breaks inside text are folded into spaces so
// the entry stays on a single line.
func (l *FeedbackLog) Append(ctx context.Context, text string) error {
	entry := strings.Join(strings.Fields(text), " ")
	if entry == "" {
		return sitekb.Errorf(sitekb.EINVALID, "feedback text required")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(entry + "\n"); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Name returns "feedback".
func (l *FeedbackLog) Name() string { return "feedback" }

// Load returns one Document per non-blank line.
// Returns ENOTFOUND if the log does not exist.
func (l *FeedbackLog) Load(ctx context.Context) ([]*sitekb.Document, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, sitekb.Errorf(sitekb.ENOTFOUND, "feedback log %s not found", l.path)
	} else if err != nil {
		return nil, err
	}
	defer f.Close()

	var docs []*sitekb.Document
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		docs = append(docs, &sitekb.Document{
			Content:  line,
			Metadata: sitekb.Metadata{Source: FeedbackSourceTag},
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}
