package fs

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	"github.com/fwojciec/sitekb"
)

// Ensure HashRegistry implements sitekb.HashRegistry at compile time.
var _ sitekb.HashRegistry = (*HashRegistry)(nil)

// HashRegistry persists ingested content hashes as a JSON list in one file.
type HashRegistry struct {
	path string
}

// NewHashRegistry creates a HashRegistry backed by the file at path.
func NewHashRegistry(path string) *HashRegistry {
	return &HashRegistry{path: path}
}

// Load returns the persisted hashes. A missing file is an empty set. A file
// that cannot be parsed returns EINVALID rather than an empty set, since an
// empty set would re-ingest the whole corpus.
func (r *HashRegistry) Load(ctx context.Context) (sitekb.HashSet, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return sitekb.HashSet{}, nil
	} else if err != nil {
		return nil, err
	}

	var hashes []string
	if err := json.Unmarshal(data, &hashes); err != nil {
		return nil, sitekb.Errorf(sitekb.EINVALID, "parsing hash registry %s: %v", r.path, err)
	}
	return sitekb.NewHashSet(hashes...), nil
}

// Save atomically replaces the file with the sorted hash list.
func (r *HashRegistry) Save(ctx context.Context, hashes sitekb.HashSet) error {
	data, err := json.Marshal(hashes.Sorted())
	if err != nil {
		return err
	}
	return writeFileAtomic(r.path, data)
}

// Reset removes the registry file.
func (r *HashRegistry) Reset(ctx context.Context) error {
	if err := os.Remove(r.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
