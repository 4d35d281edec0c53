package ingest

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/sitekb"
)

// ComputeHash returns the 64-bit xxHash of text as 16 hex digits.
func ComputeHash(text string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(text))
}

// Deduplicate returns copies of the docs whose content hash is neither in
// registry nor repeated earlier in docs, with Metadata.Hash set, together
// with the set of their hashes. The inputs are not modified.
func Deduplicate(docs []*sitekb.Document, registry sitekb.HashSet) ([]*sitekb.Document, sitekb.HashSet) {
	newHashes := sitekb.NewHashSet()
	var newDocs []*sitekb.Document

	for _, doc := range docs {
		h := ComputeHash(doc.Content)
		if registry.Has(h) || newHashes.Has(h) {
			continue
		}
		newHashes.Add(h)

		d := *doc
		d.Metadata.Hash = h
		newDocs = append(newDocs, &d)
	}

	return newDocs, newHashes
}
