// Package ingest turns the configured sources into new knowledge store
// entries. An ingestion cycle aggregates Documents from every source,
// drops content whose hash is already registered, appends the remainder to
// the store and only then records the new hashes.
package ingest
