// Package sitekb keeps a knowledge store in sync with a company's public
// footprint. It crawls a site with a headless browser, records pages, PDFs
// and API endpoints in a manifest, and periodically ingests the manifest
// together with CSV, PDF, API and feedback sources into a deduplicated,
// embedded document store.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, sqlite/).
package sitekb
