package main

import (
	"fmt"
	"io"

	"github.com/fwojciec/sitekb"
)

// Run executes the ingest command.
func (c *IngestCmd) Run(deps *Dependencies) error {
	res, err := deps.Ingester.IngestAll(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitekb.ErrorMessage(err))
		return err
	}
	printIngestResult(deps.Stdout, res)
	return nil
}

func printIngestResult(w io.Writer, res *sitekb.IngestResult) {
	for _, sr := range res.Sources {
		if sr.Err != nil {
			fmt.Fprintf(w, "  %-10s %4d  (%v)\n", sr.Name, sr.Count, sr.Err)
			continue
		}
		fmt.Fprintf(w, "  %-10s %4d\n", sr.Name, sr.Count)
	}

	switch {
	case res.Added == 0:
		fmt.Fprintf(w, "No new content (%d documents checked)\n", res.Aggregated)
	case res.Created:
		fmt.Fprintf(w, "Created store with %d documents\n", res.Added)
	default:
		fmt.Fprintf(w, "Added %d new documents (%d checked)\n", res.Added, res.Aggregated)
	}
}
