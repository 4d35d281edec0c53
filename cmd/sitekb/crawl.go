package main

import (
	"fmt"

	"github.com/fwojciec/sitekb"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	d, err := deps.Discoverer.Discover(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitekb.ErrorMessage(err))
		if d == nil {
			return err
		}
	}

	if !d.Crawl.Allowed {
		fmt.Fprintf(deps.Stdout, "robots.txt disallows crawling %s\n", c.URL)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Crawled %d pages (%d failed), %d in manifest\n",
		len(d.Crawl.Pages), d.Crawl.Failed, len(d.Manifest))
	if d.PDFs != nil {
		fmt.Fprintf(deps.Stdout, "PDFs: %d downloaded, %d already present, %d failed\n",
			len(d.PDFs.Downloaded), d.PDFs.Skipped, d.PDFs.Failed)
	}
	fmt.Fprintf(deps.Stdout, "Endpoints: %d\n", len(d.Endpoints))
	for _, e := range d.Endpoints {
		fmt.Fprintf(deps.Stdout, "  %s\n", e)
	}
	return err
}
