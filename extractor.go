package sitekb

// Links is the result of scanning a page's anchors.
type Links struct {
	// Pages are same-domain links, fragment-stripped, in document order.
	Pages []string

	// PDFs are links whose path ends in .pdf, regardless of domain.
	PDFs []string
}

// LinkExtractor finds crawlable links in HTML.
type LinkExtractor interface {
	// ExtractLinks resolves anchors in html against baseURL and keeps the
	// ones sharing baseURL's registrable domain.
	ExtractLinks(html, baseURL string) (*Links, error)
}

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	ContentHTML string
}

// Extractor extracts main content from HTML pages, removing boilerplate.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}
