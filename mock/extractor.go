package mock

import "github.com/fwojciec/sitekb"

var (
	_ sitekb.LinkExtractor = (*LinkExtractor)(nil)
	_ sitekb.Extractor     = (*Extractor)(nil)
	_ sitekb.Converter     = (*Converter)(nil)
)

// LinkExtractor is a mock implementation of sitekb.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html, baseURL string) (*sitekb.Links, error)
}

func (e *LinkExtractor) ExtractLinks(html, baseURL string) (*sitekb.Links, error) {
	return e.ExtractLinksFn(html, baseURL)
}

// Extractor is a mock implementation of sitekb.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*sitekb.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*sitekb.ExtractResult, error) {
	return e.ExtractFn(html)
}

// Converter is a mock implementation of sitekb.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
