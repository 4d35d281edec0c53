// Package goquery implements HTML link and text extraction with goquery.
package goquery

import (
	"net"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sitekb"
	"golang.org/x/net/publicsuffix"
)

// Ensure LinkExtractor implements sitekb.LinkExtractor at compile time.
var _ sitekb.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor extracts same-site and PDF links from anchors.
type LinkExtractor struct{}

// NewLinkExtractor creates a new LinkExtractor.
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{}
}

// ExtractLinks returns the same-domain page links and the PDF links found
// in html. Links are resolved against baseURL with fragments stripped and
// are deduplicated in document order.
func (e *LinkExtractor) ExtractLinks(html, baseURL string) (*sitekb.Links, error) {
	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, sitekb.Errorf(sitekb.EINVALID, "invalid base URL: %q", baseURL)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, sitekb.Errorf(sitekb.EINVALID, "failed to parse HTML: %v", err)
	}

	links := &sitekb.Links{}
	seenPages := make(map[string]bool)
	seenPDFs := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || isSkippedLink(href) {
			return
		}

		resolved := resolveURL(base, href)
		if resolved == nil {
			return
		}
		link := resolved.String()

		if sitekb.IsPDFURL(link) && !seenPDFs[link] {
			seenPDFs[link] = true
			links.PDFs = append(links.PDFs, link)
		}

		if SameSite(base, resolved) && !seenPages[link] {
			seenPages[link] = true
			links.Pages = append(links.Pages, link)
		}
	})

	return links, nil
}

// resolveURL resolves href against base and strips the fragment.
// Returns nil for unparsable or non-HTTP targets.
func resolveURL(base *url.URL, href string) *url.URL {
	ref, err := url.Parse(href)
	if err != nil {
		return nil
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	resolved.RawFragment = ""
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return nil
	}
	return resolved
}

// isSkippedLink reports fragment-only and non-HTTP hrefs.
func isSkippedLink(href string) bool {
	href = strings.ToLower(href)
	return strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}

// SameSite reports whether a and b share a registrable domain
// (eTLD+1), so docs.example.com and example.com match. Hosts without a
// public suffix, such as IP addresses and localhost, must match exactly.
func SameSite(a, b *url.URL) bool {
	return RegistrableDomain(a.Hostname()) == RegistrableDomain(b.Hostname())
}

// RegistrableDomain returns the eTLD+1 of host, or the lower-cased host
// itself when it has none.
func RegistrableDomain(host string) string {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if net.ParseIP(host) != nil {
		return host
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return domain
}
