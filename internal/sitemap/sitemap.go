// Package sitemap extracts page locations from XML sitemaps.
//
// Both urlset documents and sitemapindex documents are handled: every
// <loc> element's text is returned in document order, whatever its
// parent. The crawler normalizes and discovers each location; index
// entries that point at further sitemaps simply become discovered URLs.
package sitemap

import (
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
)

// ParseLocs returns the text of every <loc> element in the document, in
// order, with surrounding whitespace trimmed and empty entries dropped.
func ParseLocs(r io.Reader) ([]string, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, err
	}

	locs := make([]string, 0)
	for _, n := range xmlquery.Find(doc, "//loc") {
		text := strings.TrimSpace(n.InnerText())
		if text != "" {
			locs = append(locs, text)
		}
	}

	return locs, nil
}
