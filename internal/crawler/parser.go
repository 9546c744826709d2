package crawler

import (
	"io"

	"golang.org/x/net/html"
)

// ParseResult holds the raw attribute values extracted from a document,
// in document order. Values are reported exactly as written; resolving
// and canonicalizing them is the urlnorm package's job.
type ParseResult struct {
	// Hrefs contains every anchor href attribute value, including empty
	// ones. An <a> without an href attribute is not reported.
	Hrefs []string

	// Images contains every img src attribute value.
	Images []string
}

// ParseHTML extracts anchor hrefs and image sources from an HTML
// document. Malformed markup is tolerated; golang.org/x/net/html always
// produces a tree, so an error here means the reader itself failed.
func ParseHTML(r io.Reader) (*ParseResult, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	result := &ParseResult{
		Hrefs:  make([]string, 0),
		Images: make([]string, 0),
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "a":
				if href, ok := attrValue(n, "href"); ok {
					result.Hrefs = append(result.Hrefs, href)
				}
			case "img":
				if src, ok := attrValue(n, "src"); ok {
					result.Images = append(result.Images, src)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return result, nil
}

// attrValue retrieves an attribute from an HTML node, distinguishing a
// present-but-empty attribute from an absent one.
func attrValue(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}
