package urlnorm

import (
	"errors"
	"net/url"
	"strings"
)

// ErrMalformed is returned when a href cannot be resolved to a URL with
// both a scheme and a host. Malformed hrefs are recorded for diagnostics
// but never fetched.
var ErrMalformed = errors.New("malformed href: missing scheme or host")

// Normalize converts a raw href, as found in a document served by
// homeHost, into its canonical absolute form. It returns ErrMalformed
// (possibly wrapped) when the href cannot be salvaged into a URL with a
// scheme and host.
//
// Normalization is deterministic and idempotent: normalizing an already
// canonical URL yields the same string.
func Normalize(href, homeHost string) (string, error) {
	u, err := url.Parse(salvage(href, homeHost))
	if err != nil {
		return "", ErrMalformed
	}

	if u.Scheme == "" || u.Host == "" {
		return "", ErrMalformed
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		host = homeHost
	}

	path := u.Path
	if path == "" {
		path = "/"
	}

	// Query and fragment are always dropped: we want real pages, not
	// search results or anchors into them.
	return "https://" + host + path, nil
}

// salvage applies the fix-up heuristics for common non-absolute href
// shapes, in order. Anything that matches no rule is parsed as-is.
func salvage(href, homeHost string) string {
	switch {
	case strings.HasPrefix(href, "//"):
		// //host/path -> https://host/path
		return "https:" + href
	case strings.HasPrefix(href, "/"):
		// /path -> https://home/path
		return "https://" + homeHost + href
	case strings.HasPrefix(href, "http:"):
		// http://host -> https://host
		return "https:" + strings.TrimPrefix(href, "http:")
	case strings.HasPrefix(href, "#"):
		// #fragment -> https://home/#fragment
		return "https://" + homeHost + "/" + href
	case strings.HasPrefix(href, ".."):
		// ../path -> https://home/path; exactly two characters are
		// stripped, deeper traversal is left as a literal path.
		return "https://" + homeHost + href[2:]
	}
	return href
}
