package model

// Session is the persisted crawl state for one host. It is written and
// read as a single JSON document; see the session package for the
// tolerant loading rules.
type Session struct {
	// Host is the crawl's home host.
	Host string `json:"host"`

	// Pages maps canonical URL to its record. Iteration order is not part
	// of the format; the frontier rebuilds its order on load.
	Pages map[string]*PageRecord `json:"pages"`

	// Sitemap lists sitemap URLs advertised by robots.txt.
	Sitemap []string `json:"sitemap"`

	// ExternalHosts lists hosts outside the home host seen in links,
	// deduplicated in first-seen order.
	ExternalHosts []string `json:"external_hosts"`

	// ExternalLinks lists canonical cross-host links, deduplicated in
	// first-seen order.
	ExternalLinks []string `json:"external_links"`
}

// NewSession returns an empty session for host.
func NewSession(host string) *Session {
	return &Session{
		Host:  host,
		Pages: make(map[string]*PageRecord),
	}
}

// AddExternalHost records a host outside the crawl's home host, keeping
// first-seen order and ignoring duplicates. It reports whether the host
// was new.
func (s *Session) AddExternalHost(host string) bool {
	for _, h := range s.ExternalHosts {
		if h == host {
			return false
		}
	}
	s.ExternalHosts = append(s.ExternalHosts, host)
	return true
}

// AddExternalLink records a canonical cross-host link, keeping first-seen
// order and ignoring duplicates. It reports whether the link was new.
func (s *Session) AddExternalLink(url string) bool {
	for _, u := range s.ExternalLinks {
		if u == url {
			return false
		}
	}
	s.ExternalLinks = append(s.ExternalLinks, url)
	return true
}
