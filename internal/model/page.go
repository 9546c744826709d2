package model

import "strings"

// PageRecord holds everything known about a single canonical URL. It is
// simultaneously the "have we seen this" entry, the cache entry with
// wall-clock expiry, and the unit of work for the crawl loop.
type PageRecord struct {
	// URL is the canonical absolute URL (scheme+host+path, no query or
	// fragment). It is the frontier map key and unique per record.
	URL string `json:"url"`

	// LastVisit is the expiry instant as unix seconds: fetch time plus the
	// cache limit, stamped after a completed GET. Before the first fetch it
	// holds the cache limit itself, a 1970-era instant that is always in
	// the past for any sane limit, so unvisited records are always eligible.
	LastVisit int64 `json:"last_visit"`

	// StatusCode is the HTTP status of the last completed GET, or zero if
	// no GET has completed. Transport failures leave it at zero.
	StatusCode int `json:"status_code,omitempty"`

	// HeadStatus is the status of the HEAD probe issued at discovery time.
	HeadStatus int `json:"head_status,omitempty"`

	// MimeType is the Content-Type reported by the HEAD probe.
	MimeType string `json:"mime_type,omitempty"`

	// Links maps each href as it appeared in the document (fragment
	// removed) to its canonical form. Several raw hrefs may map to the
	// same canonical URL.
	Links map[string]string `json:"links,omitempty"`

	// Malformed lists hrefs that failed canonicalization, in document
	// order. Diagnostic only; these are never retried or enqueued.
	Malformed []string `json:"malformed,omitempty"`

	// Images lists raw img src values in document order. No normalization
	// is applied.
	Images []string `json:"images,omitempty"`

	// FileLoc is the path of the archived body, set only when written.
	FileLoc string `json:"file_loc,omitempty"`
}

// NewPageRecord returns an unvisited record for url with the sentinel
// LastVisit for the given cache limit in seconds.
func NewPageRecord(url string, cacheLimit int64) *PageRecord {
	return &PageRecord{
		URL:       url,
		LastVisit: cacheLimit,
		Links:     make(map[string]string),
	}
}

// Fetched reports whether a GET has completed for this record, including
// non-2xx responses.
func (r *PageRecord) Fetched() bool {
	return r.StatusCode != 0
}

// Expired reports whether the record is eligible for (re)fetching at the
// given unix time. The comparison is inclusive so a zero cache limit
// refetches even within the same second.
func (r *PageRecord) Expired(now int64) bool {
	return now >= r.LastVisit
}

// IsHTML reports whether the probed MIME type indicates an HTML document.
func (r *PageRecord) IsHTML() bool {
	return strings.Contains(r.MimeType, "text/html")
}

// Stamp records a completed GET: the status code and the new expiry
// instant (now + cacheLimit seconds).
func (r *PageRecord) Stamp(status int, now, cacheLimit int64) {
	r.StatusCode = status
	r.LastVisit = now + cacheLimit
}
