package report

import (
	"sort"
	"time"

	"github.com/mwalsh/crawlsite/internal/model"
)

// Summary is the digested view of a crawl session used by all report
// writers. It is derived from the session, never persisted.
type Summary struct {
	// Host is the crawl's home host.
	Host string `json:"host"`

	// GeneratedAt is when the summary was built.
	GeneratedAt time.Time `json:"generated_at"`

	// TotalPages is the number of page records in the session, fetched
	// or not.
	TotalPages int `json:"total_pages"`

	// FetchedPages is the number of records with a completed GET.
	FetchedPages int `json:"fetched_pages"`

	// HTMLPages is the number of fetched records whose MIME type is HTML.
	HTMLPages int `json:"html_pages"`

	// ArchivedPages is the number of records with an archived body.
	ArchivedPages int `json:"archived_pages"`

	// StatusCounts maps HTTP status code to the number of pages that
	// last returned it.
	StatusCounts map[int]int `json:"status_counts"`

	// MalformedLinks is the total count of hrefs that failed
	// canonicalization across all pages.
	MalformedLinks int `json:"malformed_links"`

	// MalformedSamples holds up to ten distinct malformed hrefs for
	// diagnosis.
	MalformedSamples []string `json:"malformed_samples,omitempty"`

	// Sitemap lists sitemap URLs known to the session.
	Sitemap []string `json:"sitemap,omitempty"`

	// ExternalHosts lists hosts outside the home host seen in links.
	ExternalHosts []string `json:"external_hosts,omitempty"`

	// ExternalLinks lists cross-host links seen in pages.
	ExternalLinks []string `json:"external_links,omitempty"`
}

// maxMalformedSamples bounds the sample list in the summary.
const maxMalformedSamples = 10

// NewSummary builds a summary from a crawl session.
func NewSummary(sess *model.Session) *Summary {
	s := &Summary{
		Host:          sess.Host,
		GeneratedAt:   time.Now(),
		StatusCounts:  make(map[int]int),
		Sitemap:       sess.Sitemap,
		ExternalHosts: sess.ExternalHosts,
		ExternalLinks: sess.ExternalLinks,
	}

	seen := make(map[string]bool)
	for _, url := range sortedKeys(sess.Pages) {
		rec := sess.Pages[url]
		s.TotalPages++

		if rec.Fetched() {
			s.FetchedPages++
			s.StatusCounts[rec.StatusCode]++
			if rec.IsHTML() {
				s.HTMLPages++
			}
		}
		if rec.FileLoc != "" {
			s.ArchivedPages++
		}

		s.MalformedLinks += len(rec.Malformed)
		for _, href := range rec.Malformed {
			if !seen[href] && len(s.MalformedSamples) < maxMalformedSamples {
				seen[href] = true
				s.MalformedSamples = append(s.MalformedSamples, href)
			}
		}
	}

	return s
}

// SortedStatusCodes returns the status codes present in the summary in
// ascending order, so report output is stable across runs.
func (s *Summary) SortedStatusCodes() []int {
	codes := make([]int, 0, len(s.StatusCounts))
	for code := range s.StatusCounts {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	return codes
}

func sortedKeys(pages map[string]*model.PageRecord) []string {
	keys := make([]string, 0, len(pages))
	for k := range pages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
