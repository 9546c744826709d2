package crawler

import (
	"sort"

	"github.com/mwalsh/crawlsite/internal/model"
)

// Frontier is the mapping from canonical URL to page record, preserving
// first-insertion order. It serves three roles at once: the "have we
// seen this" set, the expiry cache, and the crawl loop's work queue.
//
// Design decision: An explicit key slice alongside the map gives O(1)
// membership tests while letting the loop iterate by index over a list
// that grows mid-iteration, instead of mutating a slice it is ranging
// over.
type Frontier struct {
	pages map[string]*model.PageRecord
	order []string
}

// NewFrontier returns an empty frontier.
func NewFrontier() *Frontier {
	return &Frontier{pages: make(map[string]*model.PageRecord)}
}

// Load rebuilds the frontier from a session's page map. JSON maps carry
// no order, so keys are sorted for a deterministic drain sequence.
// Records are repaired for what a round-trip through the session file
// loses: a record saved before its first fetch comes back with a nil
// links map, and a damaged entry comes back nil entirely.
func (f *Frontier) Load(pages map[string]*model.PageRecord) {
	keys := make([]string, 0, len(pages))
	for url := range pages {
		keys = append(keys, url)
	}
	sort.Strings(keys)

	for _, url := range keys {
		r := pages[url]
		if r == nil {
			continue
		}
		if r.Links == nil {
			r.Links = make(map[string]string)
		}
		f.Put(url, r)
	}
}

// Put inserts or replaces the record for url. The insertion position of
// an existing key is preserved.
func (f *Frontier) Put(url string, r *model.PageRecord) {
	if _, ok := f.pages[url]; !ok {
		f.order = append(f.order, url)
	}
	f.pages[url] = r
}

// Get returns the record for url.
func (f *Frontier) Get(url string) (*model.PageRecord, bool) {
	r, ok := f.pages[url]
	return r, ok
}

// Has reports whether url has been discovered.
func (f *Frontier) Has(url string) bool {
	_, ok := f.pages[url]
	return ok
}

// Len returns the number of discovered URLs. The crawl loop re-reads it
// every iteration so in-place growth extends the drain.
func (f *Frontier) Len() int {
	return len(f.order)
}

// At returns the i-th discovered URL in insertion order.
func (f *Frontier) At(i int) string {
	return f.order[i]
}

// Pages exposes the underlying record map for persistence.
func (f *Frontier) Pages() map[string]*model.PageRecord {
	return f.pages
}
