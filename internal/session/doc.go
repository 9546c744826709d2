// Package session persists crawl state between runs.
//
// A session is one JSON file per host holding the page records, the
// sitemap list, and the external link and host lists. Saving replaces
// the whole file atomically; loading is tolerant, so a file written by
// an older version with missing or extra keys still loads and simply
// leaves the absent parts at their zero values.
package session
