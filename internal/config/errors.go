package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoHost is returned when neither a host nor a single page URL is
	// specified. There is nothing to crawl without one of the two.
	ErrNoHost = errors.New("no host specified: provide a host with --site or a URL with --page")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	// A timeout of zero or negative would cause immediate request failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidCrawlDelay is returned when the crawl delay is negative.
	// Use 0 for no delay between requests.
	ErrInvalidCrawlDelay = errors.New("invalid crawl delay: must be non-negative")

	// ErrInvalidCacheLimit is returned when the cache limit is negative.
	// Use 0 to refetch every page on every run.
	ErrInvalidCacheLimit = errors.New("invalid cache limit: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 to use the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrGzipWithoutArchive is returned when gzip compression is requested
	// but archiving is disabled. There is nothing to compress.
	ErrGzipWithoutArchive = errors.New("gzip requires archiving: use --archive together with --gzip")
)
