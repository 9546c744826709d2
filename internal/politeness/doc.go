// Package politeness enforces the crawl's politeness constraints: the
// target host's robots.txt directives and a minimum delay between
// requests.
//
// The Gate's Wait method is the only blocking point in the whole crawler.
// It must be called immediately before every network request, HEAD probes
// included, so that link discovery respects the rate limit too.
//
// Failure semantics are fail-open: when robots.txt cannot be fetched at
// all, robots checking is disabled for the run and the default crawl
// delay applies.
package politeness
