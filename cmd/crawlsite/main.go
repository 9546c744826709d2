// Package main provides the entry point for the crawlsite CLI.
//
// crawlsite is a polite, single-host web crawler. It maps a site by
// following internal links, honors robots.txt and crawl delays, caches
// pages between runs, and can archive fetched bodies.
//
// Usage:
//
//	crawlsite crawl <host>
//	crawlsite crawl --page <url>
//	crawlsite report <host>
//
// See --help for all available options.
package main

// main is the entry point for crawlsite.
func main() {
	Execute()
}
