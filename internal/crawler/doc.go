// Package crawler implements the crawl frontier and page-cache engine.
//
// # Architecture
//
// The package is built around three pieces:
//
//   - Parser: extracts raw anchor hrefs and image sources from HTML
//   - Frontier: the ordered url -> PageRecord map that is at once the
//     seen-set, the expiry cache and the FIFO work queue
//   - Spider: the sequential crawl loop driving the frontier
//
// # Crawl model
//
// Execution is strictly sequential: one request in flight at a time, and
// the politeness gate's Wait is the only blocking point. The frontier's
// key list grows while the loop iterates it, so newly discovered in-host
// links are visited before the loop terminates. Every URL is discovered
// with a HEAD probe before any GET, and a fetched page is only refetched
// once its cache limit has elapsed.
//
// # Usage
//
//	spider := crawler.NewSpider(host, client, gate, session)
//	err := spider.Crawl(ctx)
package crawler
