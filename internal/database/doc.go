// Package database provides SQLite-based storage for crawl history.
//
// The CrawlDB records every completed fetch (URL, status, MIME type,
// body hash, timestamp) independently of the session file, so the full
// fetch history of a host survives session resets and can be queried
// across runs.
//
// Design decision: We use SQLite (via modernc.org/sqlite) because the
// database is a single file with no external service, the CGO-free
// driver cross-compiles cleanly, and WAL mode gives good read
// performance for the history queries.
package database
