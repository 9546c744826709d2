// Package model defines the core data structures shared across crawlsite.
//
// This package contains the following main types:
//   - PageRecord: Per-URL crawl state (cache entry and frontier item)
//   - Session: The persisted crawl state for a host
//
// Design decision: We separate models into their own package to avoid
// circular dependencies. Multiple packages (crawler, session, report,
// database) need these types, so centralizing them prevents import cycles.
//
// The models serialize to JSON; the session file format is the on-disk
// contract and field names are stable.
package model
