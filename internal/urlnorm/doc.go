// Package urlnorm turns raw hrefs into canonical, comparable URLs.
//
// Canonical form is scheme+host+path only: the scheme is forced to https,
// the host is lowercased with any port dropped, and query strings and
// fragments are removed. Two hrefs that canonicalize to the same string
// identify the same page.
//
// The salvage heuristics are deliberately simple prefix rewrites rather
// than RFC 3986 relative resolution. In particular a leading ".." is
// collapsed by stripping exactly those two characters, so "../../x"
// canonicalizes with a literal "/../x" path. Callers depend on these
// exact rules; do not upgrade them to full relative resolution.
package urlnorm
