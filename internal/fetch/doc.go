// Package fetch is the HTTP transport used by the crawler.
//
// It issues HEAD and GET requests with a configurable User-Agent, timeout
// and body size cap. A transport-level failure (DNS, connection, timeout)
// is reported as an error with no response; an HTTP-level error status is
// a normal response that callers record.
//
// Every request builds a fresh header map from the base headers plus the
// call-specific overrides; headers are never shared between calls.
package fetch
