// Package log provides logging with automatic sanitization of
// sensitive values, built on top of the standard slog package.
//
// Crawling with per-site cookies and custom headers means credentials
// pass through the request path, and verbose logging would otherwise
// print them. The SecureHandler masks attribute values whose keys look
// credential-like (cookie, authorization, token) and string values that
// match known token formats, whatever the key.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, true) // verbose=true
//
//	logger.Info("request sent",
//	    "cookie", "session=abc123",  // masked
//	    "url", "https://example.com/",
//	)
package log
