// Package report renders crawl session summaries in several formats:
// a plain-text report for the terminal, JSON for tool integration, and
// GitHub Flavored Markdown for documentation.
package report
