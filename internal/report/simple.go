package report

import (
	"fmt"
	"io"
	"strings"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because it works in all terminals and is easy
// to pipe to files or other tools.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no entries are shown.
	showEmpty bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the summary in human-readable format.
func (w *SimpleWriter) Write(summary *Summary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeStatusCounts(&sb, summary)
	w.writeSitemap(&sb, summary)
	w.writeExternal(&sb, summary)
	w.writeMalformed(&sb, summary)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with crawl information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary *Summary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                         CRAWL REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Host:           %s\n", summary.Host))
	sb.WriteString(fmt.Sprintf("Generated:      %s\n", summary.GeneratedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Known Pages:    %d\n", summary.TotalPages))
	sb.WriteString(fmt.Sprintf("Fetched Pages:  %d\n", summary.FetchedPages))
	sb.WriteString(fmt.Sprintf("HTML Pages:     %d\n", summary.HTMLPages))
	sb.WriteString(fmt.Sprintf("Archived Pages: %d\n", summary.ArchivedPages))
	sb.WriteString("\n")
}

// writeStatusCounts writes the per-status-code breakdown.
func (w *SimpleWriter) writeStatusCounts(sb *strings.Builder, summary *Summary) {
	if len(summary.StatusCounts) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("HTTP STATUS CODES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(summary.StatusCounts) == 0 {
		sb.WriteString("  No pages fetched\n")
	} else {
		for _, code := range summary.SortedStatusCodes() {
			sb.WriteString(fmt.Sprintf("  %d: %d page(s)\n", code, summary.StatusCounts[code]))
		}
	}
	sb.WriteString("\n")
}

// writeSitemap writes the sitemap section.
func (w *SimpleWriter) writeSitemap(sb *strings.Builder, summary *Summary) {
	if len(summary.Sitemap) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SITEMAPS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(summary.Sitemap) == 0 {
		sb.WriteString("  No sitemaps advertised\n")
	} else {
		for _, url := range summary.Sitemap {
			sb.WriteString(fmt.Sprintf("  * %s\n", url))
		}
	}
	sb.WriteString("\n")
}

// writeExternal writes the external hosts and links sections.
func (w *SimpleWriter) writeExternal(sb *strings.Builder, summary *Summary) {
	if len(summary.ExternalHosts) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("EXTERNAL HOSTS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, host := range summary.ExternalHosts {
		sb.WriteString(fmt.Sprintf("  [+] %s\n", host))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  %d external link(s) in total\n", len(summary.ExternalLinks)))
	sb.WriteString("\n")
}

// writeMalformed writes the malformed link section.
func (w *SimpleWriter) writeMalformed(sb *strings.Builder, summary *Summary) {
	if summary.MalformedLinks == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("MALFORMED LINKS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  %d href(s) failed canonicalization\n", summary.MalformedLinks))
	for _, href := range summary.MalformedSamples {
		sb.WriteString(fmt.Sprintf("  * %s\n", href))
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by crawlsite\n")
	sb.WriteString("https://github.com/mwalsh/crawlsite\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
