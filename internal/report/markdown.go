package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs summaries in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent
// markdown generation: type-safe tables and lists plus GitHub-flavored
// markdown alerts, without hand-assembled strings.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the summary in Markdown format.
func (w *MarkdownWriter) Write(summary *Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeStatusCounts(md, summary)
	w.writeSitemap(md, summary)
	w.writeExternal(md, summary)
	w.writeMalformed(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with crawl information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *Summary) {
	md.H1("Crawl Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Host", "`" + summary.Host + "`"},
			{"Generated", summary.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Known Pages", strconv.Itoa(summary.TotalPages)},
			{"Fetched Pages", strconv.Itoa(summary.FetchedPages)},
			{"HTML Pages", strconv.Itoa(summary.HTMLPages)},
			{"Archived Pages", strconv.Itoa(summary.ArchivedPages)},
		},
	})
	md.PlainText("")
}

// writeStatusCounts writes the per-status-code breakdown with a pie chart.
func (w *MarkdownWriter) writeStatusCounts(md *markdown.Markdown, summary *Summary) {
	md.H2("HTTP Status Codes")
	md.PlainText("")

	if len(summary.StatusCounts) == 0 {
		md.PlainText("No pages fetched.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(summary.StatusCounts))
	for _, code := range summary.SortedStatusCodes() {
		rows = append(rows, []string{
			strconv.Itoa(code),
			strconv.Itoa(summary.StatusCounts[code]),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Status", "Pages"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writePieChart(md, summary)
}

// writePieChart writes a mermaid pie chart for the status distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Status Code Distribution"),
		piechart.WithShowData(true),
	)

	for _, code := range summary.SortedStatusCodes() {
		chart.LabelAndIntValue(strconv.Itoa(code), uint64(summary.StatusCounts[code]))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeSitemap writes the sitemap section.
func (w *MarkdownWriter) writeSitemap(md *markdown.Markdown, summary *Summary) {
	md.H2("Sitemaps")
	md.PlainText("")

	if len(summary.Sitemap) == 0 {
		md.PlainText("No sitemaps advertised by robots.txt.")
		md.PlainText("")
		return
	}

	md.BulletList(summary.Sitemap...)
	md.PlainText("")
}

// writeExternal writes the external hosts and links sections.
func (w *MarkdownWriter) writeExternal(md *markdown.Markdown, summary *Summary) {
	md.H2("External Hosts")
	md.PlainText("")

	if len(summary.ExternalHosts) == 0 {
		md.PlainText("No external hosts referenced.")
		md.PlainText("")
		return
	}

	md.BulletList(summary.ExternalHosts...)
	md.PlainText("")
	md.PlainTextf("%d external link(s) in total.", len(summary.ExternalLinks))
	md.PlainText("")
}

// writeMalformed writes the malformed link section with an alert when
// the count is non-zero.
func (w *MarkdownWriter) writeMalformed(md *markdown.Markdown, summary *Summary) {
	md.H2("Malformed Links")
	md.PlainText("")

	if summary.MalformedLinks == 0 {
		md.Tip("All hrefs canonicalized cleanly.")
		md.PlainText("")
		return
	}

	md.Warningf("%d href(s) failed canonicalization.", summary.MalformedLinks)
	md.PlainText("")

	if len(summary.MalformedSamples) > 0 {
		samples := make([]string, len(summary.MalformedSamples))
		for i, href := range summary.MalformedSamples {
			samples[i] = "`" + href + "`"
		}
		md.BulletList(samples...)
		md.PlainText("")
	}
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [crawlsite](https://github.com/mwalsh/crawlsite)*")
}
