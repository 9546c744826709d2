package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mwalsh/crawlsite/internal/model"
)

// testSession builds a session with a representative mix of records.
func testSession() *model.Session {
	sess := model.NewSession("example.com")

	home := model.NewPageRecord("https://example.com/", 86400)
	home.Stamp(200, 1700000000, 86400)
	home.MimeType = "text/html; charset=utf-8"
	home.FileLoc = "example_com_files/abc.html"
	home.Malformed = []string{"about.html", "javascript:void(0)"}
	sess.Pages[home.URL] = home

	about := model.NewPageRecord("https://example.com/about", 86400)
	about.Stamp(200, 1700000000, 86400)
	about.MimeType = "text/html"
	sess.Pages[about.URL] = about

	missing := model.NewPageRecord("https://example.com/gone", 86400)
	missing.Stamp(404, 1700000000, 86400)
	sess.Pages[missing.URL] = missing

	// Discovered but never fetched.
	sess.Pages["https://example.com/pending"] = model.NewPageRecord("https://example.com/pending", 86400)

	sess.Sitemap = []string{"https://example.com/sitemap.xml"}
	sess.AddExternalHost("other.example")
	sess.AddExternalLink("https://other.example/page")

	return sess
}

// TestNewSummary tests summary derivation from a session.
func TestNewSummary(t *testing.T) {
	t.Parallel()

	s := NewSummary(testSession())

	if s.Host != "example.com" {
		t.Errorf("Host = %q, want %q", s.Host, "example.com")
	}
	if s.TotalPages != 4 {
		t.Errorf("TotalPages = %d, want 4", s.TotalPages)
	}
	if s.FetchedPages != 3 {
		t.Errorf("FetchedPages = %d, want 3", s.FetchedPages)
	}
	if s.HTMLPages != 2 {
		t.Errorf("HTMLPages = %d, want 2", s.HTMLPages)
	}
	if s.ArchivedPages != 1 {
		t.Errorf("ArchivedPages = %d, want 1", s.ArchivedPages)
	}
	if s.StatusCounts[200] != 2 {
		t.Errorf("StatusCounts[200] = %d, want 2", s.StatusCounts[200])
	}
	if s.StatusCounts[404] != 1 {
		t.Errorf("StatusCounts[404] = %d, want 1", s.StatusCounts[404])
	}
	if s.MalformedLinks != 2 {
		t.Errorf("MalformedLinks = %d, want 2", s.MalformedLinks)
	}
	if len(s.MalformedSamples) != 2 {
		t.Errorf("MalformedSamples = %v", s.MalformedSamples)
	}

	codes := s.SortedStatusCodes()
	if len(codes) != 2 || codes[0] != 200 || codes[1] != 404 {
		t.Errorf("SortedStatusCodes = %v, want [200 404]", codes)
	}
}

// TestSimpleWriter tests the plain-text report.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("renders all populated sections", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		n, err := w.Write(NewSummary(testSession()))
		if err != nil {
			t.Fatalf("Write: %v", err)
		}
		if n == 0 {
			t.Error("expected bytes written")
		}

		output := buf.String()
		for _, want := range []string{
			"CRAWL REPORT",
			"example.com",
			"HTTP STATUS CODES",
			"200: 2 page(s)",
			"404: 1 page(s)",
			"SITEMAPS",
			"EXTERNAL HOSTS",
			"other.example",
			"MALFORMED LINKS",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("output missing %q:\n%s", want, output)
			}
		}
	})

	t.Run("hides empty sections by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		if _, err := w.Write(NewSummary(model.NewSession("empty.example"))); err != nil {
			t.Fatalf("Write: %v", err)
		}

		output := buf.String()
		if strings.Contains(output, "EXTERNAL HOSTS") {
			t.Errorf("empty section rendered:\n%s", output)
		}
		if strings.Contains(output, "MALFORMED LINKS") {
			t.Errorf("empty section rendered:\n%s", output)
		}
	})

	t.Run("shows empty sections when configured", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithShowEmpty(true))

		if _, err := w.Write(NewSummary(model.NewSession("empty.example"))); err != nil {
			t.Fatalf("Write: %v", err)
		}

		if !strings.Contains(buf.String(), "No pages fetched") {
			t.Errorf("expected empty status section:\n%s", buf.String())
		}
	})
}

// TestJSONWriter tests the JSON report.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("compact output is valid JSON", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)

		if _, err := w.Write(NewSummary(testSession())); err != nil {
			t.Fatalf("Write: %v", err)
		}

		var decoded Summary
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded.Host != "example.com" {
			t.Errorf("Host = %q", decoded.Host)
		}
		if decoded.TotalPages != 4 {
			t.Errorf("TotalPages = %d, want 4", decoded.TotalPages)
		}
	})

	t.Run("pretty print indents output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithPrettyPrint())

		if _, err := w.Write(NewSummary(testSession())); err != nil {
			t.Fatalf("Write: %v", err)
		}

		if !strings.Contains(buf.String(), "\n  \"") {
			t.Errorf("expected indented output:\n%s", buf.String())
		}
	})
}

// TestMarkdownWriter tests the Markdown report.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("renders tables and sections", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		if _, err := w.Write(NewSummary(testSession())); err != nil {
			t.Fatalf("Write: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"# Crawl Report",
			"`example.com`",
			"## HTTP Status Codes",
			"## Sitemaps",
			"## External Hosts",
			"## Malformed Links",
			"mermaid",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("output missing %q:\n%s", want, output)
			}
		}
	})

	t.Run("clean crawl renders a tip instead of a warning", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		if _, err := w.Write(NewSummary(model.NewSession("empty.example"))); err != nil {
			t.Fatalf("Write: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "[!TIP]") {
			t.Errorf("expected a tip alert:\n%s", output)
		}
		if strings.Contains(output, "[!WARNING]") {
			t.Errorf("unexpected warning alert:\n%s", output)
		}
	})
}

// TestMultiWriter tests fan-out to several writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var text, jsonBuf bytes.Buffer
	mw := NewMultiWriter(
		NewSimpleWriter(&text),
		NewJSONWriter(&jsonBuf),
	)

	if _, err := mw.Write(NewSummary(testSession())); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if text.Len() == 0 {
		t.Error("simple writer received nothing")
	}
	if jsonBuf.Len() == 0 {
		t.Error("json writer received nothing")
	}
}
