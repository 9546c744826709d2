package sitemap

import (
	"strings"
	"testing"
)

// TestParseLocs tests <loc> extraction from sitemap documents.
func TestParseLocs(t *testing.T) {
	t.Parallel()

	t.Run("urlset document", func(t *testing.T) {
		t.Parallel()

		doc := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://example.com/</loc></url>
  <url><loc> https://example.com/about </loc></url>
  <url><loc>https://example.com/contact</loc><lastmod>2024-01-01</lastmod></url>
</urlset>`

		locs, err := ParseLocs(strings.NewReader(doc))
		if err != nil {
			t.Fatalf("ParseLocs: %v", err)
		}

		want := []string{
			"https://example.com/",
			"https://example.com/about",
			"https://example.com/contact",
		}
		if len(locs) != len(want) {
			t.Fatalf("expected %d locations, got %d: %v", len(want), len(locs), locs)
		}
		for i, loc := range want {
			if locs[i] != loc {
				t.Errorf("loc[%d] = %q, want %q", i, locs[i], loc)
			}
		}
	})

	t.Run("sitemapindex document", func(t *testing.T) {
		t.Parallel()

		doc := `<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>https://example.com/sitemap-pages.xml</loc></sitemap>
  <sitemap><loc>https://example.com/sitemap-posts.xml</loc></sitemap>
</sitemapindex>`

		locs, err := ParseLocs(strings.NewReader(doc))
		if err != nil {
			t.Fatalf("ParseLocs: %v", err)
		}
		if len(locs) != 2 {
			t.Fatalf("expected 2 locations, got %d", len(locs))
		}
	})

	t.Run("empty and loc-free documents", func(t *testing.T) {
		t.Parallel()

		locs, err := ParseLocs(strings.NewReader(`<urlset></urlset>`))
		if err != nil {
			t.Fatalf("ParseLocs: %v", err)
		}
		if len(locs) != 0 {
			t.Errorf("expected no locations, got %v", locs)
		}
	})
}
