package urlnorm

import (
	"errors"
	"strings"
	"testing"
)

// TestNormalize tests the salvage rules and canonical form.
func TestNormalize(t *testing.T) {
	t.Parallel()

	const home = "example.com"

	cases := []struct {
		name string
		href string
		want string
	}{
		{"protocol relative", "//cdn.example.net/lib.js", "https://cdn.example.net/lib.js"},
		{"rooted path", "/about", "https://example.com/about"},
		{"http forced to https", "http://example.com/contact", "https://example.com/contact"},
		{"fragment only", "#section", "https://example.com/"},
		{"bare hash", "#", "https://example.com/"},
		{"parent traversal", "../x", "https://example.com/x"},
		{"double parent traversal keeps literal path", "../../x", "https://example.com/../x"},
		{"already canonical", "https://example.com/path", "https://example.com/path"},
		{"query dropped", "https://example.com/search?q=term", "https://example.com/search"},
		{"query and fragment dropped", "/p?q=1#frag", "https://example.com/p"},
		{"host lowercased port dropped", "https://Example.COM:8443/Path", "https://example.com/Path"},
		{"empty path becomes root", "https://example.com", "https://example.com/"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := Normalize(tc.href, home)
			if err != nil {
				t.Fatalf("Normalize(%q) returned error: %v", tc.href, err)
			}
			if got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.href, got, tc.want)
			}
		})
	}
}

// TestNormalizeMalformed tests rejection of hrefs without scheme or host.
func TestNormalizeMalformed(t *testing.T) {
	t.Parallel()

	const home = "example.com"

	malformed := []string{
		"",
		"?q=only-a-query",
		"relative/path",
		"mailto:user@example.com",
		"javascript:void(0)",
		"http//typo.example.com",
	}

	for _, href := range malformed {
		if got, err := Normalize(href, home); !errors.Is(err, ErrMalformed) {
			t.Errorf("Normalize(%q) = (%q, %v), want ErrMalformed", href, got, err)
		}
	}
}

// TestNormalizeIdempotent tests that canonical output is a fixed point.
func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()

	const home = "example.com"

	hrefs := []string{
		"/about",
		"//cdn.example.net/a.png",
		"http://example.com/contact?utm=1#top",
		"../x",
	}

	for _, href := range hrefs {
		first, err := Normalize(href, home)
		if err != nil {
			t.Fatalf("Normalize(%q): %v", href, err)
		}
		second, err := Normalize(first, home)
		if err != nil {
			t.Fatalf("Normalize(%q): %v", first, err)
		}
		if first != second {
			t.Errorf("not idempotent: %q -> %q -> %q", href, first, second)
		}
	}
}

// TestNormalizeNeverEmitsQueryOrFragment tests the canonical form invariant.
func TestNormalizeNeverEmitsQueryOrFragment(t *testing.T) {
	t.Parallel()

	hrefs := []string{
		"/a?b=c",
		"/a#b",
		"/a?b=c#d",
		"https://example.com/x?y#z",
		"#frag",
	}

	for _, href := range hrefs {
		got, err := Normalize(href, "example.com")
		if err != nil {
			t.Fatalf("Normalize(%q): %v", href, err)
		}
		if strings.ContainsAny(got, "?#") {
			t.Errorf("Normalize(%q) = %q contains query or fragment", href, got)
		}
		if !strings.HasPrefix(got, "https://") {
			t.Errorf("Normalize(%q) = %q is not https", href, got)
		}
	}
}
