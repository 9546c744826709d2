package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// TestClientGet tests GET requests against a local server.
func TestClientGet(t *testing.T) {
	t.Parallel()

	t.Run("returns status headers and body", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("<html><body>hello</body></html>"))
		}))
		defer srv.Close()

		c := NewClient()
		resp, err := c.Get(context.Background(), srv.URL, nil)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}

		if !resp.OK() {
			t.Errorf("expected status 200, got %d", resp.StatusCode)
		}
		if !strings.Contains(resp.MimeType(), "text/html") {
			t.Errorf("expected HTML mime type, got %q", resp.MimeType())
		}
		if !strings.Contains(string(resp.Body), "hello") {
			t.Errorf("body not read: %q", resp.Body)
		}
	})

	t.Run("non-2xx status is a response not an error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer srv.Close()

		c := NewClient()
		resp, err := c.Get(context.Background(), srv.URL+"/missing", nil)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", resp.StatusCode)
		}
	})

	t.Run("connection failure returns error and no response", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // nothing listening

		c := NewClient(WithTimeout(2 * time.Second))
		resp, err := c.Get(context.Background(), srv.URL, nil)
		if err == nil {
			t.Fatal("expected transport error")
		}
		if resp != nil {
			t.Errorf("expected nil response on transport failure, got %+v", resp)
		}
	})

	t.Run("body is capped at the configured size", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("x", 4096)))
		}))
		defer srv.Close()

		c := NewClient(WithMaxBodySize(128))
		resp, err := c.Get(context.Background(), srv.URL, nil)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if len(resp.Body) != 128 {
			t.Errorf("expected 128 byte body, got %d", len(resp.Body))
		}
	})
}

// TestClientHeaders tests that each request builds a fresh header set.
func TestClientHeaders(t *testing.T) {
	t.Parallel()

	var got []http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Clone())
	}))
	defer srv.Close()

	c := NewClient(
		WithUserAgent("crawlsite-test/1.0"),
		WithBaseHeaders(map[string]string{"Accept-Language": "en"}),
	)

	ctx := context.Background()
	if _, err := c.Get(ctx, srv.URL, map[string]string{"X-Run": "first"}); err != nil {
		t.Fatalf("first request: %v", err)
	}
	if _, err := c.Get(ctx, srv.URL, nil); err != nil {
		t.Fatalf("second request: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(got))
	}

	if ua := got[0].Get("User-Agent"); ua != "crawlsite-test/1.0" {
		t.Errorf("user agent = %q", ua)
	}
	if got[0].Get("Accept-Language") != "en" {
		t.Error("base header missing from first request")
	}
	if got[0].Get("X-Run") != "first" {
		t.Error("per-call header missing from first request")
	}

	// The override from the first call must not leak into the second.
	if got[1].Get("X-Run") != "" {
		t.Error("per-call header leaked into the next request")
	}
	if got[1].Get("Accept-Language") != "en" {
		t.Error("base header missing from second request")
	}
}

// TestClientHead tests that HEAD probes return headers without a body.
func TestClientHead(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("expected HEAD, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/pdf")
	}))
	defer srv.Close()

	c := NewClient()
	resp, err := c.Head(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("Head failed: %v", err)
	}
	if resp.MimeType() != "application/pdf" {
		t.Errorf("mime = %q", resp.MimeType())
	}
	if resp.Body != nil {
		t.Error("HEAD response should carry no body")
	}
}
