package archive

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
)

// TestWriterWrite tests plain content-addressed writes.
func TestWriterWrite(t *testing.T) {
	t.Parallel()

	t.Run("writes body under its hash", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		w, err := NewWriter(dir)
		if err != nil {
			t.Fatalf("NewWriter: %v", err)
		}

		body := []byte("<html><body>page</body></html>")
		path, err := w.Write(body)
		if err != nil {
			t.Fatalf("Write: %v", err)
		}

		wantName := ContentHash(body) + ".html"
		if filepath.Base(path) != wantName {
			t.Errorf("filename = %q, want %q", filepath.Base(path), wantName)
		}

		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("reading archive file: %v", err)
		}
		if !bytes.Equal(got, body) {
			t.Error("archived bytes differ from the body")
		}
	})

	t.Run("identical content is not rewritten", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		w, err := NewWriter(dir)
		if err != nil {
			t.Fatalf("NewWriter: %v", err)
		}

		body := []byte("same content")
		path, err := w.Write(body)
		if err != nil {
			t.Fatalf("first write: %v", err)
		}

		before, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat: %v", err)
		}

		time.Sleep(10 * time.Millisecond)
		if _, err := w.Write(body); err != nil {
			t.Fatalf("second write: %v", err)
		}

		after, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if !after.ModTime().Equal(before.ModTime()) {
			t.Error("existing file was rewritten")
		}
	})

	t.Run("creates missing directories", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "nested", "files")
		if _, err := NewWriter(dir); err != nil {
			t.Fatalf("NewWriter: %v", err)
		}
		if _, err := os.Stat(dir); err != nil {
			t.Errorf("directory not created: %v", err)
		}
	})
}

// TestWriterGzip tests the compressed mode round-trips.
func TestWriterGzip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, err := NewWriter(dir, WithCompression(true))
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	body := []byte(strings.Repeat("compressible ", 100))
	path, err := w.Write(body)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	if !strings.HasSuffix(path, ".html.gz") {
		t.Errorf("compressed file should end in .html.gz, got %q", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	got, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !bytes.Equal(got, body) {
		t.Error("decompressed bytes differ from the body")
	}
}

// TestContentHash tests hash stability.
func TestContentHash(t *testing.T) {
	t.Parallel()

	a := ContentHash([]byte("body"))
	b := ContentHash([]byte("body"))
	c := ContentHash([]byte("other"))

	if a != b {
		t.Error("hash is not deterministic")
	}
	if a == c {
		t.Error("different content produced the same hash")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}
}
