package archive

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
)

// Writer persists page bodies into a single directory.
type Writer struct {
	// dir is the destination directory, created on construction.
	dir string

	// compress enables gzip output.
	compress bool

	logger *slog.Logger
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithCompression enables gzip-compressed files.
func WithCompression(on bool) WriterOption {
	return func(w *Writer) {
		w.compress = on
	}
}

// WithWriterLogger sets the logger. Defaults to slog.Default.
func WithWriterLogger(l *slog.Logger) WriterOption {
	return func(w *Writer) {
		w.logger = l
	}
}

// NewWriter creates the destination directory if needed and returns a
// writer for it.
func NewWriter(dir string, opts ...WriterOption) (*Writer, error) {
	w := &Writer{
		dir:    dir,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(w)
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	return w, nil
}

// ContentHash returns the hex SHA-256 of a body, the basis of archive
// filenames and the fetch-history hash column.
func ContentHash(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// Write stores the body under its content hash and returns the file
// path. A file that already exists is left untouched: same hash, same
// bytes.
func (w *Writer) Write(body []byte) (string, error) {
	name := ContentHash(body) + ".html"
	if w.compress {
		name += ".gz"
	}
	path := filepath.Join(w.dir, name)

	if _, err := os.Stat(path); err == nil {
		w.logger.Info("not overwriting existing file", "path", path)
		return path, nil
	}

	if w.compress {
		if err := w.writeGzip(path, body); err != nil {
			return "", err
		}
	} else {
		if err := os.WriteFile(path, body, 0640); err != nil {
			return "", fmt.Errorf("failed to write body: %w", err)
		}
	}

	w.logger.Debug("wrote body", "path", path, "size", len(body))
	return path, nil
}

func (w *Writer) writeGzip(path string, body []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0640)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}

	zw := gzip.NewWriter(f)
	if _, err := zw.Write(body); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write compressed body: %w", err)
	}
	if err := zw.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to flush compressed body: %w", err)
	}

	return f.Close()
}
