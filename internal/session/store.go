package session

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mwalsh/crawlsite/internal/model"
)

// DefaultFilename returns the session filename for a host, with dots
// replaced by underscores so the name stays shell-friendly.
func DefaultFilename(host string) string {
	return strings.ReplaceAll(host, ".", "_") + ".json"
}

// Store reads and writes session files.
type Store struct {
	path   string
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithStoreLogger sets the logger used for load diagnostics.
func WithStoreLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore returns a store bound to the session file at path.
func NewStore(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the session file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the session file. A missing or unreadable file is not an
// error; it means there is no prior session and a fresh one is returned.
// Individual keys that fail to decode are skipped so a partially
// damaged file loses only the damaged parts.
func (s *Store) Load(host string) *model.Session {
	sess := model.NewSession(host)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("session file unreadable, starting fresh",
				slog.String("path", s.path), slog.String("error", err.Error()))
		}
		return sess
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		s.logger.Warn("session file is not valid JSON, starting fresh",
			slog.String("path", s.path), slog.String("error", err.Error()))
		return sess
	}

	decode := func(key string, dst any) {
		msg, ok := raw[key]
		if !ok {
			return
		}
		if err := json.Unmarshal(msg, dst); err != nil {
			s.logger.Warn("skipping undecodable session key",
				slog.String("key", key), slog.String("error", err.Error()))
		}
	}

	decode("host", &sess.Host)
	decode("pages", &sess.Pages)
	decode("sitemap", &sess.Sitemap)
	decode("external_hosts", &sess.ExternalHosts)
	decode("external_links", &sess.ExternalLinks)

	// The file may predate the Pages map or carry null for it.
	if sess.Pages == nil {
		sess.Pages = make(map[string]*model.PageRecord)
	}

	// Per-record repairs: a null entry is a damaged record and is
	// dropped; a record saved before its first fetch decodes with a nil
	// links map that the crawl loop writes into.
	for url, r := range sess.Pages {
		if r == nil {
			s.logger.Warn("dropping damaged session record", slog.String("url", url))
			delete(sess.Pages, url)
			continue
		}
		if r.Links == nil {
			r.Links = make(map[string]string)
		}
	}
	if sess.Host == "" {
		sess.Host = host
	}

	return sess
}

// Save writes the session as a single JSON document. The write goes to
// a temporary file in the same directory and is renamed into place, so
// a crash mid-write never leaves a truncated session.
func (s *Store) Save(sess *model.Session) error {
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create session directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create temporary session file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close session file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace session file: %w", err)
	}

	return nil
}
