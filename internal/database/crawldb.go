package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// CrawlDB stores fetch history in a SQLite file.
type CrawlDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CrawlDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging. Recommended.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a CrawlDB under dbDir. With CreateIfNotExists
// unset, a missing database is an error instead of being created.
func Open(dbDir string, opts Options) (*CrawlDB, error) {
	dbPath := filepath.Join(dbDir, "crawlsite.db")

	var dsn string
	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = dbPath + "?mode=rwc"
	} else {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports a single writer; the crawler is sequential anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CrawlDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CrawlDB) Close() error {
	return cdb.db.Close()
}

// createTables creates the schema if it doesn't exist.
func (cdb *CrawlDB) createTables() error {
	schema := `
	-- One row per (url, host), updated in place on refetch
	CREATE TABLE IF NOT EXISTS fetches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL,
		host TEXT NOT NULL,
		fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		status_code INTEGER,
		mime_type TEXT,
		body_hash TEXT,
		UNIQUE(url, host)
	);

	CREATE INDEX IF NOT EXISTS idx_fetches_url ON fetches(url);
	CREATE INDEX IF NOT EXISTS idx_fetches_host ON fetches(host);
	CREATE INDEX IF NOT EXISTS idx_fetches_time ON fetches(fetched_at);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// FetchRecord is one completed GET.
type FetchRecord struct {
	ID         int64
	URL        string
	Host       string
	FetchedAt  time.Time
	StatusCode int
	MimeType   string
	BodyHash   string
}

// InsertFetch inserts or updates the history row for a URL. Refetching
// the same URL on the same host replaces the previous row and advances
// its timestamp.
func (cdb *CrawlDB) InsertFetch(ctx context.Context, rec *FetchRecord) (int64, error) {
	query := `
	INSERT INTO fetches (url, host, status_code, mime_type, body_hash)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(url, host) DO UPDATE SET
		status_code = excluded.status_code,
		mime_type = excluded.mime_type,
		body_hash = excluded.body_hash,
		fetched_at = CURRENT_TIMESTAMP
	`

	result, err := cdb.db.ExecContext(ctx, query,
		rec.URL,
		rec.Host,
		rec.StatusCode,
		rec.MimeType,
		rec.BodyHash,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert fetch record: %w", err)
	}

	return result.LastInsertId()
}

// GetFetch retrieves the history row for a URL, or nil when absent.
func (cdb *CrawlDB) GetFetch(ctx context.Context, url, host string) (*FetchRecord, error) {
	query := `
	SELECT id, url, host, fetched_at, status_code, mime_type, body_hash
	FROM fetches
	WHERE url = ? AND host = ?
	`

	var rec FetchRecord
	var fetchedAt string

	err := cdb.db.QueryRowContext(ctx, query, url, host).Scan(
		&rec.ID,
		&rec.URL,
		&rec.Host,
		&fetchedAt,
		&rec.StatusCode,
		&rec.MimeType,
		&rec.BodyHash,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fetch record: %w", err)
	}

	rec.FetchedAt = parseTimestamp(fetchedAt)
	return &rec, nil
}

// HasRecentFetch reports whether a URL was fetched within the duration.
func (cdb *CrawlDB) HasRecentFetch(ctx context.Context, url string, within time.Duration) (bool, error) {
	query := `
	SELECT COUNT(*) FROM fetches
	WHERE url = ? AND fetched_at > datetime('now', ?)
	`

	modifier := fmt.Sprintf("-%d seconds", int(within.Seconds()))

	var count int
	if err := cdb.db.QueryRowContext(ctx, query, url, modifier).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check recent fetch: %w", err)
	}

	return count > 0, nil
}

// ListHosts returns every host with fetch history, sorted.
func (cdb *CrawlDB) ListHosts(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT host FROM fetches
	ORDER BY host
	`

	rows, err := cdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list hosts: %w", err)
	}
	defer rows.Close()

	var hosts []string
	for rows.Next() {
		var host string
		if err := rows.Scan(&host); err != nil {
			return nil, fmt.Errorf("failed to scan host: %w", err)
		}
		hosts = append(hosts, host)
	}

	return hosts, rows.Err()
}

// HostHistory returns all history rows for a host, most recent first.
func (cdb *CrawlDB) HostHistory(ctx context.Context, host string) ([]FetchRecord, error) {
	query := `
	SELECT id, url, host, fetched_at, status_code, mime_type, body_hash
	FROM fetches
	WHERE host = ?
	ORDER BY fetched_at DESC
	`

	rows, err := cdb.db.QueryContext(ctx, query, host)
	if err != nil {
		return nil, fmt.Errorf("failed to query host history: %w", err)
	}
	defer rows.Close()

	var results []FetchRecord
	for rows.Next() {
		var rec FetchRecord
		var fetchedAt string

		err := rows.Scan(
			&rec.ID,
			&rec.URL,
			&rec.Host,
			&fetchedAt,
			&rec.StatusCode,
			&rec.MimeType,
			&rec.BodyHash,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fetch record: %w", err)
		}

		rec.FetchedAt = parseTimestamp(fetchedAt)
		results = append(results, rec)
	}

	return results, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts each known SQLite timestamp format, returning
// zero time when none match.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
