package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. The crawl-related defaults are chosen
// for politeness toward small self-hosted sites, which is the primary
// audience of this tool.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "crawlsite"

	// DefaultTimeout is the per-request timeout. 30 seconds covers slow
	// shared-hosting origins without hanging the crawl on a dead one.
	DefaultTimeout = 30 * time.Second

	// DefaultCrawlDelay is the minimum gap between HTTP requests. Two
	// seconds keeps the crawler well under typical rate limits; a
	// robots.txt Crawl-delay directive overrides it when larger.
	DefaultCrawlDelay = 2 * time.Second

	// DefaultCacheLimit is how long a fetched page stays fresh. Pages
	// revisited within this window are served from the session instead
	// of being refetched.
	DefaultCacheLimit = 24 * time.Hour

	// DefaultUserAgent identifies crawlsite in HTTP requests.
	// A descriptive User-Agent lets site operators recognize the
	// crawler in their access logs.
	DefaultUserAgent = "crawlsite/1.0 (+https://github.com/mwalsh/crawlsite)"

	// DefaultMaxBodySize limits the response body size to read.
	// 10MB is generous for HTML pages while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB
)

// Config holds all configuration options for crawlsite.
// This struct is populated from CLI flags and passed through the
// application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested
// structs (e.g., CrawlConfig, StorageConfig) for simplicity. The number
// of options is manageable, and nesting would add complexity without
// significant benefit.
type Config struct {
	// Host is the home host to crawl, e.g. "example.com". Everything the
	// crawl fetches stays on hosts containing this string.
	Host string

	// PageURL, when set, restricts the run to a single page instead of a
	// full site crawl. The page is fetched and its links recorded, but no
	// discovered URL is followed.
	PageURL string

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// Timeout is the per-request timeout for HEAD and GET requests.
	Timeout time.Duration

	// CrawlDelay is the minimum gap between any two HTTP requests.
	// robots.txt Crawl-delay overrides this when present.
	CrawlDelay time.Duration

	// CacheLimit is how long a fetched page stays fresh before it is
	// eligible for refetching on a later run.
	CacheLimit time.Duration

	// ObeyRobots controls whether robots.txt rules are honored.
	// When the robots.txt cannot be fetched at all, the crawler fails
	// open and behaves as if this were false.
	ObeyRobots bool

	// Archive enables saving fetched HTML bodies under FilesDir.
	Archive bool

	// GzipFiles compresses archived bodies. Only meaningful with Archive.
	GzipFiles bool

	// FilesDir is the directory for archived bodies. When empty it
	// defaults to "<host with dots as underscores>_files" in the
	// working directory.
	FilesDir string

	// SessionFile is the path of the session JSON file. When empty it
	// defaults to "<host with dots as underscores>.json" in the working
	// directory.
	SessionFile string

	// LogFile, when set, sends log output to this file instead of stderr.
	LogFile string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only info and above are logged.
	Verbose bool

	// DBDir is the directory for the SQLite fetch-history database.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB indicates whether completed fetches are recorded in the
	// database.
	SaveToDB bool

	// MaxBodySize is the maximum response body size in bytes to read.
	// Set to 0 to use the default.
	MaxBodySize int64

	// ConfigFilePath is the path to the configuration file. If empty,
	// the tool searches for .crawlsite in the current directory and then
	// in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds per-site overrides loaded from the config file.
	SiteConfigs *File
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (timeouts, delays,
// the cache limit). This also serves as documentation of the defaults.
func NewConfig() *Config {
	return &Config{
		UserAgent:   DefaultUserAgent,
		Timeout:     DefaultTimeout,
		CrawlDelay:  DefaultCrawlDelay,
		CacheLimit:  DefaultCacheLimit,
		ObeyRobots:  true,
		SaveToDB:    true,
		MaxBodySize: DefaultMaxBodySize,
	}
}

// XDGDataDir returns the XDG data directory for crawlsite.
// On Linux: ~/.local/share/crawlsite
// On macOS: ~/Library/Application Support/crawlsite
// On Windows: %LOCALAPPDATA%\crawlsite
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for crawlsite.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// We chose to return the first error found rather than collecting all
// errors because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if c.Host == "" && c.PageURL == "" {
		return ErrNoHost
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.CrawlDelay < 0 {
		return ErrInvalidCrawlDelay
	}

	if c.CacheLimit < 0 {
		return ErrInvalidCacheLimit
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.GzipFiles && !c.Archive {
		return ErrGzipWithoutArchive
	}

	return nil
}
