package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mwalsh/crawlsite/internal/archive"
	"github.com/mwalsh/crawlsite/internal/config"
	"github.com/mwalsh/crawlsite/internal/crawler"
	"github.com/mwalsh/crawlsite/internal/database"
	"github.com/mwalsh/crawlsite/internal/fetch"
	"github.com/mwalsh/crawlsite/internal/log"
	"github.com/mwalsh/crawlsite/internal/politeness"
	"github.com/mwalsh/crawlsite/internal/session"
	"github.com/mwalsh/crawlsite/internal/urlnorm"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [host]",
		Short: "Crawl a website and record its page map",
		Long: `Crawl maps a single website by following its internal links.

Starting at the home page (or a resumed session), it fetches pages one
at a time, waiting out the crawl delay between requests and skipping
anything robots.txt disallows. Pages fetched on a previous run are only
refetched after the cache limit passes. The crawl state is stored in a
session JSON file, so an interrupted crawl resumes where it stopped.

Examples:
  # Crawl a site
  crawlsite crawl example.com

  # Crawl and archive page bodies, gzip-compressed
  crawlsite crawl --archive --gzip example.com

  # Fetch one page without following its links
  crawlsite crawl --page https://example.com/about

  # Refetch everything regardless of the cache
  crawlsite crawl --no-cache example.com

Configuration file (.crawlsite) example:
  sites:
    example.com:
      cookie: "session_id=abc123"
      delay: 5s
    slow.example:
      delay: 30s
      cacheLimit: 1h`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCrawlCmd,
	}

	// Crawl behavior flags
	cmd.Flags().StringP("page", "p", "",
		"Fetch a single page instead of crawling the whole site")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each HTTP request")
	cmd.Flags().DurationP("delay", "d", config.DefaultCrawlDelay,
		"Minimum delay between HTTP requests (robots.txt Crawl-delay overrides)")
	cmd.Flags().Duration("cache-limit", config.DefaultCacheLimit,
		"How long fetched pages stay fresh before refetching")
	cmd.Flags().Bool("no-cache", false,
		"Refetch every page regardless of freshness (same as --cache-limit 0)")
	cmd.Flags().Bool("ignore-robots", false,
		"Do not honor robots.txt rules or its Crawl-delay")
	cmd.Flags().StringP("user-agent", "u", config.DefaultUserAgent,
		"User-Agent header for all requests")

	// Storage flags
	cmd.Flags().StringP("session", "s", "",
		"Session file path (default: <host>.json with dots as underscores)")
	cmd.Flags().BoolP("archive", "a", false,
		"Save fetched HTML bodies under the files directory")
	cmd.Flags().BoolP("gzip", "z", false,
		"Compress archived bodies (requires --archive)")
	cmd.Flags().String("files-dir", "",
		"Directory for archived bodies (default: <host>_files)")
	cmd.Flags().Bool("no-db", false,
		"Do not record fetch history in the database")
	cmd.Flags().String("db-dir", "",
		"Directory for the fetch-history database (default: XDG data dir)")

	// Configuration and logging
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .crawlsite in current or home directory)")
	cmd.Flags().String("log-file", "",
		"Write log output to this file instead of stderr")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildCrawlConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger, closeLog, err := setupLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCrawl(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildCrawlConfig creates a Config from cobra command flags.
func buildCrawlConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error

	cfg.PageURL, err = cmd.Flags().GetString("page")
	if err != nil {
		return nil, err
	}

	if len(args) > 0 {
		cfg.Host = normalizeHostArg(args[0])
	} else if cfg.PageURL != "" {
		// Single-page mode derives the home host from the page URL.
		u, err := url.Parse(cfg.PageURL)
		if err != nil || u.Hostname() == "" {
			return nil, fmt.Errorf("cannot determine host from page URL %q", cfg.PageURL)
		}
		cfg.Host = strings.ToLower(u.Hostname())
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}
	cfg.CrawlDelay, err = cmd.Flags().GetDuration("delay")
	if err != nil {
		return nil, err
	}
	cfg.CacheLimit, err = cmd.Flags().GetDuration("cache-limit")
	if err != nil {
		return nil, err
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return nil, err
	}
	if noCache {
		cfg.CacheLimit = 0
	}
	ignoreRobots, err := cmd.Flags().GetBool("ignore-robots")
	if err != nil {
		return nil, err
	}
	cfg.ObeyRobots = !ignoreRobots

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}
	cfg.SessionFile, err = cmd.Flags().GetString("session")
	if err != nil {
		return nil, err
	}
	cfg.Archive, err = cmd.Flags().GetBool("archive")
	if err != nil {
		return nil, err
	}
	cfg.GzipFiles, err = cmd.Flags().GetBool("gzip")
	if err != nil {
		return nil, err
	}
	cfg.FilesDir, err = cmd.Flags().GetString("files-dir")
	if err != nil {
		return nil, err
	}
	noDB, err := cmd.Flags().GetBool("no-db")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noDB
	cfg.DBDir, err = cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if cfg.DBDir == "" {
		cfg.DBDir = config.XDGDataDir()
	}
	cfg.LogFile, err = cmd.Flags().GetString("log-file")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load site-specific configurations from config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	// Overlay the per-site settings, but only those the user did not set
	// explicitly on the command line. Zeroed fields are left alone by
	// Apply, so an explicit flag blanks its site override first.
	site := cfg.SiteConfigs.GetSiteConfig(cfg.Host)
	if cmd.Flags().Changed("delay") {
		site.Delay = 0
	}
	if cmd.Flags().Changed("cache-limit") || noCache {
		site.CacheLimit = 0
	}
	if cmd.Flags().Changed("user-agent") {
		site.UserAgent = ""
	}
	cfg.Apply(site)

	return cfg, nil
}

// normalizeHostArg strips a scheme and path from the host argument so
// "https://Example.COM/about" and "example.com" mean the same thing.
func normalizeHostArg(arg string) string {
	arg = strings.TrimSpace(arg)
	if strings.Contains(arg, "://") {
		if u, err := url.Parse(arg); err == nil && u.Hostname() != "" {
			return strings.ToLower(u.Hostname())
		}
	}
	if i := strings.IndexAny(arg, "/"); i >= 0 {
		arg = arg[:i]
	}
	return strings.ToLower(arg)
}

// setupLogger creates the secure logger, optionally writing to a file.
// The returned function closes the log file, if any.
func setupLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	var w io.Writer = os.Stderr
	closer := func() {}

	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		closer = func() { _ = f.Close() }
	}

	return log.NewSecureLogger(w, cfg.Verbose), closer, nil
}

// runCrawl wires the components together and executes the crawl.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting crawl",
		"host", cfg.Host,
		"delay", cfg.CrawlDelay,
		"cacheLimit", cfg.CacheLimit,
		"obeyRobots", cfg.ObeyRobots,
	)

	// Session state from prior runs.
	sessionPath := cfg.SessionFile
	if sessionPath == "" {
		sessionPath = session.DefaultFilename(cfg.Host)
	}
	store := session.NewStore(sessionPath, session.WithStoreLogger(logger))
	sess := store.Load(cfg.Host)
	logger.Info("session loaded", "path", sessionPath, "known", len(sess.Pages))

	client := fetch.NewClient(
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
	)

	gate := politeness.NewGate(cfg.UserAgent,
		politeness.WithObeyRobots(cfg.ObeyRobots),
		politeness.WithDelay(cfg.CrawlDelay),
		politeness.WithLogger(logger),
	)
	gate.Load(ctx, client, cfg.Host)

	spiderOpts := []crawler.SpiderOption{
		crawler.WithCacheLimit(cfg.CacheLimit),
		crawler.WithSpiderLogger(logger),
	}

	if headers := siteHeaders(cfg); len(headers) > 0 {
		spiderOpts = append(spiderOpts, crawler.WithExtraHeaders(headers))
	}

	if cfg.Archive {
		filesDir := cfg.FilesDir
		if filesDir == "" {
			filesDir = strings.ReplaceAll(cfg.Host, ".", "_") + "_files"
		}
		files, err := archive.NewWriter(filesDir,
			archive.WithCompression(cfg.GzipFiles),
			archive.WithWriterLogger(logger),
		)
		if err != nil {
			return fmt.Errorf("failed to prepare files directory: %w", err)
		}
		spiderOpts = append(spiderOpts, crawler.WithArchive(files))
		logger.Info("archiving page bodies", "dir", filesDir, "gzip", cfg.GzipFiles)
	}

	if cfg.SaveToDB {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		spiderOpts = append(spiderOpts, crawler.WithHistory(db))
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	spider := crawler.NewSpider(cfg.Host, client, gate, sess, spiderOpts...)

	// Save whatever was learned even when the crawl is cancelled or fails.
	defer func() {
		if err := store.Save(sess); err != nil {
			logger.Error("failed to save session", "path", sessionPath, "error", err)
			return
		}
		logger.Info("session saved", "path", sessionPath, "pages", len(sess.Pages))
	}()

	start := time.Now()

	if cfg.PageURL != "" {
		return crawlSinglePage(ctx, cfg, spider, logger)
	}

	if err := spider.LoadSitemaps(ctx); err != nil {
		return err
	}
	if err := spider.Crawl(ctx); err != nil {
		return err
	}

	fmt.Printf("Crawl of %s completed in %s: %d page(s) known\n",
		cfg.Host, time.Since(start).Round(time.Millisecond), len(sess.Pages))
	return nil
}

// crawlSinglePage fetches one page and records its links without
// following them.
func crawlSinglePage(ctx context.Context, cfg *config.Config, spider *crawler.Spider, logger *slog.Logger) error {
	canonical, err := urlnorm.Normalize(cfg.PageURL, cfg.Host)
	if err != nil {
		return fmt.Errorf("invalid page URL %q: %w", cfg.PageURL, err)
	}

	logger.Info("fetching single page", "url", canonical)

	if err := spider.Discover(ctx, canonical); err != nil {
		return err
	}
	if err := spider.Extract(ctx, canonical); err != nil {
		return err
	}

	fmt.Printf("Fetched %s\n", canonical)
	return nil
}

// siteHeaders builds the extra request headers for the crawl's host from
// the site configuration.
func siteHeaders(cfg *config.Config) map[string]string {
	if cfg.SiteConfigs == nil {
		return nil
	}

	site := cfg.SiteConfigs.GetSiteConfig(cfg.Host)

	headers := make(map[string]string, len(site.Headers)+1)
	for k, v := range site.Headers {
		headers[k] = v
	}
	if site.Cookie != "" {
		headers["Cookie"] = site.Cookie
	}
	return headers
}
