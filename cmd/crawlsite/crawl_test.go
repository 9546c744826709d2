package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
)

// writeSiteConfig writes a .crawlsite file with per-site overrides and
// returns its path.
func writeSiteConfig(t *testing.T) string {
	t.Helper()

	content := `sites:
  example.com:
    delay: 7s
    cacheLimit: 1h
    userAgent: "site-agent/1.0"
`
	path := filepath.Join(t.TempDir(), ".crawlsite")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

// newTestCrawlCmd returns a fresh root command and its crawl subcommand.
func newTestCrawlCmd(t *testing.T) (*cobra.Command, *cobra.Command) {
	t.Helper()

	root := NewRootCmd()
	for _, c := range root.Commands() {
		if c.Name() == "crawl" {
			return root, c
		}
	}
	t.Fatal("crawl command not registered")
	return nil, nil
}

// TestBuildCrawlConfig tests assembling the config from flags and the
// site configuration file.
func TestBuildCrawlConfig(t *testing.T) {
	t.Parallel()

	t.Run("site overrides apply when flags are untouched", func(t *testing.T) {
		t.Parallel()

		_, cmd := newTestCrawlCmd(t)
		if err := cmd.Flags().Set("config", writeSiteConfig(t)); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildCrawlConfig(cmd, []string{"example.com"})
		if err != nil {
			t.Fatalf("buildCrawlConfig: %v", err)
		}

		if cfg.CrawlDelay != 7*time.Second {
			t.Errorf("CrawlDelay = %v, want 7s from the site file", cfg.CrawlDelay)
		}
		if cfg.CacheLimit != time.Hour {
			t.Errorf("CacheLimit = %v, want 1h from the site file", cfg.CacheLimit)
		}
		if cfg.UserAgent != "site-agent/1.0" {
			t.Errorf("UserAgent = %q, want the site file's agent", cfg.UserAgent)
		}
	})

	t.Run("explicit flags beat site overrides", func(t *testing.T) {
		t.Parallel()

		_, cmd := newTestCrawlCmd(t)
		if err := cmd.Flags().Set("config", writeSiteConfig(t)); err != nil {
			t.Fatal(err)
		}
		if err := cmd.Flags().Set("delay", "3s"); err != nil {
			t.Fatal(err)
		}
		if err := cmd.Flags().Set("user-agent", "cli-agent/2.0"); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildCrawlConfig(cmd, []string{"example.com"})
		if err != nil {
			t.Fatalf("buildCrawlConfig: %v", err)
		}

		if cfg.CrawlDelay != 3*time.Second {
			t.Errorf("CrawlDelay = %v, explicit flag should win", cfg.CrawlDelay)
		}
		if cfg.UserAgent != "cli-agent/2.0" {
			t.Errorf("UserAgent = %q, explicit flag should win", cfg.UserAgent)
		}
		if cfg.CacheLimit != time.Hour {
			t.Errorf("CacheLimit = %v, untouched flag should take the site value", cfg.CacheLimit)
		}
	})

	t.Run("no-cache beats the site cache limit", func(t *testing.T) {
		t.Parallel()

		_, cmd := newTestCrawlCmd(t)
		if err := cmd.Flags().Set("config", writeSiteConfig(t)); err != nil {
			t.Fatal(err)
		}
		if err := cmd.Flags().Set("no-cache", "true"); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildCrawlConfig(cmd, []string{"example.com"})
		if err != nil {
			t.Fatalf("buildCrawlConfig: %v", err)
		}

		if cfg.CacheLimit != 0 {
			t.Errorf("CacheLimit = %v, want 0 with --no-cache", cfg.CacheLimit)
		}
	})

	t.Run("verbose flag flows into the config", func(t *testing.T) {
		t.Parallel()

		root, cmd := newTestCrawlCmd(t)
		if err := root.PersistentFlags().Set("verbose", "true"); err != nil {
			t.Fatal(err)
		}
		if err := cmd.Flags().Set("config", writeSiteConfig(t)); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildCrawlConfig(cmd, []string{"example.com"})
		if err != nil {
			t.Fatalf("buildCrawlConfig: %v", err)
		}

		if !cfg.Verbose {
			t.Error("Verbose should follow the persistent flag")
		}
	})

	t.Run("missing explicit config file is an error", func(t *testing.T) {
		t.Parallel()

		_, cmd := newTestCrawlCmd(t)
		if err := cmd.Flags().Set("config", filepath.Join(t.TempDir(), "nope")); err != nil {
			t.Fatal(err)
		}

		if _, err := buildCrawlConfig(cmd, []string{"example.com"}); err == nil {
			t.Error("expected error for a missing explicit config file")
		}
	})
}
