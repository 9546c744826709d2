package main

import (
	"testing"
)

// TestNewRootCmd tests the root command creation.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "crawlsite" {
			t.Errorf("expected use 'crawlsite', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has long description", func(t *testing.T) {
		t.Parallel()
		if cmd.Long == "" {
			t.Error("expected non-empty long description")
		}
	})

	t.Run("has version", func(t *testing.T) {
		t.Parallel()
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("has verbose flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.PersistentFlags().Lookup("verbose")
		if flag == nil {
			t.Fatal("expected verbose flag")
		}
		if flag.Shorthand != "v" {
			t.Errorf("expected shorthand 'v', got %q", flag.Shorthand)
		}
		if flag.DefValue != "false" {
			t.Errorf("expected default 'false', got %q", flag.DefValue)
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()
		subcommands := cmd.Commands()
		if len(subcommands) == 0 {
			t.Error("expected subcommands")
		}

		hasCrawl := false
		hasReport := false
		for _, sub := range subcommands {
			if sub.Use == "crawl [host]" {
				hasCrawl = true
			}
			if sub.Use == "report [host]" {
				hasReport = true
			}
		}
		if !hasCrawl {
			t.Error("expected crawl subcommand")
		}
		if !hasReport {
			t.Error("expected report subcommand")
		}
	})

	t.Run("silences usage and errors", func(t *testing.T) {
		t.Parallel()
		if !cmd.SilenceUsage {
			t.Error("expected SilenceUsage to be true")
		}
		if !cmd.SilenceErrors {
			t.Error("expected SilenceErrors to be true")
		}
	})
}

// TestNormalizeHostArg tests host argument cleanup.
func TestNormalizeHostArg(t *testing.T) {
	t.Parallel()

	tests := []struct {
		arg  string
		want string
	}{
		{arg: "example.com", want: "example.com"},
		{arg: "Example.COM", want: "example.com"},
		{arg: "https://example.com", want: "example.com"},
		{arg: "https://Example.com/about", want: "example.com"},
		{arg: "example.com/path", want: "example.com"},
		{arg: " example.com ", want: "example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			t.Parallel()

			if got := normalizeHostArg(tt.arg); got != tt.want {
				t.Errorf("normalizeHostArg(%q) = %q, want %q", tt.arg, got, tt.want)
			}
		})
	}
}
