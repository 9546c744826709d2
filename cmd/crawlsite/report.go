package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mwalsh/crawlsite/internal/config"
	"github.com/mwalsh/crawlsite/internal/log"
	"github.com/mwalsh/crawlsite/internal/report"
	"github.com/mwalsh/crawlsite/internal/session"
)

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [host]",
		Short: "Summarize a crawl session",
		Long: `Report reads a crawl session file and prints a summary: page and
status counts, sitemaps, external hosts, and malformed links.

Examples:
  # Human-readable summary for a crawled host
  crawlsite report example.com

  # Machine-readable summary
  crawlsite report --json example.com

  # Markdown summary written to a file
  crawlsite report --markdown -o report.md example.com`,
		Args: cobra.MaximumNArgs(1),
		RunE: runReportCmd,
	}

	cmd.Flags().StringP("session", "s", "",
		"Session file path (default: <host>.json with dots as underscores)")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runReportCmd executes the report command.
func runReportCmd(cmd *cobra.Command, args []string) error {
	sessionPath, err := cmd.Flags().GetString("session")
	if err != nil {
		return err
	}
	jsonOut, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOut, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	if jsonOut && markdownOut {
		return fmt.Errorf("conflicting report formats: --json and --markdown cannot be used together")
	}

	var host string
	if len(args) > 0 {
		host = normalizeHostArg(args[0])
	}
	if host == "" && sessionPath == "" {
		return config.ErrNoHost
	}
	if sessionPath == "" {
		sessionPath = session.DefaultFilename(host)
	}

	if _, err := os.Stat(sessionPath); err != nil {
		return fmt.Errorf("no session found at %s (crawl the site first)", sessionPath)
	}

	logger := log.NewSecureLogger(os.Stderr, getVerboseFlag(cmd))
	store := session.NewStore(sessionPath, session.WithStoreLogger(logger))
	sess := store.Load(host)

	summary := report.NewSummary(sess)

	output := cmd.OutOrStdout()
	if outputPath != "" {
		if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		f, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0640)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	var w report.Writer
	switch {
	case jsonOut:
		w = report.NewJSONWriter(output, report.WithPrettyPrint())
	case markdownOut:
		w = report.NewMarkdownWriter(output)
	default:
		w = report.NewSimpleWriter(output)
	}

	if _, err := w.Write(summary); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if outputPath != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", outputPath)
	}
	return nil
}
