package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for crawlsite.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawlsite",
		Short: "Polite single-host web crawler",
		Long: `crawlsite maps a single website by following its internal links.

It honors robots.txt rules and crawl delays, remembers fetched pages in
a session file so later runs only refetch what has expired, and can
archive page bodies and keep a fetch history database.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewReportCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
