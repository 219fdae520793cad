// Package main provides the entry point for the emailscout CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for emailscout.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emailscout",
		Short: "Discover contact email addresses for a list of companies",
		Long: `emailscout discovers contact email addresses for a list of companies.

For every company it queries a search engine, fetches the candidate pages
and extracts the most plausible contact address. Results are appended to a
ledger (Excel workbook or SQLite database) and a checkpoint allows an
interrupted run to continue where it stopped.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewSummaryCmd())
	cmd.AddCommand(NewInitCmd())
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
