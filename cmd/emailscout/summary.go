package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/nao1215/emailscout/internal/ledger"
	"github.com/nao1215/emailscout/internal/report"
	"github.com/spf13/cobra"
)

// NewSummaryCmd creates the summary command.
func NewSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarize the result ledger",
		Long: `Summary reads the result ledger and reports how many companies were
processed, how many have a contact address, the outcome counts per status
and per target country, and companies recorded more than once.

Examples:
  # Summarize the default ledger
  emailscout summary

  # Summarize a SQLite ledger as Markdown
  emailscout summary -l results.db --markdown

  # Write a JSON summary to a file
  emailscout summary --json -o summary.json`,
		Args: cobra.NoArgs,
		RunE: runSummaryCmd,
	}

	cmd.Flags().StringP("ledger", "l", "",
		"Result ledger (default: from configuration file or email_results.xlsx)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .emailscout in current or home directory)")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output summary in JSON format (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output summary in Markdown format (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write summary to specified file path (creates directories if needed)")

	return cmd
}

// runSummaryCmd executes the summary command.
func runSummaryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := overrideFlag(cmd.Flags(), "ledger", &cfg.LedgerPath, cmd.Flags().GetString); err != nil {
		return err
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonOutput && markdownOutput {
		return errors.New("--json and --markdown are mutually exclusive")
	}

	format := report.FormatText
	switch {
	case jsonOutput:
		format = report.FormatJSON
	case markdownOutput:
		format = report.FormatMarkdown
	}

	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	stats, err := loadStats(context.Background(), cfg.LedgerPath)
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if outputPath != "" {
		f, err := createOutputFile(outputPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if _, err := report.NewWriter(format, out).WriteStats(stats); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	if outputPath != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Summary written to: %s\n", outputPath)
	}
	return nil
}

// loadStats reads every row of the ledger at path. A missing ledger is an
// error; opening it would create an empty one.
func loadStats(ctx context.Context, path string) (*report.Stats, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("ledger not found: %s", path)
		}
		return nil, err
	}

	l, err := ledger.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	defer l.Close()

	rows, err := l.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	dups, err := l.Duplicates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	return report.NewStats(rows, dups), nil
}
