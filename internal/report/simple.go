package report

import (
	"fmt"
	"io"
	"strings"
)

// SimpleWriter outputs ledger statistics as plain text for the terminal.
type SimpleWriter struct {
	baseWriter
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer) *SimpleWriter {
	return &SimpleWriter{baseWriter: newBaseWriter(output)}
}

// WriteStats implements Writer.
func (w *SimpleWriter) WriteStats(stats *Stats) (int, error) {
	var sb strings.Builder

	sb.WriteString(strings.Repeat("=", 60))
	sb.WriteString("\n")
	sb.WriteString("                    EMAIL LEDGER SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 60))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Companies:  %d\n", stats.Total))
	sb.WriteString(fmt.Sprintf("With email: %d (%.1f%%)\n\n", stats.Found, stats.FoundRate()))

	if len(stats.ByStatus) > 0 {
		sb.WriteString("BY STATUS\n")
		for _, c := range stats.ByStatus {
			sb.WriteString(fmt.Sprintf("  %-24s %d\n", c.Label, c.Count))
		}
		sb.WriteString("\n")
	}

	if len(stats.ByCountry) > 0 {
		sb.WriteString("BY TARGET COUNTRY\n")
		for _, c := range stats.ByCountry {
			sb.WriteString(fmt.Sprintf("  %-24s %d/%d\n", c.Country, c.Found, c.Total))
		}
		sb.WriteString("\n")
	}

	if len(stats.Duplicates) > 0 {
		sb.WriteString("DUPLICATE COMPANIES\n")
		for _, d := range stats.Duplicates {
			sb.WriteString("  - " + d + "\n")
		}
		sb.WriteString("\n")
	}

	return w.output.Write([]byte(sb.String()))
}
