package report

import (
	"io"
)

// Writer defines the interface for ledger statistics output.
type Writer interface {
	// WriteStats outputs the statistics to the configured destination.
	// Returns the number of bytes written and any error encountered.
	WriteStats(stats *Stats) (int, error)
}

// NewWriter returns the Writer for format: "text", "json" or "markdown".
// Unknown formats fall back to text.
func NewWriter(format string, output io.Writer) Writer {
	switch format {
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint())
	case FormatMarkdown:
		return NewMarkdownWriter(output)
	default:
		return NewSimpleWriter(output)
	}
}

// Output formats accepted by NewWriter.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
