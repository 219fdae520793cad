package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/emailscout/internal/model"
	"github.com/nao1215/emailscout/internal/pipeline"
)

// maxReasonLength bounds reasons shown in Markdown tables.
const maxReasonLength = 80

// MarkdownWriter outputs reports in Markdown format for sharing.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// RunReport describes one run for WriteRun.
type RunReport struct {
	RunID         string
	Version       string
	InputPath     string
	LedgerPath    string
	TargetCountry string
	Summary       *pipeline.Summary
}

// WriteStats implements Writer.
func (w *MarkdownWriter) WriteStats(stats *Stats) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Email Ledger Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Companies", strconv.Itoa(stats.Total)},
			{"With email", fmt.Sprintf("%d (%.1f%%)", stats.Found, stats.FoundRate())},
		},
	})
	md.PlainText("")

	w.writeCounts(md, "By Status", stats.ByStatus)

	if len(stats.ByCountry) > 0 {
		md.H2("By Target Country")
		md.PlainText("")
		rows := make([][]string, len(stats.ByCountry))
		for i, c := range stats.ByCountry {
			rows[i] = []string{c.Country, strconv.Itoa(c.Total), strconv.Itoa(c.Found)}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Target Country", "Companies", "With Email"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	w.writeDuplicates(md, stats.Duplicates)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteRun outputs the report of a single run.
func (w *MarkdownWriter) WriteRun(run *RunReport) (int, error) {
	md := markdown.NewMarkdown(w.output)
	s := run.Summary

	md.H1("Email Discovery Run")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run ID", "`" + run.RunID + "`"},
			{"Input", "`" + run.InputPath + "`"},
			{"Target Country", valueOrDash(run.TargetCountry)},
			{"Ledger", "`" + run.LedgerPath + "`"},
			{"Started", s.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", s.FinishedAt.Sub(s.StartedAt).Round(time.Second).String()},
			{"Started At Line", strconv.Itoa(s.StartIndex + 1)},
			{"Companies Handled", fmt.Sprintf("%d of %d", s.Committed, s.Total)},
			{"Status", runStatus(s)},
		},
	})
	md.PlainText("")

	w.writeRunAlert(md, s)
	w.writeCounts(md, "Outcomes", summaryCounts(s))

	if len(s.Skipped) > 0 {
		md.H2("Skipped Companies")
		md.PlainText("")
		rows := make([][]string, len(s.Skipped))
		for i, e := range s.Skipped {
			rows[i] = []string{
				strconv.Itoa(e.Index),
				valueOrDash(e.Company),
				truncateString(e.Reason, maxReasonLength),
			}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Line", "Company", "Reason"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	w.writeDuplicates(md, s.ExistingDuplicates)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeCounts writes a count table and a pie chart of it.
func (w *MarkdownWriter) writeCounts(md *markdown.Markdown, title string, counts []Count) {
	md.H2(title)
	md.PlainText("")

	if len(counts) == 0 {
		md.PlainText("No companies recorded.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(counts))
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle(title),
		piechart.WithShowData(true),
	)
	for i, c := range counts {
		rows[i] = []string{c.Label, strconv.Itoa(c.Count)}
		chart.LabelAndIntValue(c.Label, uint64(c.Count)) //nolint:gosec // counts are never negative
	}
	md.Table(markdown.TableSet{
		Header: []string{"Status", "Count"},
		Rows:   rows,
	})
	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeRunAlert writes an alert for runs that need attention.
func (w *MarkdownWriter) writeRunAlert(md *markdown.Markdown, s *pipeline.Summary) {
	failed := 0
	for status, n := range s.Statuses {
		if model.StatusCategory(status) != status {
			failed += n
		}
	}

	switch {
	case s.Interrupted:
		md.Warningf(
			"The run was interrupted after %d of %d companies. Run again to resume after the last recorded company.",
			s.StartIndex+s.Committed, s.Total,
		)
	case failed > 0:
		md.Importantf("%d compan(ies) failed and were recorded with an error status.", failed)
	case s.ResumeMissing:
		md.Note("The checkpointed company was not in this list, so the run started from the first line.")
	default:
		md.Tip("All companies were handled.")
	}
	md.PlainText("")
}

// writeDuplicates writes a caution listing duplicate companies.
func (w *MarkdownWriter) writeDuplicates(md *markdown.Markdown, duplicates []string) {
	if len(duplicates) == 0 {
		return
	}
	md.Cautionf("The ledger holds more than one row for %d compan(ies). They were left untouched.", len(duplicates))
	md.PlainText("")
	md.BulletList(duplicates...)
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [emailscout](https://github.com/nao1215/emailscout)*")
}

// summaryCounts groups run statuses into report categories.
func summaryCounts(s *pipeline.Summary) []Count {
	grouped := make(map[string]int)
	for status, n := range s.Statuses {
		grouped[model.StatusCategory(status)] += n
	}
	return orderedCounts(grouped)
}

func runStatus(s *pipeline.Summary) string {
	if s.Interrupted {
		return "⚠️ Interrupted"
	}
	return "✅ Complete"
}

func valueOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
