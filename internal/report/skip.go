package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nao1215/emailscout/internal/model"
)

// DefaultSkipReportPath is the skip report written when none is configured.
const DefaultSkipReportPath = "skipped_companies.txt"

// skipReportHeader is the first line of the skip report.
const skipReportHeader = "Index\tCompany\tReason"

// WriteSkipReport writes entries as tab-separated lines under a header.
// Tabs and line breaks inside fields are replaced with spaces.
func WriteSkipReport(w io.Writer, entries []model.SkipEntry) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, skipReportHeader); err != nil {
		return err
	}
	for _, e := range entries {
		line := strings.Join([]string{
			strconv.Itoa(e.Index),
			flattenField(e.Company),
			flattenField(e.Reason),
		}, "\t")
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// SaveSkipReport writes the skip report to path, replacing any earlier
// report. Nothing is written when entries is empty; the returned bool
// reports whether a file was written.
func SaveSkipReport(path string, entries []model.SkipEntry) (bool, error) {
	if len(entries) == 0 {
		return false, nil
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return false, fmt.Errorf("failed to create skip report directory: %w", err)
		}
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return false, fmt.Errorf("failed to create skip report: %w", err)
	}
	if err := WriteSkipReport(f, entries); err != nil {
		_ = f.Close()
		return false, fmt.Errorf("failed to write skip report: %w", err)
	}
	if err := f.Close(); err != nil {
		return false, fmt.Errorf("failed to close skip report: %w", err)
	}
	return true, nil
}

var fieldBreaks = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ")

func flattenField(s string) string {
	return fieldBreaks.Replace(s)
}
