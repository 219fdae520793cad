// Package ledger stores one result row per processed company.
//
// The ledger is the source of truth for deduplication across runs: a company
// already present is never searched again. Two backends are provided and
// chosen by file extension: an Excel workbook (the format downstream mail
// tools read) and a SQLite database for large lists.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nao1215/emailscout/internal/model"
)

// DefaultPath is the ledger file used when none is configured.
const DefaultPath = "email_results.xlsx"

// Header is the column order of the ledger.
var Header = []string{"Company", "Email", "Status", "Target Country"}

// ErrUnsupportedFormat is returned by Open for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported ledger format: use .xlsx, .db or .sqlite")

// Ledger is an append-only result store.
// Implementations serialize concurrent writers.
type Ledger interface {
	// Contains reports whether a row for company exists, including rows
	// appended earlier in the same run.
	Contains(ctx context.Context, company string) (bool, error)

	// Append durably adds one row.
	Append(ctx context.Context, row model.LedgerRow) error

	// Rows returns all rows in insertion order.
	Rows(ctx context.Context) ([]model.LedgerRow, error)

	// Duplicates returns the companies that have more than one row.
	// Rows recorded for empty input lines are not counted.
	Duplicates(ctx context.Context) ([]string, error)

	// Close releases resources.
	Close() error
}

// Open opens or creates the ledger at path, choosing the backend by
// extension.
func Open(path string) (Ledger, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return OpenExcel(path)
	case ".db", ".sqlite", ".sqlite3":
		return OpenSQLite(path, DefaultOptions())
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// companyCounts counts rows per company.
type companyCounts map[string]int

func (c companyCounts) add(company string) {
	c[normalizeCompany(company)]++
}

func (c companyCounts) contains(company string) bool {
	return c[normalizeCompany(company)] > 0
}

func (c companyCounts) duplicates() []string {
	var out []string
	for company, n := range c {
		if company != "" && n > 1 {
			out = append(out, company)
		}
	}
	sort.Strings(out)
	return out
}

// normalizeCompany is the dedup key: the name with surrounding whitespace
// removed, otherwise compared exactly.
func normalizeCompany(company string) string {
	return strings.TrimSpace(company)
}
