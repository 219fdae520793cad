package ledger

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/nao1215/emailscout/internal/model"
)

// ExcelLedger keeps the ledger in an .xlsx workbook.
//
// The whole sheet is held in memory; every Append rewrites the workbook to
// a temporary file and renames it over the ledger.
type ExcelLedger struct {
	mu     sync.Mutex
	path   string
	rows   []model.LedgerRow
	counts companyCounts
}

// OpenExcel loads the workbook at path, or starts an empty ledger when it
// does not exist yet. Rows are read from the first sheet; a header row is
// recognised by its "Company" cell and used to locate the columns.
func OpenExcel(path string) (*ExcelLedger, error) {
	l := &ExcelLedger{path: path, counts: make(companyCounts)}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return l, nil
		}
		return nil, fmt.Errorf("failed to stat ledger: %w", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger sheet %q: %w", sheet, err)
	}

	cols := columnIndex{company: 0, email: 1, status: 2, country: 3}
	if len(rows) > 0 && isHeader(rows[0]) {
		cols = headerColumns(rows[0])
		rows = rows[1:]
	}
	for _, r := range rows {
		row := cols.row(r)
		if row == (model.LedgerRow{}) {
			continue
		}
		l.rows = append(l.rows, row)
		l.counts.add(row.Company)
	}
	return l, nil
}

// Contains implements Ledger.
func (l *ExcelLedger) Contains(_ context.Context, company string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counts.contains(company), nil
}

// Append implements Ledger.
func (l *ExcelLedger) Append(ctx context.Context, row model.LedgerRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	rows := append(l.rows[:len(l.rows):len(l.rows)], row)
	if err := writeWorkbook(l.path, rows); err != nil {
		return err
	}
	l.rows = rows
	l.counts.add(row.Company)
	return nil
}

// Rows implements Ledger.
func (l *ExcelLedger) Rows(_ context.Context) ([]model.LedgerRow, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.LedgerRow, len(l.rows))
	copy(out, l.rows)
	return out, nil
}

// Duplicates implements Ledger.
func (l *ExcelLedger) Duplicates(_ context.Context) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counts.duplicates(), nil
}

// Close implements Ledger. Every Append is already durable.
func (l *ExcelLedger) Close() error {
	return nil
}

// writeWorkbook writes header and rows to a temporary workbook and renames
// it over path.
func writeWorkbook(path string, rows []model.LedgerRow) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write ledger header: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{r.Company, r.Email, r.Status, r.TargetCountry}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write ledger row %d: %w", i+1, err)
		}
	}
	if err := f.SetColWidth(sheet, "A", "A", 40); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "C", 30); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create ledger directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary ledger: %w", err)
	}
	tmpName := tmp.Name()

	if err := f.Write(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write ledger workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close ledger workbook: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace ledger workbook: %w", err)
	}
	return nil
}

// columnIndex maps ledger fields to sheet columns; -1 means absent.
type columnIndex struct {
	company, email, status, country int
}

func isHeader(row []string) bool {
	for _, cell := range row {
		if strings.EqualFold(strings.TrimSpace(cell), Header[0]) {
			return true
		}
	}
	return false
}

func headerColumns(row []string) columnIndex {
	cols := columnIndex{company: -1, email: -1, status: -1, country: -1}
	for i, cell := range row {
		switch strings.ToLower(strings.TrimSpace(cell)) {
		case "company":
			cols.company = i
		case "email":
			cols.email = i
		case "status":
			cols.status = i
		case "target country":
			cols.country = i
		}
	}
	return cols
}

func (c columnIndex) row(cells []string) model.LedgerRow {
	get := func(i int) string {
		if i < 0 || i >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[i])
	}
	return model.LedgerRow{
		Company:       get(c.company),
		Email:         get(c.email),
		Status:        get(c.status),
		TargetCountry: get(c.country),
	}
}
