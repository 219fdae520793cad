package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/emailscout/internal/model"
)

// SQLiteLedger stores the ledger in a SQLite database.
// Each row also records when it was written.
type SQLiteLedger struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// path is the path to the SQLite database file.
	path string
}

// Options configures SQLiteLedger behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// OpenSQLite opens or creates a ledger database at path.
// If CreateIfNotExists is false and the file doesn't exist, an error is returned.
func OpenSQLite(path string, opts Options) (*SQLiteLedger, error) {
	if !opts.CreateIfNotExists {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("ledger database not found at %s", path)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check ledger path: %w", err)
		}
	} else if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create ledger directory: %w", err)
		}
	}

	// mode=rw prevents modernc.org/sqlite from creating a new file.
	dsn := path + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = path + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	l := &SQLiteLedger{db: db, path: path}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := l.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return l, nil
}

// Close implements Ledger.
func (l *SQLiteLedger) Close() error {
	return l.db.Close()
}

func (l *SQLiteLedger) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS ledger (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		company TEXT NOT NULL,
		email TEXT NOT NULL,
		status TEXT NOT NULL,
		target_country TEXT NOT NULL DEFAULT '',
		recorded_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_ledger_company ON ledger(company);
	`
	_, err := l.db.ExecContext(context.Background(), schema)
	return err
}

// Contains implements Ledger.
func (l *SQLiteLedger) Contains(ctx context.Context, company string) (bool, error) {
	var exists bool
	err := l.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM ledger WHERE company = ?)",
		normalizeCompany(company),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to query ledger: %w", err)
	}
	return exists, nil
}

// Append implements Ledger.
func (l *SQLiteLedger) Append(ctx context.Context, row model.LedgerRow) error {
	_, err := l.db.ExecContext(ctx,
		"INSERT INTO ledger (company, email, status, target_country) VALUES (?, ?, ?, ?)",
		normalizeCompany(row.Company), row.Email, row.Status, row.TargetCountry,
	)
	if err != nil {
		return fmt.Errorf("failed to append ledger row: %w", err)
	}
	return nil
}

// Rows implements Ledger.
func (l *SQLiteLedger) Rows(ctx context.Context) ([]model.LedgerRow, error) {
	rows, err := l.db.QueryContext(ctx,
		"SELECT company, email, status, target_country FROM ledger ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger rows: %w", err)
	}
	defer rows.Close()

	var out []model.LedgerRow
	for rows.Next() {
		var r model.LedgerRow
		if err := rows.Scan(&r.Company, &r.Email, &r.Status, &r.TargetCountry); err != nil {
			return nil, fmt.Errorf("failed to scan ledger row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Duplicates implements Ledger.
func (l *SQLiteLedger) Duplicates(ctx context.Context) ([]string, error) {
	rows, err := l.db.QueryContext(ctx,
		"SELECT company FROM ledger WHERE company <> '' GROUP BY company HAVING COUNT(*) > 1 ORDER BY company")
	if err != nil {
		return nil, fmt.Errorf("failed to query duplicate companies: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var company string
		if err := rows.Scan(&company); err != nil {
			return nil, err
		}
		out = append(out, company)
	}
	return out, rows.Err()
}
