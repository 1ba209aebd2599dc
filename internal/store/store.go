package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/alme-learn/alme/internal/apperr"

	// Pure Go SQLite driver (no CGO).
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Store is the SQLite-backed persistence layer. It satisfies the collaborator
// interfaces of the progress, quiz and recommend packages and stores the rest of
// the platform's entities. Statements are built with ent's SQL dialect builders
// and run through the ent driver.
type Store struct {
	db  *sql.DB
	drv *entsql.Driver
	seq sequenceCounter
	now func() time.Time
}

// builder renders statements for SQLite.
var builder = entsql.Dialect(dialect.SQLite)

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates missing tables.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Pragmas are per connection and SQLite has a single writer.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	drv := entsql.OpenDB(dialect.SQLite, db)
	if err := migrate(context.Background(), drv); err != nil {
		drv.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	var seq sequenceCounter
	if err := seq.init(context.Background(), drv); err != nil {
		drv.Close()
		return nil, err
	}

	return &Store{db: db, drv: drv, seq: seq, now: time.Now}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// EventRepo returns the LLM event repository backed by this store.
func (s *Store) EventRepo() EventRepo {
	return s
}

// applyPragmas configures SQLite for a small single-process service.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. ALME_DB environment variable
// 2. $XDG_DATA_HOME/alme/alme.db
// 3. ~/.local/share/alme/alme.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("ALME_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "alme", "alme.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

// wrap classifies a driver error: sql.ErrNoRows becomes ErrNotFound, unique and
// primary key violations become ErrConflict, everything else ErrStorage. The
// driver error stays in the chain.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%s: %w: %w", op, apperr.ErrConflict, err)
		}
	}
	return fmt.Errorf("%s: %w: %w", op, apperr.ErrStorage, err)
}

// inTx runs fn in a transaction, rolling back on error.
func (s *Store) inTx(ctx context.Context, op string, fn func(tx dialect.Tx) error) error {
	tx, err := s.drv.Tx(ctx)
	if err != nil {
		return wrap(op+": begin", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return wrap(op+": commit", err)
	}
	return nil
}

// exec runs a built statement on conn, the driver or an open transaction.
func exec(ctx context.Context, conn dialect.ExecQuerier, stmt entsql.Querier) (sql.Result, error) {
	query, args := stmt.Query()
	var res sql.Result
	if err := conn.Exec(ctx, query, args, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// selectAll runs sel and scans every row into dst, a pointer to a slice of
// structs whose sql tags name the selected columns.
func selectAll(ctx context.Context, conn dialect.ExecQuerier, sel *entsql.Selector, dst any) error {
	query, args := sel.Query()
	var rows entsql.Rows
	if err := conn.Query(ctx, query, args, &rows); err != nil {
		return err
	}
	defer rows.Close()
	return entsql.ScanSlice(rows, dst)
}

// selectInt runs a single-value select such as a COUNT.
func selectInt(ctx context.Context, conn dialect.ExecQuerier, sel *entsql.Selector) (int, error) {
	query, args := sel.Query()
	var rows entsql.Rows
	if err := conn.Query(ctx, query, args, &rows); err != nil {
		return 0, err
	}
	defer rows.Close()
	return entsql.ScanInt(rows)
}

// count returns the number of rows of table matching p, or all rows when p is nil.
func count(ctx context.Context, conn dialect.ExecQuerier, table string, p *entsql.Predicate) (int, error) {
	sel := builder.Select(entsql.Count("*")).From(builder.Table(table))
	if p != nil {
		sel.Where(p)
	}
	return selectInt(ctx, conn, sel)
}

// expectRow turns a zero-row update or delete into ErrNotFound.
func expectRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return wrap("rows affected", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %q: %w", kind, id, apperr.ErrNotFound)
	}
	return nil
}

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
