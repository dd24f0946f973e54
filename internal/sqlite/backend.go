// Package sqlite implements the Remote Tabular Backend over a SQLite
// database. The Ledger is stored as four flat tables (habits, completions,
// problems, daily_notes) that are read whole and rewritten whole.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/habitlog/pkg/types"
)

// Backend errors.
var (
	ErrAlreadyAttached = errors.New("backend already attached")
	ErrDetached        = errors.New("backend detached")
	ErrNotConfigured   = errors.New("remote backend not configured")
	ErrTableMissing    = errors.New("table missing")
)

// Backend is a connection to one remote tabular database. Call Attach
// before use and Detach when done.
type Backend struct {
	mu       sync.Mutex
	attached bool
	config   types.RemoteConfig
	db       *sql.DB
	logger   *slog.Logger
}

// NewBackend creates a detached backend. A nil logger uses slog.Default().
func NewBackend(logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{logger: logger}
}

// Attach opens the database named by config.DSN.
// Returns ErrNotConfigured if config has no backend or DSN,
// types.ErrBackendUnknown for a backend other than sqlite, and
// ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.RemoteConfig) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return ErrAlreadyAttached
	}
	if !config.Configured() {
		return ErrNotConfigured
	}
	if config.Backend != types.BackendSQLite {
		return fmt.Errorf("%w: %q", types.ErrBackendUnknown, config.Backend)
	}

	db, err := sql.Open("sqlite", config.DSN)
	if err != nil {
		return fmt.Errorf("opening %s: %w", config.DSN, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("connecting to %s: %w", config.DSN, err)
	}

	b.db = db
	b.config = config
	b.attached = true
	return nil
}

// Detach closes the database. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	b.attached = false
	if err != nil {
		return fmt.Errorf("closing %s: %w", b.config.DSN, err)
	}
	return nil
}

// Provision creates any of the four tables that do not exist yet. Existing
// tables and their rows are left alone.
func (b *Backend) Provision(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return ErrDetached
	}
	for _, t := range ledgerTables {
		if _, err := b.db.ExecContext(ctx, t.createSQL()); err != nil {
			return fmt.Errorf("creating table %s: %w", t.name, err)
		}
	}
	b.logger.Debug("provisioned remote tables", "dsn", b.config.DSN)
	return nil
}

// tableExists reports whether the named table exists.
func (b *Backend) tableExists(ctx context.Context, name string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return false, ErrDetached
	}
	return hasTable(ctx, b.db, name)
}

// ReadLedger reads all four tables and decodes them into a Ledger.
// A missing habits, completions, or problems table returns ErrTableMissing;
// a missing daily_notes table yields no notes. Any malformed row fails the
// whole read with a *DecodeError.
func (b *Backend) ReadLedger(ctx context.Context) (*types.Ledger, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil, ErrDetached
	}

	l := types.NewLedger()
	for _, t := range ledgerTables {
		ok, err := hasTable(ctx, b.db, t.name)
		if err != nil {
			return nil, err
		}
		if !ok {
			if t.optional {
				b.logger.Debug("remote table absent, skipping", "table", t.name)
				continue
			}
			return nil, fmt.Errorf("%w: %s", ErrTableMissing, t.name)
		}
		rows, err := selectAll(ctx, b.db, t.name)
		if err != nil {
			return nil, err
		}
		if err := t.decode(l, rows); err != nil {
			return nil, err
		}
	}
	l.Normalize()
	return l, nil
}

// WriteLedger replaces the contents of every table with l in a single
// transaction. Missing habits, completions, and problems tables are created
// with their canonical columns; a missing daily_notes table is skipped.
func (b *Backend) WriteLedger(ctx context.Context, l *types.Ledger) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return ErrDetached
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning write transaction: %w", err)
	}
	defer tx.Rollback()

	for _, t := range ledgerTables {
		if t.optional {
			ok, err := hasTable(ctx, tx, t.name)
			if err != nil {
				return err
			}
			if !ok {
				b.logger.Debug("remote table absent, not written", "table", t.name)
				continue
			}
		} else if _, err := tx.ExecContext(ctx, t.createSQL()); err != nil {
			return fmt.Errorf("creating table %s: %w", t.name, err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+t.name); err != nil {
			return fmt.Errorf("clearing %s: %w", t.name, err)
		}
		if err := insertRows(ctx, tx, t.name, t.columns, t.encode(l)); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing write transaction: %w", err)
	}
	return nil
}
