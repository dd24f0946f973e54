// Package sqlite provides the public API for the SQLite remote tabular
// backend. It exposes the factory while keeping the table mapping and row
// decoding internal.
package sqlite

import (
	"context"
	"log/slog"

	"github.com/mesh-intelligence/habitlog/internal/sqlite"
	"github.com/mesh-intelligence/habitlog/pkg/types"
)

// Store is an attached remote tabular store.
type Store interface {
	ReadLedger(ctx context.Context) (*types.Ledger, error)
	WriteLedger(ctx context.Context, l *types.Ledger) error
	Provision(ctx context.Context) error
	Detach() error
}

// Errors returned by Open and Store operations.
var (
	ErrNotConfigured = sqlite.ErrNotConfigured
	ErrTableMissing  = sqlite.ErrTableMissing
)

// DecodeError reports a remote row that could not be decoded.
type DecodeError = sqlite.DecodeError

// Open attaches a backend to the database named by config.
//
// Example:
//
//	store, err := sqlite.Open(types.RemoteConfig{
//	    Backend: types.BackendSQLite,
//	    DSN:     "remote.db",
//	}, nil)
//	if err != nil {
//	    return err
//	}
//	defer store.Detach()
func Open(config types.RemoteConfig, logger *slog.Logger) (Store, error) {
	b := sqlite.NewBackend(logger)
	if err := b.Attach(config); err != nil {
		return nil, err
	}
	return b, nil
}
