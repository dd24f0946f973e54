// Package localfile implements the Local File Backend: the whole Ledger as
// one JSON document on disk. Reads tolerate hand edits (comments, trailing
// commas) and upgrade legacy layouts; writes replace the file atomically.
package localfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/mesh-intelligence/habitlog/pkg/types"
)

// Backend reads and writes the Ledger at a single file path.
type Backend struct {
	path   string
	logger *slog.Logger
}

// New returns a Backend for path. A nil logger uses slog.Default().
func New(path string, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{path: path, logger: logger}
}

// Path returns the backing file path.
func (b *Backend) Path() string {
	return b.path
}

// Exists reports whether the backing file exists.
func (b *Backend) Exists() (bool, error) {
	_, err := os.Stat(b.path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("checking %s: %w", b.path, err)
}

// Read loads the Ledger and returns the names of the legacy migrations that
// were applied, if any. Read never writes; re-persisting a migrated Ledger
// is the caller's decision. A missing file yields an error matching
// fs.ErrNotExist.
func (b *Backend) Read() (*types.Ledger, []string, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", b.path, err)
	}
	l, migrations, err := Decode(data)
	if err != nil {
		return nil, nil, fmt.Errorf("decoding %s: %w", b.path, err)
	}
	if len(migrations) > 0 {
		b.logger.Info("migrated legacy ledger file", "path", b.path, "migrations", migrations)
	}
	return l, migrations, nil
}

// Write replaces the backing file with l, creating parent directories as
// needed. Either the old or the new content is on disk, never a mix.
func (b *Backend) Write(l *types.Ledger) error {
	data, err := Encode(l)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := atomic.WriteFile(b.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing %s: %w", b.path, err)
	}
	b.logger.Debug("wrote ledger file", "path", b.path, "bytes", len(data))
	return nil
}

// Remove deletes the backing file. A missing file is not an error.
func (b *Backend) Remove() error {
	if err := os.Remove(b.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", b.path, err)
	}
	return nil
}

// Encode renders l as indented JSON with a trailing newline.
func Encode(l *types.Ledger) ([]byte, error) {
	c := l.Clone()
	c.Normalize()
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding ledger: %w", err)
	}
	return append(data, '\n'), nil
}
