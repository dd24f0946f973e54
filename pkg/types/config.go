package types

import (
	"errors"
	"path/filepath"
)

// Config holds the local data location and the optional remote backend
// used by the persistence layer.
type Config struct {
	DataDir  string       `json:"data_dir" yaml:"data_dir"`
	DataFile string       `json:"data_file" yaml:"data_file"`
	Remote   RemoteConfig `json:"remote" yaml:"remote"`
}

// RemoteConfig selects the remote tabular backend. A zero RemoteConfig means
// no remote is configured; that is not an error.
type RemoteConfig struct {
	Backend string `json:"backend" yaml:"backend"`
	DSN     string `json:"dsn" yaml:"dsn"`
}

// Supported remote backend names.
const (
	BackendSQLite = "sqlite"
)

// DefaultDataFile is the local backing file name.
const DefaultDataFile = "habit_data.json"

// Config validation errors.
var (
	ErrDataFileEmpty  = errors.New("data file must not be empty")
	ErrBackendUnknown = errors.New("unknown remote backend")
)

// knownBackends lists the remote backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.DataFile == "" {
		return ErrDataFileEmpty
	}
	if c.Remote.Backend != "" && !knownBackends[c.Remote.Backend] {
		return ErrBackendUnknown
	}
	return nil
}

// LocalPath returns the path of the local backing file.
func (c Config) LocalPath() string {
	dir := c.DataDir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, c.DataFile)
}

// Configured reports whether a remote backend has been selected and given
// a DSN.
func (r RemoteConfig) Configured() bool {
	return r.Backend != "" && r.DSN != ""
}
