package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/habitlog/pkg/habitlog"
	"github.com/mesh-intelligence/habitlog/pkg/sqlite"
	"github.com/mesh-intelligence/habitlog/pkg/types"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	DataDir  string             `yaml:"data_dir,omitempty"`
	DataFile string             `yaml:"data_file"`
	Remote   types.RemoteConfig `yaml:"remote"`
	LogLevel string             `yaml:"log_level"`
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize habitlog storage",
		Long: "Write a default config.yaml if none exists, create the local data file,\n" +
			"and create the remote tables when a remote backend is configured.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, a)
		},
	}
}

func runInit(cmd *cobra.Command, a *app) error {
	if err := os.MkdirAll(a.configDir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(a.configDir, configFileExt)
	if err := writeConfigIfMissing(configPath, a.flags.dataDir, a.cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	s, err := a.session()
	if err != nil {
		return err
	}
	l, err := s.Load(cmd.Context())
	if err != nil {
		return err
	}

	if a.cfg.Remote.Configured() {
		if err := provisionRemote(cmd, a, l, s.Outcome().Source != habitlog.SourceRemote); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "habitlog initialized\nconfig: %s\ndata:   %s\n", configPath, s.LocalPath())
	return nil
}

// provisionRemote creates the remote tables and, when the Ledger did not
// come from the remote, copies it there so the first remote read is not
// empty.
func provisionRemote(cmd *cobra.Command, a *app, l *types.Ledger, mirror bool) error {
	store, err := sqlite.Open(a.cfg.Remote, a.logger)
	if err != nil {
		return fmt.Errorf("opening remote backend: %w", err)
	}
	defer store.Detach()

	if err := store.Provision(cmd.Context()); err != nil {
		return fmt.Errorf("provisioning remote backend: %w", err)
	}
	if !mirror {
		return nil
	}
	if err := store.WriteLedger(cmd.Context(), l); err != nil {
		return fmt.Errorf("copying ledger to remote backend: %w", err)
	}
	a.logger.Info("copied ledger to remote backend", "dsn", a.cfg.Remote.DSN)
	return nil
}

// writeConfigIfMissing creates config.yaml from the effective settings if
// the file does not exist. If it already exists, the function returns nil
// (idempotent).
func writeConfigIfMissing(path, dataDir string, cfg types.Config) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&configFile{
		DataDir:  dataDir,
		DataFile: cfg.DataFile,
		Remote:   cfg.Remote,
		LogLevel: defaultLogLevel,
	})
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	header := []byte("# habitlog configuration\n")
	return os.WriteFile(path, append(header, data...), 0o644)
}
