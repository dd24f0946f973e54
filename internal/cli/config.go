package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/habitlog/internal/paths"
	"github.com/mesh-intelligence/habitlog/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	envPrefix = "HABITLOG"

	cfgKeyDataDir       = "data_dir"
	cfgKeyDataFile      = "data_file"
	cfgKeyRemoteBackend = "remote.backend"
	cfgKeyRemoteDSN     = "remote.dsn"
	cfgKeyLogLevel      = "log_level"

	defaultLogLevel = "warn"
)

// envKeys are the config keys that HABITLOG_* variables override. data_dir
// is absent because its env variable ranks below config.yaml and is
// handled by paths.ResolveDataDir.
var envKeys = []string{cfgKeyDataFile, cfgKeyRemoteBackend, cfgKeyRemoteDSN, cfgKeyLogLevel}

// loadConfig reads config.yaml from configDir using Viper. A missing
// config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyDataFile, types.DefaultDataFile)
	v.SetDefault(cfgKeyRemoteBackend, "")
	v.SetDefault(cfgKeyRemoteDSN, "")
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return v, nil
}

// resolveConfig builds the validated types.Config for this invocation and
// returns the config directory and log level alongside it.
func resolveConfig(flags rootFlags) (string, types.Config, string, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return "", types.Config{}, "", fmt.Errorf("resolving config directory: %w", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return "", types.Config{}, "", err
	}
	dataDir, err := paths.ResolveDataDir(flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return "", types.Config{}, "", fmt.Errorf("resolving data directory: %w", err)
	}

	// Only home-relative DSNs are rewritten; file: URIs pass through.
	dsn := v.GetString(cfgKeyRemoteDSN)
	if strings.HasPrefix(dsn, "~") {
		if dsn, err = paths.Expand(dsn); err != nil {
			return "", types.Config{}, "", fmt.Errorf("resolving remote dsn: %w", err)
		}
	}

	cfg := types.Config{
		DataDir:  dataDir,
		DataFile: v.GetString(cfgKeyDataFile),
		Remote: types.RemoteConfig{
			Backend: v.GetString(cfgKeyRemoteBackend),
			DSN:     dsn,
		},
	}
	if err := cfg.Validate(); err != nil {
		return "", types.Config{}, "", fmt.Errorf("invalid config: %w", err)
	}
	return configDir, cfg, v.GetString(cfgKeyLogLevel), nil
}
