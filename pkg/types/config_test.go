package types

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty data file returns ErrDataFileEmpty",
			config:  Config{DataDir: "/tmp/data"},
			wantErr: ErrDataFileEmpty,
		},
		{
			name:    "unknown remote backend returns ErrBackendUnknown",
			config:  Config{DataFile: DefaultDataFile, Remote: RemoteConfig{Backend: "gsheets", DSN: "x"}},
			wantErr: ErrBackendUnknown,
		},
		{
			name:    "valid local-only config",
			config:  Config{DataDir: "/tmp/data", DataFile: DefaultDataFile},
			wantErr: nil,
		},
		{
			name:    "sqlite remote without DSN is valid at config level",
			config:  Config{DataFile: DefaultDataFile, Remote: RemoteConfig{Backend: BackendSQLite}},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %v, got nil", tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigLocalPath(t *testing.T) {
	c := Config{DataFile: "h.json"}
	if got := c.LocalPath(); got != "h.json" {
		t.Fatalf("LocalPath() = %q, want h.json", got)
	}
	c.DataDir = "/var/lib/habitlog"
	if got, want := c.LocalPath(), filepath.Join("/var/lib/habitlog", "h.json"); got != want {
		t.Fatalf("LocalPath() = %q, want %q", got, want)
	}
}

func TestRemoteConfigConfigured(t *testing.T) {
	if (RemoteConfig{}).Configured() {
		t.Fatal("zero RemoteConfig should not be configured")
	}
	if (RemoteConfig{Backend: BackendSQLite}).Configured() {
		t.Fatal("RemoteConfig without DSN should not be configured")
	}
	if !(RemoteConfig{Backend: BackendSQLite, DSN: "remote.db"}).Configured() {
		t.Fatal("RemoteConfig with backend and DSN should be configured")
	}
}
