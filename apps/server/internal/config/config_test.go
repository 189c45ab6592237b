package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("Addr = %q", cfg.Addr)
	}
	if cfg.AuthMode != StorageModeSQLite || cfg.LedgerMode != StorageModeSQLite {
		t.Fatalf("modes = %q/%q, want sqlite/sqlite", cfg.AuthMode, cfg.LedgerMode)
	}
	if cfg.Arena.MaxRounds != 20 || cfg.Arena.TeamSize != 3 {
		t.Fatalf("arena defaults = %+v", cfg.Arena)
	}
}

func TestFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	body := []byte("addr: \":9090\"\nauth_mode: memory\narena:\n  max_rounds: 5\n  team_size: 2\n")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("AUTH_MODE", "postgres")
	t.Setenv("DATABASE_DSN", "postgres://localhost/arena")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Fatalf("Addr = %q, want :9090", cfg.Addr)
	}
	if cfg.AuthMode != StorageModePostgres {
		t.Fatalf("env override lost: AuthMode = %q", cfg.AuthMode)
	}
	if cfg.DatabaseDSN != "postgres://localhost/arena" {
		t.Fatalf("DatabaseDSN = %q", cfg.DatabaseDSN)
	}
	if cfg.Arena.MaxRounds != 5 || cfg.Arena.TeamSize != 2 {
		t.Fatalf("arena overrides lost: %+v", cfg.Arena)
	}
}

func TestInvalidModeRejected(t *testing.T) {
	t.Setenv("AUTH_MODE", "carrier-pigeon")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for invalid auth mode")
	}
}

func TestMissingExplicitFileRejected(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
