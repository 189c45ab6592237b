package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	StorageModeMemory   = "memory"
	StorageModeSQLite   = "sqlite"
	StorageModePostgres = "postgres"
)

// Config is the full server configuration. Values come from an optional
// YAML file and can be overridden per-key by environment variables.
type Config struct {
	Addr        string        `yaml:"addr"`
	AuthMode    string        `yaml:"auth_mode"`
	LedgerMode  string        `yaml:"ledger_mode"`
	DatabaseDSN string        `yaml:"database_dsn"`
	SQLitePath  string        `yaml:"sqlite_path"`
	RosterPath  string        `yaml:"roster_path"`
	SessionTTL  time.Duration `yaml:"session_ttl"`

	Arena ArenaConfig `yaml:"arena"`
}

// ArenaConfig tunes battle pacing and sizing.
type ArenaConfig struct {
	MaxRounds        int   `yaml:"max_rounds"`
	TeamSize         int   `yaml:"team_size"`
	RoundIntervalMs  int   `yaml:"round_interval_ms"`
	InterBattleDelay int   `yaml:"inter_battle_delay_sec"`
	Seed             int64 `yaml:"seed"`
}

func Default() Config {
	return Config{
		Addr:       ":8080",
		AuthMode:   StorageModeSQLite,
		LedgerMode: StorageModeSQLite,
		SQLitePath: "arena_local.db",
		SessionTTL: 30 * 24 * time.Hour,
		Arena: ArenaConfig{
			MaxRounds:        20,
			TeamSize:         3,
			RoundIntervalMs:  2000,
			InterBattleDelay: 8,
		},
	}
}

// Load reads the config file at path (if non-empty), then applies
// environment overrides. A missing file with an empty path is not an error;
// a missing file with an explicit path is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(&cfg)
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("ARENA_ADDR")); v != "" {
		cfg.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv("AUTH_MODE")); v != "" {
		cfg.AuthMode = normalizeMode(v)
	}
	if v := strings.TrimSpace(os.Getenv("LEDGER_MODE")); v != "" {
		cfg.LedgerMode = normalizeMode(v)
	}
	if v := strings.TrimSpace(os.Getenv("DATABASE_DSN")); v != "" {
		cfg.DatabaseDSN = v
	}
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" && cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = v
	}
	if v := strings.TrimSpace(os.Getenv("LOCAL_DATABASE_PATH")); v != "" {
		cfg.SQLitePath = v
	}
	if v := strings.TrimSpace(os.Getenv("ROSTER_PATH")); v != "" {
		cfg.RosterPath = v
	}
}

func normalizeMode(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "mem", StorageModeMemory:
		return StorageModeMemory
	case "local", StorageModeSQLite:
		return StorageModeSQLite
	case "db", "postgresql", StorageModePostgres:
		return StorageModePostgres
	default:
		return strings.ToLower(strings.TrimSpace(raw))
	}
}

func (c Config) validate() error {
	switch c.AuthMode {
	case StorageModeMemory, StorageModeSQLite, StorageModePostgres:
	default:
		return fmt.Errorf("invalid auth_mode %q (supported: %s, %s, %s)",
			c.AuthMode, StorageModeMemory, StorageModeSQLite, StorageModePostgres)
	}
	switch c.LedgerMode {
	case StorageModeMemory, StorageModeSQLite, StorageModePostgres:
	default:
		return fmt.Errorf("invalid ledger_mode %q (supported: %s, %s, %s)",
			c.LedgerMode, StorageModeMemory, StorageModeSQLite, StorageModePostgres)
	}
	if c.Arena.MaxRounds < 1 {
		return fmt.Errorf("arena.max_rounds must be at least 1")
	}
	if c.Arena.TeamSize < 1 {
		return fmt.Errorf("arena.team_size must be at least 1")
	}
	return nil
}
