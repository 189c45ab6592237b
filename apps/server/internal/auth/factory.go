package auth

import (
	"fmt"

	"arena-lite/apps/server/internal/config"
)

// NewService builds the auth backend selected by the configuration.
func NewService(cfg config.Config) (Service, error) {
	switch cfg.AuthMode {
	case config.StorageModeMemory:
		return NewManagerWithTTL(cfg.SessionTTL), nil
	case config.StorageModeSQLite:
		return NewSQLiteManager(cfg.SQLitePath, cfg.SessionTTL)
	case config.StorageModePostgres:
		return NewPostgresManager(cfg.DatabaseDSN, cfg.SessionTTL)
	default:
		return nil, fmt.Errorf("invalid auth mode %q", cfg.AuthMode)
	}
}
