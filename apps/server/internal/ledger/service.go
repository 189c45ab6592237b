package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"arena-lite/analysis"

	"arena-lite/apps/server/internal/config"
)

const (
	defaultRecentLimit = 200
	defaultSavedLimit  = 50
)

var (
	ErrNotFound        = errors.New("not found")
	ErrSavedLimitReach = errors.New("saved report limit reached")
)

// Service persists battle reports and coach progression events. It doubles
// as the analysis pipeline's event sink, so the core stays storage-free.
type Service interface {
	analysis.EventSink

	Close() error
	SaveReport(ctx context.Context, userID uint64, report *analysis.Report, summary map[string]any) error
	ListReports(ctx context.Context, userID uint64, limit int) ([]ReportItem, error)
	GetReport(ctx context.Context, userID uint64, battleID string) (*analysis.Report, error)
	SetSaved(ctx context.Context, userID uint64, battleID string, saved bool) error
}

// ReportItem is one row of a coach's battle history.
type ReportItem struct {
	BattleID  string         `json:"battle_id"`
	PlayedAt  time.Time      `json:"played_at"`
	IsSaved   bool           `json:"is_saved"`
	SavedAt   *time.Time     `json:"saved_at,omitempty"`
	Summary   map[string]any `json:"summary"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NewService builds the ledger backend selected by the configuration.
func NewService(cfg config.Config) (Service, error) {
	switch cfg.LedgerMode {
	case config.StorageModeMemory:
		return &noopService{}, nil
	case config.StorageModeSQLite:
		return NewSQLiteService(cfg.SQLitePath)
	case config.StorageModePostgres:
		return NewPostgresService(cfg.DatabaseDSN)
	default:
		return nil, fmt.Errorf("invalid ledger mode %q", cfg.LedgerMode)
	}
}

type noopService struct{}

func (n *noopService) Close() error { return nil }

func (n *noopService) RecordStatDelta(analysis.StatDeltaEvent) {}

func (n *noopService) RecordCoachXP(analysis.CoachXPEvent) {}

func (n *noopService) SaveReport(context.Context, uint64, *analysis.Report, map[string]any) error {
	return nil
}

func (n *noopService) ListReports(context.Context, uint64, int) ([]ReportItem, error) {
	return []ReportItem{}, nil
}

func (n *noopService) GetReport(context.Context, uint64, string) (*analysis.Report, error) {
	return nil, ErrNotFound
}

func (n *noopService) SetSaved(context.Context, uint64, string, bool) error {
	return nil
}
