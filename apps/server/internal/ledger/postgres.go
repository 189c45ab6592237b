package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"arena-lite/analysis"
)

// PostgresService backs the ledger with a shared database for
// multi-instance deployments. The schema is provisioned by migrations,
// not by the server.
type PostgresService struct {
	db          *sql.DB
	recentLimit int
	savedLimit  int
}

func NewPostgresService(dsn string) (*PostgresService, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("empty postgres dsn")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	var schemaReady bool
	if err := db.QueryRowContext(ctx, `
SELECT EXISTS (
    SELECT 1
    FROM information_schema.tables
    WHERE table_schema = 'public'
      AND table_name = 'arena_battle_reports'
)`).Scan(&schemaReady); err != nil {
		_ = db.Close()
		return nil, err
	}
	if !schemaReady {
		_ = db.Close()
		return nil, fmt.Errorf("ledger schema not initialized: missing table arena_battle_reports")
	}

	return &PostgresService{
		db:          db,
		recentLimit: defaultRecentLimit,
		savedLimit:  defaultSavedLimit,
	}, nil
}

func (s *PostgresService) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *PostgresService) RecordStatDelta(e analysis.StatDeltaEvent) {
	if strings.TrimSpace(e.BattleID) == "" || strings.TrimSpace(e.CharacterID) == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err := s.db.ExecContext(ctx, `
INSERT INTO arena_stat_deltas (battle_id, character_id, stat, delta, reason)
VALUES ($1, $2, $3, $4, $5)
`, e.BattleID, e.CharacterID, e.Stat.String(), e.Delta, e.Reason)
	if err != nil {
		log.Printf("[Ledger] record stat delta failed: battle=%s char=%s err=%v", e.BattleID, e.CharacterID, err)
	}
}

func (s *PostgresService) RecordCoachXP(e analysis.CoachXPEvent) {
	if strings.TrimSpace(e.BattleID) == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err := s.db.ExecContext(ctx, `
INSERT INTO arena_coach_xp (battle_id, kind, adherence_rate, deviations_blocked, improvement, final_chemistry)
VALUES ($1, $2, $3, $4, $5, $6)
`, e.BattleID, e.Kind.String(), e.AdherenceRate, e.DeviationsBlocked, e.Improvement, e.FinalChemistry)
	if err != nil {
		log.Printf("[Ledger] record coach xp failed: battle=%s kind=%s err=%v", e.BattleID, e.Kind, err)
	}
}

func (s *PostgresService) SaveReport(ctx context.Context, userID uint64, report *analysis.Report, summary map[string]any) error {
	if userID == 0 || report == nil || strings.TrimSpace(report.BattleID) == "" {
		return ErrNotFound
	}
	if summary == nil {
		summary = map[string]any{}
	}
	summaryRaw, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	reportRaw, err := json.Marshal(report)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
INSERT INTO arena_battle_reports (user_id, battle_id, played_at, summary_json, report_json, updated_at)
VALUES ($1, $2, NOW(), $3, $4, NOW())
ON CONFLICT (user_id, battle_id) DO UPDATE
SET
    played_at = EXCLUDED.played_at,
    summary_json = EXCLUDED.summary_json,
    report_json = EXCLUDED.report_json,
    updated_at = EXCLUDED.updated_at
`, userID, report.BattleID, string(summaryRaw), string(reportRaw))
	if err != nil {
		return err
	}

	if s.recentLimit > 0 {
		_, err = tx.ExecContext(ctx, `
DELETE FROM arena_battle_reports
WHERE user_id = $1
  AND is_saved = FALSE
  AND id IN (
      SELECT id
      FROM arena_battle_reports
      WHERE user_id = $1
        AND is_saved = FALSE
      ORDER BY played_at DESC, id DESC
      OFFSET $2
  )
`, userID, s.recentLimit)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *PostgresService) ListReports(ctx context.Context, userID uint64, limit int) ([]ReportItem, error) {
	if userID == 0 {
		return []ReportItem{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if ctx == nil {
		ctx = context.Background()
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT battle_id, played_at, summary_json, is_saved, saved_at, updated_at
FROM arena_battle_reports
WHERE user_id = $1
ORDER BY played_at DESC, id DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]ReportItem, 0, limit)
	for rows.Next() {
		var item ReportItem
		var summaryRaw []byte
		var savedAt sql.NullTime
		if err := rows.Scan(&item.BattleID, &item.PlayedAt, &summaryRaw, &item.IsSaved, &savedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		if savedAt.Valid {
			t := savedAt.Time
			item.SavedAt = &t
		}
		if len(summaryRaw) > 0 {
			_ = json.Unmarshal(summaryRaw, &item.Summary)
		}
		if item.Summary == nil {
			item.Summary = map[string]any{}
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *PostgresService) GetReport(ctx context.Context, userID uint64, battleID string) (*analysis.Report, error) {
	if userID == 0 || strings.TrimSpace(battleID) == "" {
		return nil, ErrNotFound
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var reportRaw []byte
	err := s.db.QueryRowContext(ctx, `
SELECT report_json
FROM arena_battle_reports
WHERE user_id = $1
  AND battle_id = $2
`, userID, battleID).Scan(&reportRaw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var report analysis.Report
	if err := json.Unmarshal(reportRaw, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (s *PostgresService) SetSaved(ctx context.Context, userID uint64, battleID string, saved bool) error {
	if userID == 0 || strings.TrimSpace(battleID) == "" {
		return ErrNotFound
	}
	if ctx == nil {
		ctx = context.Background()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var current bool
	err = tx.QueryRowContext(ctx, `
SELECT is_saved
FROM arena_battle_reports
WHERE user_id = $1
  AND battle_id = $2
FOR UPDATE
`, userID, battleID).Scan(&current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if current == saved {
		return tx.Commit()
	}

	if saved {
		var savedCount int
		if err := tx.QueryRowContext(ctx, `
SELECT COUNT(1)
FROM arena_battle_reports
WHERE user_id = $1
  AND is_saved = TRUE
`, userID).Scan(&savedCount); err != nil {
			return err
		}
		if savedCount >= s.savedLimit {
			return ErrSavedLimitReach
		}
		_, err := tx.ExecContext(ctx, `
UPDATE arena_battle_reports
SET is_saved = TRUE,
    saved_at = NOW(),
    updated_at = NOW()
WHERE user_id = $1
  AND battle_id = $2
`, userID, battleID)
		if err != nil {
			return err
		}
		return tx.Commit()
	}

	_, err = tx.ExecContext(ctx, `
UPDATE arena_battle_reports
SET is_saved = FALSE,
    saved_at = NULL,
    updated_at = NOW()
WHERE user_id = $1
  AND battle_id = $2
`, userID, battleID)
	if err != nil {
		return err
	}

	if s.recentLimit > 0 {
		_, err = tx.ExecContext(ctx, `
DELETE FROM arena_battle_reports
WHERE user_id = $1
  AND is_saved = FALSE
  AND id IN (
      SELECT id
      FROM arena_battle_reports
      WHERE user_id = $1
        AND is_saved = FALSE
      ORDER BY played_at DESC, id DESC
      OFFSET $2
  )
`, userID, s.recentLimit)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}
