package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"arena-lite/analysis"
)

// SQLiteService stores battle reports and progression events in a local
// database file. Sharing the file with the auth store is fine; the tables
// do not overlap.
type SQLiteService struct {
	db          *sql.DB
	recentLimit int
	savedLimit  int
}

func NewSQLiteService(dbPath string) (*SQLiteService, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if dbPath != ":memory:" {
		parent := filepath.Dir(dbPath)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSQLiteLedgerSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteService{
		db:          db,
		recentLimit: defaultRecentLimit,
		savedLimit:  defaultSavedLimit,
	}, nil
}

func (s *SQLiteService) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteService) RecordStatDelta(e analysis.StatDeltaEvent) {
	if strings.TrimSpace(e.BattleID) == "" || strings.TrimSpace(e.CharacterID) == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err := s.db.ExecContext(ctx, `
INSERT INTO arena_stat_deltas (
    battle_id, character_id, stat, delta, reason, created_at_ms
)
VALUES (?, ?, ?, ?, ?, ?)
`, e.BattleID, e.CharacterID, e.Stat.String(), e.Delta, e.Reason, time.Now().UTC().UnixMilli())
	if err != nil {
		log.Printf("[Ledger] record stat delta failed: battle=%s char=%s err=%v", e.BattleID, e.CharacterID, err)
	}
}

func (s *SQLiteService) RecordCoachXP(e analysis.CoachXPEvent) {
	if strings.TrimSpace(e.BattleID) == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err := s.db.ExecContext(ctx, `
INSERT INTO arena_coach_xp (
    battle_id, kind, adherence_rate, deviations_blocked, improvement, final_chemistry, created_at_ms
)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, e.BattleID, e.Kind.String(), e.AdherenceRate, e.DeviationsBlocked, e.Improvement, e.FinalChemistry,
		time.Now().UTC().UnixMilli())
	if err != nil {
		log.Printf("[Ledger] record coach xp failed: battle=%s kind=%s err=%v", e.BattleID, e.Kind, err)
	}
}

func (s *SQLiteService) SaveReport(ctx context.Context, userID uint64, report *analysis.Report, summary map[string]any) error {
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

	nowMs := time.Now().UTC().UnixMilli()
	_, err = tx.ExecContext(ctx, `
INSERT INTO arena_battle_reports (
    user_id, battle_id, played_at_ms, summary_json, report_json, is_saved, saved_at_ms, updated_at_ms
)
VALUES (?, ?, ?, ?, ?, 0, NULL, ?)
ON CONFLICT (user_id, battle_id) DO UPDATE
SET
    played_at_ms = excluded.played_at_ms,
    summary_json = excluded.summary_json,
    report_json = excluded.report_json,
    updated_at_ms = excluded.updated_at_ms
`, userID, report.BattleID, nowMs, string(summaryRaw), string(reportRaw), nowMs)
	if err != nil {
		return err
	}

	if s.recentLimit > 0 {
		_, err = tx.ExecContext(ctx, `
DELETE FROM arena_battle_reports
WHERE user_id = ?
  AND is_saved = 0
  AND id IN (
      SELECT id
      FROM arena_battle_reports
      WHERE user_id = ?
        AND is_saved = 0
      ORDER BY played_at_ms DESC, id DESC
      LIMIT -1 OFFSET ?
  )
`, userID, userID, s.recentLimit)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteService) ListReports(ctx context.Context, userID uint64, limit int) ([]ReportItem, error) {
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
SELECT battle_id, played_at_ms, summary_json, is_saved, saved_at_ms, updated_at_ms
FROM arena_battle_reports
WHERE user_id = ?
ORDER BY played_at_ms DESC, id DESC
LIMIT ?
`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]ReportItem, 0, limit)
	for rows.Next() {
		var item ReportItem
		var playedAtMs int64
		var summaryRaw []byte
		var isSaved int64
		var savedAtMs sql.NullInt64
		var updatedAtMs int64
		if err := rows.Scan(&item.BattleID, &playedAtMs, &summaryRaw, &isSaved, &savedAtMs, &updatedAtMs); err != nil {
			return nil, err
		}
		item.PlayedAt = time.UnixMilli(playedAtMs).UTC()
		item.IsSaved = isSaved == 1
		if savedAtMs.Valid {
			t := time.UnixMilli(savedAtMs.Int64).UTC()
			item.SavedAt = &t
		}
		item.UpdatedAt = time.UnixMilli(updatedAtMs).UTC()
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

func (s *SQLiteService) GetReport(ctx context.Context, userID uint64, battleID string) (*analysis.Report, error) {
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
WHERE user_id = ?
  AND battle_id = ?
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

func (s *SQLiteService) SetSaved(ctx context.Context, userID uint64, battleID string, saved bool) error {
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

	var current int64
	err = tx.QueryRowContext(ctx, `
SELECT is_saved
FROM arena_battle_reports
WHERE user_id = ?
  AND battle_id = ?
`, userID, battleID).Scan(&current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if (current == 1) == saved {
		return tx.Commit()
	}

	nowMs := time.Now().UTC().UnixMilli()
	if saved {
		var savedCount int
		if err := tx.QueryRowContext(ctx, `
SELECT COUNT(1)
FROM arena_battle_reports
WHERE user_id = ?
  AND is_saved = 1
`, userID).Scan(&savedCount); err != nil {
			return err
		}
		if savedCount >= s.savedLimit {
			return ErrSavedLimitReach
		}
		_, err := tx.ExecContext(ctx, `
UPDATE arena_battle_reports
SET is_saved = 1,
    saved_at_ms = ?,
    updated_at_ms = ?
WHERE user_id = ?
  AND battle_id = ?
`, nowMs, nowMs, userID, battleID)
		if err != nil {
			return err
		}
		return tx.Commit()
	}

	_, err = tx.ExecContext(ctx, `
UPDATE arena_battle_reports
SET is_saved = 0,
    saved_at_ms = NULL,
    updated_at_ms = ?
WHERE user_id = ?
  AND battle_id = ?
`, nowMs, userID, battleID)
	if err != nil {
		return err
	}

	if s.recentLimit > 0 {
		_, err = tx.ExecContext(ctx, `
DELETE FROM arena_battle_reports
WHERE user_id = ?
  AND is_saved = 0
  AND id IN (
      SELECT id
      FROM arena_battle_reports
      WHERE user_id = ?
        AND is_saved = 0
      ORDER BY played_at_ms DESC, id DESC
      LIMIT -1 OFFSET ?
  )
`, userID, userID, s.recentLimit)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func ensureSQLiteLedgerSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`
CREATE TABLE IF NOT EXISTS arena_battle_reports (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    battle_id TEXT NOT NULL,
    played_at_ms INTEGER NOT NULL,
    summary_json TEXT NOT NULL DEFAULT '{}',
    report_json TEXT NOT NULL,
    is_saved INTEGER NOT NULL DEFAULT 0,
    saved_at_ms INTEGER,
    updated_at_ms INTEGER NOT NULL,
    UNIQUE (user_id, battle_id)
)`,
		`CREATE INDEX IF NOT EXISTS idx_arena_battle_reports_recent ON arena_battle_reports(user_id, played_at_ms DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_arena_battle_reports_saved ON arena_battle_reports(user_id, is_saved, saved_at_ms DESC)`,
		`
CREATE TABLE IF NOT EXISTS arena_stat_deltas (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    battle_id TEXT NOT NULL,
    character_id TEXT NOT NULL,
    stat TEXT NOT NULL,
    delta REAL NOT NULL,
    reason TEXT NOT NULL DEFAULT '',
    created_at_ms INTEGER NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_arena_stat_deltas_char ON arena_stat_deltas(character_id, created_at_ms DESC)`,
		`
CREATE TABLE IF NOT EXISTS arena_coach_xp (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    battle_id TEXT NOT NULL,
    kind TEXT NOT NULL,
    adherence_rate REAL NOT NULL DEFAULT 0,
    deviations_blocked INTEGER NOT NULL DEFAULT 0,
    improvement INTEGER NOT NULL DEFAULT 0,
    final_chemistry INTEGER NOT NULL DEFAULT 0,
    created_at_ms INTEGER NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_arena_coach_xp_battle ON arena_coach_xp(battle_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
