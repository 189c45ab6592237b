package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"arena-lite/analysis"
	"arena-lite/battle"
)

func newTestService(t *testing.T) *SQLiteService {
	t.Helper()
	svc, err := NewSQLiteService(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open sqlite ledger failed: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func testReport(battleID string) *analysis.Report {
	return &analysis.Report{
		BattleID: battleID,
		Result:   battle.ResultVictory,
	}
}

func TestSaveAndGetReportRoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.SaveReport(ctx, 7, testReport("battle-1"), map[string]any{"rounds": 12}); err != nil {
		t.Fatalf("save report failed: %v", err)
	}

	got, err := svc.GetReport(ctx, 7, "battle-1")
	if err != nil {
		t.Fatalf("get report failed: %v", err)
	}
	if got.BattleID != "battle-1" || got.Result != battle.ResultVictory {
		t.Fatalf("unexpected report: %+v", got)
	}

	if _, err := svc.GetReport(ctx, 7, "battle-2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.GetReport(ctx, 8, "battle-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other user, got %v", err)
	}
}

func TestListReportsNewestFirst(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, id := range []string{"battle-1", "battle-2", "battle-3"} {
		if err := svc.SaveReport(ctx, 7, testReport(id), nil); err != nil {
			t.Fatalf("save report %s failed: %v", id, err)
		}
	}

	items, err := svc.ListReports(ctx, 7, 10)
	if err != nil {
		t.Fatalf("list reports failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].BattleID != "battle-3" {
		t.Fatalf("expected newest first, got %s", items[0].BattleID)
	}
}

func TestRecentLimitTrimsUnsavedOnly(t *testing.T) {
	svc := newTestService(t)
	svc.recentLimit = 2
	ctx := context.Background()

	if err := svc.SaveReport(ctx, 7, testReport("battle-1"), nil); err != nil {
		t.Fatalf("save report failed: %v", err)
	}
	if err := svc.SetSaved(ctx, 7, "battle-1", true); err != nil {
		t.Fatalf("set saved failed: %v", err)
	}
	for _, id := range []string{"battle-2", "battle-3", "battle-4"} {
		if err := svc.SaveReport(ctx, 7, testReport(id), nil); err != nil {
			t.Fatalf("save report %s failed: %v", id, err)
		}
	}

	items, err := svc.ListReports(ctx, 7, 10)
	if err != nil {
		t.Fatalf("list reports failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected pinned report plus 2 recent, got %d", len(items))
	}
	if _, err := svc.GetReport(ctx, 7, "battle-2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected oldest unsaved report trimmed, got %v", err)
	}
	if _, err := svc.GetReport(ctx, 7, "battle-1"); err != nil {
		t.Fatalf("expected pinned report to survive trim, got %v", err)
	}
}

func TestSetSavedEnforcesLimit(t *testing.T) {
	svc := newTestService(t)
	svc.savedLimit = 1
	ctx := context.Background()

	for _, id := range []string{"battle-1", "battle-2"} {
		if err := svc.SaveReport(ctx, 7, testReport(id), nil); err != nil {
			t.Fatalf("save report %s failed: %v", id, err)
		}
	}

	if err := svc.SetSaved(ctx, 7, "battle-1", true); err != nil {
		t.Fatalf("set saved failed: %v", err)
	}
	if err := svc.SetSaved(ctx, 7, "battle-2", true); !errors.Is(err, ErrSavedLimitReach) {
		t.Fatalf("expected ErrSavedLimitReach, got %v", err)
	}
	if err := svc.SetSaved(ctx, 7, "battle-1", false); err != nil {
		t.Fatalf("unset saved failed: %v", err)
	}
	if err := svc.SetSaved(ctx, 7, "battle-2", true); err != nil {
		t.Fatalf("set saved after release failed: %v", err)
	}
	if err := svc.SetSaved(ctx, 7, "missing", true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecordEventsAreQueryable(t *testing.T) {
	svc := newTestService(t)

	svc.RecordStatDelta(analysis.StatDeltaEvent{
		BattleID:    "battle-1",
		CharacterID: "p1",
		Stat:        analysis.StatMentalHealth,
		Delta:       2.5,
		Reason:      "combat experience",
	})
	svc.RecordCoachXP(analysis.CoachXPEvent{
		BattleID:          "battle-1",
		Kind:              analysis.XPAdherence,
		AdherenceRate:     0.75,
		DeviationsBlocked: 2,
	})

	var deltas, xp int
	if err := svc.db.QueryRow(`SELECT COUNT(1) FROM arena_stat_deltas WHERE battle_id = 'battle-1'`).Scan(&deltas); err != nil {
		t.Fatalf("count stat deltas failed: %v", err)
	}
	if err := svc.db.QueryRow(`SELECT COUNT(1) FROM arena_coach_xp WHERE battle_id = 'battle-1'`).Scan(&xp); err != nil {
		t.Fatalf("count coach xp failed: %v", err)
	}
	if deltas != 1 || xp != 1 {
		t.Fatalf("expected 1 delta and 1 xp row, got %d and %d", deltas, xp)
	}
}
