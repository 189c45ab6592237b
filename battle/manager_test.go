package battle

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"arena-lite/combatant"
)

func testState() *State {
	mk := func(id, name string, health int) *Fighter {
		return &Fighter{
			Character: combatant.Character{
				ID:            id,
				Name:          name,
				CurrentHealth: health,
				MaxHealth:     100,
				Strength:      30,
			},
		}
	}
	return &State{
		ID:    "b1",
		Phase: PhaseTypeCombat,
		Player: &Team{
			Name:           "Players",
			Fighters:       []*Fighter{mk("p1", "Vex", 100), mk("p2", "Rook", 100)},
			CoachingPoints: StartingCoachingPoints,
			Morale:         70,
		},
		Opponent: &Team{
			Name:     "Opponents",
			Fighters: []*Fighter{mk("o1", "Gore", 100)},
			Morale:   70,
		},
	}
}

// Operations submitted from one goroutine must execute in strict submission
// order, and operations submitted concurrently must never interleave.
func TestExecuteSerialization(t *testing.T) {
	m := NewManager(testState())
	defer m.Close()

	const n = 200

	// Strict FIFO for a single submitter.
	for i := 0; i < n; i++ {
		i := i
		if err := m.Execute(func(s *State) error {
			s.AppendLog(LogEntry{Description: fmt.Sprintf("op-%d", i)})
			return nil
		}, nil, 0); err != nil {
			t.Fatalf("op %d failed: %v", i, err)
		}
	}
	snap, err := m.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap.Log) != n {
		t.Fatalf("log length = %d, want %d", len(snap.Log), n)
	}
	for i, e := range snap.Log {
		if e.Description != fmt.Sprintf("op-%d", i) {
			t.Fatalf("log[%d] = %q, out of submission order", i, e.Description)
		}
	}

	// No interleaving under concurrent submitters.
	var inFlight int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := m.Execute(func(s *State) error {
				if atomic.AddInt32(&inFlight, 1) != 1 {
					t.Error("operations interleaved")
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&inFlight, -1)
				return nil
			}, nil, 0)
			if err != nil {
				t.Errorf("concurrent op failed: %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestExecuteTimeoutDoesNotBlockQueue(t *testing.T) {
	m := NewManager(testState())
	defer m.Close()

	rolledBack := false
	err := m.Execute(func(s *State) error {
		s.Player.Morale = 10 // must not commit
		time.Sleep(200 * time.Millisecond)
		return nil
	}, func(s *State) {
		rolledBack = true
	}, 20*time.Millisecond)
	if !errors.Is(err, ErrOperationTimeout) {
		t.Fatalf("err = %v, want ErrOperationTimeout", err)
	}
	if !rolledBack {
		t.Fatalf("rollback was not invoked on timeout")
	}

	// The queue keeps moving and the live state is untouched.
	if err := m.Execute(func(s *State) error {
		if s.Player.Morale != 70 {
			return fmt.Errorf("timed-out mutation leaked: morale %d", s.Player.Morale)
		}
		return nil
	}, nil, 0); err != nil {
		t.Fatalf("follow-up op: %v", err)
	}
}

func TestExecuteInvalidMutationRollsBack(t *testing.T) {
	m := NewManager(testState())
	defer m.Close()

	rolledBack := false
	err := m.Execute(func(s *State) error {
		s.Player.Fighters[0].Character.CurrentHealth = -5
		return nil
	}, func(s *State) {
		rolledBack = true
	}, 0)
	if !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("err = %v, want ErrInvalidStateTransition", err)
	}
	if !rolledBack {
		t.Fatalf("rollback was not invoked on invalid mutation")
	}

	snap, _ := m.Snapshot()
	if snap.Player.Fighters[0].Character.CurrentHealth != 100 {
		t.Fatalf("invalid mutation leaked into live state")
	}
}

func TestSnapshotIsolation(t *testing.T) {
	m := NewManager(testState())
	defer m.Close()

	snap, err := m.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	snap.Player.Fighters[0].Character.CurrentHealth = 1
	snap.Player.Morale = 0

	fresh, _ := m.Snapshot()
	if fresh.Player.Fighters[0].Character.CurrentHealth != 100 || fresh.Player.Morale != 70 {
		t.Fatalf("mutating a snapshot reached live state: %+v", fresh.Player)
	}
}

func TestExecuteAfterClose(t *testing.T) {
	m := NewManager(testState())
	m.Close()
	m.Close() // idempotent

	err := m.Execute(func(s *State) error { return nil }, nil, 0)
	if !errors.Is(err, ErrBattleClosed) {
		t.Fatalf("err = %v, want ErrBattleClosed", err)
	}
}

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry()
	st := testState()
	m := r.Create(st)

	if st.ID == "" {
		t.Fatalf("registry must assign a battle ID")
	}
	got, ok := r.Get(st.ID)
	if !ok || got != m {
		t.Fatalf("registry lookup failed")
	}
	if r.Len() != 1 {
		t.Fatalf("len = %d, want 1", r.Len())
	}

	r.Remove(st.ID)
	if _, ok := r.Get(st.ID); ok {
		t.Fatalf("battle still registered after Remove")
	}
	if err := m.Execute(func(s *State) error { return nil }, nil, 0); !errors.Is(err, ErrBattleClosed) {
		t.Fatalf("manager still accepts operations after Remove: %v", err)
	}
}
