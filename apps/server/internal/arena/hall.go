package arena

import (
	"fmt"
	"log"
	"sync"
	"time"

	"arena-lite/battle"
	"arena-lite/roster"

	"arena-lite/apps/server/internal/config"
)

// Hall manages all arenas and coach assignments.
type Hall struct {
	mu     sync.RWMutex
	arenas map[string]*Arena
	nextID uint64

	cfg     config.ArenaConfig
	roster  *roster.Registry
	battles *battle.Registry

	// Hooks attached to every arena the hall creates.
	battleEndHooks []BattleEndHook
}

// NewHall creates a new hall.
func NewHall(cfg config.ArenaConfig, rosterReg *roster.Registry) *Hall {
	return &Hall{
		arenas:  make(map[string]*Arena),
		cfg:     cfg,
		roster:  rosterReg,
		battles: battle.NewRegistry(),
	}
}

// AddBattleEndHook registers a callback attached to every arena created from
// now on.
func (h *Hall) AddBattleEndHook(hook BattleEndHook) {
	if hook == nil {
		return
	}
	h.mu.Lock()
	h.battleEndHooks = append(h.battleEndHooks, hook)
	h.mu.Unlock()
}

// QuickStart returns the coach's existing arena or creates a fresh one.
func (h *Hall) QuickStart(userID uint64, broadcastFn func(userID uint64, data []byte)) (*Arena, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, a := range h.arenas {
		if a.HasCoach(userID) {
			log.Printf("[Hall] QuickStart: coach %d rejoining arena %s", userID, a.ID)
			return a, nil
		}
	}

	h.nextID++
	arenaID := fmt.Sprintf("arena_%d", h.nextID)

	seed := h.cfg.Seed
	if seed != 0 {
		// Derive a distinct stream per arena from the configured seed.
		seed += int64(h.nextID) * 7919
	}

	a := New(arenaID, h.cfg, Deps{
		Roster:    h.roster,
		Battles:   h.battles,
		Broadcast: broadcastFn,
		Seed:      seed,
	})
	if a == nil {
		return nil, fmt.Errorf("failed to create arena")
	}
	for _, hook := range h.battleEndHooks {
		a.AddBattleEndHook(hook)
	}
	h.arenas[arenaID] = a

	log.Printf("[Hall] QuickStart: coach %d created new arena %s", userID, arenaID)
	return a, nil
}

// Get returns an arena by ID.
func (h *Hall) Get(arenaID string) *Arena {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.arenas[arenaID]
}

// List returns all arena IDs.
func (h *Hall) List() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ids := make([]string, 0, len(h.arenas))
	for id := range h.arenas {
		ids = append(ids, id)
	}
	return ids
}

// CloseIdle stops and removes arenas that have been empty longer than
// maxIdle. Returns the number of arenas closed.
func (h *Hall) CloseIdle(maxIdle time.Duration) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now()
	closed := 0
	for id, a := range h.arenas {
		empty := a.EmptySince()
		if empty.IsZero() || now.Sub(empty) < maxIdle {
			continue
		}
		a.Stop()
		delete(h.arenas, id)
		closed++
		log.Printf("[Hall] Closed idle arena %s (empty for %s)", id, now.Sub(empty).Round(time.Second))
	}
	return closed
}
