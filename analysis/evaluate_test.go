package analysis

import (
	"testing"

	"arena-lite/battle"
	"arena-lite/combatant"
)

// Accuracy and survival each contribute at most their 30-point weight, even
// when the counters or health run past their usual ranges.
func TestCombatEffectivenessComponentCaps(t *testing.T) {
	lucky := &battle.Fighter{
		Character: combatant.Character{ID: "vex", MaxHealth: 100, CurrentHealth: 100},
	}
	// Free hits recorded without a single tracked swing.
	lucky.Performance.SuccessfulHits = 5

	if got := combatEffectiveness(lucky); got != 60 {
		t.Fatalf("effectiveness = %d, want 60 (accuracy and survival capped at 30 each)", got)
	}

	overhealed := &battle.Fighter{
		Character: combatant.Character{ID: "rook", MaxHealth: 100, CurrentHealth: 200},
	}
	if got := combatEffectiveness(overhealed); got != 30 {
		t.Fatalf("effectiveness = %d, want 30 (survival capped at its weight)", got)
	}
}
