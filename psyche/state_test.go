package psyche

import (
	"math/rand"
	"testing"

	"arena-lite/combatant"
)

func testCharacter() *combatant.Character {
	return &combatant.Character{
		ID:            "c1",
		Name:          "Vex",
		Archetype:     combatant.ArchetypeWarrior,
		Level:         10,
		CurrentHealth: 80,
		MaxHealth:     100,
		Strength:      40,
		Psych: combatant.PsychProfile{
			Training:      70,
			TeamPlayer:    60,
			Ego:           50,
			MentalHealth:  80,
			Communication: 55,
		},
		CurrentStress:     20,
		CurrentConfidence: 65,
		TeamTrust:         70,
		GameplanAdherence: 75,
	}
}

func TestInitializeDerivation(t *testing.T) {
	c := testCharacter()
	st := Initialize(c, EnvironmentEffects{}, nil)

	if st.MentalStability != 80 {
		t.Fatalf("mental stability = %d, want 80", st.MentalStability)
	}
	if st.Confidence != 65 {
		t.Fatalf("confidence = %d, want 65", st.Confidence)
	}
	if st.Stress != 20 {
		t.Fatalf("stress = %d, want 20", st.Stress)
	}
	if st.PainTolerance != 90 {
		t.Fatalf("pain tolerance = %d, want 90", st.PainTolerance)
	}
	// volatility = ego - mentalHealth*0.5 = 50 - 40 = 10
	if st.Volatility != 10 {
		t.Fatalf("volatility = %d, want 10", st.Volatility)
	}
	if st.Independence != 50 {
		t.Fatalf("independence = %d, want 50", st.Independence)
	}
}

func TestInitializeStressFloor(t *testing.T) {
	c := testCharacter()
	c.CurrentStress = 0
	st := Initialize(c, EnvironmentEffects{}, nil)
	if st.Stress != 5 {
		t.Fatalf("stress floor = %d, want 5", st.Stress)
	}
}

func TestRelationshipStress(t *testing.T) {
	c := testCharacter()
	c.TeamTrust = 20
	mates := []*combatant.Character{
		{ID: "c2", Name: "Rook"},
		{ID: "c3", Name: "Sable"},
	}
	stress, factors, targets := RelationshipStress(c, mates)
	if stress != 20 {
		t.Fatalf("relationship stress = %d, want 20", stress)
	}
	if len(factors) != 2 || factors[0] != "Low trust in Rook" {
		t.Fatalf("unexpected factors: %v", factors)
	}
	if len(targets) != 2 || targets[0] != "c2" || targets[1] != "c3" {
		t.Fatalf("unexpected targets: %v", targets)
	}

	c.TeamTrust = 70
	stress, factors, _ = RelationshipStress(c, mates)
	if stress != 0 || len(factors) != 0 {
		t.Fatalf("trusting character should have no relationship stress, got %d %v", stress, factors)
	}
}

// Every field must stay within [0,100] no matter what sequence of events and
// stability swings is applied.
func TestUpdateClampProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	events := []BattleEvent{
		EventNone, EventDamageTaken, EventDamageDealt, EventTeammateHelped,
		EventStrategyIgnored, EventVictory, EventDefeat,
	}

	c := testCharacter()
	st := Initialize(c, EnvironmentEffects{}, nil)
	for i := 0; i < 2000; i++ {
		in := StabilityInputs{
			RecentWins:          rng.Intn(5),
			RecentLosses:        rng.Intn(5),
			TeamPerformance:     rng.Intn(101),
			StrategySuccessRate: rng.Intn(101),
			HealthRatio:         rng.Float64(),
			OpponentLevelGap:    rng.Intn(10),
		}
		st = st.Update(ComputeStabilityFactors(in), events[rng.Intn(len(events))])

		for name, v := range map[string]int{
			"mental_stability":    st.MentalStability,
			"confidence":          st.Confidence,
			"stress":              st.Stress,
			"team_harmony":        st.TeamHarmony,
			"battle_focus":        st.BattleFocus,
			"strategic_alignment": st.StrategicAlignment,
			"pain_tolerance":      st.PainTolerance,
			"volatility":          st.Volatility,
			"independence":        st.Independence,
			"leadership":          st.Leadership,
		} {
			if v < 0 || v > 100 {
				t.Fatalf("iteration %d: %s = %d out of [0,100]", i, name, v)
			}
		}
	}
}

func TestUpdateIsPure(t *testing.T) {
	c := testCharacter()
	st := Initialize(c, EnvironmentEffects{}, nil)
	before := st
	_ = st.Update(StabilityFactors{}, EventDefeat)
	if st != before {
		t.Fatalf("Update mutated its receiver: %+v != %+v", st, before)
	}
}

func TestVictoryAndDefeatDeltas(t *testing.T) {
	st := State{MentalStability: 50, Confidence: 50, Stress: 50}

	v := st.Update(StabilityFactors{}, EventVictory)
	if v.Confidence != 70 || v.Stress != 35 || v.MentalStability != 60 {
		t.Fatalf("victory deltas wrong: %+v", v)
	}

	d := st.Update(StabilityFactors{}, EventDefeat)
	if d.Confidence != 35 || d.Stress != 70 || d.MentalStability != 45 {
		t.Fatalf("defeat deltas wrong: %+v", d)
	}
}

func TestAdherenceScore(t *testing.T) {
	st := State{StrategicAlignment: 80, Independence: 50}
	score, follows := st.AdherenceScore(50, 0)
	if score != 80 || !follows {
		t.Fatalf("score = %d follows = %v, want 80 true", score, follows)
	}

	st = State{StrategicAlignment: 30, Independence: 90}
	score, follows = st.AdherenceScore(70, 0)
	if follows {
		t.Fatalf("headstrong misaligned character should not follow plan (score %d)", score)
	}
}
