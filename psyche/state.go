package psyche

import (
	"fmt"
	"math"

	"arena-lite/combatant"
)

// State is the battle-scoped psychological state of one character. Created
// at battle start from the persistent character record, mutated turn by turn
// through Update, and discarded when the battle ends. All fields are bounded
// [0,100].
type State struct {
	MentalStability    int
	Confidence         int
	Stress             int
	TeamHarmony        int
	BattleFocus        int
	StrategicAlignment int
	PainTolerance      int
	Volatility         int
	Independence       int
	Leadership         int
}

// EnvironmentEffects carries living-conditions penalties applied at battle
// start. Penalty fields are negative-or-zero magnitudes as supplied by the
// caller; initialization takes their absolute values.
type EnvironmentEffects struct {
	MoralePenalty   int
	TeamworkPenalty int
	AllStatsPenalty int
}

const lowTrustThreshold = 30

// RelationshipStress computes the stress contribution from teammates the
// character does not trust. Deterministic in teammate input order. Returns
// the total stress, the named risk factors, and the IDs of teammates the
// character may lash out at.
func RelationshipStress(c *combatant.Character, teammates []*combatant.Character) (stress int, factors []string, targets []string) {
	for _, mate := range teammates {
		if mate == nil || mate.ID == c.ID {
			continue
		}
		if c.TeamTrust < lowTrustThreshold {
			stress += 10
			factors = append(factors, fmt.Sprintf("Low trust in %s", mate.Name))
			targets = append(targets, mate.ID)
		}
	}
	return stress, factors, targets
}

// Initialize derives the battle-scoped psychological state from the
// persistent traits, environment penalties and teammate relationships.
func Initialize(c *combatant.Character, env EnvironmentEffects, teammates []*combatant.Character) State {
	envStress := abs(env.MoralePenalty) * 2
	relStress, _, _ := RelationshipStress(c, teammates)
	chemPenalty := float64(abs(env.TeamworkPenalty)) + float64(relStress)*0.3
	stabilityPenalty := float64(abs(env.AllStatsPenalty)) * 1.5

	p := c.Psych
	return State{
		MentalStability:    clampRound(float64(p.MentalHealth)-stabilityPenalty, 0, 100),
		Confidence:         combatant.Clamp100(c.CurrentConfidence),
		Stress:             combatant.Clamp(c.CurrentStress+envStress+relStress, 5, 100),
		TeamHarmony:        clampRound(float64(p.TeamPlayer)-chemPenalty, 0, 100),
		BattleFocus:        clampRound(float64(p.Training)-float64(envStress)*0.2, 0, 100),
		StrategicAlignment: clampRound(float64(p.Training)-chemPenalty*0.3, 0, 100),
		PainTolerance:      combatant.Clamp100(50 + p.MentalHealth/2),
		Volatility:         clampRound(float64(p.Ego)-float64(p.MentalHealth)*0.5+float64(envStress)*0.3, 5, 100),
		Independence:       combatant.Clamp100(p.Ego),
		Leadership:         combatant.Clamp100(p.Ego + p.Communication),
	}
}

// Update applies exactly one battle event plus the continuous stability
// delta (scaled by 0.1) and returns a new state. The receiver is never
// mutated.
func (s State) Update(factors StabilityFactors, event BattleEvent) State {
	next := s

	switch event {
	case EventDamageTaken:
		next.Stress += 10
		next.Confidence -= 5
		next.PainTolerance -= 3
	case EventDamageDealt:
		next.Confidence += 8
		next.Stress -= 5
	case EventTeammateHelped:
		next.TeamHarmony += 10
		next.StrategicAlignment += 5
	case EventStrategyIgnored:
		next.StrategicAlignment -= 15
		next.Independence += 10
	case EventVictory:
		next.Confidence += 20
		next.Stress -= 15
		next.MentalStability += 10
	case EventDefeat:
		next.Confidence -= 15
		next.Stress += 20
		next.MentalStability -= 5
	}

	next.MentalStability += int(math.Round(float64(factors.Delta()) * 0.1))

	next.clamp()
	return next
}

func (s *State) clamp() {
	s.MentalStability = combatant.Clamp100(s.MentalStability)
	s.Confidence = combatant.Clamp100(s.Confidence)
	s.Stress = combatant.Clamp100(s.Stress)
	s.TeamHarmony = combatant.Clamp100(s.TeamHarmony)
	s.BattleFocus = combatant.Clamp100(s.BattleFocus)
	s.StrategicAlignment = combatant.Clamp100(s.StrategicAlignment)
	s.PainTolerance = combatant.Clamp100(s.PainTolerance)
	s.Volatility = combatant.Clamp100(s.Volatility)
	s.Independence = combatant.Clamp100(s.Independence)
	s.Leadership = combatant.Clamp100(s.Leadership)
}

// AdherenceScore rates how likely the character is to follow the current
// gameplan given its complexity and the coach's standing. Returns the score
// and whether the character will follow the plan this turn.
func (s State) AdherenceScore(planComplexity, coachBonus int) (score int, willFollow bool) {
	base := float64(s.StrategicAlignment) -
		float64(s.Independence-50)*0.3 -
		float64(planComplexity-50)*0.2 +
		float64(coachBonus)
	score = clampRound(base, 0, 100)
	return score, score >= 60
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clampRound(v float64, lo, hi int) int {
	return combatant.Clamp(int(math.Round(v)), lo, hi)
}
