package battle

import (
	"math/rand"

	"arena-lite/combatant"
)

// AdherenceContext carries the situational inputs for a gameplan adherence
// check.
type AdherenceContext struct {
	PlanComplexity int // 0..100, how demanding the coach's plan is
	CoachBonus     int // from coach reputation
	LosingBadly    bool
}

// CheckAdherence rates whether a fighter sticks to the gameplan this turn.
// The base score comes from the psychological state; injuries, a collapsing
// battle and a mental-health crisis all erode it, and a small seeded noise
// term keeps identical fighters from moving in lockstep. Score is clamped
// to [0,100]; the fighter follows the plan at 50 or above.
func CheckAdherence(f *Fighter, ctx AdherenceContext, rng *rand.Rand) (score int, follows bool) {
	base, _ := f.Psyche.AdherenceScore(ctx.PlanComplexity, ctx.CoachBonus)
	score = base

	if f.Character.HealthRatio() < 0.3 {
		score -= 20
	}
	if ctx.LosingBadly {
		score -= 15
	}
	if f.Character.Psych.MentalHealth < 30 {
		score -= 25
	}
	score += rng.Intn(21) - 10

	score = combatant.Clamp100(score)
	return score, score >= 50
}
