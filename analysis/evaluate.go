package analysis

import (
	"fmt"
	"math"

	"arena-lite/battle"
	"arena-lite/combatant"
)

// evaluatePerformance builds the report card for every player fighter.
func evaluatePerformance(st *battle.State, memories []Memory) []Evaluation {
	evals := make([]Evaluation, 0, len(st.Player.Fighters))
	for i, f := range st.Player.Fighters {
		evals = append(evals, evaluateFighter(f, memories[i]))
	}
	return evals
}

func evaluateFighter(f *battle.Fighter, m Memory) Evaluation {
	perf := f.Performance

	combat := combatEffectiveness(f)
	teamwork := teamworkRating(f, m)
	adherence := adherenceScore(f)
	rating := (combat + teamwork + adherence) / 3

	return Evaluation{
		CharacterID:         f.Character.ID,
		CombatEffectiveness: combat,
		TeamworkRating:      teamwork,
		AdherenceScore:      adherence,
		BattleRating:        rating,
		NotableActions:      notableActions(perf, m),
		GrowthAreas:         growthAreas(f, m),
		Strengths:           strengthsDisplayed(f, m),
	}
}

// combatEffectiveness is a weighted sum: damage-to-attack ratio (40%), hit
// accuracy (30%), survival (30%), each capped at its weight.
func combatEffectiveness(f *battle.Fighter) int {
	perf := f.Performance

	damageScore := 0.0
	if perf.AbilitiesUsed > 0 {
		damageScore = math.Min(40, float64(perf.DamageDealt)/float64(perf.AbilitiesUsed)*10)
	}
	accuracyScore := math.Min(30, hitRate(perf)*30)
	survivalScore := math.Min(30, f.Character.HealthRatio()*30)

	return combatant.Clamp100(int(math.Round(damageScore + accuracyScore + survivalScore)))
}

func teamworkRating(f *battle.Fighter, m Memory) int {
	score := 50 + f.Performance.TeamplayActions*5

	for _, moment := range m.RelationshipMoments {
		switch moment.Type {
		case MomentSavedLife, MomentSupported:
			score += 10
		case MomentAbandoned, MomentConflict:
			score -= 15
		}
	}
	for _, g := range m.PersonalGrowth {
		if g.Type == GrowthLearnedTeamwork || g.Type == GrowthShowedLeadership {
			score += 15
		}
	}
	return combatant.Clamp100(score)
}

// adherenceScore rates gameplan discipline from the deviation count. With
// no recorded actions the persistent adherence stat stands in.
func adherenceScore(f *battle.Fighter) int {
	perf := f.Performance
	total := perf.AbilitiesUsed + perf.StrategyDeviations
	if total == 0 {
		return combatant.Clamp100(f.Character.GameplanAdherence)
	}
	return combatant.Clamp100(int(float64(total-perf.StrategyDeviations) / float64(total) * 100))
}

func hitRate(perf battle.Performance) float64 {
	attempts := perf.AbilitiesUsed
	if attempts < 1 {
		attempts = 1
	}
	return float64(perf.SuccessfulHits) / float64(attempts)
}

func notableActions(perf battle.Performance, m Memory) []string {
	var actions []string
	if perf.CriticalHits > 2 {
		actions = append(actions, fmt.Sprintf("Landed %d critical hits", perf.CriticalHits))
	}
	if perf.SuccessfulHits > 10 {
		actions = append(actions, "Maintained sustained offensive pressure")
	}
	if perf.DamageReceived == 0 && perf.AbilitiesUsed > 0 {
		actions = append(actions, "Avoided all damage - perfect defense")
	}
	if perf.TeamplayActions > 3 {
		actions = append(actions, "Excellent team coordination")
	}
	switch {
	case perf.StrategyDeviations == 0 && perf.AbilitiesUsed > 0:
		actions = append(actions, "Perfect gameplan adherence")
	case perf.StrategyDeviations > 3:
		actions = append(actions, "Frequently deviated from strategy")
	}
	for _, e := range m.NotableEvents {
		switch e.Type {
		case EventHeroicAction:
			actions = append(actions, "Performed heroic action")
		case EventSavedByAlly:
			actions = append(actions, "Saved by teammate intervention")
		}
	}
	return actions
}

func growthAreas(f *battle.Fighter, m Memory) []string {
	var areas []string
	perf := f.Performance

	if perf.StrategyDeviations > 2 {
		areas = append(areas, "Gameplan adherence - needs better discipline and trust in leadership")
	}
	if hitRate(perf) < 0.6 && perf.AbilitiesUsed > 0 {
		areas = append(areas, "Combat accuracy - requires target practice and technique refinement")
	}
	if perf.TeamplayActions < 3 {
		areas = append(areas, "Team coordination - needs to develop cooperation and communication skills")
	}
	if f.Psyche.Stress > 70 {
		areas = append(areas, "Stress management - requires mental conditioning and pressure training")
	}
	for _, moment := range m.RelationshipMoments {
		if moment.Type == MomentConflict || moment.Type == MomentAbandoned {
			areas = append(areas, "Interpersonal relationships - needs conflict resolution and empathy training")
			break
		}
	}
	if f.Psyche.Confidence < 40 {
		areas = append(areas, "Self-confidence - needs success experiences and positive reinforcement")
	}
	return areas
}

func strengthsDisplayed(f *battle.Fighter, m Memory) []string {
	var strengths []string
	perf := f.Performance

	if hitRate(perf) > 0.8 && perf.AbilitiesUsed > 0 {
		strengths = append(strengths, "Exceptional accuracy and precision in combat")
	}
	if perf.CriticalHits > 2 {
		strengths = append(strengths, "Ability to find and exploit enemy weaknesses")
	}
	if perf.StrategyDeviations == 0 && perf.AbilitiesUsed > 0 {
		strengths = append(strengths, "Perfect gameplan adherence - excellent discipline")
	}
	if perf.TeamplayActions > 5 {
		strengths = append(strengths, "Outstanding team player and supporter")
	}
	if f.Psyche.Stress < 30 && m.EmotionalImpact > 0 {
		strengths = append(strengths, "Mental resilience under pressure")
	}
	for _, e := range m.NotableEvents {
		if e.Type == EventHeroicAction {
			strengths = append(strengths, "Natural leadership and courage in critical moments")
			break
		}
	}
	if f.Character.HealthRatio() > 0.7 {
		strengths = append(strengths, "Excellent defensive awareness and survival instincts")
	}
	if len(m.PersonalGrowth) > 0 {
		strengths = append(strengths, "Shows continuous learning and personal development")
	}
	return strengths
}
