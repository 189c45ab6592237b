package analysis

import (
	"fmt"
	"sort"

	"arena-lite/battle"
)

// trainingRecommendations turns evaluations, memories and consequences into
// a priority-sorted training plan for the coach.
func trainingRecommendations(st *battle.State, evals []Evaluation, memories []Memory, consequences []Consequence) []Recommendation {
	var recs []Recommendation

	for i, f := range st.Player.Fighters {
		eval := evals[i]
		m := memories[i]
		name := f.Character.Name

		if m.EmotionalImpact < -20 {
			recs = append(recs, Recommendation{
				CharacterID:  f.Character.ID,
				Focus:        TrainMentalHealth,
				Priority:     PriorityUrgent,
				Reason:       fmt.Sprintf("%s took severe emotional damage and needs psychological support", name),
				TimeRequired: 5,
			})
		}
		if eval.AdherenceScore < 40 {
			recs = append(recs, Recommendation{
				CharacterID:  f.Character.ID,
				Focus:        TrainStrategyFocus,
				Priority:     PriorityHigh,
				Reason:       fmt.Sprintf("%s repeatedly abandoned the gameplan and needs discipline work", name),
				TimeRequired: 8,
			})
		}
		if eval.TeamworkRating < 50 {
			recs = append(recs, Recommendation{
				CharacterID:  f.Character.ID,
				Focus:        TrainTeamChemistry,
				Priority:     PriorityMedium,
				Reason:       fmt.Sprintf("%s struggled to coordinate with teammates", name),
				TimeRequired: 4,
			})
		}
		if eval.BattleRating < 60 {
			recs = append(recs, Recommendation{
				CharacterID:  f.Character.ID,
				Focus:        TrainCombatSkills,
				Priority:     PriorityMedium,
				Reason:       fmt.Sprintf("%s underperformed in combat and needs technique drills", name),
				TimeRequired: 6,
			})
		}
		if f.Psyche.Stress > 70 {
			recs = append(recs, Recommendation{
				CharacterID:  f.Character.ID,
				Focus:        TrainStressManagement,
				Priority:     PriorityHigh,
				Reason:       fmt.Sprintf("%s is carrying dangerous stress levels into the next battle", name),
				TimeRequired: 3,
			})
		}
	}

	// Trauma consequences drive their own mental-health recommendations,
	// sized by the recovery estimate.
	for _, c := range consequences {
		if c.Kind != ConsequenceTrauma {
			continue
		}
		prio := PriorityHigh
		if c.Severity == SeveritySignificant || c.Severity == SeveritySevere {
			prio = PriorityUrgent
		}
		recs = append(recs, Recommendation{
			CharacterID:  c.CharacterID,
			Focus:        TrainMentalHealth,
			Priority:     prio,
			Reason:       c.Description,
			TimeRequired: c.RecoveryTime,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority > recs[j].Priority
	})
	return recs
}
