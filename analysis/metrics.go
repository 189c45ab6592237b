package analysis

import "arena-lite/battle"

// teamMetrics aggregates the per-fighter evaluations into team scores.
// Conflict resolution and adaptability have no per-battle signal yet and
// sit at a neutral baseline.
func teamMetrics(st *battle.State, evals []Evaluation) TeamMetrics {
	m := TeamMetrics{
		MoraleManagement:   st.Player.Morale,
		ConflictResolution: 50,
		Adaptability:       50,
	}
	if len(evals) == 0 {
		return m
	}

	teamwork, adherence, rating := 0, 0, 0
	for _, e := range evals {
		teamwork += e.TeamworkRating
		adherence += e.AdherenceScore
		rating += e.BattleRating
	}
	n := len(evals)
	m.Teamwork = teamwork / n
	m.Adherence = adherence / n
	m.StrategicExecution = rating / n
	return m
}
