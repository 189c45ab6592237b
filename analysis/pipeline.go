package analysis

import (
	"log"

	"arena-lite/battle"
)

// Pipeline runs the full post-battle analysis over a finished battle state.
// It is read-only with respect to the state; every side effect leaves
// through the EventSink.
type Pipeline struct {
	sink EventSink
}

// NewPipeline builds a pipeline. A nil sink means events are discarded.
func NewPipeline(sink EventSink) *Pipeline {
	if sink == nil {
		sink = NoopSink{}
	}
	return &Pipeline{sink: sink}
}

// Run analyzes a finished battle and returns the complete report. Stages
// run in fixed order because each consumes the previous one's output:
// memories, evaluations, relationships, consequences, experience gains,
// recommendations, chemistry, team metrics.
func (p *Pipeline) Run(st *battle.State) (*Report, error) {
	if st == nil {
		return nil, battle.ErrMissingRequiredData
	}
	if st.Player == nil || len(st.Player.Fighters) == 0 {
		return nil, battle.ErrMissingRequiredData
	}

	result := st.Result
	if result == battle.ResultNone {
		result = deriveResult(st)
	}

	memories := collectMemories(st)
	evals := evaluatePerformance(st, memories)
	relationships := relationshipDeltas(st, memories)
	consequences := assessConsequences(st, memories)
	combatExperienceGains(st, evals, consequences, p.sink)
	recommendations := trainingRecommendations(st, evals, memories, consequences)
	chemistry := chemistryEvolution(st, relationships, p.sink)
	metrics := teamMetrics(st, evals)

	p.recordAdherenceXP(st, metrics)

	log.Printf("[Analysis %s] %d fighters, %d relationship changes, %d consequences, %d recommendations",
		st.ID, len(evals), len(relationships), len(consequences), len(recommendations))

	return &Report{
		BattleID:            st.ID,
		Result:              result,
		Memories:            memories,
		Evaluations:         evals,
		RelationshipChanges: relationships,
		Consequences:        consequences,
		Recommendations:     recommendations,
		Chemistry:           chemistry,
		Metrics:             metrics,
	}, nil
}

// recordAdherenceXP reports how well the team held to the gameplan.
// Deviations blocked counts the coaching log entries, each one a moment
// the coach pulled a fighter back on script.
func (p *Pipeline) recordAdherenceXP(st *battle.State, metrics TeamMetrics) {
	blocked := 0
	for _, entry := range st.Log {
		if entry.Type == battle.LogEntryCoaching {
			blocked++
		}
	}
	p.sink.RecordCoachXP(CoachXPEvent{
		BattleID:          st.ID,
		Kind:              XPAdherence,
		AdherenceRate:     float64(metrics.Adherence) / 100,
		DeviationsBlocked: blocked,
	})
}

// deriveResult decides the outcome from survivors when the state carries
// no explicit result.
func deriveResult(st *battle.State) battle.Result {
	playerAlive := len(st.Player.AliveFighters())
	opponentAlive := 0
	if st.Opponent != nil {
		opponentAlive = len(st.Opponent.AliveFighters())
	}
	switch {
	case playerAlive > 0 && opponentAlive == 0:
		return battle.ResultVictory
	case playerAlive == 0 && opponentAlive > 0:
		return battle.ResultDefeat
	default:
		return battle.ResultDraw
	}
}
