package analysis

import (
	"arena-lite/battle"
)

// Per-battle stat deltas are bounded so a single battle can never swing a
// persistent trait further than this.
const (
	minStatDelta = -20
	maxStatDelta = 30
)

// combatExperienceGains converts battle performance and psychological
// consequences into persistent stat-delta events. The core never persists
// anything; the sink's owner decides where the deltas land.
func combatExperienceGains(st *battle.State, evals []Evaluation, consequences []Consequence, sink EventSink) []StatDeltaEvent {
	byChar := make(map[string][]Consequence)
	for _, c := range consequences {
		byChar[c.CharacterID] = append(byChar[c.CharacterID], c)
	}
	won := st.Result == battle.ResultVictory

	var events []StatDeltaEvent
	for _, eval := range evals {
		var training, teamPlayer, ego, mentalHealth, communication float64

		if eval.BattleRating > 70 {
			training += 1.5
			mentalHealth += 2
			ego++
		}
		if eval.TeamworkRating > 70 {
			teamPlayer += 2
			communication += 1.5
		}

		if won {
			mentalHealth++
			ego += 0.5
		} else {
			ego--
			mentalHealth -= 0.5
			training += 0.5 // learn from mistakes
		}

		for _, c := range byChar[eval.CharacterID] {
			switch c.Kind {
			case ConsequenceGrowth:
				training += 2
				mentalHealth += 3
				communication++
			case ConsequenceTrauma:
				mentalHealth -= 3
				ego--
			case ConsequenceInspiration:
				ego += 2
				communication += 2
			}
		}

		emit := func(stat StatKind, delta float64, reason string) {
			if delta == 0 {
				return
			}
			if delta < minStatDelta {
				delta = minStatDelta
			}
			if delta > maxStatDelta {
				delta = maxStatDelta
			}
			e := StatDeltaEvent{
				BattleID:    st.ID,
				CharacterID: eval.CharacterID,
				Stat:        stat,
				Delta:       delta,
				Reason:      reason,
			}
			events = append(events, e)
			sink.RecordStatDelta(e)
		}

		emit(StatTraining, training, "combat experience")
		emit(StatTeamPlayer, teamPlayer, "combat experience")
		emit(StatEgo, ego, "combat experience")
		emit(StatMentalHealth, mentalHealth, "combat experience")
		emit(StatCommunication, communication, "combat experience")
	}
	return events
}
