package analysis

import (
	"fmt"

	"arena-lite/battle"
	"arena-lite/combatant"
)

// chemistryEvolution folds the pairwise relationship changes into a single
// team chemistry delta, records which pairs moved enough to matter, and
// reports the chemistry improvement to the coach-progression sink.
func chemistryEvolution(st *battle.State, changes []RelationshipChange, sink EventSink) ChemistryEvolution {
	evo := ChemistryEvolution{}

	total := 0
	for _, ch := range changes {
		delta := ch.NewStrength - ch.OldStrength
		total += delta
		pair := [2]string{ch.CharacterA, ch.CharacterB}
		switch {
		case delta > 20:
			evo.Strengthened = append(evo.Strengthened, pair)
		case delta < -20:
			evo.Weakened = append(evo.Weakened, pair)
		}
		if ch.NewStrength > 70 && ch.OldStrength <= 70 {
			evo.EmergingNotes = append(evo.EmergingNotes,
				fmt.Sprintf("%s and %s are becoming a natural battle pair", ch.CharacterA, ch.CharacterB))
		}
	}

	evo.Delta = total / 10
	evo.Final = combatant.Clamp100(st.Player.Chemistry + evo.Delta)

	if evo.Delta != 0 {
		sink.RecordCoachXP(CoachXPEvent{
			BattleID:       st.ID,
			Kind:           XPChemistry,
			Improvement:    evo.Delta,
			FinalChemistry: evo.Final,
		})
	}
	return evo
}
