package analysis

import (
	"fmt"

	"arena-lite/battle"
	"arena-lite/combatant"
)

// mutualMoment is an interaction both characters independently recorded.
type mutualMoment struct {
	description    string
	strengthChange int
	momentType     MomentType
}

// relationshipDeltas computes the pairwise relationship changes for the
// player team. Pairs are visited in roster order with A before B; a change
// is emitted only when the strength actually moved.
func relationshipDeltas(st *battle.State, memories []Memory) []RelationshipChange {
	team := st.Player
	byID := make(map[string]*Memory, len(memories))
	for i := range memories {
		byID[memories[i].CharacterID] = &memories[i]
	}

	var changes []RelationshipChange
	for i := 0; i < len(team.Fighters); i++ {
		for j := i + 1; j < len(team.Fighters); j++ {
			a, b := team.Fighters[i], team.Fighters[j]
			memA, memB := byID[a.Character.ID], byID[b.Character.ID]
			if memA == nil || memB == nil {
				continue
			}

			// Compatibility only modulates battles the pair actually
			// shared moments in; without signal the pair is untouched.
			mutual := findMutualMoments(memA, memB)
			if len(mutual) == 0 {
				continue
			}

			old := a.Character.Relationships[b.Character.ID]
			delta := compatibilityEffect(a, b)
			var reasons []string
			for _, m := range mutual {
				delta += m.strengthChange
				reasons = append(reasons, m.description)
			}

			next := combatant.Clamp(old+delta, -100, 100)
			if next == old {
				continue
			}
			changes = append(changes, RelationshipChange{
				CharacterA:   a.Character.ID,
				CharacterB:   b.Character.ID,
				OldStrength:  old,
				NewStrength:  next,
				Reasons:      reasons,
				Implications: futureImplications(old, next, a, b),
			})
		}
	}
	return changes
}

// findMutualMoments matches moments the two characters recorded about each
// other. A match requires reciprocal direction and strength changes within
// 5 points of each other; the averaged change counts once.
func findMutualMoments(memA, memB *Memory) []mutualMoment {
	var mutual []mutualMoment
	used := make([]bool, len(memB.RelationshipMoments))

	for _, ma := range memA.RelationshipMoments {
		if ma.WithCharacter != memB.CharacterID {
			continue
		}
		for k, mb := range memB.RelationshipMoments {
			if used[k] || mb.WithCharacter != memA.CharacterID {
				continue
			}
			if abs(ma.StrengthChange-mb.StrengthChange) >= 5 {
				continue
			}
			used[k] = true
			mutual = append(mutual, mutualMoment{
				description:    ma.EmotionalContext,
				strengthChange: (ma.StrengthChange + mb.StrengthChange) / 2,
				momentType:     ma.Type,
			})
			break
		}
	}
	return mutual
}

// compatibilityEffect adjusts a pair's delta for personality fit: similar
// discipline and mutual teamwork pull characters together, a wide
// confidence gap or shared high stress pushes them apart.
func compatibilityEffect(a, b *battle.Fighter) int {
	bonus := 0

	adherenceDiff := abs(a.Performance.StrategyDeviations - b.Performance.StrategyDeviations)
	switch {
	case adherenceDiff < 2:
		bonus += 5
	case adherenceDiff > 4:
		bonus -= 5
	}

	if a.Performance.TeamplayActions > 3 && b.Performance.TeamplayActions > 3 {
		bonus += 10
	}

	confidenceDiff := abs(a.Psyche.Confidence - b.Psyche.Confidence)
	switch {
	case confidenceDiff < 20:
		bonus += 3
	case confidenceDiff > 50:
		bonus -= 3
	}

	if a.Psyche.Stress > 70 && b.Psyche.Stress > 70 {
		bonus -= 5
	}
	return bonus
}

func futureImplications(old, next int, a, b *battle.Fighter) []string {
	var implications []string
	delta := next - old

	switch {
	case delta > 20:
		implications = append(implications,
			"Strong bond will improve team coordination in future battles",
			"May develop into natural battle partnership")
		if next > 70 {
			implications = append(implications, "Could become inseparable - may struggle if separated")
		}
	case delta < -20:
		implications = append(implications,
			"Tension may disrupt team chemistry if not addressed",
			"May need mediation or separate training sessions")
		if next < -50 {
			implications = append(implications, "Risk of open conflict during missions")
		}
	case abs(delta) > 5:
		implications = append(implications, "Relationship is evolving - monitor for further changes")
	}

	if a.Psyche.Confidence > 80 && b.Psyche.Confidence < 40 {
		implications = append(implications,
			fmt.Sprintf("Confidence gap may create mentor-student dynamic between %s and %s",
				a.Character.Name, b.Character.Name))
	}
	return implications
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
