package battle

import "arena-lite/combatant"

// CalculateChemistry derives team chemistry from the roster's team-player
// scores, docked for every pair involving a low-trust member, plus the
// coach's standing bonus.
func CalculateChemistry(t *Team, coachBonus int) int {
	if len(t.Fighters) == 0 {
		return 0
	}

	total := 0
	for _, f := range t.Fighters {
		total += f.Character.Psych.TeamPlayer
	}
	chemistry := total / len(t.Fighters)

	for i := 0; i < len(t.Fighters); i++ {
		for j := i + 1; j < len(t.Fighters); j++ {
			if t.Fighters[i].Character.TeamTrust < 30 || t.Fighters[j].Character.TeamTrust < 30 {
				chemistry -= 10
			}
		}
	}

	return combatant.Clamp100(chemistry + coachBonus)
}

// ChemistryDamageModifier maps team chemistry to the multiplier applied to
// coordinated team damage.
func ChemistryDamageModifier(chemistry int) float64 {
	switch {
	case chemistry >= 80:
		return 1.15
	case chemistry >= 60:
		return 1.05
	case chemistry >= 40:
		return 1.0
	case chemistry >= 20:
		return 0.9
	default:
		return 0.8
	}
}
