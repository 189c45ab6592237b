package coaching

import (
	"arena-lite/battle"
)

// Approach 辅导方式
type Approach byte

const (
	ApproachSupportive Approach = 0
	ApproachFirm       Approach = 1
	ApproachTactical   Approach = 2
	ApproachEmpathetic Approach = 3
)

var ApproachDictionary = map[Approach]string{
	ApproachSupportive: "supportive",
	ApproachFirm:       "firm",
	ApproachTactical:   "tactical",
	ApproachEmpathetic: "empathetic",
}

func (a Approach) String() string { return ApproachDictionary[a] }

// DetermineApproach picks the coaching approach for a fighter. Personality
// trait sets dominate; mental-state thresholds are the fallback.
func DetermineApproach(f *battle.Fighter) Approach {
	c := &f.Character
	st := f.Psyche

	switch {
	case c.HasTrait("Prideful") || c.HasTrait("Defiant"):
		if st.Stress > 70 {
			return ApproachEmpathetic
		}
		return ApproachTactical
	case c.HasTrait("Loyal") || c.HasTrait("Honorable"):
		if st.Confidence < 40 {
			return ApproachSupportive
		}
		return ApproachFirm
	case c.HasTrait("Emotional") || c.HasTrait("Sensitive"):
		return ApproachEmpathetic
	case c.HasTrait("Logical") || c.HasTrait("Strategic"):
		return ApproachTactical
	}

	switch {
	case st.Stress > 60:
		return ApproachEmpathetic
	case st.Confidence < 50:
		return ApproachSupportive
	case st.StrategicAlignment < 60:
		return ApproachFirm
	default:
		return ApproachTactical
	}
}

// approachMultiplier scores how well an approach fits the fighter's
// personality.
func approachMultiplier(f *battle.Fighter, approach Approach) float64 {
	c := &f.Character
	switch approach {
	case ApproachSupportive:
		if c.HasTrait("Insecure") || c.HasTrait("Emotional") {
			return 1.3
		}
		if c.HasTrait("Proud") || c.HasTrait("Independent") {
			return 0.7
		}
	case ApproachFirm:
		if c.HasTrait("Disciplined") || c.HasTrait("Military") {
			return 1.3
		}
		if c.HasTrait("Rebellious") || c.HasTrait("Free-spirited") {
			return 0.6
		}
	case ApproachTactical:
		if c.HasTrait("Strategic") || c.HasTrait("Intelligent") {
			return 1.4
		}
		if c.HasTrait("Emotional") || c.HasTrait("Impulsive") {
			return 0.8
		}
	case ApproachEmpathetic:
		if c.HasTrait("Traumatized") || c.HasTrait("Sensitive") {
			return 1.5
		}
		if c.HasTrait("Stoic") || c.HasTrait("Unemotional") {
			return 0.7
		}
	}
	return 1.0
}

// stateMultiplier discounts coaching effectiveness for fighters in a bad
// place: stressed, distrustful, or in a mental-health crisis.
func stateMultiplier(f *battle.Fighter) float64 {
	mult := 1.0
	switch {
	case f.Psyche.Stress > 70:
		mult *= 0.7
	case f.Psyche.Stress > 50:
		mult *= 0.85
	}
	switch {
	case f.Character.TeamTrust < 30:
		mult *= 0.6
	case f.Character.TeamTrust < 50:
		mult *= 0.8
	}
	switch {
	case f.Character.Psych.MentalHealth < 30:
		mult *= 0.5
	case f.Character.Psych.MentalHealth < 50:
		mult *= 0.75
	}
	return mult
}

// rallyModifier scales how strongly a fighter responds to a team rally.
func rallyModifier(f *battle.Fighter) float64 {
	c := &f.Character
	switch {
	case c.HasTrait("Loyal") || c.HasTrait("Emotional"):
		return 1.2
	case c.HasTrait("Rebellious") || c.HasTrait("Independent"):
		return 0.8
	default:
		return 1.0
	}
}
