package coaching

import (
	"fmt"
	"math"

	"arena-lite/combatant"
)

// Focus 辅导主题
type Focus byte

const (
	FocusGeneral       Focus = 0
	FocusPerformance   Focus = 1
	FocusMentalHealth  Focus = 2
	FocusTeamRelations Focus = 3
	FocusStrategy      Focus = 4
)

var FocusDictionary = map[Focus]string{
	FocusGeneral:       "general",
	FocusPerformance:   "performance",
	FocusMentalHealth:  "mental_health",
	FocusTeamRelations: "team_relations",
	FocusStrategy:      "strategy",
}

func (f Focus) String() string { return FocusDictionary[f] }

// Mood 角色接受辅导时的态度
type Mood byte

const (
	MoodNeutral   Mood = 0
	MoodReceptive Mood = 1
	MoodResistant Mood = 2
	MoodDesperate Mood = 3
)

var MoodDictionary = map[Mood]string{
	MoodNeutral:   "neutral",
	MoodReceptive: "receptive",
	MoodResistant: "resistant",
	MoodDesperate: "desperate",
}

func (m Mood) String() string { return MoodDictionary[m] }

// Outcome is the stat delta bundle a session produces. Deltas are applied
// by the persistence collaborator, not by this engine.
type Outcome struct {
	MentalHealth  int
	Training      int
	TeamPlayer    int
	Ego           int
	Communication int
	Relationship  int
	Feedback      string
}

// Session records one between-battles coaching session with a character.
type Session struct {
	CharacterID   string
	Focus         Focus
	Mood          Mood
	Effectiveness int
	PointsSpent   int
	Outcome       Outcome
}

const (
	sessionCost       = 1
	defaultCoachSkill = 75
)

// AssessMood reads the character's disposition toward coaching.
func AssessMood(c *combatant.Character) Mood {
	p := c.Psych
	switch {
	case p.MentalHealth < 25:
		return MoodDesperate
	case p.Ego > 80 && p.Training < 50:
		return MoodResistant
	case p.MentalHealth > 70 && p.Training > 70:
		return MoodReceptive
	default:
		return MoodNeutral
	}
}

// SessionEffectiveness computes how well a session lands given the coach's
// skill and the character's mood and temperament. Clamped [0,100].
func SessionEffectiveness(c *combatant.Character, coachSkill int, mood Mood) int {
	if coachSkill <= 0 {
		coachSkill = defaultCoachSkill
	}
	eff := coachSkill
	switch mood {
	case MoodReceptive:
		eff += 20
	case MoodResistant:
		eff -= 30
	case MoodDesperate:
		eff += 10
	}
	if c.Psych.Ego > 90 {
		eff -= 15
	}
	if c.Psych.Communication < 40 {
		eff -= 10
	}
	return combatant.Clamp100(eff)
}

// ConductSession runs one coaching session against the available points
// pool and returns the session plus the remaining pool. A session attempted
// with zero points is a zero-effect outcome whose feedback names the
// missing resource; it is never an error.
func ConductSession(c *combatant.Character, focus Focus, coachSkill, points int) (Session, int) {
	s := Session{CharacterID: c.ID, Focus: focus}

	if points <= 0 {
		s.Outcome.Feedback = "Not enough coaching points to conduct the session."
		return s, 0
	}

	s.PointsSpent = sessionCost
	points -= sessionCost

	s.Mood = AssessMood(c)
	eff := SessionEffectiveness(c, coachSkill, s.Mood)
	s.Effectiveness = eff
	s.Outcome = focusOutcome(c, focus, s.Mood, eff)
	return s, points
}

func focusOutcome(c *combatant.Character, focus Focus, mood Mood, eff int) Outcome {
	var out Outcome
	switch focus {
	case FocusPerformance:
		if mood == MoodDesperate {
			out.MentalHealth = 5
		}
		if c.Psych.Ego > 80 {
			out.Ego = -2
		}
		out.Communication = 1
		if eff > 70 {
			out.Relationship = 2
		} else {
			out.Relationship = -1
		}
		out.Feedback = fmt.Sprintf("%s drilled hard on execution fundamentals.", c.Name)

	case FocusMentalHealth:
		out.MentalHealth = scaled(eff, 15)
		out.TeamPlayer = 2
		if mood == MoodResistant {
			out.Ego = -5
		}
		out.Communication = 3
		if eff > 60 {
			out.Relationship = 5
		} else {
			out.Relationship = 1
		}
		out.Feedback = fmt.Sprintf("%s opened up about the pressure they're under.", c.Name)

	case FocusTeamRelations:
		out.TeamPlayer = scaled(eff, 8)
		out.Communication = scaled(eff, 6)
		out.MentalHealth = 2
		out.Training = 1
		out.Ego = -3
		out.Relationship = 3
		out.Feedback = fmt.Sprintf("%s worked through friction with teammates.", c.Name)

	case FocusStrategy:
		out.MentalHealth = 1
		out.TeamPlayer = 1
		out.Communication = 2
		out.Relationship = 2
		out.Feedback = fmt.Sprintf("%s walked through the gameplan step by step.", c.Name)

	default: // FocusGeneral
		out.MentalHealth = 3
		out.Training = 2
		out.TeamPlayer = 1
		out.Ego = -1
		out.Communication = 2
		out.Relationship = 1
		out.Feedback = fmt.Sprintf("%s had a wide-ranging check-in with the coach.", c.Name)
	}
	return out
}

// scaled maps effectiveness into a share of the maximum delta.
func scaled(eff, max int) int {
	return int(math.Floor(float64(eff) / 100 * float64(max)))
}
