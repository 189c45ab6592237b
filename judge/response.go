package judge

import (
	"fmt"

	"arena-lite/combatant"
)

// Flavor line pools. Content is a stub concern; selection is deterministic
// through the resolver's seeded source.

var coachLines = map[ActionType][]string{
	ActionRecklessAttack: {
		"%s! What are you doing?! Stick to the plan!",
		"That's not what we practiced! Control yourself!",
		"Brilliant damage, but you're going to get yourself killed!",
	},
	ActionRefuseFight: {
		"Get back in there! This is not the time for this!",
		"%s, your team needs you! Fight!",
		"What's gotten into you? We talked about this!",
	},
	ActionCreativeStrategy: {
		"That wasn't the plan, but... not bad!",
		"Improvisation! I like the creativity!",
		"Next time warn me before you try something like that!",
	},
	ActionPanicFlee: {
		"Come back here! We can work through this!",
		"%s! Remember your training!",
		"It's okay to be scared, but don't abandon your team!",
	},
}

var fallbackCoachLines = []string{
	"What are you thinking?! Get it together!",
}

// CoachResponse returns a coach reaction line for a rogue action.
func (r *Resolver) CoachResponse(action RogueAction, coachName string) string {
	if coachName == "" {
		coachName = "Coach"
	}
	lines, ok := coachLines[action.Type]
	if !ok {
		lines = fallbackCoachLines
	}
	line := lines[r.rng.Intn(len(lines))]
	if hasPlaceholder(line) {
		line = fmt.Sprintf(line, action.Character.Name)
	}
	return coachName + ": " + line
}

var defensiveLines = []string{
	"I know what I'm doing!",
	"Trust me, I've been doing this longer than you!",
	"My way is better!",
	"Don't question my methods!",
}

var erraticLines = []string{
	"I... I can't think straight!",
	"Everything is falling apart!",
	"I don't know what came over me!",
	"The pressure... it's too much!",
}

var apologeticLines = []string{
	"Sorry coach, I lost my focus for a moment.",
	"You're right, I should stick to the gameplan.",
	"I'll do better next time.",
	"My emotions got the better of me.",
}

// CharacterResponse returns the character's reply to the coach after a
// rogue action. High ego defends, low mental health rambles, everyone else
// apologizes.
func (r *Resolver) CharacterResponse(c *combatant.Character, action RogueAction) string {
	switch {
	case c.Psych.Ego > 80:
		return defensiveLines[r.rng.Intn(len(defensiveLines))]
	case c.Psych.MentalHealth < 30:
		return erraticLines[r.rng.Intn(len(erraticLines))]
	default:
		return apologeticLines[r.rng.Intn(len(apologeticLines))]
	}
}

func hasPlaceholder(line string) bool {
	for i := 0; i+1 < len(line); i++ {
		if line[i] == '%' && line[i+1] == 's' {
			return true
		}
	}
	return false
}
