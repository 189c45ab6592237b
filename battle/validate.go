package battle

import "fmt"

// Validate performs the structural invariant checks every externally
// supplied mutation must pass: both teams present and non-empty, health in
// [0, 2x max], morale in [0,100]. Returns nil when the state is sound.
func Validate(s *State) error {
	if s == nil {
		return ErrInvalidState("nil battle state")
	}
	if s.Player == nil || s.Opponent == nil {
		return ErrInvalidState("both teams must be present")
	}
	if len(s.Player.Fighters) == 0 || len(s.Opponent.Fighters) == 0 {
		return ErrInvalidState("teams must not be empty")
	}
	for _, team := range []*Team{s.Player, s.Opponent} {
		if team.Morale < 0 || team.Morale > 100 {
			return ErrInvalidState(fmt.Sprintf("team %s morale %d out of [0,100]", team.Name, team.Morale))
		}
		for _, f := range team.Fighters {
			c := f.Character
			if c.CurrentHealth < 0 {
				return ErrInvalidState(fmt.Sprintf("%s has negative health %d", c.Name, c.CurrentHealth))
			}
			if c.MaxHealth > 0 && c.CurrentHealth > 2*c.MaxHealth {
				return ErrInvalidState(fmt.Sprintf("%s health %d exceeds twice max %d", c.Name, c.CurrentHealth, c.MaxHealth))
			}
		}
	}
	return nil
}
