package combatant

// PsychProfile holds the persistent psychological traits of a character.
// All values are bounded [0,100].
type PsychProfile struct {
	Training      int
	TeamPlayer    int
	Ego           int
	MentalHealth  int
	Communication int
}

// Character is the persistent character record handed in by the caller.
// Battle-scoped state (psychological state, performance counters) lives in
// the battle package; this record is only read, never mutated, by the
// simulation core. Stat improvements are emitted as events instead.
type Character struct {
	ID        string
	Name      string
	Archetype Archetype
	Level     int

	CurrentHealth int
	MaxHealth     int
	Strength      int
	Defense       int
	Speed         int

	Psych             PsychProfile
	CurrentStress     int
	CurrentConfidence int
	TeamTrust         int // trust toward the current team as a whole
	GameplanAdherence int
	PersonalityTraits []string

	// Relationships maps teammate ID to relationship strength [-100,100].
	Relationships map[string]int

	// HatedTeammates lists IDs of teammates this character has an explicit
	// grudge against. Drives the friendly-fire deviation gate.
	HatedTeammates []string
}

// Clone returns a deep copy safe to mutate independently.
func (c *Character) Clone() *Character {
	if c == nil {
		return nil
	}
	cp := *c
	cp.PersonalityTraits = append([]string(nil), c.PersonalityTraits...)
	cp.HatedTeammates = append([]string(nil), c.HatedTeammates...)
	if c.Relationships != nil {
		cp.Relationships = make(map[string]int, len(c.Relationships))
		for k, v := range c.Relationships {
			cp.Relationships[k] = v
		}
	}
	return &cp
}

// HealthRatio returns current/max health in [0,1].
func (c *Character) HealthRatio() float64 {
	if c.MaxHealth <= 0 {
		return 0
	}
	r := float64(c.CurrentHealth) / float64(c.MaxHealth)
	if r < 0 {
		return 0
	}
	return r
}

func (c *Character) IsAlive() bool { return c.CurrentHealth > 0 }

// HasTrait reports whether the character carries the named personality trait.
func (c *Character) HasTrait(trait string) bool {
	for _, t := range c.PersonalityTraits {
		if t == trait {
			return true
		}
	}
	return false
}

// Hates reports whether id is on the character's grudge list.
func (c *Character) Hates(id string) bool {
	for _, h := range c.HatedTeammates {
		if h == id {
			return true
		}
	}
	return false
}

// Clamp bounds v to [lo,hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp100 bounds v to the standard stat range [0,100].
func Clamp100(v int) int { return Clamp(v, 0, 100) }
