package combatant

// Archetype 角色原型
type Archetype byte

const (
	ArchetypeNone      Archetype = 0
	ArchetypeWarrior   Archetype = 1
	ArchetypeMage      Archetype = 2
	ArchetypeTrickster Archetype = 3
	ArchetypeBeast     Archetype = 4
	ArchetypeLeader    Archetype = 5
	ArchetypeAssassin  Archetype = 6
	ArchetypeSupport   Archetype = 7
)

var ArchetypeDictionary = map[Archetype]string{
	ArchetypeNone:      "none",
	ArchetypeWarrior:   "warrior",
	ArchetypeMage:      "mage",
	ArchetypeTrickster: "trickster",
	ArchetypeBeast:     "beast",
	ArchetypeLeader:    "leader",
	ArchetypeAssassin:  "assassin",
	ArchetypeSupport:   "support",
}

func (a Archetype) String() string {
	if s, ok := ArchetypeDictionary[a]; ok {
		return s
	}
	return "unknown"
}
