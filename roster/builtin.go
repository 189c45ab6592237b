package roster

import "arena-lite/combatant"

// builtinRoster 内置角色模板
var builtinRoster = []Template{
	{
		ID: "vex", Name: "Vex", Tagline: "The blade that never questions the hand",
		Archetype: combatant.ArchetypeWarrior, Tier: 1, Level: 8,
		MaxHealth: 140, Strength: 42, Defense: 30, Speed: 24,
		Psych:  combatant.PsychProfile{Training: 85, TeamPlayer: 75, Ego: 45, MentalHealth: 70, Communication: 60},
		Traits: []string{"Loyal", "Disciplined"},
	},
	{
		ID: "rook", Name: "Rook", Tagline: "Counts every move three turns ahead",
		Archetype: combatant.ArchetypeMage, Tier: 1, Level: 8,
		MaxHealth: 95, Strength: 36, Defense: 18, Speed: 20,
		Psych:  combatant.PsychProfile{Training: 90, TeamPlayer: 55, Ego: 70, MentalHealth: 65, Communication: 70},
		Traits: []string{"Strategic", "Intelligent"},
	},
	{
		ID: "mara", Name: "Mara", Tagline: "Laughs first, apologizes never",
		Archetype: combatant.ArchetypeTrickster, Tier: 2, Level: 6,
		MaxHealth: 85, Strength: 30, Defense: 15, Speed: 38,
		Psych:  combatant.PsychProfile{Training: 45, TeamPlayer: 35, Ego: 88, MentalHealth: 60, Communication: 50},
		Traits: []string{"Rebellious", "Impulsive", "Free-spirited"},
	},
	{
		ID: "gore", Name: "Gore", Tagline: "Stopped listening years ago",
		Archetype: combatant.ArchetypeBeast, Tier: 2, Level: 7,
		MaxHealth: 180, Strength: 48, Defense: 35, Speed: 12,
		Psych:  combatant.PsychProfile{Training: 25, TeamPlayer: 20, Ego: 82, MentalHealth: 40, Communication: 15},
		Traits: []string{"Proud", "Independent"},
		Hates:  []string{"mara"},
	},
	{
		ID: "sera", Name: "Sera", Tagline: "Holds the line and everyone behind it",
		Archetype: combatant.ArchetypeLeader, Tier: 1, Level: 9,
		MaxHealth: 120, Strength: 34, Defense: 28, Speed: 22,
		Psych:  combatant.PsychProfile{Training: 80, TeamPlayer: 90, Ego: 55, MentalHealth: 85, Communication: 88},
		Traits: []string{"Honorable", "Strategic"},
	},
	{
		ID: "nyx", Name: "Nyx", Tagline: "You will not hear the second strike",
		Archetype: combatant.ArchetypeAssassin, Tier: 2, Level: 7,
		MaxHealth: 75, Strength: 44, Defense: 12, Speed: 45,
		Psych:  combatant.PsychProfile{Training: 70, TeamPlayer: 30, Ego: 75, MentalHealth: 50, Communication: 25},
		Traits: []string{"Stoic", "Independent"},
	},
	{
		ID: "pip", Name: "Pip", Tagline: "Still flinches, still shows up",
		Archetype: combatant.ArchetypeSupport, Tier: 3, Level: 3,
		MaxHealth: 70, Strength: 18, Defense: 14, Speed: 26,
		Psych:  combatant.PsychProfile{Training: 55, TeamPlayer: 80, Ego: 25, MentalHealth: 45, Communication: 65},
		Traits: []string{"Sensitive", "Insecure", "Loyal"},
	},
	{
		ID: "brand", Name: "Brand", Tagline: "Former champion, current problem",
		Archetype: combatant.ArchetypeWarrior, Tier: 2, Level: 8,
		MaxHealth: 130, Strength: 40, Defense: 26, Speed: 20,
		Psych:  combatant.PsychProfile{Training: 60, TeamPlayer: 40, Ego: 92, MentalHealth: 35, Communication: 45},
		Traits: []string{"Prideful", "Traumatized"},
		Hates:  []string{"sera"},
	},
}
