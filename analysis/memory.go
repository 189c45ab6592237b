package analysis

import (
	"fmt"

	"arena-lite/battle"
	"arena-lite/judge"
)

// collectMemories builds the per-character battle memory for every fighter
// on the player team. Memories derive only from the immutable log, the
// final fighter states, and the performance counters.
func collectMemories(st *battle.State) []Memory {
	team := st.Player
	memories := make([]Memory, 0, len(team.Fighters))
	for _, f := range team.Fighters {
		memories = append(memories, collectMemory(st, team, f))
	}
	return memories
}

func collectMemory(st *battle.State, team *battle.Team, f *battle.Fighter) Memory {
	m := Memory{CharacterID: f.Character.ID}
	perf := f.Performance

	m.NotableEvents = notableEvents(st, team, f)
	m.RelationshipMoments = keyInteractions(team, f)
	m.EmotionalImpact = emotionalImpact(f, m.NotableEvents)
	m.PersonalGrowth = growthMoments(f, m.RelationshipMoments)
	m.Trauma = traumaEvents(f, m, perf)
	return m
}

func notableEvents(st *battle.State, team *battle.Team, f *battle.Fighter) []NotableEvent {
	var events []NotableEvent
	perf := f.Performance
	name := f.Character.Name

	if perf.CriticalHits > 2 {
		events = append(events, NotableEvent{
			Type:        EventHeroicAction,
			Description: fmt.Sprintf("%s landed %d critical hits", name, perf.CriticalHits),
		})
	}
	if perf.TeamplayActions > 3 {
		events = append(events, NotableEvent{
			Type:        EventTeamwork,
			Description: fmt.Sprintf("%s kept the team coordinated all battle", name),
		})
	}
	if perf.StrategyDeviations > 2 {
		events = append(events, NotableEvent{
			Type:        EventConflict,
			Description: fmt.Sprintf("%s repeatedly broke from the gameplan", name),
		})
	}

	// Witnessing a teammate go down marks everyone left standing.
	for _, mate := range team.Fighters {
		if mate.Character.ID != f.Character.ID && !mate.Character.IsAlive() {
			events = append(events, NotableEvent{
				Type:        EventWitnessedDeath,
				Description: fmt.Sprintf("%s watched %s fall", name, mate.Character.Name),
			})
		}
	}

	// Rogue actions leave marks on the whole team.
	for _, entry := range st.Log {
		if entry.Type != battle.LogEntryJudgeRuling {
			continue
		}
		switch entry.Rogue {
		case judge.ActionAttackTeammate:
			events = append(events, NotableEvent{
				Type:        EventBetrayal,
				Description: entry.Description,
				Round:       entry.Round,
			})
		case judge.ActionProtectiveSacrifice:
			if entry.CharacterID == f.Character.ID {
				events = append(events, NotableEvent{
					Type:        EventHeroicAction,
					Description: entry.Description,
					Round:       entry.Round,
				})
			} else {
				events = append(events, NotableEvent{
					Type:        EventSavedByAlly,
					Description: entry.Description,
					Round:       entry.Round,
				})
			}
		}
	}

	return events
}

// keyInteractions derives the pairwise relationship moments between a
// fighter and each teammate from the performance counters and final
// health. Symmetric by construction, which is what the reciprocal matching
// in the relationship stage expects.
func keyInteractions(team *battle.Team, f *battle.Fighter) []RelationshipMoment {
	var moments []RelationshipMoment
	perf := f.Performance

	for _, mate := range team.Fighters {
		if mate.Character.ID == f.Character.ID {
			continue
		}
		matePerf := mate.Performance

		if perf.TeamplayActions > 0 && matePerf.DamageReceived > 20 {
			moments = append(moments, RelationshipMoment{
				WithCharacter:    mate.Character.ID,
				Type:             MomentSavedLife,
				StrengthChange:   25,
				EmotionalContext: fmt.Sprintf("%s pulled %s out of danger", f.Character.Name, mate.Character.Name),
				WitnessedByTeam:  true,
			})
		} else if perf.TeamplayActions > 0 {
			moments = append(moments, RelationshipMoment{
				WithCharacter:    mate.Character.ID,
				Type:             MomentSupported,
				StrengthChange:   15,
				EmotionalContext: fmt.Sprintf("%s backed %s up under pressure", f.Character.Name, mate.Character.Name),
				WitnessedByTeam:  true,
			})
		}

		if perf.StrategyDeviations > 2 && matePerf.StrategyDeviations == 0 {
			moments = append(moments, RelationshipMoment{
				WithCharacter:    mate.Character.ID,
				Type:             MomentConflict,
				StrengthChange:   -10,
				EmotionalContext: fmt.Sprintf("%s kept improvising while %s held the line", f.Character.Name, mate.Character.Name),
			})
		}

		if f.Character.HealthRatio() < 0.5 && mate.Character.HealthRatio() < 0.5 {
			moments = append(moments, RelationshipMoment{
				WithCharacter:    mate.Character.ID,
				Type:             MomentBonded,
				StrengthChange:   10,
				EmotionalContext: fmt.Sprintf("%s and %s bled together and kept standing", f.Character.Name, mate.Character.Name),
				WitnessedByTeam:  true,
			})
		}
	}
	return moments
}

func emotionalImpact(f *battle.Fighter, events []NotableEvent) int {
	impact := 0

	switch ratio := f.Character.HealthRatio(); {
	case ratio < 0.3:
		impact -= 15
	case ratio < 0.5:
		impact -= 10
	}

	for _, e := range events {
		switch e.Type {
		case EventHeroicAction:
			impact += 5
		case EventBetrayal, EventWitnessedDeath:
			impact -= 20
		case EventSavedByAlly:
			impact += 3
		case EventTeamwork:
			impact += 2
		case EventConflict:
			impact -= 5
		}
	}
	return impact
}

func growthMoments(f *battle.Fighter, moments []RelationshipMoment) []Growth {
	var growth []Growth
	perf := f.Performance
	name := f.Character.Name

	if perf.SuccessfulHits > 5 && f.Psyche.Stress > 60 {
		growth = append(growth, Growth{
			Type:        GrowthOvercameFear,
			Description: fmt.Sprintf("%s kept swinging through the panic", name),
		})
	}
	if perf.TeamplayActions > 3 && perf.StrategyDeviations == 0 {
		growth = append(growth, Growth{
			Type:        GrowthShowedLeadership,
			Description: fmt.Sprintf("%s anchored the team without ever breaking formation", name),
		})
	}

	supportive := 0
	for _, m := range moments {
		if m.Type == MomentSupported || m.Type == MomentSavedLife {
			supportive++
		}
	}
	if supportive >= 2 {
		growth = append(growth, Growth{
			Type:        GrowthLearnedTeamwork,
			Description: fmt.Sprintf("%s learned to fight as part of a unit", name),
		})
	}
	if perf.CriticalHits > 2 {
		growth = append(growth, Growth{
			Type:        GrowthDevelopedSkill,
			Description: fmt.Sprintf("%s found the gaps in the opponent's guard", name),
		})
	}
	return growth
}

func traumaEvents(f *battle.Fighter, m Memory, perf battle.Performance) []Trauma {
	var trauma []Trauma
	name := f.Character.Name

	if f.Character.MaxHealth > 0 && f.Character.HealthRatio() < 0.2 {
		trauma = append(trauma, Trauma{
			Type:         TraumaOverwhelmingFear,
			Severity:     SeveritySevere,
			Description:  fmt.Sprintf("%s was beaten to the edge of consciousness", name),
			RecoveryTime: 10,
		})
	}
	for _, moment := range m.RelationshipMoments {
		if moment.Type == MomentAbandoned {
			trauma = append(trauma, Trauma{
				Type:         TraumaBetrayedByAlly,
				Severity:     SeverityModerate,
				Description:  fmt.Sprintf("%s was left behind by a teammate", name),
				RecoveryTime: 5,
			})
			break
		}
	}
	for _, e := range m.NotableEvents {
		if e.Type == EventWitnessedDeath {
			trauma = append(trauma, Trauma{
				Type:         TraumaWitnessedViolence,
				Severity:     SeverityModerate,
				Description:  fmt.Sprintf("%s cannot stop replaying what they saw", name),
				RecoveryTime: 7,
			})
			break
		}
	}
	if perf.StrategyDeviations > 3 && m.EmotionalImpact < -20 {
		trauma = append(trauma, Trauma{
			Type:         TraumaFailedTeam,
			Severity:     SeverityMild,
			Description:  fmt.Sprintf("%s knows the loss is partly on them", name),
			RecoveryTime: 3,
		})
	}
	return trauma
}
