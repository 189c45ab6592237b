package analysis

import (
	"fmt"

	"arena-lite/battle"
)

// assessConsequences derives the durable psychological outcomes for every
// player fighter from their memories: trauma carried forward, growth
// locked in, bonds formed, resentment accumulated, inspiration taken.
func assessConsequences(st *battle.State, memories []Memory) []Consequence {
	var out []Consequence
	for i, f := range st.Player.Fighters {
		m := memories[i]
		out = append(out, traumaConsequences(f, m)...)
		if c := bondingConsequence(f, m); c != nil {
			out = append(out, *c)
		}
		if c := resentmentConsequence(f, m); c != nil {
			out = append(out, *c)
		}
		if c := inspirationConsequence(f, m); c != nil {
			out = append(out, *c)
		}
	}
	return out
}

func traumaConsequences(f *battle.Fighter, m Memory) []Consequence {
	var out []Consequence
	for _, tr := range m.Trauma {
		if tr.Severity == SeverityMild {
			continue
		}
		out = append(out, Consequence{
			CharacterID:  f.Character.ID,
			Kind:         ConsequenceTrauma,
			Severity:     tr.Severity,
			Description:  tr.Description,
			Effects:      traumaEffects(tr),
			RecoveryTime: tr.RecoveryTime,
			Treatments:   traumaTreatments(tr),
		})
	}
	return out
}

func traumaEffects(tr Trauma) []string {
	switch tr.Type {
	case TraumaWitnessedViolence:
		effects := []string{
			"Increased hesitation in combat situations",
			"Heightened stress response to violence",
		}
		if tr.Severity == SeveritySevere {
			effects = append(effects, "Potential flashbacks during intense battles")
		}
		return effects
	case TraumaBetrayedByAlly:
		return []string{
			"Reduced trust in team members",
			"Increased tendency to act independently",
			"Difficulty accepting help from others",
		}
	case TraumaFailedTeam:
		return []string{
			"Increased anxiety about following orders",
			"Self-doubt regarding strategic decisions",
			"Tendency to second-guess leadership",
		}
	case TraumaOverwhelmingFear:
		effects := []string{
			"Panic responses in similar threatening situations",
			"Reduced combat effectiveness under pressure",
		}
		if tr.Severity == SeveritySevere {
			effects = append(effects, "Possible withdrawal from dangerous missions")
		}
		return effects
	}
	return nil
}

func traumaTreatments(tr Trauma) []string {
	treatments := []string{
		"Individual counseling sessions",
		"Gradual exposure therapy in safe environments",
	}
	switch tr.Type {
	case TraumaWitnessedViolence:
		treatments = append(treatments,
			"Desensitization training with simulated combat",
			"Peer support groups")
	case TraumaBetrayedByAlly:
		treatments = append(treatments,
			"Trust-building exercises with reliable teammates",
			"Mediated discussions with involved parties")
	case TraumaFailedTeam:
		treatments = append(treatments,
			"Command structure education and clarification",
			"Practice missions with clear success criteria")
	case TraumaOverwhelmingFear:
		treatments = append(treatments,
			"Anxiety management and breathing techniques",
			"Progressive combat simulation training")
	}
	if tr.Severity == SeveritySevere {
		treatments = append(treatments, "Temporary duty modification or leave")
	}
	return treatments
}

// bondingConsequence fires when a fighter stacked up enough positive
// relationship moments to lock in a team bond.
func bondingConsequence(f *battle.Fighter, m Memory) *Consequence {
	bonding := 0
	total := 0
	for _, moment := range m.RelationshipMoments {
		if moment.Type == MomentSavedLife || moment.Type == MomentSupported || moment.Type == MomentBonded {
			bonding++
			total += moment.StrengthChange
		}
	}
	if bonding < 2 || total <= 30 {
		return nil
	}
	return &Consequence{
		CharacterID: f.Character.ID,
		Kind:        ConsequenceGrowth,
		Severity:    SeverityModerate,
		Description: fmt.Sprintf("%s formed strong bonds with teammates", f.Character.Name),
		Effects: []string{
			"Increased team loyalty and cooperation",
			"Better stress management through social support",
		},
		Treatments: []string{
			"Continue team-building exercises",
			"Assign to missions with bonded teammates",
		},
	}
}

func resentmentConsequence(f *battle.Fighter, m Memory) *Consequence {
	level := 0
	for _, moment := range m.RelationshipMoments {
		if moment.Type == MomentAbandoned || moment.Type == MomentConflict {
			level += abs(moment.StrengthChange)
		}
	}
	if level <= 25 {
		return nil
	}
	severity := SeverityModerate
	if level > 50 {
		severity = SeveritySignificant
	}
	return &Consequence{
		CharacterID: f.Character.ID,
		Kind:        ConsequenceTrauma,
		Severity:    severity,
		Description: fmt.Sprintf("%s harbors resentment toward teammates", f.Character.Name),
		Effects: []string{
			"Reduced cooperation with specific team members",
			"Increased likelihood of strategy deviation",
		},
		RecoveryTime: level / 10,
		Treatments: []string{
			"Mediated conflict resolution sessions",
			"Team-building exercises focused on trust",
		},
	}
}

func inspirationConsequence(f *battle.Fighter, m Memory) *Consequence {
	heroic := 0
	for _, e := range m.NotableEvents {
		if e.Type == EventHeroicAction {
			heroic++
		}
	}
	leaderGrowth := 0
	for _, g := range m.PersonalGrowth {
		if g.Type == GrowthShowedLeadership || g.Type == GrowthOvercameFear {
			leaderGrowth++
		}
	}
	if heroic == 0 && leaderGrowth <= 1 {
		return nil
	}
	return &Consequence{
		CharacterID: f.Character.ID,
		Kind:        ConsequenceInspiration,
		Severity:    SeverityModerate,
		Description: fmt.Sprintf("%s experienced inspiring moments of personal triumph", f.Character.Name),
		Effects: []string{
			"Increased self-confidence and leadership potential",
			"Positive influence on team morale",
		},
		Treatments: []string{
			"Leadership development training",
			"Assign mentor role for struggling teammates",
		},
	}
}
