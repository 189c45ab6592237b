package coaching

import (
	"strings"
	"testing"

	"arena-lite/battle"
	"arena-lite/combatant"
	"arena-lite/psyche"
)

func subject() *combatant.Character {
	return &combatant.Character{
		ID:   "c1",
		Name: "Vex",
		Psych: combatant.PsychProfile{
			Training:      60,
			TeamPlayer:    60,
			Ego:           50,
			MentalHealth:  60,
			Communication: 60,
		},
	}
}

func TestConductSessionZeroPoints(t *testing.T) {
	s, remaining := ConductSession(subject(), FocusMentalHealth, 75, 0)
	if remaining != 0 {
		t.Fatalf("remaining = %d, want 0", remaining)
	}
	if s.PointsSpent != 0 {
		t.Fatalf("zero-point session spent %d points", s.PointsSpent)
	}
	if s.Outcome.MentalHealth != 0 || s.Outcome.Training != 0 || s.Outcome.Relationship != 0 {
		t.Fatalf("zero-point session produced effects: %+v", s.Outcome)
	}
	if !strings.Contains(s.Outcome.Feedback, "coaching points") {
		t.Fatalf("feedback must name the missing resource, got %q", s.Outcome.Feedback)
	}
}

func TestConductSessionSpendsOnePoint(t *testing.T) {
	s, remaining := ConductSession(subject(), FocusGeneral, 75, 3)
	if remaining != 2 || s.PointsSpent != 1 {
		t.Fatalf("remaining = %d spent = %d, want 2 and 1", remaining, s.PointsSpent)
	}
	if s.Outcome.MentalHealth != 3 || s.Outcome.Training != 2 {
		t.Fatalf("general focus outcome: %+v", s.Outcome)
	}
}

func TestAssessMood(t *testing.T) {
	cases := []struct {
		psych combatant.PsychProfile
		want  Mood
	}{
		{combatant.PsychProfile{MentalHealth: 20, Ego: 90, Training: 40}, MoodDesperate},
		{combatant.PsychProfile{MentalHealth: 60, Ego: 85, Training: 40}, MoodResistant},
		{combatant.PsychProfile{MentalHealth: 80, Ego: 50, Training: 80}, MoodReceptive},
		{combatant.PsychProfile{MentalHealth: 60, Ego: 50, Training: 60}, MoodNeutral},
	}
	for i, tc := range cases {
		c := subject()
		c.Psych = tc.psych
		if got := AssessMood(c); got != tc.want {
			t.Fatalf("case %d: mood = %v, want %v", i, got, tc.want)
		}
	}
}

func TestSessionEffectivenessModifiers(t *testing.T) {
	c := subject()
	if got := SessionEffectiveness(c, 75, MoodReceptive); got != 95 {
		t.Fatalf("receptive effectiveness = %d, want 95", got)
	}
	if got := SessionEffectiveness(c, 75, MoodResistant); got != 45 {
		t.Fatalf("resistant effectiveness = %d, want 45", got)
	}

	c.Psych.Ego = 95
	c.Psych.Communication = 30
	if got := SessionEffectiveness(c, 75, MoodNeutral); got != 50 {
		t.Fatalf("penalized effectiveness = %d, want 50", got)
	}
}

func timeoutTeam() *battle.Team {
	mk := func(id, name string, traits ...string) *battle.Fighter {
		return &battle.Fighter{
			Character: combatant.Character{
				ID:                id,
				Name:              name,
				CurrentHealth:     80,
				MaxHealth:         100,
				TeamTrust:         70,
				PersonalityTraits: traits,
				Psych: combatant.PsychProfile{
					MentalHealth: 70, TeamPlayer: 60, Ego: 50, Training: 60, Communication: 60,
				},
				Relationships: map[string]int{},
			},
			Psyche: psyche.State{
				MentalStability: 70, Confidence: 60, Stress: 30,
				StrategicAlignment: 70, Independence: 50,
			},
		}
	}
	return &battle.Team{
		Name:                  "Players",
		Fighters:              []*battle.Fighter{mk("p1", "Vex", "Loyal"), mk("p2", "Rook", "Strategic")},
		Morale:                70,
		Chemistry:             70,
		CoachingEffectiveness: 80,
		TeamRespect:           75,
	}
}

func TestRunTimeoutBudget(t *testing.T) {
	e := NewEngine(3)
	team := timeoutTeam()

	actions := []TimeoutAction{
		{Kind: ActionIndividualCoaching, TargetID: "p1"}, // 25
		{Kind: ActionTeamRallying},                       // 20
		{Kind: ActionConflictMediation},                  // 30
		{Kind: ActionStrategicPivot},                     // 15 -> exactly 90
		{Kind: ActionTeamRallying},                       // over budget, skipped
	}
	res := e.RunTimeout(team, actions)

	if res.TimeUsed != DefaultTimeBudget {
		t.Fatalf("time used = %d, want %d", res.TimeUsed, DefaultTimeBudget)
	}
	if len(res.Skipped) != 1 {
		t.Fatalf("skipped = %v, want one over-budget note", res.Skipped)
	}
	if len(res.Executed) == 0 {
		t.Fatalf("no actions executed")
	}
}

func TestIndividualCoachingSuccess(t *testing.T) {
	e := NewEngine(3)
	team := timeoutTeam()
	f := team.Fighter("p1")
	stressBefore := f.Psyche.Stress
	trustBefore := f.Character.TeamTrust

	res := e.RunTimeout(team, []TimeoutAction{{Kind: ActionIndividualCoaching, TargetID: "p1"}})
	if len(res.Executed) != 1 || !res.Executed[0].Success {
		t.Fatalf("expected a successful session for a trusting stable fighter: %+v", res.Executed)
	}
	if f.Psyche.Stress >= stressBefore {
		t.Fatalf("stress did not drop: %d -> %d", stressBefore, f.Psyche.Stress)
	}
	if f.Character.TeamTrust <= trustBefore {
		t.Fatalf("trust did not rise: %d -> %d", trustBefore, f.Character.TeamTrust)
	}
}

func TestRallySwingsOnReceptiveness(t *testing.T) {
	e := NewEngine(3)

	team := timeoutTeam()
	before := team.Morale
	e.RunTimeout(team, []TimeoutAction{{Kind: ActionTeamRallying}})
	if team.Morale != before+15 {
		t.Fatalf("receptive rally morale = %d, want %d", team.Morale, before+15)
	}

	flat := timeoutTeam()
	flat.Morale = 20
	flat.Chemistry = 20
	flat.TeamRespect = 20
	e.RunTimeout(flat, []TimeoutAction{{Kind: ActionTeamRallying}})
	if flat.Morale != 10 {
		t.Fatalf("failed rally morale = %d, want 10", flat.Morale)
	}
}

func TestMediationRepairsWorstFirst(t *testing.T) {
	e := NewEngine(3)
	team := timeoutTeam()
	team.CoachingEffectiveness = 100 // mediation always lands
	team.Fighters[0].Character.Relationships["p2"] = -50
	team.Fighters[1].Character.Relationships["p1"] = -50

	e.RunTimeout(team, []TimeoutAction{{Kind: ActionConflictMediation}})
	if got := team.Fighters[0].Character.Relationships["p2"]; got != -40 {
		t.Fatalf("relationship after mediation = %d, want -40", got)
	}
	if got := team.Fighters[1].Character.Relationships["p1"]; got != -40 {
		t.Fatalf("reverse relationship after mediation = %d, want -40", got)
	}
}

func TestStrategicPivotIsAdvisory(t *testing.T) {
	e := NewEngine(3)
	team := timeoutTeam()
	for _, f := range team.Fighters {
		f.Character.CurrentHealth = 20
	}
	snapshotPsyche := team.Fighters[0].Psyche

	res := e.RunTimeout(team, []TimeoutAction{{Kind: ActionStrategicPivot}})
	if res.RecommendedStrategy != battle.StrategyDefensive {
		t.Fatalf("strategy = %v, want defensive at low health", res.RecommendedStrategy)
	}
	if team.Gameplan != battle.StrategyDefensive {
		t.Fatalf("gameplan not updated")
	}
	if team.Fighters[0].Psyche != snapshotPsyche {
		t.Fatalf("pivot must not alter psychological stats directly")
	}
}

func TestReputationLoop(t *testing.T) {
	team := &battle.Team{CoachingEffectiveness: 50, TeamRespect: 50}

	UpdateReputation(team, 0.8, 4)
	if team.CoachingEffectiveness != 52 || team.TeamRespect != 53 {
		t.Fatalf("after strong window: eff=%d respect=%d", team.CoachingEffectiveness, team.TeamRespect)
	}

	UpdateReputation(team, 0.2, 4)
	if team.CoachingEffectiveness != 49 || team.TeamRespect != 48 {
		t.Fatalf("after weak window: eff=%d respect=%d", team.CoachingEffectiveness, team.TeamRespect)
	}

	UpdateReputation(team, 0.0, 0)
	if team.CoachingEffectiveness != 49 || team.TeamRespect != 48 {
		t.Fatalf("empty window must not move reputation")
	}
}
