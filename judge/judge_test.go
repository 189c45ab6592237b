package judge

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"arena-lite/combatant"
	"arena-lite/deviation"
)

func fighter(name string, strength, maxHealth int, psych combatant.PsychProfile) *combatant.Character {
	return &combatant.Character{
		ID:            name,
		Name:          name,
		Strength:      strength,
		MaxHealth:     maxHealth,
		CurrentHealth: maxHealth,
		Psych:         psych,
	}
}

func TestRecklessAttackNumbers(t *testing.T) {
	attacker := fighter("Vex", 40, 100, combatant.PsychProfile{})
	opponent := fighter("Gore", 20, 100, combatant.PsychProfile{})

	action := RogueAction{Type: ActionRecklessAttack, Character: attacker}
	ruling := Judge(action, opponent, 70)

	if ruling.Damage != 60 {
		t.Fatalf("damage = %d, want 60", ruling.Damage)
	}
	if ruling.TargetDamage != 40 {
		t.Fatalf("target damage = %d, want 40", ruling.TargetDamage)
	}
	if ruling.MoraleChange != -10 {
		t.Fatalf("morale change = %d, want -10", ruling.MoraleChange)
	}
	if len(ruling.StatusEffects) != 1 || ruling.StatusEffects[0] != StatusVulnerable {
		t.Fatalf("status effects = %v, want [vulnerable]", ruling.StatusEffects)
	}

	// Low team morale softens the morale hit.
	low := Judge(action, opponent, 50)
	if low.MoraleChange != -5 {
		t.Fatalf("morale change at low morale = %d, want -5", low.MoraleChange)
	}
}

func TestJudgeIsPure(t *testing.T) {
	attacker := fighter("Vex", 37, 120, combatant.PsychProfile{Ego: 90})
	opponent := fighter("Gore", 22, 90, combatant.PsychProfile{})

	for _, typ := range []ActionType{
		ActionRecklessAttack, ActionRefuseFight, ActionAttackTeammate,
		ActionCreativeStrategy, ActionPanicFlee, ActionBerserkerRage,
		ActionProtectiveSacrifice, ActionNone,
	} {
		action := RogueAction{Type: typ, Character: attacker, OutcomeRoll: 0.42}
		a := Judge(action, opponent, 55)
		b := Judge(action, opponent, 55)
		if diff := cmp.Diff(a, b); diff != "" {
			t.Fatalf("%v ruling not pure (-first +second):\n%s", typ, diff)
		}
	}
}

func TestBerserkerRageNumbers(t *testing.T) {
	attacker := fighter("Vex", 30, 200, combatant.PsychProfile{})
	opponent := fighter("Gore", 10, 100, combatant.PsychProfile{})

	ruling := Judge(RogueAction{Type: ActionBerserkerRage, Character: attacker}, opponent, 50)
	if ruling.Damage != 60 {
		t.Fatalf("rage damage = %d, want 60", ruling.Damage)
	}
	if ruling.TargetDamage != 30 { // 15% of max health, exhaustion
		t.Fatalf("rage self damage = %d, want 30", ruling.TargetDamage)
	}
	if ruling.MoraleChange != 0 {
		t.Fatalf("rage morale change = %d, want 0", ruling.MoraleChange)
	}
}

func TestCreativeStrategyOutcomeRoll(t *testing.T) {
	attacker := fighter("Vex", 40, 100, combatant.PsychProfile{})
	opponent := fighter("Gore", 20, 100, combatant.PsychProfile{})

	success := Judge(RogueAction{Type: ActionCreativeStrategy, Character: attacker, OutcomeRoll: 0.9}, opponent, 50)
	if success.Damage != 52 || success.MoraleChange != 15 {
		t.Fatalf("successful creative strategy: %+v", success)
	}

	failure := Judge(RogueAction{Type: ActionCreativeStrategy, Character: attacker, OutcomeRoll: 0.1}, opponent, 50)
	if failure.Damage != 20 || failure.TargetDamage != 12 || failure.MoraleChange != -8 {
		t.Fatalf("failed creative strategy: %+v", failure)
	}
}

// Crisis priority: mental_health<25 with ego>80 must produce berserker_rage
// even when the losing/high-ego rule would otherwise fire.
func TestGeneratePriorityCrisisBeforePride(t *testing.T) {
	r := NewResolver(1)
	c := fighter("Vex", 40, 100, combatant.PsychProfile{Ego: 90, MentalHealth: 15})
	opp := fighter("Gore", 20, 100, combatant.PsychProfile{})

	action := r.GenerateRogueAction(c, opp, 50, SituationLosing)
	if action.Type != ActionBerserkerRage {
		t.Fatalf("action = %v, want berserker_rage", action.Type)
	}
}

func TestGeneratePriorityOrder(t *testing.T) {
	r := NewResolver(1)
	opp := fighter("Gore", 20, 100, combatant.PsychProfile{})

	cases := []struct {
		name      string
		psych     combatant.PsychProfile
		morale    int
		situation Situation
		want      ActionType
	}{
		{"crisis low ego", combatant.PsychProfile{Ego: 40, MentalHealth: 10}, 50, SituationEven, ActionPanicFlee},
		{"losing pride", combatant.PsychProfile{Ego: 75, MentalHealth: 60}, 50, SituationLosing, ActionRecklessAttack},
		{"disloyal low morale", combatant.PsychProfile{Ego: 40, MentalHealth: 60, TeamPlayer: 20}, 30, SituationEven, ActionRefuseFight},
		{"showboat while winning", combatant.PsychProfile{Ego: 90, MentalHealth: 60, TeamPlayer: 60}, 70, SituationWinning, ActionCreativeStrategy},
		{"default", combatant.PsychProfile{Ego: 40, MentalHealth: 60, TeamPlayer: 60}, 70, SituationEven, ActionRecklessAttack},
	}

	for _, tc := range cases {
		c := fighter("Vex", 40, 100, tc.psych)
		got := r.GenerateRogueAction(c, opp, tc.morale, tc.situation)
		if got.Type != tc.want {
			t.Fatalf("%s: action = %v, want %v", tc.name, got.Type, tc.want)
		}
	}
}

// Committed deviations with a direct stage expression must map to their
// action instead of rerolling through psychology: friendly fire and a
// loyalist's breakdown sacrifice are otherwise never generated.
func TestActionForDeviationMapping(t *testing.T) {
	r := NewResolver(1)
	opp := fighter("Gore", 20, 100, combatant.PsychProfile{})

	cases := []struct {
		name  string
		typ   deviation.Type
		psych combatant.PsychProfile
		want  ActionType
	}{
		{"friendly fire", deviation.TypeFriendlyFire, combatant.PsychProfile{MentalHealth: 60}, ActionAttackTeammate},
		{"berserker rage", deviation.TypeBerserkerRage, combatant.PsychProfile{MentalHealth: 60}, ActionBerserkerRage},
		{"loyal breakdown", deviation.TypeCompleteBreakdown, combatant.PsychProfile{MentalHealth: 5, TeamPlayer: 80}, ActionProtectiveSacrifice},
		{"selfish breakdown", deviation.TypeCompleteBreakdown, combatant.PsychProfile{MentalHealth: 5, TeamPlayer: 20}, ActionPanicFlee},
	}
	for _, tc := range cases {
		c := fighter("Vex", 40, 100, tc.psych)
		got := r.ActionForDeviation(tc.typ, c, opp, 50, SituationEven)
		if got.Type != tc.want {
			t.Fatalf("%s: action = %v, want %v", tc.name, got.Type, tc.want)
		}
		if got.Character != c || got.Description == "" || got.Reason == "" {
			t.Fatalf("%s: incomplete action %+v", tc.name, got)
		}
	}

	// Deviations without a direct mapping fall back to generation.
	c := fighter("Vex", 40, 100, combatant.PsychProfile{Ego: 40, MentalHealth: 60, TeamPlayer: 60})
	got := r.ActionForDeviation(deviation.TypeMinorInsubordination, c, opp, 70, SituationEven)
	if got.Type != ActionRecklessAttack {
		t.Fatalf("fallback action = %v, want reckless_attack", got.Type)
	}
}

func TestCoachResponseNamesTheCoach(t *testing.T) {
	r := NewResolver(7)
	c := fighter("Vex", 40, 100, combatant.PsychProfile{})
	action := RogueAction{Type: ActionRecklessAttack, Character: c}

	got := r.CoachResponse(action, "Dana")
	if !strings.HasPrefix(got, "Dana: ") {
		t.Fatalf("response missing coach prefix: %q", got)
	}
	if strings.Contains(got, "%s") {
		t.Fatalf("unfilled placeholder in response: %q", got)
	}

	anon := r.CoachResponse(action, "")
	if !strings.HasPrefix(anon, "Coach: ") {
		t.Fatalf("response missing fallback prefix: %q", anon)
	}
}

func TestCharacterResponseTone(t *testing.T) {
	r := NewResolver(7)
	action := RogueAction{Type: ActionRecklessAttack}

	egotist := fighter("Vex", 40, 100, combatant.PsychProfile{Ego: 90, MentalHealth: 60})
	if got := r.CharacterResponse(egotist, action); !containsLine(defensiveLines, got) {
		t.Fatalf("high ego reply not defensive: %q", got)
	}

	shaken := fighter("Pip", 40, 100, combatant.PsychProfile{Ego: 40, MentalHealth: 20})
	if got := r.CharacterResponse(shaken, action); !containsLine(erraticLines, got) {
		t.Fatalf("low mental health reply not erratic: %q", got)
	}

	steady := fighter("Rook", 40, 100, combatant.PsychProfile{Ego: 40, MentalHealth: 60})
	if got := r.CharacterResponse(steady, action); !containsLine(apologeticLines, got) {
		t.Fatalf("steady reply not apologetic: %q", got)
	}
}

func containsLine(pool []string, s string) bool {
	for _, line := range pool {
		if line == s {
			return true
		}
	}
	return false
}
