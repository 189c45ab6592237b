package battle

import (
	"errors"
	"math/rand"
	"testing"

	"arena-lite/psyche"
)

func TestValidate(t *testing.T) {
	st := testState()
	if err := Validate(st); err != nil {
		t.Fatalf("valid state rejected: %v", err)
	}

	st.Player.Fighters[0].Character.CurrentHealth = -1
	if err := Validate(st); err == nil {
		t.Fatalf("negative health accepted")
	}

	st = testState()
	st.Player.Fighters[0].Character.CurrentHealth = 201
	if err := Validate(st); err == nil {
		t.Fatalf("health above twice max accepted")
	}

	st = testState()
	st.Opponent.Morale = 101
	if err := Validate(st); err == nil {
		t.Fatalf("out-of-range morale accepted")
	}

	st = testState()
	st.Opponent = nil
	if err := Validate(st); err == nil {
		t.Fatalf("missing team accepted")
	}

	st = testState()
	st.Opponent.Fighters = nil
	if err := Validate(st); err == nil {
		t.Fatalf("empty team accepted")
	}
}

func TestCloneIsDeep(t *testing.T) {
	st := testState()
	st.Player.Fighters[0].Character.Relationships = map[string]int{"p2": 40}
	st.Player.Fighters[0].Statuses = []string{"vulnerable"}
	st.AppendLog(LogEntry{Description: "first"})

	cp := st.Clone()
	cp.Player.Fighters[0].Character.CurrentHealth = 1
	cp.Player.Fighters[0].Character.Relationships["p2"] = -40
	cp.Player.Fighters[0].Statuses[0] = "fled"
	cp.Log[0].Description = "mutated"

	if st.Player.Fighters[0].Character.CurrentHealth != 100 {
		t.Fatalf("clone shares fighter health")
	}
	if st.Player.Fighters[0].Character.Relationships["p2"] != 40 {
		t.Fatalf("clone shares relationship map")
	}
	if st.Player.Fighters[0].Statuses[0] != "vulnerable" {
		t.Fatalf("clone shares status slice")
	}
	if st.Log[0].Description != "first" {
		t.Fatalf("clone shares log slice")
	}
}

// Spending more sessions than the pool holds leaves the balance at zero,
// never negative.
func TestCoachingPointsNeverNegative(t *testing.T) {
	team := &Team{CoachingPoints: StartingCoachingPoints}

	spent := 0
	for i := 0; i < 10; i++ {
		if err := team.DebitCoachingPoint(); err == nil {
			spent++
		} else if !errors.Is(err, ErrInsufficientResource) {
			t.Fatalf("unexpected error: %v", err)
		}
		if team.CoachingPoints < 0 {
			t.Fatalf("coaching points went negative: %d", team.CoachingPoints)
		}
	}
	if spent != StartingCoachingPoints {
		t.Fatalf("spent %d points from a pool of %d", spent, StartingCoachingPoints)
	}
}

func TestSettleCoachingPoints(t *testing.T) {
	team := &Team{CoachingPoints: 0, ConsecutiveLosses: 0}

	team.SettleCoachingPoints(false)
	if team.CoachingPoints != 2 || team.ConsecutiveLosses != 1 {
		t.Fatalf("after one loss: points=%d losses=%d", team.CoachingPoints, team.ConsecutiveLosses)
	}
	team.SettleCoachingPoints(false)
	team.SettleCoachingPoints(false)
	if team.CoachingPoints != 0 || team.ConsecutiveLosses != 3 {
		t.Fatalf("after three losses: points=%d losses=%d", team.CoachingPoints, team.ConsecutiveLosses)
	}
	team.SettleCoachingPoints(false)
	if team.CoachingPoints != 0 {
		t.Fatalf("points went negative on long streak: %d", team.CoachingPoints)
	}

	team.SettleCoachingPoints(true)
	if team.CoachingPoints != StartingCoachingPoints || team.ConsecutiveLosses != 0 {
		t.Fatalf("win must reset pool and streak: points=%d losses=%d", team.CoachingPoints, team.ConsecutiveLosses)
	}
}

func TestCheckAdherenceDeterministicUnderSeed(t *testing.T) {
	f := &Fighter{}
	f.Character.CurrentHealth = 80
	f.Character.MaxHealth = 100
	f.Character.Psych.MentalHealth = 70
	f.Psyche = psyche.State{StrategicAlignment: 70, Independence: 50}

	ctx := AdherenceContext{PlanComplexity: 50}

	run := func() []int {
		rng := rand.New(rand.NewSource(11))
		out := make([]int, 0, 100)
		for i := 0; i < 100; i++ {
			score, _ := CheckAdherence(f, ctx, rng)
			out = append(out, score)
		}
		return out
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("check %d diverged under identical seed", i)
		}
		if a[i] < 0 || a[i] > 100 {
			t.Fatalf("score %d out of [0,100]", a[i])
		}
	}
}

func TestCheckAdherencePenalties(t *testing.T) {
	rng := rand.New(rand.NewSource(5))

	healthy := &Fighter{}
	healthy.Character.CurrentHealth = 100
	healthy.Character.MaxHealth = 100
	healthy.Character.Psych.MentalHealth = 80
	healthy.Psyche = psyche.State{StrategicAlignment: 90, Independence: 50}

	broken := &Fighter{}
	broken.Character.CurrentHealth = 10
	broken.Character.MaxHealth = 100
	broken.Character.Psych.MentalHealth = 20
	broken.Psyche = psyche.State{StrategicAlignment: 90, Independence: 50}

	follows := 0
	breaks := 0
	for i := 0; i < 1000; i++ {
		if _, ok := CheckAdherence(healthy, AdherenceContext{PlanComplexity: 50}, rng); ok {
			follows++
		}
		if _, ok := CheckAdherence(broken, AdherenceContext{PlanComplexity: 50, LosingBadly: true}, rng); !ok {
			breaks++
		}
	}
	if follows != 1000 {
		t.Fatalf("healthy aligned fighter followed only %d/1000 times", follows)
	}
	if breaks != 1000 {
		t.Fatalf("injured crisis fighter held the plan %d/1000 times", 1000-breaks)
	}
}

func TestCalculateChemistry(t *testing.T) {
	mk := func(id string, teamPlayer, trust int) *Fighter {
		f := &Fighter{}
		f.Character.ID = id
		f.Character.Psych.TeamPlayer = teamPlayer
		f.Character.TeamTrust = trust
		return f
	}

	team := &Team{Fighters: []*Fighter{mk("a", 80, 70), mk("b", 60, 70)}}
	if got := CalculateChemistry(team, 0); got != 70 {
		t.Fatalf("chemistry = %d, want 70", got)
	}

	// One distrustful member docks every pair containing them.
	team = &Team{Fighters: []*Fighter{mk("a", 80, 10), mk("b", 60, 70), mk("c", 70, 70)}}
	if got := CalculateChemistry(team, 0); got != 50 {
		t.Fatalf("chemistry with low-trust member = %d, want 50", got)
	}

	if CalculateChemistry(&Team{}, 0) != 0 {
		t.Fatalf("empty team chemistry must be 0")
	}
}
