package coaching

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"arena-lite/battle"
	"arena-lite/combatant"
)

// ActionKind 暂停期间教练指令类型
type ActionKind byte

const (
	ActionIndividualCoaching ActionKind = 0
	ActionTeamRallying       ActionKind = 1
	ActionConflictMediation  ActionKind = 2
	ActionStrategicPivot     ActionKind = 3
)

var ActionKindDictionary = map[ActionKind]string{
	ActionIndividualCoaching: "individual_coaching",
	ActionTeamRallying:       "team_rallying",
	ActionConflictMediation:  "conflict_mediation",
	ActionStrategicPivot:     "strategic_pivot",
}

func (k ActionKind) String() string { return ActionKindDictionary[k] }

// Default time costs per action kind, in time units.
var defaultTimeCost = map[ActionKind]int{
	ActionIndividualCoaching: 25,
	ActionTeamRallying:       20,
	ActionConflictMediation:  30,
	ActionStrategicPivot:     15,
}

// DefaultTimeBudget is the length of one coaching timeout window.
const DefaultTimeBudget = 90

// TimeoutAction is one coach-issued intervention. TimeCost 0 uses the
// default for the kind.
type TimeoutAction struct {
	Kind     ActionKind
	TargetID string // individual coaching only
	TimeCost int
}

// ActionResult records the outcome of one executed intervention.
type ActionResult struct {
	Kind          ActionKind
	TargetID      string
	Approach      Approach
	Effectiveness int
	Success       bool
	TimeUsed      int
	Detail        string
}

// TimeoutResult summarizes one coaching window.
type TimeoutResult struct {
	Executed            []ActionResult
	Skipped             []string
	TimeUsed            int
	SuccessRate         float64
	RecommendedStrategy battle.Strategy
}

// Engine processes coaching timeout windows. Holds the seeded random source
// for mediation and noise; not safe for concurrent use — run inside a
// serialized battle operation.
type Engine struct {
	rng        *rand.Rand
	TimeBudget int
}

// NewEngine creates a timeout engine. Seed 0 uses the current time.
func NewEngine(seed int64) *Engine {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Engine{
		rng:        rand.New(rand.NewSource(seed)),
		TimeBudget: DefaultTimeBudget,
	}
}

// RunTimeout processes the coach's actions in order until the time budget
// runs out. Actions that no longer fit are skipped with a note. The team's
// coaching reputation is updated from the window's success rate.
func (e *Engine) RunTimeout(team *battle.Team, actions []TimeoutAction) TimeoutResult {
	result := TimeoutResult{RecommendedStrategy: team.Gameplan}
	remaining := e.TimeBudget

	for _, action := range actions {
		cost := action.TimeCost
		if cost <= 0 {
			cost = defaultTimeCost[action.Kind]
		}
		if cost > remaining {
			result.Skipped = append(result.Skipped,
				fmt.Sprintf("%s skipped: needs %d time units, %d left", action.Kind, cost, remaining))
			continue
		}
		remaining -= cost
		result.TimeUsed += cost

		switch action.Kind {
		case ActionIndividualCoaching:
			result.Executed = append(result.Executed, e.coachIndividual(team, action, cost))
		case ActionTeamRallying:
			result.Executed = append(result.Executed, e.rallyTeam(team, cost))
		case ActionConflictMediation:
			result.Executed = append(result.Executed, e.mediateConflicts(team, cost)...)
		case ActionStrategicPivot:
			res, strategy := e.strategicPivot(team, cost)
			result.Executed = append(result.Executed, res)
			result.RecommendedStrategy = strategy
		}
	}

	successes := 0
	for _, r := range result.Executed {
		if r.Success {
			successes++
		}
	}
	if len(result.Executed) > 0 {
		result.SuccessRate = float64(successes) / float64(len(result.Executed))
	}
	UpdateReputation(team, result.SuccessRate, len(result.Executed))
	return result
}

func (e *Engine) coachIndividual(team *battle.Team, action TimeoutAction, cost int) ActionResult {
	f := team.Fighter(action.TargetID)
	if f == nil {
		return ActionResult{
			Kind:     ActionIndividualCoaching,
			TargetID: action.TargetID,
			TimeUsed: cost,
			Detail:   "target not on roster",
		}
	}

	approach := DetermineApproach(f)
	base := float64(team.CoachingEffectiveness+team.TeamRespect+f.Character.TeamTrust) / 3
	eff := int(math.Round(base * approachMultiplier(f, approach) * stateMultiplier(f)))
	eff = combatant.Clamp100(eff)

	res := ActionResult{
		Kind:          ActionIndividualCoaching,
		TargetID:      f.Character.ID,
		Approach:      approach,
		Effectiveness: eff,
		TimeUsed:      cost,
	}

	if eff > 60 {
		res.Success = true
		f.Psyche.MentalStability = combatant.Clamp100(f.Psyche.MentalStability + scaled(eff, 30))
		f.Psyche.Stress = combatant.Clamp100(f.Psyche.Stress - scaled(eff, 40))
		f.Psyche.Confidence = combatant.Clamp100(f.Psyche.Confidence + scaled(eff, 25))
		f.Psyche.StrategicAlignment = combatant.Clamp100(f.Psyche.StrategicAlignment + scaled(eff, 20))
		f.Character.TeamTrust = combatant.Clamp100(f.Character.TeamTrust + scaled(eff, 15))
		res.Detail = fmt.Sprintf("%s responded well to the %s talk", f.Character.Name, approach)
	} else {
		miss := 100 - eff
		f.Psyche.MentalStability = combatant.Clamp100(f.Psyche.MentalStability - scaled(miss, 10))
		f.Psyche.Stress = combatant.Clamp100(f.Psyche.Stress + scaled(miss, 20))
		f.Character.TeamTrust = combatant.Clamp100(f.Character.TeamTrust - scaled(miss, 10))
		res.Detail = fmt.Sprintf("%s tuned the coach out", f.Character.Name)
	}
	return res
}

func (e *Engine) rallyTeam(team *battle.Team, cost int) ActionResult {
	receptiveness := float64(team.Morale+team.Chemistry+team.TeamRespect) / 3

	res := ActionResult{
		Kind:          ActionTeamRallying,
		Effectiveness: combatant.Clamp100(int(math.Round(receptiveness))),
		TimeUsed:      cost,
	}

	for _, f := range team.AliveFighters() {
		eff := int(math.Round(receptiveness * rallyModifier(f)))
		if eff > 50 {
			f.Psyche.Confidence = combatant.Clamp100(f.Psyche.Confidence + scaled(eff, 20))
			f.Character.TeamTrust = combatant.Clamp100(f.Character.TeamTrust + scaled(eff, 15))
			f.Psyche.Stress = combatant.Clamp100(f.Psyche.Stress - scaled(eff, 10))
		} else {
			f.Psyche.Confidence = combatant.Clamp100(f.Psyche.Confidence - 5)
			f.Character.TeamTrust = combatant.Clamp100(f.Character.TeamTrust - 5)
		}
	}

	if receptiveness > 60 {
		team.Morale = combatant.Clamp100(team.Morale + 15)
		res.Success = true
		res.Detail = "the team roars back onto the field"
	} else {
		team.Morale = combatant.Clamp100(team.Morale - 10)
		res.Detail = "the speech falls flat"
	}
	return res
}

// mediateConflicts resolves feuding pairs worst-first. Each mediation rolls
// against the coach's effectiveness; success repairs the relationship by
// +10 in both directions, failure digs it 5 deeper.
func (e *Engine) mediateConflicts(team *battle.Team, cost int) []ActionResult {
	type conflict struct {
		a, b     *battle.Fighter
		strength int
	}
	var conflicts []conflict

	for i := 0; i < len(team.Fighters); i++ {
		for j := i + 1; j < len(team.Fighters); j++ {
			a, b := team.Fighters[i], team.Fighters[j]
			strength := a.Character.Relationships[b.Character.ID]
			if strength < -30 {
				conflicts = append(conflicts, conflict{a: a, b: b, strength: strength})
			}
		}
	}
	sort.Slice(conflicts, func(i, j int) bool {
		return conflicts[i].strength < conflicts[j].strength
	})

	if len(conflicts) == 0 {
		return []ActionResult{{
			Kind:     ActionConflictMediation,
			Success:  true,
			TimeUsed: cost,
			Detail:   "no open conflicts to mediate",
		}}
	}

	results := make([]ActionResult, 0, len(conflicts))
	for _, cf := range conflicts {
		success := e.rng.Float64()*100 < float64(team.CoachingEffectiveness)
		delta := -5
		if success {
			delta = 10
		}
		adjustRelationship(cf.a, cf.b, delta)
		adjustRelationship(cf.b, cf.a, delta)

		detail := fmt.Sprintf("%s and %s still won't look at each other", cf.a.Character.Name, cf.b.Character.Name)
		if success {
			detail = fmt.Sprintf("%s and %s agree to bury it until after the battle", cf.a.Character.Name, cf.b.Character.Name)
		}
		results = append(results, ActionResult{
			Kind:     ActionConflictMediation,
			TargetID: cf.a.Character.ID + "/" + cf.b.Character.ID,
			Success:  success,
			TimeUsed: 0, // cost charged once for the whole mediation block
			Detail:   detail,
		})
	}
	results[0].TimeUsed = cost
	return results
}

// strategicPivot is advisory only: it reads aggregate health and morale and
// recommends a strategy, feeding adherence inputs for subsequent turns. It
// never alters stats directly.
func (e *Engine) strategicPivot(team *battle.Team, cost int) (ActionResult, battle.Strategy) {
	alive := team.AliveFighters()
	avgHealth := 0.0
	for _, f := range alive {
		avgHealth += f.Character.HealthRatio()
	}
	if len(alive) > 0 {
		avgHealth /= float64(len(alive))
	}

	strategy := battle.StrategyBalanced
	switch {
	case avgHealth < 0.35:
		strategy = battle.StrategyDefensive
	case avgHealth > 0.65 && team.Morale > 60:
		strategy = battle.StrategyAggressive
	}
	team.Gameplan = strategy

	return ActionResult{
		Kind:     ActionStrategicPivot,
		Success:  true,
		TimeUsed: cost,
		Detail:   fmt.Sprintf("coach calls for a %s posture", strategy),
	}, strategy
}

func adjustRelationship(from, to *battle.Fighter, delta int) {
	if from.Character.Relationships == nil {
		from.Character.Relationships = make(map[string]int)
	}
	v := from.Character.Relationships[to.Character.ID] + delta
	from.Character.Relationships[to.Character.ID] = combatant.Clamp(v, -100, 100)
}

// UpdateReputation applies the slow-moving trust loop: strong windows nudge
// the coach's standing up, failed ones erode it faster.
func UpdateReputation(team *battle.Team, successRate float64, executed int) {
	if executed == 0 {
		return
	}
	switch {
	case successRate > 0.7:
		team.CoachingEffectiveness = combatant.Clamp100(team.CoachingEffectiveness + 2)
		team.TeamRespect = combatant.Clamp100(team.TeamRespect + 3)
	case successRate < 0.3:
		team.CoachingEffectiveness = combatant.Clamp100(team.CoachingEffectiveness - 3)
		team.TeamRespect = combatant.Clamp100(team.TeamRespect - 5)
	}
}
