package judge

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"arena-lite/combatant"
	"arena-lite/deviation"
)

// ActionType 失控行为类型
type ActionType byte

const (
	ActionNone                ActionType = 0
	ActionRecklessAttack      ActionType = 1
	ActionRefuseFight         ActionType = 2
	ActionAttackTeammate      ActionType = 3
	ActionCreativeStrategy    ActionType = 4
	ActionPanicFlee           ActionType = 5
	ActionBerserkerRage       ActionType = 6
	ActionProtectiveSacrifice ActionType = 7
)

var ActionTypeDictionary = map[ActionType]string{
	ActionNone:                "none",
	ActionRecklessAttack:      "reckless_attack",
	ActionRefuseFight:         "refuse_fight",
	ActionAttackTeammate:      "attack_teammate",
	ActionCreativeStrategy:    "creative_strategy",
	ActionPanicFlee:           "panic_flee",
	ActionBerserkerRage:       "berserker_rage",
	ActionProtectiveSacrifice: "protective_sacrifice",
}

func (a ActionType) String() string {
	if s, ok := ActionTypeDictionary[a]; ok {
		return s
	}
	return "unknown"
}

// Situation 战局形势
type Situation byte

const (
	SituationEven    Situation = 0
	SituationWinning Situation = 1
	SituationLosing  Situation = 2
)

var SituationDictionary = map[Situation]string{
	SituationEven:    "even",
	SituationWinning: "winning",
	SituationLosing:  "losing",
}

func (s Situation) String() string { return SituationDictionary[s] }

// Status effects a ruling can attach.
const (
	StatusVulnerable         = "vulnerable"
	StatusDemoralized        = "demoralized"
	StatusBetrayalTrauma     = "betrayal_trauma"
	StatusInspired           = "inspired"
	StatusBackfire           = "overconfident_backfire"
	StatusFled               = "fled"
	StatusCowardice          = "cowardice"
	StatusBerserkExhaustion  = "berserker_exhaustion"
	StatusHeroicInspiration  = "heroic_inspiration"
	StatusUnpredictable      = "unpredictable"
)

// RogueAction is the chosen off-script action for one turn. OutcomeRoll is
// drawn once at generation time so that Judge stays a pure function of its
// inputs.
type RogueAction struct {
	Type        ActionType
	Description string
	Reason      string
	Character   *combatant.Character
	OutcomeRoll float64 // uniform [0,1)
}

// Ruling is the fully resolved mechanical effect of a rogue action.
// Damage goes to the opponent; TargetDamage is collateral (self-damage,
// friendly fire, or a free hit taken) applied by the battle layer per
// action type.
type Ruling struct {
	Damage              int
	TargetDamage        int
	MoraleChange        int
	StatusEffects       []string
	Narrative           string
	TeamChemistryChange int
	MentalHealthChange  int
}

// Resolver generates rogue actions. The random source only feeds the
// pre-drawn outcome roll and flavor line selection; rulings themselves are
// deterministic.
type Resolver struct {
	rng *rand.Rand
}

// NewResolver creates a resolver. Seed 0 uses the current time.
func NewResolver(seed int64) *Resolver {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Resolver{rng: rand.New(rand.NewSource(seed))}
}

// GenerateRogueAction picks the action type a character is predisposed
// toward. Priority rules evaluate top-down, first match wins: mental-health
// crisis checks come before ego checks, ego checks before team-loyalty
// checks.
func (r *Resolver) GenerateRogueAction(c, opponent *combatant.Character, teamMorale int, situation Situation) RogueAction {
	mh := c.Psych.MentalHealth
	ego := c.Psych.Ego
	teamPlayer := c.Psych.TeamPlayer
	roll := r.rng.Float64()

	switch {
	case mh < 25 && ego > 80:
		return RogueAction{
			Type:        ActionBerserkerRage,
			Description: fmt.Sprintf("%s loses all control and enters a berserker rage!", c.Name),
			Reason:      "Mental breakdown combined with massive ego",
			Character:   c,
			OutcomeRoll: roll,
		}
	case mh < 25:
		return RogueAction{
			Type:        ActionPanicFlee,
			Description: fmt.Sprintf("%s panics and tries to flee the battle!", c.Name),
			Reason:      "Complete mental breakdown",
			Character:   c,
			OutcomeRoll: roll,
		}
	case situation == SituationLosing && ego > 70:
		return RogueAction{
			Type:        ActionRecklessAttack,
			Description: fmt.Sprintf("%s ignores defense and charges recklessly!", c.Name),
			Reason:      "Pride refuses to accept defeat",
			Character:   c,
			OutcomeRoll: roll,
		}
	case teamPlayer < 30 && teamMorale < 40:
		return RogueAction{
			Type:        ActionRefuseFight,
			Description: fmt.Sprintf("%s crosses their arms and refuses to fight!", c.Name),
			Reason:      "Low team loyalty and poor morale",
			Character:   c,
			OutcomeRoll: roll,
		}
	case ego > 85 && situation == SituationWinning:
		return RogueAction{
			Type:        ActionCreativeStrategy,
			Description: fmt.Sprintf("%s improvises a flashy, unorthodox attack!", c.Name),
			Reason:      "Ego drives showboating when ahead",
			Character:   c,
			OutcomeRoll: roll,
		}
	default:
		return RogueAction{
			Type:        ActionRecklessAttack,
			Description: fmt.Sprintf("%s acts unpredictably!", c.Name),
			Reason:      "General deviation from gameplan",
			Character:   c,
			OutcomeRoll: roll,
		}
	}
}

// ActionForDeviation converts a committed deviation into the rogue action it
// plays out as. Deviations with a direct stage expression map straight
// through; the rest fall back to psychology-driven generation.
func (r *Resolver) ActionForDeviation(d deviation.Type, c, opponent *combatant.Character, teamMorale int, situation Situation) RogueAction {
	switch d {
	case deviation.TypeFriendlyFire:
		return RogueAction{
			Type:        ActionAttackTeammate,
			Description: fmt.Sprintf("%s rounds on their own teammate!", c.Name),
			Reason:      "A festering grudge boils over mid-fight",
			Character:   c,
			OutcomeRoll: r.rng.Float64(),
		}
	case deviation.TypeBerserkerRage:
		return RogueAction{
			Type:        ActionBerserkerRage,
			Description: fmt.Sprintf("%s loses all control and enters a berserker rage!", c.Name),
			Reason:      "Volatile temperament finally tips over",
			Character:   c,
			OutcomeRoll: r.rng.Float64(),
		}
	case deviation.TypeCompleteBreakdown:
		// A collapsing loyalist shields the team; anyone else bolts.
		if c.Psych.TeamPlayer >= 70 {
			return RogueAction{
				Type:        ActionProtectiveSacrifice,
				Description: fmt.Sprintf("%s breaks down and shields their team with their own body!", c.Name),
				Reason:      "Breakdown channeled into protecting the team",
				Character:   c,
				OutcomeRoll: r.rng.Float64(),
			}
		}
		return RogueAction{
			Type:        ActionPanicFlee,
			Description: fmt.Sprintf("%s shatters completely and bolts for the exit!", c.Name),
			Reason:      "Complete psychological collapse",
			Character:   c,
			OutcomeRoll: r.rng.Float64(),
		}
	default:
		return r.GenerateRogueAction(c, opponent, teamMorale, situation)
	}
}

// Judge resolves a rogue action into its mechanical ruling. Pure: identical
// inputs always produce identical rulings.
func Judge(action RogueAction, opponent *combatant.Character, teamMorale int) Ruling {
	switch action.Type {
	case ActionRecklessAttack:
		return judgeRecklessAttack(action, opponent, teamMorale)
	case ActionRefuseFight:
		return judgeRefuseFight(action, opponent)
	case ActionAttackTeammate:
		return judgeTeammateAttack(action)
	case ActionCreativeStrategy:
		return judgeCreativeStrategy(action)
	case ActionPanicFlee:
		return judgePanicFlee(action)
	case ActionBerserkerRage:
		return judgeBerserkerRage(action)
	case ActionProtectiveSacrifice:
		return judgeProtectiveSacrifice(action)
	default:
		return judgeDefault(action, opponent)
	}
}

func judgeRecklessAttack(action RogueAction, opponent *combatant.Character, teamMorale int) Ruling {
	c := action.Character
	moraleChange := -5
	if teamMorale > 60 {
		moraleChange = -10
	}
	return Ruling{
		Damage:        floorMul(c.Strength, 1.5),
		TargetDamage:  floorMul(opponent.Strength, 2),
		MoraleChange:  moraleChange,
		StatusEffects: []string{StatusVulnerable},
		Narrative: fmt.Sprintf("%s throws caution to the wind! Their reckless assault hits hard but leaves them exposed!",
			c.Name),
		MentalHealthChange: -5,
	}
}

func judgeRefuseFight(action RogueAction, opponent *combatant.Character) Ruling {
	c := action.Character
	return Ruling{
		Damage:        0,
		TargetDamage:  opponent.Strength,
		MoraleChange:  -15,
		StatusEffects: []string{StatusDemoralized},
		Narrative: fmt.Sprintf("%s refuses to engage! The opponent gets a free hit while the team watches in dismay!",
			c.Name),
		TeamChemistryChange: -10,
		MentalHealthChange:  -10,
	}
}

func judgeTeammateAttack(action RogueAction) Ruling {
	c := action.Character
	return Ruling{
		Damage:        0,
		TargetDamage:  floorMul(c.Strength, 0.8),
		MoraleChange:  -25,
		StatusEffects: []string{StatusBetrayalTrauma},
		Narrative: fmt.Sprintf("In a shocking turn, %s turns on their own teammate! The crowd gasps in horror!",
			c.Name),
		TeamChemistryChange: -30,
		MentalHealthChange:  -15,
	}
}

func judgeCreativeStrategy(action RogueAction) Ruling {
	c := action.Character
	if action.OutcomeRoll > 0.3 { // 70% success
		return Ruling{
			Damage:        floorMul(c.Strength, 1.3),
			TargetDamage:  0,
			MoraleChange:  15,
			StatusEffects: []string{StatusInspired},
			Narrative: fmt.Sprintf("%s's improvised strategy catches everyone off guard! A brilliant display of tactical innovation!",
				c.Name),
			MentalHealthChange: 5,
		}
	}
	return Ruling{
		Damage:        floorMul(c.Strength, 0.5),
		TargetDamage:  floorMul(c.Strength, 0.3),
		MoraleChange:  -8,
		StatusEffects: []string{StatusBackfire},
		Narrative: fmt.Sprintf("%s's flashy move backfires! Sometimes simpler is better!",
			c.Name),
		MentalHealthChange: -8,
	}
}

func judgePanicFlee(action RogueAction) Ruling {
	c := action.Character
	return Ruling{
		Damage:        0,
		TargetDamage:  0,
		MoraleChange:  -20,
		StatusEffects: []string{StatusFled, StatusCowardice},
		Narrative: fmt.Sprintf("%s breaks under pressure and flees the battle! Their teammates watch in disbelief!",
			c.Name),
		TeamChemistryChange: -15,
		MentalHealthChange:  -20,
	}
}

func judgeBerserkerRage(action RogueAction) Ruling {
	c := action.Character
	return Ruling{
		Damage:        floorMul(c.Strength, 2),
		TargetDamage:  floorMul(c.MaxHealth, 0.15), // exhaustion, self-inflicted
		MoraleChange:  0,
		StatusEffects: []string{StatusBerserkExhaustion},
		Narrative: fmt.Sprintf("%s enters a terrifying berserker rage! Devastating but uncontrollable fury!",
			c.Name),
		MentalHealthChange: -15,
	}
}

func judgeProtectiveSacrifice(action RogueAction) Ruling {
	c := action.Character
	return Ruling{
		Damage:        floorMul(c.Strength, 0.8),
		TargetDamage:  floorMul(c.MaxHealth, 0.4),
		MoraleChange:  20,
		StatusEffects: []string{StatusHeroicInspiration},
		Narrative: fmt.Sprintf("%s throws themselves into harm's way to protect their team! A noble sacrifice!",
			c.Name),
		TeamChemistryChange: 10,
		MentalHealthChange:  10,
	}
}

func judgeDefault(action RogueAction, opponent *combatant.Character) Ruling {
	c := action.Character
	return Ruling{
		Damage:        floorMul(c.Strength, 0.7),
		TargetDamage:  floorMul(opponent.Strength, 0.8),
		MoraleChange:  -5,
		StatusEffects: []string{StatusUnpredictable},
		Narrative: fmt.Sprintf("%s acts erratically! The battle becomes chaotic!",
			c.Name),
		MentalHealthChange: -3,
	}
}

func floorMul(v int, f float64) int {
	return int(math.Floor(float64(v) * f))
}
