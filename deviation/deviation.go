package deviation

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"arena-lite/combatant"
	"arena-lite/psyche"
)

// Type 偏离行为类型
type Type byte

const (
	TypeNone                 Type = 0
	TypeMinorInsubordination Type = 1
	TypeStrategyOverride     Type = 2
	TypeBerserkerRage        Type = 3
	TypeEnvironmentalChaos   Type = 4
	TypeFriendlyFire         Type = 5
	TypeCompleteBreakdown    Type = 6
)

var TypeDictionary = map[Type]string{
	TypeNone:                 "none",
	TypeMinorInsubordination: "minor_insubordination",
	TypeStrategyOverride:     "strategy_override",
	TypeBerserkerRage:        "berserker_rage",
	TypeEnvironmentalChaos:   "environmental_chaos",
	TypeFriendlyFire:         "friendly_fire",
	TypeCompleteBreakdown:    "complete_breakdown",
}

func (t Type) String() string {
	if s, ok := TypeDictionary[t]; ok {
		return s
	}
	return "unknown"
}

// Severity 偏离严重程度
type Severity byte

const (
	SeverityMinor    Severity = 0
	SeverityModerate Severity = 1
	SeverityMajor    Severity = 2
)

var SeverityDictionary = map[Severity]string{
	SeverityMinor:    "minor",
	SeverityModerate: "moderate",
	SeverityMajor:    "major",
}

func (s Severity) String() string { return SeverityDictionary[s] }

// Candidate is one threshold-gated deviation a character might commit this
// turn, with its lottery weight.
type Candidate struct {
	Type        Type
	Probability float64
	Description string
}

// Risk is the full deviation assessment for one character at one decision
// point.
type Risk struct {
	CharacterID         string
	CurrentRisk         float64 // 0..100
	Severity            Severity
	RiskFactors         []string
	PotentialDeviations []Candidate
}

// Engine assesses deviation risk and rolls for deviations with an owned,
// injectable random source. Not safe for concurrent use; callers serialize
// through the battle manager.
type Engine struct {
	rng *rand.Rand
}

// NewEngine creates an engine. Seed 0 uses the current time.
func NewEngine(seed int64) *Engine {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Engine{rng: rand.New(rand.NewSource(seed))}
}

const minRiskThreshold = 20

// AssessRisk computes the current risk score, the named contributing
// factors, and the gated candidate list. Below the minimum risk threshold
// the candidate list is empty.
func (e *Engine) AssessRisk(c *combatant.Character, st psyche.State, hatedTargets []string) Risk {
	risk := float64(100-st.StrategicAlignment)*0.4 +
		float64(st.Volatility)*0.3 +
		float64(st.Stress)*0.2 +
		float64(100-st.MentalStability)*0.1
	risk = math.Min(100, math.Max(0, risk))

	r := Risk{
		CharacterID: c.ID,
		CurrentRisk: risk,
		Severity:    severityFor(risk),
	}

	if st.StrategicAlignment < 50 {
		r.RiskFactors = append(r.RiskFactors, "Poor strategic alignment")
	}
	if st.Volatility > 70 {
		r.RiskFactors = append(r.RiskFactors, "Highly volatile temperament")
	}
	if st.Stress > 70 {
		r.RiskFactors = append(r.RiskFactors, "Severe stress")
	}
	if st.MentalStability < 30 {
		r.RiskFactors = append(r.RiskFactors, "Crumbling mental stability")
	}
	for _, id := range hatedTargets {
		r.RiskFactors = append(r.RiskFactors, fmt.Sprintf("Open grudge against teammate %s", id))
	}

	if risk < minRiskThreshold {
		return r
	}

	add := func(t Type, p float64, desc string) {
		r.PotentialDeviations = append(r.PotentialDeviations, Candidate{Type: t, Probability: p, Description: desc})
	}

	if risk > 15 {
		add(TypeMinorInsubordination, math.Min(50, risk),
			fmt.Sprintf("%s grumbles and cuts corners on the gameplan", c.Name))
	}
	if risk > 25 {
		add(TypeStrategyOverride, risk*float64(st.Independence)/100,
			fmt.Sprintf("%s decides their own plan is better", c.Name))
	}
	if risk > 25 && st.Volatility > 70 {
		add(TypeBerserkerRage, risk*float64(st.Volatility)/200,
			fmt.Sprintf("%s is one push away from losing control", c.Name))
	}
	if risk > 30 && st.Volatility > 80 {
		add(TypeEnvironmentalChaos, risk*0.7,
			fmt.Sprintf("%s starts wrecking the arena itself", c.Name))
	}
	if risk > 35 {
		hated := len(hatedTargets) > 0
		if hated || c.Archetype == combatant.ArchetypeTrickster || st.TeamHarmony < 40 {
			p := math.Min(40, risk*0.5)
			if hated {
				p = math.Min(80, risk+20)
			}
			add(TypeFriendlyFire, p,
				fmt.Sprintf("%s eyes a teammate instead of the opponent", c.Name))
		}
	}
	if risk > 80 && st.MentalStability < 10 {
		add(TypeCompleteBreakdown, 90,
			fmt.Sprintf("%s is on the verge of a complete breakdown", c.Name))
	}

	return r
}

func severityFor(risk float64) Severity {
	switch {
	case risk > 70:
		return SeverityMajor
	case risk > 40:
		return SeverityModerate
	default:
		return SeverityMinor
	}
}

// Roll draws once against the current risk. If the draw lands under the
// risk score a deviation is chosen by weighted lottery over the candidates.
// Returns TypeNone,false when nothing triggers.
func (e *Engine) Roll(r Risk) (Type, bool) {
	if len(r.PotentialDeviations) == 0 {
		return TypeNone, false
	}
	if e.rng.Float64()*100 >= r.CurrentRisk {
		return TypeNone, false
	}

	total := 0.0
	for _, cand := range r.PotentialDeviations {
		total += cand.Probability
	}
	if total <= 0 {
		return r.PotentialDeviations[0].Type, true
	}

	pick := e.rng.Float64() * total
	for _, cand := range r.PotentialDeviations {
		pick -= cand.Probability
		if pick <= 0 {
			return cand.Type, true
		}
	}
	return r.PotentialDeviations[0].Type, true
}
