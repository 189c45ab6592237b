package battle

import (
	"arena-lite/combatant"
	"arena-lite/judge"
	"arena-lite/psyche"
)

// Phase 战斗阶段
type Phase byte

const (
	PhaseTypeSetup    Phase = 0
	PhaseTypeCombat   Phase = 1
	PhaseTypeCoaching Phase = 2
	PhaseTypeComplete Phase = 3
)

var PhaseTypeDictionary = map[Phase]string{
	PhaseTypeSetup:    "setup",
	PhaseTypeCombat:   "combat",
	PhaseTypeCoaching: "coaching",
	PhaseTypeComplete: "complete",
}

func (p Phase) String() string { return PhaseTypeDictionary[p] }

// Result 战斗结果
type Result byte

const (
	ResultNone    Result = 0
	ResultVictory Result = 1
	ResultDefeat  Result = 2
	ResultDraw    Result = 3
)

var ResultDictionary = map[Result]string{
	ResultNone:    "none",
	ResultVictory: "victory",
	ResultDefeat:  "defeat",
	ResultDraw:    "draw",
}

func (r Result) String() string { return ResultDictionary[r] }

// Strategy 指导方针
type Strategy byte

const (
	StrategyBalanced   Strategy = 0
	StrategyAggressive Strategy = 1
	StrategyDefensive  Strategy = 2
)

var StrategyDictionary = map[Strategy]string{
	StrategyBalanced:   "balanced",
	StrategyAggressive: "aggressive",
	StrategyDefensive:  "defensive",
}

func (s Strategy) String() string { return StrategyDictionary[s] }

// LogEntryType 战斗日志条目类型
type LogEntryType byte

const (
	LogEntryAction      LogEntryType = 0
	LogEntryMoraleEvent LogEntryType = 1
	LogEntryCoaching    LogEntryType = 2
	LogEntryJudgeRuling LogEntryType = 3
	LogEntryPhaseChange LogEntryType = 4
)

var LogEntryTypeDictionary = map[LogEntryType]string{
	LogEntryAction:      "action",
	LogEntryMoraleEvent: "morale_event",
	LogEntryCoaching:    "coaching",
	LogEntryJudgeRuling: "judge_ruling",
	LogEntryPhaseChange: "phase_change",
}

func (t LogEntryType) String() string { return LogEntryTypeDictionary[t] }

// LogEntry is one ordered record in the battle log. The log is append-only
// and immutable once the battle completes; the analysis pipeline reads it
// verbatim.
type LogEntry struct {
	Round            int
	Type             LogEntryType
	Description      string
	CharacterID      string
	DamageDealt      int
	StrategyAdherent bool
	// Rogue tags judge-ruling entries with the resolved action type so the
	// analysis pipeline never has to parse descriptions.
	Rogue       judge.ActionType
	TimestampMs int64
}

// Performance accumulates per-fighter combat counters over one battle.
type Performance struct {
	DamageDealt          int
	DamageReceived       int
	AbilitiesUsed        int
	SuccessfulHits       int
	CriticalHits         int
	CriticalHitsReceived int
	TeamplayActions      int
	StrategyDeviations   int
}

// Fighter is a battle-scoped wrapper around a persistent character record:
// the record itself, the derived psychological state, the performance
// counters, and any status effects currently applied.
type Fighter struct {
	Character   combatant.Character
	Psyche      psyche.State
	Performance Performance
	Statuses    []string
}

func (f *Fighter) clone() *Fighter {
	cp := *f
	cp.Character = *f.Character.Clone()
	cp.Statuses = append([]string(nil), f.Statuses...)
	return &cp
}

// Team holds one side of a battle.
type Team struct {
	Name                  string
	Fighters              []*Fighter
	CoachName             string
	CoachingPoints        int
	ConsecutiveLosses     int
	Chemistry             int
	Morale                int
	Culture               string
	Gameplan              Strategy
	CoachingEffectiveness int
	TeamRespect           int
}

func (t *Team) clone() *Team {
	if t == nil {
		return nil
	}
	cp := *t
	cp.Fighters = make([]*Fighter, len(t.Fighters))
	for i, f := range t.Fighters {
		cp.Fighters[i] = f.clone()
	}
	return &cp
}

// Fighter returns the fighter with the given character ID, or nil.
func (t *Team) Fighter(id string) *Fighter {
	for _, f := range t.Fighters {
		if f.Character.ID == id {
			return f
		}
	}
	return nil
}

// AliveFighters returns the fighters still standing, in roster order.
func (t *Team) AliveFighters() []*Fighter {
	alive := make([]*Fighter, 0, len(t.Fighters))
	for _, f := range t.Fighters {
		if f.Character.IsAlive() {
			alive = append(alive, f)
		}
	}
	return alive
}

// State is the single shared mutable object of a battle. Every mutation
// must pass through the Manager; readers only ever see deep copies.
type State struct {
	ID       string
	Round    int
	Phase    Phase
	Player   *Team
	Opponent *Team
	Log      []LogEntry
	Result   Result
}

// Clone returns a typed deep copy. No serialization round-trips.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Player = s.Player.clone()
	cp.Opponent = s.Opponent.clone()
	cp.Log = append([]LogEntry(nil), s.Log...)
	return &cp
}

// AppendLog appends an entry to the battle log.
func (s *State) AppendLog(e LogEntry) {
	e.Round = s.Round
	s.Log = append(s.Log, e)
}
