package analysis

// StatKind 属性增量事件涉及的属性
type StatKind byte

const (
	StatTraining      StatKind = 0
	StatTeamPlayer    StatKind = 1
	StatEgo           StatKind = 2
	StatMentalHealth  StatKind = 3
	StatCommunication StatKind = 4
)

var StatKindDictionary = map[StatKind]string{
	StatTraining:      "training",
	StatTeamPlayer:    "team_player",
	StatEgo:           "ego",
	StatMentalHealth:  "mental_health",
	StatCommunication: "communication",
}

func (s StatKind) String() string { return StatKindDictionary[s] }

// StatDeltaEvent asks the persistence collaborator to adjust one stat of
// one character. The core never writes storage itself.
type StatDeltaEvent struct {
	BattleID    string
	CharacterID string
	Stat        StatKind
	Delta       float64
	Reason      string
}

// CoachXPKind 教练经验事件类型
type CoachXPKind byte

const (
	XPAdherence CoachXPKind = 0
	XPChemistry CoachXPKind = 1
)

var CoachXPKindDictionary = map[CoachXPKind]string{
	XPAdherence: "gameplan_adherence",
	XPChemistry: "team_chemistry",
}

func (k CoachXPKind) String() string { return CoachXPKindDictionary[k] }

// CoachXPEvent feeds the external coach-progression ledger.
type CoachXPEvent struct {
	BattleID          string
	Kind              CoachXPKind
	AdherenceRate     float64 // XPAdherence
	DeviationsBlocked int     // XPAdherence
	Improvement       int     // XPChemistry
	FinalChemistry    int     // XPChemistry
}

// EventSink receives the pipeline's outbound events. Implemented by the
// server ledger in production and by a recording fake in tests.
type EventSink interface {
	RecordStatDelta(StatDeltaEvent)
	RecordCoachXP(CoachXPEvent)
}

// NoopSink discards everything.
type NoopSink struct{}

func (NoopSink) RecordStatDelta(StatDeltaEvent) {}
func (NoopSink) RecordCoachXP(CoachXPEvent)     {}
