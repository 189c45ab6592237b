package analysis

import "arena-lite/battle"

// MomentType 关系时刻类型
type MomentType byte

const (
	MomentSupported MomentType = 0
	MomentSavedLife MomentType = 1
	MomentConflict  MomentType = 2
	MomentAbandoned MomentType = 3
	MomentBonded    MomentType = 4
)

var MomentTypeDictionary = map[MomentType]string{
	MomentSupported: "supported",
	MomentSavedLife: "saved_life",
	MomentConflict:  "conflicted",
	MomentAbandoned: "abandoned",
	MomentBonded:    "bonded",
}

func (m MomentType) String() string { return MomentTypeDictionary[m] }

// NotableEventType 战斗中值得记住的事件
type NotableEventType byte

const (
	EventHeroicAction   NotableEventType = 0
	EventBetrayal       NotableEventType = 1
	EventWitnessedDeath NotableEventType = 2
	EventSavedByAlly    NotableEventType = 3
	EventTeamwork       NotableEventType = 4
	EventConflict       NotableEventType = 5
)

var NotableEventTypeDictionary = map[NotableEventType]string{
	EventHeroicAction:   "heroic_action",
	EventBetrayal:       "betrayal",
	EventWitnessedDeath: "witnessed_death",
	EventSavedByAlly:    "saved_by_ally",
	EventTeamwork:       "teamwork",
	EventConflict:       "conflict",
}

func (e NotableEventType) String() string { return NotableEventTypeDictionary[e] }

// GrowthType 个人成长类型
type GrowthType byte

const (
	GrowthOvercameFear     GrowthType = 0
	GrowthShowedLeadership GrowthType = 1
	GrowthLearnedTeamwork  GrowthType = 2
	GrowthDevelopedSkill   GrowthType = 3
)

var GrowthTypeDictionary = map[GrowthType]string{
	GrowthOvercameFear:     "overcame_fear",
	GrowthShowedLeadership: "showed_leadership",
	GrowthLearnedTeamwork:  "learned_teamwork",
	GrowthDevelopedSkill:   "developed_skill",
}

func (g GrowthType) String() string { return GrowthTypeDictionary[g] }

// TraumaType 心理创伤类型
type TraumaType byte

const (
	TraumaWitnessedViolence TraumaType = 0
	TraumaBetrayedByAlly    TraumaType = 1
	TraumaFailedTeam        TraumaType = 2
	TraumaOverwhelmingFear  TraumaType = 3
)

var TraumaTypeDictionary = map[TraumaType]string{
	TraumaWitnessedViolence: "witnessed_violence",
	TraumaBetrayedByAlly:    "betrayed_by_ally",
	TraumaFailedTeam:        "failed_team",
	TraumaOverwhelmingFear:  "overwhelming_fear",
}

func (t TraumaType) String() string { return TraumaTypeDictionary[t] }

// Severity 后果严重程度
type Severity byte

const (
	SeverityMild        Severity = 0
	SeverityModerate    Severity = 1
	SeveritySignificant Severity = 2
	SeveritySevere      Severity = 3
)

var SeverityDictionary = map[Severity]string{
	SeverityMild:        "mild",
	SeverityModerate:    "moderate",
	SeveritySignificant: "significant",
	SeveritySevere:      "severe",
}

func (s Severity) String() string { return SeverityDictionary[s] }

// ConsequenceKind 心理后果类型
type ConsequenceKind byte

const (
	ConsequenceGrowth      ConsequenceKind = 0
	ConsequenceTrauma      ConsequenceKind = 1
	ConsequenceInspiration ConsequenceKind = 2
)

var ConsequenceKindDictionary = map[ConsequenceKind]string{
	ConsequenceGrowth:      "growth",
	ConsequenceTrauma:      "trauma",
	ConsequenceInspiration: "inspiration",
}

func (c ConsequenceKind) String() string { return ConsequenceKindDictionary[c] }

// TrainingFocus 训练建议方向
type TrainingFocus byte

const (
	TrainMentalHealth     TrainingFocus = 0
	TrainStrategyFocus    TrainingFocus = 1
	TrainTeamChemistry    TrainingFocus = 2
	TrainCombatSkills     TrainingFocus = 3
	TrainStressManagement TrainingFocus = 4
)

var TrainingFocusDictionary = map[TrainingFocus]string{
	TrainMentalHealth:     "mental_health",
	TrainStrategyFocus:    "strategy_focus",
	TrainTeamChemistry:    "team_chemistry",
	TrainCombatSkills:     "combat_skills",
	TrainStressManagement: "stress_management",
}

func (t TrainingFocus) String() string { return TrainingFocusDictionary[t] }

// Priority 建议优先级，数值越大越紧急
type Priority byte

const (
	PriorityLow    Priority = 1
	PriorityMedium Priority = 2
	PriorityHigh   Priority = 3
	PriorityUrgent Priority = 4
)

var PriorityDictionary = map[Priority]string{
	PriorityLow:    "low",
	PriorityMedium: "medium",
	PriorityHigh:   "high",
	PriorityUrgent: "urgent",
}

func (p Priority) String() string { return PriorityDictionary[p] }

// RelationshipMoment is one recorded interaction between two characters.
type RelationshipMoment struct {
	WithCharacter    string
	Type             MomentType
	StrengthChange   int
	EmotionalContext string
	WitnessedByTeam  bool
}

// NotableEvent is a memorable battle event from one character's view.
type NotableEvent struct {
	Type        NotableEventType
	Description string
	Round       int
}

// Growth is one positive development a character took from the battle.
type Growth struct {
	Type        GrowthType
	Description string
}

// Trauma is one lasting negative mark a character took from the battle.
type Trauma struct {
	Type         TraumaType
	Severity     Severity
	Description  string
	RecoveryTime int // battles until fully healed
}

// Memory is the per-character derived summary of one battle. Built once
// from the immutable log and final states; never mutated by gameplay code.
type Memory struct {
	CharacterID         string
	NotableEvents       []NotableEvent
	EmotionalImpact     int
	RelationshipMoments []RelationshipMoment
	PersonalGrowth      []Growth
	Trauma              []Trauma
}

// Evaluation is the performance report card for one character.
type Evaluation struct {
	CharacterID         string
	CombatEffectiveness int
	TeamworkRating      int
	AdherenceScore      int
	BattleRating        int
	NotableActions      []string
	GrowthAreas         []string
	Strengths           []string
}

// RelationshipChange records how one pairwise relationship moved.
type RelationshipChange struct {
	CharacterA   string
	CharacterB   string
	OldStrength  int
	NewStrength  int
	Reasons      []string
	Implications []string
}

// Consequence is one durable psychological outcome.
type Consequence struct {
	CharacterID  string
	Kind         ConsequenceKind
	Severity     Severity
	Description  string
	Effects      []string
	RecoveryTime int
	Treatments   []string
}

// Recommendation is one priority-ranked training suggestion.
type Recommendation struct {
	CharacterID  string
	Focus        TrainingFocus
	Priority     Priority
	Reason       string
	TimeRequired int // training days
}

// ChemistryEvolution summarizes how team chemistry moved over the battle.
type ChemistryEvolution struct {
	Delta         int
	Final         int
	Strengthened  [][2]string
	Weakened      [][2]string
	EmergingNotes []string
}

// TeamMetrics are the aggregate team scores.
type TeamMetrics struct {
	Teamwork           int
	Adherence          int
	StrategicExecution int
	MoraleManagement   int
	ConflictResolution int
	Adaptability       int
}

// Report is the full post-battle analysis output.
type Report struct {
	BattleID            string
	Result              battle.Result
	Memories            []Memory
	Evaluations         []Evaluation
	RelationshipChanges []RelationshipChange
	Consequences        []Consequence
	Recommendations     []Recommendation
	Chemistry           ChemistryEvolution
	Metrics             TeamMetrics
}
