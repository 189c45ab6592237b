package arena

import (
	"arena-lite/battle"
	"arena-lite/coaching"
	"arena-lite/judge"
)

// FighterView is the wire projection of one fighter.
type FighterView struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Archetype       string   `json:"archetype"`
	Level           int      `json:"level"`
	CurrentHealth   int      `json:"current_health"`
	MaxHealth       int      `json:"max_health"`
	Strength        int      `json:"strength"`
	Defense         int      `json:"defense"`
	Speed           int      `json:"speed"`
	Stress          int      `json:"stress"`
	Confidence      int      `json:"confidence"`
	MentalStability int      `json:"mental_stability"`
	Statuses        []string `json:"statuses,omitempty"`
	Alive           bool     `json:"alive"`
}

// TeamView is the wire projection of one side of a battle.
type TeamView struct {
	Name           string        `json:"name"`
	CoachName      string        `json:"coach_name,omitempty"`
	Morale         int           `json:"morale"`
	Chemistry      int           `json:"chemistry"`
	CoachingPoints int           `json:"coaching_points"`
	Gameplan       string        `json:"gameplan"`
	Fighters       []FighterView `json:"fighters"`
}

// LogEntryView is one battle log entry on the wire.
type LogEntryView struct {
	Round            int    `json:"round"`
	Type             string `json:"type"`
	CharacterID      string `json:"character_id,omitempty"`
	Description      string `json:"description"`
	DamageDealt      int    `json:"damage_dealt,omitempty"`
	StrategyAdherent bool   `json:"strategy_adherent"`
	Rogue            string `json:"rogue,omitempty"`
}

// ArenaSnapshotView is the full arena state sent on join and resume.
type ArenaSnapshotView struct {
	ArenaID        string    `json:"arena_id"`
	BattleID       string    `json:"battle_id,omitempty"`
	Phase          string    `json:"phase,omitempty"`
	Round          int       `json:"round,omitempty"`
	Result         string    `json:"result,omitempty"`
	CoachingPoints int       `json:"coaching_points"`
	Player         *TeamView `json:"player,omitempty"`
	Opponent       *TeamView `json:"opponent,omitempty"`
}

type BattleStartView struct {
	BattleID string    `json:"battle_id"`
	Player   *TeamView `json:"player"`
	Opponent *TeamView `json:"opponent"`
}

type RoundUpdateView struct {
	BattleID string         `json:"battle_id"`
	Round    int            `json:"round"`
	Player   *TeamView      `json:"player"`
	Opponent *TeamView      `json:"opponent"`
	Entries  []LogEntryView `json:"entries,omitempty"`
}

type JudgeRulingView struct {
	BattleID          string `json:"battle_id"`
	Round             int    `json:"round"`
	CharacterID       string `json:"character_id"`
	Action            string `json:"action"`
	Narrative         string `json:"narrative"`
	Damage            int    `json:"damage"`
	TargetDamage      int    `json:"target_damage"`
	MoraleChange      int    `json:"morale_change"`
	CoachResponse     string `json:"coach_response,omitempty"`
	CharacterResponse string `json:"character_response,omitempty"`
}

type TimeoutActionView struct {
	Kind          string `json:"kind"`
	TargetID      string `json:"target_id,omitempty"`
	Approach      string `json:"approach,omitempty"`
	Effectiveness int    `json:"effectiveness"`
	Success       bool   `json:"success"`
	Detail        string `json:"detail"`
}

type TimeoutResultView struct {
	BattleID            string              `json:"battle_id"`
	TimeUsed            int                 `json:"time_used"`
	SuccessRate         float64             `json:"success_rate"`
	RecommendedStrategy string              `json:"recommended_strategy"`
	Executed            []TimeoutActionView `json:"executed"`
	Skipped             []string            `json:"skipped,omitempty"`
	PointsLeft          int                 `json:"points_left"`
}

type CoachingResultView struct {
	CharacterID   string `json:"character_id"`
	Focus         string `json:"focus"`
	Mood          string `json:"mood"`
	Effectiveness int    `json:"effectiveness"`
	PointsSpent   int    `json:"points_spent"`
	PointsLeft    int    `json:"points_left"`
	Feedback      string `json:"feedback"`
}

type BattleEndView struct {
	BattleID       string    `json:"battle_id"`
	Result         string    `json:"result"`
	Rounds         int       `json:"rounds"`
	CoachingPoints int       `json:"coaching_points"`
	Player         *TeamView `json:"player"`
	Opponent       *TeamView `json:"opponent"`
}

func fighterView(f *battle.Fighter) FighterView {
	c := f.Character
	return FighterView{
		ID:              c.ID,
		Name:            c.Name,
		Archetype:       c.Archetype.String(),
		Level:           c.Level,
		CurrentHealth:   c.CurrentHealth,
		MaxHealth:       c.MaxHealth,
		Strength:        c.Strength,
		Defense:         c.Defense,
		Speed:           c.Speed,
		Stress:          f.Psyche.Stress,
		Confidence:      f.Psyche.Confidence,
		MentalStability: f.Psyche.MentalStability,
		Statuses:        append([]string(nil), f.Statuses...),
		Alive:           c.IsAlive(),
	}
}

func teamView(t *battle.Team) *TeamView {
	if t == nil {
		return nil
	}
	view := &TeamView{
		Name:           t.Name,
		CoachName:      t.CoachName,
		Morale:         t.Morale,
		Chemistry:      t.Chemistry,
		CoachingPoints: t.CoachingPoints,
		Gameplan:       t.Gameplan.String(),
		Fighters:       make([]FighterView, 0, len(t.Fighters)),
	}
	for _, f := range t.Fighters {
		view.Fighters = append(view.Fighters, fighterView(f))
	}
	return view
}

func logEntryView(e battle.LogEntry) LogEntryView {
	view := LogEntryView{
		Round:            e.Round,
		Type:             e.Type.String(),
		CharacterID:      e.CharacterID,
		Description:      e.Description,
		DamageDealt:      e.DamageDealt,
		StrategyAdherent: e.StrategyAdherent,
	}
	if e.Rogue != judge.ActionNone {
		view.Rogue = e.Rogue.String()
	}
	return view
}

func timeoutResultView(battleID string, res coaching.TimeoutResult, pointsLeft int) TimeoutResultView {
	view := TimeoutResultView{
		BattleID:            battleID,
		TimeUsed:            res.TimeUsed,
		SuccessRate:         res.SuccessRate,
		RecommendedStrategy: res.RecommendedStrategy.String(),
		Executed:            make([]TimeoutActionView, 0, len(res.Executed)),
		Skipped:             append([]string(nil), res.Skipped...),
		PointsLeft:          pointsLeft,
	}
	for _, r := range res.Executed {
		view.Executed = append(view.Executed, TimeoutActionView{
			Kind:          r.Kind.String(),
			TargetID:      r.TargetID,
			Approach:      r.Approach.String(),
			Effectiveness: r.Effectiveness,
			Success:       r.Success,
			Detail:        r.Detail,
		})
	}
	return view
}
