package psyche

// BattleEvent 战斗事件类型
type BattleEvent byte

const (
	EventNone            BattleEvent = 0
	EventDamageTaken     BattleEvent = 1
	EventDamageDealt     BattleEvent = 2
	EventTeammateHelped  BattleEvent = 3
	EventStrategyIgnored BattleEvent = 4
	EventVictory         BattleEvent = 5
	EventDefeat          BattleEvent = 6
)

var BattleEventDictionary = map[BattleEvent]string{
	EventNone:            "none",
	EventDamageTaken:     "damage_taken",
	EventDamageDealt:     "damage_dealt",
	EventTeammateHelped:  "teammate_helped",
	EventStrategyIgnored: "strategy_ignored",
	EventVictory:         "victory",
	EventDefeat:          "defeat",
}

func (e BattleEvent) String() string {
	if s, ok := BattleEventDictionary[e]; ok {
		return s
	}
	return "unknown"
}
