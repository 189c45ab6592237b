package arena

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"arena-lite/battle"
	"arena-lite/coaching"
	"arena-lite/combatant"
	"arena-lite/deviation"
	"arena-lite/judge"
	"arena-lite/psyche"
	"arena-lite/roster"

	"arena-lite/apps/server/internal/codec"
	"arena-lite/apps/server/internal/config"
)

// Arena hosts one coach's battles with an actor model. All mutations funnel
// through the event queue; battle state itself is additionally serialized by
// the battle manager.
type Arena struct {
	ID  string
	cfg config.ArenaConfig

	mu       sync.RWMutex
	coaches  map[uint64]*CoachConn
	owner    uint64
	closed   bool
	stopOnce sync.Once

	// stable holds the coach's characters across battles so coaching
	// sessions and battle scars persist between fights.
	stable map[string]*combatant.Character
	mood   teamMood

	roster       *roster.Registry
	battles      *battle.Registry
	activeBattle *battle.Manager

	judge     *judge.Resolver
	deviation *deviation.Engine
	coaching  *coaching.Engine
	rng       *rand.Rand

	events chan Event
	done   chan struct{}

	serverSeq uint64

	nextRoundAt  time.Time
	nextBattleAt time.Time
	emptySince   time.Time

	broadcast func(userID uint64, data []byte)

	battleEndHooks []BattleEndHook
}

// teamMood carries the slow-moving team identity between battles.
type teamMood struct {
	Chemistry             int
	Morale                int
	CoachingEffectiveness int
	TeamRespect           int
	CoachingPoints        int
	ConsecutiveLosses     int
}

func defaultMood() teamMood {
	return teamMood{
		Chemistry:             70,
		Morale:                70,
		CoachingEffectiveness: 60,
		TeamRespect:           60,
		CoachingPoints:        battle.StartingCoachingPoints,
	}
}

// CoachConn represents a connected coach in the arena.
type CoachConn struct {
	UserID   uint64
	Username string
	Online   bool
	LastSeen time.Time
}

// Event types for the actor message queue.
type EventType int

const (
	EventJoinArena EventType = iota
	EventStartBattle
	EventCallTimeout
	EventCoachSession
	EventLeaveArena
	EventConnLost
	EventConnResume
	EventClose
)

// Event represents a message to the arena actor.
type Event struct {
	Type         EventType
	UserID       uint64
	Username     string
	FighterIDs   []string
	OpponentTier int
	Actions      []coaching.TimeoutAction
	CharacterID  string
	Focus        coaching.Focus
	Timestamp    time.Time
	Response     chan error
}

// BattleEndInfo is emitted when a battle settles.
type BattleEndInfo struct {
	ArenaID  string
	BattleID string
	UserID   uint64
	State    battle.State
}

// BattleEndHook is a post-battle callback, typically the analysis pipeline.
type BattleEndHook func(info BattleEndInfo)

var ErrArenaClosed = errors.New("arena closed")

const (
	defaultOpponentTier = 2
	minTeamSize         = 1
)

// Deps are the external collaborators an arena needs.
type Deps struct {
	Roster    *roster.Registry
	Battles   *battle.Registry
	Broadcast func(userID uint64, data []byte)
	Seed      int64
}

// New creates a new arena.
func New(id string, cfg config.ArenaConfig, deps Deps) *Arena {
	seed := deps.Seed
	var subSeed int64
	if seed != 0 {
		subSeed = seed + 1
	}

	a := &Arena{
		ID:         id,
		cfg:        cfg,
		coaches:    make(map[uint64]*CoachConn),
		stable:     make(map[string]*combatant.Character),
		mood:       defaultMood(),
		battles:    deps.Battles,
		judge:      judge.NewResolver(seed),
		deviation:  deviation.NewEngine(subSeed),
		coaching:   coaching.NewEngine(subSeed),
		events:     make(chan Event, 256),
		done:       make(chan struct{}),
		broadcast:  deps.Broadcast,
		emptySince: time.Now(),
		roster:     deps.Roster,
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	a.rng = rand.New(rand.NewSource(seed))

	go a.run()

	log.Printf("[Arena %s] Created (teamSize=%d, maxRounds=%d)", id, cfg.TeamSize, cfg.MaxRounds)
	return a
}

// run is the main actor loop.
func (a *Arena) run() {
	// Sub-second heartbeat for combat round scheduling.
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case event := <-a.events:
			err := a.handleEvent(event)
			if event.Response != nil {
				event.Response <- err
			}
		case <-ticker.C:
			a.tick()
		case <-a.done:
			log.Printf("[Arena %s] Actor stopped", a.ID)
			return
		}
	}
}

func (a *Arena) handleEvent(e Event) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed && e.Type != EventClose {
		return ErrArenaClosed
	}

	switch e.Type {
	case EventJoinArena:
		return a.handleJoin(e.UserID, e.Username)
	case EventStartBattle:
		return a.handleStartBattle(e.UserID, e.FighterIDs, e.OpponentTier)
	case EventCallTimeout:
		return a.handleCallTimeout(e.UserID, e.Actions)
	case EventCoachSession:
		return a.handleCoachSession(e.UserID, e.CharacterID, e.Focus)
	case EventLeaveArena:
		return a.handleLeave(e.UserID)
	case EventConnLost:
		return a.handleConnLost(e.UserID, e.Timestamp)
	case EventConnResume:
		return a.handleConnResume(e.UserID, e.Username, e.Timestamp)
	case EventClose:
		a.stopLocked()
		return nil
	default:
		return fmt.Errorf("unknown event type: %d", e.Type)
	}
}

func (a *Arena) handleJoin(userID uint64, username string) error {
	now := time.Now()
	if coach, exists := a.coaches[userID]; exists {
		coach.Online = true
		coach.LastSeen = now
		coach.Username = username
		a.sendSnapshotLocked(userID)
		return nil
	}

	a.coaches[userID] = &CoachConn{
		UserID:   userID,
		Username: username,
		Online:   true,
		LastSeen: now,
	}
	if a.owner == 0 {
		a.owner = userID
	}
	a.emptySince = time.Time{}

	log.Printf("[Arena %s] Coach %d (%s) joined", a.ID, userID, username)
	a.sendSnapshotLocked(userID)
	return nil
}

func (a *Arena) handleLeave(userID uint64) error {
	if _, exists := a.coaches[userID]; !exists {
		return nil
	}
	delete(a.coaches, userID)
	log.Printf("[Arena %s] Coach %d left", a.ID, userID)
	if len(a.coaches) == 0 {
		a.emptySince = time.Now()
	}
	return nil
}

func (a *Arena) handleConnLost(userID uint64, ts time.Time) error {
	coach := a.coaches[userID]
	if coach == nil {
		return nil
	}
	if ts.IsZero() {
		ts = time.Now()
	}
	coach.Online = false
	coach.LastSeen = ts
	log.Printf("[Arena %s] Coach %d connection lost", a.ID, userID)
	return nil
}

func (a *Arena) handleConnResume(userID uint64, username string, ts time.Time) error {
	coach := a.coaches[userID]
	if coach == nil {
		return a.handleJoin(userID, username)
	}
	if ts.IsZero() {
		ts = time.Now()
	}
	coach.Online = true
	coach.LastSeen = ts
	a.sendSnapshotLocked(userID)
	return nil
}

func (a *Arena) handleStartBattle(userID uint64, fighterIDs []string, opponentTier int) error {
	if userID != a.owner {
		return fmt.Errorf("only the arena owner can start a battle")
	}
	if a.activeBattle != nil {
		return fmt.Errorf("battle already in progress")
	}
	now := time.Now()
	if !a.nextBattleAt.IsZero() && now.Before(a.nextBattleAt) {
		return fmt.Errorf("team still recovering, next battle in %s", time.Until(a.nextBattleAt).Round(time.Second))
	}
	if len(fighterIDs) < minTeamSize || len(fighterIDs) > a.cfg.TeamSize {
		return fmt.Errorf("lineup must have between %d and %d fighters", minTeamSize, a.cfg.TeamSize)
	}
	if opponentTier <= 0 {
		opponentTier = defaultOpponentTier
	}

	player, err := a.buildPlayerTeam(userID, fighterIDs)
	if err != nil {
		return err
	}
	opponent, err := a.buildOpponentTeam(fighterIDs, opponentTier)
	if err != nil {
		return err
	}

	st := &battle.State{
		Phase:    battle.PhaseTypeCombat,
		Player:   player,
		Opponent: opponent,
	}
	st.AppendLog(battle.LogEntry{
		Type:        battle.LogEntryPhaseChange,
		Description: "combat begins",
		TimestampMs: now.UnixMilli(),
	})

	mgr := a.battles.Create(st)
	a.activeBattle = mgr
	a.nextRoundAt = now.Add(a.roundInterval())

	log.Printf("[Arena %s] Battle %s started: %d vs %d fighters, tier %d",
		a.ID, mgr.ID(), len(player.Fighters), len(opponent.Fighters), opponentTier)

	a.broadcastToAllLocked(codec.ServerBattleStart, BattleStartView{
		BattleID: mgr.ID(),
		Player:   teamView(player),
		Opponent: teamView(opponent),
	})
	return nil
}

func (a *Arena) buildPlayerTeam(userID uint64, fighterIDs []string) (*battle.Team, error) {
	coachName := ""
	if coach := a.coaches[userID]; coach != nil {
		coachName = coach.Username
	}

	team := &battle.Team{
		Name:                  fmt.Sprintf("%s Squad", a.ID),
		CoachName:             coachName,
		CoachingPoints:        a.mood.CoachingPoints,
		ConsecutiveLosses:     a.mood.ConsecutiveLosses,
		Chemistry:             a.mood.Chemistry,
		Morale:                a.mood.Morale,
		Gameplan:              battle.StrategyBalanced,
		CoachingEffectiveness: a.mood.CoachingEffectiveness,
		TeamRespect:           a.mood.TeamRespect,
	}

	chars := make([]*combatant.Character, 0, len(fighterIDs))
	seen := make(map[string]bool, len(fighterIDs))
	for _, id := range fighterIDs {
		if seen[id] {
			return nil, fmt.Errorf("duplicate fighter %s in lineup", id)
		}
		seen[id] = true

		c := a.stable[id]
		if c == nil {
			tpl := a.roster.Get(id)
			if tpl == nil {
				return nil, fmt.Errorf("unknown fighter %s", id)
			}
			c = tpl.Build()
			a.stable[id] = c
		}
		// Wounds close between battles; psychology does not.
		c.CurrentHealth = c.MaxHealth
		chars = append(chars, c)
	}

	for _, c := range chars {
		f := &battle.Fighter{
			Character: *c.Clone(),
			Psyche:    psyche.Initialize(c, psyche.EnvironmentEffects{}, chars),
		}
		team.Fighters = append(team.Fighters, f)
	}

	// Roster makeup sets the chemistry baseline; the carried team mood
	// stands in as the coach's reputation adjustment on top.
	team.Chemistry = battle.CalculateChemistry(team, (a.mood.Chemistry-50)/2)
	return team, nil
}

func (a *Arena) buildOpponentTeam(excludeIDs []string, tier int) (*battle.Team, error) {
	excluded := make(map[string]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}

	pool := a.roster.ByTier(tier)
	if len(pool) == 0 {
		pool = a.roster.All()
	}
	candidates := make([]*roster.Template, 0, len(pool))
	for _, tpl := range pool {
		if !excluded[tpl.ID] {
			candidates = append(candidates, tpl)
		}
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no tier %d opponents available", tier)
	}

	a.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	size := a.cfg.TeamSize
	if size > len(candidates) {
		size = len(candidates)
	}

	team := &battle.Team{
		Name:                  fmt.Sprintf("Tier %d Challengers", tier),
		CoachingPoints:        battle.StartingCoachingPoints,
		Chemistry:             60,
		Morale:                60,
		Gameplan:              battle.StrategyBalanced,
		CoachingEffectiveness: 50,
		TeamRespect:           50,
	}
	chars := make([]*combatant.Character, 0, size)
	for _, tpl := range candidates[:size] {
		chars = append(chars, tpl.Build())
	}
	for _, c := range chars {
		team.Fighters = append(team.Fighters, &battle.Fighter{
			Character: *c,
			Psyche:    psyche.Initialize(c, psyche.EnvironmentEffects{}, chars),
		})
	}
	return team, nil
}

func (a *Arena) handleCallTimeout(userID uint64, actions []coaching.TimeoutAction) error {
	if userID != a.owner {
		return fmt.Errorf("only the arena owner can call a timeout")
	}
	mgr := a.activeBattle
	if mgr == nil {
		return fmt.Errorf("no battle in progress")
	}
	if len(actions) == 0 {
		return fmt.Errorf("timeout needs at least one action")
	}

	var (
		res        coaching.TimeoutResult
		pointsLeft int
	)
	err := mgr.Execute(func(s *battle.State) error {
		if s.Phase != battle.PhaseTypeCombat {
			return battle.ErrInvalidState("timeout outside combat")
		}
		if err := s.Player.DebitCoachingPoint(); err != nil {
			return err
		}
		res = a.coaching.RunTimeout(s.Player, actions)
		for _, r := range res.Executed {
			s.AppendLog(battle.LogEntry{
				Type:             battle.LogEntryCoaching,
				CharacterID:      r.TargetID,
				Description:      r.Detail,
				StrategyAdherent: true,
				TimestampMs:      time.Now().UnixMilli(),
			})
		}
		pointsLeft = s.Player.CoachingPoints
		return nil
	}, nil, 0)
	if err != nil {
		return err
	}

	// The huddle buys the team a breather before the next exchange.
	a.nextRoundAt = time.Now().Add(a.roundInterval())

	log.Printf("[Arena %s] Timeout: %d actions executed, %d skipped, success rate %.2f",
		a.ID, len(res.Executed), len(res.Skipped), res.SuccessRate)
	a.broadcastToAllLocked(codec.ServerTimeoutResult, timeoutResultView(mgr.ID(), res, pointsLeft))
	return nil
}

func (a *Arena) handleCoachSession(userID uint64, characterID string, focus coaching.Focus) error {
	if userID != a.owner {
		return fmt.Errorf("only the arena owner can run a coaching session")
	}
	if a.activeBattle != nil {
		return fmt.Errorf("coaching sessions run between battles")
	}

	c := a.stable[characterID]
	if c == nil {
		tpl := a.roster.Get(characterID)
		if tpl == nil {
			return fmt.Errorf("unknown character %s", characterID)
		}
		c = tpl.Build()
		a.stable[characterID] = c
	}

	session, remaining := coaching.ConductSession(c, focus, a.mood.CoachingEffectiveness, a.mood.CoachingPoints)
	a.mood.CoachingPoints = remaining
	applySessionOutcome(c, session.Outcome)

	log.Printf("[Arena %s] Coaching session: %s focus=%s mood=%s eff=%d",
		a.ID, characterID, session.Focus, session.Mood, session.Effectiveness)

	a.sendToUserLocked(userID, codec.ServerCoachingResult, CoachingResultView{
		CharacterID:   session.CharacterID,
		Focus:         session.Focus.String(),
		Mood:          session.Mood.String(),
		Effectiveness: session.Effectiveness,
		PointsSpent:   session.PointsSpent,
		PointsLeft:    remaining,
		Feedback:      session.Outcome.Feedback,
	})
	return nil
}

func applySessionOutcome(c *combatant.Character, out coaching.Outcome) {
	c.Psych.MentalHealth = combatant.Clamp100(c.Psych.MentalHealth + out.MentalHealth)
	c.Psych.Training = combatant.Clamp100(c.Psych.Training + out.Training)
	c.Psych.TeamPlayer = combatant.Clamp100(c.Psych.TeamPlayer + out.TeamPlayer)
	c.Psych.Ego = combatant.Clamp100(c.Psych.Ego + out.Ego)
	c.Psych.Communication = combatant.Clamp100(c.Psych.Communication + out.Communication)
	c.TeamTrust = combatant.Clamp100(c.TeamTrust + out.Relationship)
}

func (a *Arena) tick() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}
	if a.activeBattle == nil {
		return
	}
	now := time.Now()
	if a.nextRoundAt.IsZero() || now.Before(a.nextRoundAt) {
		return
	}
	a.nextRoundAt = now.Add(a.roundInterval())
	a.runCombatRound()
}

// runCombatRound advances the battle one round: the player side acts through
// the full psychology stack, the opponent side through plain attacks. Called
// with a.mu held; the mutation itself is serialized by the battle manager.
func (a *Arena) runCombatRound() {
	mgr := a.activeBattle
	var rulings []JudgeRulingView

	err := mgr.Execute(func(s *battle.State) error {
		if s.Phase != battle.PhaseTypeCombat {
			return nil
		}
		s.Round++
		a.playerTurn(s, &rulings)
		if s.Phase == battle.PhaseTypeCombat {
			a.opponentTurn(s)
		}
		a.checkBattleEnd(s)
		return nil
	}, nil, 0)
	if err != nil {
		log.Printf("[Arena %s] combat round failed: %v", a.ID, err)
		return
	}

	snap, err := mgr.Snapshot()
	if err != nil {
		log.Printf("[Arena %s] post-round snapshot failed: %v", a.ID, err)
		return
	}

	for _, ruling := range rulings {
		ruling.BattleID = snap.ID
		ruling.Round = snap.Round
		a.broadcastToAllLocked(codec.ServerJudgeRuling, ruling)
	}
	a.broadcastToAllLocked(codec.ServerRoundUpdate, RoundUpdateView{
		BattleID: snap.ID,
		Round:    snap.Round,
		Player:   teamView(snap.Player),
		Opponent: teamView(snap.Opponent),
		Entries:  roundEntries(snap.Log, snap.Round),
	})

	if snap.Phase == battle.PhaseTypeComplete {
		a.finishBattleLocked(snap)
	}
}

func roundEntries(entries []battle.LogEntry, round int) []LogEntryView {
	var out []LogEntryView
	for _, e := range entries {
		if e.Round == round {
			out = append(out, logEntryView(e))
		}
	}
	return out
}

func (a *Arena) playerTurn(s *battle.State, rulings *[]JudgeRulingView) {
	situation := situationFor(s)
	for _, f := range s.Player.AliveFighters() {
		target := firstAlive(s.Opponent)
		if target == nil {
			return
		}

		ctx := battle.AdherenceContext{
			PlanComplexity: planComplexity(s.Player.Gameplan),
			CoachBonus:     (s.Player.CoachingEffectiveness - 50) / 10,
			LosingBadly:    situation == judge.SituationLosing,
		}
		_, follows := battle.CheckAdherence(f, ctx, a.rng)
		if follows {
			a.basicAttack(s, s.Player, f, s.Opponent, target, true)
			continue
		}

		risk := a.deviation.AssessRisk(&f.Character, f.Psyche, aliveHated(f, s.Player))
		if devType, deviates := a.deviation.Roll(risk); deviates {
			rogue := a.judge.ActionForDeviation(devType, &f.Character, &target.Character, s.Player.Morale, situation)
			ruling := judge.Judge(rogue, &target.Character, s.Player.Morale)
			a.applyRuling(s, f, target, rogue, ruling)
			*rulings = append(*rulings, JudgeRulingView{
				CharacterID:       f.Character.ID,
				Action:            rogue.Type.String(),
				Narrative:         ruling.Narrative,
				Damage:            ruling.Damage,
				TargetDamage:      ruling.TargetDamage,
				MoraleChange:      ruling.MoraleChange,
				CoachResponse:     a.judge.CoachResponse(rogue, s.Player.CoachName),
				CharacterResponse: a.judge.CharacterResponse(&f.Character, rogue),
			})
			continue
		}

		// Off the plan but short of a full deviation: a half-hearted swing.
		a.basicAttack(s, s.Player, f, s.Opponent, target, false)
	}
}

func (a *Arena) opponentTurn(s *battle.State) {
	for _, f := range s.Opponent.AliveFighters() {
		target := firstAlive(s.Player)
		if target == nil {
			return
		}
		a.basicAttack(s, s.Opponent, f, s.Player, target, true)
	}
}

func (a *Arena) basicAttack(s *battle.State, team *battle.Team, f *battle.Fighter, enemyTeam *battle.Team, target *battle.Fighter, adherent bool) {
	dmg := f.Character.Strength - target.Character.Defense/2
	switch team.Gameplan {
	case battle.StrategyAggressive:
		dmg = dmg * 5 / 4
	case battle.StrategyDefensive:
		dmg = dmg * 3 / 4
	}
	if !adherent {
		dmg = dmg * 7 / 10
	}
	dmg = int(float64(dmg) * battle.ChemistryDamageModifier(team.Chemistry))
	if dmg < 1 {
		dmg = 1
	}

	crit := a.rng.Intn(100) < f.Character.Speed/5
	if crit {
		dmg = dmg * 3 / 2
	}

	dealDamage(target, dmg)
	f.Performance.DamageDealt += dmg
	f.Performance.AbilitiesUsed++
	f.Performance.SuccessfulHits++
	if crit {
		f.Performance.CriticalHits++
		target.Performance.CriticalHitsReceived++
	}
	target.Performance.DamageReceived += dmg

	desc := fmt.Sprintf("%s strikes %s for %d", f.Character.Name, target.Character.Name, dmg)
	if crit {
		desc = fmt.Sprintf("%s lands a critical hit on %s for %d", f.Character.Name, target.Character.Name, dmg)
	}
	s.AppendLog(battle.LogEntry{
		Type:             battle.LogEntryAction,
		CharacterID:      f.Character.ID,
		Description:      desc,
		DamageDealt:      dmg,
		StrategyAdherent: adherent,
		TimestampMs:      time.Now().UnixMilli(),
	})

	factors := a.stabilityFactors(team, f)
	f.Psyche = f.Psyche.Update(factors, psyche.EventDamageDealt)
	target.Psyche = target.Psyche.Update(a.stabilityFactors(enemyTeam, target), psyche.EventDamageTaken)
	if !adherent {
		f.Psyche = f.Psyche.Update(factors, psyche.EventStrategyIgnored)
	}
}

// applyRuling translates a judge ruling into state changes. Damage lands on
// the opponent target; TargetDamage is routed per action type — friendly
// fire hits a teammate, everything else comes back on the actor.
func (a *Arena) applyRuling(s *battle.State, f, target *battle.Fighter, rogue judge.RogueAction, ruling judge.Ruling) {
	if ruling.Damage > 0 {
		dealDamage(target, ruling.Damage)
		f.Performance.DamageDealt += ruling.Damage
		f.Performance.AbilitiesUsed++
		f.Performance.SuccessfulHits++
		target.Performance.DamageReceived += ruling.Damage
	}

	if ruling.TargetDamage > 0 {
		if rogue.Type == judge.ActionAttackTeammate {
			if victim := teammateVictim(s.Player, f); victim != nil {
				dealDamage(victim, ruling.TargetDamage)
				victim.Performance.DamageReceived += ruling.TargetDamage
				victim.Psyche = victim.Psyche.Update(a.stabilityFactors(s.Player, victim), psyche.EventDamageTaken)
			}
		} else {
			dealDamage(f, ruling.TargetDamage)
			f.Performance.DamageReceived += ruling.TargetDamage
		}
	}

	if rogue.Type == judge.ActionProtectiveSacrifice {
		f.Performance.TeamplayActions++
		for _, mate := range s.Player.AliveFighters() {
			if mate.Character.ID == f.Character.ID {
				continue
			}
			mate.Psyche = mate.Psyche.Update(a.stabilityFactors(s.Player, mate), psyche.EventTeammateHelped)
		}
	}

	s.Player.Morale = combatant.Clamp100(s.Player.Morale + ruling.MoraleChange)
	s.Player.Chemistry = combatant.Clamp100(s.Player.Chemistry + ruling.TeamChemistryChange)
	f.Character.Psych.MentalHealth = combatant.Clamp100(f.Character.Psych.MentalHealth + ruling.MentalHealthChange)
	for _, status := range ruling.StatusEffects {
		f.Statuses = appendUnique(f.Statuses, status)
	}
	f.Performance.StrategyDeviations++
	f.Psyche = f.Psyche.Update(a.stabilityFactors(s.Player, f), psyche.EventStrategyIgnored)

	s.AppendLog(battle.LogEntry{
		Type:             battle.LogEntryJudgeRuling,
		CharacterID:      f.Character.ID,
		Description:      ruling.Narrative,
		DamageDealt:      ruling.Damage,
		StrategyAdherent: false,
		Rogue:            rogue.Type,
		TimestampMs:      time.Now().UnixMilli(),
	})
	if ruling.MoraleChange != 0 {
		s.AppendLog(battle.LogEntry{
			Type:        battle.LogEntryMoraleEvent,
			CharacterID: f.Character.ID,
			Description: fmt.Sprintf("team morale shifts by %+d", ruling.MoraleChange),
			TimestampMs: time.Now().UnixMilli(),
		})
	}
}

func (a *Arena) checkBattleEnd(s *battle.State) {
	pAlive := len(s.Player.AliveFighters())
	oAlive := len(s.Opponent.AliveFighters())
	if pAlive > 0 && oAlive > 0 && s.Round < a.maxRounds() {
		return
	}

	switch {
	case pAlive == 0 && oAlive == 0:
		s.Result = battle.ResultDraw
	case oAlive == 0:
		s.Result = battle.ResultVictory
	case pAlive == 0:
		s.Result = battle.ResultDefeat
	default:
		// Rounds exhausted: the healthier team takes it.
		ph, oh := teamHealth(s.Player), teamHealth(s.Opponent)
		switch {
		case ph > oh:
			s.Result = battle.ResultVictory
		case oh > ph:
			s.Result = battle.ResultDefeat
		default:
			s.Result = battle.ResultDraw
		}
	}

	won := s.Result == battle.ResultVictory
	s.Player.SettleCoachingPoints(won)

	event := psyche.EventDefeat
	if won {
		event = psyche.EventVictory
	}
	for _, f := range s.Player.Fighters {
		f.Psyche = f.Psyche.Update(a.stabilityFactors(s.Player, f), event)
	}

	s.Phase = battle.PhaseTypeComplete
	s.AppendLog(battle.LogEntry{
		Type:        battle.LogEntryPhaseChange,
		Description: fmt.Sprintf("battle complete: %s", s.Result),
		TimestampMs: time.Now().UnixMilli(),
	})
}

// finishBattleLocked runs once per battle with the completed snapshot:
// persists the team mood and battle scars back to the stable, dispatches the
// post-battle hooks and schedules the recovery window.
func (a *Arena) finishBattleLocked(snap battle.State) {
	log.Printf("[Arena %s] Battle %s over after %d rounds: %s", a.ID, snap.ID, snap.Round, snap.Result)

	a.mood.Chemistry = snap.Player.Chemistry
	a.mood.Morale = snap.Player.Morale
	a.mood.CoachingEffectiveness = snap.Player.CoachingEffectiveness
	a.mood.TeamRespect = snap.Player.TeamRespect
	a.mood.CoachingPoints = snap.Player.CoachingPoints
	a.mood.ConsecutiveLosses = snap.Player.ConsecutiveLosses

	for _, f := range snap.Player.Fighters {
		c := a.stable[f.Character.ID]
		if c == nil {
			continue
		}
		c.Psych = f.Character.Psych
		c.TeamTrust = f.Character.TeamTrust
		c.CurrentStress = f.Psyche.Stress
		c.CurrentConfidence = f.Psyche.Confidence
		if f.Character.Relationships != nil {
			c.Relationships = f.Character.Relationships
		}
	}

	a.broadcastToAllLocked(codec.ServerBattleEnd, BattleEndView{
		BattleID:       snap.ID,
		Result:         snap.Result.String(),
		Rounds:         snap.Round,
		CoachingPoints: snap.Player.CoachingPoints,
		Player:         teamView(snap.Player),
		Opponent:       teamView(snap.Opponent),
	})

	a.dispatchBattleEndHooks(snap)

	a.battles.Remove(snap.ID)
	a.activeBattle = nil
	a.nextRoundAt = time.Time{}
	a.nextBattleAt = time.Now().Add(a.interBattleDelay())
}

func (a *Arena) dispatchBattleEndHooks(snap battle.State) {
	if len(a.battleEndHooks) == 0 {
		return
	}
	info := BattleEndInfo{
		ArenaID:  a.ID,
		BattleID: snap.ID,
		UserID:   a.owner,
		State:    snap,
	}
	hooks := append([]BattleEndHook(nil), a.battleEndHooks...)
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		go func(cb BattleEndHook) {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("[Arena %s] battle end hook panic: %v", a.ID, r)
				}
			}()
			cb(info)
		}(hook)
	}
}

// AddBattleEndHook registers a post-battle callback.
func (a *Arena) AddBattleEndHook(hook BattleEndHook) {
	if hook == nil {
		return
	}
	a.mu.Lock()
	a.battleEndHooks = append(a.battleEndHooks, hook)
	a.mu.Unlock()
}

// SubmitEvent queues an event and waits for the actor to process it.
func (a *Arena) SubmitEvent(e Event) error {
	e.Timestamp = time.Now()
	if e.Response == nil {
		e.Response = make(chan error, 1)
	}

	a.mu.RLock()
	closed := a.closed
	a.mu.RUnlock()
	if closed {
		return ErrArenaClosed
	}

	select {
	case a.events <- e:
	case <-a.done:
		return ErrArenaClosed
	}

	select {
	case err := <-e.Response:
		return err
	case <-a.done:
		return ErrArenaClosed
	}
}

// Stop shuts down the arena actor.
func (a *Arena) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopLocked()
}

func (a *Arena) stopLocked() {
	a.closed = true
	a.nextRoundAt = time.Time{}
	if a.activeBattle != nil {
		a.battles.Remove(a.activeBattle.ID())
		a.activeBattle = nil
	}
	a.stopOnce.Do(func() {
		close(a.done)
	})
}

// HasCoach reports whether the coach is present in this arena.
func (a *Arena) HasCoach(userID uint64) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.coaches[userID]
	return ok
}

// EmptySince reports when the arena last lost its final coach; zero while
// occupied.
func (a *Arena) EmptySince() time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.emptySince
}

func (a *Arena) sendSnapshotLocked(userID uint64) {
	view := ArenaSnapshotView{
		ArenaID:        a.ID,
		CoachingPoints: a.mood.CoachingPoints,
	}
	if a.activeBattle != nil {
		if snap, err := a.activeBattle.Snapshot(); err == nil {
			view.BattleID = snap.ID
			view.Phase = snap.Phase.String()
			view.Round = snap.Round
			view.Result = snap.Result.String()
			view.Player = teamView(snap.Player)
			view.Opponent = teamView(snap.Opponent)
			view.CoachingPoints = snap.Player.CoachingPoints
		}
	}
	a.sendToUserLocked(userID, codec.ServerArenaSnapshot, view)
}

func (a *Arena) nextSeq() uint64 {
	a.serverSeq++
	return a.serverSeq
}

func (a *Arena) envelope(msgType string, payload any) []byte {
	data, err := codec.Encode(&codec.ServerEnvelope{
		Type:       msgType,
		ArenaID:    a.ID,
		ServerSeq:  a.nextSeq(),
		ServerTsMs: time.Now().UnixMilli(),
		Payload:    payload,
	})
	if err != nil {
		log.Printf("[Arena %s] Failed to encode %s: %v", a.ID, msgType, err)
		return nil
	}
	return data
}

func (a *Arena) sendToUserLocked(userID uint64, msgType string, payload any) {
	data := a.envelope(msgType, payload)
	if data == nil || a.broadcast == nil {
		return
	}
	a.broadcast(userID, data)
}

func (a *Arena) broadcastToAllLocked(msgType string, payload any) {
	data := a.envelope(msgType, payload)
	if data == nil || a.broadcast == nil {
		return
	}
	for userID := range a.coaches {
		a.broadcast(userID, data)
	}
}

func (a *Arena) roundInterval() time.Duration {
	ms := a.cfg.RoundIntervalMs
	if ms <= 0 {
		ms = 2000
	}
	return time.Duration(ms) * time.Millisecond
}

func (a *Arena) interBattleDelay() time.Duration {
	sec := a.cfg.InterBattleDelay
	if sec <= 0 {
		sec = 8
	}
	return time.Duration(sec) * time.Second
}

func (a *Arena) maxRounds() int {
	if a.cfg.MaxRounds <= 0 {
		return 20
	}
	return a.cfg.MaxRounds
}

func (a *Arena) stabilityFactors(team *battle.Team, f *battle.Fighter) psyche.StabilityFactors {
	return psyche.ComputeStabilityFactors(psyche.StabilityInputs{
		TeamPerformance:     team.Chemistry,
		StrategySuccessRate: team.CoachingEffectiveness,
		HealthRatio:         f.Character.HealthRatio(),
	})
}

func situationFor(s *battle.State) judge.Situation {
	ph, oh := teamHealth(s.Player), teamHealth(s.Opponent)
	switch {
	case ph > oh*12/10:
		return judge.SituationWinning
	case oh > ph*12/10:
		return judge.SituationLosing
	default:
		return judge.SituationEven
	}
}

func teamHealth(t *battle.Team) int {
	total := 0
	for _, f := range t.Fighters {
		total += f.Character.CurrentHealth
	}
	return total
}

func firstAlive(t *battle.Team) *battle.Fighter {
	alive := t.AliveFighters()
	if len(alive) == 0 {
		return nil
	}
	return alive[0]
}

func aliveHated(f *battle.Fighter, team *battle.Team) []string {
	var out []string
	for _, id := range f.Character.HatedTeammates {
		if mate := team.Fighter(id); mate != nil && mate.Character.IsAlive() {
			out = append(out, id)
		}
	}
	return out
}

// teammateVictim picks who friendly fire lands on: a hated teammate first,
// otherwise the nearest living teammate.
func teammateVictim(team *battle.Team, f *battle.Fighter) *battle.Fighter {
	for _, id := range f.Character.HatedTeammates {
		if mate := team.Fighter(id); mate != nil && mate.Character.IsAlive() {
			return mate
		}
	}
	for _, mate := range team.AliveFighters() {
		if mate.Character.ID != f.Character.ID {
			return mate
		}
	}
	return nil
}

func dealDamage(f *battle.Fighter, dmg int) {
	f.Character.CurrentHealth -= dmg
	if f.Character.CurrentHealth < 0 {
		f.Character.CurrentHealth = 0
	}
}

func appendUnique(list []string, v string) []string {
	for _, s := range list {
		if s == v {
			return list
		}
	}
	return append(list, v)
}

func planComplexity(s battle.Strategy) int {
	switch s {
	case battle.StrategyAggressive:
		return 60
	case battle.StrategyDefensive:
		return 55
	default:
		return 50
	}
}
