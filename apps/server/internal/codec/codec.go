// Package codec defines the JSON wire envelopes exchanged over the
// websocket gateway. Every frame is a type-tagged envelope; payload
// structs are decoded lazily by the handler that owns the type.
package codec

import (
	"encoding/json"
	"fmt"
)

// Client message types.
const (
	ClientAuth         = "auth"
	ClientQuickStart   = "quickStart"
	ClientStartBattle  = "startBattle"
	ClientCallTimeout  = "callTimeout"
	ClientCoachSession = "coachSession"
	ClientLeaveArena   = "leaveArena"
)

// Server message types.
const (
	ServerAuthResult     = "authResult"
	ServerArenaSnapshot  = "arenaSnapshot"
	ServerBattleStart    = "battleStart"
	ServerRoundUpdate    = "roundUpdate"
	ServerJudgeRuling    = "judgeRuling"
	ServerCoachingResult = "coachingResult"
	ServerTimeoutResult  = "timeoutResult"
	ServerBattleEnd      = "battleEnd"
	ServerError          = "error"
)

// ClientEnvelope is one inbound frame.
type ClientEnvelope struct {
	Type    string          `json:"type"`
	ArenaID string          `json:"arena_id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerEnvelope is one outbound frame. ServerSeq orders frames within an
// arena; clients replay them in sequence.
type ServerEnvelope struct {
	Type       string `json:"type"`
	ArenaID    string `json:"arena_id,omitempty"`
	ServerSeq  uint64 `json:"server_seq"`
	ServerTsMs int64  `json:"server_ts_ms"`
	Payload    any    `json:"payload,omitempty"`
}

// AuthRequest authenticates the connection with a session token. Must be
// the first frame a client sends.
type AuthRequest struct {
	SessionToken string `json:"session_token"`
}

type AuthResult struct {
	UserID   uint64 `json:"user_id"`
	Username string `json:"username"`
}

// StartBattleRequest picks the coach's lineup and an opponent tier.
type StartBattleRequest struct {
	FighterIDs   []string `json:"fighter_ids"`
	OpponentTier int      `json:"opponent_tier"`
}

// CallTimeoutRequest spends the coach's timeout with an ordered action plan.
type CallTimeoutRequest struct {
	Actions []TimeoutActionRequest `json:"actions"`
}

type TimeoutActionRequest struct {
	Kind     string `json:"kind"` // individual_coaching | team_rally | conflict_mediation | strategy_pivot
	TargetID string `json:"target_id,omitempty"`
	Message  string `json:"message,omitempty"`
}

// CoachSessionRequest runs a between-battle coaching session.
type CoachSessionRequest struct {
	CharacterID string `json:"character_id"`
	Focus       string `json:"focus"` // mental_recovery | team_bonding | strategy_drilling | confidence_building | general
}

type ErrorResponse struct {
	Code    int32  `json:"code"`
	Message string `json:"message"`
}

// Encode marshals a server envelope to a wire frame.
func Encode(env *ServerEnvelope) ([]byte, error) {
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode %s envelope: %w", env.Type, err)
	}
	return data, nil
}

// DecodeClient parses one inbound frame. The payload stays raw until the
// handler decodes it with UnmarshalPayload.
func DecodeClient(data []byte) (*ClientEnvelope, error) {
	var env ClientEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode client envelope: %w", err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("client envelope missing type")
	}
	return &env, nil
}

// UnmarshalPayload decodes the envelope payload into dst.
func UnmarshalPayload(env *ClientEnvelope, dst any) error {
	if len(env.Payload) == 0 {
		return fmt.Errorf("%s payload is required", env.Type)
	}
	if err := json.Unmarshal(env.Payload, dst); err != nil {
		return fmt.Errorf("decode %s payload: %w", env.Type, err)
	}
	return nil
}
