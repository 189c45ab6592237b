package codec

import "testing"

func TestRoundTripClientEnvelope(t *testing.T) {
	raw := []byte(`{"type":"coachSession","arena_id":"a1","payload":{"character_id":"vex","focus":"mental_recovery"}}`)
	env, err := DecodeClient(raw)
	if err != nil {
		t.Fatalf("DecodeClient: %v", err)
	}
	if env.Type != ClientCoachSession || env.ArenaID != "a1" {
		t.Fatalf("envelope = %+v", env)
	}

	var req CoachSessionRequest
	if err := UnmarshalPayload(env, &req); err != nil {
		t.Fatalf("UnmarshalPayload: %v", err)
	}
	if req.CharacterID != "vex" || req.Focus != "mental_recovery" {
		t.Fatalf("payload = %+v", req)
	}
}

func TestDecodeRejectsMissingType(t *testing.T) {
	if _, err := DecodeClient([]byte(`{"arena_id":"a1"}`)); err == nil {
		t.Fatalf("expected error for missing type")
	}
	if _, err := DecodeClient([]byte(`not json`)); err == nil {
		t.Fatalf("expected error for invalid JSON")
	}
}

func TestUnmarshalPayloadRequiresBody(t *testing.T) {
	env := &ClientEnvelope{Type: ClientStartBattle}
	var req StartBattleRequest
	if err := UnmarshalPayload(env, &req); err == nil {
		t.Fatalf("expected error for empty payload")
	}
}

func TestEncodeServerEnvelope(t *testing.T) {
	env := &ServerEnvelope{
		Type:      ServerError,
		ArenaID:   "a1",
		ServerSeq: 7,
		Payload:   ErrorResponse{Code: 3, Message: "not in an arena"},
	}
	data, err := Encode(env)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	back, err := DecodeClient(data)
	if err != nil {
		t.Fatalf("re-decode: %v", err)
	}
	if back.Type != ServerError || back.ArenaID != "a1" {
		t.Fatalf("round trip lost fields: %+v", back)
	}
}
