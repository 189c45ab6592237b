package auth

import (
	"errors"
	"testing"
)

func TestRegisterAndLogin(t *testing.T) {
	m := NewManager()

	accountID, token, err := m.Register("coach_alice", "secret12")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if accountID == 0 {
		t.Fatalf("expected account id")
	}
	if token == "" {
		t.Fatalf("expected non-empty token")
	}

	resolvedID, username, ok := m.ResolveSession(token)
	if !ok {
		t.Fatalf("expected valid session")
	}
	if resolvedID != accountID {
		t.Fatalf("expected same account id, got %d and %d", accountID, resolvedID)
	}
	if username != "coach_alice" {
		t.Fatalf("expected username coach_alice, got %s", username)
	}

	loginID, loginToken, err := m.Login("coach_alice", "secret12")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if loginID != accountID {
		t.Fatalf("expected same account id after login")
	}
	if loginToken == "" {
		t.Fatalf("expected login token")
	}
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	m := NewManager()
	if _, _, err := m.Register("coach_alice", "secret12"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, _, err := m.Register("Coach_Alice", "secret12"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	m := NewManager()
	if _, _, err := m.Register("coach_alice", "secret12"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, _, err := m.Login("coach_alice", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	m := NewManager()
	_, token, err := m.Register("coach_alice", "secret12")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	m.Logout(token)
	if _, _, ok := m.ResolveSession(token); ok {
		t.Fatalf("expected logged out token to be invalid")
	}
}
