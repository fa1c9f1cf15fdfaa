package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNewMessage_TimestampFormat(t *testing.T) {
	at := time.Date(2024, 3, 9, 17, 4, 5, 123456789, time.FixedZone("X", 3*3600))
	m := NewMessage(RoleUser, "hi", at)

	if m.Timestamp != "2024-03-09T14:04:05.123Z" {
		t.Fatalf("unexpected timestamp: %s", m.Timestamp)
	}
	if m.Role != RoleUser || m.Content != "hi" {
		t.Fatalf("unexpected message: %+v", m)
	}
}

func TestRole_Valid(t *testing.T) {
	for _, r := range []Role{RoleSystem, RoleUser, RoleAssistant} {
		if !r.Valid() {
			t.Fatalf("expected %q to be valid", r)
		}
	}
	if Role("tool").Valid() {
		t.Fatalf("expected unknown role to be invalid")
	}
}

func TestConflictErrors(t *testing.T) {
	if !errors.Is(ErrEmailTaken, ErrConflict) || !errors.Is(ErrUsernameTaken, ErrConflict) {
		t.Fatalf("taken errors must match ErrConflict")
	}
	if errors.Is(ErrEmailTaken, ErrUsernameTaken) {
		t.Fatalf("email and username conflicts must be distinguishable")
	}
}

func TestValidationf(t *testing.T) {
	err := Validationf("%s is required", "email")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if err.Error() != "email is required" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}
