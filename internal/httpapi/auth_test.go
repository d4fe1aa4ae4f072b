package httpapi

import (
	"testing"
	"time"

	"gokandara/backend/internal/domain"
)

func TestParseTokenRequiresMatchingSecret(t *testing.T) {
	signer := NewAuthManager("0123456789abcdef0123456789abcdef", time.Hour, nil)
	other := NewAuthManager("fedcba9876543210fedcba9876543210", time.Hour, nil)

	token, err := signer.sign("admin", domain.RoleAdmin, time.Now().UTC().Add(time.Hour))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	actor, err := signer.ParseToken(token)
	if err != nil {
		t.Fatalf("parse with signing secret: %v", err)
	}
	if actor.Username != "admin" || actor.RoleID != domain.RoleAdmin {
		t.Fatalf("wrong actor: %+v", actor)
	}

	if _, err := other.ParseToken(token); err == nil {
		t.Fatal("token signed under a different secret must be rejected")
	}
}
