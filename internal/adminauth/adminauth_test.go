package adminauth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestValidateTokenRoundtrip(t *testing.T) {
	s := NewService(nil, "test-secret", time.Hour)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"actor_id": float64(7),
		"email":    "ops@example.com",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	actorID, err := s.ValidateToken(signed)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if actorID != 7 {
		t.Errorf("got actor id %d, want 7", actorID)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	s := NewService(nil, "test-secret", time.Hour)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"actor_id": float64(1),
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("different-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := s.ValidateToken(signed); err == nil {
		t.Error("expected validation to fail for a token signed with a different secret")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	s := NewService(nil, "test-secret", time.Hour)
	if _, err := s.ValidateToken("not-a-jwt"); err == nil {
		t.Error("expected an error for a malformed token")
	}
}

func TestActorIDContext(t *testing.T) {
	ctx := WithActorID(context.Background(), 42)
	actorID, ok := ActorIDFromContext(ctx)
	if !ok || actorID != 42 {
		t.Errorf("got (%d, %v), want (42, true)", actorID, ok)
	}

	_, ok = ActorIDFromContext(context.Background())
	if ok {
		t.Error("expected no actor id on a bare context")
	}
}
