package auth

import (
	"errors"
	"testing"
	"time"

	"bizsuite/internal/entity"

	"github.com/golang-jwt/jwt/v5"
)

func testUser() *entity.DbUser {
	return &entity.DbUser{
		ID:     42,
		Email:  "owner@example.com",
		Role:   entity.UserRoleAdmin,
		Status: entity.UserStatusActive,
	}
}

func TestNewManagerRequiresSecret(t *testing.T) {
	if _, err := NewManager("", "bizsuite"); err == nil {
		t.Fatal("expected error for empty secret")
	}
	if _, err := NewManager("   ", "bizsuite"); err == nil {
		t.Fatal("expected error for blank secret")
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m, err := NewManager("test-secret", "bizsuite")
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	token, expiresAt, err := m.GenerateAccessToken(testUser())
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if until := time.Until(expiresAt); until < 23*time.Hour || until > 25*time.Hour {
		t.Fatalf("unexpected access token lifetime: %v", until)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "owner@example.com" {
		t.Errorf("Email = %q", claims.Email)
	}
	if claims.Role != entity.UserRoleAdmin {
		t.Errorf("Role = %q", claims.Role)
	}
	if claims.Kind != KindAccess {
		t.Errorf("Kind = %q, want %q", claims.Kind, KindAccess)
	}
}

func TestTokenKinds(t *testing.T) {
	m, err := NewManager("test-secret", "bizsuite")
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	user := testUser()

	refresh, _, err := m.GenerateRefreshToken(user)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	reset, _, err := m.GenerateResetToken(user)
	if err != nil {
		t.Fatalf("GenerateResetToken: %v", err)
	}

	rc, err := m.ParseToken(refresh)
	if err != nil {
		t.Fatalf("ParseToken(refresh): %v", err)
	}
	if rc.Kind != KindRefresh {
		t.Errorf("refresh kind = %q", rc.Kind)
	}

	sc, err := m.ParseToken(reset)
	if err != nil {
		t.Fatalf("ParseToken(reset): %v", err)
	}
	if sc.Kind != KindReset {
		t.Errorf("reset kind = %q", sc.Kind)
	}
	if sc.UserID != user.ID {
		t.Errorf("reset token must embed the subject, got uid %d", sc.UserID)
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	m, err := NewManager("test-secret", "bizsuite")
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if _, err := m.ParseToken("not.a.jwt"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	a, _ := NewManager("secret-a", "bizsuite")
	b, _ := NewManager("secret-b", "bizsuite")

	token, _, err := a.GenerateAccessToken(testUser())
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if _, err := b.ParseToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	m, _ := NewManager("test-secret", "bizsuite")

	now := time.Now().UTC().Add(-2 * time.Hour)
	claims := Claims{
		UserID: 42,
		Kind:   KindAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			Issuer:    "bizsuite",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := m.ParseToken(signed); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestParseTokenRejectsUnsignedAlg(t *testing.T) {
	m, _ := NewManager("test-secret", "bizsuite")

	claims := Claims{UserID: 42, Kind: KindAccess}
	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := m.ParseToken(signed); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for alg=none, got %v", err)
	}
}

func TestRotateSecretInvalidatesOldTokens(t *testing.T) {
	m, _ := NewManager("test-secret", "bizsuite")
	user := testUser()

	old, _, err := m.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if _, err := m.ParseToken(old); err != nil {
		t.Fatalf("token should verify before rotation: %v", err)
	}

	secret, err := m.RotateSecret()
	if err != nil {
		t.Fatalf("RotateSecret: %v", err)
	}
	if len(secret) != 128 {
		t.Errorf("rotated secret length = %d, want 128 hex chars", len(secret))
	}

	if _, err := m.ParseToken(old); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("token signed before rotation must fail, got %v", err)
	}

	fresh, _, err := m.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken after rotation: %v", err)
	}
	if _, err := m.ParseToken(fresh); err != nil {
		t.Fatalf("token signed after rotation should verify: %v", err)
	}
}

func TestNewSecret(t *testing.T) {
	first, err := NewSecret()
	if err != nil {
		t.Fatalf("NewSecret: %v", err)
	}
	second, err := NewSecret()
	if err != nil {
		t.Fatalf("NewSecret: %v", err)
	}
	if len(first) != 128 {
		t.Errorf("secret length = %d, want 128", len(first))
	}
	if first == second {
		t.Error("two generated secrets must differ")
	}
}
