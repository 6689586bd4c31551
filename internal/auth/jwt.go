package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"bizsuite/internal/entity"

	"github.com/golang-jwt/jwt/v5"
)

// Token kinds carried in the "kind" claim.
const (
	KindAccess  = "access"
	KindRefresh = "refresh"
	KindReset   = "reset"
)

const (
	accessTokenTTL  = time.Hour * 24
	refreshTokenTTL = time.Hour * 24 * 7
	resetTokenTTL   = time.Hour
)

var (
	// ErrTokenExpired 表示令牌已过期
	ErrTokenExpired = errors.New("token has expired")
	// ErrTokenInvalid 表示令牌签名无效或格式错误
	ErrTokenInvalid = errors.New("token is invalid")
)

// Claims represents JWT claims for authenticated requests.
type Claims struct {
	UserID uint   `json:"uid"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
	Kind   string `json:"kind"`
	jwt.RegisteredClaims
}

// Manager encapsulates JWT generation and validation. The signing secret is
// process-global state; Rotate swaps it at runtime, which invalidates every
// token issued under the previous secret.
type Manager struct {
	mu     sync.RWMutex
	secret []byte
	issuer string
}

// NewManager creates a new JWT manager.
func NewManager(secret, issuer string) (*Manager, error) {
	trimmed := strings.TrimSpace(secret)
	if trimmed == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	if strings.TrimSpace(issuer) == "" {
		issuer = "bizsuite"
	}
	return &Manager{
		secret: []byte(trimmed),
		issuer: issuer,
	}, nil
}

// GenerateAccessToken issues a signed access JWT for the provided user.
func (m *Manager) GenerateAccessToken(user *entity.DbUser) (string, time.Time, error) {
	if user == nil || user.ID == 0 {
		return "", time.Time{}, errors.New("invalid user for token generation")
	}
	return m.sign(Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		Kind:   KindAccess,
	}, user.ID, accessTokenTTL)
}

// GenerateRefreshToken issues a signed refresh JWT carrying only the subject.
func (m *Manager) GenerateRefreshToken(user *entity.DbUser) (string, time.Time, error) {
	if user == nil || user.ID == 0 {
		return "", time.Time{}, errors.New("invalid user for token generation")
	}
	return m.sign(Claims{
		UserID: user.ID,
		Kind:   KindRefresh,
	}, user.ID, refreshTokenTTL)
}

// GenerateResetToken issues the short-lived token used by the password reset
// flow. The token embeds the subject so consumption can locate the account.
func (m *Manager) GenerateResetToken(user *entity.DbUser) (string, time.Time, error) {
	if user == nil || user.ID == 0 {
		return "", time.Time{}, errors.New("invalid user for token generation")
	}
	return m.sign(Claims{
		UserID: user.ID,
		Kind:   KindReset,
	}, user.ID, resetTokenTTL)
}

func (m *Manager) sign(claims Claims, userID uint, ttl time.Duration) (string, time.Time, error) {
	now := time.Now().UTC()
	expiry := now.Add(ttl)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", userID),
		Issuer:    m.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiry),
		NotBefore: jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	m.mu.RLock()
	secret := m.secret
	m.mu.RUnlock()

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiry, nil
}

// ParseToken validates the token against the active secret and returns claims.
// Tokens signed before a secret rotation fail with ErrTokenInvalid.
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	if m == nil {
		return nil, errors.New("jwt manager is nil")
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		m.mu.RLock()
		defer m.mu.RUnlock()
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// RotateSecret replaces the active signing secret with a fresh high-entropy
// value and returns it. All previously issued tokens stop verifying.
func (m *Manager) RotateSecret() (string, error) {
	secret, err := NewSecret()
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	m.secret = []byte(secret)
	m.mu.Unlock()
	return secret, nil
}

// NewSecret generates a 64-byte hex-encoded signing secret.
func NewSecret() (string, error) {
	b := make([]byte, 64)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
