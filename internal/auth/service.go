package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bizsuite/internal/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	// ErrInvalidCredentials covers unknown email, wrong password, and a failed
	// secondary factor. Callers must not expose which case occurred.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountDisabled 表示账户状态不是 active
	ErrAccountDisabled = errors.New("account is not active")
	// ErrInvalidRefreshToken 表示刷新令牌无效、过期或已被轮换
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	// ErrUserNotFound 表示令牌中的用户已不存在
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken 表示注册邮箱已被占用
	ErrEmailTaken = errors.New("email already registered")
	// ErrResetPending 表示已有未过期的重置令牌
	ErrResetPending = errors.New("a password reset is already pending")
	// ErrResetTokenMismatch 表示提交的重置令牌与存储的不一致（重放或已被取代）
	ErrResetTokenMismatch = errors.New("reset token does not match")
)

// UserStore is the slice of the repository the auth service depends on.
type UserStore interface {
	CreateUser(ctx context.Context, user *entity.DbUser) error
	GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error)
	GetUserByID(ctx context.Context, id uint) (*entity.DbUser, error)
	GetUserByGoogleID(ctx context.Context, googleID string) (*entity.DbUser, error)
	LinkGoogleID(ctx context.Context, id uint, googleID string) error
	SaveRefreshToken(ctx context.Context, id uint, token string) error
	SetPasswordReset(ctx context.Context, id uint, reset entity.PasswordReset) error
	// ConsumePasswordReset swaps the password hash and clears both reset fields
	// in a single conditional write keyed on the stored token; it reports
	// whether the row was actually updated.
	ConsumePasswordReset(ctx context.Context, id uint, token, newHash string) (bool, error)
	MarkEmailVerified(ctx context.Context, token string) (bool, error)
}

// Mailer delivers the templated account emails.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, link string, expiresAt time.Time) error
	SendEmailVerification(ctx context.Context, to, token string) error
}

// Service exposes the authentication operations consumed by route handlers:
// registration, login, token refresh, and the password reset flow.
type Service struct {
	store     UserStore
	tokens    *Manager
	mailer    Mailer
	resetBase string
}

// NewService assembles the auth service.
func NewService(store UserStore, tokens *Manager, mailer Mailer, resetLinkBase string) (*Service, error) {
	if store == nil {
		return nil, errors.New("auth: user store is required")
	}
	if tokens == nil {
		return nil, errors.New("auth: token manager is required")
	}
	return &Service{
		store:     store,
		tokens:    tokens,
		mailer:    mailer,
		resetBase: strings.TrimRight(strings.TrimSpace(resetLinkBase), "/"),
	}, nil
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a local account with a hashed password and emits an email
// verification token.
func (s *Service) Register(ctx context.Context, req entity.AuthRegisterRequest) (*entity.DbUser, error) {
	email := NormalizeEmail(req.Email)
	password := strings.TrimSpace(req.Password)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	verification := uuid.NewString()
	user := &entity.DbUser{
		FullName:               strings.TrimSpace(req.FullName),
		Email:                  email,
		PasswordHash:           hash,
		Phone:                  strings.TrimSpace(req.Phone),
		Role:                   entity.UserRoleUser,
		Status:                 entity.UserStatusActive,
		EmailVerificationToken: &verification,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	if s.mailer != nil {
		if err := s.mailer.SendEmailVerification(ctx, user.Email, verification); err != nil {
			logrus.WithError(err).WithField("user_id", user.ID).Warn("failed to send verification email")
		}
	}

	return user, nil
}

// Login authenticates by email and password and issues a token pair. The
// refresh token is persisted on the user row, replacing (and thereby
// revoking) any previously stored one.
func (s *Service) Login(ctx context.Context, email, password string) (*entity.AuthResponse, error) {
	email = NormalizeEmail(email)
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithField("email", email).Warn("login attempt for unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive() {
		return nil, ErrAccountDisabled
	}
	if user.PasswordHash == "" {
		// Federated account without a local credential.
		logrus.WithField("user_id", user.ID).Warn("password login attempt for federated account")
		return nil, ErrInvalidCredentials
	}

	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, ErrPasswordMismatch) {
			logrus.WithField("user_id", user.ID).Warn("password verification failed")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	return s.issuePair(ctx, user)
}

// GoogleLogin signs in with a verified Google identity. Matching happens by
// the Google subject first, then by email (linking the subject to an existing
// local account). Unknown identities get a fresh account without a password
// credential, created with the employee role and a verified email.
func (s *Service) GoogleLogin(ctx context.Context, claims *GoogleClaims) (*entity.AuthResponse, error) {
	if claims == nil || claims.Subject == "" || claims.Email == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.store.GetUserByGoogleID(ctx, claims.Subject)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user, err = s.findOrCreateFederated(ctx, claims)
		if err != nil {
			return nil, err
		}
	}

	if !user.IsActive() {
		return nil, ErrAccountDisabled
	}
	return s.issuePair(ctx, user)
}

func (s *Service) findOrCreateFederated(ctx context.Context, claims *GoogleClaims) (*entity.DbUser, error) {
	user, err := s.store.GetUserByEmail(ctx, claims.Email)
	if err == nil {
		if err := s.store.LinkGoogleID(ctx, user.ID, claims.Subject); err != nil {
			return nil, err
		}
		googleID := claims.Subject
		user.GoogleID = &googleID
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	googleID := claims.Subject
	user = &entity.DbUser{
		FullName:      claims.FullName,
		Email:         claims.Email,
		GoogleID:      &googleID,
		Role:          entity.UserRoleEmployee,
		Status:        entity.UserStatusActive,
		EmailVerified: true,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	logrus.WithField("user_id", user.ID).Info("created account from google sign-in")
	return user, nil
}

// Refresh exchanges a valid refresh token for a new pair, rotating the stored
// token so the presented one stops working.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*entity.AuthResponse, error) {
	claims, err := s.tokens.ParseToken(strings.TrimSpace(refreshToken))
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	if claims.Kind != KindRefresh {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.store.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	if !user.IsActive() {
		return nil, ErrAccountDisabled
	}
	if user.RefreshToken == "" || user.RefreshToken != strings.TrimSpace(refreshToken) {
		// Rotated or never issued; the presented token is stale.
		return nil, ErrInvalidRefreshToken
	}

	return s.issuePair(ctx, user)
}

func (s *Service) issuePair(ctx context.Context, user *entity.DbUser) (*entity.AuthResponse, error) {
	access, expiresAt, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refresh, _, err := s.tokens.GenerateRefreshToken(user)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveRefreshToken(ctx, user.ID, refresh); err != nil {
		return nil, err
	}
	return &entity.AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
		User:         MakeUserSummary(user),
	}, nil
}

// RequestPasswordReset issues a single-use reset token after checking the
// phone number on file as a secondary factor. Only one reset may be pending
// per account at a time.
func (s *Service) RequestPasswordReset(ctx context.Context, email, phone string) (string, error) {
	email = NormalizeEmail(email)
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithField("email", email).Warn("password reset requested for unknown email")
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if normalizePhone(user.Phone) == "" || normalizePhone(user.Phone) != normalizePhone(phone) {
		logrus.WithField("user_id", user.ID).Warn("password reset secondary factor mismatch")
		return "", ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if user.HasPendingReset(now) {
		return "", ErrResetPending
	}

	token, expiresAt, err := s.tokens.GenerateResetToken(user)
	if err != nil {
		return "", err
	}
	if err := s.store.SetPasswordReset(ctx, user.ID, entity.PasswordReset{Token: token, ExpiresAt: expiresAt}); err != nil {
		return "", err
	}

	if s.mailer != nil {
		link := fmt.Sprintf("%s?token=%s", s.resetBase, token)
		if err := s.mailer.SendPasswordReset(ctx, user.Email, link, expiresAt); err != nil {
			logrus.WithError(err).WithField("user_id", user.ID).Warn("failed to send password reset email")
		}
	}

	return token, nil
}

// ResetPassword consumes a reset token exactly once and installs the new
// password. The swap is a conditional write keyed on the stored token, so a
// concurrent consumer loses the race cleanly.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	token = strings.TrimSpace(token)
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return err
	}
	if claims.Kind != KindReset {
		return ErrTokenInvalid
	}

	user, err := s.store.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if user.PasswordResetToken == nil || user.PasswordResetExpires == nil {
		return ErrResetTokenMismatch
	}
	if *user.PasswordResetToken != token {
		return ErrResetTokenMismatch
	}
	if !user.PasswordResetExpires.After(time.Now().UTC()) {
		return ErrTokenExpired
	}

	hash, err := HashPassword(strings.TrimSpace(newPassword))
	if err != nil {
		return err
	}

	ok, err := s.store.ConsumePasswordReset(ctx, user.ID, token, hash)
	if err != nil {
		return err
	}
	if !ok {
		return ErrResetTokenMismatch
	}
	return nil
}

// VerifyEmail flips the verified flag for the account holding the token.
func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrTokenInvalid
	}
	ok, err := s.store.MarkEmailVerified(ctx, token)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTokenInvalid
	}
	return nil
}

// MakeUserSummary strips credential fields from a user record.
func MakeUserSummary(user *entity.DbUser) entity.UserSummary {
	if user == nil {
		return entity.UserSummary{}
	}
	return entity.UserSummary{
		ID:            user.ID,
		FullName:      user.FullName,
		Email:         user.Email,
		Phone:         user.Phone,
		Role:          user.Role,
		Status:        user.Status,
		Position:      user.Position,
		AvatarPath:    user.AvatarPath,
		EmailVerified: user.EmailVerified,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}
}

func normalizePhone(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
