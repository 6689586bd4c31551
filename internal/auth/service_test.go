package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bizsuite/internal/entity"

	"gorm.io/gorm"
)

// memStore is an in-memory UserStore used by the service tests.
type memStore struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*entity.DbUser
}

func newMemStore() *memStore {
	return &memStore{nextID: 1, users: make(map[uint]*entity.DbUser)}
}

func (s *memStore) CreateUser(_ context.Context, user *entity.DbUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = s.nextID
	s.nextID++
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *memStore) GetUserByEmail(_ context.Context, email string) (*entity.DbUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memStore) GetUserByID(_ context.Context, id uint) (*entity.DbUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *u
	return &clone, nil
}

func (s *memStore) GetUserByGoogleID(_ context.Context, googleID string) (*entity.DbUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.GoogleID != nil && *u.GoogleID == googleID {
			clone := *u
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memStore) LinkGoogleID(_ context.Context, id uint, googleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.GoogleID = &googleID
	return nil
}

func (s *memStore) SaveRefreshToken(_ context.Context, id uint, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.RefreshToken = token
	return nil
}

func (s *memStore) SetPasswordReset(_ context.Context, id uint, reset entity.PasswordReset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	token := reset.Token
	expires := reset.ExpiresAt
	u.PasswordResetToken = &token
	u.PasswordResetExpires = &expires
	return nil
}

func (s *memStore) ConsumePasswordReset(_ context.Context, id uint, token, newHash string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return false, nil
	}
	if u.PasswordResetToken == nil || *u.PasswordResetToken != token {
		return false, nil
	}
	u.PasswordHash = newHash
	u.PasswordResetToken = nil
	u.PasswordResetExpires = nil
	u.RefreshToken = ""
	return true, nil
}

func (s *memStore) MarkEmailVerified(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.EmailVerificationToken != nil && *u.EmailVerificationToken == token {
			u.EmailVerified = true
			u.EmailVerificationToken = nil
			return true, nil
		}
	}
	return false, nil
}

// recordingMailer captures outgoing mail instead of sending it.
type recordingMailer struct {
	mu            sync.Mutex
	resetLinks    []string
	verifications []string
}

func (m *recordingMailer) SendPasswordReset(_ context.Context, _ string, link string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLinks = append(m.resetLinks, link)
	return nil
}

func (m *recordingMailer) SendEmailVerification(_ context.Context, _ string, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verifications = append(m.verifications, token)
	return nil
}

func newTestService(t *testing.T) (*Service, *memStore, *recordingMailer) {
	t.Helper()
	store := newMemStore()
	manager, err := NewManager("test-secret", "bizsuite")
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	mailer := &recordingMailer{}
	svc, err := NewService(store, manager, mailer, "https://app.example.com/reset-password")
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, store, mailer
}

func seedUser(t *testing.T, svc *Service, store *memStore) *entity.DbUser {
	t.Helper()
	user, err := svc.Register(context.Background(), entity.AuthRegisterRequest{
		FullName: "Ada Wong",
		Email:    "Ada@Example.com",
		Password: "original-pass",
		Phone:    "+1 (555) 010-2030",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return user
}

func TestRegisterNormalizesEmailAndHashes(t *testing.T) {
	svc, store, mailer := newTestService(t)
	user := seedUser(t, svc, store)

	if user.Email != "ada@example.com" {
		t.Errorf("email not normalised: %q", user.Email)
	}
	if user.PasswordHash == "original-pass" || user.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}
	if user.EmailVerificationToken == nil {
		t.Error("expected a verification token on the new account")
	}
	if len(mailer.verifications) != 1 {
		t.Errorf("expected 1 verification email, got %d", len(mailer.verifications))
	}

	if _, err := svc.Register(context.Background(), entity.AuthRegisterRequest{
		FullName: "Other",
		Email:    "ADA@example.com",
		Password: "another-pass",
	}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginIssuesPairAndStoresRefresh(t *testing.T) {
	svc, store, _ := newTestService(t)
	user := seedUser(t, svc, store)

	resp, err := svc.Login(context.Background(), "ada@example.com", "original-pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected both tokens")
	}
	if resp.User.ID != user.ID {
		t.Errorf("summary id = %d, want %d", resp.User.ID, user.ID)
	}

	stored, err := store.GetUserByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if stored.RefreshToken != resp.RefreshToken {
		t.Error("refresh token must be persisted on the account")
	}
}

func TestLoginCollapsesFailureModes(t *testing.T) {
	svc, store, _ := newTestService(t)
	seedUser(t, svc, store)

	if _, err := svc.Login(context.Background(), "nobody@example.com", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "ada@example.com", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	svc, store, _ := newTestService(t)
	user := seedUser(t, svc, store)
	store.users[user.ID].Status = entity.UserStatusBanned

	if _, err := svc.Login(context.Background(), "ada@example.com", "original-pass"); !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("expected ErrAccountDisabled, got %v", err)
	}
}

func TestRefreshRotatesStoredToken(t *testing.T) {
	svc, store, _ := newTestService(t)
	user := seedUser(t, svc, store)

	first, err := svc.Login(context.Background(), "ada@example.com", "original-pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	second, err := svc.Refresh(context.Background(), first.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	stored, _ := store.GetUserByID(context.Background(), user.ID)
	if stored.RefreshToken != second.RefreshToken {
		t.Error("stored refresh token must be the newest one")
	}

	// The superseded token no longer matches the stored value.
	if _, err := svc.Refresh(context.Background(), first.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("stale refresh: expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, store, _ := newTestService(t)
	seedUser(t, svc, store)

	resp, err := svc.Login(context.Background(), "ada@example.com", "original-pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := svc.Refresh(context.Background(), resp.AccessToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken for access token, got %v", err)
	}
}

func TestRequestPasswordResetChecksPhone(t *testing.T) {
	svc, store, _ := newTestService(t)
	seedUser(t, svc, store)

	if _, err := svc.RequestPasswordReset(context.Background(), "ada@example.com", "555-999-0000"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("phone mismatch: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.RequestPasswordReset(context.Background(), "nobody@example.com", "15550102030"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRequestPasswordResetSingletonPending(t *testing.T) {
	svc, store, mailer := newTestService(t)
	user := seedUser(t, svc, store)

	token, err := svc.RequestPasswordReset(context.Background(), "ada@example.com", "1 555 010 2030")
	if err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}
	if token == "" {
		t.Fatal("expected a reset token")
	}
	if len(mailer.resetLinks) != 1 {
		t.Errorf("expected 1 reset email, got %d", len(mailer.resetLinks))
	}

	stored, _ := store.GetUserByID(context.Background(), user.ID)
	if stored.PasswordResetToken == nil || *stored.PasswordResetToken != token {
		t.Fatal("reset token must be stored on the account")
	}

	if _, err := svc.RequestPasswordReset(context.Background(), "ada@example.com", "15550102030"); !errors.Is(err, ErrResetPending) {
		t.Fatalf("expected ErrResetPending, got %v", err)
	}
}

func TestResetPasswordConsumesTokenOnce(t *testing.T) {
	svc, store, _ := newTestService(t)
	user := seedUser(t, svc, store)

	token, err := svc.RequestPasswordReset(context.Background(), "ada@example.com", "15550102030")
	if err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}

	if err := svc.ResetPassword(context.Background(), token, "brand-new-pass"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}

	if _, err := svc.Login(context.Background(), "ada@example.com", "original-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatal("old password must stop working")
	}
	if _, err := svc.Login(context.Background(), "ada@example.com", "brand-new-pass"); err != nil {
		t.Fatalf("new password should work: %v", err)
	}

	stored, _ := store.GetUserByID(context.Background(), user.ID)
	if stored.PasswordResetToken != nil || stored.PasswordResetExpires != nil {
		t.Error("reset fields must be cleared after consumption")
	}

	// Replay of the consumed token.
	if err := svc.ResetPassword(context.Background(), token, "yet-another-pass"); !errors.Is(err, ErrResetTokenMismatch) {
		t.Fatalf("replay: expected ErrResetTokenMismatch, got %v", err)
	}
}

func TestResetPasswordRejectsSupersededToken(t *testing.T) {
	svc, store, _ := newTestService(t)
	user := seedUser(t, svc, store)

	token, err := svc.RequestPasswordReset(context.Background(), "ada@example.com", "15550102030")
	if err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}

	// A newer token replaces the stored one out of band.
	other := "different-stored-token"
	store.users[user.ID].PasswordResetToken = &other

	if err := svc.ResetPassword(context.Background(), token, "brand-new-pass"); !errors.Is(err, ErrResetTokenMismatch) {
		t.Fatalf("expected ErrResetTokenMismatch, got %v", err)
	}
}

func TestResetPasswordRejectsWrongKind(t *testing.T) {
	svc, store, _ := newTestService(t)
	seedUser(t, svc, store)

	resp, err := svc.Login(context.Background(), "ada@example.com", "original-pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := svc.ResetPassword(context.Background(), resp.AccessToken, "brand-new-pass"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for access token, got %v", err)
	}
}

func TestGoogleLoginCreatesAccount(t *testing.T) {
	svc, store, _ := newTestService(t)

	resp, err := svc.GoogleLogin(context.Background(), &GoogleClaims{
		Subject:       "google-sub-1",
		Email:         "leon@example.com",
		FullName:      "Leon Kennedy",
		EmailVerified: true,
	})
	if err != nil {
		t.Fatalf("GoogleLogin: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected a token pair")
	}

	stored, err := store.GetUserByGoogleID(context.Background(), "google-sub-1")
	if err != nil {
		t.Fatalf("GetUserByGoogleID: %v", err)
	}
	if stored.Role != entity.UserRoleEmployee {
		t.Errorf("role = %q, want %q", stored.Role, entity.UserRoleEmployee)
	}
	if !stored.EmailVerified {
		t.Error("federated account must be email-verified")
	}
	if stored.PasswordHash != "" {
		t.Error("federated account must not carry a password hash")
	}

	// Password login remains unavailable for the federated account.
	if _, err := svc.Login(context.Background(), "leon@example.com", "anything"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestGoogleLoginLinksExistingEmail(t *testing.T) {
	svc, store, _ := newTestService(t)
	user := seedUser(t, svc, store)

	resp, err := svc.GoogleLogin(context.Background(), &GoogleClaims{
		Subject: "google-sub-2",
		Email:   "ada@example.com",
	})
	if err != nil {
		t.Fatalf("GoogleLogin: %v", err)
	}
	if resp.User.ID != user.ID {
		t.Errorf("linked to user %d, want %d", resp.User.ID, user.ID)
	}

	stored, _ := store.GetUserByID(context.Background(), user.ID)
	if stored.GoogleID == nil || *stored.GoogleID != "google-sub-2" {
		t.Error("google subject must be linked to the existing account")
	}

	// A second sign-in resolves by subject without re-linking.
	again, err := svc.GoogleLogin(context.Background(), &GoogleClaims{
		Subject: "google-sub-2",
		Email:   "ada@example.com",
	})
	if err != nil {
		t.Fatalf("repeat GoogleLogin: %v", err)
	}
	if again.User.ID != user.ID {
		t.Errorf("repeat sign-in resolved user %d, want %d", again.User.ID, user.ID)
	}
}

func TestGoogleLoginRejectsDisabledAccount(t *testing.T) {
	svc, store, _ := newTestService(t)
	user := seedUser(t, svc, store)
	googleID := "google-sub-3"
	store.users[user.ID].GoogleID = &googleID
	store.users[user.ID].Status = entity.UserStatusBanned

	if _, err := svc.GoogleLogin(context.Background(), &GoogleClaims{
		Subject: googleID,
		Email:   "ada@example.com",
	}); !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("expected ErrAccountDisabled, got %v", err)
	}
}

func TestGoogleLoginRejectsEmptyClaims(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.GoogleLogin(context.Background(), nil); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("nil claims: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.GoogleLogin(context.Background(), &GoogleClaims{Subject: "s"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("missing email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestVerifyEmail(t *testing.T) {
	svc, store, mailer := newTestService(t)
	user := seedUser(t, svc, store)

	if len(mailer.verifications) != 1 {
		t.Fatalf("expected a verification token, got %d", len(mailer.verifications))
	}
	token := mailer.verifications[0]

	if err := svc.VerifyEmail(context.Background(), token); err != nil {
		t.Fatalf("VerifyEmail: %v", err)
	}
	stored, _ := store.GetUserByID(context.Background(), user.ID)
	if !stored.EmailVerified {
		t.Error("account must be marked verified")
	}

	if err := svc.VerifyEmail(context.Background(), token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("reused token: expected ErrTokenInvalid, got %v", err)
	}
	if err := svc.VerifyEmail(context.Background(), "no-such-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("unknown token: expected ErrTokenInvalid, got %v", err)
	}
}
