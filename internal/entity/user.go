package entity

import "time"

const (
	UserRoleAdmin    = "admin"
	UserRoleEmployee = "employee"
	UserRoleUser     = "user"
)

const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
	UserStatusBanned   = "banned"
)

// DbUser represents a persisted account. Password login requires PasswordHash;
// accounts created through Google sign-in may carry only GoogleID.
type DbUser struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	FullName     string    `gorm:"column:full_name;type:varchar(255);not null" json:"full_name"`
	Email        string    `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(255)" json:"-"`
	Phone        string    `gorm:"column:phone;type:varchar(20)" json:"phone"`
	Role         string    `gorm:"column:role;type:varchar(50);index;not null;default:user" json:"role"`
	Status       string    `gorm:"column:status;type:varchar(20);not null;default:active" json:"status"`
	Position     string    `gorm:"column:position;type:varchar(100)" json:"position"`
	AvatarPath   string    `gorm:"column:avatar_path;type:varchar(512)" json:"avatar_path"`
	GoogleID     *string   `gorm:"column:google_id;type:varchar(255);uniqueIndex" json:"-"`

	RefreshToken           string     `gorm:"column:refresh_token;type:varchar(512)" json:"-"`
	PasswordResetToken     *string    `gorm:"column:password_reset_token;type:varchar(512)" json:"-"`
	PasswordResetExpires   *time.Time `gorm:"column:password_reset_expires" json:"-"`
	EmailVerificationToken *string    `gorm:"column:email_verification_token;type:varchar(255)" json:"-"`
	EmailVerified          bool       `gorm:"column:email_verified;not null;default:false" json:"email_verified"`
}

// TableName overrides default pluralised name.
func (DbUser) TableName() string {
	return "users"
}

// IsActive reports whether the account may authenticate.
func (u *DbUser) IsActive() bool {
	return u != nil && u.Status == UserStatusActive
}

// HasPendingReset reports whether an unexpired reset token is stored.
func (u *DbUser) HasPendingReset(now time.Time) bool {
	if u == nil || u.PasswordResetToken == nil || u.PasswordResetExpires == nil {
		return false
	}
	return u.PasswordResetExpires.After(now)
}

// UserSummary is a lightweight account description returned to clients.
type UserSummary struct {
	ID            uint      `json:"id"`
	FullName      string    `json:"full_name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone,omitempty"`
	Role          string    `json:"role"`
	Status        string    `json:"status"`
	Position      string    `json:"position,omitempty"`
	AvatarPath    string    `json:"avatar_path,omitempty"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// UserQuery supports listing accounts with pagination.
type UserQuery struct {
	BaseParams
	Role    string `json:"role" form:"role" query:"role"`
	Status  string `json:"status" form:"status" query:"status"`
	Keyword string `json:"keyword" form:"keyword" query:"keyword"`
}

type AuthRegisterRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone"`
}

type AuthLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthRefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type AuthGoogleLoginRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

type AuthForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"required"`
}

type AuthResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// AuthResponse carries the token pair issued on login or refresh.
type AuthResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresAt    time.Time   `json:"expires_at"`
	User         UserSummary `json:"user"`
}

type TokenPairResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type UserCreateRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone"`
	Role     string `json:"role" binding:"required"`
	Position string `json:"position"`
	Status   string `json:"status"`
}

type UserUpdateRequest struct {
	FullName   *string `json:"full_name,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Role       *string `json:"role,omitempty"`
	Position   *string `json:"position,omitempty"`
	Status     *string `json:"status,omitempty"`
	Password   *string `json:"password,omitempty"`
	AvatarPath *string `json:"avatar_path,omitempty"`
}

type UserListResponse struct {
	Users []UserSummary `json:"users"`
	Meta  *Meta         `json:"meta"`
}
