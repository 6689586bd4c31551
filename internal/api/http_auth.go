package api

import (
	"bizsuite/internal/auth"
	"bizsuite/internal/entity"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func (h *HTTPHandler) Register(c *gin.Context) {
	if h.authService == nil {
		ServiceUnavailable(c, "user repository not available")
		return
	}

	var req entity.AuthRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := h.authService.Register(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailTaken):
			BadRequest(c, ErrCodeEmailExists, "email already registered")
		case errors.Is(err, auth.ErrInvalidCredentials):
			BadRequest(c, ErrCodeInvalidRequest, "email and password are required")
		default:
			logrus.WithError(err).Error("failed to register user")
			InternalError(c, "failed to register user")
		}
		return
	}

	c.JSON(http.StatusCreated, auth.MakeUserSummary(user))
}

func (h *HTTPHandler) Login(c *gin.Context) {
	if h.authService == nil {
		ServiceUnavailable(c, "user repository not available")
		return
	}

	var req entity.AuthLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	resp, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			ErrorResponse(c, http.StatusUnauthorized, ErrCodeInvalidCredentials, "invalid email or password")
		case errors.Is(err, auth.ErrAccountDisabled):
			ErrorResponse(c, http.StatusForbidden, ErrCodeUserDisabled, "user is disabled")
		default:
			logrus.WithError(err).Error("login failed")
			InternalError(c, "failed to create session")
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GoogleLogin 使用谷歌 ID Token 登录。首次登录自动建档，已有账户按邮箱关联。
func (h *HTTPHandler) GoogleLogin(c *gin.Context) {
	if h.authService == nil {
		ServiceUnavailable(c, "user repository not available")
		return
	}
	if !h.googleVerifier.Enabled() {
		ServiceUnavailable(c, "google login is not configured")
		return
	}

	var req entity.AuthGoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	claims, err := h.googleVerifier.Verify(ctx, req.IDToken)
	if err != nil {
		if errors.Is(err, auth.ErrTokenInvalid) {
			ErrorResponse(c, http.StatusUnauthorized, ErrCodeInvalidCredentials, "google token is invalid")
			return
		}
		logrus.WithError(err).Error("google token verification failed")
		InternalError(c, "failed to verify google token")
		return
	}

	resp, err := h.authService.GoogleLogin(ctx, claims)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			ErrorResponse(c, http.StatusUnauthorized, ErrCodeInvalidCredentials, "google sign-in failed")
		case errors.Is(err, auth.ErrAccountDisabled):
			ErrorResponse(c, http.StatusForbidden, ErrCodeUserDisabled, "user is disabled")
		default:
			logrus.WithError(err).Error("google login failed")
			InternalError(c, "failed to create session")
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *HTTPHandler) Refresh(c *gin.Context) {
	if h.authService == nil {
		ServiceUnavailable(c, "user repository not available")
		return
	}

	var req entity.AuthRefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	resp, err := h.authService.Refresh(ctx, req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidRefreshToken):
			ErrorResponse(c, http.StatusUnauthorized, ErrCodeInvalidRefreshToken, "invalid refresh token")
		case errors.Is(err, auth.ErrAccountDisabled):
			ErrorResponse(c, http.StatusForbidden, ErrCodeUserDisabled, "user is disabled")
		default:
			logrus.WithError(err).Error("token refresh failed")
			InternalError(c, "failed to refresh session")
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ForgotPassword 请求重置密码。邮箱与手机号都匹配时才发放重置令牌；
// 为避免账户枚举，未知邮箱与手机号不匹配返回相同的响应。
func (h *HTTPHandler) ForgotPassword(c *gin.Context) {
	if h.authService == nil {
		ServiceUnavailable(c, "user repository not available")
		return
	}

	var req entity.AuthForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	_, err := h.authService.RequestPasswordReset(ctx, req.Email, req.Phone)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			ErrorResponse(c, http.StatusUnauthorized, ErrCodeInvalidCredentials, "account verification failed")
		case errors.Is(err, auth.ErrResetPending):
			ErrorResponse(c, http.StatusConflict, ErrCodeResetPending, "a password reset is already pending")
		default:
			logrus.WithError(err).Error("password reset request failed")
			InternalError(c, "failed to process reset request")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password reset email sent"})
}

func (h *HTTPHandler) ResetPassword(c *gin.Context) {
	if h.authService == nil {
		ServiceUnavailable(c, "user repository not available")
		return
	}

	var req entity.AuthResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	err := h.authService.ResetPassword(ctx, req.Token, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrTokenExpired):
			ErrorResponse(c, http.StatusUnauthorized, ErrCodeSessionExpired, "reset token has expired")
		case errors.Is(err, auth.ErrTokenInvalid),
			errors.Is(err, auth.ErrResetTokenMismatch),
			errors.Is(err, auth.ErrUserNotFound):
			ErrorResponse(c, http.StatusUnauthorized, ErrCodeResetTokenInvalid, "reset token is invalid")
		default:
			logrus.WithError(err).Error("password reset failed")
			InternalError(c, "failed to reset password")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

func (h *HTTPHandler) VerifyEmail(c *gin.Context) {
	if h.authService == nil {
		ServiceUnavailable(c, "user repository not available")
		return
	}

	token := c.Query("token")
	if token == "" {
		MissingField(c, "token")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.authService.VerifyEmail(ctx, token); err != nil {
		if errors.Is(err, auth.ErrTokenInvalid) {
			BadRequest(c, ErrCodeInvalidRequest, "verification token is invalid")
			return
		}
		logrus.WithError(err).Error("email verification failed")
		InternalError(c, "failed to verify email")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "email verified"})
}

func (h *HTTPHandler) Me(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	dbUser, err := h.repo.GetUserByID(ctx, user.ID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to load user profile")
		InternalError(c, "failed to load profile")
		return
	}

	c.JSON(http.StatusOK, auth.MakeUserSummary(dbUser))
}

// RotateSecret 轮换 JWT 签名密钥，之前签发的所有令牌立即失效。
func (h *HTTPHandler) RotateSecret(c *gin.Context) {
	requestUser := CurrentUser(c)
	if requestUser == nil || !requestUser.IsAdmin() {
		Forbidden(c, "admin privileges required")
		return
	}

	if _, err := h.authManager.RotateSecret(); err != nil {
		logrus.WithError(err).Error("failed to rotate signing secret")
		InternalError(c, "failed to rotate secret")
		return
	}

	logrus.WithField("admin_id", requestUser.ID).Warn("jwt signing secret rotated, all sessions invalidated")
	c.JSON(http.StatusOK, gin.H{"message": "signing secret rotated"})
}
