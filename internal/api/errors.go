package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 错误码定义
const (
	// 通用错误码 (1xxx)
	ErrCodeInvalidRequest     = "ERR_INVALID_REQUEST"
	ErrCodeUnauthorized       = "ERR_UNAUTHORIZED"
	ErrCodeForbidden          = "ERR_FORBIDDEN"
	ErrCodeNotFound           = "ERR_NOT_FOUND"
	ErrCodeInternalError      = "ERR_INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "ERR_SERVICE_UNAVAILABLE"

	// 认证错误码 (2xxx)
	ErrCodeInvalidCredentials  = "ERR_INVALID_CREDENTIALS"
	ErrCodeEmailExists         = "ERR_EMAIL_EXISTS"
	ErrCodeUserDisabled        = "ERR_USER_DISABLED"
	ErrCodeSessionExpired      = "ERR_SESSION_EXPIRED"
	ErrCodeInvalidRefreshToken = "ERR_INVALID_REFRESH_TOKEN"
	ErrCodeResetPending        = "ERR_RESET_PENDING"
	ErrCodeResetTokenInvalid   = "ERR_RESET_TOKEN_INVALID"

	// 资源错误码 (3xxx)
	ErrCodeUserNotFound     = "ERR_USER_NOT_FOUND"
	ErrCodeProductNotFound  = "ERR_PRODUCT_NOT_FOUND"
	ErrCodeSupplierNotFound = "ERR_SUPPLIER_NOT_FOUND"
	ErrCodeOrderNotFound    = "ERR_ORDER_NOT_FOUND"
	ErrCodeRecordNotFound   = "ERR_RECORD_NOT_FOUND"
	ErrCodePostNotFound     = "ERR_POST_NOT_FOUND"
	ErrCodeRoleNotFound     = "ERR_ROLE_NOT_FOUND"

	// 业务逻辑错误码 (4xxx)
	ErrCodeMissingField        = "ERR_MISSING_FIELD"
	ErrCodeInsufficientStock   = "ERR_INSUFFICIENT_STOCK"
	ErrCodeCannotDeleteSelf    = "ERR_CANNOT_DELETE_SELF"
	ErrCodeUploadFailed        = "ERR_UPLOAD_FAILED"
	ErrCodeLeaveAlreadyDecided = "ERR_LEAVE_ALREADY_DECIDED"
)

// APIError 统一的 API 错误响应结构
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse 返回统一格式的错误响应
func ErrorResponse(c *gin.Context, status int, code string, message string) {
	c.JSON(status, APIError{
		Code:    code,
		Message: message,
	})
}

// ErrorResponseWithDetails 返回带详情的错误响应
func ErrorResponseWithDetails(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, APIError{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// 常用错误响应快捷函数

// BadRequest 400 错误请求
func BadRequest(c *gin.Context, code string, message string) {
	ErrorResponse(c, http.StatusBadRequest, code, message)
}

// Unauthorized 401 未授权
func Unauthorized(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// Forbidden 403 禁止访问
func Forbidden(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusForbidden, ErrCodeForbidden, message)
}

// NotFound 404 资源不存在
func NotFound(c *gin.Context, code string, message string) {
	ErrorResponse(c, http.StatusNotFound, code, message)
}

// InternalError 500 服务器内部错误
func InternalError(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusInternalServerError, ErrCodeInternalError, message)
}

// ServiceUnavailable 503 服务不可用
func ServiceUnavailable(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, message)
}

// MissingField 缺少必填字段
func MissingField(c *gin.Context, field string) {
	ErrorResponseWithDetails(c, http.StatusBadRequest, ErrCodeMissingField, field+" is required", gin.H{"field": field})
}

// InvalidPayload 无效的请求体
func InvalidPayload(c *gin.Context) {
	ErrorResponse(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request payload")
}
