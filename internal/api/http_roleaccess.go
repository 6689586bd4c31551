package api

import (
	"bizsuite/internal/entity"
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func (h *HTTPHandler) ListRoleAccess(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	rows, err := h.repo.ListRoleAccess(ctx)
	if err != nil {
		logrus.WithError(err).Error("failed to list role access")
		InternalError(c, "failed to load role access")
		return
	}

	c.JSON(http.StatusOK, gin.H{"roles": rows})
}

func (h *HTTPHandler) GetRoleAccess(c *gin.Context) {
	roleName := strings.TrimSpace(c.Param("role"))
	if roleName == "" {
		MissingField(c, "role")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	access, err := h.repo.GetRoleAccess(ctx, roleName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeRoleNotFound, "role access not found")
			return
		}
		logrus.WithError(err).Error("failed to load role access")
		InternalError(c, "failed to load role access")
		return
	}

	c.JSON(http.StatusOK, access)
}

// UpsertRoleAccess 新建或替换角色的可访问板块列表。
func (h *HTTPHandler) UpsertRoleAccess(c *gin.Context) {
	var req entity.RoleAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	access := &entity.DbRoleAccess{
		RoleName:           strings.ToLower(strings.TrimSpace(req.RoleName)),
		AccessibleSections: entity.StringArray(req.AccessibleSections),
	}
	if access.RoleName == "" {
		MissingField(c, "role_name")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.UpsertRoleAccess(ctx, access); err != nil {
		logrus.WithError(err).Error("failed to upsert role access")
		InternalError(c, "failed to save role access")
		return
	}

	c.JSON(http.StatusOK, access)
}

func (h *HTTPHandler) DeleteRoleAccess(c *gin.Context) {
	roleName := strings.TrimSpace(c.Param("role"))
	if roleName == "" {
		MissingField(c, "role")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.DeleteRoleAccess(ctx, roleName); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeRoleNotFound, "role access not found")
			return
		}
		logrus.WithError(err).Error("failed to delete role access")
		InternalError(c, "failed to delete role access")
		return
	}

	c.Status(http.StatusNoContent)
}
