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

func (h *HTTPHandler) ListSuppliers(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "repository not available")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	suppliers, err := h.repo.ListSuppliers(ctx)
	if err != nil {
		logrus.WithError(err).Error("failed to list suppliers")
		InternalError(c, "failed to load suppliers")
		return
	}

	c.JSON(http.StatusOK, gin.H{"suppliers": suppliers})
}

func (h *HTTPHandler) CreateSupplier(c *gin.Context) {
	var req entity.SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	supplier := &entity.DbSupplier{
		Name:  strings.TrimSpace(req.Name),
		Email: strings.ToLower(strings.TrimSpace(req.Email)),
		Phone: strings.TrimSpace(req.Phone),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.CreateSupplier(ctx, supplier); err != nil {
		logrus.WithError(err).Error("failed to create supplier")
		InternalError(c, "failed to create supplier")
		return
	}

	c.JSON(http.StatusCreated, supplier)
}

func (h *HTTPHandler) UpdateSupplier(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Name  *string `json:"name,omitempty"`
		Email *string `json:"email,omitempty"`
		Phone *string `json:"phone,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	updates := entity.SupplierUpdates{Name: req.Name, Phone: req.Phone}
	if req.Email != nil {
		lowered := strings.ToLower(strings.TrimSpace(*req.Email))
		updates.Email = &lowered
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.UpdateSupplier(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeSupplierNotFound, "supplier not found")
			return
		}
		logrus.WithError(err).Error("failed to update supplier")
		InternalError(c, "failed to update supplier")
		return
	}

	supplier, err := h.repo.GetSupplier(ctx, id)
	if err != nil {
		logrus.WithError(err).Error("failed to reload supplier after update")
		InternalError(c, "failed to load updated supplier")
		return
	}

	c.JSON(http.StatusOK, supplier)
}

func (h *HTTPHandler) DeleteSupplier(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.DeleteSupplier(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeSupplierNotFound, "supplier not found")
			return
		}
		logrus.WithError(err).Error("failed to delete supplier")
		InternalError(c, "failed to delete supplier")
		return
	}

	c.Status(http.StatusNoContent)
}
