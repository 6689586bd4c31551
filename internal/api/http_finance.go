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

func (h *HTTPHandler) ListFinanceRecords(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "repository not available")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	records, err := h.repo.ListFinanceRecords(ctx)
	if err != nil {
		logrus.WithError(err).Error("failed to list finance records")
		InternalError(c, "failed to load finance records")
		return
	}

	for idx := range records {
		records[idx].DocumentPath = h.publicURL(records[idx].DocumentPath)
	}

	c.JSON(http.StatusOK, gin.H{"records": records})
}

func (h *HTTPHandler) GetFinanceRecord(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	record, err := h.repo.GetFinanceRecord(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeRecordNotFound, "finance record not found")
			return
		}
		logrus.WithError(err).Error("failed to load finance record")
		InternalError(c, "failed to load finance record")
		return
	}

	record.DocumentPath = h.publicURL(record.DocumentPath)
	c.JSON(http.StatusOK, record)
}

// CreateFinanceRecord 登记一份财务文档（路径来自上传接口）。
func (h *HTTPHandler) CreateFinanceRecord(c *gin.Context) {
	var req entity.FinanceCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	record := &entity.DbFinanceRecord{
		FullName:      strings.TrimSpace(req.FullName),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		ContactNumber: strings.TrimSpace(req.ContactNumber),
		DocumentType:  strings.TrimSpace(req.DocumentType),
		DocumentPath:  strings.TrimSpace(req.DocumentPath),
		Message:       strings.TrimSpace(req.Message),
		Status:        "pending",
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.CreateFinanceRecord(ctx, record); err != nil {
		logrus.WithError(err).Error("failed to create finance record")
		InternalError(c, "failed to create finance record")
		return
	}

	c.JSON(http.StatusCreated, record)
}

func (h *HTTPHandler) UpdateFinanceRecord(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req entity.FinanceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	updates := entity.FinanceUpdates{
		DocumentType: req.DocumentType,
		DocumentPath: req.DocumentPath,
		Message:      req.Message,
		Status:       req.Status,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.UpdateFinanceRecord(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeRecordNotFound, "finance record not found")
			return
		}
		logrus.WithError(err).Error("failed to update finance record")
		InternalError(c, "failed to update finance record")
		return
	}

	record, err := h.repo.GetFinanceRecord(ctx, id)
	if err != nil {
		logrus.WithError(err).Error("failed to reload finance record after update")
		InternalError(c, "failed to load updated finance record")
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *HTTPHandler) DeleteFinanceRecord(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.DeleteFinanceRecord(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeRecordNotFound, "finance record not found")
			return
		}
		logrus.WithError(err).Error("failed to delete finance record")
		InternalError(c, "failed to delete finance record")
		return
	}

	c.Status(http.StatusNoContent)
}
