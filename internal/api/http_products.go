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

func (h *HTTPHandler) ListProducts(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "repository not available")
		return
	}

	var query entity.ProductQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.PageSize <= 0 {
		query.PageSize = 20
	}
	if query.PageSize > 100 {
		query.PageSize = 100
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	products, meta, err := h.repo.ListProducts(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list products")
		InternalError(c, "failed to load products")
		return
	}

	for idx := range products {
		products[idx].ImagePath = h.publicURL(products[idx].ImagePath)
	}

	c.JSON(http.StatusOK, entity.ProductListResponse{
		Products: products,
		Meta:     meta,
	})
}

func (h *HTTPHandler) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	product, err := h.repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeProductNotFound, "product not found")
			return
		}
		logrus.WithError(err).Error("failed to load product")
		InternalError(c, "failed to load product")
		return
	}

	product.ImagePath = h.publicURL(product.ImagePath)
	c.JSON(http.StatusOK, product)
}

func (h *HTTPHandler) CreateProduct(c *gin.Context) {
	var req entity.ProductCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	if req.Quantity < 0 {
		BadRequest(c, ErrCodeInvalidRequest, "quantity must not be negative")
		return
	}

	product := &entity.DbProduct{
		Name:        strings.TrimSpace(req.Name),
		Price:       req.Price,
		Description: strings.TrimSpace(req.Description),
		ImagePath:   strings.TrimSpace(req.ImagePath),
		Category:    strings.TrimSpace(req.Category),
		Quantity:    req.Quantity,
		SupplierID:  req.SupplierID,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.CreateProduct(ctx, product); err != nil {
		logrus.WithError(err).Error("failed to create product")
		InternalError(c, "failed to create product")
		return
	}

	c.JSON(http.StatusCreated, product)
}

func (h *HTTPHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req entity.ProductUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	if req.Quantity != nil && *req.Quantity < 0 {
		BadRequest(c, ErrCodeInvalidRequest, "quantity must not be negative")
		return
	}

	updates := entity.ProductUpdates{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		ImagePath:   req.ImagePath,
		Category:    req.Category,
		Quantity:    req.Quantity,
		SupplierID:  req.SupplierID,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.UpdateProduct(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeProductNotFound, "product not found")
			return
		}
		logrus.WithError(err).Error("failed to update product")
		InternalError(c, "failed to update product")
		return
	}

	product, err := h.repo.GetProduct(ctx, id)
	if err != nil {
		logrus.WithError(err).Error("failed to reload product after update")
		InternalError(c, "failed to load updated product")
		return
	}

	// 数量下调后立即触发一次库存巡检，低于阈值则通知供应商
	if req.Quantity != nil && product.Quantity <= h.cfg.LowStockThreshold && h.stockWatcher != nil {
		go h.stockWatcher.ScanOnce(context.Background())
	}

	c.JSON(http.StatusOK, product)
}

func (h *HTTPHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeProductNotFound, "product not found")
			return
		}
		logrus.WithError(err).Error("failed to delete product")
		InternalError(c, "failed to delete product")
		return
	}

	c.Status(http.StatusNoContent)
}

// ListLowStock 返回当前处于低库存状态的商品
func (h *HTTPHandler) ListLowStock(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	products, err := h.repo.ListLowStockProducts(ctx, h.cfg.LowStockThreshold)
	if err != nil {
		logrus.WithError(err).Error("failed to list low stock products")
		InternalError(c, "failed to load low stock products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"threshold": h.cfg.LowStockThreshold,
		"products":  products,
	})
}
