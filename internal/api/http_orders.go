package api

import (
	"bizsuite/internal/entity"
	"bizsuite/internal/model/sql"
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func (h *HTTPHandler) ListOrders(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "repository not available")
		return
	}

	var query entity.OrderQuery
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

	// 非内部人员只能查看自己的订单
	user := CurrentUser(c)
	if user != nil && !user.IsStaff() {
		query.Email = user.Email
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	orders, meta, err := h.repo.ListOrders(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list orders")
		InternalError(c, "failed to load orders")
		return
	}

	c.JSON(http.StatusOK, entity.OrderListResponse{
		Orders: orders,
		Meta:   meta,
	})
}

func (h *HTTPHandler) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	order, err := h.repo.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeOrderNotFound, "order not found")
			return
		}
		logrus.WithError(err).Error("failed to load order")
		InternalError(c, "failed to load order")
		return
	}

	user := CurrentUser(c)
	if user != nil && !user.IsStaff() && !strings.EqualFold(order.Email, user.Email) {
		Forbidden(c, "not your order")
		return
	}

	c.JSON(http.StatusOK, order)
}

// CreateOrder 创建订单并在同一事务内扣减库存。
func (h *HTTPHandler) CreateOrder(c *gin.Context) {
	var req entity.OrderCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var total float64
	items := make([]entity.DbOrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		product, err := h.repo.GetProduct(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				NotFound(c, ErrCodeProductNotFound, "product not found")
				return
			}
			logrus.WithError(err).Error("failed to load product for order")
			InternalError(c, "failed to create order")
			return
		}
		if product.Quantity < line.Quantity {
			ErrorResponseWithDetails(c, http.StatusConflict, ErrCodeInsufficientStock,
				"insufficient stock", gin.H{"product_id": product.ID, "available": product.Quantity})
			return
		}
		total += product.Price * float64(line.Quantity)
		items = append(items, entity.DbOrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
		})
	}

	order := &entity.DbOrder{
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		FinanceID:   req.FinanceID,
		TotalAmount: total,
		Status:      entity.OrderStatusPending,
		Items:       items,
	}

	if err := h.repo.CreateOrder(ctx, order); err != nil {
		if errors.Is(err, sql.ErrInsufficientStock) {
			ErrorResponse(c, http.StatusConflict, ErrCodeInsufficientStock, "insufficient stock")
			return
		}
		logrus.WithError(err).Error("failed to create order")
		InternalError(c, "failed to create order")
		return
	}

	// 扣减库存后可能触及阈值，立即巡检一次
	if h.stockWatcher != nil {
		go h.stockWatcher.ScanOnce(context.Background())
	}

	c.JSON(http.StatusCreated, order)
}

func (h *HTTPHandler) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req entity.OrderUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}
	if req.Status == nil {
		MissingField(c, "status")
		return
	}

	status := sanitizeOrderStatus(*req.Status)
	if status == "" {
		BadRequest(c, ErrCodeInvalidRequest, "invalid order status")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.UpdateOrderStatus(ctx, id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeOrderNotFound, "order not found")
			return
		}
		logrus.WithError(err).Error("failed to update order status")
		InternalError(c, "failed to update order")
		return
	}

	order, err := h.repo.GetOrder(ctx, id)
	if err != nil {
		logrus.WithError(err).Error("failed to reload order after update")
		InternalError(c, "failed to load updated order")
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *HTTPHandler) DeleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.DeleteOrder(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeOrderNotFound, "order not found")
			return
		}
		logrus.WithError(err).Error("failed to delete order")
		InternalError(c, "failed to delete order")
		return
	}

	c.Status(http.StatusNoContent)
}

func sanitizeOrderStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case entity.OrderStatusPending:
		return entity.OrderStatusPending
	case entity.OrderStatusPaid:
		return entity.OrderStatusPaid
	case entity.OrderStatusShipped:
		return entity.OrderStatusShipped
	case entity.OrderStatusCancelled:
		return entity.OrderStatusCancelled
	default:
		return ""
	}
}
