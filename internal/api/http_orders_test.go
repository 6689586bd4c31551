package api

import (
	"bizsuite/internal/entity"
	"bizsuite/internal/model/sql"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func sendJSON(t *testing.T, r *gin.Engine, method, path, bearer string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postJSON(t *testing.T, r *gin.Engine, path, bearer string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	return sendJSON(t, r, http.MethodPost, path, bearer, payload)
}

func decodeAPIError(t *testing.T, w *httptest.ResponseRecorder) APIError {
	t.Helper()
	var apiErr APIError
	if err := json.Unmarshal(w.Body.Bytes(), &apiErr); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return apiErr
}

func orderRouter(h *HTTPHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/orders", h.AuthMiddleware(), h.CreateOrder)
	return r
}

// 库存被并发扣减时，预检通过但事务内扣减失败，应返回 409 库存不足。
func TestCreateOrderReportsInsufficientStockFromRepository(t *testing.T) {
	repo := seedHandlerUsers()
	repo.getProduct = func(_ context.Context, id uint) (*entity.DbProduct, error) {
		return &entity.DbProduct{ID: id, Name: "Widget", Price: 12.5, Quantity: 10}, nil
	}
	repo.createOrder = func(_ context.Context, _ *entity.DbOrder) error {
		return fmt.Errorf("product 7: %w", sql.ErrInsufficientStock)
	}

	h := newTestHandler(t, repo)
	r := orderRouter(h)
	token := accessTokenFor(t, h, repo.users[3])

	w := postJSON(t, r, "/orders", token, entity.OrderCreateRequest{
		Email: "shopper@example.com",
		Items: []entity.OrderItemRequest{{ProductID: 7, Quantity: 3}},
	})

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if apiErr := decodeAPIError(t, w); apiErr.Code != ErrCodeInsufficientStock {
		t.Fatalf("error code = %q, want %q", apiErr.Code, ErrCodeInsufficientStock)
	}
}

func TestCreateOrderRejectsKnownShortage(t *testing.T) {
	repo := seedHandlerUsers()
	repo.getProduct = func(_ context.Context, id uint) (*entity.DbProduct, error) {
		return &entity.DbProduct{ID: id, Name: "Widget", Price: 12.5, Quantity: 1}, nil
	}
	repo.createOrder = func(_ context.Context, _ *entity.DbOrder) error {
		t.Fatal("CreateOrder should not be reached when the shortage is known upfront")
		return nil
	}

	h := newTestHandler(t, repo)
	r := orderRouter(h)
	token := accessTokenFor(t, h, repo.users[3])

	w := postJSON(t, r, "/orders", token, entity.OrderCreateRequest{
		Email: "shopper@example.com",
		Items: []entity.OrderItemRequest{{ProductID: 7, Quantity: 3}},
	})

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if apiErr := decodeAPIError(t, w); apiErr.Code != ErrCodeInsufficientStock {
		t.Fatalf("error code = %q, want %q", apiErr.Code, ErrCodeInsufficientStock)
	}
}
