package api

import (
	"bizsuite/internal/auth"
	"bizsuite/internal/config"
	"bizsuite/internal/model"
	"bizsuite/internal/notify"
	"bizsuite/internal/storage"
	"fmt"
	"strings"
)

// HTTPHandler HTTP 请求处理器
type HTTPHandler struct {
	cfg               config.Config
	repo              model.Repository
	storage           storage.Storage
	storagePublicBase string
	authManager       *auth.Manager
	authService       *auth.Service
	googleVerifier    *auth.GoogleVerifier
	mailer            notify.Mailer
	stockWatcher      *notify.StockWatcher
}

// NewHTTPHandler 创建 HTTP 处理器实例
func NewHTTPHandler(cfg config.Config, repo model.Repository, store storage.Storage, mailer notify.Mailer) (*HTTPHandler, error) {
	authManager, err := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer)
	if err != nil {
		return nil, err
	}

	var authService *auth.Service
	if repo != nil {
		authService, err = auth.NewService(repo, authManager, mailer, cfg.ResetLinkBaseURL)
		if err != nil {
			return nil, err
		}
	}

	handler := &HTTPHandler{
		cfg:               cfg,
		repo:              repo,
		storage:           store,
		storagePublicBase: normalisePublicBase(cfg.StoragePublicBaseURL),
		authManager:       authManager,
		authService:       authService,
		googleVerifier:    auth.NewGoogleVerifier(cfg.GoogleClientID),
		mailer:            mailer,
	}

	if repo != nil {
		handler.stockWatcher = notify.NewStockWatcher(repo, mailer, cfg.LowStockThreshold, 0)
	}

	return handler, nil
}

// StockWatcher 返回库存监控器（用于即时触发扫描）
func (h *HTTPHandler) StockWatcher() *notify.StockWatcher {
	return h.stockWatcher
}

// normalisePublicBase 规范化公共 URL 基础路径
func normalisePublicBase(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		trimmed = "/uploads"
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return strings.TrimRight(trimmed, "/")
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	return strings.TrimRight(trimmed, "/")
}

func (h *HTTPHandler) publicURL(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return trimmed
	}
	base := h.storagePublicBase
	if base == "" {
		base = "/uploads"
	}
	return fmt.Sprintf("%s/%s", strings.TrimRight(base, "/"), strings.TrimLeft(trimmed, "/"))
}
