package main

import (
	"bizsuite/internal/api"
	"bizsuite/internal/config"
	"bizsuite/internal/entity"
	"bizsuite/internal/model"
	"bizsuite/internal/notify"
	"bizsuite/internal/storage"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	// 初始化配置
	cfg, err := config.ParseConfig()
	if err != nil {
		logrus.WithError(err).Error("Failed to parse config")
		return
	}

	// 初始化logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	repo, err := model.InitRepository(&cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise repository")
		return
	}

	store, err := storage.NewStorage(cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise storage")
		return
	}

	mailer := notify.InitMailer(cfg)

	httpHandler, err := api.NewHTTPHandler(cfg, repo, store, mailer)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise http handler")
		return
	}

	// 后台低库存巡检
	watchCtx, cancelWatch := context.WithCancel(context.Background())
	defer cancelWatch()
	if repo != nil && cfg.StockScanIntervalHours > 0 {
		watcher := notify.NewStockWatcher(repo, mailer, cfg.LowStockThreshold,
			time.Duration(cfg.StockScanIntervalHours)*time.Hour)
		go watcher.Run(watchCtx)
	}

	// 设置Gin模式
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// 添加中间件
	r.Use(LoggingMiddleware())
	r.Use(CORSMiddleware())
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	apiGroup := r.Group("/api")

	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/register", httpHandler.Register)
	authGroup.POST("/login", httpHandler.Login)
	authGroup.POST("/google", httpHandler.GoogleLogin)
	authGroup.POST("/refresh", httpHandler.Refresh)
	authGroup.POST("/forgot-password", httpHandler.ForgotPassword)
	authGroup.POST("/reset-password", httpHandler.ResetPassword)
	authGroup.GET("/verify-email", httpHandler.VerifyEmail)
	authGroup.GET("/me", httpHandler.AuthMiddleware(), httpHandler.Me)

	// 游客可访问的公开接口
	apiGroup.GET("/products", httpHandler.ListProducts)
	apiGroup.GET("/products/:id", httpHandler.GetProduct)
	apiGroup.GET("/posts", httpHandler.ListPosts)
	apiGroup.POST("/feedback", httpHandler.CreateFeedback)

	protected := apiGroup.Group("")
	protected.Use(httpHandler.AuthMiddleware())
	protected.POST("/orders", httpHandler.CreateOrder)
	protected.GET("/orders", httpHandler.ListOrders)
	protected.GET("/orders/:id", httpHandler.GetOrder)
	protected.POST("/posts", httpHandler.CreatePost)
	protected.PATCH("/posts/:id", httpHandler.UpdatePost)
	protected.DELETE("/posts/:id", httpHandler.DeletePost)
	protected.POST("/posts/:id/like", httpHandler.LikePost)
	protected.POST("/posts/:id/comments", httpHandler.AddPostComment)
	protected.POST("/uploads", httpHandler.UploadFile)
	protected.POST("/uploads/avatar", httpHandler.UploadAvatar)

	// 内部板块：管理员放行，其它角色按角色访问配置
	staff := protected.Group("")
	staff.Use(httpHandler.RequireRoles(entity.UserRoleAdmin, entity.UserRoleEmployee))
	staff.POST("/products", httpHandler.RequireSection("products"), httpHandler.CreateProduct)
	staff.PATCH("/products/:id", httpHandler.RequireSection("products"), httpHandler.UpdateProduct)
	staff.DELETE("/products/:id", httpHandler.RequireSection("products"), httpHandler.DeleteProduct)
	staff.GET("/products/low-stock", httpHandler.RequireSection("products"), httpHandler.ListLowStock)

	staff.GET("/suppliers", httpHandler.RequireSection("suppliers"), httpHandler.ListSuppliers)
	staff.POST("/suppliers", httpHandler.RequireSection("suppliers"), httpHandler.CreateSupplier)
	staff.PATCH("/suppliers/:id", httpHandler.RequireSection("suppliers"), httpHandler.UpdateSupplier)
	staff.DELETE("/suppliers/:id", httpHandler.RequireSection("suppliers"), httpHandler.DeleteSupplier)

	staff.PATCH("/orders/:id", httpHandler.RequireSection("orders"), httpHandler.UpdateOrderStatus)
	staff.DELETE("/orders/:id", httpHandler.RequireSection("orders"), httpHandler.DeleteOrder)

	staff.GET("/finance", httpHandler.RequireSection("finance"), httpHandler.ListFinanceRecords)
	staff.POST("/finance", httpHandler.RequireSection("finance"), httpHandler.CreateFinanceRecord)
	staff.GET("/finance/:id", httpHandler.RequireSection("finance"), httpHandler.GetFinanceRecord)
	staff.PATCH("/finance/:id", httpHandler.RequireSection("finance"), httpHandler.UpdateFinanceRecord)
	staff.DELETE("/finance/:id", httpHandler.RequireSection("finance"), httpHandler.DeleteFinanceRecord)

	staff.GET("/feedback", httpHandler.RequireSection("feedback"), httpHandler.ListFeedback)
	staff.DELETE("/feedback/:id", httpHandler.RequireSection("feedback"), httpHandler.DeleteFeedback)

	staff.GET("/employees", httpHandler.RequireSection("employees"), httpHandler.ListEmployees)

	// 员工管理：考勤、请假、绩效、培训
	staff.GET("/attendance", httpHandler.RequireSection("employees"), httpHandler.ListAttendance)
	staff.POST("/attendance", httpHandler.RequireSection("employees"), httpHandler.RecordAttendance)
	staff.GET("/leave-requests", httpHandler.RequireSection("employees"), httpHandler.ListLeaveRequests)
	staff.POST("/leave-requests", httpHandler.CreateLeaveRequest)
	staff.PATCH("/leave-requests/:id", httpHandler.RequireSection("employees"), httpHandler.DecideLeaveRequest)
	staff.GET("/performance", httpHandler.RequireSection("employees"), httpHandler.ListPerformanceReviews)
	staff.POST("/performance", httpHandler.RequireSection("employees"), httpHandler.CreatePerformanceReview)
	staff.GET("/training", httpHandler.ListTrainingPrograms)
	staff.POST("/training", httpHandler.RequireSection("employees"), httpHandler.CreateTrainingProgram)
	staff.POST("/training/:id/enroll", httpHandler.EnrollInTraining)

	// 管理员专属
	admin := protected.Group("")
	admin.Use(httpHandler.RequireAdmin())
	admin.GET("/users", httpHandler.ListUsers)
	admin.POST("/users", httpHandler.CreateUser)
	admin.PATCH("/users/:id", httpHandler.UpdateUser)
	admin.DELETE("/users/:id", httpHandler.DeleteUser)
	admin.GET("/role-access", httpHandler.ListRoleAccess)
	admin.GET("/role-access/:role", httpHandler.GetRoleAccess)
	admin.PUT("/role-access", httpHandler.UpsertRoleAccess)
	admin.DELETE("/role-access/:role", httpHandler.DeleteRoleAccess)
	admin.POST("/auth/rotate-secret", httpHandler.RotateSecret)

	if localProvider, ok := store.(storage.LocalBaseDirProvider); ok {
		publicPrefix := strings.TrimSpace(cfg.StoragePublicBaseURL)
		if publicPrefix == "" {
			publicPrefix = "/uploads"
		}
		if !strings.HasPrefix(publicPrefix, "http://") && !strings.HasPrefix(publicPrefix, "https://") {
			if !strings.HasPrefix(publicPrefix, "/") {
				publicPrefix = "/" + publicPrefix
			}
			r.Static(publicPrefix, localProvider.LocalBaseDir())
		}
	}

	serverHost := fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)
	logger.WithField("host", serverHost).Info("服务器启动")
	// 创建HTTP服务器
	httpServer := &http.Server{
		Addr:         serverHost,
		Handler:      r,
		ReadTimeout:  900 * time.Second,
		WriteTimeout: 900 * time.Second,
		IdleTimeout:  1200 * time.Second,
	}
	err = httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.WithError(err).Error("服务器启动失败")
	}
}

// CORSMiddleware CORS跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		c.Header("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// LoggingMiddleware 日志记录中间件
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		// 处理请求
		c.Next()
		// 记录请求结束
		duration := time.Since(start)
		logrus.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"duration":  duration.String(),
			"size":      c.Writer.Size(),
			"client_ip": c.ClientIP(),
		}).Info("http_request")
	}
}
