package model

import (
	"bizsuite/internal/entity"
	"context"
)

// Repository 定义数据库操作接口
type Repository interface {
	// 用户管理
	CreateUser(ctx context.Context, user *entity.DbUser) error
	UpdateUser(ctx context.Context, id uint, updates entity.UserUpdates) error
	GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error)
	GetUserByID(ctx context.Context, id uint) (*entity.DbUser, error)
	GetUserByGoogleID(ctx context.Context, googleID string) (*entity.DbUser, error)
	LinkGoogleID(ctx context.Context, id uint, googleID string) error
	ListUsers(ctx context.Context, params *entity.UserQuery) ([]entity.DbUser, *entity.Meta, error)
	DeleteUser(ctx context.Context, id uint) error
	CountUsers(ctx context.Context) (int64, error)

	// 凭证与令牌
	SaveRefreshToken(ctx context.Context, id uint, token string) error
	SetPasswordReset(ctx context.Context, id uint, reset entity.PasswordReset) error
	ConsumePasswordReset(ctx context.Context, id uint, token, newHash string) (bool, error)
	MarkEmailVerified(ctx context.Context, token string) (bool, error)

	// 商品与供应商
	CreateProduct(ctx context.Context, product *entity.DbProduct) error
	UpdateProduct(ctx context.Context, id uint, updates entity.ProductUpdates) error
	GetProduct(ctx context.Context, id uint) (*entity.DbProduct, error)
	ListProducts(ctx context.Context, params *entity.ProductQuery) ([]entity.DbProduct, *entity.Meta, error)
	DeleteProduct(ctx context.Context, id uint) error
	ListLowStockProducts(ctx context.Context, threshold int) ([]entity.DbProduct, error)

	CreateSupplier(ctx context.Context, supplier *entity.DbSupplier) error
	UpdateSupplier(ctx context.Context, id uint, updates entity.SupplierUpdates) error
	GetSupplier(ctx context.Context, id uint) (*entity.DbSupplier, error)
	ListSuppliers(ctx context.Context) ([]entity.DbSupplier, error)
	DeleteSupplier(ctx context.Context, id uint) error

	// 订单与财务
	CreateOrder(ctx context.Context, order *entity.DbOrder) error
	GetOrder(ctx context.Context, id uint) (*entity.DbOrder, error)
	UpdateOrderStatus(ctx context.Context, id uint, status string) error
	ListOrders(ctx context.Context, params *entity.OrderQuery) ([]entity.DbOrder, *entity.Meta, error)
	DeleteOrder(ctx context.Context, id uint) error

	CreateFinanceRecord(ctx context.Context, record *entity.DbFinanceRecord) error
	UpdateFinanceRecord(ctx context.Context, id uint, updates entity.FinanceUpdates) error
	GetFinanceRecord(ctx context.Context, id uint) (*entity.DbFinanceRecord, error)
	ListFinanceRecords(ctx context.Context) ([]entity.DbFinanceRecord, error)
	DeleteFinanceRecord(ctx context.Context, id uint) error

	// 社区与反馈
	CreatePost(ctx context.Context, post *entity.DbPost) error
	UpdatePost(ctx context.Context, id uint, updates entity.PostUpdates) error
	GetPost(ctx context.Context, id uint) (*entity.DbPost, error)
	ListPosts(ctx context.Context) ([]entity.DbPost, error)
	DeletePost(ctx context.Context, id uint) error
	LikePost(ctx context.Context, id uint) error
	AddPostComment(ctx context.Context, comment *entity.DbPostComment) error

	CreateFeedback(ctx context.Context, feedback *entity.DbFeedback) error
	ListFeedback(ctx context.Context) ([]entity.DbFeedback, error)
	DeleteFeedback(ctx context.Context, id uint) error

	// 员工管理：考勤、请假、绩效、培训
	RecordAttendance(ctx context.Context, record *entity.DbAttendance) error
	ListAttendance(ctx context.Context, employeeID uint) ([]entity.DbAttendance, error)

	CreateLeaveRequest(ctx context.Context, request *entity.DbLeaveRequest) error
	ListLeaveRequests(ctx context.Context, employeeID uint, status string) ([]entity.DbLeaveRequest, error)
	DecideLeaveRequest(ctx context.Context, id uint, status string, decidedBy uint) error

	CreatePerformanceReview(ctx context.Context, review *entity.DbPerformanceReview) error
	ListPerformanceReviews(ctx context.Context, employeeID uint) ([]entity.DbPerformanceReview, error)

	CreateTrainingProgram(ctx context.Context, program *entity.DbTrainingProgram) error
	ListTrainingPrograms(ctx context.Context) ([]entity.DbTrainingProgram, error)
	EnrollInTraining(ctx context.Context, programID, employeeID uint, employeeName string) error

	// 角色访问配置
	UpsertRoleAccess(ctx context.Context, access *entity.DbRoleAccess) error
	GetRoleAccess(ctx context.Context, roleName string) (*entity.DbRoleAccess, error)
	ListRoleAccess(ctx context.Context) ([]entity.DbRoleAccess, error)
	DeleteRoleAccess(ctx context.Context, roleName string) error
}
