package api

import (
	"bizsuite/internal/auth"
	"bizsuite/internal/entity"
	"bizsuite/internal/model"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// stubRepo is an in-memory Repository slice for handler tests. Only the
// methods the exercised handlers touch are implemented; anything else
// panics through the embedded nil interface.
type stubRepo struct {
	model.Repository
	users       map[uint]*entity.DbUser
	roleAccess  map[string]*entity.DbRoleAccess
	getProduct  func(ctx context.Context, id uint) (*entity.DbProduct, error)
	createOrder func(ctx context.Context, order *entity.DbOrder) error
	createLeave func(ctx context.Context, request *entity.DbLeaveRequest) error
	decideLeave func(ctx context.Context, id uint, status string, decidedBy uint) error
}

func (s *stubRepo) GetUserByID(_ context.Context, id uint) (*entity.DbUser, error) {
	if u, ok := s.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) GetRoleAccess(_ context.Context, roleName string) (*entity.DbRoleAccess, error) {
	if access, ok := s.roleAccess[roleName]; ok {
		return access, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) GetProduct(ctx context.Context, id uint) (*entity.DbProduct, error) {
	return s.getProduct(ctx, id)
}

func (s *stubRepo) CreateOrder(ctx context.Context, order *entity.DbOrder) error {
	return s.createOrder(ctx, order)
}

func (s *stubRepo) CreateLeaveRequest(ctx context.Context, request *entity.DbLeaveRequest) error {
	return s.createLeave(ctx, request)
}

func (s *stubRepo) DecideLeaveRequest(ctx context.Context, id uint, status string, decidedBy uint) error {
	return s.decideLeave(ctx, id, status, decidedBy)
}

func newTestHandler(t *testing.T, repo *stubRepo) *HTTPHandler {
	t.Helper()
	manager, err := auth.NewManager("handler-test-secret", "bizsuite")
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return &HTTPHandler{
		repo:              repo,
		authManager:       manager,
		storagePublicBase: "/uploads",
	}
}

func accessTokenFor(t *testing.T, h *HTTPHandler, user *entity.DbUser) string {
	t.Helper()
	token, _, err := h.authManager.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	return token
}

func seedHandlerUsers() *stubRepo {
	return &stubRepo{
		users: map[uint]*entity.DbUser{
			1: {ID: 1, Email: "root@example.com", FullName: "Root", Role: entity.UserRoleAdmin, Status: entity.UserStatusActive},
			2: {ID: 2, Email: "staff@example.com", FullName: "Staff", Role: entity.UserRoleEmployee, Status: entity.UserStatusActive},
			3: {ID: 3, Email: "shopper@example.com", FullName: "Shopper", Role: entity.UserRoleUser, Status: entity.UserStatusActive},
			4: {ID: 4, Email: "banned@example.com", FullName: "Banned", Role: entity.UserRoleUser, Status: entity.UserStatusBanned},
		},
		roleAccess: map[string]*entity.DbRoleAccess{
			entity.UserRoleEmployee: {
				RoleName:           entity.UserRoleEmployee,
				AccessibleSections: entity.StringArray{"products", "orders"},
			},
		},
	}
}

func protectedRouter(h *HTTPHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", h.AuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": CurrentUser(c).Email})
	})
	r.GET("/staff-only", h.AuthMiddleware(), h.RequireRoles(entity.UserRoleAdmin, entity.UserRoleEmployee), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/section/products", h.AuthMiddleware(), h.RequireSection("products"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/section/finance", h.AuthMiddleware(), h.RequireSection("finance"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doGet(r *gin.Engine, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareAcceptsAccessToken(t *testing.T) {
	repo := seedHandlerUsers()
	h := newTestHandler(t, repo)
	r := protectedRouter(h)

	token := accessTokenFor(t, h, repo.users[3])
	if w := doGet(r, "/protected", token); w.Code != http.StatusOK {
		t.Fatalf("valid token: status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestAuthMiddlewareRejectsMissingAndTamperedTokens(t *testing.T) {
	repo := seedHandlerUsers()
	h := newTestHandler(t, repo)
	r := protectedRouter(h)

	if w := doGet(r, "/protected", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("missing header: status = %d", w.Code)
	}

	token := accessTokenFor(t, h, repo.users[3])
	tampered := token[:len(token)-2] + "xx"
	if w := doGet(r, "/protected", tampered); w.Code != http.StatusUnauthorized {
		t.Errorf("tampered token: status = %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong scheme: status = %d", w.Code)
	}
}

func TestAuthMiddlewareRejectsRefreshToken(t *testing.T) {
	repo := seedHandlerUsers()
	h := newTestHandler(t, repo)
	r := protectedRouter(h)

	refresh, _, err := h.authManager.GenerateRefreshToken(repo.users[3])
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	if w := doGet(r, "/protected", refresh); w.Code != http.StatusUnauthorized {
		t.Fatalf("refresh token on access route: status = %d", w.Code)
	}
}

func TestAuthMiddlewareRejectsDisabledAccount(t *testing.T) {
	repo := seedHandlerUsers()
	h := newTestHandler(t, repo)
	r := protectedRouter(h)

	token := accessTokenFor(t, h, repo.users[4])
	if w := doGet(r, "/protected", token); w.Code != http.StatusForbidden {
		t.Fatalf("banned account: status = %d", w.Code)
	}
}

func TestRequireRolesGate(t *testing.T) {
	repo := seedHandlerUsers()
	h := newTestHandler(t, repo)
	r := protectedRouter(h)

	if w := doGet(r, "/staff-only", accessTokenFor(t, h, repo.users[3])); w.Code != http.StatusForbidden {
		t.Errorf("plain user on staff route: status = %d", w.Code)
	}
	if w := doGet(r, "/staff-only", accessTokenFor(t, h, repo.users[2])); w.Code != http.StatusOK {
		t.Errorf("employee on staff route: status = %d", w.Code)
	}
	if w := doGet(r, "/staff-only", accessTokenFor(t, h, repo.users[1])); w.Code != http.StatusOK {
		t.Errorf("admin on staff route: status = %d", w.Code)
	}
}

func TestRequireSectionHonoursRoleAccess(t *testing.T) {
	repo := seedHandlerUsers()
	h := newTestHandler(t, repo)
	r := protectedRouter(h)

	staffToken := accessTokenFor(t, h, repo.users[2])
	if w := doGet(r, "/section/products", staffToken); w.Code != http.StatusOK {
		t.Errorf("granted section: status = %d", w.Code)
	}
	if w := doGet(r, "/section/finance", staffToken); w.Code != http.StatusForbidden {
		t.Errorf("ungranted section: status = %d", w.Code)
	}

	// 管理员不受板块配置限制
	adminToken := accessTokenFor(t, h, repo.users[1])
	if w := doGet(r, "/section/finance", adminToken); w.Code != http.StatusOK {
		t.Errorf("admin bypass: status = %d", w.Code)
	}
}
