package api

import (
	"bizsuite/internal/entity"
	"bizsuite/internal/model/sql"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func leaveRouter(h *HTTPHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/leave-requests", h.AuthMiddleware(), h.CreateLeaveRequest)
	r.PATCH("/leave-requests/:id", h.AuthMiddleware(), h.DecideLeaveRequest)
	return r
}

func TestLeaveDays(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 15, 30, 0, 0, time.UTC)
	}

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"single day", day(2026, time.March, 2), day(2026, time.March, 2), 1},
		{"work week", day(2026, time.March, 2), day(2026, time.March, 6), 5},
		{"across month boundary", day(2026, time.January, 30), day(2026, time.February, 2), 4},
		{"reversed range", day(2026, time.March, 6), day(2026, time.March, 2), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := leaveDays(tt.start, tt.end); got != tt.want {
				t.Errorf("leaveDays(%v, %v) = %d, want %d", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestCreateLeaveRequestDefaultsToCurrentUser(t *testing.T) {
	repo := seedHandlerUsers()
	var stored *entity.DbLeaveRequest
	repo.createLeave = func(_ context.Context, request *entity.DbLeaveRequest) error {
		request.ID = 11
		stored = request
		return nil
	}

	h := newTestHandler(t, repo)
	r := leaveRouter(h)
	token := accessTokenFor(t, h, repo.users[2])

	w := postJSON(t, r, "/leave-requests", token, entity.LeaveCreateRequest{
		LeaveType: "annual",
		StartDate: time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, time.September, 11, 0, 0, 0, 0, time.UTC),
		Reason:    "family trip",
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if stored == nil {
		t.Fatal("leave request never reached the repository")
	}
	if stored.EmployeeID != 2 {
		t.Errorf("employee id = %d, want 2 (the authenticated user)", stored.EmployeeID)
	}
	if stored.Days != 5 {
		t.Errorf("days = %d, want 5", stored.Days)
	}
	if stored.Status != entity.LeaveStatusPending {
		t.Errorf("status = %q, want %q", stored.Status, entity.LeaveStatusPending)
	}
}

func TestCreateLeaveRequestForbidsFilingForOthers(t *testing.T) {
	repo := seedHandlerUsers()
	repo.createLeave = func(_ context.Context, _ *entity.DbLeaveRequest) error {
		t.Fatal("repository should not be reached")
		return nil
	}

	h := newTestHandler(t, repo)
	r := leaveRouter(h)
	token := accessTokenFor(t, h, repo.users[2])

	w := postJSON(t, r, "/leave-requests", token, entity.LeaveCreateRequest{
		EmployeeID: 3,
		LeaveType:  "sick",
		StartDate:  time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, time.September, 8, 0, 0, 0, 0, time.UTC),
	})

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestDecideLeaveRequestConflictWhenAlreadyDecided(t *testing.T) {
	repo := seedHandlerUsers()
	repo.decideLeave = func(_ context.Context, _ uint, _ string, _ uint) error {
		return sql.ErrLeaveAlreadyDecided
	}

	h := newTestHandler(t, repo)
	r := leaveRouter(h)
	token := accessTokenFor(t, h, repo.users[1])

	w := sendJSON(t, r, http.MethodPatch, "/leave-requests/5", token, entity.LeaveDecisionRequest{Status: "approved"})
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if apiErr := decodeAPIError(t, w); apiErr.Code != ErrCodeLeaveAlreadyDecided {
		t.Fatalf("error code = %q, want %q", apiErr.Code, ErrCodeLeaveAlreadyDecided)
	}
}

func TestDecideLeaveRequestNotFound(t *testing.T) {
	repo := seedHandlerUsers()
	repo.decideLeave = func(_ context.Context, _ uint, _ string, _ uint) error {
		return gorm.ErrRecordNotFound
	}

	h := newTestHandler(t, repo)
	r := leaveRouter(h)
	token := accessTokenFor(t, h, repo.users[1])

	w := sendJSON(t, r, http.MethodPatch, "/leave-requests/99", token, entity.LeaveDecisionRequest{Status: "rejected"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
}
