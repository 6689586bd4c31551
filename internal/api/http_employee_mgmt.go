package api

import (
	"bizsuite/internal/entity"
	"bizsuite/internal/model/sql"
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RecordAttendance 登记或更新某员工某天的考勤（同一天重复提交会覆盖）。
func (h *HTTPHandler) RecordAttendance(c *gin.Context) {
	var req entity.AttendanceRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	status := sanitizeAttendanceStatus(req.Status)
	if status == "" {
		BadRequest(c, ErrCodeInvalidRequest, "invalid attendance status")
		return
	}
	day := strings.TrimSpace(req.Day)
	if _, err := time.Parse("2006-01-02", day); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "day must be formatted YYYY-MM-DD")
		return
	}

	record := &entity.DbAttendance{
		EmployeeID: req.EmployeeID,
		Day:        day,
		Status:     status,
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
		Location:   strings.TrimSpace(req.Location),
		WorkHours:  req.WorkHours,
		Notes:      strings.TrimSpace(req.Notes),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.RecordAttendance(ctx, record); err != nil {
		logrus.WithError(err).Error("failed to record attendance")
		InternalError(c, "failed to record attendance")
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *HTTPHandler) ListAttendance(c *gin.Context) {
	employeeID := parseEmployeeIDQuery(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	rows, err := h.repo.ListAttendance(ctx, employeeID)
	if err != nil {
		logrus.WithError(err).Error("failed to list attendance")
		InternalError(c, "failed to load attendance")
		return
	}

	c.JSON(http.StatusOK, gin.H{"attendance": rows})
}

// CreateLeaveRequest 提交请假申请。普通员工只能为自己提交，管理员可代他人提交。
func (h *HTTPHandler) CreateLeaveRequest(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var req entity.LeaveCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	employeeID := req.EmployeeID
	if employeeID == 0 {
		employeeID = user.ID
	}
	if employeeID != user.ID && !user.IsAdmin() {
		Forbidden(c, "cannot file leave for another employee")
		return
	}

	leaveType := sanitizeLeaveType(req.LeaveType)
	if leaveType == "" {
		BadRequest(c, ErrCodeInvalidRequest, "invalid leave type")
		return
	}
	days := leaveDays(req.StartDate, req.EndDate)
	if days == 0 {
		BadRequest(c, ErrCodeInvalidRequest, "end date must not precede start date")
		return
	}

	request := &entity.DbLeaveRequest{
		EmployeeID: employeeID,
		LeaveType:  leaveType,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Days:       days,
		Reason:     strings.TrimSpace(req.Reason),
		Status:     entity.LeaveStatusPending,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.CreateLeaveRequest(ctx, request); err != nil {
		logrus.WithError(err).Error("failed to create leave request")
		InternalError(c, "failed to submit leave request")
		return
	}

	c.JSON(http.StatusCreated, request)
}

func (h *HTTPHandler) ListLeaveRequests(c *gin.Context) {
	employeeID := parseEmployeeIDQuery(c)
	status := strings.ToLower(strings.TrimSpace(c.Query("status")))

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	rows, err := h.repo.ListLeaveRequests(ctx, employeeID, status)
	if err != nil {
		logrus.WithError(err).Error("failed to list leave requests")
		InternalError(c, "failed to load leave requests")
		return
	}

	c.JSON(http.StatusOK, gin.H{"leave_requests": rows})
}

// DecideLeaveRequest 批复请假申请。只有待审批状态可以批复，且只能批复一次。
func (h *HTTPHandler) DecideLeaveRequest(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req entity.LeaveDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	status := strings.ToLower(strings.TrimSpace(req.Status))
	if status != entity.LeaveStatusApproved && status != entity.LeaveStatusRejected {
		BadRequest(c, ErrCodeInvalidRequest, "status must be approved or rejected")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.DecideLeaveRequest(ctx, id, status, user.ID); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			NotFound(c, ErrCodeRecordNotFound, "leave request not found")
		case errors.Is(err, sql.ErrLeaveAlreadyDecided):
			ErrorResponse(c, http.StatusConflict, ErrCodeLeaveAlreadyDecided, "leave request already decided")
		default:
			logrus.WithError(err).Error("failed to decide leave request")
			InternalError(c, "failed to decide leave request")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "leave request " + status})
}

// CreatePerformanceReview 录入绩效评价，评分范围 1-5。
func (h *HTTPHandler) CreatePerformanceReview(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var req entity.PerformanceReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}
	if !validRating(req.OverallRating) || !validRating(req.SkillsRating) || !validRating(req.TeamworkRating) {
		BadRequest(c, ErrCodeInvalidRequest, "ratings must be between 1 and 5")
		return
	}

	review := &entity.DbPerformanceReview{
		EmployeeID:     req.EmployeeID,
		ReviewerID:     user.ID,
		OverallRating:  req.OverallRating,
		SkillsRating:   req.SkillsRating,
		TeamworkRating: req.TeamworkRating,
		Comment:        strings.TrimSpace(req.Comment),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.CreatePerformanceReview(ctx, review); err != nil {
		logrus.WithError(err).Error("failed to create performance review")
		InternalError(c, "failed to save performance review")
		return
	}

	c.JSON(http.StatusCreated, review)
}

func (h *HTTPHandler) ListPerformanceReviews(c *gin.Context) {
	employeeID := parseEmployeeIDQuery(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	rows, err := h.repo.ListPerformanceReviews(ctx, employeeID)
	if err != nil {
		logrus.WithError(err).Error("failed to list performance reviews")
		InternalError(c, "failed to load performance reviews")
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": rows})
}

func (h *HTTPHandler) CreateTrainingProgram(c *gin.Context) {
	var req entity.TrainingCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}
	if req.EndDate.Before(req.StartDate) {
		BadRequest(c, ErrCodeInvalidRequest, "end date must not precede start date")
		return
	}

	program := &entity.DbTrainingProgram{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.CreateTrainingProgram(ctx, program); err != nil {
		logrus.WithError(err).Error("failed to create training program")
		InternalError(c, "failed to create training program")
		return
	}

	c.JSON(http.StatusCreated, program)
}

func (h *HTTPHandler) ListTrainingPrograms(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	rows, err := h.repo.ListTrainingPrograms(ctx)
	if err != nil {
		logrus.WithError(err).Error("failed to list training programs")
		InternalError(c, "failed to load training programs")
		return
	}

	c.JSON(http.StatusOK, gin.H{"programs": rows})
}

// EnrollInTraining 当前用户报名参加培训项目，重复报名不报错。
func (h *HTTPHandler) EnrollInTraining(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.EnrollInTraining(ctx, id, user.ID, user.FullName); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeRecordNotFound, "training program not found")
			return
		}
		logrus.WithError(err).Error("failed to enroll in training")
		InternalError(c, "failed to enroll in training")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "enrolled"})
}

// leaveDays counts the calendar days covered by a leave, inclusive of both
// endpoints. Reversed ranges count as zero.
func leaveDays(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}

func validRating(rating int) bool {
	return rating >= 1 && rating <= 5
}

func sanitizeAttendanceStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case entity.AttendancePresent:
		return entity.AttendancePresent
	case entity.AttendanceAbsent:
		return entity.AttendanceAbsent
	case entity.AttendanceLate:
		return entity.AttendanceLate
	case entity.AttendanceHalfDay:
		return entity.AttendanceHalfDay
	default:
		return ""
	}
}

func sanitizeLeaveType(leaveType string) string {
	switch strings.ToLower(strings.TrimSpace(leaveType)) {
	case entity.LeaveTypeAnnual:
		return entity.LeaveTypeAnnual
	case entity.LeaveTypeSick:
		return entity.LeaveTypeSick
	case entity.LeaveTypePersonal:
		return entity.LeaveTypePersonal
	case entity.LeaveTypeMaternity:
		return entity.LeaveTypeMaternity
	case entity.LeaveTypePaternity:
		return entity.LeaveTypePaternity
	case entity.LeaveTypeUnpaid:
		return entity.LeaveTypeUnpaid
	default:
		return ""
	}
}

func parseEmployeeIDQuery(c *gin.Context) uint {
	raw := strings.TrimSpace(c.Query("employee_id"))
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}
