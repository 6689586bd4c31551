package sql

import (
	"bizsuite/internal/entity"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrLeaveAlreadyDecided is returned when a decision targets a leave request
// that is no longer pending.
var ErrLeaveAlreadyDecided = errors.New("leave request already decided")

// RecordAttendance creates or replaces the attendance entry for an employee
// and day. The (employee_id, day) pair is unique, so re-submitting a day
// updates the existing row.
func (r *GormRepository) RecordAttendance(ctx context.Context, record *entity.DbAttendance) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if record == nil || record.EmployeeID == 0 || strings.TrimSpace(record.Day) == "" {
		return fmt.Errorf("attendance record is incomplete")
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "employee_id"}, {Name: "day"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "check_in", "check_out", "location", "work_hours", "notes", "updated_at",
		}),
	}).Create(record).Error
}

// ListAttendance returns attendance entries, newest day first. A zero
// employeeID returns entries for all employees.
func (r *GormRepository) ListAttendance(ctx context.Context, employeeID uint) ([]entity.DbAttendance, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	query := r.db.WithContext(ctx).Model(&entity.DbAttendance{})
	if employeeID != 0 {
		query = query.Where("employee_id = ?", employeeID)
	}
	var rows []entity.DbAttendance
	if err := query.Order("day DESC, employee_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateLeaveRequest files a new leave request in the pending state.
func (r *GormRepository) CreateLeaveRequest(ctx context.Context, request *entity.DbLeaveRequest) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if request == nil || request.EmployeeID == 0 {
		return fmt.Errorf("leave request is incomplete")
	}
	return r.db.WithContext(ctx).Create(request).Error
}

// ListLeaveRequests returns leave requests filtered by employee and status,
// newest first. Zero/empty filters are ignored.
func (r *GormRepository) ListLeaveRequests(ctx context.Context, employeeID uint, status string) ([]entity.DbLeaveRequest, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	query := r.db.WithContext(ctx).Model(&entity.DbLeaveRequest{})
	if employeeID != 0 {
		query = query.Where("employee_id = ?", employeeID)
	}
	if trimmed := strings.TrimSpace(status); trimmed != "" {
		query = query.Where("status = ?", trimmed)
	}
	var rows []entity.DbLeaveRequest
	if err := query.Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// DecideLeaveRequest moves a pending leave request to approved or rejected.
// The update is conditional on the pending state, so concurrent decisions
// cannot both win; a request that was already decided fails with
// ErrLeaveAlreadyDecided.
func (r *GormRepository) DecideLeaveRequest(ctx context.Context, id uint, status string, decidedBy uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid leave request id")
	}
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&entity.DbLeaveRequest{}).
		Where("id = ? AND status = ?", id, entity.LeaveStatusPending).
		Updates(map[string]interface{}{
			"status":     status,
			"decided_by": decidedBy,
			"decided_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&entity.DbLeaveRequest{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrLeaveAlreadyDecided
	}
	return nil
}

// CreatePerformanceReview stores a review for an employee.
func (r *GormRepository) CreatePerformanceReview(ctx context.Context, review *entity.DbPerformanceReview) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if review == nil || review.EmployeeID == 0 {
		return fmt.Errorf("performance review is incomplete")
	}
	return r.db.WithContext(ctx).Create(review).Error
}

// ListPerformanceReviews returns reviews, newest first. A zero employeeID
// returns reviews for all employees.
func (r *GormRepository) ListPerformanceReviews(ctx context.Context, employeeID uint) ([]entity.DbPerformanceReview, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	query := r.db.WithContext(ctx).Model(&entity.DbPerformanceReview{})
	if employeeID != 0 {
		query = query.Where("employee_id = ?", employeeID)
	}
	var rows []entity.DbPerformanceReview
	if err := query.Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateTrainingProgram registers a new training program.
func (r *GormRepository) CreateTrainingProgram(ctx context.Context, program *entity.DbTrainingProgram) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if program == nil || strings.TrimSpace(program.Title) == "" {
		return fmt.Errorf("training program is incomplete")
	}
	return r.db.WithContext(ctx).Create(program).Error
}

// ListTrainingPrograms returns all programs with their enrollments, soonest
// starting first.
func (r *GormRepository) ListTrainingPrograms(ctx context.Context) ([]entity.DbTrainingProgram, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var rows []entity.DbTrainingProgram
	if err := r.db.WithContext(ctx).Preload("Enrollments").Order("start_date ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// EnrollInTraining enrolls an employee into a program. Re-enrolling is a
// no-op thanks to the unique (program_id, employee_id) pair.
func (r *GormRepository) EnrollInTraining(ctx context.Context, programID, employeeID uint, employeeName string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if programID == 0 || employeeID == 0 {
		return fmt.Errorf("invalid enrollment")
	}
	var program entity.DbTrainingProgram
	if err := r.db.WithContext(ctx).First(&program, programID).Error; err != nil {
		return err
	}
	enrollment := &entity.DbTrainingEnrollment{
		ProgramID:    programID,
		EmployeeID:   employeeID,
		EmployeeName: strings.TrimSpace(employeeName),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "program_id"}, {Name: "employee_id"}},
		DoNothing: true,
	}).Create(enrollment).Error
}
