package entity

import "time"

// 考勤状态
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceLate    = "late"
	AttendanceHalfDay = "half-day"
)

// 请假类型
const (
	LeaveTypeAnnual    = "annual"
	LeaveTypeSick      = "sick"
	LeaveTypePersonal  = "personal"
	LeaveTypeMaternity = "maternity"
	LeaveTypePaternity = "paternity"
	LeaveTypeUnpaid    = "unpaid"
)

// 请假单状态
const (
	LeaveStatusPending  = "pending"
	LeaveStatusApproved = "approved"
	LeaveStatusRejected = "rejected"
)

// DbAttendance 员工考勤记录，每名员工每天一条。
type DbAttendance struct {
	ID         uint       `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	EmployeeID uint       `gorm:"column:employee_id;not null;uniqueIndex:idx_attendance_employee_day" json:"employee_id"`
	Day        string     `gorm:"column:day;type:varchar(10);not null;uniqueIndex:idx_attendance_employee_day" json:"day"`
	Status     string     `gorm:"column:status;type:varchar(20);not null" json:"status"`
	CheckIn    *time.Time `gorm:"column:check_in" json:"check_in,omitempty"`
	CheckOut   *time.Time `gorm:"column:check_out" json:"check_out,omitempty"`
	Location   string     `gorm:"column:location;type:varchar(255)" json:"location,omitempty"`
	WorkHours  float64    `gorm:"column:work_hours" json:"work_hours"`
	Notes      string     `gorm:"column:notes;type:text" json:"notes,omitempty"`
}

func (DbAttendance) TableName() string {
	return "attendances"
}

// DbLeaveRequest 请假申请。Days 按起止日期（含两端）折算。
type DbLeaveRequest struct {
	ID         uint       `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	EmployeeID uint       `gorm:"column:employee_id;index;not null" json:"employee_id"`
	LeaveType  string     `gorm:"column:leave_type;type:varchar(20);not null" json:"leave_type"`
	StartDate  time.Time  `gorm:"column:start_date;not null" json:"start_date"`
	EndDate    time.Time  `gorm:"column:end_date;not null" json:"end_date"`
	Days       int        `gorm:"column:days;not null" json:"days"`
	Reason     string     `gorm:"column:reason;type:text" json:"reason"`
	Status     string     `gorm:"column:status;type:varchar(20);not null;default:pending" json:"status"`
	DecidedBy  *uint      `gorm:"column:decided_by" json:"decided_by,omitempty"`
	DecidedAt  *time.Time `gorm:"column:decided_at" json:"decided_at,omitempty"`
}

func (DbLeaveRequest) TableName() string {
	return "leave_requests"
}

// DbPerformanceReview 绩效评价，评分范围 1-5。
type DbPerformanceReview struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	EmployeeID     uint      `gorm:"column:employee_id;index;not null" json:"employee_id"`
	ReviewerID     uint      `gorm:"column:reviewer_id;not null" json:"reviewer_id"`
	OverallRating  int       `gorm:"column:overall_rating;not null" json:"overall_rating"`
	SkillsRating   int       `gorm:"column:skills_rating;not null" json:"skills_rating"`
	TeamworkRating int       `gorm:"column:teamwork_rating;not null" json:"teamwork_rating"`
	Comment        string    `gorm:"column:comment;type:text" json:"comment"`
}

func (DbPerformanceReview) TableName() string {
	return "performance_reviews"
}

// DbTrainingProgram 培训项目与报名名单。
type DbTrainingProgram struct {
	ID          uint                   `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	Title       string                 `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Description string                 `gorm:"column:description;type:text" json:"description"`
	StartDate   time.Time              `gorm:"column:start_date;not null" json:"start_date"`
	EndDate     time.Time              `gorm:"column:end_date;not null" json:"end_date"`
	Enrollments []DbTrainingEnrollment `gorm:"foreignKey:ProgramID" json:"enrollments,omitempty"`
}

func (DbTrainingProgram) TableName() string {
	return "training_programs"
}

// DbTrainingEnrollment 培训报名，项目与员工的组合唯一。
type DbTrainingEnrollment struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	ProgramID    uint      `gorm:"column:program_id;not null;uniqueIndex:idx_training_program_employee" json:"program_id"`
	EmployeeID   uint      `gorm:"column:employee_id;not null;uniqueIndex:idx_training_program_employee" json:"employee_id"`
	EmployeeName string    `gorm:"column:employee_name;type:varchar(255)" json:"employee_name"`
}

func (DbTrainingEnrollment) TableName() string {
	return "training_enrollments"
}

type AttendanceRecordRequest struct {
	EmployeeID uint       `json:"employee_id" binding:"required"`
	Day        string     `json:"day" binding:"required"`
	Status     string     `json:"status" binding:"required"`
	CheckIn    *time.Time `json:"check_in"`
	CheckOut   *time.Time `json:"check_out"`
	Location   string     `json:"location"`
	WorkHours  float64    `json:"work_hours"`
	Notes      string     `json:"notes"`
}

type LeaveCreateRequest struct {
	EmployeeID uint      `json:"employee_id"`
	LeaveType  string    `json:"leave_type" binding:"required"`
	StartDate  time.Time `json:"start_date" binding:"required"`
	EndDate    time.Time `json:"end_date" binding:"required"`
	Reason     string    `json:"reason"`
}

type LeaveDecisionRequest struct {
	Status string `json:"status" binding:"required"`
}

type PerformanceReviewRequest struct {
	EmployeeID     uint   `json:"employee_id" binding:"required"`
	OverallRating  int    `json:"overall_rating" binding:"required"`
	SkillsRating   int    `json:"skills_rating" binding:"required"`
	TeamworkRating int    `json:"teamwork_rating" binding:"required"`
	Comment        string `json:"comment"`
}

type TrainingCreateRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date" binding:"required"`
	EndDate     time.Time `json:"end_date" binding:"required"`
}
