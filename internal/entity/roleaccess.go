package entity

import "time"

// DbRoleAccess maps a role to the sections it may reach. Consumed by the
// API role gate in addition to the coarse role constants on DbUser.
type DbRoleAccess struct {
	ID                 uint        `gorm:"primarykey" json:"id"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
	RoleName           string      `gorm:"column:role_name;type:varchar(50);uniqueIndex;not null" json:"role_name"`
	AccessibleSections StringArray `gorm:"column:accessible_sections;type:text" json:"accessible_sections"`
}

func (DbRoleAccess) TableName() string {
	return "role_access"
}

type RoleAccessRequest struct {
	RoleName           string   `json:"role_name" binding:"required"`
	AccessibleSections []string `json:"accessible_sections" binding:"required"`
}
