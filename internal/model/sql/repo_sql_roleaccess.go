package sql

import (
	"bizsuite/internal/entity"
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertRoleAccess creates or replaces the section list for a role.
func (r *GormRepository) UpsertRoleAccess(ctx context.Context, access *entity.DbRoleAccess) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if access == nil || strings.TrimSpace(access.RoleName) == "" {
		return fmt.Errorf("role name is empty")
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "role_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"accessible_sections", "updated_at"}),
	}).Create(access).Error
}

// GetRoleAccess loads the section list for a role.
func (r *GormRepository) GetRoleAccess(ctx context.Context, roleName string) (*entity.DbRoleAccess, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	trimmed := strings.TrimSpace(roleName)
	if trimmed == "" {
		return nil, fmt.Errorf("role name is empty")
	}
	var access entity.DbRoleAccess
	if err := r.db.WithContext(ctx).Where("role_name = ?", trimmed).First(&access).Error; err != nil {
		return nil, err
	}
	return &access, nil
}

// ListRoleAccess returns all role access rows.
func (r *GormRepository) ListRoleAccess(ctx context.Context) ([]entity.DbRoleAccess, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var rows []entity.DbRoleAccess
	if err := r.db.WithContext(ctx).Order("role_name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteRoleAccess removes a role's access row.
func (r *GormRepository) DeleteRoleAccess(ctx context.Context, roleName string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	trimmed := strings.TrimSpace(roleName)
	if trimmed == "" {
		return fmt.Errorf("role name is empty")
	}
	result := r.db.WithContext(ctx).Where("role_name = ?", trimmed).Delete(&entity.DbRoleAccess{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
