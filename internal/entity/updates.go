package entity

import "time"

// UserUpdates 用户更新字段
type UserUpdates struct {
	FullName     *string
	Phone        *string
	Role         *string
	Position     *string
	Status       *string
	PasswordHash *string
	AvatarPath   *string
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u UserUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.FullName != nil {
		updates["full_name"] = *u.FullName
	}
	if u.Phone != nil {
		updates["phone"] = *u.Phone
	}
	if u.Role != nil {
		updates["role"] = *u.Role
	}
	if u.Position != nil {
		updates["position"] = *u.Position
	}
	if u.Status != nil {
		updates["status"] = *u.Status
	}
	if u.PasswordHash != nil {
		updates["password_hash"] = *u.PasswordHash
	}
	if u.AvatarPath != nil {
		updates["avatar_path"] = *u.AvatarPath
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u UserUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// PasswordReset 表示存储在用户记录上的重置令牌对。
type PasswordReset struct {
	Token     string
	ExpiresAt time.Time
}

// ProductUpdates 商品更新字段
type ProductUpdates struct {
	Name        *string
	Price       *float64
	Description *string
	ImagePath   *string
	Category    *string
	Quantity    *int
	SupplierID  *uint
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u ProductUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.Price != nil {
		updates["price"] = *u.Price
	}
	if u.Description != nil {
		updates["description"] = *u.Description
	}
	if u.ImagePath != nil {
		updates["image_path"] = *u.ImagePath
	}
	if u.Category != nil {
		updates["category"] = *u.Category
	}
	if u.Quantity != nil {
		updates["quantity"] = *u.Quantity
	}
	if u.SupplierID != nil {
		updates["supplier_id"] = *u.SupplierID
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u ProductUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// SupplierUpdates 供应商更新字段
type SupplierUpdates struct {
	Name  *string
	Email *string
	Phone *string
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u SupplierUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.Email != nil {
		updates["email"] = *u.Email
	}
	if u.Phone != nil {
		updates["phone"] = *u.Phone
	}
	return updates
}

// FinanceUpdates 财务记录更新字段
type FinanceUpdates struct {
	DocumentType *string
	DocumentPath *string
	Message      *string
	Status       *string
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u FinanceUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.DocumentType != nil {
		updates["document_type"] = *u.DocumentType
	}
	if u.DocumentPath != nil {
		updates["document_path"] = *u.DocumentPath
	}
	if u.Message != nil {
		updates["message"] = *u.Message
	}
	if u.Status != nil {
		updates["status"] = *u.Status
	}
	return updates
}

// PostUpdates 社区动态更新字段
type PostUpdates struct {
	PhotoPath   *string
	Location    *string
	Description *string
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u PostUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.PhotoPath != nil {
		updates["photo_path"] = *u.PhotoPath
	}
	if u.Location != nil {
		updates["location"] = *u.Location
	}
	if u.Description != nil {
		updates["description"] = *u.Description
	}
	return updates
}
