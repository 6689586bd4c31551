package sql

import (
	"bizsuite/internal/entity"
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ErrInsufficientStock is returned when an order line asks for more units
// than a product has on hand. The wrapping error names the product.
var ErrInsufficientStock = errors.New("insufficient stock")

// CreateOrder inserts an order together with its items and decrements stock
// in one transaction. Creation fails if any line exceeds available stock.
func (r *GormRepository) CreateOrder(ctx context.Context, order *entity.DbOrder) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if order == nil {
		return fmt.Errorf("order is nil")
	}
	if len(order.Items) == 0 {
		return fmt.Errorf("order has no items")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range order.Items {
			item := &order.Items[i]
			result := tx.Model(&entity.DbProduct{}).
				Where("id = ? AND quantity >= ?", item.ProductID, item.Quantity).
				Update("quantity", gorm.Expr("quantity - ?", item.Quantity))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("product %d: %w", item.ProductID, ErrInsufficientStock)
			}
		}
		return tx.Create(order).Error
	})
}

// GetOrder loads an order with its items.
func (r *GormRepository) GetOrder(ctx context.Context, id uint) (*entity.DbOrder, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid order id")
	}
	var order entity.DbOrder
	if err := r.db.WithContext(ctx).Preload("Items").First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrderStatus moves an order to a new status.
func (r *GormRepository) UpdateOrderStatus(ctx context.Context, id uint, status string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid order id")
	}
	if strings.TrimSpace(status) == "" {
		return fmt.Errorf("status is empty")
	}
	result := r.db.WithContext(ctx).Model(&entity.DbOrder{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListOrders retrieves paginated orders with their items.
func (r *GormRepository) ListOrders(ctx context.Context, params *entity.OrderQuery) ([]entity.DbOrder, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).Model(&entity.DbOrder{}).Preload("Items")
	if params != nil {
		if trimmed := strings.TrimSpace(params.Email); trimmed != "" {
			query = query.Where("LOWER(email) = ?", strings.ToLower(trimmed))
		}
		if trimmed := strings.TrimSpace(params.Status); trimmed != "" {
			query = query.Where("status = ?", trimmed)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var base *entity.BaseParams
	if params != nil {
		base = &params.BaseParams
	}
	page, pageSize, offset := pageBounds(base)

	var orders []entity.DbOrder
	if err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(pageSize).Find(&orders).Error; err != nil {
		return nil, nil, err
	}

	meta := r.calculatePagination(total, page, pageSize)
	return orders, meta, nil
}

// DeleteOrder removes an order and its items.
func (r *GormRepository) DeleteOrder(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid order id")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&entity.DbOrderItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&entity.DbOrder{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// CreateFinanceRecord registers a submitted finance document.
func (r *GormRepository) CreateFinanceRecord(ctx context.Context, record *entity.DbFinanceRecord) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if record == nil {
		return fmt.Errorf("record is nil")
	}
	return r.db.WithContext(ctx).Create(record).Error
}

// UpdateFinanceRecord updates a finance record with the provided fields.
func (r *GormRepository) UpdateFinanceRecord(ctx context.Context, id uint, updates entity.FinanceUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid finance record id")
	}
	fields := updates.ToMap()
	if len(fields) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&entity.DbFinanceRecord{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetFinanceRecord loads a finance record by ID.
func (r *GormRepository) GetFinanceRecord(ctx context.Context, id uint) (*entity.DbFinanceRecord, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid finance record id")
	}
	var record entity.DbFinanceRecord
	if err := r.db.WithContext(ctx).First(&record, id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// ListFinanceRecords returns all finance records, newest first.
func (r *GormRepository) ListFinanceRecords(ctx context.Context) ([]entity.DbFinanceRecord, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var records []entity.DbFinanceRecord
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteFinanceRecord removes a finance record by ID.
func (r *GormRepository) DeleteFinanceRecord(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid finance record id")
	}
	result := r.db.WithContext(ctx).Delete(&entity.DbFinanceRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
