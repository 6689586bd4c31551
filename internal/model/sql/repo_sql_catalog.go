package sql

import (
	"bizsuite/internal/entity"
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// CreateProduct inserts a new product into the database.
func (r *GormRepository) CreateProduct(ctx context.Context, product *entity.DbProduct) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if product == nil {
		return fmt.Errorf("product is nil")
	}
	return r.db.WithContext(ctx).Create(product).Error
}

// UpdateProduct updates a product with the provided fields.
func (r *GormRepository) UpdateProduct(ctx context.Context, id uint, updates entity.ProductUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid product id")
	}
	fields := updates.ToMap()
	if len(fields) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&entity.DbProduct{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetProduct loads a product with its supplier.
func (r *GormRepository) GetProduct(ctx context.Context, id uint) (*entity.DbProduct, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid product id")
	}
	var product entity.DbProduct
	if err := r.db.WithContext(ctx).Preload("Supplier").First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts retrieves paginated products.
func (r *GormRepository) ListProducts(ctx context.Context, params *entity.ProductQuery) ([]entity.DbProduct, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).Model(&entity.DbProduct{}).Preload("Supplier")
	if params != nil {
		if trimmed := strings.TrimSpace(params.Category); trimmed != "" {
			query = query.Where("category = ?", trimmed)
		}
		if keyword := strings.TrimSpace(params.Keyword); keyword != "" {
			kw := "%" + strings.ToLower(keyword) + "%"
			query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", kw, kw)
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

	var products []entity.DbProduct
	if err := query.Order("id DESC").Offset(offset).Limit(pageSize).Find(&products).Error; err != nil {
		return nil, nil, err
	}

	meta := r.calculatePagination(total, page, pageSize)
	return products, meta, nil
}

// DeleteProduct removes a product by ID.
func (r *GormRepository) DeleteProduct(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid product id")
	}
	result := r.db.WithContext(ctx).Delete(&entity.DbProduct{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListLowStockProducts returns products at or below the given quantity,
// supplier preloaded for the restock notification.
func (r *GormRepository) ListLowStockProducts(ctx context.Context, threshold int) ([]entity.DbProduct, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var products []entity.DbProduct
	if err := r.db.WithContext(ctx).Preload("Supplier").
		Where("quantity <= ?", threshold).
		Order("quantity ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// CreateSupplier inserts a new supplier.
func (r *GormRepository) CreateSupplier(ctx context.Context, supplier *entity.DbSupplier) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if supplier == nil {
		return fmt.Errorf("supplier is nil")
	}
	return r.db.WithContext(ctx).Create(supplier).Error
}

// UpdateSupplier updates a supplier with the provided fields.
func (r *GormRepository) UpdateSupplier(ctx context.Context, id uint, updates entity.SupplierUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid supplier id")
	}
	fields := updates.ToMap()
	if len(fields) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&entity.DbSupplier{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetSupplier loads a supplier by ID.
func (r *GormRepository) GetSupplier(ctx context.Context, id uint) (*entity.DbSupplier, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid supplier id")
	}
	var supplier entity.DbSupplier
	if err := r.db.WithContext(ctx).First(&supplier, id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

// ListSuppliers returns all suppliers.
func (r *GormRepository) ListSuppliers(ctx context.Context) ([]entity.DbSupplier, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var suppliers []entity.DbSupplier
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

// DeleteSupplier removes a supplier by ID.
func (r *GormRepository) DeleteSupplier(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid supplier id")
	}
	result := r.db.WithContext(ctx).Delete(&entity.DbSupplier{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
