package entity

import "time"

// DbProduct 表示库存中的商品。
type DbProduct struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Price       float64   `gorm:"column:price;not null" json:"price"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	ImagePath   string    `gorm:"column:image_path;type:varchar(512)" json:"image_path"`
	Category    string    `gorm:"column:category;type:varchar(100);index" json:"category"`
	Quantity    int       `gorm:"column:quantity;not null;default:0" json:"quantity"`
	SupplierID  *uint     `gorm:"column:supplier_id;index" json:"supplier_id"`

	Supplier *DbSupplier `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
}

func (DbProduct) TableName() string {
	return "products"
}

// DbSupplier 表示商品的供应商。
type DbSupplier struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"column:email;type:varchar(255);not null" json:"email"`
	Phone     string    `gorm:"column:phone;type:varchar(20);not null" json:"phone"`
}

func (DbSupplier) TableName() string {
	return "suppliers"
}

type ProductCreateRequest struct {
	Name        string  `json:"name" binding:"required"`
	Price       float64 `json:"price" binding:"required"`
	Description string  `json:"description"`
	ImagePath   string  `json:"image_path"`
	Category    string  `json:"category" binding:"required"`
	Quantity    int     `json:"quantity"`
	SupplierID  *uint   `json:"supplier_id"`
}

type ProductUpdateRequest struct {
	Name        *string  `json:"name,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Description *string  `json:"description,omitempty"`
	ImagePath   *string  `json:"image_path,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Quantity    *int     `json:"quantity,omitempty"`
	SupplierID  *uint    `json:"supplier_id,omitempty"`
}

type ProductQuery struct {
	BaseParams
	Category string `json:"category" form:"category" query:"category"`
	Keyword  string `json:"keyword" form:"keyword" query:"keyword"`
}

type ProductListResponse struct {
	Products []DbProduct `json:"products"`
	Meta     *Meta       `json:"meta"`
}

type SupplierRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"required"`
}
