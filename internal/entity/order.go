package entity

import "time"

const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusCancelled = "cancelled"
)

// DbOrder 表示客户订单。
type DbOrder struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Email       string    `gorm:"column:email;type:varchar(255);index;not null" json:"email"`
	FinanceID   *uint     `gorm:"column:finance_id;index" json:"finance_id"`
	TotalAmount float64   `gorm:"column:total_amount;not null" json:"total_amount"`
	Status      string    `gorm:"column:status;type:varchar(30);not null;default:pending" json:"status"`

	Items []DbOrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

func (DbOrder) TableName() string {
	return "orders"
}

// DbOrderItem 表示订单中的单个商品行。
type DbOrderItem struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	OrderID     uint   `gorm:"column:order_id;index;not null" json:"order_id"`
	ProductID   uint   `gorm:"column:product_id;index;not null" json:"product_id"`
	ProductName string `gorm:"column:product_name;type:varchar(255);not null" json:"product_name"`
	Quantity    int    `gorm:"column:quantity;not null" json:"quantity"`
}

func (DbOrderItem) TableName() string {
	return "order_items"
}

// DbFinanceRecord 表示财务文档登记。
type DbFinanceRecord struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	FullName      string    `gorm:"column:full_name;type:varchar(255);not null" json:"full_name"`
	Email         string    `gorm:"column:email;type:varchar(255);index;not null" json:"email"`
	ContactNumber string    `gorm:"column:contact_number;type:varchar(20);not null" json:"contact_number"`
	DocumentType  string    `gorm:"column:document_type;type:varchar(100);not null" json:"document_type"`
	DocumentPath  string    `gorm:"column:document_path;type:varchar(512);not null" json:"document_path"`
	Message       string    `gorm:"column:message;type:text" json:"message"`
	Status        string    `gorm:"column:status;type:varchar(30);not null;default:pending" json:"status"`
}

func (DbFinanceRecord) TableName() string {
	return "finance_records"
}

type OrderItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type OrderCreateRequest struct {
	Email     string             `json:"email" binding:"required,email"`
	FinanceID *uint              `json:"finance_id"`
	Items     []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

type OrderUpdateRequest struct {
	Status *string `json:"status,omitempty"`
}

type OrderQuery struct {
	BaseParams
	Email  string `json:"email" form:"email" query:"email"`
	Status string `json:"status" form:"status" query:"status"`
}

type OrderListResponse struct {
	Orders []DbOrder `json:"orders"`
	Meta   *Meta     `json:"meta"`
}

type FinanceCreateRequest struct {
	FullName      string `json:"full_name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	ContactNumber string `json:"contact_number" binding:"required"`
	DocumentType  string `json:"document_type" binding:"required"`
	DocumentPath  string `json:"document_path" binding:"required"`
	Message       string `json:"message"`
}

type FinanceUpdateRequest struct {
	DocumentType *string `json:"document_type,omitempty"`
	DocumentPath *string `json:"document_path,omitempty"`
	Message      *string `json:"message,omitempty"`
	Status       *string `json:"status,omitempty"`
}
