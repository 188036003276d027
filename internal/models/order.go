package models

import "time"

// Order statuses. Transitions are not ordered; any value may follow any
// other via the privileged status-update endpoint.
const (
	OrderPending   = "pending"
	OrderPaid      = "paid"
	OrderShipped   = "shipped"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
)

// OrderItem is a single line item. Price is the unit price submitted at
// order time; later product price changes never touch it.
type OrderItem struct {
	ID        uint    `json:"-" gorm:"primaryKey;autoIncrement"`
	OrderID   string  `json:"-" gorm:"index;type:varchar(36)"`
	ProductID string  `json:"prod_id" gorm:"type:varchar(36)" validate:"required"`
	Count     int     `json:"count" validate:"required,gte=1"`
	Size      string  `json:"size" gorm:"type:varchar(50)"`
	Color     string  `json:"color" gorm:"type:varchar(50)"`
	Price     float64 `json:"price" validate:"gte=0"`
}

// Order represents a purchase. Orders are never deleted.
type Order struct {
	ID               string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID           string      `json:"user" gorm:"index;type:varchar(36)"`
	Items            []OrderItem `json:"items" gorm:"foreignKey:OrderID" validate:"required,min=1,dive"`
	Address          string      `json:"address" validate:"required"`
	Shipping         float64     `json:"shipping" validate:"gte=0"`
	Total            float64     `json:"total" validate:"gte=0"`
	Discount         float64     `json:"discount" validate:"gte=0"`
	Notes            string      `json:"notes"`
	PhoneNumber      string      `json:"phoneNumber" gorm:"type:varchar(30)" validate:"required"`
	CustomerName     string      `json:"customerName" gorm:"type:varchar(100)" validate:"required"`
	Status           string      `json:"status" gorm:"index;type:varchar(20);default:pending"`
	CreatedByAdminID *string     `json:"createdByAdmin" gorm:"type:varchar(36)"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
