package models

import "time"

// Product statuses.
const (
	ProductActive   = "active"
	ProductInactive = "inactive"
	ProductDeleted  = "deleted"
)

// Product represents a catalog item. AdminID is the owning admin and is
// immutable after creation: it is resolved from the creator (the creator
// itself when it is an admin, its manager when it is a managed user).
type Product struct {
	ID          string   `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string   `json:"name" gorm:"type:varchar(255)" validate:"required"`
	Image       string   `json:"image" gorm:"type:varchar(512)"`
	AdminID     string   `json:"admin" gorm:"index;type:varchar(36)"`
	Category    string   `json:"category" gorm:"index;type:varchar(100)" validate:"required"`
	Price       float64  `json:"price" validate:"gte=0"`
	Description string   `json:"description"`
	Colors      []string `json:"colors" gorm:"serializer:json"`
	Sizes       []string `json:"sizes" gorm:"serializer:json"`
	Status      string   `json:"status" gorm:"index;type:varchar(20);default:active"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
