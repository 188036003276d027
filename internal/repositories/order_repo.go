package repositories

import (
	"shopadmin/internal/models"
	"shopadmin/internal/query"
)

// OrderScope restricts an order listing before the composer stages run.
type OrderScope struct {
	UserID string // only this purchaser's orders when set
}

// OrderRepository defines the interface for order data access.
// Orders are never deleted.
type OrderRepository interface {
	Create(order *models.Order) error
	Save(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	List(scope OrderScope, params query.Params) ([]models.Order, query.Meta, error)
	Count() (int64, error)
	CountByUserIDs(ids []string) (int64, error)
}
