package repositories

import (
	"shopadmin/internal/models"
	"shopadmin/internal/query"
)

// ProductScope restricts a product listing before the composer stages run.
type ProductScope struct {
	Status  string // only products with this status when set
	AdminID string // only products owned by this admin when set
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	Create(product *models.Product) error
	Save(product *models.Product) error
	GetByID(id string) (*models.Product, error)
	GetActiveByIDs(ids []string) ([]models.Product, error)
	List(scope ProductScope, params query.Params) ([]models.Product, query.Meta, error)
	CountNotDeleted(adminID string) (int64, error)
}
