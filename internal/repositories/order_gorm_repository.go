package repositories

import (
	"errors"
	"fmt"

	"shopadmin/internal/models"
	"shopadmin/internal/query"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var orderFilterColumns = map[string]string{
	"status":       "status",
	"customer":     "user_id",
	"user":         "created_by_admin_id",
	"phoneNumber":  "phone_number",
	"customerName": "customer_name",
}

var orderSortColumns = map[string]string{
	"createdAt":    "created_at",
	"total":        "total",
	"status":       "status",
	"customerName": "customer_name",
}

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

// Create inserts a new order with its line items.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// Save persists all fields of an existing order.
func (r *GORMOrderRepository) Save(order *models.Order) error {
	if err := r.db.Save(order).Error; err != nil {
		return fmt.Errorf("failed to save order %s: %w", order.ID, err)
	}
	return nil
}

// GetByID retrieves an order with its line items.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// List runs the composed fetch pipeline and its sibling count pipeline
// over the same scope and predicates. The customer and user filter
// parameters map onto the purchaser and creating-admin columns.
func (r *GORMOrderRepository) List(scope OrderScope, params query.Params) ([]models.Order, query.Meta, error) {
	base := func(db *gorm.DB) *gorm.DB {
		if scope.UserID != "" {
			db = db.Where("user_id = ?", scope.UserID)
		}
		return db
	}

	f := query.New(params).
		Search("customer_name", "phone_number").
		Filter(orderFilterColumns).
		DateRange("created_at").
		Sort(orderSortColumns)
	p := f.Paginate()

	var total int64
	if err := f.ApplyCount(base(r.db.Model(&models.Order{}))).Count(&total).Error; err != nil {
		return nil, query.Meta{}, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []models.Order
	if err := f.Apply(base(r.db.Model(&models.Order{})).Preload("Items")).Find(&orders).Error; err != nil {
		return nil, query.Meta{}, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, query.PaginationMeta(p.Page, p.RowsPerPage, total), nil
}

// Count counts all orders.
func (r *GORMOrderRepository) Count() (int64, error) {
	var n int64
	if err := r.db.Model(&models.Order{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return n, nil
}

// CountByUserIDs counts orders placed by any of the given purchasers.
func (r *GORMOrderRepository) CountByUserIDs(ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var n int64
	if err := r.db.Model(&models.Order{}).Where("user_id IN ?", ids).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count orders by users: %w", err)
	}
	return n, nil
}
