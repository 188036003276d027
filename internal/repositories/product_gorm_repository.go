package repositories

import (
	"errors"
	"fmt"

	"shopadmin/internal/models"
	"shopadmin/internal/query"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var productFilterColumns = map[string]string{
	"status":   "status",
	"category": "category",
	"name":     "name",
	"price":    "price",
	"admin":    "admin_id",
}

var productSortColumns = map[string]string{
	"createdAt": "created_at",
	"name":      "name",
	"price":     "price",
	"category":  "category",
	"status":    "status",
}

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{db: db}
}

// Create inserts a new product, assigning a uuid when none is set.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Save persists all fields of an existing product.
func (r *GORMProductRepository) Save(product *models.Product) error {
	if err := r.db.Save(product).Error; err != nil {
		return fmt.Errorf("failed to save product %s: %w", product.ID, err)
	}
	return nil
}

// GetByID retrieves a single product by its id.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// GetActiveByIDs retrieves the active products among the given ids.
// Callers compare lengths to detect missing or inactive products.
func (r *GORMProductRepository) GetActiveByIDs(ids []string) ([]models.Product, error) {
	var products []models.Product
	err := r.db.
		Where("id IN ? AND status = ?", ids, models.ProductActive).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get products by ids: %w", err)
	}
	return products, nil
}

// List runs the composed fetch pipeline and its sibling count pipeline
// over the same scope and predicates.
func (r *GORMProductRepository) List(scope ProductScope, params query.Params) ([]models.Product, query.Meta, error) {
	base := func(db *gorm.DB) *gorm.DB {
		if scope.Status != "" {
			db = db.Where("status = ?", scope.Status)
		}
		if scope.AdminID != "" {
			db = db.Where("admin_id = ?", scope.AdminID)
		}
		return db
	}

	f := query.New(params).
		Search("name", "description").
		Filter(productFilterColumns).
		Sort(productSortColumns)
	p := f.Paginate()

	var total int64
	if err := f.ApplyCount(base(r.db.Model(&models.Product{}))).Count(&total).Error; err != nil {
		return nil, query.Meta{}, fmt.Errorf("failed to count products: %w", err)
	}

	var products []models.Product
	if err := f.Apply(base(r.db.Model(&models.Product{}))).Find(&products).Error; err != nil {
		return nil, query.Meta{}, fmt.Errorf("failed to list products: %w", err)
	}
	return products, query.PaginationMeta(p.Page, p.RowsPerPage, total), nil
}

// CountNotDeleted counts products that are not soft-deleted, optionally
// scoped to one owning admin.
func (r *GORMProductRepository) CountNotDeleted(adminID string) (int64, error) {
	db := r.db.Model(&models.Product{}).Where("status <> ?", models.ProductDeleted)
	if adminID != "" {
		db = db.Where("admin_id = ?", adminID)
	}
	var n int64
	if err := db.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}
