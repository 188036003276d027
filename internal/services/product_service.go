package services

import (
	"shopadmin/internal/models"
	"shopadmin/internal/query"
	"shopadmin/internal/repositories"
)

// ProductInput carries the fields a creator may set on a product.
type ProductInput struct {
	Name        string
	Image       string
	Category    string
	Price       float64
	Description string
	Colors      []string
	Sizes       []string
}

// ProductUpdate carries the fields an update may change; nil means the
// field was not provided and keeps its current value.
type ProductUpdate struct {
	Name        *string
	Image       *string
	Category    *string
	Price       *float64
	Description *string
	Colors      []string
	Sizes       []string
	Status      *string
}

// ProductService handles catalog business logic: role-scoped listing and
// the ownership rules on create/update.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

// List returns the products visible to the actor. Anonymous and
// non-privileged callers see active products only; an admin sees their
// own; a managed user sees their manager's; a superAdmin sees everything.
func (s *ProductService) List(actor *models.User, params query.Params) ([]models.Product, query.Meta, error) {
	scope := repositories.ProductScope{}
	if actor == nil || !actor.IsPrivileged() {
		scope.Status = models.ProductActive
	}
	if actor != nil {
		if actor.Role == models.RoleAdmin {
			scope.AdminID = actor.ID
		} else if actor.IsManaged() {
			scope.AdminID = *actor.ManagerID
		}
	}
	return s.repo.List(scope, params)
}

// Get retrieves a single product by id.
func (s *ProductService) Get(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// Create creates a product owned by the actor's resolved admin: the
// actor itself when it is an admin, the actor's manager otherwise.
func (s *ProductService) Create(actor *models.User, input ProductInput) (*models.Product, error) {
	product := &models.Product{
		Name:        input.Name,
		Image:       input.Image,
		AdminID:     actor.OwnerID(),
		Category:    input.Category,
		Price:       input.Price,
		Description: input.Description,
		Colors:      input.Colors,
		Sizes:       input.Sizes,
		Status:      models.ProductActive,
	}
	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update merges the provided fields onto the product. Only the owning
// admin (directly, or through a managed actor) may update.
func (s *ProductService) Update(actor *models.User, id string, update ProductUpdate) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product.AdminID != actor.OwnerID() {
		return nil, ErrForbidden
	}

	if update.Name != nil {
		product.Name = *update.Name
	}
	if update.Image != nil {
		product.Image = *update.Image
	}
	if update.Category != nil {
		product.Category = *update.Category
	}
	if update.Price != nil {
		product.Price = *update.Price
	}
	if update.Description != nil {
		product.Description = *update.Description
	}
	if update.Colors != nil {
		product.Colors = update.Colors
	}
	if update.Sizes != nil {
		product.Sizes = update.Sizes
	}
	if update.Status != nil {
		product.Status = *update.Status
	}

	if err := s.repo.Save(product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateStatus sets the status field only. This path performs no
// ownership check; only create and update do.
func (s *ProductService) UpdateStatus(id, status string) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	product.Status = status
	if err := s.repo.Save(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete soft-deletes a product via its status. No ownership check.
func (s *ProductService) Delete(id string) error {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	product.Status = models.ProductDeleted
	return s.repo.Save(product)
}
