package repositories

import (
	"errors"
	"fmt"

	"shopadmin/internal/models"
	"shopadmin/internal/query"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var userFilterColumns = map[string]string{
	"status": "status",
	"role":   "role",
	"name":   "name",
	"email":  "email",
}

var userSortColumns = map[string]string{
	"createdAt": "created_at",
	"name":      "name",
	"email":     "email",
	"role":      "role",
	"status":    "status",
}

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{db: db}
}

// Create inserts a new user, assigning a uuid when none is set.
// Requires the connection to be opened with TranslateError so the
// driver maps unique-constraint violations onto gorm.ErrDuplicatedKey.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Save persists all fields of an existing user.
func (r *GORMUserRepository) Save(user *models.User) error {
	if err := r.db.Save(user).Error; err != nil {
		return fmt.Errorf("failed to save user %s: %w", user.ID, err)
	}
	return nil
}

// GetByID retrieves a user by id.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by email. Lookups are case-insensitive
// because emails are stored lowercased.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

// GetAdminByID retrieves a user by id scoped to role=admin.
func (r *GORMUserRepository) GetAdminByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ? AND role = ?", id, models.RoleAdmin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get admin by ID %s: %w", id, err)
	}
	return &user, nil
}

// ListManaged lists the users managed by the given admin.
func (r *GORMUserRepository) ListManaged(managerID string, params query.Params) ([]models.User, query.Meta, error) {
	return r.list(func(db *gorm.DB) *gorm.DB {
		return db.Where("manager_id = ?", managerID)
	}, params)
}

// ListNonSuperAdmins lists every user except superAdmins.
func (r *GORMUserRepository) ListNonSuperAdmins(params query.Params) ([]models.User, query.Meta, error) {
	return r.list(func(db *gorm.DB) *gorm.DB {
		return db.Where("role <> ?", models.RoleSuperAdmin)
	}, params)
}

// ListAdmins lists users with role=admin.
func (r *GORMUserRepository) ListAdmins(params query.Params) ([]models.User, query.Meta, error) {
	return r.list(func(db *gorm.DB) *gorm.DB {
		return db.Where("role = ?", models.RoleAdmin)
	}, params)
}

// list runs the composed fetch pipeline and its sibling count pipeline
// over the same base scope and predicates.
func (r *GORMUserRepository) list(base func(*gorm.DB) *gorm.DB, params query.Params) ([]models.User, query.Meta, error) {
	f := query.New(params).
		Search("name", "email").
		Filter(userFilterColumns).
		Sort(userSortColumns)
	p := f.Paginate()

	var total int64
	if err := f.ApplyCount(base(r.db.Model(&models.User{}))).Count(&total).Error; err != nil {
		return nil, query.Meta{}, fmt.Errorf("failed to count users: %w", err)
	}

	var users []models.User
	if err := f.Apply(base(r.db.Model(&models.User{}))).Find(&users).Error; err != nil {
		return nil, query.Meta{}, fmt.Errorf("failed to list users: %w", err)
	}
	return users, query.PaginationMeta(p.Page, p.RowsPerPage, total), nil
}

// CountManagedActive counts the active users under a manager.
func (r *GORMUserRepository) CountManagedActive(managerID string) (int64, error) {
	var n int64
	err := r.db.Model(&models.User{}).
		Where("manager_id = ? AND status = ?", managerID, models.StatusActive).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count active managed users: %w", err)
	}
	return n, nil
}

// CountManagedNotDeleted counts a manager's users that are not soft-deleted.
func (r *GORMUserRepository) CountManagedNotDeleted(managerID string) (int64, error) {
	var n int64
	err := r.db.Model(&models.User{}).
		Where("manager_id = ? AND status <> ?", managerID, models.StatusDeleted).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count managed users: %w", err)
	}
	return n, nil
}

// CountCustomers counts users with the customer role.
func (r *GORMUserRepository) CountCustomers(activeOnly bool) (int64, error) {
	db := r.db.Model(&models.User{}).Where("role = ?", models.RoleCustomer)
	if activeOnly {
		db = db.Where("status = ?", models.StatusActive)
	}
	var n int64
	if err := db.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return n, nil
}

// CountNonSuperAdmins counts every user except superAdmins.
func (r *GORMUserRepository) CountNonSuperAdmins(activeOnly bool) (int64, error) {
	db := r.db.Model(&models.User{}).Where("role <> ?", models.RoleSuperAdmin)
	if activeOnly {
		db = db.Where("status = ?", models.StatusActive)
	}
	var n int64
	if err := db.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

// ManagedIDs returns the ids of every user under a manager.
func (r *GORMUserRepository) ManagedIDs(managerID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&models.User{}).
		Where("manager_id = ?", managerID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list managed user ids: %w", err)
	}
	return ids, nil
}
