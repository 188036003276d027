package repositories

import (
	"errors"

	"shopadmin/internal/models"
	"shopadmin/internal/query"
)

// ErrNotFound is returned by every repository when a record is absent.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert violates a unique constraint,
// such as the user email index. It closes the check-then-create window:
// even when two creates pass the email pre-check, the loser of the
// insert race gets this instead of an opaque driver error.
var ErrDuplicate = errors.New("duplicate record")

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	Save(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetAdminByID(id string) (*models.User, error)

	ListManaged(managerID string, params query.Params) ([]models.User, query.Meta, error)
	ListNonSuperAdmins(params query.Params) ([]models.User, query.Meta, error)
	ListAdmins(params query.Params) ([]models.User, query.Meta, error)

	CountManagedActive(managerID string) (int64, error)
	CountManagedNotDeleted(managerID string) (int64, error)
	CountCustomers(activeOnly bool) (int64, error)
	CountNonSuperAdmins(activeOnly bool) (int64, error)
	ManagedIDs(managerID string) ([]string, error)
}
