package services

import (
	"errors"

	"shopadmin/internal/models"
	"shopadmin/internal/query"
	"shopadmin/internal/repositories"
)

// UserService handles admin-scoped user management: the one-level
// superAdmin -> admin -> managed user hierarchy and the per-admin quota.
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// List returns the users visible to the actor: an admin sees only their
// managed users, a superAdmin sees everyone but superAdmins.
func (s *UserService) List(actor *models.User, params query.Params) ([]models.User, query.Meta, error) {
	if actor.Role == models.RoleAdmin {
		return s.userRepo.ListManaged(actor.ID, params)
	}
	return s.userRepo.ListNonSuperAdmins(params)
}

// Get retrieves a single user.
func (s *UserService) Get(id string) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// Create creates a user under the actor's authority. An admin creates a
// managed user bound to their quota; a superAdmin creates an admin.
// The quota check and the insert are two separate statements; two
// concurrent creates can both pass the check.
func (s *UserService) Create(actor *models.User, name, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)

	role := models.RoleManaged
	var managerID *string
	maxManaged := 1

	switch actor.Role {
	case models.RoleAdmin:
		active, err := s.userRepo.CountManagedActive(actor.ID)
		if err != nil {
			return nil, err
		}
		if active >= int64(actor.MaxManagedUsers) {
			return nil, ErrQuotaExceeded
		}
		id := actor.ID
		managerID = &id
	case models.RoleSuperAdmin:
		role = models.RoleAdmin
	}

	if existing, err := s.userRepo.GetByEmail(email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:            name,
		Email:           email,
		Password:        hashed,
		Role:            role,
		Status:          models.StatusActive,
		ManagerID:       managerID,
		MaxManagedUsers: maxManaged,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// UpdateStatus sets a user's status. An admin reactivating a user back
// to active must still have quota headroom; every other transition is
// unconditional.
func (s *UserService) UpdateStatus(actor *models.User, id, status string) (*models.User, error) {
	if actor.Role == models.RoleAdmin && status == models.StatusActive {
		active, err := s.userRepo.CountManagedActive(actor.ID)
		if err != nil {
			return nil, err
		}
		if active >= int64(actor.MaxManagedUsers) {
			return nil, ErrQuotaExceeded
		}
	}

	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	user.Status = status
	if err := s.userRepo.Save(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete soft-deletes a user; the record stays.
func (s *UserService) Delete(id string) error {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return err
	}
	user.Status = models.StatusDeleted
	return s.userRepo.Save(user)
}

// AdminWithStats is an admin row decorated with customer counts.
// The counts are system-wide, not scoped to the admin on the row.
type AdminWithStats struct {
	models.User
	NumberOfUsers              int64 `json:"numberOfUsers"`
	NumberOfCurrentActiveUsers int64 `json:"numberOfCurrentActiveUsers"`
}

// ListAdminsWithStats returns the paginated admins, each row carrying
// the total and active customer counts of the whole system.
func (s *UserService) ListAdminsWithStats(params query.Params) ([]AdminWithStats, query.Meta, error) {
	admins, meta, err := s.userRepo.ListAdmins(params)
	if err != nil {
		return nil, query.Meta{}, err
	}

	totalCustomers, err := s.userRepo.CountCustomers(false)
	if err != nil {
		return nil, query.Meta{}, err
	}
	activeCustomers, err := s.userRepo.CountCustomers(true)
	if err != nil {
		return nil, query.Meta{}, err
	}

	rows := make([]AdminWithStats, 0, len(admins))
	for _, admin := range admins {
		rows = append(rows, AdminWithStats{
			User:                       admin,
			NumberOfUsers:              totalCustomers,
			NumberOfCurrentActiveUsers: activeCustomers,
		})
	}
	return rows, meta, nil
}

// CreateAdmin creates an admin account with the given managed-user quota.
func (s *UserService) CreateAdmin(name, email, password string, numberOfUsers int) (*models.User, error) {
	email = NormalizeEmail(email)

	if existing, err := s.userRepo.GetByEmail(email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	admin := &models.User{
		Name:            name,
		Email:           email,
		Password:        hashed,
		Role:            models.RoleAdmin,
		Status:          models.StatusActive,
		MaxManagedUsers: numberOfUsers,
	}
	if err := s.userRepo.Create(admin); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return admin, nil
}

// UpdateAdminStatus sets the status of a user that has role=admin; any
// other record is reported as not found.
func (s *UserService) UpdateAdminStatus(id, status string) (*models.User, error) {
	admin, err := s.userRepo.GetAdminByID(id)
	if err != nil {
		return nil, err
	}
	admin.Status = status
	if err := s.userRepo.Save(admin); err != nil {
		return nil, err
	}
	return admin, nil
}
