package services

import (
	"shopadmin/internal/models"
	"shopadmin/internal/repositories"
)

// Stats is the role-specific dashboard block, computed fresh per request.
// RemainingUsers and MaxManagedUsers are null for superAdmins.
type Stats struct {
	TotalUsers      int64  `json:"totalUsers"`
	ActiveUsers     int64  `json:"activeUsers"`
	RemainingUsers  *int64 `json:"remainingUsers"`
	MaxManagedUsers *int   `json:"maxManagedUsers"`
	TotalOrders     int64  `json:"totalOrders"`
	TotalProducts   int64  `json:"totalProducts"`
}

// StatsService computes aggregate counts for the dashboard.
type StatsService struct {
	userRepo    repositories.UserRepository
	productRepo repositories.ProductRepository
	orderRepo   repositories.OrderRepository
}

// NewStatsService creates a new StatsService.
func NewStatsService(userRepo repositories.UserRepository, productRepo repositories.ProductRepository, orderRepo repositories.OrderRepository) *StatsService {
	return &StatsService{
		userRepo:    userRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
	}
}

// ForUser returns global totals for a superAdmin and manager-scoped
// totals (plus remaining quota) for an admin.
func (s *StatsService) ForUser(actor *models.User) (*Stats, error) {
	switch actor.Role {
	case models.RoleSuperAdmin:
		return s.globalStats()
	case models.RoleAdmin:
		return s.adminStats(actor)
	default:
		return nil, ErrForbidden
	}
}

func (s *StatsService) globalStats() (*Stats, error) {
	totalUsers, err := s.userRepo.CountNonSuperAdmins(false)
	if err != nil {
		return nil, err
	}
	activeUsers, err := s.userRepo.CountNonSuperAdmins(true)
	if err != nil {
		return nil, err
	}
	totalOrders, err := s.orderRepo.Count()
	if err != nil {
		return nil, err
	}
	totalProducts, err := s.productRepo.CountNotDeleted("")
	if err != nil {
		return nil, err
	}
	return &Stats{
		TotalUsers:    totalUsers,
		ActiveUsers:   activeUsers,
		TotalOrders:   totalOrders,
		TotalProducts: totalProducts,
	}, nil
}

func (s *StatsService) adminStats(actor *models.User) (*Stats, error) {
	totalUsers, err := s.userRepo.CountManagedNotDeleted(actor.ID)
	if err != nil {
		return nil, err
	}
	activeUsers, err := s.userRepo.CountManagedActive(actor.ID)
	if err != nil {
		return nil, err
	}

	managedIDs, err := s.userRepo.ManagedIDs(actor.ID)
	if err != nil {
		return nil, err
	}
	totalOrders, err := s.orderRepo.CountByUserIDs(managedIDs)
	if err != nil {
		return nil, err
	}
	totalProducts, err := s.productRepo.CountNotDeleted(actor.ID)
	if err != nil {
		return nil, err
	}

	remaining := int64(actor.MaxManagedUsers) - activeUsers
	if remaining < 0 {
		remaining = 0
	}
	maxManaged := actor.MaxManagedUsers
	return &Stats{
		TotalUsers:      totalUsers,
		ActiveUsers:     activeUsers,
		RemainingUsers:  &remaining,
		MaxManagedUsers: &maxManaged,
		TotalOrders:     totalOrders,
		TotalProducts:   totalProducts,
	}, nil
}
