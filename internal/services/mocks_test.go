package services

import (
	"shopadmin/internal/models"
	"shopadmin/internal/query"
	"shopadmin/internal/repositories"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a testify mock for repositories.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) Save(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetAdminByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ListManaged(managerID string, params query.Params) ([]models.User, query.Meta, error) {
	args := m.Called(managerID, params)
	return args.Get(0).([]models.User), args.Get(1).(query.Meta), args.Error(2)
}

func (m *MockUserRepository) ListNonSuperAdmins(params query.Params) ([]models.User, query.Meta, error) {
	args := m.Called(params)
	return args.Get(0).([]models.User), args.Get(1).(query.Meta), args.Error(2)
}

func (m *MockUserRepository) ListAdmins(params query.Params) ([]models.User, query.Meta, error) {
	args := m.Called(params)
	return args.Get(0).([]models.User), args.Get(1).(query.Meta), args.Error(2)
}

func (m *MockUserRepository) CountManagedActive(managerID string) (int64, error) {
	args := m.Called(managerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) CountManagedNotDeleted(managerID string) (int64, error) {
	args := m.Called(managerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) CountCustomers(activeOnly bool) (int64, error) {
	args := m.Called(activeOnly)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) CountNonSuperAdmins(activeOnly bool) (int64, error) {
	args := m.Called(activeOnly)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) ManagedIDs(managerID string) ([]string, error) {
	args := m.Called(managerID)
	return args.Get(0).([]string), args.Error(1)
}

// MockProductRepository is a testify mock for repositories.ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Save(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(id string) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) GetActiveByIDs(ids []string) ([]models.Product, error) {
	args := m.Called(ids)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) List(scope repositories.ProductScope, params query.Params) ([]models.Product, query.Meta, error) {
	args := m.Called(scope, params)
	return args.Get(0).([]models.Product), args.Get(1).(query.Meta), args.Error(2)
}

func (m *MockProductRepository) CountNotDeleted(adminID string) (int64, error) {
	args := m.Called(adminID)
	return args.Get(0).(int64), args.Error(1)
}

// MockOrderRepository is a testify mock for repositories.OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(order *models.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) Save(order *models.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) List(scope repositories.OrderScope, params query.Params) ([]models.Order, query.Meta, error) {
	args := m.Called(scope, params)
	return args.Get(0).([]models.Order), args.Get(1).(query.Meta), args.Error(2)
}

func (m *MockOrderRepository) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) CountByUserIDs(ids []string) (int64, error) {
	args := m.Called(ids)
	return args.Get(0).(int64), args.Error(1)
}
