package services

import (
	"log"

	"shopadmin/internal/models"
	"shopadmin/internal/query"
	"shopadmin/internal/repositories"
	"shopadmin/pkg/events"
)

// OrderService handles order business logic.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	mqClient    *events.Client
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, mqClient *events.Client) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		mqClient:    mqClient,
	}
}

// Create validates that every referenced product exists and is active,
// then persists the order for the acting purchaser. Each line item keeps
// the price submitted with it, independent of the current product price.
func (s *OrderService) Create(actor *models.User, order *models.Order) (*models.Order, error) {
	ids := make([]string, 0, len(order.Items))
	seen := make(map[string]struct{}, len(order.Items))
	for _, item := range order.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}

	products, err := s.productRepo.GetActiveByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(products) != len(ids) {
		return nil, ErrProductsUnavailable
	}

	order.UserID = actor.ID
	if order.Status == "" {
		order.Status = models.OrderPending
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}

	if s.mqClient != nil {
		if err := s.mqClient.PublishOrderCreated(order.ID, order.UserID, order.Total); err != nil {
			log.Printf("Warning: failed to publish order created event for order %s: %v", order.ID, err)
		}
	}

	return order, nil
}

// List returns the orders visible to the actor: privileged callers see
// all orders (further narrowed by the customer/user filter parameters),
// everyone else sees only their own.
func (s *OrderService) List(actor *models.User, params query.Params) ([]models.Order, query.Meta, error) {
	scope := repositories.OrderScope{}
	if !actor.IsPrivileged() {
		scope.UserID = actor.ID
	}
	return s.orderRepo.List(scope, params)
}

// Get retrieves an order; only privileged callers and the purchaser may
// see it.
func (s *OrderService) Get(actor *models.User, id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !actor.IsPrivileged() && order.UserID != actor.ID {
		return nil, ErrForbidden
	}
	return order, nil
}

// UpdateStatus sets the order status unconditionally; no transition
// ordering is enforced.
func (s *OrderService) UpdateStatus(id, status string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	order.Status = status
	if err := s.orderRepo.Save(order); err != nil {
		return nil, err
	}
	return order, nil
}
