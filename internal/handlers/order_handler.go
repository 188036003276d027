package handlers

import (
	"errors"
	"log"

	"shopadmin/internal/middleware"
	"shopadmin/internal/models"
	"shopadmin/internal/repositories"
	"shopadmin/internal/response"
	"shopadmin/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes behind the given guards.
// All of them require an authenticated caller; creation is reserved for
// managed accounts and status changes for admins.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, guards ...fiber.Handler) {
	orderRoutes := router.Group("/orders", guards...)
	orderRoutes.Post("/cart", middleware.PermitRoles(models.RoleManaged), h.HandleCreate)
	orderRoutes.Get("/", h.HandleList)
	orderRoutes.Get("/:id", h.HandleGet)
	orderRoutes.Patch("/:id/status", middleware.PermitRoles(models.RoleAdmin, models.RoleSuperAdmin), h.HandleUpdateStatus)
}

type orderItemRequest struct {
	ProductID string  `json:"prod_id" validate:"required"`
	Count     int     `json:"count" validate:"required,gte=1"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
	Price     float64 `json:"price" validate:"gte=0"`
}

type createOrderRequest struct {
	Items        []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	Address      string             `json:"address" validate:"required"`
	Shipping     float64            `json:"shipping" validate:"gte=0"`
	Total        float64            `json:"total" validate:"gte=0"`
	Discount     float64            `json:"discount" validate:"gte=0"`
	Notes        string             `json:"notes"`
	PhoneNumber  string             `json:"phoneNumber" validate:"required"`
	CustomerName string             `json:"customerName" validate:"required"`
}

// HandleCreate places an order for the authenticated managed user.
func (h *OrderHandler) HandleCreate(c *fiber.Ctx) error {
	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Count:     item.Count,
			Size:      item.Size,
			Color:     item.Color,
			Price:     item.Price,
		})
	}
	order := &models.Order{
		Items:        items,
		Address:      req.Address,
		Shipping:     req.Shipping,
		Total:        req.Total,
		Discount:     req.Discount,
		Notes:        req.Notes,
		PhoneNumber:  req.PhoneNumber,
		CustomerName: req.CustomerName,
	}

	created, err := h.service.Create(middleware.CurrentUser(c), order)
	if err != nil {
		if errors.Is(err, services.ErrProductsUnavailable) {
			return response.Error(c, fiber.StatusBadRequest, "One or more products are not available", nil)
		}
		log.Printf("Error creating order: %v", err)
		return response.Error(c, fiber.StatusInternalServerError, "Could not create order", nil)
	}
	return response.Success(c, fiber.StatusCreated, "Order created successfully", fiber.Map{"order": created}, nil)
}

// HandleList lists the orders visible to the caller.
func (h *OrderHandler) HandleList(c *fiber.Ctx) error {
	params, err := listParams(c, h.validate)
	if err != nil {
		return validationError(c, err)
	}

	orders, meta, err := h.service.List(middleware.CurrentUser(c), params)
	if err != nil {
		log.Printf("Error listing orders: %v", err)
		return response.Error(c, fiber.StatusInternalServerError, "Could not retrieve orders", nil)
	}
	return response.Success(c, fiber.StatusOK, "Orders retrieved successfully", fiber.Map{"orders": orders}, meta)
}

// HandleGet retrieves a single order; only admins and the purchaser may
// see it.
func (h *OrderHandler) HandleGet(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}

	order, err := h.service.Get(middleware.CurrentUser(c), id)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return response.Error(c, fiber.StatusNotFound, "Order not found", nil)
		case errors.Is(err, services.ErrForbidden):
			return response.Error(c, fiber.StatusForbidden, "You do not have permission to view this order", nil)
		}
		log.Printf("Error getting order %s: %v", id, err)
		return response.Error(c, fiber.StatusInternalServerError, "Could not retrieve order", nil)
	}
	return response.Success(c, fiber.StatusOK, "Order retrieved successfully", fiber.Map{"order": order}, nil)
}

type orderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending paid shipped completed cancelled"`
}

// HandleUpdateStatus sets the order status. Transitions are not ordered;
// any enum value may follow any other.
func (h *OrderHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}

	var req orderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	order, err := h.service.UpdateStatus(id, req.Status)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return response.Error(c, fiber.StatusNotFound, "Order not found", nil)
		}
		log.Printf("Error updating order %s status: %v", id, err)
		return response.Error(c, fiber.StatusInternalServerError, "Could not update order status", nil)
	}
	return response.Success(c, fiber.StatusOK, "Order status updated successfully", fiber.Map{"order": order}, nil)
}
