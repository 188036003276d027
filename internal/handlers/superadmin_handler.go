package handlers

import (
	"errors"
	"log"

	"shopadmin/internal/repositories"
	"shopadmin/internal/response"
	"shopadmin/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// SuperAdminHandler handles HTTP requests for administering admins.
type SuperAdminHandler struct {
	service  *services.UserService
	validate *validator.Validate
}

// NewSuperAdminHandler creates a new SuperAdminHandler.
func NewSuperAdminHandler(service *services.UserService) *SuperAdminHandler {
	return &SuperAdminHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the super-admin routes behind the given
// guards; the whole group is reserved for superAdmins.
func (h *SuperAdminHandler) RegisterRoutes(router fiber.Router, guards ...fiber.Handler) {
	adminRoutes := router.Group("/super-admin", guards...)
	adminRoutes.Get("/", h.HandleListAdmins)
	adminRoutes.Post("/", h.HandleCreateAdmin)
	adminRoutes.Patch("/:id/status", h.HandleUpdateAdminStatus)
}

// HandleListAdmins lists admins with their customer counts.
func (h *SuperAdminHandler) HandleListAdmins(c *fiber.Ctx) error {
	params, err := listParams(c, h.validate)
	if err != nil {
		return validationError(c, err)
	}

	admins, meta, err := h.service.ListAdminsWithStats(params)
	if err != nil {
		log.Printf("Error listing admins: %v", err)
		return response.Error(c, fiber.StatusInternalServerError, "Could not retrieve admins", nil)
	}
	return response.Success(c, fiber.StatusOK, "Admins retrieved successfully", fiber.Map{"admins": admins}, meta)
}

type createAdminRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
	NumberOfUsers   int    `json:"numberOfUsers" validate:"gte=0"`
}

// HandleCreateAdmin creates an admin with the requested managed-user
// quota.
func (h *SuperAdminHandler) HandleCreateAdmin(c *fiber.Ctx) error {
	var req createAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}
	if req.Password != req.ConfirmPassword {
		return response.Error(c, fiber.StatusBadRequest, "Passwords do not match", nil)
	}

	admin, err := h.service.CreateAdmin(req.Name, req.Email, req.Password, req.NumberOfUsers)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return response.Error(c, fiber.StatusBadRequest, "Email already exists", nil)
		}
		log.Printf("Error creating admin: %v", err)
		return response.Error(c, fiber.StatusInternalServerError, "Could not create admin", nil)
	}
	return response.Success(c, fiber.StatusCreated, "Admin created successfully", fiber.Map{"admin": admin}, nil)
}

// HandleUpdateAdminStatus sets an admin's status; records without the
// admin role are reported as not found.
func (h *SuperAdminHandler) HandleUpdateAdminStatus(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}

	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	admin, err := h.service.UpdateAdminStatus(id, req.Status)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return response.Error(c, fiber.StatusNotFound, "Admin not found", nil)
		}
		log.Printf("Error updating admin %s status: %v", id, err)
		return response.Error(c, fiber.StatusInternalServerError, "Could not update admin status", nil)
	}
	return response.Success(c, fiber.StatusOK, "Admin status updated successfully", fiber.Map{"admin": admin}, nil)
}
