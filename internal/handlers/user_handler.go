package handlers

import (
	"errors"
	"log"

	"shopadmin/internal/middleware"
	"shopadmin/internal/repositories"
	"shopadmin/internal/response"
	"shopadmin/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for admin-scoped user management.
type UserHandler struct {
	service  *services.UserService
	validate *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the user management routes behind the given
// guards; the whole group requires an authenticated admin or superAdmin.
func (h *UserHandler) RegisterRoutes(router fiber.Router, guards ...fiber.Handler) {
	userRoutes := router.Group("/users", guards...)
	userRoutes.Get("/", h.HandleList)
	userRoutes.Get("/:id", h.HandleGet)
	userRoutes.Post("/", h.HandleCreate)
	userRoutes.Patch("/:id/status", h.HandleUpdateStatus)
	userRoutes.Delete("/:id", h.HandleDelete)
}

// HandleList lists the users visible to the actor.
func (h *UserHandler) HandleList(c *fiber.Ctx) error {
	params, err := listParams(c, h.validate)
	if err != nil {
		return validationError(c, err)
	}

	users, meta, err := h.service.List(middleware.CurrentUser(c), params)
	if err != nil {
		log.Printf("Error listing users: %v", err)
		return response.Error(c, fiber.StatusInternalServerError, "Could not retrieve users", nil)
	}
	return response.Success(c, fiber.StatusOK, "Users retrieved successfully", fiber.Map{"users": users}, meta)
}

// HandleGet retrieves a user by id.
func (h *UserHandler) HandleGet(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}

	user, err := h.service.Get(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return response.Error(c, fiber.StatusNotFound, "User not found", nil)
		}
		log.Printf("Error getting user %s: %v", id, err)
		return response.Error(c, fiber.StatusInternalServerError, "Could not retrieve user", nil)
	}
	return response.Success(c, fiber.StatusOK, "User retrieved successfully", fiber.Map{"user": user}, nil)
}

type createUserRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// HandleCreate creates a user under the actor's authority: an admin
// creates a quota-bound managed user, a superAdmin creates an admin.
func (h *UserHandler) HandleCreate(c *fiber.Ctx) error {
	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}
	if req.Password != req.ConfirmPassword {
		return response.Error(c, fiber.StatusBadRequest, "Passwords do not match", nil)
	}

	user, err := h.service.Create(middleware.CurrentUser(c), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrQuotaExceeded):
			return response.Error(c, fiber.StatusBadRequest, "You have reached the maximum number of users you can manage", nil)
		case errors.Is(err, services.ErrEmailTaken):
			return response.Error(c, fiber.StatusBadRequest, "Email already exists", nil)
		}
		log.Printf("Error creating user: %v", err)
		return response.Error(c, fiber.StatusInternalServerError, "Could not create user", nil)
	}
	return response.Success(c, fiber.StatusCreated, "User created successfully", fiber.Map{"user": user}, nil)
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active blocked deleted"`
}

// HandleUpdateStatus sets a user's status. Reactivation by an admin is
// subject to the quota.
func (h *UserHandler) HandleUpdateStatus(c *fiber.Ctx) error {
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

	user, err := h.service.UpdateStatus(middleware.CurrentUser(c), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrQuotaExceeded):
			return response.Error(c, fiber.StatusBadRequest, "You have reached the maximum number of users you can manage", nil)
		case errors.Is(err, repositories.ErrNotFound):
			return response.Error(c, fiber.StatusNotFound, "User not found", nil)
		}
		log.Printf("Error updating user %s status: %v", id, err)
		return response.Error(c, fiber.StatusInternalServerError, "Could not update user status", nil)
	}
	return response.Success(c, fiber.StatusOK, "User status updated successfully", fiber.Map{"user": user}, nil)
}

// HandleDelete soft-deletes a user.
func (h *UserHandler) HandleDelete(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}

	if err := h.service.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return response.Error(c, fiber.StatusNotFound, "User not found", nil)
		}
		log.Printf("Error deleting user %s: %v", id, err)
		return response.Error(c, fiber.StatusInternalServerError, "Could not delete user", nil)
	}
	return response.Success(c, fiber.StatusOK, "User deleted successfully", nil, nil)
}
