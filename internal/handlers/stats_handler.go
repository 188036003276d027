package handlers

import (
	"errors"
	"log"

	"shopadmin/internal/middleware"
	"shopadmin/internal/response"
	"shopadmin/internal/services"

	"github.com/gofiber/fiber/v2"
)

// StatsHandler serves the dashboard counters.
type StatsHandler struct {
	service *services.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(service *services.StatsService) *StatsHandler {
	return &StatsHandler{service: service}
}

// RegisterRoutes registers the stats route behind the given guards.
func (h *StatsHandler) RegisterRoutes(router fiber.Router, guards ...fiber.Handler) {
	statsRoutes := router.Group("/stats", guards...)
	statsRoutes.Get("/", h.HandleGet)
}

// HandleGet computes the role-scoped stats fresh on every call.
func (h *StatsHandler) HandleGet(c *fiber.Ctx) error {
	stats, err := h.service.ForUser(middleware.CurrentUser(c))
	if err != nil {
		if errors.Is(err, services.ErrForbidden) {
			return response.Error(c, fiber.StatusForbidden, "You do not have permission to perform this action", nil)
		}
		log.Printf("Error computing stats: %v", err)
		return response.Error(c, fiber.StatusInternalServerError, "Could not retrieve stats", nil)
	}
	return response.Success(c, fiber.StatusOK, "Stats retrieved successfully", fiber.Map{"stats": stats}, nil)
}
