package handlers

import (
	"fmt"

	"shopadmin/internal/query"
	"shopadmin/internal/response"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// listQuery validates the common list parameters. Entity-specific filter
// fields pass through untouched; the composer decides what they mean.
type listQuery struct {
	Page        int    `query:"page" validate:"omitempty,gte=1"`
	RowsPerPage int    `query:"rowsPerPage" validate:"omitempty,gte=1,lte=100"`
	Sort        string `query:"sort" validate:"omitempty,oneof=asc desc"`
	SortBy      string `query:"sortBy"`
	Search      string `query:"search"`
	StartDate   string `query:"startDate"`
	EndDate     string `query:"endDate"`
}

// listParams validates the reserved list parameters and returns the full
// raw parameter map for the query composer.
func listParams(c *fiber.Ctx, validate *validator.Validate) (query.Params, error) {
	var q listQuery
	if err := c.QueryParser(&q); err != nil {
		return nil, err
	}
	if err := validate.Struct(q); err != nil {
		return nil, err
	}
	return query.Params(c.Queries()), nil
}

// validationError renders any binding or validation failure as the
// envelope's field-level error list.
func validationError(c *fiber.Ctx, err error) error {
	if ve, ok := err.(validator.ValidationErrors); ok {
		errs := make([]response.FieldError, 0, len(ve))
		for _, e := range ve {
			errs = append(errs, response.FieldError{
				Field:   e.Field(),
				Message: fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag()),
			})
		}
		return response.Error(c, fiber.StatusBadRequest, "Validation failed", errs)
	}
	return response.Error(c, fiber.StatusBadRequest, "Validation failed", nil)
}

// idParam validates the :id path parameter. Identifiers are uuids; a
// malformed one is a 400 before any lookup happens.
func idParam(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

func invalidID(c *fiber.Ctx) error {
	return response.Error(c, fiber.StatusBadRequest, "Invalid ID format", nil)
}
