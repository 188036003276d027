package response

import (
	"github.com/gofiber/fiber/v2"
)

// FieldError describes a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Success writes the uniform success envelope. data and meta are omitted
// from the JSON body entirely when nil, never emitted as null keys.
func Success(c *fiber.Ctx, status int, message string, data interface{}, meta interface{}) error {
	body := fiber.Map{
		"success": true,
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	if meta != nil {
		body["meta"] = meta
	}
	return c.Status(status).JSON(body)
}

// Error writes the uniform error envelope. errs is omitted when empty.
func Error(c *fiber.Ctx, status int, message string, errs []FieldError) error {
	body := fiber.Map{
		"success": false,
		"message": message,
	}
	if len(errs) > 0 {
		body["errors"] = errs
	}
	return c.Status(status).JSON(body)
}
