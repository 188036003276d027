package handlers

import (
	"errors"
	"log"

	"shopadmin/internal/config"
	"shopadmin/internal/response"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders any error escaping a handler as the uniform
// error envelope. Fiber's own errors keep their status and message;
// everything else is a 500 whose detail is surfaced only in
// development.
func ErrorHandler(cfg *config.Config) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Something went wrong"

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
			message = fiberErr.Message
		} else if cfg.IsDevelopment() {
			message = err.Error()
		}

		if code == fiber.StatusInternalServerError {
			log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
		}
		return response.Error(c, code, message, nil)
	}
}

// NotFoundHandler is the catch-all route, mounted after every real
// route so unknown paths get the error envelope instead of a
// plain-text body.
func NotFoundHandler(c *fiber.Ctx) error {
	return response.Error(c, fiber.StatusNotFound, "Route not found", nil)
}
