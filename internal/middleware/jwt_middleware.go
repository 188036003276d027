package middleware

import (
	"errors"
	"fmt"
	"strings"

	"shopadmin/internal/models"
	"shopadmin/internal/repositories"
	"shopadmin/internal/response"
	"shopadmin/internal/services"

	"github.com/gofiber/fiber/v2"
)

const userLocalsKey = "currentUser"

// CurrentUser returns the authenticated user attached by AuthRequired or
// AuthOptional, or nil when the request is anonymous.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocalsKey).(*models.User)
	return user
}

// AuthRequired verifies the bearer token, resolves the account and
// attaches it to the request. Missing, invalid and expired tokens fail
// with distinct messages; non-active accounts are rejected with 403.
func AuthRequired(authService *services.AuthService, userRepo repositories.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, errStatus, errMessage := resolveUser(c, authService, userRepo)
		if user == nil {
			return response.Error(c, errStatus, errMessage, nil)
		}
		c.Locals(userLocalsKey, user)
		return c.Next()
	}
}

// AuthOptional resolves the user when a usable bearer token is present
// and proceeds anonymously otherwise.
func AuthOptional(authService *services.AuthService, userRepo repositories.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if user, _, _ := resolveUser(c, authService, userRepo); user != nil {
			c.Locals(userLocalsKey, user)
		}
		return c.Next()
	}
}

// PermitRoles allows the request through only when the authenticated
// user's role is in the allowlist.
func PermitRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return response.Error(c, fiber.StatusUnauthorized, "User not authenticated", nil)
		}
		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}
		return response.Error(c, fiber.StatusForbidden, "You do not have permission to perform this action", nil)
	}
}

func resolveUser(c *fiber.Ctx, authService *services.AuthService, userRepo repositories.UserRepository) (*models.User, int, string) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, fiber.StatusUnauthorized, "No token provided. Authentication required"
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, fiber.StatusUnauthorized, "No token provided. Authentication required"
	}

	userID, err := authService.ValidateAccessToken(parts[1])
	if err != nil {
		if errors.Is(err, services.ErrTokenExpired) {
			return nil, fiber.StatusUnauthorized, "Token expired"
		}
		return nil, fiber.StatusUnauthorized, "Invalid token"
	}

	user, err := userRepo.GetByID(userID)
	if err != nil {
		return nil, fiber.StatusUnauthorized, "User not found"
	}

	if user.Status != models.StatusActive {
		return nil, fiber.StatusForbidden, fmt.Sprintf("Your account is %s. Please contact support", user.Status)
	}

	return user, 0, ""
}
