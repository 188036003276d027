package handlers

import (
	"errors"
	"log"

	"shopadmin/internal/config"
	"shopadmin/internal/repositories"
	"shopadmin/internal/response"
	"shopadmin/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the public authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/signup", h.HandleSignup)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/refresh", h.HandleRefresh)
	authRoutes.Patch("/forgetPassword", h.HandleForgetPassword)
	authRoutes.Patch("/resetPassword", h.HandleResetPassword)
}

type signupRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// HandleSignup registers a new customer account and issues both tokens.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}
	if req.Password != req.ConfirmPassword {
		return response.Error(c, fiber.StatusBadRequest, "Passwords do not match", nil)
	}

	user, tokens, err := h.authService.Signup(req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return response.Error(c, fiber.StatusBadRequest, "Email already exists", nil)
		}
		log.Printf("Error registering user: %v", err)
		return response.Error(c, fiber.StatusInternalServerError, "Could not create account", nil)
	}

	return response.Success(c, fiber.StatusCreated, "Account created successfully", fiber.Map{
		"user":         user,
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
	}, nil)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin authenticates a user and issues both tokens.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	user, tokens, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			return response.Error(c, fiber.StatusUnauthorized, "Invalid email or password", nil)
		case errors.Is(err, services.ErrAccountBlocked):
			return response.Error(c, fiber.StatusForbidden, "Your account has been blocked", nil)
		case errors.Is(err, services.ErrAccountDeleted):
			return response.Error(c, fiber.StatusForbidden, "Your account has been deleted", nil)
		}
		log.Printf("Error during login: %v", err)
		return response.Error(c, fiber.StatusInternalServerError, "Could not log in", nil)
	}

	return response.Success(c, fiber.StatusOK, "Login successful", fiber.Map{
		"user":         user,
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
	}, nil)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// HandleRefresh exchanges a valid refresh token for a new access token.
func (h *AuthHandler) HandleRefresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	accessToken, err := h.authService.Refresh(req.RefreshToken)
	if err != nil {
		return response.Error(c, fiber.StatusUnauthorized, "Invalid or expired refresh token", nil)
	}

	return response.Success(c, fiber.StatusOK, "Token refreshed successfully", fiber.Map{
		"accessToken": accessToken,
	}, nil)
}

type forgetPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// HandleForgetPassword issues a password-reset OTP. The code is echoed
// in the response only in development mode.
func (h *AuthHandler) HandleForgetPassword(c *fiber.Ctx) error {
	var req forgetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	otp, expiresAt, err := h.authService.ForgetPassword(req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return response.Error(c, fiber.StatusNotFound, "User not found", nil)
		}
		log.Printf("Error issuing password reset OTP: %v", err)
		return response.Error(c, fiber.StatusInternalServerError, "Could not issue reset code", nil)
	}

	data := fiber.Map{"expiresAt": expiresAt}
	if h.cfg.IsDevelopment() {
		data["otp"] = otp
	}
	return response.Success(c, fiber.StatusOK, "OTP sent to your email successfully", data, nil)
}

type resetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	OTP         string `json:"otp" validate:"required,len=6"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// HandleResetPassword verifies the OTP and replaces the password.
func (h *AuthHandler) HandleResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	if err := h.authService.ResetPassword(req.Email, req.OTP, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return response.Error(c, fiber.StatusNotFound, "User not found", nil)
		case errors.Is(err, services.ErrInvalidOTP):
			return response.Error(c, fiber.StatusBadRequest, "Invalid OTP", nil)
		case errors.Is(err, services.ErrOTPExpired):
			return response.Error(c, fiber.StatusBadRequest, "OTP has expired", nil)
		}
		log.Printf("Error resetting password: %v", err)
		return response.Error(c, fiber.StatusInternalServerError, "Could not reset password", nil)
	}

	return response.Success(c, fiber.StatusOK, "Password reset successfully", nil, nil)
}
