package services

import "errors"

// Sentinel errors shared across services. Handlers map these onto HTTP
// statuses and envelope messages.
var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrAccountBlocked      = errors.New("your account has been blocked")
	ErrAccountDeleted      = errors.New("your account has been deleted")
	ErrEmailTaken          = errors.New("email already exists")
	ErrInvalidOTP          = errors.New("invalid OTP")
	ErrOTPExpired          = errors.New("OTP has expired")
	ErrTokenInvalid        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrQuotaExceeded       = errors.New("you have reached the maximum number of users you can manage")
	ErrForbidden           = errors.New("forbidden")
	ErrProductsUnavailable = errors.New("one or more products are not available")
)
