package services

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"shopadmin/internal/config"
	"shopadmin/internal/models"
	"shopadmin/internal/repositories"
	"shopadmin/pkg/events"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// TokenPair is the access/refresh token set issued on signup and login.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthService handles signup, login, token issuance/verification and the
// OTP-based password reset flow.
type AuthService struct {
	userRepo repositories.UserRepository
	cfg      *config.Config
	mqClient *events.Client
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, cfg *config.Config, mqClient *events.Client) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
		mqClient: mqClient,
	}
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// CheckPassword reports whether the plaintext matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// NormalizeEmail lowercases and trims an email so uniqueness and lookups
// are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup registers a public customer account and issues both tokens.
func (s *AuthService) Signup(name, email, password string) (*models.User, *TokenPair, error) {
	email = NormalizeEmail(email)

	if existing, err := s.userRepo.GetByEmail(email); err == nil && existing != nil {
		return nil, nil, ErrEmailTaken
	} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, nil, err
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, nil, err
	}

	user := &models.User{
		Name:            name,
		Email:           email,
		Password:        hashed,
		Role:            models.RoleCustomer,
		Status:          models.StatusActive,
		MaxManagedUsers: 1,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, err
	}

	tokens, err := s.IssueTokens(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// Login authenticates by email and password. A missing user and a wrong
// password produce the same error so callers cannot tell which failed.
func (s *AuthService) Login(email, password string) (*models.User, *TokenPair, error) {
	user, err := s.userRepo.GetByEmail(NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	switch user.Status {
	case models.StatusBlocked:
		return nil, nil, ErrAccountBlocked
	case models.StatusDeleted:
		return nil, nil, ErrAccountDeleted
	}

	if !CheckPassword(user.Password, password) {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.IssueTokens(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// IssueTokens signs a fresh access/refresh pair for the user.
func (s *AuthService) IssueTokens(userID string) (*TokenPair, error) {
	access, err := s.signToken(userID, s.cfg.JWTSecret, s.cfg.AccessTokenTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.signToken(userID, s.cfg.RefreshSecret, s.cfg.RefreshTokenTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// account must still exist and be active.
func (s *AuthService) Refresh(refreshToken string) (string, error) {
	userID, err := s.parseToken(refreshToken, s.cfg.RefreshSecret)
	if err != nil {
		return "", err
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrTokenInvalid
		}
		return "", err
	}
	if user.Status != models.StatusActive {
		return "", ErrTokenInvalid
	}
	return s.signToken(user.ID, s.cfg.JWTSecret, s.cfg.AccessTokenTTL)
}

// ValidateAccessToken verifies an access token and returns the user id
// it carries. Expired and otherwise-invalid tokens are distinguished.
func (s *AuthService) ValidateAccessToken(tokenString string) (string, error) {
	return s.parseToken(tokenString, s.cfg.JWTSecret)
}

// ForgetPassword stores a 6-digit OTP on the account and "sends" it. The
// OTP is returned so development responses can echo it.
func (s *AuthService) ForgetPassword(email string) (string, time.Time, error) {
	user, err := s.userRepo.GetByEmail(NormalizeEmail(email))
	if err != nil {
		return "", time.Time{}, err
	}

	otp := generateOTP()
	expiresAt := time.Now().Add(time.Duration(s.cfg.OTPExpiryMinutes) * time.Minute)

	user.PasswordResetOTP = otp
	user.PasswordResetOTPExpiresAt = &expiresAt
	if err := s.userRepo.Save(user); err != nil {
		return "", time.Time{}, err
	}

	// Delivery is simulated; a broker, when configured, gets the event
	// so a real mailer could pick it up.
	log.Printf("[email simulation] sending OTP to %s: %s", user.Email, otp)
	if s.mqClient != nil {
		if err := s.mqClient.PublishPasswordResetRequested(user.Email, expiresAt); err != nil {
			log.Printf("Warning: failed to publish password reset event for %s: %v", user.Email, err)
		}
	}

	return otp, expiresAt, nil
}

// ResetPassword verifies the OTP and replaces the password.
func (s *AuthService) ResetPassword(email, otp, newPassword string) error {
	user, err := s.userRepo.GetByEmail(NormalizeEmail(email))
	if err != nil {
		return err
	}

	if user.PasswordResetOTP == "" || user.PasswordResetOTP != otp {
		return ErrInvalidOTP
	}
	if user.PasswordResetOTPExpiresAt == nil || time.Now().After(*user.PasswordResetOTPExpiresAt) {
		return ErrOTPExpired
	}

	hashed, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.Password = hashed
	user.PasswordResetOTP = ""
	user.PasswordResetOTPExpiresAt = nil
	return s.userRepo.Save(user)
}

func (s *AuthService) signToken(userID, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) parseToken(tokenString, secret string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		var vErr *jwt.ValidationError
		if errors.As(err, &vErr) && vErr.Errors&jwt.ValidationErrorExpired != 0 {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrTokenInvalid
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return "", ErrTokenInvalid
	}
	return userID, nil
}

func generateOTP() string {
	return fmt.Sprintf("%06d", 100000+rand.Intn(900000))
}
