package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Predefined service errors.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	// FindByEmail finds a user by email address.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Create creates a new user.
	Create(ctx context.Context, user *User) error

	// FindByID finds a user by their internal ID.
	FindByID(ctx context.Context, id string) (*User, error)
}

// RefreshTokenRepository defines the interface for refresh token operations.
type RefreshTokenRepository interface {
	// Create stores a new refresh token.
	Create(ctx context.Context, token *RefreshToken) error

	// FindByToken finds a refresh token by its value.
	FindByToken(ctx context.Context, token string) (*RefreshToken, error)

	// Revoke marks a refresh token as revoked.
	Revoke(ctx context.Context, token string) error

	// RevokeAllForUser revokes all refresh tokens for a user.
	RevokeAllForUser(ctx context.Context, userID string) error
}

// Service provides authentication operations.
type Service struct {
	jwtService  *JWTService
	userRepo    UserRepository
	refreshRepo RefreshTokenRepository
}

// ServiceConfig holds configuration for the auth service.
type ServiceConfig struct {
	JWTService  *JWTService
	UserRepo    UserRepository
	RefreshRepo RefreshTokenRepository
}

// NewService creates a new auth service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		jwtService:  cfg.JWTService,
		userRepo:    cfg.UserRepo,
		refreshRepo: cfg.RefreshRepo,
	}
}

// Login authenticates a user with email and password and returns API tokens.
// Lookup failure and password mismatch return the same error, so callers
// cannot probe which emails exist.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*TokenResponse, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("validation error: %s", errs[0].Message)
	}

	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokens(ctx, user)
}

// HashPassword produces a bcrypt hash for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// RefreshAccessToken refreshes an access token using a refresh token.
func (s *Service) RefreshAccessToken(ctx context.Context, refreshTokenStr string) (*TokenResponse, error) {
	refreshToken, err := s.refreshRepo.FindByToken(ctx, refreshTokenStr)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	if refreshToken.RevokedAt != nil {
		return nil, ErrInvalidRefreshToken
	}

	if time.Now().After(refreshToken.ExpiresAt) {
		return nil, ErrRefreshTokenExpired
	}

	user, err := s.userRepo.FindByID(ctx, refreshToken.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	// Revoke the old refresh token (rotation)
	if err := s.refreshRepo.Revoke(ctx, refreshTokenStr); err != nil {
		return nil, fmt.Errorf("revoking old refresh token: %w", err)
	}

	return s.generateTokens(ctx, user)
}

// ValidateAccessToken validates an access token and returns its claims.
func (s *Service) ValidateAccessToken(tokenString string) (*JWTClaims, error) {
	return s.jwtService.ValidateAccessToken(tokenString)
}

// GetUser retrieves a user by ID.
func (s *Service) GetUser(ctx context.Context, userID string) (*User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// RevokeRefreshToken revokes a specific refresh token.
func (s *Service) RevokeRefreshToken(ctx context.Context, refreshTokenStr string) error {
	return s.refreshRepo.Revoke(ctx, refreshTokenStr)
}

// RevokeAllTokens revokes all refresh tokens for a user (logout everywhere).
func (s *Service) RevokeAllTokens(ctx context.Context, userID string) error {
	return s.refreshRepo.RevokeAllForUser(ctx, userID)
}

// generateTokens generates both access and refresh tokens for a user.
func (s *Service) generateTokens(ctx context.Context, user *User) (*TokenResponse, error) {
	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generating access token: %w", err)
	}

	refreshTokenStr, err := GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generating refresh token: %w", err)
	}

	refreshToken := &RefreshToken{
		ID:        uuid.New().String(),
		Token:     refreshTokenStr,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(RefreshTokenExpiry),
		CreatedAt: time.Now(),
	}

	if err := s.refreshRepo.Create(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("storing refresh token: %w", err)
	}

	return &TokenResponse{
		AccessToken:  accessToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(time.Until(expiresAt).Seconds()),
		RefreshToken: refreshTokenStr,
		User:         user,
	}, nil
}

// generateUserID generates a unique user ID with prefix.
func generateUserID() string {
	return "usr_" + uuid.New().String()[:22]
}

// DevAuthenticateRequest is the request for development authentication.
type DevAuthenticateRequest struct {
	// UserID is an optional user ID. If not provided, a new user is created.
	UserID string `json:"userId,omitempty"`
	// Email is an optional email for the test user.
	Email string `json:"email,omitempty"`
	// AgencyID is the agency the test user belongs to.
	AgencyID string `json:"agencyId,omitempty"`
	// Role is the test user's role; defaults to agent.
	Role string `json:"role,omitempty"`
}

// DevAuthenticate creates or retrieves a test user and returns tokens.
// This is intended for local development only and should never be enabled in production.
func (s *Service) DevAuthenticate(ctx context.Context, req *DevAuthenticateRequest) (*TokenResponse, error) {
	var user *User

	if req.UserID != "" {
		var err error
		user, err = s.userRepo.FindByID(ctx, req.UserID)
		if err != nil && !errors.Is(err, ErrUserNotFound) {
			return nil, fmt.Errorf("finding user: %w", err)
		}
	}

	if user == nil {
		now := time.Now()
		email := req.Email
		if email == "" {
			email = "dev_" + uuid.New().String()[:8] + "@dev.local"
		}
		agencyID := req.AgencyID
		if agencyID == "" {
			agencyID = "agc_dev"
		}
		role := req.Role
		if role != RoleAdmin {
			role = RoleAgent
		}

		user = &User{
			ID:        generateUserID(),
			AgencyID:  agencyID,
			Email:     email,
			Role:      role,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("creating test user: %w", err)
		}
	}

	return s.generateTokens(ctx, user)
}
