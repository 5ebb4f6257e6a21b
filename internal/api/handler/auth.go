package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tripfolio/tripfolio/internal/api/models"
	"github.com/tripfolio/tripfolio/internal/api/response"
	"github.com/tripfolio/tripfolio/internal/auth"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login handles POST /v1/auth/login - email and password authentication.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	// Validate request
	if errs := req.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "validation error", toFieldErrors(errs))
		return
	}

	tokenResp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		// Unknown email and wrong password produce the same response
		if errors.Is(err, auth.ErrInvalidCredentials) {
			response.Unauthorized(w, r, "invalid email or password")
			return
		}

		response.InternalError(w, r, "authentication failed")
		return
	}

	response.JSON(w, r, http.StatusOK, tokenResp)
}

// RefreshToken handles POST /v1/auth/refresh - refresh access token.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req auth.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	// Validate request
	if errs := req.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "validation error", toFieldErrors(errs))
		return
	}

	// Refresh the token
	tokenResp, err := h.authService.RefreshAccessToken(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidRefreshToken) {
			response.Unauthorized(w, r, "invalid refresh token")
			return
		}
		if errors.Is(err, auth.ErrRefreshTokenExpired) {
			response.Unauthorized(w, r, "refresh token has expired")
			return
		}
		if errors.Is(err, auth.ErrUserNotFound) {
			response.Unauthorized(w, r, "user not found")
			return
		}

		response.InternalError(w, r, "token refresh failed")
		return
	}

	response.JSON(w, r, http.StatusOK, tokenResp)
}

// Logout handles POST /v1/auth/logout - revoke current session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if req.RefreshToken == "" {
		response.BadRequest(w, r, "refreshToken is required", nil)
		return
	}

	// Revoke the refresh token
	if err := h.authService.RevokeRefreshToken(r.Context(), req.RefreshToken); err != nil {
		// Log error but don't expose details
		response.InternalError(w, r, "logout failed")
		return
	}

	response.NoContent(w, r)
}

// LogoutAll handles POST /v1/auth/logout-all - revoke all sessions for the user.
// This endpoint requires authentication.
func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	// Get user ID from context (set by auth middleware)
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	// Revoke all refresh tokens for the user
	if err := h.authService.RevokeAllTokens(r.Context(), userID); err != nil {
		response.InternalError(w, r, "logout failed")
		return
	}

	response.NoContent(w, r)
}

// DevLogin handles POST /v1/auth/dev - development-only authentication.
// This endpoint is only available when AUTH_DEV_MODE=true.
// It creates a test user and returns valid tokens for local testing.
func (h *AuthHandler) DevLogin(w http.ResponseWriter, r *http.Request) {
	var req auth.DevAuthenticateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Allow empty body - will create a new user with defaults
		req = auth.DevAuthenticateRequest{}
	}

	tokenResp, err := h.authService.DevAuthenticate(r.Context(), &req)
	if err != nil {
		response.InternalError(w, r, "dev authentication failed")
		return
	}

	response.JSON(w, r, http.StatusOK, tokenResp)
}

// toFieldErrors converts auth validation errors to API field errors.
func toFieldErrors(errs []auth.FieldError) []models.FieldError {
	fieldErrors := make([]models.FieldError, len(errs))
	for i, e := range errs {
		fieldErrors[i] = models.FieldError{
			Field:   e.Field,
			Message: e.Message,
			Code:    e.Code,
		}
	}
	return fieldErrors
}
