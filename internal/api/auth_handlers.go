package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/example/container-market/internal/api/middleware"
	"github.com/example/container-market/internal/auth"
	"github.com/example/container-market/internal/query"
	"github.com/example/container-market/internal/readmodel"
)

// AuthHandlers handles authentication-related HTTP requests
type AuthHandlers struct {
	jwtService   *auth.JWTService
	queryHandler *query.Handler
}

// NewAuthHandlers creates a new AuthHandlers instance
func NewAuthHandlers(jwtService *auth.JWTService, queryHandler *query.Handler) *AuthHandlers {
	return &AuthHandlers{
		jwtService:   jwtService,
		queryHandler: queryHandler,
	}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AccountResponse represents account data in responses
type AccountResponse struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Company string `json:"company,omitempty"`
	Role    string `json:"role"`
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	Account     AccountResponse `json:"account"`
	AccessToken string          `json:"access_token"`
	ExpiresAt   time.Time       `json:"expires_at"`
}

func toAccountResponse(a *readmodel.AccountReadModel) AccountResponse {
	return AccountResponse{
		ID:      a.ID,
		Email:   a.Email,
		Name:    a.Name,
		Company: a.Company,
		Role:    a.Role,
	}
}

// Login verifies credentials against the account read models
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	account, exists := h.queryHandler.GetAccountByEmail(req.Email)
	if !exists {
		respondJSONError(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	if !account.IsActive {
		respondJSONError(w, "Account is deactivated", http.StatusForbidden)
		return
	}

	if !auth.CheckPassword(req.Password, account.PasswordHash) {
		respondJSONError(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	accessToken, expiresAt := h.setAuthCookies(w, account, r)

	respondJSON(w, http.StatusOK, AuthResponse{
		Account:     toAccountResponse(account),
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
	})
}

// Refresh rotates the access token using the refresh token cookie
func (h *AuthHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	refreshCookie, err := r.Cookie("refresh_token")
	if err != nil {
		respondJSONError(w, "No refresh token", http.StatusUnauthorized)
		return
	}

	accountID, err := h.jwtService.ValidateRefreshToken(refreshCookie.Value)
	if err != nil {
		h.clearAuthCookies(w)
		respondJSONError(w, "Invalid refresh token", http.StatusUnauthorized)
		return
	}

	account, exists := h.queryHandler.GetAccount(accountID)
	if !exists {
		h.clearAuthCookies(w)
		respondJSONError(w, "Account not found", http.StatusUnauthorized)
		return
	}
	if !account.IsActive {
		h.clearAuthCookies(w)
		respondJSONError(w, "Account is deactivated", http.StatusForbidden)
		return
	}

	accessToken, expiresAt := h.setAuthCookies(w, account, r)

	respondJSON(w, http.StatusOK, AuthResponse{
		Account:     toAccountResponse(account),
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
	})
}

// Logout clears the auth cookies
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearAuthCookies(w)
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Logout successful",
	})
}

// Me returns the current authenticated account's information
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetAccountFromContext(r.Context())
	if !ok {
		respondJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	account, exists := h.queryHandler.GetAccount(claims.AccountID)
	if !exists {
		respondJSONError(w, "Account not found", http.StatusNotFound)
		return
	}

	respondJSON(w, http.StatusOK, toAccountResponse(account))
}

// Helper methods

func (h *AuthHandlers) setAuthCookies(w http.ResponseWriter, account *readmodel.AccountReadModel, r *http.Request) (string, time.Time) {
	accessToken, accessExpiry, _ := h.jwtService.GenerateAccessToken(account.ID, account.Email, account.Company, account.Role)
	refreshToken, refreshExpiry, _ := h.jwtService.GenerateRefreshToken(account.ID)

	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Path:     "/",
		Expires:  accessExpiry,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})

	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Path:     "/auth/refresh",
		Expires:  refreshExpiry,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})

	return accessToken, accessExpiry
}

func (h *AuthHandlers) clearAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    "",
		Path:     "/auth/refresh",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

func respondJSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
