package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(
		"test-secret-key-for-testing-purposes",
		15*time.Minute,
		7*24*time.Hour,
	)
}

func TestNewJWTService(t *testing.T) {
	service := newTestJWTService()
	assert.NotNil(t, service)
	assert.Equal(t, 15*time.Minute, service.GetAccessTokenExpiry())
	assert.Equal(t, 7*24*time.Hour, service.GetRefreshTokenExpiry())
}

func TestJWTService_GenerateAccessToken_Success(t *testing.T) {
	service := newTestJWTService()

	token, expiresAt, err := service.GenerateAccessToken("acct-123", "buyer@example.com", "Panacea Trading", "buyer")

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))
	assert.True(t, expiresAt.Before(time.Now().Add(16*time.Minute)))
}

func TestJWTService_ValidateAccessToken_Valid(t *testing.T) {
	service := newTestJWTService()

	accountID := "acct-456"
	email := "ops@example.com"
	company := "Canal Logistics"
	role := "operator"

	token, _, err := service.GenerateAccessToken(accountID, email, company, role)
	require.NoError(t, err)

	claims, err := service.ValidateAccessToken(token)

	require.NoError(t, err)
	assert.Equal(t, accountID, claims.AccountID)
	assert.Equal(t, email, claims.Email)
	assert.Equal(t, company, claims.Company)
	assert.Equal(t, role, claims.Role)
	assert.Equal(t, accountID, claims.Subject)
}

func TestJWTService_ValidateAccessToken_Expired(t *testing.T) {
	// Create a service with very short expiry
	service := NewJWTService("test-secret", 1*time.Millisecond, 7*24*time.Hour)

	token, _, err := service.GenerateAccessToken("acct-123", "buyer@example.com", "", "buyer")
	require.NoError(t, err)

	// Wait for token to expire
	time.Sleep(10 * time.Millisecond)

	claims, err := service.ValidateAccessToken(token)

	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}

func TestJWTService_ValidateAccessToken_Invalid(t *testing.T) {
	service := newTestJWTService()

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"random string", "not-a-valid-token"},
		{"malformed JWT", "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid.signature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.ValidateAccessToken(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestJWTService_ValidateAccessToken_WrongSignature(t *testing.T) {
	service1 := NewJWTService("secret-key-1", 15*time.Minute, 7*24*time.Hour)
	service2 := NewJWTService("secret-key-2", 15*time.Minute, 7*24*time.Hour)

	token, _, err := service1.GenerateAccessToken("acct-123", "buyer@example.com", "", "buyer")
	require.NoError(t, err)

	// Validate with the other secret
	claims, err := service2.ValidateAccessToken(token)

	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}

func TestJWTService_ValidateAccessToken_WrongAlgorithm(t *testing.T) {
	service := newTestJWTService()

	// Create a token with a different algorithm (none)
	token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		AccountID: "acct-123",
		Email:     "buyer@example.com",
		Role:      "buyer",
	})
	tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	claims, err := service.ValidateAccessToken(tokenString)

	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}

func TestJWTService_GenerateRefreshToken_Success(t *testing.T) {
	service := newTestJWTService()

	token, expiresAt, err := service.GenerateRefreshToken("acct-789")

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))
	assert.True(t, expiresAt.Before(time.Now().Add(8*24*time.Hour)))
}

func TestJWTService_ValidateRefreshToken_Valid(t *testing.T) {
	service := newTestJWTService()

	accountID := "acct-refresh-test"

	token, _, err := service.GenerateRefreshToken(accountID)
	require.NoError(t, err)

	resultID, err := service.ValidateRefreshToken(token)

	require.NoError(t, err)
	assert.Equal(t, accountID, resultID)
}

func TestJWTService_ValidateRefreshToken_Expired(t *testing.T) {
	service := NewJWTService("test-secret", 15*time.Minute, 1*time.Millisecond)

	token, _, err := service.GenerateRefreshToken("acct-123")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	accountID, err := service.ValidateRefreshToken(token)

	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Empty(t, accountID)
}

func TestJWTService_ValidateRefreshToken_Invalid(t *testing.T) {
	service := newTestJWTService()

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"random string", "invalid-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accountID, err := service.ValidateRefreshToken(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Empty(t, accountID)
		})
	}
}

func TestJWTService_TokensAreDifferent(t *testing.T) {
	service := newTestJWTService()

	accessToken, _, err := service.GenerateAccessToken("acct-123", "buyer@example.com", "", "buyer")
	require.NoError(t, err)

	refreshToken, _, err := service.GenerateRefreshToken("acct-123")
	require.NoError(t, err)

	assert.NotEqual(t, accessToken, refreshToken)
}

func TestJWTService_RefreshTokenHasNoIdentityClaims(t *testing.T) {
	service := newTestJWTService()

	refreshToken, _, err := service.GenerateRefreshToken("acct-123")
	require.NoError(t, err)

	// A refresh token parses as an access token but carries no identity
	// claims beyond the subject.
	claims, err := service.ValidateAccessToken(refreshToken)

	require.NoError(t, err)
	assert.Empty(t, claims.AccountID)
	assert.Empty(t, claims.Email)
	assert.Empty(t, claims.Role)
	assert.Equal(t, "acct-123", claims.Subject)
}
