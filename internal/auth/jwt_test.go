package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-testing-purposes"

func newTestJWTService() *JWTService {
	return NewJWTService(testSecret, 15*time.Minute)
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	service := newTestJWTService()

	token, expiresAt, err := service.GenerateAccessToken("owner@moringa.example", RoleAdmin)
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))
	assert.True(t, expiresAt.Before(time.Now().Add(16*time.Minute)))

	claims, err := service.ValidateAccessToken(token)

	require.NoError(t, err)
	assert.Equal(t, "owner@moringa.example", claims.Email)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, "owner@moringa.example", claims.Subject)
	assert.Equal(t, "moringa-store", claims.Issuer)
}

func TestJWTService_ValidateAccessToken_Expired(t *testing.T) {
	service := newTestJWTService()
	service.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, _, err := service.GenerateAccessToken("owner@moringa.example", RoleAdmin)
	require.NoError(t, err)
	service.now = time.Now

	_, err = service.ValidateAccessToken(token)

	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_ValidateAccessToken_Rejects(t *testing.T) {
	other := NewJWTService("another-secret-key-that-is-long-enough", 15*time.Minute)
	foreign, _, err := other.GenerateAccessToken("owner@moringa.example", RoleAdmin)
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Role: RoleAdmin}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	wrongIssuer, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.jwt"},
		{"wrong signature", foreign},
		{"none algorithm", noneToken},
		{"wrong issuer", wrongIssuer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestJWTService().ValidateAccessToken(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestJWTService_TokenExpiry(t *testing.T) {
	assert.Equal(t, 15*time.Minute, newTestJWTService().TokenExpiry())
}
