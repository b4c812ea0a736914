package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{"8 characters", "password", nil},
		{"long with symbols", "moringa-leaf-powder-2026!@#", nil},
		{"7 characters", "1234567", ErrPasswordTooShort},
		{"empty", "", ErrPasswordTooShort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, hash)
				return
			}
			require.NoError(t, err)
			assert.True(t, CheckPassword(tt.password, hash))
			assert.False(t, CheckPassword(tt.password+"x", hash))

			cost, err := bcrypt.Cost([]byte(hash))
			require.NoError(t, err)
			assert.Equal(t, bcryptCost, cost)
		})
	}
}

func TestCheckPassword_InvalidHash(t *testing.T) {
	assert.False(t, CheckPassword("password", "not-a-bcrypt-hash"))
}

// ============================================
// AdminAuthenticator
// ============================================

func newTestAuthenticator(t *testing.T) *AdminAuthenticator {
	t.Helper()
	// MinCost keeps the test fast; CheckPassword reads the cost from the hash.
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewAdminAuthenticator(" Owner@Moringa.example ", string(hash), NewJWTService(testSecret, time.Hour))
}

func TestAdminAuthenticator_Login(t *testing.T) {
	a := newTestAuthenticator(t)

	token, expiresAt, err := a.Login("OWNER@moringa.example", "s3cret-pass")

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := a.jwt.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "owner@moringa.example", claims.Email)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestAdminAuthenticator_LoginRejected(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "owner@moringa.example", "nope"},
		{"wrong email", "someone@moringa.example", "s3cret-pass"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, _, err := newTestAuthenticator(t).Login(tt.email, tt.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
			assert.Empty(t, token)
		})
	}
}
