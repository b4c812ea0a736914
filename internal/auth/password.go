package auth

import (
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

const (
	bcryptCost        = 12
	minPasswordLength = 8
)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a password with its hash
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// AdminAuthenticator checks the single configured admin account and
// issues access tokens for it.
type AdminAuthenticator struct {
	email        string
	passwordHash string
	jwt          *JWTService
}

func NewAdminAuthenticator(email, passwordHash string, jwtService *JWTService) *AdminAuthenticator {
	return &AdminAuthenticator{
		email:        strings.ToLower(strings.TrimSpace(email)),
		passwordHash: passwordHash,
		jwt:          jwtService,
	}
}

// Login returns a signed token when email and password match the admin account
func (a *AdminAuthenticator) Login(email, password string) (string, time.Time, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(a.email)) == 1
	// Always run bcrypt so unknown emails take as long as wrong passwords.
	passwordOK := CheckPassword(password, a.passwordHash)
	if !emailOK || !passwordOK {
		return "", time.Time{}, ErrInvalidCredentials
	}
	return a.jwt.GenerateAccessToken(a.email, RoleAdmin)
}
