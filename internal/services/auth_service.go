// Package services – AuthService
//
// This file implements registration and login for portal accounts. The
// registration path always produces role USER (roles are never
// self-escalated; ADMIN accounts come from cmd/create-admin), hashes
// credentials with bcrypt, and maps duplicate emails to ErrEmailTaken.
// Login verifies the bcrypt digest and issues a signed HS256 JWT carrying
// the role claim consumed by the admin role gate.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/civicdesk/go-complaint-backend/internal/domain"
	"github.com/civicdesk/go-complaint-backend/internal/repo"
)

// MinPasswordLen is the minimum accepted password length at registration.
const MinPasswordLen = 8

// AuthService implements account registration and credential login.
type AuthService struct {
	// DB is the database handle used for user operations.
	DB *gorm.DB
	// JWTSecret signs issued tokens (HS256).
	JWTSecret []byte
	// TokenTTL bounds token validity; zero falls back to 72h.
	TokenTTL time.Duration
}

// Register creates a USER-role account. Validation mirrors the public
// registration form: name required, email well-formed, password at least
// MinPasswordLen characters. Returns ErrEmailTaken when the address is
// already registered; the existing account is left untouched.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidf("name is required")
	}
	if !emailRE.MatchString(strings.TrimSpace(email)) {
		return nil, invalidf("email %q is not well-formed", email)
	}
	if len(password) < MinPasswordLen {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u, err := repo.CreateUser(ctx, s.DB, name, email, string(hash), domain.RoleUser)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

// Login verifies credentials and returns the account plus a signed token.
// Unknown accounts and wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	u, err := repo.GetUserByEmail(ctx, s.DB, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// issueToken signs an HS256 JWT with the principal's identity and role.
func (s *AuthService) issueToken(u *domain.User) (string, error) {
	ttl := s.TokenTTL
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	claims := jwt.MapClaims{
		"sub":   u.ID,
		"email": u.Email,
		"name":  u.Name,
		"role":  string(u.Role),
		"exp":   time.Now().Add(ttl).Unix(),
		"iat":   time.Now().Unix(),
		"iss":   "complaint-portal",
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.JWTSecret)
}
