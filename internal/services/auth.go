// Package services – AuthService
//
// This file implements the AuthService, which manages account registration,
// credential verification, and the issuance and verification of the signed
// tokens the HTTP layer uses for authentication. Password hashes never leave
// this package in any returned value.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/tbourn/go-recipes-backend/internal/domain"
)

// UserRepo defines the repository contract required by AuthService.
type UserRepo interface {
	// FindByEmail returns the user with the given email, or (nil, nil)
	// when no single match exists.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindByUsername returns the user with the given username, or
	// (nil, nil) when no single match exists.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// Create stores a new account with an already-hashed password.
	Create(ctx context.Context, username, email, passwordHash string) (*domain.User, error)
}

// Claims is the token payload. Subject carries the username; the email is
// duplicated so the profile endpoint can answer without a store read.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// AuthService registers accounts, verifies credentials, and mints tokens.
type AuthService struct {
	Repo     UserRepo
	Secret   []byte
	TokenTTL time.Duration
	HashCost int

	now func() time.Time
}

// NewAuthService constructs an AuthService. A non-positive ttl falls back
// to seven days; the hash cost follows the bcrypt default.
func NewAuthService(repo UserRepo, secret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &AuthService{
		Repo:     repo,
		Secret:   []byte(secret),
		TokenTTL: ttl,
		HashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
}

// Register creates a new account after checking both unique dimensions.
// Email matching is case-insensitive; the stored email keeps the caller's
// casing apart from being trimmed.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if existing, err := s.Repo.FindByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrEmailTaken
	}
	if existing, err := s.Repo.FindByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.HashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.Repo.Create(ctx, username, email, string(hash))
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

// Login verifies the email and password and returns a signed token. Unknown
// email and wrong password both map to ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.Repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}
	user.Password = ""
	return token, user, nil
}

// VerifyToken parses and validates a token and returns its claims. Only the
// HMAC signing method used by issueToken is accepted.
func (s *AuthService) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.Secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Subject == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// Profile returns the account behind a verified token's subject.
func (s *AuthService) Profile(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.Repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	user.Password = ""
	return user, nil
}

func (s *AuthService) issueToken(user *domain.User) (string, error) {
	now := s.now()
	claims := Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
