// Package services defines the business logic for accounts and recipe
// generation. This file centralizes common service-level error values so
// that they can be consistently returned by service methods and checked by
// callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler/controller layer.
package services

import "errors"

// Account-related errors.
var (
	// ErrUserNotFound indicates that the requested account does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned when a login attempt presents an
	// unknown email or a password that does not match the stored hash. The
	// two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken is returned when a registration reuses an email that
	// already belongs to an account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrUsernameTaken is returned when a registration reuses a username
	// that already belongs to an account.
	ErrUsernameTaken = errors.New("username already registered")
)

// Recipe-related errors.
var (
	// ErrRecipeNotFound indicates that no recipe with the requested slug
	// exists, or that the slug matched more than one record.
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrAuthorNotFound is returned by the generation flow when the
	// authenticated user has no matching account record.
	ErrAuthorNotFound = errors.New("author not found")

	// ErrForbidden is returned when a user attempts to modify a recipe
	// they do not own.
	ErrForbidden = errors.New("not the owner of this recipe")
)
