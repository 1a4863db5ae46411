// Package handlers provides HTTP handler implementations for the public API.
//
// This file wires the handler set to its service dependencies. Handlers are
// transport-thin: they validate input, call application services, and
// translate results into HTTP responses.
package handlers

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-recipes-backend/internal/ai"
	"github.com/tbourn/go-recipes-backend/internal/airtable"
	"github.com/tbourn/go-recipes-backend/internal/domain"
	"github.com/tbourn/go-recipes-backend/internal/events"
	"github.com/tbourn/go-recipes-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

//
// Service contracts (context-aware)
//

// AuthService defines account operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type AuthService interface {
	// Register creates a new account.
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	// Login verifies credentials and returns a signed token with the account.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// Profile returns the account behind a verified token subject.
	Profile(ctx context.Context, username string) (*domain.User, error)
}

// RecipeService defines recipe and ingredient reads plus privacy updates.
type RecipeService interface {
	// Get returns one recipe, honoring the private-recipe visibility rule.
	Get(ctx context.Context, slug, requester string, useCache bool) (*domain.Recipe, error)
	// List returns a page of public recipes.
	List(ctx context.Context, page, pageSize int, filter airtable.RecipeListFilter, useCache bool) (*domain.PaginatedCollection[domain.RecipeListItem], error)
	// ListByAuthor returns a page of an author's recipes, private included.
	ListByAuthor(ctx context.Context, author string, page, pageSize int, search string, useCache bool) (*domain.PaginatedCollection[domain.RecipeListItem], error)
	// ListIngredients returns a page of the shared ingredient catalogue.
	ListIngredients(ctx context.Context, page, pageSize int, search string, useCache bool) (*domain.PaginatedCollection[domain.Ingredient], error)
	// SetPrivacy flips a recipe's privacy flag for its owner.
	SetPrivacy(ctx context.Context, slug, requester string, private bool) (*domain.Recipe, error)
}

// GenerationService runs the AI generation pipeline.
type GenerationService interface {
	Generate(ctx context.Context, params ai.GenerateRecipeParams, authorUsername string) (*domain.Recipe, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for accounts, recipes, ingredients,
// recipe generation, and cache administration. It depends on abstract
// service interfaces to keep transport concerns separate from business logic.
type Handlers struct {
	authSvc   AuthService
	recipeSvc RecipeService
	genSvc    GenerationService

	// DB backs the idempotency records of the generation endpoint.
	db      *gorm.DB
	idemTTL time.Duration

	// Bus carries the cache invalidation event.
	bus *events.Bus
}

// New constructs a Handlers instance bound to the given services.
func New(authSvc AuthService, recipeSvc RecipeService, genSvc GenerationService, db *gorm.DB, idemTTL time.Duration, bus *events.Bus) *Handlers {
	if idemTTL <= 0 {
		idemTTL = 24 * time.Hour
	}
	return &Handlers{
		authSvc:   authSvc,
		recipeSvc: recipeSvc,
		genSvc:    genSvc,
		db:        db,
		idemTTL:   idemTTL,
		bus:       bus,
	}
}

//
// Helpers
//

// clampPagination parses and bounds the page and pageSize query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 10
		maxPageSize     = 50
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("pageSize"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// cacheFlag reads the cache query param. Listings and detail reads are
// cached by default; clients pass cache=false to force a fresh read.
func cacheFlag(c *gin.Context) bool {
	switch c.Query("cache") {
	case "false", "0", "no":
		return false
	}
	return true
}
