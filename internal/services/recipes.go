// Package services – RecipeService
//
// This file implements the RecipeService, the read and privacy surface over
// the recipe store. It enforces the visibility rule (private recipes exist
// only for their author) and the ownership rule for privacy changes, and
// normalizes paging inputs before they reach the repositories.
package services

import (
	"context"

	"github.com/tbourn/go-recipes-backend/internal/airtable"
	"github.com/tbourn/go-recipes-backend/internal/domain"
)

// DefaultPageSize is applied when a listing request carries no usable size.
const DefaultPageSize = 10

// MaxPageSize caps a caller-supplied page size.
const MaxPageSize = 50

// RecipeStore defines the repository contract required by RecipeService.
type RecipeStore interface {
	FindBySlug(ctx context.Context, slug string, useCache bool) (*domain.Recipe, error)
	FindAll(ctx context.Context, page, pageSize int, filter airtable.RecipeListFilter, useCache bool) (*domain.PaginatedCollection[domain.RecipeListItem], error)
	FindByAuthor(ctx context.Context, author string, page, pageSize int, search string, useCache bool) (*domain.PaginatedCollection[domain.RecipeListItem], error)
	UpdatePrivacy(ctx context.Context, slug string, private bool) (*domain.Recipe, error)
}

// IngredientStore defines the repository contract for ingredient listings.
type IngredientStore interface {
	List(ctx context.Context, page, pageSize int, search string, useCache bool) (*domain.PaginatedCollection[domain.Ingredient], error)
}

// RecipeService serves recipe and ingredient reads plus privacy updates.
type RecipeService struct {
	Recipes     RecipeStore
	Ingredients IngredientStore
}

// NewRecipeService constructs a RecipeService.
func NewRecipeService(recipes RecipeStore, ingredients IngredientStore) *RecipeService {
	return &RecipeService{Recipes: recipes, Ingredients: ingredients}
}

// Get returns the recipe with the given slug. A private recipe is only
// returned to its author; for anyone else it does not exist. requester is
// the authenticated username, empty for anonymous callers. useCache lets
// clients force a fresh read after they changed something.
func (s *RecipeService) Get(ctx context.Context, slug, requester string, useCache bool) (*domain.Recipe, error) {
	recipe, err := s.Recipes.FindBySlug(ctx, slug, useCache)
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, ErrRecipeNotFound
	}
	if recipe.Private && !ownedBy(recipe, requester) {
		return nil, ErrRecipeNotFound
	}
	return recipe, nil
}

// List returns one page of public recipes, optionally narrowed by a name
// search and a dish type.
func (s *RecipeService) List(ctx context.Context, page, pageSize int, filter airtable.RecipeListFilter, useCache bool) (*domain.PaginatedCollection[domain.RecipeListItem], error) {
	page, pageSize = normalizePaging(page, pageSize)
	return s.Recipes.FindAll(ctx, page, pageSize, filter, useCache)
}

// ListByAuthor returns one page of the given author's recipes, private
// ones included, optionally narrowed by a name search.
func (s *RecipeService) ListByAuthor(ctx context.Context, author string, page, pageSize int, search string, useCache bool) (*domain.PaginatedCollection[domain.RecipeListItem], error) {
	page, pageSize = normalizePaging(page, pageSize)
	return s.Recipes.FindByAuthor(ctx, author, page, pageSize, search, useCache)
}

// ListIngredients returns one page of the shared ingredient catalogue.
func (s *RecipeService) ListIngredients(ctx context.Context, page, pageSize int, search string, useCache bool) (*domain.PaginatedCollection[domain.Ingredient], error) {
	page, pageSize = normalizePaging(page, pageSize)
	return s.Ingredients.List(ctx, page, pageSize, search, useCache)
}

// SetPrivacy flips the privacy flag of a recipe owned by requester. The
// existence check runs uncached so the decision reflects current state.
func (s *RecipeService) SetPrivacy(ctx context.Context, slug, requester string, private bool) (*domain.Recipe, error) {
	recipe, err := s.Recipes.FindBySlug(ctx, slug, false)
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, ErrRecipeNotFound
	}
	if !ownedBy(recipe, requester) {
		return nil, ErrForbidden
	}
	if recipe.Private == private {
		return recipe, nil
	}
	return s.Recipes.UpdatePrivacy(ctx, slug, private)
}

// ownedBy reports whether the recipe's author lookup matches the username.
func ownedBy(recipe *domain.Recipe, username string) bool {
	if username == "" {
		return false
	}
	for _, name := range recipe.AuthorName {
		if name == username {
			return true
		}
	}
	return false
}

func normalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}
