// Package services – RecipeGenerationService
//
// This file implements the generation orchestrator: one AI draft is turned
// into a persisted recipe aggregate through a fixed sequence of store
// writes. The sequence is deliberately sequential; the image lookups in the
// middle of it are throttled by the image service's token bucket, and the
// store writes depend on the identities the previous steps produced.
//
// There is no rollback. The store has no transactions, and every write is
// individually valid: an orphaned ingredient is a reusable catalogue entry,
// a recipe without compositions is visible but incomplete. A failed run
// surfaces its error and leaves whatever it already wrote.
//
// Observability: the public method is OpenTelemetry-instrumented; spans
// carry the author and the draft slug once known.
package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tbourn/go-recipes-backend/internal/ai"
	"github.com/tbourn/go-recipes-backend/internal/domain"
)

// RecipeGenerator defines the AI contract required by the orchestrator.
type RecipeGenerator interface {
	GenerateRecipe(ctx context.Context, params ai.GenerateRecipeParams) (*domain.RecipeDraft, error)
}

// IngredientRepo defines the ingredient store contract.
type IngredientRepo interface {
	FindBySlug(ctx context.Context, slug string) (*domain.Ingredient, error)
	Create(ctx context.Context, draft domain.IngredientDraft, imageURL string) (*domain.Ingredient, error)
}

// RecipeWriter defines the recipe store contract for the generation flow.
type RecipeWriter interface {
	Create(ctx context.Context, draft domain.RecipeDraft, authorID string, ingredientIDs []string, imageURL string) (*domain.Recipe, error)
	FindBySlug(ctx context.Context, slug string, useCache bool) (*domain.Recipe, error)
}

// CompositionWriter defines the composition store contract.
type CompositionWriter interface {
	Create(ctx context.Context, recipeID, ingredientID string, quantity float64, unit domain.Unit) (*domain.Composition, error)
}

// ImageFinder locates illustration URLs. Empty results are acceptable.
type ImageFinder interface {
	RecipeImage(ctx context.Context, recipeName string) string
	IngredientImage(ctx context.Context, ingredientName string) string
}

// RecipeGenerationService coordinates one generation run end to end.
type RecipeGenerationService struct {
	AI           RecipeGenerator
	Recipes      RecipeWriter
	Ingredients  IngredientRepo
	Compositions CompositionWriter
	Users        UserRepo
	Images       ImageFinder
}

// NewRecipeGenerationService constructs the orchestrator.
func NewRecipeGenerationService(aiSvc RecipeGenerator, recipes RecipeWriter, ingredients IngredientRepo, compositions CompositionWriter, users UserRepo, images ImageFinder) *RecipeGenerationService {
	return &RecipeGenerationService{
		AI:           aiSvc,
		Recipes:      recipes,
		Ingredients:  ingredients,
		Compositions: compositions,
		Users:        users,
		Images:       images,
	}
}

// Generate runs the full pipeline for the authenticated author and returns
// the stored recipe with its computed lookup fields.
func (s *RecipeGenerationService) Generate(ctx context.Context, params ai.GenerateRecipeParams, authorUsername string) (*domain.Recipe, error) {
	tr := otel.Tracer("services/RecipeGenerationService")
	ctx, span := tr.Start(ctx, "Generate",
		trace.WithAttributes(attribute.String("author", authorUsername)),
	)
	defer span.End()

	// 1. Draft the recipe.
	draft, err := s.AI.GenerateRecipe(ctx, params)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("recipe.slug", draft.Slug))
	log.Info().Str("slug", draft.Slug).Str("author", authorUsername).Msg("recipe drafted")

	// 2. Resolve the author before any write.
	author, err := s.Users.FindByUsername(ctx, authorUsername)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, ErrAuthorNotFound
	}

	// 3. Resolve or create each drafted ingredient, in draft order so the
	// composition step can pair identities back up by index.
	ingredientIDs := make([]string, 0, len(draft.Ingredients))
	for _, ing := range draft.Ingredients {
		existing, err := s.Ingredients.FindBySlug(ctx, ing.Slug)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			ing.Name = normalizeIngredientName(ing.Name)
			imageURL := s.Images.IngredientImage(ctx, ing.Name)
			created, err := s.Ingredients.Create(ctx, ing, imageURL)
			if err != nil {
				return nil, err
			}
			log.Info().Str("slug", ing.Slug).Msg("ingredient created")
			existing = created
		}
		ingredientIDs = append(ingredientIDs, existing.ID)
	}

	// 4. Create the recipe itself.
	recipeImage := s.Images.RecipeImage(ctx, draft.Name)
	recipe, err := s.Recipes.Create(ctx, *draft, author.ID, ingredientIDs, recipeImage)
	if err != nil {
		return nil, err
	}

	// 5. Link each ingredient with its quantity and unit.
	for i, ing := range draft.Ingredients {
		if _, err := s.Compositions.Create(ctx, recipe.ID, ingredientIDs[i], ing.Quantity, ing.Unit); err != nil {
			return nil, err
		}
	}

	// 6. Re-read uncached so the response carries the lookup fields the
	// store computed from the links written above.
	stored, err := s.Recipes.FindBySlug(ctx, draft.Slug, false)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, ErrRecipeNotFound
	}
	log.Info().Str("slug", stored.Slug).Msg("recipe generation completed")
	return stored, nil
}

var ingredientTitle = cases.Title(language.English)

// normalizeIngredientName title-cases a drafted name so the shared
// catalogue stays uniform regardless of how the model capitalized it.
func normalizeIngredientName(name string) string {
	return ingredientTitle.String(strings.ToLower(strings.TrimSpace(name)))
}
