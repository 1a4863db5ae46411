package airtable

import (
	"context"
	"fmt"
	"strings"

	"github.com/tbourn/go-recipes-backend/internal/domain"
)

// RecipeRepository persists recipe aggregates. Single-recipe reads can opt
// out of the cache when the caller is about to write, so a change to a
// recipe is applied against its current state.
type RecipeRepository struct {
	table
}

// NewRecipeRepository binds the repository to its table.
func NewRecipeRepository(client *Client, cache *QueryCache) *RecipeRepository {
	return &RecipeRepository{table{client: client, cache: cache, name: "Recipes"}}
}

// FindBySlug returns the recipe with the given slug, or (nil, nil) when no
// single match exists.
func (r *RecipeRepository) FindBySlug(ctx context.Context, slug string, useCache bool) (*domain.Recipe, error) {
	q := r.client.Select(r.name, SelectParams{FilterByFormula: fieldEquals("Slug", slug)})
	res, err := r.execute(ctx, q, useCache)
	if err != nil {
		return nil, fmt.Errorf("recipes: lookup %q: %w", slug, err)
	}
	if len(res.Records) != 1 {
		return nil, nil
	}
	return decodeRecipe(res.Records[0])
}

// Create writes a new recipe linked to its author and ingredients.
// Instructions arrive as discrete steps and are stored joined by blank
// lines in a long-text field. New recipes start public; compositions are
// linked afterwards from the other side of the relation.
func (r *RecipeRepository) Create(ctx context.Context, draft domain.RecipeDraft, authorID string, ingredientIDs []string, imageURL string) (*domain.Recipe, error) {
	fields := map[string]any{
		"Name":         draft.Name,
		"Slug":         draft.Slug,
		"Instructions": strings.Join(draft.Instructions, "\n\n"),
		"Servings":     draft.Servings,
		"DishType":     string(draft.DishType),
		"Ingredients":  ingredientIDs,
		"PrepTime":     draft.PrepTime,
		"Difficulty":   string(draft.Difficulty),
		"Tags":         tagStrings(draft.Tags),
		"Private":      false,
		"Author":       []string{authorID},
	}
	if imageURL != "" {
		fields["Image"] = []map[string]any{{"url": imageURL}}
	}

	rec, err := r.client.CreateRecord(ctx, r.name, fields)
	if err != nil {
		return nil, fmt.Errorf("recipes: create %q: %w", draft.Slug, err)
	}
	return decodeRecipe(*rec)
}

// UpdatePrivacy flips the Private flag of the recipe with the given slug.
// The lookup bypasses the cache so the patch lands on the current record,
// and only the one field is sent. Returns (nil, nil) when the recipe does
// not exist.
func (r *RecipeRepository) UpdatePrivacy(ctx context.Context, slug string, private bool) (*domain.Recipe, error) {
	current, err := r.FindBySlug(ctx, slug, false)
	if err != nil || current == nil {
		return nil, err
	}
	rec, err := r.client.UpdateRecord(ctx, r.name, current.ID, map[string]any{"Private": private})
	if err != nil {
		return nil, fmt.Errorf("recipes: update privacy %q: %w", slug, err)
	}
	return decodeRecipe(*rec)
}

func decodeRecipe(rec Record) (*domain.Recipe, error) {
	var out domain.Recipe
	if err := decodeRecord(rec, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func tagStrings(in []domain.Tag) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}
