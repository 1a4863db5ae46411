package airtable

import (
	"context"
	"fmt"

	"github.com/tbourn/go-recipes-backend/internal/domain"
)

// CompositionRepository persists the links between recipes and ingredients.
// Compositions are write-only from this application's point of view; reads
// happen through the lookup fields Airtable computes on the recipe side.
type CompositionRepository struct {
	table
}

// NewCompositionRepository binds the repository to its table.
func NewCompositionRepository(client *Client, cache *QueryCache) *CompositionRepository {
	return &CompositionRepository{table{client: client, cache: cache, name: "Compositions"}}
}

// Create links one ingredient into one recipe with the quantity and unit
// the generation flow decided on.
func (r *CompositionRepository) Create(ctx context.Context, recipeID, ingredientID string, quantity float64, unit domain.Unit) (*domain.Composition, error) {
	rec, err := r.client.CreateRecord(ctx, r.name, map[string]any{
		"Recipe":     []string{recipeID},
		"Ingredient": []string{ingredientID},
		"Quantity":   quantity,
		"Unit":       string(unit),
	})
	if err != nil {
		return nil, fmt.Errorf("compositions: create: %w", err)
	}
	var out domain.Composition
	if err := decodeRecord(*rec, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
