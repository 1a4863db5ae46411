package airtable

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tbourn/go-recipes-backend/internal/domain"
)

// IngredientRepository persists the globally shared ingredient records. The
// nutritional basis is stored as a JSON document inside a long-text field,
// so reads parse it back out and writes serialize it in.
type IngredientRepository struct {
	table
}

// NewIngredientRepository binds the repository to its table.
func NewIngredientRepository(client *Client, cache *QueryCache) *IngredientRepository {
	return &IngredientRepository{table{client: client, cache: cache, name: "Ingredients"}}
}

// FindBySlug returns the ingredient with the given slug, or (nil, nil) when
// no single match exists. The lookup bypasses the cache: the generation
// flow probes for an ingredient right before creating it, and a stale miss
// there would produce duplicates.
func (r *IngredientRepository) FindBySlug(ctx context.Context, slug string) (*domain.Ingredient, error) {
	q := r.client.Select(r.name, SelectParams{FilterByFormula: fieldEquals("Slug", slug)})
	res, err := r.execute(ctx, q, false)
	if err != nil {
		return nil, fmt.Errorf("ingredients: lookup %q: %w", slug, err)
	}
	if len(res.Records) != 1 {
		return nil, nil
	}
	return decodeIngredient(res.Records[0])
}

// List returns one page of ingredients ordered by the store's cursor chain,
// optionally narrowed by a case-insensitive name search. Listings are
// read-mostly and go through the cache unless the caller opts out.
func (r *IngredientRepository) List(ctx context.Context, page, pageSize int, search string, useCache bool) (*domain.PaginatedCollection[domain.Ingredient], error) {
	var formula string
	if search != "" {
		formula = fmt.Sprintf("FIND(LOWER('%s'), LOWER({Name}))", escapeFilterChars(search))
	}
	q := r.client.Select(r.name, SelectParams{FilterByFormula: formula, PageSize: pageSize}).Page(page)
	res, err := r.execute(ctx, q, useCache)
	if err != nil {
		return nil, fmt.Errorf("ingredients: list page %d: %w", page, err)
	}

	items := make([]domain.Ingredient, 0, len(res.Records))
	for _, rec := range res.Records {
		ing, err := decodeIngredient(rec)
		if err != nil {
			return nil, err
		}
		items = append(items, *ing)
	}
	return &domain.PaginatedCollection[domain.Ingredient]{
		Items:           items,
		Page:            page,
		PageSize:        pageSize,
		HasNextPage:     res.HasNext,
		HasPreviousPage: res.HasPrev,
	}, nil
}

// Create writes a new ingredient. The image is optional; ingredients whose
// image lookup failed are stored without one rather than not at all.
func (r *IngredientRepository) Create(ctx context.Context, draft domain.IngredientDraft, imageURL string) (*domain.Ingredient, error) {
	nutrition, err := json.Marshal(draft.NutritionalValues)
	if err != nil {
		return nil, fmt.Errorf("ingredients: encode nutrition: %w", err)
	}

	fields := map[string]any{
		"Name":              draft.Name,
		"Slug":              draft.Slug,
		"Category":          string(draft.Category),
		"NutritionalValues": string(nutrition),
		"Intolerances":      intoleranceStrings(draft.Intolerances),
	}
	if imageURL != "" {
		fields["Image"] = []map[string]any{{"url": imageURL}}
	}

	rec, err := r.client.CreateRecord(ctx, r.name, fields)
	if err != nil {
		return nil, fmt.Errorf("ingredients: create %q: %w", draft.Slug, err)
	}
	return decodeIngredient(*rec)
}

// decodeIngredient converts a raw record into an Ingredient, parsing the
// embedded nutrition document. A record whose nutrition field does not
// parse is corrupt and reported as an error, not silently zeroed.
func decodeIngredient(rec Record) (*domain.Ingredient, error) {
	raw, _ := rec.Fields["NutritionalValues"].(string)

	// The nutrition field is a JSON string, which the weakly typed decoder
	// would not unpack into the struct. Decode the rest of the record with
	// the field removed, then parse the document separately.
	fields := make(map[string]any, len(rec.Fields))
	for k, v := range rec.Fields {
		if k == "NutritionalValues" {
			continue
		}
		fields[k] = v
	}

	var ing domain.Ingredient
	if err := decodeRecord(Record{ID: rec.ID, Fields: fields}, &ing); err != nil {
		return nil, err
	}
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &ing.NutritionalValues); err != nil {
			return nil, fmt.Errorf("ingredients: record %s: parse nutrition: %w", rec.ID, err)
		}
	}
	return &ing, nil
}

func intoleranceStrings(in []domain.Intolerance) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}
