package airtable

import (
	"context"
	"fmt"

	"github.com/tbourn/go-recipes-backend/internal/domain"
)

// listFields is the projection requested for recipe listings. Trimming the
// response keeps the heavy fields (instructions, composition lookups) out
// of cached pages.
var listFields = []string{
	"Name", "Slug", "Servings", "DishType", "PrepTime", "Difficulty",
	"Tags", "Intolerances", "Image", "AuthorName",
}

// RecipeListFilter narrows a public recipe listing. Zero values mean no
// constraint.
type RecipeListFilter struct {
	Search   string
	DishType domain.DishType
}

// FindAll returns one page of public recipes, optionally narrowed by a
// case-insensitive name search and a dish type. Private recipes never
// appear here regardless of the caller.
func (r *RecipeRepository) FindAll(ctx context.Context, page, pageSize int, filter RecipeListFilter, useCache bool) (*domain.PaginatedCollection[domain.RecipeListItem], error) {
	conds := []string{"{Private} = FALSE()"}
	if filter.Search != "" {
		conds = append(conds, fmt.Sprintf("FIND(LOWER('%s'), LOWER({Name}))", escapeFilterChars(filter.Search)))
	}
	if filter.DishType != "" {
		conds = append(conds, fmt.Sprintf("{DishType} = '%s'", escapeFilterChars(string(filter.DishType))))
	}
	return r.listPage(ctx, page, pageSize, buildFilter("AND", conds...), useCache)
}

// FindByAuthor returns one page of the given author's recipes, private ones
// included. The linked Author field holds record links, so the match goes
// through the string coercion of the field.
func (r *RecipeRepository) FindByAuthor(ctx context.Context, author string, page, pageSize int, search string, useCache bool) (*domain.PaginatedCollection[domain.RecipeListItem], error) {
	var conds []string
	if search != "" {
		conds = append(conds, fmt.Sprintf("FIND(LOWER('%s'), LOWER({Name}))", escapeFilterChars(search)))
	}
	conds = append(conds, fmt.Sprintf("FIND('%s', {Author} & '') > 0", escapeFilterChars(author)))
	return r.listPage(ctx, page, pageSize, buildFilter("AND", conds...), useCache)
}

func (r *RecipeRepository) listPage(ctx context.Context, page, pageSize int, formula string, useCache bool) (*domain.PaginatedCollection[domain.RecipeListItem], error) {
	q := r.client.Select(r.name, SelectParams{
		FilterByFormula: formula,
		Fields:          listFields,
		PageSize:        pageSize,
	}).Page(page)

	res, err := r.execute(ctx, q, useCache)
	if err != nil {
		return nil, fmt.Errorf("recipes: list page %d: %w", page, err)
	}

	items := make([]domain.RecipeListItem, 0, len(res.Records))
	for _, rec := range res.Records {
		var item domain.RecipeListItem
		if err := decodeRecord(rec, &item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return &domain.PaginatedCollection[domain.RecipeListItem]{
		Items:           items,
		Page:            page,
		PageSize:        pageSize,
		HasNextPage:     res.HasNext,
		HasPreviousPage: res.HasPrev,
	}, nil
}
