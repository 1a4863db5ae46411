package services

import (
	"context"
	"errors"
	"testing"

	"github.com/tbourn/go-recipes-backend/internal/ai"
	"github.com/tbourn/go-recipes-backend/internal/domain"
)

type fakeGenerator struct {
	draft *domain.RecipeDraft
	err   error
}

func (f *fakeGenerator) GenerateRecipe(ctx context.Context, params ai.GenerateRecipeParams) (*domain.RecipeDraft, error) {
	return f.draft, f.err
}

type fakeIngredients struct {
	existing map[string]string // slug -> record ID
	created  []domain.IngredientDraft
	images   []string
	findErr  error
}

func (f *fakeIngredients) FindBySlug(ctx context.Context, slug string) (*domain.Ingredient, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if id, ok := f.existing[slug]; ok {
		return &domain.Ingredient{ID: id, Name: slug, Slug: slug}, nil
	}
	return nil, nil
}

func (f *fakeIngredients) Create(ctx context.Context, draft domain.IngredientDraft, imageURL string) (*domain.Ingredient, error) {
	f.created = append(f.created, draft)
	f.images = append(f.images, imageURL)
	id := "recNew" + draft.Slug
	f.existing[draft.Slug] = id
	return &domain.Ingredient{ID: id, Name: draft.Name, Slug: draft.Slug}, nil
}

type createdRecipe struct {
	draft         domain.RecipeDraft
	authorID      string
	ingredientIDs []string
	imageURL      string
}

type fakeRecipes struct {
	created *createdRecipe
	stored  *domain.Recipe
	err     error
}

func (f *fakeRecipes) Create(ctx context.Context, draft domain.RecipeDraft, authorID string, ingredientIDs []string, imageURL string) (*domain.Recipe, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = &createdRecipe{draft: draft, authorID: authorID, ingredientIDs: ingredientIDs, imageURL: imageURL}
	return &domain.Recipe{ID: "recR1", Name: draft.Name, Slug: draft.Slug}, nil
}

func (f *fakeRecipes) FindBySlug(ctx context.Context, slug string, useCache bool) (*domain.Recipe, error) {
	if useCache {
		return nil, errors.New("post-write read must bypass the cache")
	}
	return f.stored, nil
}

type compositionWrite struct {
	recipeID, ingredientID string
	quantity               float64
	unit                   domain.Unit
}

type fakeCompositions struct {
	writes []compositionWrite
	err    error
}

func (f *fakeCompositions) Create(ctx context.Context, recipeID, ingredientID string, quantity float64, unit domain.Unit) (*domain.Composition, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.writes = append(f.writes, compositionWrite{recipeID, ingredientID, quantity, unit})
	return &domain.Composition{ID: "recC1"}, nil
}

type fakeImages struct {
	recipeQueries     []string
	ingredientQueries []string
}

func (f *fakeImages) RecipeImage(ctx context.Context, name string) string {
	f.recipeQueries = append(f.recipeQueries, name)
	return "https://img/" + name
}

func (f *fakeImages) IngredientImage(ctx context.Context, name string) string {
	f.ingredientQueries = append(f.ingredientQueries, name)
	return "https://img/" + name
}

func draftWith(ingredients ...domain.IngredientDraft) *domain.RecipeDraft {
	return &domain.RecipeDraft{
		Name:         "Tomato Soup",
		Slug:         "tomato-soup",
		Instructions: []string{"Chop", "Simmer"},
		Servings:     2,
		DishType:     domain.DishTypeMainCourse,
		PrepTime:     25,
		Difficulty:   domain.DifficultyEasy,
		Ingredients:  ingredients,
	}
}

func ingredientDraft(slug string, qty float64, unit domain.Unit) domain.IngredientDraft {
	return domain.IngredientDraft{
		Name: slug, Slug: slug, Category: domain.CategoryVegetables,
		Quantity: qty, Unit: unit,
	}
}

func newOrchestrator(gen *fakeGenerator, rec *fakeRecipes, ing *fakeIngredients, comp *fakeCompositions, users *fakeUserRepo, img *fakeImages) *RecipeGenerationService {
	return NewRecipeGenerationService(gen, rec, ing, comp, users, img)
}

func TestGenerate_PairsCompositionsWithDraftOrder(t *testing.T) {
	// A exists, B is new, C exists: identities must still line up with the
	// draft's (slug, quantity) pairs by position.
	draft := draftWith(
		ingredientDraft("tomato", 400, domain.UnitGram),
		ingredientDraft("basil", 2, domain.UnitTeaspoon),
		ingredientDraft("olive-oil", 3, domain.UnitTablespoon),
	)
	ing := &fakeIngredients{existing: map[string]string{"tomato": "recA", "olive-oil": "recC"}}
	rec := &fakeRecipes{stored: &domain.Recipe{ID: "recR1", Name: "Tomato Soup", Slug: "tomato-soup", AuthorName: []string{"alice"}}}
	comp := &fakeCompositions{}
	users := &fakeUserRepo{users: []domain.User{{ID: "recU1", Username: "alice", Email: "alice@example.com"}}}
	img := &fakeImages{}

	s := newOrchestrator(&fakeGenerator{draft: draft}, rec, ing, comp, users, img)
	stored, err := s.Generate(context.Background(), ai.GenerateRecipeParams{}, "alice")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if stored.Slug != "tomato-soup" {
		t.Fatalf("stored = %+v", stored)
	}

	// Only the missing ingredient was created, with a normalized name and
	// an image lookup.
	if len(ing.created) != 1 || ing.created[0].Slug != "basil" {
		t.Fatalf("created ingredients = %+v", ing.created)
	}
	if ing.created[0].Name != "Basil" {
		t.Fatalf("ingredient name not normalized: %q", ing.created[0].Name)
	}
	if len(img.ingredientQueries) != 1 {
		t.Fatalf("ingredient image lookups = %v", img.ingredientQueries)
	}

	if rec.created == nil || rec.created.authorID != "recU1" {
		t.Fatalf("recipe created with author %+v", rec.created)
	}
	wantIDs := []string{"recA", "recNewbasil", "recC"}
	for i, id := range wantIDs {
		if rec.created.ingredientIDs[i] != id {
			t.Fatalf("ingredient links = %v, want %v", rec.created.ingredientIDs, wantIDs)
		}
	}

	if len(comp.writes) != 3 {
		t.Fatalf("composition writes = %d, want 3", len(comp.writes))
	}
	want := []compositionWrite{
		{"recR1", "recA", 400, domain.UnitGram},
		{"recR1", "recNewbasil", 2, domain.UnitTeaspoon},
		{"recR1", "recC", 3, domain.UnitTablespoon},
	}
	for i, w := range want {
		if comp.writes[i] != w {
			t.Fatalf("composition %d = %+v, want %+v", i, comp.writes[i], w)
		}
	}
}

func TestGenerate_UnknownAuthorAbortsBeforeAnyWrite(t *testing.T) {
	draft := draftWith(ingredientDraft("tomato", 400, domain.UnitGram))
	ing := &fakeIngredients{existing: map[string]string{}}
	rec := &fakeRecipes{}
	comp := &fakeCompositions{}
	img := &fakeImages{}

	s := newOrchestrator(&fakeGenerator{draft: draft}, rec, ing, comp, &fakeUserRepo{}, img)
	_, err := s.Generate(context.Background(), ai.GenerateRecipeParams{}, "ghost")
	if !errors.Is(err, ErrAuthorNotFound) {
		t.Fatalf("err = %v, want ErrAuthorNotFound", err)
	}
	if len(ing.created) != 0 || rec.created != nil || len(comp.writes) != 0 {
		t.Fatalf("writes happened after author miss")
	}
	if len(img.ingredientQueries) != 0 || len(img.recipeQueries) != 0 {
		t.Fatalf("image lookups happened after author miss")
	}
}

func TestGenerate_DraftFailureAborts(t *testing.T) {
	boom := errors.New("model unavailable")
	users := &fakeUserRepo{users: []domain.User{{ID: "recU1", Username: "alice", Email: "alice@example.com"}}}
	rec := &fakeRecipes{}

	s := newOrchestrator(&fakeGenerator{err: boom}, rec, &fakeIngredients{existing: map[string]string{}}, &fakeCompositions{}, users, &fakeImages{})
	_, err := s.Generate(context.Background(), ai.GenerateRecipeParams{}, "alice")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want draft error", err)
	}
	if rec.created != nil {
		t.Fatalf("recipe written after draft failure")
	}
}

func TestGenerate_CompositionFailureLeavesEarlierWrites(t *testing.T) {
	// No rollback: the recipe stays created even when linking fails.
	draft := draftWith(ingredientDraft("tomato", 400, domain.UnitGram))
	rec := &fakeRecipes{stored: &domain.Recipe{ID: "recR1", Name: "Tomato Soup", Slug: "tomato-soup"}}
	comp := &fakeCompositions{err: errors.New("store unavailable")}
	users := &fakeUserRepo{users: []domain.User{{ID: "recU1", Username: "alice", Email: "alice@example.com"}}}

	s := newOrchestrator(&fakeGenerator{draft: draft}, rec, &fakeIngredients{existing: map[string]string{"tomato": "recA"}}, comp, users, &fakeImages{})
	if _, err := s.Generate(context.Background(), ai.GenerateRecipeParams{}, "alice"); err == nil {
		t.Fatalf("expected composition error")
	}
	if rec.created == nil {
		t.Fatalf("recipe write should have happened before the failure")
	}
}

func TestNormalizeIngredientName(t *testing.T) {
	cases := map[string]string{
		"olive oil": "Olive Oil",
		"TOMATO":    "Tomato",
		" basil ":   "Basil",
	}
	for in, want := range cases {
		if got := normalizeIngredientName(in); got != want {
			t.Errorf("normalizeIngredientName(%q) = %q, want %q", in, got, want)
		}
	}
}
