package services

import (
	"context"
	"errors"
	"testing"

	"github.com/tbourn/go-recipes-backend/internal/airtable"
	"github.com/tbourn/go-recipes-backend/internal/domain"
)

type fakeRecipeStore struct {
	recipes      map[string]*domain.Recipe
	lastUseCache *bool
	lastPage     int
	lastPageSize int
	lastFilter   airtable.RecipeListFilter
	lastAuthor   string
	lastSearch   string
	updated      map[string]bool
}

func (f *fakeRecipeStore) FindBySlug(ctx context.Context, slug string, useCache bool) (*domain.Recipe, error) {
	f.lastUseCache = &useCache
	r, ok := f.recipes[slug]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRecipeStore) FindAll(ctx context.Context, page, pageSize int, filter airtable.RecipeListFilter, useCache bool) (*domain.PaginatedCollection[domain.RecipeListItem], error) {
	f.lastPage, f.lastPageSize, f.lastFilter = page, pageSize, filter
	f.lastUseCache = &useCache
	return &domain.PaginatedCollection[domain.RecipeListItem]{Page: page, PageSize: pageSize}, nil
}

func (f *fakeRecipeStore) FindByAuthor(ctx context.Context, author string, page, pageSize int, search string, useCache bool) (*domain.PaginatedCollection[domain.RecipeListItem], error) {
	f.lastAuthor, f.lastPage, f.lastPageSize, f.lastSearch = author, page, pageSize, search
	f.lastUseCache = &useCache
	return &domain.PaginatedCollection[domain.RecipeListItem]{Page: page, PageSize: pageSize}, nil
}

func (f *fakeRecipeStore) UpdatePrivacy(ctx context.Context, slug string, private bool) (*domain.Recipe, error) {
	r, ok := f.recipes[slug]
	if !ok {
		return nil, nil
	}
	if f.updated == nil {
		f.updated = map[string]bool{}
	}
	f.updated[slug] = private
	cp := *r
	cp.Private = private
	return &cp, nil
}

type fakeIngredientStore struct {
	lastPage, lastPageSize int
	lastSearch             string
	lastUseCache           bool
}

func (f *fakeIngredientStore) List(ctx context.Context, page, pageSize int, search string, useCache bool) (*domain.PaginatedCollection[domain.Ingredient], error) {
	f.lastPage, f.lastPageSize, f.lastSearch, f.lastUseCache = page, pageSize, search, useCache
	return &domain.PaginatedCollection[domain.Ingredient]{Page: page, PageSize: pageSize}, nil
}

func publicRecipe(slug, author string) *domain.Recipe {
	return &domain.Recipe{ID: "rec-" + slug, Name: slug, Slug: slug, AuthorName: []string{author}}
}

func TestGet_PrivateRecipeOnlyVisibleToAuthor(t *testing.T) {
	private := publicRecipe("secret-stew", "alice")
	private.Private = true
	store := &fakeRecipeStore{recipes: map[string]*domain.Recipe{
		"secret-stew": private,
		"open-soup":   publicRecipe("open-soup", "alice"),
	}}
	s := NewRecipeService(store, &fakeIngredientStore{})

	if _, err := s.Get(context.Background(), "secret-stew", "", true); !errors.Is(err, ErrRecipeNotFound) {
		t.Fatalf("anonymous: err = %v, want ErrRecipeNotFound", err)
	}
	if _, err := s.Get(context.Background(), "secret-stew", "bob", true); !errors.Is(err, ErrRecipeNotFound) {
		t.Fatalf("other user: err = %v, want ErrRecipeNotFound", err)
	}
	r, err := s.Get(context.Background(), "secret-stew", "alice", true)
	if err != nil || r == nil {
		t.Fatalf("author: r = %v, err = %v", r, err)
	}
	if _, err := s.Get(context.Background(), "open-soup", "", true); err != nil {
		t.Fatalf("public recipe: %v", err)
	}
	if _, err := s.Get(context.Background(), "ghost", "alice", true); !errors.Is(err, ErrRecipeNotFound) {
		t.Fatalf("missing: err = %v, want ErrRecipeNotFound", err)
	}
}

func TestGet_PassesCacheFlag(t *testing.T) {
	store := &fakeRecipeStore{recipes: map[string]*domain.Recipe{"soup": publicRecipe("soup", "alice")}}
	s := NewRecipeService(store, &fakeIngredientStore{})

	if _, err := s.Get(context.Background(), "soup", "", true); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if store.lastUseCache == nil || !*store.lastUseCache {
		t.Fatalf("cached read did not reach the store as cached")
	}

	if _, err := s.Get(context.Background(), "soup", "", false); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if store.lastUseCache == nil || *store.lastUseCache {
		t.Fatalf("cache bypass did not reach the store")
	}
}

func TestList_NormalizesPaging(t *testing.T) {
	store := &fakeRecipeStore{}
	s := NewRecipeService(store, &fakeIngredientStore{})

	if _, err := s.List(context.Background(), 0, -5, airtable.RecipeListFilter{}, true); err != nil {
		t.Fatalf("List: %v", err)
	}
	if store.lastPage != 1 || store.lastPageSize != DefaultPageSize {
		t.Fatalf("page/size = %d/%d, want 1/%d", store.lastPage, store.lastPageSize, DefaultPageSize)
	}

	if _, err := s.List(context.Background(), 3, 500, airtable.RecipeListFilter{Search: "soup"}, true); err != nil {
		t.Fatalf("List: %v", err)
	}
	if store.lastPage != 3 || store.lastPageSize != MaxPageSize {
		t.Fatalf("page/size = %d/%d, want 3/%d", store.lastPage, store.lastPageSize, MaxPageSize)
	}
	if store.lastFilter.Search != "soup" {
		t.Fatalf("filter = %+v", store.lastFilter)
	}
}

func TestListByAuthorAndIngredients(t *testing.T) {
	store := &fakeRecipeStore{}
	ingredients := &fakeIngredientStore{}
	s := NewRecipeService(store, ingredients)

	if _, err := s.ListByAuthor(context.Background(), "alice", 2, 5, "tart", true); err != nil {
		t.Fatalf("ListByAuthor: %v", err)
	}
	if store.lastAuthor != "alice" || store.lastPage != 2 || store.lastPageSize != 5 {
		t.Fatalf("author/page/size = %s/%d/%d", store.lastAuthor, store.lastPage, store.lastPageSize)
	}
	if store.lastSearch != "tart" {
		t.Fatalf("search = %q, want tart", store.lastSearch)
	}

	if _, err := s.ListIngredients(context.Background(), 0, 0, "tomato", true); err != nil {
		t.Fatalf("ListIngredients: %v", err)
	}
	if ingredients.lastPage != 1 || ingredients.lastPageSize != DefaultPageSize {
		t.Fatalf("page/size = %d/%d", ingredients.lastPage, ingredients.lastPageSize)
	}
	if ingredients.lastSearch != "tomato" || !ingredients.lastUseCache {
		t.Fatalf("search/cache = %q/%v", ingredients.lastSearch, ingredients.lastUseCache)
	}
}

func TestSetPrivacy_OwnershipAndShortCircuit(t *testing.T) {
	store := &fakeRecipeStore{recipes: map[string]*domain.Recipe{"soup": publicRecipe("soup", "alice")}}
	s := NewRecipeService(store, &fakeIngredientStore{})

	if _, err := s.SetPrivacy(context.Background(), "soup", "bob", true); !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	if _, err := s.SetPrivacy(context.Background(), "ghost", "alice", true); !errors.Is(err, ErrRecipeNotFound) {
		t.Fatalf("err = %v, want ErrRecipeNotFound", err)
	}

	r, err := s.SetPrivacy(context.Background(), "soup", "alice", true)
	if err != nil {
		t.Fatalf("SetPrivacy: %v", err)
	}
	if !r.Private {
		t.Fatalf("recipe = %+v", r)
	}
	if store.lastUseCache == nil || *store.lastUseCache {
		t.Fatalf("privacy check read went through the cache")
	}

	// Setting the current value again writes nothing.
	store.updated = nil
	if _, err := s.SetPrivacy(context.Background(), "soup", "alice", false); err != nil {
		t.Fatalf("SetPrivacy: %v", err)
	}
	if store.updated != nil {
		t.Fatalf("no-op privacy change still wrote")
	}
}
