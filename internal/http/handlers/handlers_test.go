package handlers

import (
	"context"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-recipes-backend/internal/ai"
	"github.com/tbourn/go-recipes-backend/internal/airtable"
	"github.com/tbourn/go-recipes-backend/internal/domain"
	"github.com/tbourn/go-recipes-backend/internal/events"
)

//
// Fakes
//

type fakeAuthSvc struct {
	user  *domain.User
	token string
	err   error

	// captured args
	username, email, password string
}

func (f *fakeAuthSvc) Register(_ context.Context, username, email, password string) (*domain.User, error) {
	f.username, f.email, f.password = username, email, password
	return f.user, f.err
}

func (f *fakeAuthSvc) Login(_ context.Context, email, password string) (string, *domain.User, error) {
	f.email, f.password = email, password
	if f.err != nil {
		return "", nil, f.err
	}
	return f.token, f.user, nil
}

func (f *fakeAuthSvc) Profile(_ context.Context, username string) (*domain.User, error) {
	f.username = username
	return f.user, f.err
}

type fakeRecipeSvc struct {
	recipe  *domain.Recipe
	list    *domain.PaginatedCollection[domain.RecipeListItem]
	ingList *domain.PaginatedCollection[domain.Ingredient]
	err     error

	// captured args
	slug, requester, author string
	search                  string
	page, pageSize          int
	filter                  airtable.RecipeListFilter
	useCache                bool
	private                 bool
	setPrivacyCalls         int
}

func (f *fakeRecipeSvc) Get(_ context.Context, slug, requester string, useCache bool) (*domain.Recipe, error) {
	f.slug, f.requester, f.useCache = slug, requester, useCache
	return f.recipe, f.err
}

func (f *fakeRecipeSvc) List(_ context.Context, page, pageSize int, filter airtable.RecipeListFilter, useCache bool) (*domain.PaginatedCollection[domain.RecipeListItem], error) {
	f.page, f.pageSize, f.filter, f.useCache = page, pageSize, filter, useCache
	return f.list, f.err
}

func (f *fakeRecipeSvc) ListByAuthor(_ context.Context, author string, page, pageSize int, search string, useCache bool) (*domain.PaginatedCollection[domain.RecipeListItem], error) {
	f.author, f.page, f.pageSize, f.search, f.useCache = author, page, pageSize, search, useCache
	return f.list, f.err
}

func (f *fakeRecipeSvc) ListIngredients(_ context.Context, page, pageSize int, search string, useCache bool) (*domain.PaginatedCollection[domain.Ingredient], error) {
	f.page, f.pageSize, f.search, f.useCache = page, pageSize, search, useCache
	return f.ingList, f.err
}

func (f *fakeRecipeSvc) SetPrivacy(_ context.Context, slug, requester string, private bool) (*domain.Recipe, error) {
	f.setPrivacyCalls++
	f.slug, f.requester, f.private = slug, requester, private
	return f.recipe, f.err
}

type fakeGenSvc struct {
	recipe *domain.Recipe
	err    error

	calls  int
	params ai.GenerateRecipeParams
	author string
}

func (f *fakeGenSvc) Generate(_ context.Context, params ai.GenerateRecipeParams, author string) (*domain.Recipe, error) {
	f.calls++
	f.params, f.author = params, author
	return f.recipe, f.err
}

//
// Setup helpers
//

type testDeps struct {
	auth    *fakeAuthSvc
	recipes *fakeRecipeSvc
	gen     *fakeGenSvc
	db      *gorm.DB
	bus     *events.Bus
}

func newHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Idempotency{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// newTestRouter wires fakes into a gin engine. identity, when non-empty, is
// stashed as the authenticated user before the handlers run.
func newTestRouter(t *testing.T, identity string) (*gin.Engine, *Handlers, *testDeps) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	deps := &testDeps{
		auth:    &fakeAuthSvc{},
		recipes: &fakeRecipeSvc{},
		gen:     &fakeGenSvc{},
		db:      newHandlerDB(t),
		bus:     events.NewBus(),
	}
	h := New(deps.auth, deps.recipes, deps.gen, deps.db, time.Hour, deps.bus)

	r := gin.New()
	if identity != "" {
		r.Use(func(c *gin.Context) { c.Set("userID", identity); c.Next() })
	}
	return r, h, deps
}

func sampleRecipe() *domain.Recipe {
	return &domain.Recipe{
		ID:       "rec123",
		Name:     "Lemon Tart",
		Slug:     "lemon-tart",
		Servings: 4,
	}
}
