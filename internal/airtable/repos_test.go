package airtable

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tbourn/go-recipes-backend/internal/domain"
)

// tableServer answers listing calls with the given records and captures
// the filter formula of the last request.
func tableServer(t *testing.T, records []Record) (*Client, *string) {
	t.Helper()
	lastFilter := new(string)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			FilterByFormula string `json:"filterByFormula"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		*lastFilter = body.FilterByFormula
		_ = json.NewEncoder(w).Encode(ListResponse{Records: records})
	}))
	t.Cleanup(srv.Close)
	return NewClient("key", "base").WithBaseURL(srv.URL), lastFilter
}

func userRecord(id, username, email string) Record {
	return Record{ID: id, Fields: map[string]any{
		"Username": username,
		"Email":    email,
		"Password": "$2a$10$hash",
	}}
}

func TestUserRepository_FindByEmail(t *testing.T) {
	client, filter := tableServer(t, []Record{userRecord("recU1", "alice", "alice@example.com")})
	repo := NewUserRepository(client, nil)

	u, err := repo.FindByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if u == nil || u.ID != "recU1" || u.Username != "alice" {
		t.Fatalf("user = %+v", u)
	}
	if u.Password != "$2a$10$hash" {
		t.Fatalf("password hash not carried: %+v", u)
	}
	if want := "LOWER({Email}) = LOWER('alice@example.com')"; *filter != want {
		t.Fatalf("filter = %q, want %q", *filter, want)
	}
}

func TestUserRepository_NoMatchIsNilNil(t *testing.T) {
	client, _ := tableServer(t, nil)
	repo := NewUserRepository(client, nil)

	u, err := repo.FindByUsername(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if u != nil {
		t.Fatalf("user = %+v, want nil", u)
	}
}

func TestUserRepository_AmbiguousMatchIsNilNil(t *testing.T) {
	client, _ := tableServer(t, []Record{
		userRecord("recU1", "alice", "alice@example.com"),
		userRecord("recU2", "alice", "alice@example.com"),
	})
	repo := NewUserRepository(client, nil)

	u, err := repo.FindByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if u != nil {
		t.Fatalf("ambiguous match resolved to %+v, want nil", u)
	}
}

func TestUserRepository_LookupsBypassCache(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_ = json.NewEncoder(w).Encode(ListResponse{
			Records: []Record{userRecord("recU1", "alice", "alice@example.com")},
		})
	}))
	t.Cleanup(srv.Close)

	client := NewClient("key", "base").WithBaseURL(srv.URL)
	repo := NewUserRepository(client, NewQueryCache(10, time.Hour, nil))

	for i := 0; i < 2; i++ {
		if _, err := repo.FindByEmail(context.Background(), "alice@example.com"); err != nil {
			t.Fatalf("FindByEmail: %v", err)
		}
	}
	if calls != 2 {
		t.Fatalf("credential lookup served from cache, calls = %d", calls)
	}
}

func TestRecipeRepository_FindAllFilters(t *testing.T) {
	client, filter := tableServer(t, nil)
	repo := NewRecipeRepository(client, nil)

	if _, err := repo.FindAll(context.Background(), 1, 10, RecipeListFilter{}, true); err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if want := "{Private} = FALSE()"; *filter != want {
		t.Fatalf("filter = %q, want %q", *filter, want)
	}

	_, err := repo.FindAll(context.Background(), 1, 10, RecipeListFilter{
		Search:   "lemon') & ('",
		DishType: domain.DishTypeDessert,
	}, true)
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	want := "AND({Private} = FALSE(), FIND(LOWER('lemon'), LOWER({Name})), {DishType} = 'Dessert')"
	if *filter != want {
		t.Fatalf("filter = %q, want %q", *filter, want)
	}
}

func TestRecipeRepository_FindByAuthorFilter(t *testing.T) {
	client, filter := tableServer(t, nil)
	repo := NewRecipeRepository(client, nil)

	if _, err := repo.FindByAuthor(context.Background(), "alice", 1, 10, "", true); err != nil {
		t.Fatalf("FindByAuthor: %v", err)
	}
	// Authors see their own private recipes in this listing, so no
	// privacy condition is applied.
	want := "FIND('alice', {Author} & '') > 0"
	if *filter != want {
		t.Fatalf("filter = %q, want %q", *filter, want)
	}

	if _, err := repo.FindByAuthor(context.Background(), "alice", 1, 10, "tart", true); err != nil {
		t.Fatalf("FindByAuthor: %v", err)
	}
	want = "AND(FIND(LOWER('tart'), LOWER({Name})), FIND('alice', {Author} & '') > 0)"
	if *filter != want {
		t.Fatalf("filter = %q, want %q", *filter, want)
	}
}

func TestRecipeRepository_ListingsCanBypassCache(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_ = json.NewEncoder(w).Encode(ListResponse{Records: []Record{{
			ID:     "recR1",
			Fields: map[string]any{"Name": "Soup", "Slug": "soup"},
		}}})
	}))
	t.Cleanup(srv.Close)

	client := NewClient("key", "base").WithBaseURL(srv.URL)
	repo := NewRecipeRepository(client, NewQueryCache(10, time.Hour, nil))

	for i := 0; i < 2; i++ {
		if _, err := repo.FindAll(context.Background(), 1, 10, RecipeListFilter{}, true); err != nil {
			t.Fatalf("FindAll: %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("cached listing hit the API %d times, want 1", calls)
	}

	if _, err := repo.FindAll(context.Background(), 1, 10, RecipeListFilter{}, false); err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if calls != 2 {
		t.Fatalf("cache bypass did not hit the API, calls = %d", calls)
	}
}

func TestRecipeRepository_FindBySlug(t *testing.T) {
	client, filter := tableServer(t, []Record{{
		ID: "recR1",
		Fields: map[string]any{
			"Name": "Lemon Tart", "Slug": "lemon-tart",
			"Servings": float64(4), "Private": true,
		},
	}})
	repo := NewRecipeRepository(client, nil)

	r, err := repo.FindBySlug(context.Background(), "lemon-tart", false)
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if r == nil || r.ID != "recR1" || !r.Private {
		t.Fatalf("recipe = %+v", r)
	}
	if want := "LOWER({Slug}) = LOWER('lemon-tart')"; *filter != want {
		t.Fatalf("filter = %q, want %q", *filter, want)
	}
}

func TestRecipeRepository_UpdatePrivacyPatchesOnlyFlag(t *testing.T) {
	var patched map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost: // lookup
			_ = json.NewEncoder(w).Encode(ListResponse{Records: []Record{{
				ID:     "recR1",
				Fields: map[string]any{"Name": "Soup", "Slug": "soup"},
			}}})
		case http.MethodPatch:
			if !strings.HasSuffix(r.URL.Path, "/recR1") {
				t.Errorf("patch path = %q", r.URL.Path)
			}
			var body struct {
				Fields map[string]any `json:"fields"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			patched = body.Fields
			_ = json.NewEncoder(w).Encode(Record{
				ID:     "recR1",
				Fields: map[string]any{"Name": "Soup", "Slug": "soup", "Private": true},
			})
		}
	}))
	t.Cleanup(srv.Close)

	repo := NewRecipeRepository(NewClient("key", "base").WithBaseURL(srv.URL), nil)
	r, err := repo.UpdatePrivacy(context.Background(), "soup", true)
	if err != nil {
		t.Fatalf("UpdatePrivacy: %v", err)
	}
	if r == nil || !r.Private {
		t.Fatalf("recipe = %+v", r)
	}
	if len(patched) != 1 || patched["Private"] != true {
		t.Fatalf("patched fields = %v, want only Private", patched)
	}
}

func TestRecipeRepository_UpdatePrivacyMissingRecipe(t *testing.T) {
	client, _ := tableServer(t, nil)
	repo := NewRecipeRepository(client, nil)

	r, err := repo.UpdatePrivacy(context.Background(), "ghost", true)
	if err != nil {
		t.Fatalf("UpdatePrivacy: %v", err)
	}
	if r != nil {
		t.Fatalf("recipe = %+v, want nil", r)
	}
}

func TestIngredientRepository_CreateSerializesNutrition(t *testing.T) {
	var created map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Fields map[string]any `json:"fields"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		created = body.Fields
		_ = json.NewEncoder(w).Encode(Record{ID: "recI1", Fields: body.Fields})
	}))
	t.Cleanup(srv.Close)

	repo := NewIngredientRepository(NewClient("key", "base").WithBaseURL(srv.URL), nil)
	draft := domain.IngredientDraft{
		Name:     "Tomato",
		Slug:     "tomato",
		Category: domain.CategoryVegetables,
		NutritionalValues: domain.NutritionalValues{
			Calories: 18, Protein: 0.9, Carbohydrates: 3.9, Fat: 0.2,
		},
		Intolerances: []domain.Intolerance{domain.IntoleranceNightshades},
		Quantity:     250,
		Unit:         domain.UnitGram,
	}

	ing, err := repo.Create(context.Background(), draft, "https://img.example/tomato.jpg")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ing.ID != "recI1" || ing.NutritionalValues.Calories != 18 {
		t.Fatalf("ingredient = %+v", ing)
	}

	raw, ok := created["NutritionalValues"].(string)
	if !ok {
		t.Fatalf("nutrition stored as %T, want string", created["NutritionalValues"])
	}
	var nv domain.NutritionalValues
	if err := json.Unmarshal([]byte(raw), &nv); err != nil {
		t.Fatalf("stored nutrition is not a JSON document: %v", err)
	}
	if nv.Calories != 18 {
		t.Fatalf("stored calories = %v", nv.Calories)
	}
	if _, ok := created["Image"]; !ok {
		t.Fatalf("image attachment not written")
	}
	if _, ok := created["quantity"]; ok {
		t.Fatalf("composition quantity leaked into the ingredient record")
	}
}

func TestIngredientRepository_CreateWithoutImage(t *testing.T) {
	var created map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Fields map[string]any `json:"fields"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		created = body.Fields
		_ = json.NewEncoder(w).Encode(Record{ID: "recI1", Fields: body.Fields})
	}))
	t.Cleanup(srv.Close)

	repo := NewIngredientRepository(NewClient("key", "base").WithBaseURL(srv.URL), nil)
	_, err := repo.Create(context.Background(), domain.IngredientDraft{
		Name: "Salt", Slug: "salt", Category: domain.CategoryHerbsSpices,
		Quantity: 1, Unit: domain.UnitTeaspoon,
	}, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, ok := created["Image"]; ok {
		t.Fatalf("empty image URL still produced an attachment field")
	}
}

func TestCompositionRepository_Create(t *testing.T) {
	var created map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Fields map[string]any `json:"fields"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		created = body.Fields
		_ = json.NewEncoder(w).Encode(Record{ID: "recC1", Fields: body.Fields})
	}))
	t.Cleanup(srv.Close)

	repo := NewCompositionRepository(NewClient("key", "base").WithBaseURL(srv.URL), nil)
	comp, err := repo.Create(context.Background(), "recR1", "recI1", 250, domain.UnitGram)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if comp.ID != "recC1" || comp.Quantity != 250 || comp.Unit != domain.UnitGram {
		t.Fatalf("composition = %+v", comp)
	}
	if got := created["Recipe"].([]any); len(got) != 1 || got[0] != "recR1" {
		t.Fatalf("recipe link = %v", created["Recipe"])
	}
}
