// Package domain defines the entities stored in the remote Airtable base
// (users, ingredients, recipes, compositions) together with the closed
// enumerations and draft types produced by the AI generation flow. These
// types carry no persistence logic; the airtable package validates and
// converts raw records into them.
package domain

// Image is a single attachment entry as stored in an Airtable attachment
// field. Only the URL is meaningful to this application.
type Image struct {
	URL string `json:"url"`
}

// NutritionalValues holds the nutritional basis of one ingredient. The
// interpretation of the numbers depends on the declared unit of the
// composition that references the ingredient: per 100g/100ml for mass and
// volume units, per single unit for item/cup/tablespoon/teaspoon.
type NutritionalValues struct {
	Calories      float64            `json:"calories"`
	Protein       float64            `json:"protein"`
	Carbohydrates float64            `json:"carbohydrates"`
	Fat           float64            `json:"fat"`
	Vitamins      map[string]float64 `json:"vitamins"`
	Minerals      map[string]float64 `json:"minerals"`
}

// Ingredient is a reusable, globally shared ingredient record. Ingredients
// are created on demand by the generation flow and never updated in place.
type Ingredient struct {
	ID                string            `json:"id" validate:"required"`
	Name              string            `json:"Name" validate:"required"`
	Slug              string            `json:"Slug" validate:"required"`
	Category          Category          `json:"Category" validate:"required"`
	NutritionalValues NutritionalValues `json:"NutritionalValues"`
	Intolerances      []Intolerance     `json:"Intolerances"`
	Image             []Image           `json:"Image,omitempty"`
}

// Recipe is the full recipe aggregate, including the lookup fields Airtable
// computes from the linked Compositions and Author records.
type Recipe struct {
	ID                  string      `json:"id" validate:"required"`
	Name                string      `json:"Name" validate:"required"`
	Slug                string      `json:"Slug" validate:"required"`
	Instructions        string      `json:"Instructions"`
	Servings            int         `json:"Servings"`
	DishType            DishType    `json:"DishType"`
	Ingredients         []string    `json:"Ingredients"`
	IngredientsName     []string    `json:"IngredientsName,omitempty"`
	PrepTime            int         `json:"PrepTime"`
	Difficulty          Difficulty  `json:"Difficulty"`
	Tags                []Tag       `json:"Tags"`
	CreatedAt           string      `json:"CreatedAt,omitempty"`
	Intolerances        []string    `json:"Intolerances"`
	Image               []Image     `json:"Image"`
	Compositions        []string    `json:"Compositions"`
	IngredientsQuantity []float64   `json:"IngredientsQuantity,omitempty"`
	IngredientsUnit     []string    `json:"IngredientsUnit,omitempty"`
	NutritionalValues   []string    `json:"NutritionalValues,omitempty"`
	Private             bool        `json:"Private"`
	Author              []string    `json:"Author"`
	AuthorName          []string    `json:"AuthorName,omitempty"`
}

// RecipeListItem is the trimmed projection returned by the paginated
// listing endpoints. It omits instructions, composition detail, and
// authorship internals.
type RecipeListItem struct {
	ID           string     `json:"id"`
	Name         string     `json:"Name"`
	Slug         string     `json:"Slug"`
	Servings     int        `json:"Servings"`
	DishType     DishType   `json:"DishType"`
	PrepTime     int        `json:"PrepTime"`
	Difficulty   Difficulty `json:"Difficulty"`
	Tags         []Tag      `json:"Tags"`
	Intolerances []string   `json:"Intolerances"`
	Image        []Image    `json:"Image"`
	AuthorName   []string   `json:"AuthorName"`
}

// Composition links one ingredient into one recipe with a quantity and unit.
// Exactly one composition exists per (recipe, ingredient) pair and it is
// immutable once created.
type Composition struct {
	ID         string   `json:"id"`
	Identity   int      `json:"Identity,omitempty"`
	Recipe     []string `json:"Recipe" validate:"min=1"`
	Ingredient []string `json:"Ingredient" validate:"min=1"`
	Quantity   float64  `json:"Quantity" validate:"gte=0"`
	Unit       Unit     `json:"Unit" validate:"required"`
}

// User is an account record. The password hash never leaves the server.
type User struct {
	ID       string `json:"id" validate:"required"`
	Username string `json:"Username" validate:"required"`
	Email    string `json:"Email" validate:"required,email"`
	Password string `json:"-"`
}

// PaginatedCollection is the envelope returned by page-indexed listings.
type PaginatedCollection[T any] struct {
	Items           []T  `json:"items"`
	Page            int  `json:"page"`
	PageSize        int  `json:"pageSize"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

// IngredientDraft is an AI-generated ingredient reference that has not yet
// been resolved against the Ingredients table. Quantity and Unit belong to
// the composition, not to the ingredient record itself.
type IngredientDraft struct {
	Name              string            `json:"Name" validate:"required"`
	Slug              string            `json:"Slug" validate:"required"`
	Category          Category          `json:"Category" validate:"required"`
	NutritionalValues NutritionalValues `json:"NutritionalValues"`
	Intolerances      []Intolerance     `json:"Intolerances"`
	Quantity          float64           `json:"quantity" validate:"gt=0"`
	Unit              Unit              `json:"unit" validate:"required"`
}

// RecipeDraft is the structured output of one AI generation call.
type RecipeDraft struct {
	Name         string            `json:"Name" validate:"required"`
	Slug         string            `json:"Slug" validate:"required"`
	Instructions []string          `json:"Instructions" validate:"min=1"`
	Servings     int               `json:"Servings" validate:"gt=0"`
	DishType     DishType          `json:"DishType"`
	PrepTime     int               `json:"PrepTime"`
	Difficulty   Difficulty        `json:"Difficulty"`
	Tags         []Tag             `json:"Tags"`
	Ingredients  []IngredientDraft `json:"ingredients" validate:"min=1,dive"`
}
