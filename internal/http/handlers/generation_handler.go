package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-recipes-backend/internal/ai"
	"github.com/tbourn/go-recipes-backend/internal/domain"
	"github.com/tbourn/go-recipes-backend/internal/http/middleware"
	"github.com/tbourn/go-recipes-backend/internal/repo"
)

// GenerateRecipeRequest carries the user's constraints for one generation.
type GenerateRecipeRequest struct {
	// Dish type the recipe should belong to
	DishType string `json:"dishType" binding:"required" example:"Main Course"`
	// Dietary tags the recipe must satisfy
	Tags []string `json:"tags" example:"Vegan"`
	// Ingredient names the recipe should feature
	Ingredients []string `json:"ingredients" binding:"required,min=1,dive,required" example:"tomato,basil"`
	// Intolerances the recipe must avoid
	Intolerances []string `json:"intolerances" example:"Gluten"`
	// Number of servings
	Servings int `json:"servings" binding:"required,gt=0" example:"4"`
}

// toParams validates enum membership and converts the wire request into
// generation parameters. The offending value is returned on failure.
func (r *GenerateRecipeRequest) toParams() (ai.GenerateRecipeParams, string) {
	if !domain.DishType(r.DishType).Valid() {
		return ai.GenerateRecipeParams{}, r.DishType
	}
	params := ai.GenerateRecipeParams{
		DishType:    domain.DishType(r.DishType),
		Ingredients: r.Ingredients,
		Servings:    r.Servings,
	}
	for _, t := range r.Tags {
		if !domain.Tag(t).Valid() {
			return ai.GenerateRecipeParams{}, t
		}
		params.Tags = append(params.Tags, domain.Tag(t))
	}
	for _, i := range r.Intolerances {
		if !domain.Intolerance(i).Valid() {
			return ai.GenerateRecipeParams{}, i
		}
		params.Intolerances = append(params.Intolerances, domain.Intolerance(i))
	}
	return params, ""
}

// GenerateRecipe runs the AI generation workflow and persists the result.
//
// @ID           GenerateRecipe
// @Summary      Generate a recipe
// @Description  Generates a recipe draft with the configured AI provider,
// @Description  resolves its ingredients against the shared catalogue,
// @Description  attaches images, and persists everything. Retries carrying
// @Description  the same Idempotency-Key return the already created recipe
// @Description  instead of generating a second one.
// @Tags         recipes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                 false  "Safe-retry key"
// @Param        payload          body      GenerateRecipeRequest  true   "Generation constraints"
// @Success      200  {object}  domain.Recipe "Replay of a previous generation"
// @Success      201  {object}  domain.Recipe
// @Failure      400  {object}  ErrorResponse "Validation error or unknown enum value"
// @Failure      401  {object}  ErrorResponse "Missing or invalid token"
// @Failure      500  {object}  ErrorResponse "Generation or persistence failure"
// @Router       /generate-recipe [post]
func (h *Handlers) GenerateRecipe(c *gin.Context) {
	username := middleware.CurrentUser(c)
	if username == "" {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "missing bearer token")
		return
	}

	// Serve replays before touching the request body: the stored slug is the
	// full outcome of the original call.
	if middleware.IsReplay(c) {
		if key, okKey := middleware.GetIdempotencyKey(c); okKey {
			rec, err := repo.GetIdempotency(c.Request.Context(), h.db, username, key, time.Now().UTC())
			if err == nil && rec.RecipeSlug != "" {
				recipe, err := h.recipeSvc.Get(c.Request.Context(), rec.RecipeSlug, username, true)
				if err == nil {
					ok(c, http.StatusOK, recipe)
					return
				}
			}
			// Record vanished between middleware and handler; fall through and
			// generate again.
		}
	}

	var req GenerateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid payload")
		return
	}
	params, bad := req.toParams()
	if bad != "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown value: "+bad)
		return
	}

	recipe, err := h.genSvc.Generate(c.Request.Context(), params, username)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeGenerateFailed, "failed to generate recipe")
		return
	}

	// Best effort: a failed idempotency insert must not fail the request the
	// recipe was already created for.
	if key, okKey := middleware.GetIdempotencyKey(c); okKey {
		if _, err := repo.CreateIdempotency(c.Request.Context(), h.db, username, key, recipe.Slug, http.StatusCreated, h.idemTTL); err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Str("key", key).Msg("idempotency record not stored")
		}
	}

	ok(c, http.StatusCreated, recipe)
}
