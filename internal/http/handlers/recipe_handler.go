package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-recipes-backend/internal/airtable"
	"github.com/tbourn/go-recipes-backend/internal/domain"
	"github.com/tbourn/go-recipes-backend/internal/http/middleware"
	"github.com/tbourn/go-recipes-backend/internal/services"
)

// UpdatePrivacyRequest toggles the privacy flag of an owned recipe.
// A pointer distinguishes an explicit false from a missing field.
type UpdatePrivacyRequest struct {
	Private *bool `json:"private" binding:"required" example:"true"`
}

// ListRecipes returns a page of public recipes.
//
// @ID           ListRecipes
// @Summary      List public recipes
// @Description  Returns a page of public recipes, optionally narrowed by a
// @Description  case-insensitive name search and a dish type.
// @Tags         recipes
// @Produce      json
// @Param        page      query     int     false  "Page number (default 1)"
// @Param        pageSize  query     int     false  "Items per page (default 10, max 50)"
// @Param        s         query     string  false  "Substring match on the recipe name"
// @Param        dishType  query     string  false  "Exact dish type, e.g. Dessert"
// @Param        cache     query     bool    false  "Pass false to bypass the query cache"
// @Success      200  {object}  domain.PaginatedCollection[domain.RecipeListItem]
// @Failure      400  {object}  ErrorResponse "Unknown dish type"
// @Failure      500  {object}  ErrorResponse
// @Router       /recipes [get]
func (h *Handlers) ListRecipes(c *gin.Context) {
	page, pageSize := clampPagination(c)

	filter := airtable.RecipeListFilter{Search: c.Query("s")}
	if dt := c.Query("dishType"); dt != "" {
		if !domain.DishType(dt).Valid() {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown dish type")
			return
		}
		filter.DishType = domain.DishType(dt)
	}

	result, err := h.recipeSvc.List(c.Request.Context(), page, pageSize, filter, cacheFlag(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "failed to list recipes")
		return
	}
	ok(c, http.StatusOK, result)
}

// ListRecipesByAuthor returns a page of one author's recipes.
//
// @ID           ListRecipesByAuthor
// @Summary      List an author's recipes
// @Tags         recipes
// @Produce      json
// @Param        username  path      string  true   "Author username"
// @Param        page      query     int     false  "Page number (default 1)"
// @Param        pageSize  query     int     false  "Items per page (default 10, max 50)"
// @Param        s         query     string  false  "Substring match on the recipe name"
// @Param        cache     query     bool    false  "Pass false to bypass the query cache"
// @Success      200  {object}  domain.PaginatedCollection[domain.RecipeListItem]
// @Failure      500  {object}  ErrorResponse
// @Router       /recipes/author/{username} [get]
func (h *Handlers) ListRecipesByAuthor(c *gin.Context) {
	page, pageSize := clampPagination(c)

	result, err := h.recipeSvc.ListByAuthor(c.Request.Context(), c.Param("username"), page, pageSize, c.Query("s"), cacheFlag(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "failed to list recipes")
		return
	}
	ok(c, http.StatusOK, result)
}

// GetRecipe returns a single recipe by slug.
//
// @ID           GetRecipe
// @Summary      Get a recipe
// @Description  Returns the full recipe. Private recipes are only visible to
// @Description  their author; everyone else receives 404.
// @Tags         recipes
// @Produce      json
// @Param        slug   path      string  true   "Recipe slug"
// @Param        cache  query     bool    false  "Pass false to bypass the query cache"
// @Success      200   {object}  domain.Recipe
// @Failure      404   {object}  ErrorResponse "Unknown slug or private recipe"
// @Failure      500   {object}  ErrorResponse
// @Router       /recipes/{slug} [get]
func (h *Handlers) GetRecipe(c *gin.Context) {
	recipe, err := h.recipeSvc.Get(c.Request.Context(), c.Param("slug"), middleware.CurrentUser(c), cacheFlag(c))
	switch {
	case errors.Is(err, services.ErrRecipeNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "recipe not found")
		return
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to load recipe")
		return
	}
	ok(c, http.StatusOK, recipe)
}

// UpdateRecipePrivacy flips the privacy flag of an owned recipe.
//
// @ID           UpdateRecipePrivacy
// @Summary      Update recipe privacy
// @Description  Sets the recipe's privacy flag. Only the author may change
// @Description  it; an unchanged flag is a no-op that skips the write.
// @Tags         recipes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        slug     path      string                true  "Recipe slug"
// @Param        payload  body      UpdatePrivacyRequest  true  "Desired privacy"
// @Success      200      {object}  domain.Recipe
// @Failure      400      {object}  ErrorResponse "Validation error"
// @Failure      401      {object}  ErrorResponse "Missing or invalid token"
// @Failure      403      {object}  ErrorResponse "Not the author"
// @Failure      404      {object}  ErrorResponse "Unknown slug"
// @Failure      500      {object}  ErrorResponse
// @Router       /recipes/{slug}/privacy [put]
func (h *Handlers) UpdateRecipePrivacy(c *gin.Context) {
	var req UpdatePrivacyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid payload")
		return
	}

	recipe, err := h.recipeSvc.SetPrivacy(c.Request.Context(), c.Param("slug"), middleware.CurrentUser(c), *req.Private)
	switch {
	case errors.Is(err, services.ErrRecipeNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "recipe not found")
		return
	case errors.Is(err, services.ErrForbidden):
		fail(c, http.StatusForbidden, ErrCodeForbidden, "only the author can change privacy")
		return
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to update privacy")
		return
	}
	ok(c, http.StatusOK, recipe)
}
