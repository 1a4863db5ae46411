package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListIngredients returns a page of the shared ingredient catalogue.
//
// @ID           ListIngredients
// @Summary      List ingredients
// @Description  Returns a page of the shared ingredient catalogue, including
// @Description  per-unit nutritional values where known.
// @Tags         ingredients
// @Produce      json
// @Param        page      query     int     false  "Page number (default 1)"
// @Param        pageSize  query     int     false  "Items per page (default 10, max 50)"
// @Param        s         query     string  false  "Substring match on the ingredient name"
// @Param        cache     query     bool    false  "Pass false to bypass the query cache"
// @Success      200  {object}  domain.PaginatedCollection[domain.Ingredient]
// @Failure      500  {object}  ErrorResponse
// @Router       /ingredients [get]
func (h *Handlers) ListIngredients(c *gin.Context) {
	page, pageSize := clampPagination(c)

	result, err := h.recipeSvc.ListIngredients(c.Request.Context(), page, pageSize, c.Query("s"), cacheFlag(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "failed to list ingredients")
		return
	}
	ok(c, http.StatusOK, result)
}
