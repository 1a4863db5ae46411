package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-recipes-backend/internal/events"
	"github.com/tbourn/go-recipes-backend/internal/http/middleware"
)

// ResetCache discards every cached listing and lookup result.
//
// @ID           ResetCache
// @Summary      Reset the query cache
// @Description  Emits a clear-cache event so every subscribed cache drops its
// @Description  entries. Useful after out-of-band edits to the data base.
// @Tags         admin
// @Security     BearerAuth
// @Success      204  "Cache cleared"
// @Failure      401  {object}  ErrorResponse "Missing or invalid token"
// @Router       /reset-cache [post]
func (h *Handlers) ResetCache(c *gin.Context) {
	h.bus.Emit(events.TopicClearCache)
	middleware.LoggerFrom(c).Info().Str("user", middleware.CurrentUser(c)).Msg("query cache reset requested")
	noContent(c)
}
