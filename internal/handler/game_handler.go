package handler

import (
	"net/http"
	"strconv"

	"daybreak/backend/internal/game"

	"github.com/gin-gonic/gin"
)

// GameHandler serves read-only views of live games.
type GameHandler struct {
	Registry *game.Registry
}

// PaginatedGameResponse defines the structure for a paginated list of games.
type PaginatedGameResponse struct {
	Data []game.Summary `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

// GetGames godoc
// @Summary      List live games
// @Description  Retrieves a paginated list of games, either still in setup or already started.
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        started query     bool    false  "Return games that have left setup"
// @Param        page    query     int     false  "Page number" default(1)
// @Param        limit   query     int     false  "Items per page" default(10)
// @Success      200 {object} PaginatedGameResponse
// @Failure      400 {object} ErrorResponse
// @Router       /games [get]
func (h *GameHandler) GetGames(c *gin.Context) {
	page, limit := pageParams(c)

	started := false
	if raw := c.Query("started"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "started must be a boolean"})
			return
		}
		started = parsed
	}

	c.JSON(http.StatusOK, Paginate(h.Registry.List(started), page, limit))
}

// GetGameByID godoc
// @Summary      Get a single game by ID
// @Description  Retrieves the public state of one live game.
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Game ID"
// @Success      200 {object} game.PublicView
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /games/{id} [get]
func (h *GameHandler) GetGameByID(c *gin.Context) {
	s, err := h.Registry.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.View())
}
