package handler

import (
	"context"
	"net/http"

	"daybreak/backend/internal/game"

	"github.com/gin-gonic/gin"
)

// Content is the read side of the sage and decklist catalog.
type Content interface {
	game.ContentStore
	ListSages(ctx context.Context) ([]game.Sage, error)
}

// ContentHandler serves the static game content.
type ContentHandler struct {
	Content Content
}

// GetSages godoc
// @Summary      Get all sages
// @Description  Retrieves every selectable sage.
// @Tags         content
// @Produce      json
// @Success      200  {array}   game.Sage
// @Failure      500  {object}  ErrorResponse
// @Router       /sages [get]
func (h *ContentHandler) GetSages(c *gin.Context) {
	sages, err := h.Content.ListSages(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sages)
}

// GetSageByID godoc
// @Summary      Get a sage
// @Tags         content
// @Produce      json
// @Param        id path string true "Sage ID"
// @Success      200  {object}  game.Sage
// @Failure      404  {object}  ErrorResponse "Sage not found"
// @Router       /sages/{id} [get]
func (h *ContentHandler) GetSageByID(c *gin.Context) {
	sage, err := h.Content.GetSage(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sage)
}

// GetDecklistByID godoc
// @Summary      Get a decklist
// @Description  Retrieves a decklist with its full card list.
// @Tags         content
// @Produce      json
// @Param        id path string true "Decklist ID"
// @Success      200  {object}  game.Decklist
// @Failure      404  {object}  ErrorResponse "Decklist not found"
// @Router       /decklists/{id} [get]
func (h *ContentHandler) GetDecklistByID(c *gin.Context) {
	deck, err := h.Content.GetDecklist(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deck)
}
