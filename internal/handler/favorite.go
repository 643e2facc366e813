package handler

import (
	"context"
	"net/http"
	"strconv"

	"pinpoint-api/internal/models"

	"github.com/gin-gonic/gin"
)

// FavoriteHandler handles favorite bookkeeping requests
type FavoriteHandler struct {
	service FavoriteService
}

// Service interface for dependency injection
type FavoriteService interface {
	AddFavorite(ctx context.Context, placeID, userID int64) error
	RemoveFavorite(ctx context.Context, placeID, userID int64) error
	ListFavorites(ctx context.Context, userID, viewerID int64) ([]models.Place, error)
}

// NewFavoriteHandler creates a new favorite handler
func NewFavoriteHandler(svc FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{service: svc}
}

// Add handles PUT /places/:id/favorite requests
func (h *FavoriteHandler) Add(c *gin.Context) {
	userID := viewerID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	placeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid place id"})
		return
	}

	if err := h.service.AddFavorite(c.Request.Context(), placeID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Remove handles DELETE /places/:id/favorite requests
func (h *FavoriteHandler) Remove(c *gin.Context) {
	userID := viewerID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	placeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid place id"})
		return
	}

	if err := h.service.RemoveFavorite(c.Request.Context(), placeID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListForUser handles GET /users/:id/favorites requests
func (h *FavoriteHandler) ListForUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	places, err := h.service.ListFavorites(c.Request.Context(), userID, viewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, places)
}
