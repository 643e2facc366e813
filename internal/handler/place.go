package handler

import (
	"context"
	"net/http"
	"strconv"

	"pinpoint-api/internal/models"
	"pinpoint-api/internal/service"

	"github.com/gin-gonic/gin"
)

// PlaceHandler handles place CRUD requests
type PlaceHandler struct {
	service PlaceService
}

// Service interface for dependency injection
type PlaceService interface {
	Create(ctx context.Context, input service.CreatePlaceInput, ownerID int64) (*service.CreateResult, error)
	GetByID(ctx context.Context, id, viewerID int64) (*models.Place, error)
	SoftDelete(ctx context.Context, id, ownerID int64) error
}

// NewPlaceHandler creates a new place handler
func NewPlaceHandler(svc PlaceService) *PlaceHandler {
	return &PlaceHandler{service: svc}
}

// Create handles POST /places requests
func (h *PlaceHandler) Create(c *gin.Context) {
	ownerID := viewerID(c)
	if ownerID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var input service.CreatePlaceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.service.Create(c.Request.Context(), input, ownerID)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusCreated
	if result.Merged {
		status = http.StatusOK
	}
	c.JSON(status, result)
}

// Get handles GET /places/:id requests
func (h *PlaceHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid place id"})
		return
	}

	place, err := h.service.GetByID(c.Request.Context(), id, viewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, place)
}

// Delete handles DELETE /places/:id requests
func (h *PlaceHandler) Delete(c *gin.Context) {
	ownerID := viewerID(c)
	if ownerID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid place id"})
		return
	}

	if err := h.service.SoftDelete(c.Request.Context(), id, ownerID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
