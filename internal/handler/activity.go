package handler

import (
	"context"
	"net/http"
	"strconv"

	"pinpoint-api/internal/models"
	"pinpoint-api/internal/service"

	"github.com/gin-gonic/gin"
)

// ActivityHandler handles place activity requests
type ActivityHandler struct {
	service ActivityService
}

// Service interface for dependency injection
type ActivityService interface {
	AddActivity(ctx context.Context, placeID, ownerID int64, name, category string) (*service.ActivityResult, error)
	ListActivities(ctx context.Context, placeID, viewerID int64) ([]models.Activity, error)
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(svc ActivityService) *ActivityHandler {
	return &ActivityHandler{service: svc}
}

type createActivityRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Create handles POST /places/:id/activities requests
func (h *ActivityHandler) Create(c *gin.Context) {
	ownerID := viewerID(c)
	if ownerID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	placeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid place id"})
		return
	}

	var req createActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.service.AddActivity(c.Request.Context(), placeID, ownerID, req.Name, req.Category)
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

// List handles GET /places/:id/activities requests
func (h *ActivityHandler) List(c *gin.Context) {
	placeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid place id"})
		return
	}

	activities, err := h.service.ListActivities(c.Request.Context(), placeID, viewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, activities)
}
