package handler

import (
	"context"
	"net/http"
	"strconv"

	"pinpoint-api/internal/models"
	"pinpoint-api/internal/service"

	"github.com/gin-gonic/gin"
)

// SearchHandler handles nearby and browse search requests
type SearchHandler struct {
	service SearchService
}

// Service interface for dependency injection
type SearchService interface {
	Nearby(ctx context.Context, params service.NearbyParams, viewerID int64) (*models.SearchResult, error)
	Browse(ctx context.Context, filters models.SearchFilters, page models.Page, viewerID int64) (*models.SearchResult, error)
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(svc SearchService) *SearchHandler {
	return &SearchHandler{service: svc}
}

// Nearby handles GET /places/nearby requests
func (h *SearchHandler) Nearby(c *gin.Context) {
	latStr := c.Query("lat")
	lngStr := c.Query("lng")
	if latStr == "" || lngStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameters 'lat' and 'lng'"})
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid latitude format"})
		return
	}

	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid longitude format"})
		return
	}

	radiusKm := 5.0
	if radiusStr := c.Query("radius_km"); radiusStr != "" {
		radiusKm, err = strconv.ParseFloat(radiusStr, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid radius format"})
			return
		}
	}

	params := service.NearbyParams{
		Latitude:  lat,
		Longitude: lng,
		RadiusKm:  radiusKm,
		Filters:   parseFilters(c),
		Page:      parsePage(c),
	}

	result, err := h.service.Nearby(c.Request.Context(), params, viewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Browse handles GET /places requests, the non-spatial listing
func (h *SearchHandler) Browse(c *gin.Context) {
	result, err := h.service.Browse(c.Request.Context(), parseFilters(c), parsePage(c), viewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func parseFilters(c *gin.Context) models.SearchFilters {
	return models.SearchFilters{
		Visibility:       models.Visibility(c.Query("visibility")),
		Type:             models.PlaceType(c.Query("type")),
		ActivityName:     c.Query("activity"),
		ActivityCategory: c.Query("category"),
	}
}

func parsePage(c *gin.Context) models.Page {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	return models.Page{Offset: offset, Limit: limit}
}
