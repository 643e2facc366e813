package service

import (
	"context"
	"fmt"
	"sort"

	"pinpoint-api/internal/geo"
	"pinpoint-api/internal/models"
	"pinpoint-api/internal/visibility"

	"github.com/rs/zerolog"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// SearchRepository holds the candidate fetch the search engine needs
type SearchRepository interface {
	ListCandidates(ctx context.Context, filters models.SearchFilters) ([]models.Place, error)
}

// SearchService resolves "what is near me and visible to me" queries
type SearchService struct {
	repo    SearchRepository
	friends FriendshipLookup
	logger  zerolog.Logger
}

// NewSearchService creates a new search service
func NewSearchService(repo SearchRepository, friends FriendshipLookup, logger zerolog.Logger) *SearchService {
	return &SearchService{repo: repo, friends: friends, logger: logger}
}

// NearbyParams carries a spatial search request
type NearbyParams struct {
	Latitude  float64
	Longitude float64
	RadiusKm  float64
	Filters   models.SearchFilters
	Page      models.Page
}

// Nearby returns the page of visible places within the radius, ordered by
// ascending distance with id as the deterministic tie-break, plus the total
// match count.
func (s *SearchService) Nearby(ctx context.Context, params NearbyParams, viewerID int64) (*models.SearchResult, error) {
	if params.Latitude < -90 || params.Latitude > 90 {
		return nil, fmt.Errorf("%w: invalid latitude: %f", ErrValidation, params.Latitude)
	}
	if params.Longitude < -180 || params.Longitude > 180 {
		return nil, fmt.Errorf("%w: invalid longitude: %f", ErrValidation, params.Longitude)
	}
	if params.RadiusKm <= 0 {
		return &models.SearchResult{Places: []models.PlaceWithDistance{}}, nil
	}

	candidates, err := s.repo.ListCandidates(ctx, params.Filters)
	if err != nil {
		return nil, fmt.Errorf("service: failed to fetch candidates: %w", err)
	}

	// One friendship lookup for the whole candidate set.
	friendIDs := s.friendSet(ctx, viewerID)

	hits := make([]models.PlaceWithDistance, 0, len(candidates))
	for i := range candidates {
		candidate := &candidates[i]
		if !visibility.IsVisible(candidate, viewerID, friendIDs) {
			continue
		}
		distance := geo.DistanceKm(params.Latitude, params.Longitude, candidate.Latitude, candidate.Longitude)
		if distance > params.RadiusKm {
			continue
		}
		hits = append(hits, models.PlaceWithDistance{Place: *candidate, DistanceKm: distance})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].DistanceKm != hits[j].DistanceKm {
			return hits[i].DistanceKm < hits[j].DistanceKm
		}
		return hits[i].ID < hits[j].ID
	})

	total := len(hits)
	page := paginate(len(hits), params.Page)
	return &models.SearchResult{Places: hits[page.Offset : page.Offset+page.Limit], Total: total}, nil
}

// Browse is the non-spatial variant: same candidate fetch and visibility
// filtering, ordered by name with id as tie-break.
func (s *SearchService) Browse(ctx context.Context, filters models.SearchFilters, pageReq models.Page, viewerID int64) (*models.SearchResult, error) {
	candidates, err := s.repo.ListCandidates(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("service: failed to fetch candidates: %w", err)
	}

	friendIDs := s.friendSet(ctx, viewerID)

	hits := make([]models.PlaceWithDistance, 0, len(candidates))
	for i := range candidates {
		candidate := &candidates[i]
		if !visibility.IsVisible(candidate, viewerID, friendIDs) {
			continue
		}
		hits = append(hits, models.PlaceWithDistance{Place: *candidate})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Name != hits[j].Name {
			return hits[i].Name < hits[j].Name
		}
		return hits[i].ID < hits[j].ID
	})

	total := len(hits)
	page := paginate(len(hits), pageReq)
	return &models.SearchResult{Places: hits[page.Offset : page.Offset+page.Limit], Total: total}, nil
}

// paginate clamps the requested window to the result set
func paginate(total int, page models.Page) models.Page {
	limit := page.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	offset := page.Offset
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	if offset+limit > total {
		limit = total - offset
	}

	return models.Page{Offset: offset, Limit: limit}
}

func (s *SearchService) friendSet(ctx context.Context, viewerID int64) map[int64]struct{} {
	if viewerID == visibility.AnonymousViewer {
		return nil
	}
	friendIDs, err := s.friends.FriendIDsOf(ctx, viewerID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("viewer_id", viewerID).Msg("friendship lookup failed, treating friend set as empty")
		return nil
	}
	return friendIDs
}
