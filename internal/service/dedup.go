package service

import (
	"context"
	"fmt"

	"pinpoint-api/internal/models"
)

// DedupToleranceDeg is the bounding window for custom-place deduplication,
// roughly 50 meters at most latitudes. It is a cheap degree-box check, not a
// geodesic circle.
const DedupToleranceDeg = 0.0005

// DedupRepository holds the lookups the duplicate matcher needs
type DedupRepository interface {
	FindVerifiedByAddress(ctx context.Context, address string) (*models.Place, error)
	FindCustomNearby(ctx context.Context, lat, lng, toleranceDeg float64) (*models.Place, error)
}

// DuplicateMatcher decides whether an incoming public place already exists.
// Private and friends-only places never match: duplicates across private
// spaces are expected.
type DuplicateMatcher struct {
	repo DedupRepository
}

// NewDuplicateMatcher creates a matcher over the given lookups
func NewDuplicateMatcher(repo DedupRepository) *DuplicateMatcher {
	return &DuplicateMatcher{repo: repo}
}

// Match returns the existing place the input duplicates, or nil when the
// input should create a new row. Verified places match on exact address,
// custom places on the coordinate bounding window.
func (m *DuplicateMatcher) Match(ctx context.Context, input *models.Place) (*models.Place, error) {
	if input.Visibility != models.VisibilityPublic {
		return nil, nil
	}

	switch input.Type {
	case models.PlaceTypeVerified:
		return m.repo.FindVerifiedByAddress(ctx, input.Address)
	case models.PlaceTypeCustom:
		return m.repo.FindCustomNearby(ctx, input.Latitude, input.Longitude, DedupToleranceDeg)
	default:
		return nil, fmt.Errorf("service: unknown place type %q", input.Type)
	}
}
