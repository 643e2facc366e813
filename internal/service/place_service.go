package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pinpoint-api/internal/models"
	"pinpoint-api/internal/visibility"

	"github.com/rs/zerolog"
)

const (
	maxNameLength    = 200
	maxAddressLength = 300
)

// PlaceRepository holds the persistence operations the place service needs
type PlaceRepository interface {
	CreatePlace(ctx context.Context, place *models.Place) (*models.Place, error)
	GetPlaceByID(ctx context.Context, id int64) (*models.Place, error)
	AddFavorite(ctx context.Context, placeID, userID int64) (bool, error)
	RemoveFavorite(ctx context.Context, placeID, userID int64) (bool, error)
	ListFavoritePlaces(ctx context.Context, userID int64) ([]models.Place, error)
	SoftDeletePlace(ctx context.Context, id int64) error
}

// RateLimiter guards the admission path
type RateLimiter interface {
	Take(ctx context.Context, ownerID int64) (allowed bool, count int64, err error)
}

// Matcher decides whether an incoming place duplicates an existing one
type Matcher interface {
	Match(ctx context.Context, input *models.Place) (*models.Place, error)
}

// PlaceService orchestrates place creation, retrieval and favorite bookkeeping
type PlaceService struct {
	repo          PlaceRepository
	limiter       RateLimiter
	matcher       Matcher
	moderation    Moderation
	enrichment    NameEnrichment
	friends       FriendshipLookup
	enrichTimeout time.Duration
	logger        zerolog.Logger
}

// NewPlaceService creates a new place service
func NewPlaceService(
	repo PlaceRepository,
	limiter RateLimiter,
	matcher Matcher,
	moderation Moderation,
	enrichment NameEnrichment,
	friends FriendshipLookup,
	enrichTimeout time.Duration,
	logger zerolog.Logger,
) *PlaceService {
	return &PlaceService{
		repo:          repo,
		limiter:       limiter,
		matcher:       matcher,
		moderation:    moderation,
		enrichment:    enrichment,
		friends:       friends,
		enrichTimeout: enrichTimeout,
		logger:        logger,
	}
}

// CreatePlaceInput carries the caller-supplied fields of a new place
type CreatePlaceInput struct {
	Name       string            `json:"name"`
	Address    string            `json:"address"`
	Latitude   float64           `json:"latitude"`
	Longitude  float64           `json:"longitude"`
	Visibility models.Visibility `json:"visibility"`
	Type       models.PlaceType  `json:"type"`
}

// CreateResult is the outcome of a creation attempt. Merged marks the soft
// success where the write was redirected into an existing place.
type CreateResult struct {
	Place   *models.Place `json:"place"`
	Merged  bool          `json:"merged"`
	Message string        `json:"message,omitempty"`
}

// Create admits a new place: rate limit, validation, deduplication, optional
// name enrichment, then persistence. A duplicate match returns the existing
// place instead of erroring.
func (s *PlaceService) Create(ctx context.Context, input CreatePlaceInput, ownerID int64) (*CreateResult, error) {
	allowed, count, err := s.limiter.Take(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service: rate limiter failed: %w", err)
	}
	if !allowed {
		return nil, fmt.Errorf("%w: daily creation limit reached (attempt %d)", ErrRateLimited, count)
	}

	place, err := s.normalize(input, ownerID)
	if err != nil {
		return nil, err
	}

	if place.Type == models.PlaceTypeVerified && place.Address == "" {
		return nil, fmt.Errorf("%w: verified places require an address", ErrValidation)
	}

	// Custom names always come from the user and are screened before any
	// other work happens on them.
	if place.Type == models.PlaceTypeCustom {
		if err := s.moderate(ctx, place.Name); err != nil {
			return nil, err
		}
	}

	existing, err := s.matcher.Match(ctx, place)
	if err != nil {
		return nil, fmt.Errorf("service: duplicate matching failed: %w", err)
	}
	if existing != nil {
		return &CreateResult{
			Place:   existing,
			Merged:  true,
			Message: "an existing place at this location was returned instead of creating a duplicate",
		}, nil
	}

	if place.Type == models.PlaceTypeVerified {
		// Enriched names are presumed externally vetted; the user-supplied
		// fallback is not.
		if name := s.lookupName(ctx, place.Latitude, place.Longitude); name != "" {
			place.Name = name
		} else {
			if place.Name == "" {
				return nil, fmt.Errorf("%w: name is required when enrichment is unavailable", ErrValidation)
			}
			if err := s.moderate(ctx, place.Name); err != nil {
				return nil, err
			}
		}
	}

	created, err := s.repo.CreatePlace(ctx, place)
	if err != nil {
		return nil, fmt.Errorf("service: failed to create place: %w", err)
	}

	return &CreateResult{Place: created}, nil
}

// normalize trims, validates and auto-corrects the caller-supplied fields
func (s *PlaceService) normalize(input CreatePlaceInput, ownerID int64) (*models.Place, error) {
	name := strings.TrimSpace(input.Name)
	address := strings.TrimSpace(input.Address)

	if len(name) > maxNameLength {
		return nil, fmt.Errorf("%w: name exceeds %d characters", ErrValidation, maxNameLength)
	}
	if len(address) > maxAddressLength {
		return nil, fmt.Errorf("%w: address exceeds %d characters", ErrValidation, maxAddressLength)
	}
	if input.Latitude < -90 || input.Latitude > 90 {
		return nil, fmt.Errorf("%w: invalid latitude: %f", ErrValidation, input.Latitude)
	}
	if input.Longitude < -180 || input.Longitude > 180 {
		return nil, fmt.Errorf("%w: invalid longitude: %f", ErrValidation, input.Longitude)
	}

	vis := input.Visibility
	if vis == "" {
		vis = models.VisibilityPrivate
	}
	if !vis.Valid() {
		return nil, fmt.Errorf("%w: invalid visibility %q", ErrValidation, input.Visibility)
	}

	typ := input.Type
	if typ == "" {
		typ = models.PlaceTypeCustom
	}
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: invalid type %q", ErrValidation, input.Type)
	}

	// Verified implies public: a non-public verified request is corrected
	// down to custom rather than rejected.
	if typ == models.PlaceTypeVerified && vis != models.VisibilityPublic {
		typ = models.PlaceTypeCustom
	}

	// Verified places may arrive nameless; enrichment supplies the name.
	if name == "" && typ != models.PlaceTypeVerified {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	return &models.Place{
		Name:       name,
		Address:    address,
		Latitude:   input.Latitude,
		Longitude:  input.Longitude,
		OwnerID:    ownerID,
		Visibility: vis,
		Type:       typ,
	}, nil
}

// lookupName calls the enrichment collaborator with a short deadline. Any
// failure degrades to the empty string.
func (s *PlaceService) lookupName(ctx context.Context, lat, lng float64) string {
	lookupCtx, cancel := context.WithTimeout(ctx, s.enrichTimeout)
	defer cancel()

	name, err := s.enrichment.LookupName(lookupCtx, lat, lng)
	if err != nil {
		s.logger.Warn().Err(err).Msg("name enrichment failed, keeping user-supplied name")
		return ""
	}

	return strings.TrimSpace(name)
}

// moderate screens user-supplied text, failing open on collaborator errors
func (s *PlaceService) moderate(ctx context.Context, text string) error {
	result, err := s.moderation.Check(ctx, text)
	if err != nil {
		s.logger.Warn().Err(err).Msg("moderation unavailable, allowing content")
		return nil
	}
	if result.Flagged {
		return fmt.Errorf("%w: name rejected by moderation: %s", ErrValidation, result.Reason)
	}
	return nil
}

// GetByID loads a place the viewer may see. Unknown ids and invisible places
// both come back as ErrNotFound.
func (s *PlaceService) GetByID(ctx context.Context, id, viewerID int64) (*models.Place, error) {
	place, err := s.repo.GetPlaceByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load place: %w", err)
	}
	if place == nil {
		return nil, ErrNotFound
	}

	friendIDs := s.friendSetIfNeeded(ctx, place, viewerID)
	if !visibility.IsVisible(place, viewerID, friendIDs) {
		return nil, ErrNotFound
	}

	return place, nil
}

// AddFavorite records that the user favorited the place. Idempotent: a repeat
// favorite is a no-op and the counter stays untouched, guarded by the store's
// uniqueness constraint rather than a pre-check.
func (s *PlaceService) AddFavorite(ctx context.Context, placeID, userID int64) error {
	place, err := s.repo.GetPlaceByID(ctx, placeID)
	if err != nil {
		return fmt.Errorf("service: failed to load place: %w", err)
	}
	if place == nil || place.IsDeleted {
		return ErrNotFound
	}

	friendIDs := s.friendSetIfNeeded(ctx, place, userID)
	if !visibility.IsVisible(place, userID, friendIDs) {
		return ErrNotFound
	}

	if _, err := s.repo.AddFavorite(ctx, placeID, userID); err != nil {
		return fmt.Errorf("service: failed to add favorite: %w", err)
	}

	return nil
}

// RemoveFavorite removes the user's favorite if present; otherwise a no-op.
func (s *PlaceService) RemoveFavorite(ctx context.Context, placeID, userID int64) error {
	if _, err := s.repo.RemoveFavorite(ctx, placeID, userID); err != nil {
		return fmt.Errorf("service: failed to remove favorite: %w", err)
	}
	return nil
}

// ListFavorites returns the places a user has favorited that the viewer may
// see. Soft-deleted places are not hidden here: an existing favorite keeps
// pointing at its record.
func (s *PlaceService) ListFavorites(ctx context.Context, userID, viewerID int64) ([]models.Place, error) {
	places, err := s.repo.ListFavoritePlaces(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list favorites: %w", err)
	}

	friendIDs := s.friendSet(ctx, viewerID)

	visible := make([]models.Place, 0, len(places))
	for i := range places {
		if visibility.IsVisibleEvenDeleted(&places[i], viewerID, friendIDs) {
			visible = append(visible, places[i])
		}
	}

	return visible, nil
}

// SoftDelete marks the place deleted. Owner-only.
func (s *PlaceService) SoftDelete(ctx context.Context, id, ownerID int64) error {
	place, err := s.repo.GetPlaceByID(ctx, id)
	if err != nil {
		return fmt.Errorf("service: failed to load place: %w", err)
	}
	if place == nil {
		return ErrNotFound
	}
	if place.OwnerID != ownerID {
		return ErrPermissionDenied
	}
	if place.IsDeleted {
		return nil
	}

	if err := s.repo.SoftDeletePlace(ctx, id); err != nil {
		return fmt.Errorf("service: failed to soft-delete place: %w", err)
	}

	return nil
}

// friendSet resolves the viewer's friend ids, degrading to an empty set on
// lookup failure or for anonymous viewers.
func (s *PlaceService) friendSet(ctx context.Context, viewerID int64) map[int64]struct{} {
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

// friendSetIfNeeded avoids the lookup when the visibility decision cannot
// depend on friendship.
func (s *PlaceService) friendSetIfNeeded(ctx context.Context, place *models.Place, viewerID int64) map[int64]struct{} {
	if place.Visibility != models.VisibilityFriends || viewerID == place.OwnerID {
		return nil
	}
	return s.friendSet(ctx, viewerID)
}
