package service

import (
	"context"
	"fmt"
	"strings"

	"pinpoint-api/internal/models"
	"pinpoint-api/internal/visibility"

	"github.com/rs/zerolog"
)

// ActivityRepository holds the persistence operations the activity service needs
type ActivityRepository interface {
	GetPlaceByID(ctx context.Context, id int64) (*models.Place, error)
	CreateActivity(ctx context.Context, activity *models.Activity) (*models.Activity, error)
	ListActivities(ctx context.Context, placeID int64) ([]models.Activity, error)
}

// ActivityService manages sub-activities of a place, with pluggable duplicate
// matching over activity names.
type ActivityService struct {
	repo       ActivityRepository
	resolver   SimilarityResolver
	moderation Moderation
	friends    FriendshipLookup
	logger     zerolog.Logger
}

// NewActivityService creates a new activity service
func NewActivityService(
	repo ActivityRepository,
	resolver SimilarityResolver,
	moderation Moderation,
	friends FriendshipLookup,
	logger zerolog.Logger,
) *ActivityService {
	return &ActivityService{
		repo:       repo,
		resolver:   resolver,
		moderation: moderation,
		friends:    friends,
		logger:     logger,
	}
}

// ActivityResult is the outcome of an activity creation attempt
type ActivityResult struct {
	Activity *models.Activity `json:"activity"`
	Merged   bool             `json:"merged"`
	Message  string           `json:"message,omitempty"`
}

// AddActivity attaches an activity to a place the caller owns. A name the
// similarity resolver recognizes as a duplicate returns the existing activity
// as a soft success.
func (s *ActivityService) AddActivity(ctx context.Context, placeID, ownerID int64, name, category string) (*ActivityResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: activity name is required", ErrValidation)
	}
	if len(name) > maxNameLength {
		return nil, fmt.Errorf("%w: activity name exceeds %d characters", ErrValidation, maxNameLength)
	}

	place, err := s.repo.GetPlaceByID(ctx, placeID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load place: %w", err)
	}
	if place == nil || place.IsDeleted {
		return nil, ErrNotFound
	}
	if place.OwnerID != ownerID {
		return nil, ErrPermissionDenied
	}

	result, err := s.moderation.Check(ctx, name)
	if err != nil {
		s.logger.Warn().Err(err).Msg("moderation unavailable, allowing content")
	} else if result.Flagged {
		return nil, fmt.Errorf("%w: activity name rejected by moderation: %s", ErrValidation, result.Reason)
	}

	existing, err := s.repo.ListActivities(ctx, placeID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list activities: %w", err)
	}

	names := make([]string, len(existing))
	for i, a := range existing {
		names[i] = a.Name
	}

	if matched, ok := s.resolver.FindDuplicate(name, names); ok {
		for i := range existing {
			if existing[i].Name == matched {
				return &ActivityResult{
					Activity: &existing[i],
					Merged:   true,
					Message:  "a matching activity already exists at this place",
				}, nil
			}
		}
	}

	created, err := s.repo.CreateActivity(ctx, &models.Activity{
		PlaceID:  placeID,
		Name:     name,
		Category: strings.TrimSpace(category),
	})
	if err != nil {
		return nil, fmt.Errorf("service: failed to create activity: %w", err)
	}

	return &ActivityResult{Activity: created}, nil
}

// ListActivities returns a place's activities if the viewer may see the place.
func (s *ActivityService) ListActivities(ctx context.Context, placeID, viewerID int64) ([]models.Activity, error) {
	place, err := s.repo.GetPlaceByID(ctx, placeID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load place: %w", err)
	}
	if place == nil {
		return nil, ErrNotFound
	}

	var friendIDs map[int64]struct{}
	if place.Visibility == models.VisibilityFriends && viewerID != place.OwnerID && viewerID != visibility.AnonymousViewer {
		friendIDs, err = s.friends.FriendIDsOf(ctx, viewerID)
		if err != nil {
			s.logger.Warn().Err(err).Int64("viewer_id", viewerID).Msg("friendship lookup failed, treating friend set as empty")
			friendIDs = nil
		}
	}
	if !visibility.IsVisible(place, viewerID, friendIDs) {
		return nil, ErrNotFound
	}

	activities, err := s.repo.ListActivities(ctx, placeID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list activities: %w", err)
	}

	return activities, nil
}
