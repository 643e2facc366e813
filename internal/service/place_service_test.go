package service

import (
	"context"
	"testing"
	"time"

	"pinpoint-api/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPlaceRepository is a mock implementation of the PlaceRepository interface
type MockPlaceRepository struct {
	mock.Mock
}

func (m *MockPlaceRepository) CreatePlace(ctx context.Context, place *models.Place) (*models.Place, error) {
	args := m.Called(ctx, place)
	return args.Get(0).(*models.Place), args.Error(1)
}

func (m *MockPlaceRepository) GetPlaceByID(ctx context.Context, id int64) (*models.Place, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.Place), args.Error(1)
}

func (m *MockPlaceRepository) AddFavorite(ctx context.Context, placeID, userID int64) (bool, error) {
	args := m.Called(ctx, placeID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPlaceRepository) RemoveFavorite(ctx context.Context, placeID, userID int64) (bool, error) {
	args := m.Called(ctx, placeID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPlaceRepository) ListFavoritePlaces(ctx context.Context, userID int64) ([]models.Place, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Place), args.Error(1)
}

func (m *MockPlaceRepository) SoftDeletePlace(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRateLimiter is a mock implementation of the RateLimiter interface
type MockRateLimiter struct {
	mock.Mock
}

func (m *MockRateLimiter) Take(ctx context.Context, ownerID int64) (bool, int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Bool(0), args.Get(1).(int64), args.Error(2)
}

// MockMatcher is a mock implementation of the Matcher interface
type MockMatcher struct {
	mock.Mock
}

func (m *MockMatcher) Match(ctx context.Context, input *models.Place) (*models.Place, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(*models.Place), args.Error(1)
}

// MockModeration is a mock implementation of the Moderation interface
type MockModeration struct {
	mock.Mock
}

func (m *MockModeration) Check(ctx context.Context, text string) (ModerationResult, error) {
	args := m.Called(ctx, text)
	return args.Get(0).(ModerationResult), args.Error(1)
}

// MockEnrichment is a mock implementation of the NameEnrichment interface
type MockEnrichment struct {
	mock.Mock
}

func (m *MockEnrichment) LookupName(ctx context.Context, lat, lng float64) (string, error) {
	args := m.Called(ctx, lat, lng)
	return args.String(0), args.Error(1)
}

// MockFriendshipLookup is a mock implementation of the FriendshipLookup interface
type MockFriendshipLookup struct {
	mock.Mock
}

func (m *MockFriendshipLookup) FriendIDsOf(ctx context.Context, userID int64) (map[int64]struct{}, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(map[int64]struct{}), args.Error(1)
}

type placeServiceMocks struct {
	repo       *MockPlaceRepository
	limiter    *MockRateLimiter
	matcher    *MockMatcher
	moderation *MockModeration
	enrichment *MockEnrichment
	friends    *MockFriendshipLookup
}

func newPlaceService(t *testing.T) (*PlaceService, *placeServiceMocks) {
	t.Helper()
	m := &placeServiceMocks{
		repo:       new(MockPlaceRepository),
		limiter:    new(MockRateLimiter),
		matcher:    new(MockMatcher),
		moderation: new(MockModeration),
		enrichment: new(MockEnrichment),
		friends:    new(MockFriendshipLookup),
	}
	svc := NewPlaceService(m.repo, m.limiter, m.matcher, m.moderation, m.enrichment, m.friends, time.Second, zerolog.Nop())
	return svc, m
}

func allowLimiter(m *placeServiceMocks) {
	m.limiter.On("Take", mock.Anything, mock.Anything).Return(true, int64(1), nil)
}

func cleanModeration(m *placeServiceMocks) {
	m.moderation.On("Check", mock.Anything, mock.Anything).Return(ModerationResult{}, nil)
}

func TestPlaceService_Create_RateLimited(t *testing.T) {
	svc, m := newPlaceService(t)
	m.limiter.On("Take", mock.Anything, int64(42)).Return(false, int64(11), nil)

	_, err := svc.Create(context.Background(), CreatePlaceInput{Name: "Spot"}, 42)

	assert.ErrorIs(t, err, ErrRateLimited)
	m.repo.AssertNotCalled(t, "CreatePlace", mock.Anything, mock.Anything)
}

func TestPlaceService_Create_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input CreatePlaceInput
	}{
		{
			name:  "empty name for custom place",
			input: CreatePlaceInput{Name: "  ", Latitude: 40, Longitude: -74},
		},
		{
			name: "name too long",
			input: CreatePlaceInput{
				Name:     string(make([]byte, 201)),
				Latitude: 40, Longitude: -74,
			},
		},
		{
			name:  "latitude out of range",
			input: CreatePlaceInput{Name: "Spot", Latitude: 91, Longitude: -74},
		},
		{
			name:  "longitude out of range",
			input: CreatePlaceInput{Name: "Spot", Latitude: 40, Longitude: 181},
		},
		{
			name: "unknown visibility",
			input: CreatePlaceInput{
				Name: "Spot", Latitude: 40, Longitude: -74,
				Visibility: "everyone",
			},
		},
		{
			name: "verified without address",
			input: CreatePlaceInput{
				Name: "Spot", Latitude: 40, Longitude: -74,
				Visibility: models.VisibilityPublic,
				Type:       models.PlaceTypeVerified,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newPlaceService(t)
			allowLimiter(m)

			_, err := svc.Create(context.Background(), tt.input, 42)

			assert.ErrorIs(t, err, ErrValidation)
			m.repo.AssertNotCalled(t, "CreatePlace", mock.Anything, mock.Anything)
		})
	}
}

func TestPlaceService_Create_CustomDuplicateMerged(t *testing.T) {
	svc, m := newPlaceService(t)
	allowLimiter(m)
	cleanModeration(m)

	existing := &models.Place{ID: 7, Name: "First One", OwnerID: 1}
	m.matcher.On("Match", mock.Anything, mock.Anything).Return(existing, nil)

	result, err := svc.Create(context.Background(), CreatePlaceInput{
		Name:       "Second One",
		Latitude:   40.7128,
		Longitude:  -74.0060,
		Visibility: models.VisibilityPublic,
	}, 2)

	require.NoError(t, err)
	assert.True(t, result.Merged)
	assert.Equal(t, int64(7), result.Place.ID)
	assert.NotEmpty(t, result.Message)
	m.repo.AssertNotCalled(t, "CreatePlace", mock.Anything, mock.Anything)
}

func TestPlaceService_Create_NoMatchPersists(t *testing.T) {
	svc, m := newPlaceService(t)
	allowLimiter(m)
	cleanModeration(m)
	m.matcher.On("Match", mock.Anything, mock.Anything).Return((*models.Place)(nil), nil)

	created := &models.Place{ID: 1, Name: "Spot", OwnerID: 42}
	m.repo.On("CreatePlace", mock.Anything, mock.MatchedBy(func(p *models.Place) bool {
		return p.Name == "Spot" && p.OwnerID == 42 && p.Visibility == models.VisibilityPrivate && p.Type == models.PlaceTypeCustom
	})).Return(created, nil)

	result, err := svc.Create(context.Background(), CreatePlaceInput{
		Name:      "  Spot  ",
		Latitude:  40.7128,
		Longitude: -74.0060,
	}, 42)

	require.NoError(t, err)
	assert.False(t, result.Merged)
	assert.Equal(t, created, result.Place)
	m.repo.AssertExpectations(t)
}

func TestPlaceService_Create_VerifiedDowngradedWhenNotPublic(t *testing.T) {
	svc, m := newPlaceService(t)
	allowLimiter(m)
	cleanModeration(m)

	m.matcher.On("Match", mock.Anything, mock.MatchedBy(func(p *models.Place) bool {
		return p.Type == models.PlaceTypeCustom && p.Visibility == models.VisibilityPrivate
	})).Return((*models.Place)(nil), nil)
	m.repo.On("CreatePlace", mock.Anything, mock.MatchedBy(func(p *models.Place) bool {
		return p.Type == models.PlaceTypeCustom
	})).Return(&models.Place{ID: 1, Type: models.PlaceTypeCustom}, nil)

	result, err := svc.Create(context.Background(), CreatePlaceInput{
		Name:       "Hidden Gem",
		Address:    "123 Main St",
		Latitude:   40.7128,
		Longitude:  -74.0060,
		Visibility: models.VisibilityPrivate,
		Type:       models.PlaceTypeVerified,
	}, 42)

	require.NoError(t, err)
	assert.Equal(t, models.PlaceTypeCustom, result.Place.Type)
	// No enrichment for custom places
	m.enrichment.AssertNotCalled(t, "LookupName", mock.Anything, mock.Anything, mock.Anything)
}

func TestPlaceService_Create_ModerationFlagged(t *testing.T) {
	svc, m := newPlaceService(t)
	allowLimiter(m)
	m.moderation.On("Check", mock.Anything, "Bad Name").Return(ModerationResult{Flagged: true, Reason: "profanity"}, nil)

	_, err := svc.Create(context.Background(), CreatePlaceInput{
		Name:       "Bad Name",
		Latitude:   40.7128,
		Longitude:  -74.0060,
		Visibility: models.VisibilityPublic,
	}, 42)

	assert.ErrorIs(t, err, ErrValidation)
	m.matcher.AssertNotCalled(t, "Match", mock.Anything, mock.Anything)
}

func TestPlaceService_Create_ModerationFailsOpen(t *testing.T) {
	svc, m := newPlaceService(t)
	allowLimiter(m)
	m.moderation.On("Check", mock.Anything, mock.Anything).Return(ModerationResult{}, assert.AnError)
	m.matcher.On("Match", mock.Anything, mock.Anything).Return((*models.Place)(nil), nil)
	m.repo.On("CreatePlace", mock.Anything, mock.Anything).Return(&models.Place{ID: 1}, nil)

	_, err := svc.Create(context.Background(), CreatePlaceInput{
		Name:      "Spot",
		Latitude:  40.7128,
		Longitude: -74.0060,
	}, 42)

	assert.NoError(t, err)
}

func TestPlaceService_Create_VerifiedEnrichment(t *testing.T) {
	tests := []struct {
		name           string
		inputName      string
		enrichedName   string
		enrichError    error
		expectedStored string
		expectModerate bool
		expectError    bool
	}{
		{
			name:           "enrichment supplies the name",
			inputName:      "",
			enrichedName:   "Joe's Diner",
			expectedStored: "Joe's Diner",
			expectModerate: false,
		},
		{
			name:           "enrichment failure falls back to user name",
			inputName:      "My Diner",
			enrichError:    assert.AnError,
			expectedStored: "My Diner",
			expectModerate: true,
		},
		{
			name:           "empty enrichment result falls back to user name",
			inputName:      "My Diner",
			enrichedName:   "",
			expectedStored: "My Diner",
			expectModerate: true,
		},
		{
			name:        "enrichment failure with no user name rejects",
			inputName:   "",
			enrichError: assert.AnError,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newPlaceService(t)
			allowLimiter(m)
			m.matcher.On("Match", mock.Anything, mock.Anything).Return((*models.Place)(nil), nil)
			m.enrichment.On("LookupName", mock.Anything, 40.7128, -74.0060).Return(tt.enrichedName, tt.enrichError)
			if tt.expectModerate {
				m.moderation.On("Check", mock.Anything, tt.inputName).Return(ModerationResult{}, nil)
			}
			if !tt.expectError {
				m.repo.On("CreatePlace", mock.Anything, mock.MatchedBy(func(p *models.Place) bool {
					return p.Name == tt.expectedStored
				})).Return(&models.Place{ID: 1, Name: tt.expectedStored}, nil)
			}

			result, err := svc.Create(context.Background(), CreatePlaceInput{
				Name:       tt.inputName,
				Address:    "123 Main St",
				Latitude:   40.7128,
				Longitude:  -74.0060,
				Visibility: models.VisibilityPublic,
				Type:       models.PlaceTypeVerified,
			}, 42)

			if tt.expectError {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStored, result.Place.Name)
			m.repo.AssertExpectations(t)
			if !tt.expectModerate {
				m.moderation.AssertNotCalled(t, "Check", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestPlaceService_GetByID(t *testing.T) {
	tests := []struct {
		name        string
		place       *models.Place
		viewerID    int64
		friendIDs   map[int64]struct{}
		friendError error
		expectFound bool
	}{
		{
			name:        "unknown id",
			place:       nil,
			viewerID:    2,
			expectFound: false,
		},
		{
			name:        "owner sees private place",
			place:       &models.Place{ID: 1, OwnerID: 1, Visibility: models.VisibilityPrivate},
			viewerID:    1,
			expectFound: true,
		},
		{
			name:        "private place invisible to other viewers",
			place:       &models.Place{ID: 1, OwnerID: 1, Visibility: models.VisibilityPrivate},
			viewerID:    2,
			expectFound: false,
		},
		{
			name:        "private place invisible to anonymous viewer",
			place:       &models.Place{ID: 1, OwnerID: 1, Visibility: models.VisibilityPrivate},
			viewerID:    0,
			expectFound: false,
		},
		{
			name:        "public deleted place not resolvable",
			place:       &models.Place{ID: 1, OwnerID: 1, Visibility: models.VisibilityPublic, IsDeleted: true},
			viewerID:    2,
			expectFound: false,
		},
		{
			name:        "friends place visible to friend",
			place:       &models.Place{ID: 1, OwnerID: 1, Visibility: models.VisibilityFriends},
			viewerID:    2,
			friendIDs:   map[int64]struct{}{1: {}},
			expectFound: true,
		},
		{
			name:        "friends place invisible to non-friend",
			place:       &models.Place{ID: 1, OwnerID: 1, Visibility: models.VisibilityFriends},
			viewerID:    2,
			friendIDs:   map[int64]struct{}{},
			expectFound: false,
		},
		{
			name:        "friendship lookup failure degrades to invisible",
			place:       &models.Place{ID: 1, OwnerID: 1, Visibility: models.VisibilityFriends},
			viewerID:    2,
			friendError: assert.AnError,
			expectFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newPlaceService(t)
			m.repo.On("GetPlaceByID", mock.Anything, int64(1)).Return(tt.place, nil)
			if tt.friendIDs != nil || tt.friendError != nil {
				m.friends.On("FriendIDsOf", mock.Anything, tt.viewerID).Return(tt.friendIDs, tt.friendError)
			}

			place, err := svc.GetByID(context.Background(), 1, tt.viewerID)

			if tt.expectFound {
				require.NoError(t, err)
				assert.Equal(t, tt.place, place)
			} else {
				assert.ErrorIs(t, err, ErrNotFound)
			}
		})
	}
}

func TestPlaceService_AddFavorite(t *testing.T) {
	t.Run("unknown place", func(t *testing.T) {
		svc, m := newPlaceService(t)
		m.repo.On("GetPlaceByID", mock.Anything, int64(9)).Return((*models.Place)(nil), nil)

		err := svc.AddFavorite(context.Background(), 9, 2)

		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("deleted place", func(t *testing.T) {
		svc, m := newPlaceService(t)
		m.repo.On("GetPlaceByID", mock.Anything, int64(9)).Return(&models.Place{ID: 9, Visibility: models.VisibilityPublic, IsDeleted: true}, nil)

		err := svc.AddFavorite(context.Background(), 9, 2)

		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("invisible private place looks unknown", func(t *testing.T) {
		svc, m := newPlaceService(t)
		m.repo.On("GetPlaceByID", mock.Anything, int64(9)).Return(&models.Place{ID: 9, OwnerID: 1, Visibility: models.VisibilityPrivate}, nil)

		err := svc.AddFavorite(context.Background(), 9, 2)

		assert.ErrorIs(t, err, ErrNotFound)
		m.repo.AssertNotCalled(t, "AddFavorite", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("repeat favorite is a no-op", func(t *testing.T) {
		svc, m := newPlaceService(t)
		m.repo.On("GetPlaceByID", mock.Anything, int64(9)).Return(&models.Place{ID: 9, OwnerID: 1, Visibility: models.VisibilityPublic}, nil)
		m.repo.On("AddFavorite", mock.Anything, int64(9), int64(2)).Return(false, nil)

		err := svc.AddFavorite(context.Background(), 9, 2)

		assert.NoError(t, err)
		m.repo.AssertExpectations(t)
	})
}

func TestPlaceService_RemoveFavorite_NeverFavoritedIsNoOp(t *testing.T) {
	svc, m := newPlaceService(t)
	m.repo.On("RemoveFavorite", mock.Anything, int64(9), int64(2)).Return(false, nil)

	err := svc.RemoveFavorite(context.Background(), 9, 2)

	assert.NoError(t, err)
	m.repo.AssertExpectations(t)
}

func TestPlaceService_ListFavorites_SurfacesDeletedButNotPrivate(t *testing.T) {
	svc, m := newPlaceService(t)
	m.repo.On("ListFavoritePlaces", mock.Anything, int64(2)).Return([]models.Place{
		{ID: 1, OwnerID: 5, Visibility: models.VisibilityPublic, IsDeleted: true},
		{ID: 2, OwnerID: 5, Visibility: models.VisibilityPrivate},
		{ID: 3, OwnerID: 5, Visibility: models.VisibilityPublic},
	}, nil)
	m.friends.On("FriendIDsOf", mock.Anything, int64(2)).Return(map[int64]struct{}{}, nil)

	places, err := svc.ListFavorites(context.Background(), 2, 2)

	require.NoError(t, err)
	require.Len(t, places, 2)
	assert.Equal(t, int64(1), places[0].ID)
	assert.Equal(t, int64(3), places[1].ID)
}

func TestPlaceService_SoftDelete(t *testing.T) {
	t.Run("owner deletes", func(t *testing.T) {
		svc, m := newPlaceService(t)
		m.repo.On("GetPlaceByID", mock.Anything, int64(1)).Return(&models.Place{ID: 1, OwnerID: 42}, nil)
		m.repo.On("SoftDeletePlace", mock.Anything, int64(1)).Return(nil)

		err := svc.SoftDelete(context.Background(), 1, 42)

		assert.NoError(t, err)
		m.repo.AssertExpectations(t)
	})

	t.Run("non-owner denied", func(t *testing.T) {
		svc, m := newPlaceService(t)
		m.repo.On("GetPlaceByID", mock.Anything, int64(1)).Return(&models.Place{ID: 1, OwnerID: 42}, nil)

		err := svc.SoftDelete(context.Background(), 1, 7)

		assert.ErrorIs(t, err, ErrPermissionDenied)
		m.repo.AssertNotCalled(t, "SoftDeletePlace", mock.Anything, mock.Anything)
	})

	t.Run("unknown place", func(t *testing.T) {
		svc, m := newPlaceService(t)
		m.repo.On("GetPlaceByID", mock.Anything, int64(1)).Return((*models.Place)(nil), nil)

		err := svc.SoftDelete(context.Background(), 1, 42)

		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("already deleted is a no-op", func(t *testing.T) {
		svc, m := newPlaceService(t)
		m.repo.On("GetPlaceByID", mock.Anything, int64(1)).Return(&models.Place{ID: 1, OwnerID: 42, IsDeleted: true}, nil)

		err := svc.SoftDelete(context.Background(), 1, 42)

		assert.NoError(t, err)
		m.repo.AssertNotCalled(t, "SoftDeletePlace", mock.Anything, mock.Anything)
	})
}
