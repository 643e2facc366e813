package models

import "time"

// Visibility controls who may resolve a place through any read path.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityFriends Visibility = "friends"
	VisibilityPrivate Visibility = "private"
)

// Valid reports whether v is one of the known visibility tiers.
func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityFriends, VisibilityPrivate:
		return true
	}
	return false
}

// PlaceType distinguishes address-anchored verified places from user-defined custom ones.
type PlaceType string

const (
	PlaceTypeCustom   PlaceType = "custom"
	PlaceTypeVerified PlaceType = "verified"
)

// Valid reports whether t is one of the known place types.
func (t PlaceType) Valid() bool {
	return t == PlaceTypeCustom || t == PlaceTypeVerified
}

// Place represents a user-created venue or spot, anchored to a geographic point.
type Place struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Address       string     `json:"address"`
	Latitude      float64    `json:"latitude"`
	Longitude     float64    `json:"longitude"`
	OwnerID       int64      `json:"owner_id"`
	Visibility    Visibility `json:"visibility"`
	Type          PlaceType  `json:"type"`
	IsClaimed     bool       `json:"is_claimed"`
	IsDeleted     bool       `json:"is_deleted"`
	FavoriteCount int        `json:"favorite_count"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Activity is a sub-activity scoped to exactly one place.
type Activity struct {
	ID        int64     `json:"id"`
	PlaceID   int64     `json:"place_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// Favorite marks that a user has favorited a place; the pair is unique.
type Favorite struct {
	UserID  int64 `json:"user_id"`
	PlaceID int64 `json:"place_id"`
}

// SearchFilters narrows the candidate set before spatial filtering. Zero values mean "no filter".
type SearchFilters struct {
	Visibility       Visibility
	Type             PlaceType
	ActivityName     string
	ActivityCategory string
}

// Page holds offset/limit pagination parameters.
type Page struct {
	Offset int
	Limit  int
}

// PlaceWithDistance is a search hit annotated with its distance from the query point.
type PlaceWithDistance struct {
	Place
	DistanceKm float64 `json:"distance_km"`
}

// SearchResult is one page of distance-ranked hits plus the total match count.
type SearchResult struct {
	Places []PlaceWithDistance `json:"places"`
	Total  int                 `json:"total"`
}
