package visibility

import "pinpoint-api/internal/models"

// AnonymousViewer is the viewer id used when no authenticated user is present.
const AnonymousViewer int64 = 0

// IsVisible reports whether the viewer may resolve the place. It is the single
// source of truth for access control and must be applied on every read path.
//
// Evaluation order: deleted records are invisible; owners always see their own
// records; otherwise the visibility tier decides, with the friends tier
// requiring the owner to be in the viewer's friend set.
func IsVisible(place *models.Place, viewerID int64, friendIDs map[int64]struct{}) bool {
	if place.IsDeleted {
		return false
	}
	return isVisibleIgnoringDeleted(place, viewerID, friendIDs)
}

// IsVisibleEvenDeleted applies the same rules but does not hide soft-deleted
// records. Used only by the favorites listing, which may surface deleted
// places a user has already favorited.
func IsVisibleEvenDeleted(place *models.Place, viewerID int64, friendIDs map[int64]struct{}) bool {
	return isVisibleIgnoringDeleted(place, viewerID, friendIDs)
}

func isVisibleIgnoringDeleted(place *models.Place, viewerID int64, friendIDs map[int64]struct{}) bool {
	if viewerID != AnonymousViewer && viewerID == place.OwnerID {
		return true
	}
	switch place.Visibility {
	case models.VisibilityPublic:
		return true
	case models.VisibilityFriends:
		if viewerID == AnonymousViewer {
			return false
		}
		_, isFriend := friendIDs[place.OwnerID]
		return isFriend
	default:
		return false
	}
}
