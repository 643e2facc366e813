package service

import "context"

// FriendshipLookup resolves the symmetric friend set of a user. It is called
// at most once per request; transient failures degrade to an empty set.
type FriendshipLookup interface {
	FriendIDsOf(ctx context.Context, userID int64) (map[int64]struct{}, error)
}

// ModerationResult is the outcome of a content check.
type ModerationResult struct {
	Flagged bool
	Reason  string
}

// Moderation screens user-supplied text. Internal failures fail open.
type Moderation interface {
	Check(ctx context.Context, text string) (ModerationResult, error)
}

// NameEnrichment resolves a display name for coordinates. Best-effort: an
// empty name or an error both mean "no enrichment available".
type NameEnrichment interface {
	LookupName(ctx context.Context, lat, lng float64) (string, error)
}
