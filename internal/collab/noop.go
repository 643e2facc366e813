// Package collab provides stand-in implementations of the external
// collaborator contracts. The real moderation and enrichment services live
// outside this repository; these adapters keep the wiring honest until they
// are plugged in.
package collab

import (
	"context"

	"pinpoint-api/internal/service"
)

// NoopModeration never flags content.
type NoopModeration struct{}

// Check implements service.Moderation.
func (NoopModeration) Check(ctx context.Context, text string) (service.ModerationResult, error) {
	return service.ModerationResult{}, nil
}

// NoopEnrichment never resolves a name, so creation always keeps the
// user-supplied one.
type NoopEnrichment struct{}

// LookupName implements service.NameEnrichment.
func (NoopEnrichment) LookupName(ctx context.Context, lat, lng float64) (string, error) {
	return "", nil
}
