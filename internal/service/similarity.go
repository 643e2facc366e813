package service

import "strings"

// SimilarityResolver decides whether a candidate activity name duplicates one
// of the existing names. Implementations range from exact matching to fuzzy
// or model-assisted matchers; the interface keeps them swappable.
type SimilarityResolver interface {
	FindDuplicate(candidateName string, existingNames []string) (matched string, ok bool)
}

// ExactResolver matches names after trimming and case-folding.
type ExactResolver struct{}

// FindDuplicate implements SimilarityResolver.
func (ExactResolver) FindDuplicate(candidateName string, existingNames []string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(candidateName))
	for _, existing := range existingNames {
		if strings.ToLower(strings.TrimSpace(existing)) == normalized {
			return existing, true
		}
	}
	return "", false
}
