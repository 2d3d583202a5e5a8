package utils

import "slices"

// IsReviewer reports whether userID is on the reviewer allow-list.
func IsReviewer(userID string, reviewers []string) bool {
	return userID != "" && slices.Contains(reviewers, userID)
}
