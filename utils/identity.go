package utils

import (
	"strings"
	"time"
)

// DeriveIdentityKey turns birth details into the stable key that scopes
// quota and history, standing in for a real account system. The same inputs
// always produce the same key.
//
// The key is "<normalized name>-<ISO date>-<time of birth>", where the name
// is lower-cased with whitespace runs collapsed to underscores. Place of
// birth is deliberately excluded. If any of the three inputs is missing the
// result is "" and callers must fall back to session-only metering.
func DeriveIdentityKey(name string, dateOfBirth *time.Time, timeOfBirth string) string {
	if strings.TrimSpace(name) == "" || dateOfBirth == nil || timeOfBirth == "" {
		return ""
	}
	normalized := strings.Join(strings.Fields(strings.ToLower(name)), "_")
	return normalized + "-" + dateOfBirth.Format("2006-01-02") + "-" + timeOfBirth
}
