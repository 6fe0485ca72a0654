package leaderboard

import "strings"

// NormalizeName returns the comparison key for a golfer name: trimmed,
// internal whitespace collapsed to single spaces, lowercased.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
