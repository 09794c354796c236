package utils

import (
	"strings"

	"github.com/gosimple/slug"
	"golang.org/x/text/unicode/norm"
)

// NormalizeTeamName returns the NFC form of name with surrounding space removed.
func NormalizeTeamName(name string) string {
	return strings.TrimSpace(norm.NFC.String(name))
}

// MatchSlug builds a URL-friendly label such as "spikers-vs-blockers".
func MatchSlug(team1, team2 string) string {
	return slug.Make(team1 + " vs " + team2)
}
