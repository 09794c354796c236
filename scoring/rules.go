// Package scoring holds the volleyball rules and the transitions that move a
// match through its sets. Nothing here touches storage; callers load a match,
// apply a transition and persist the result in one transaction.
package scoring

import "volleyball-scoretracker/models"

const (
	SetsToWin         = 3
	MaxSets           = 5
	DecidingSet       = 5
	RegularSetPoints  = 25
	DecidingSetPoints = 15
	WinMargin         = 2
)

// Mode selects how Evaluate treats its input.
type Mode int

const (
	// ModeIncremental checks a live score reached point by point.
	ModeIncremental Mode = iota
	// ModeFinal checks a score typed in by an editor for a finished set, so
	// negative points and out-of-range set numbers are rejected as well.
	ModeFinal
)

// PointsToWin is the minimum winning total for a set.
func PointsToWin(setNumber int) int {
	if setNumber == DecidingSet {
		return DecidingSetPoints
	}
	return RegularSetPoints
}

// Evaluate reports whether points1-points2 is a won set for setNumber: the
// leader has reached the set's threshold with a margin of at least two.
func Evaluate(points1, points2, setNumber int, mode Mode) bool {
	if mode == ModeFinal {
		if points1 < 0 || points2 < 0 || setNumber < 1 || setNumber > MaxSets {
			return false
		}
	}

	lead, trail := points1, points2
	if trail > lead {
		lead, trail = trail, lead
	}
	return lead >= PointsToWin(setNumber) && lead-trail >= WinMargin
}

// IsSetWon is Evaluate for live play.
func IsSetWon(score1, score2, setNumber int) bool {
	return Evaluate(score1, score2, setNumber, ModeIncremental)
}

// IsValidFinalScore is Evaluate for an edited historical set.
func IsValidFinalScore(points1, points2, setNumber int) bool {
	return Evaluate(points1, points2, setNumber, ModeFinal)
}

// Leader returns the side with strictly more points, or false on a tie.
func Leader(points1, points2 int) (models.Team, bool) {
	switch {
	case points1 > points2:
		return models.Team1, true
	case points2 > points1:
		return models.Team2, true
	}
	return "", false
}

// MatchDecided reports whether either side has won enough sets.
func MatchDecided(team1Sets, team2Sets int) bool {
	return team1Sets >= SetsToWin || team2Sets >= SetsToWin
}
