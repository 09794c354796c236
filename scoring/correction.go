package scoring

import "volleyball-scoretracker/models"

// EditCompletedSet rewrites the final score of a finished set. When the set's
// winner flips, the tallies are rebuilt from the whole set history, which can
// finish the match or reopen a finished one at the next unplayed set.
func EditCompletedSet(m *models.Match, setNumber, points1, points2 int) (Outcome, error) {
	set, ok := m.SetFor(setNumber)
	if !ok {
		return Outcome{}, ErrSetNotFound
	}
	if points1 < 0 || points2 < 0 {
		return Outcome{}, ErrNegativeScore
	}
	if !IsValidFinalScore(points1, points2, setNumber) {
		return Outcome{}, ErrInvalidSetScore
	}

	oldTeam1Won := set.Team1Points > set.Team2Points
	if oldTeam1Won == (points1 > points2) {
		set.Team1Points = points1
		set.Team2Points = points2
		return Outcome{}, nil
	}

	// a flip moves one set between the tallies; neither may pass SetsToWin
	team1Sets, team2Sets := Tally(m.Sets)
	if oldTeam1Won {
		team1Sets, team2Sets = team1Sets-1, team2Sets+1
	} else {
		team1Sets, team2Sets = team1Sets+1, team2Sets-1
	}
	if team1Sets > SetsToWin || team2Sets > SetsToWin {
		return Outcome{}, ErrSetTallyExceeded
	}

	set.Team1Points = points1
	set.Team2Points = points2
	return recalculateSets(m), nil
}

// recalculateSets re-derives the sets won from every SetScore row.
func recalculateSets(m *models.Match) Outcome {
	team1Sets, team2Sets := Tally(m.Sets)
	m.Team1Sets = team1Sets
	m.Team2Sets = team2Sets

	out := Outcome{WinnerChanged: true}
	switch {
	case MatchDecided(team1Sets, team2Sets):
		out.MatchCompleted = m.Status != models.StatusCompleted
		m.Status = models.StatusCompleted
	case m.Status == models.StatusCompleted:
		m.Status = models.StatusInProgress
		m.CurrentSet = len(m.Sets) + 1
		m.Team1Score = 0
		m.Team2Score = 0
		m.LastScoringTeam = nil
		m.UndoUsed = false
		out.MatchReopened = true
	}
	return out
}

// Tally counts sets won per side.
func Tally(sets []models.SetScore) (team1Sets, team2Sets int) {
	for _, s := range sets {
		if s.Winner() == models.Team1 {
			team1Sets++
		} else {
			team2Sets++
		}
	}
	return team1Sets, team2Sets
}
