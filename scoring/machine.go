package scoring

import (
	"time"

	"volleyball-scoretracker/models"

	"github.com/google/uuid"
)

// Outcome reports what a transition did beyond changing the live score, so
// the caller can log, count and archive without re-deriving it.
type Outcome struct {
	SetCompleted   bool
	MatchCompleted bool
	MatchReopened  bool
	WinnerChanged  bool
	CompletedSet   *models.SetScore
}

// ScorePoint awards one point to team and completes the set when it is won.
func ScorePoint(m *models.Match, team models.Team, now time.Time) (Outcome, error) {
	if m.Status != models.StatusInProgress {
		return Outcome{}, ErrNotInProgress
	}

	switch team {
	case models.Team1:
		m.Team1Score++
	case models.Team2:
		m.Team2Score++
	default:
		return Outcome{}, ErrInvalidTeam
	}

	m.LastScoringTeam = teamPtr(team)
	m.LastScoreTime = timePtr(now)
	m.UndoUsed = false

	if IsSetWon(m.Team1Score, m.Team2Score, m.CurrentSet) {
		return completeSet(m), nil
	}
	return Outcome{}, nil
}

// UndoLastPoint takes back the latest point. One undo is allowed between
// scoring events, and only while the scorer of that point is known.
func UndoLastPoint(m *models.Match, now time.Time) error {
	if m.Status != models.StatusInProgress {
		return ErrNotInProgress
	}
	if m.UndoUsed {
		return ErrUndoAlreadyUsed
	}
	if m.Team1Score == 0 && m.Team2Score == 0 {
		return ErrNothingToUndo
	}
	if m.LastScoringTeam == nil {
		return ErrUnknownScorer
	}

	switch *m.LastScoringTeam {
	case models.Team1:
		if m.Team1Score <= 0 {
			return ErrCannotUndoTeam1
		}
		m.Team1Score--
	case models.Team2:
		if m.Team2Score <= 0 {
			return ErrCannotUndoTeam2
		}
		m.Team2Score--
	default:
		return ErrUnknownScorer
	}

	m.UndoUsed = true
	// The scorer before the undone point is not tracked.
	m.LastScoringTeam = nil
	m.LastScoreTime = timePtr(now)
	return nil
}

// EditCurrentSetScore overwrites the live score. The last scorer is inferred
// from the leader and left unknown on a tie; the undo credit is restored.
func EditCurrentSetScore(m *models.Match, score1, score2 int, now time.Time) (Outcome, error) {
	if m.Status != models.StatusInProgress {
		return Outcome{}, ErrNotInProgress
	}
	if score1 < 0 || score2 < 0 {
		return Outcome{}, ErrNegativeScore
	}

	m.Team1Score = score1
	m.Team2Score = score2
	if leader, ok := Leader(score1, score2); ok {
		m.LastScoringTeam = teamPtr(leader)
	} else {
		m.LastScoringTeam = nil
	}
	m.LastScoreTime = timePtr(now)
	m.UndoUsed = false

	if IsSetWon(score1, score2, m.CurrentSet) {
		return completeSet(m), nil
	}
	return Outcome{}, nil
}

// ResetCurrentSet zeroes the live score. Set history and tallies are kept.
func ResetCurrentSet(m *models.Match, now time.Time) error {
	if m.Status != models.StatusInProgress {
		return ErrNotInProgress
	}

	m.Team1Score = 0
	m.Team2Score = 0
	m.LastScoringTeam = nil
	m.UndoUsed = false
	m.LastScoreTime = timePtr(now)
	return nil
}

// TogglePause flips IN_PROGRESS and PAUSED.
func TogglePause(m *models.Match) error {
	switch m.Status {
	case models.StatusInProgress:
		m.Status = models.StatusPaused
	case models.StatusPaused:
		m.Status = models.StatusInProgress
	default:
		return ErrCannotPauseCompleted
	}
	return nil
}

// completeSet records the live score as the finished set, credits the winner
// and either ends the match or starts the next set at 0-0.
func completeSet(m *models.Match) Outcome {
	set := models.SetScore{
		ID:          uuid.NewString(),
		MatchID:     m.ID,
		SetNumber:   m.CurrentSet,
		Team1Points: m.Team1Score,
		Team2Points: m.Team2Score,
	}
	m.Sets = append(m.Sets, set)

	if set.Winner() == models.Team1 {
		m.Team1Sets++
	} else {
		m.Team2Sets++
	}

	out := Outcome{SetCompleted: true, CompletedSet: &set}
	if MatchDecided(m.Team1Sets, m.Team2Sets) {
		m.Status = models.StatusCompleted
		out.MatchCompleted = true
		return out
	}

	m.CurrentSet++
	m.Team1Score = 0
	m.Team2Score = 0
	m.LastScoringTeam = nil
	m.UndoUsed = false
	return out
}

func teamPtr(t models.Team) *models.Team { return &t }

func timePtr(t time.Time) *time.Time { return &t }
