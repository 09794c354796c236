package scoring

import "errors"

var (
	ErrNotInProgress        = errors.New("match is not in progress")
	ErrInvalidTeam          = errors.New("invalid team: must be team1 or team2")
	ErrNegativeScore        = errors.New("scores cannot be negative")
	ErrInvalidSetScore      = errors.New("score is not a valid final score for this set")
	ErrUndoAlreadyUsed      = errors.New("undo already used: score a point to enable undo again")
	ErrNothingToUndo        = errors.New("no points to undo")
	ErrUnknownScorer        = errors.New("last scoring team unknown: edit the score instead")
	ErrCannotUndoTeam1      = errors.New("cannot undo: team1 has no points to remove")
	ErrCannotUndoTeam2      = errors.New("cannot undo: team2 has no points to remove")
	ErrCannotPauseCompleted = errors.New("cannot pause or resume a completed match")
	ErrSetNotFound          = errors.New("set not found")
	ErrSetTallyExceeded     = errors.New("correction would give a team more than three sets")
)
