package repositories

import (
	"context"
	"errors"
	"time"

	"volleyball-scoretracker/models"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a unique column already holds the value.
	ErrDuplicate = errors.New("duplicate record")

	// ErrInvalidOwner is returned when a match does not have exactly one owner.
	ErrInvalidOwner = errors.New("match must have exactly one owner")
)

// Store runs units of work. Everything fn does through tx commits together or
// not at all.
type Store interface {
	Transaction(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the set of reads and writes available inside one transaction.
type Tx interface {
	// CreateMatch inserts a new match without set history.
	CreateMatch(m *models.Match) error

	// LockMatch loads a match with its sets ordered by set number and holds
	// an exclusive lock on it until the transaction ends.
	LockMatch(id string) (*models.Match, error)

	// GetMatch loads a match with its sets without locking it.
	GetMatch(id string) (*models.Match, error)

	// SaveMatch writes the match row and upserts every set row it carries.
	SaveMatch(m *models.Match) error

	// DeleteMatch removes the match's set rows, then the match.
	DeleteMatch(id string) error

	// ListMatches returns the owner's matches, newest first, optionally
	// filtered by status.
	ListMatches(owner models.Owner, status *models.MatchStatus) ([]models.Match, error)

	CreateGuestSession(s *models.GuestSession) error
	GetGuestSession(id string) (*models.GuestSession, error)
	DeleteGuestSession(id string) error

	// DeleteExpiredGuestSessions removes sessions that expired before now and
	// returns how many were removed.
	DeleteExpiredGuestSessions(now time.Time) (int64, error)

	CreateAccount(a *models.Account) error
	GetAccount(id string) (*models.Account, error)
	GetAccountByUsername(username string) (*models.Account, error)
	SaveAccount(a *models.Account) error
}
