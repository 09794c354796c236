package services

import (
	"errors"
	"time"

	"volleyball-scoretracker/models"
	"volleyball-scoretracker/repositories"

	"github.com/google/uuid"
)

// Guard decides whether a caller may act on a match. It always runs inside
// the caller's transaction so the check and the mutation see the same row.
type Guard struct {
	Now func() time.Time
}

func NewGuard(now func() time.Time) *Guard {
	if now == nil {
		now = time.Now
	}
	return &Guard{Now: now}
}

// Authorize locks the match and returns it if caller owns it.
func (g *Guard) Authorize(tx repositories.Tx, matchID string, caller models.Owner) (*models.Match, error) {
	return g.authorize(tx, matchID, caller, tx.LockMatch)
}

// AuthorizeRead is Authorize without the row lock.
func (g *Guard) AuthorizeRead(tx repositories.Tx, matchID string, caller models.Owner) (*models.Match, error) {
	return g.authorize(tx, matchID, caller, tx.GetMatch)
}

func (g *Guard) authorize(
	tx repositories.Tx,
	matchID string,
	caller models.Owner,
	load func(id string) (*models.Match, error),
) (*models.Match, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	if _, err := uuid.Parse(matchID); err != nil {
		return nil, ErrMatchNotFound
	}

	m, err := load(matchID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, infra(err)
	}

	if err := g.CheckCaller(tx, caller); err != nil {
		return nil, err
	}
	if !m.OwnedBy(caller) {
		return nil, ErrUnauthorized
	}
	return m, nil
}

// CheckCaller verifies that a guest caller's session is still usable.
// Accounts are trusted once their token has been verified.
func (g *Guard) CheckCaller(tx repositories.Tx, caller models.Owner) error {
	switch c := caller.(type) {
	case nil:
		return ErrUnauthenticated
	case models.GuestOwner:
		if _, err := uuid.Parse(c.SessionID); err != nil {
			return ErrUnauthorized
		}
		session, err := tx.GetGuestSession(c.SessionID)
		if errors.Is(err, repositories.ErrNotFound) {
			// Session already cleaned up.
			return ErrUnauthorized
		}
		if err != nil {
			return infra(err)
		}
		if !session.ValidAt(g.Now()) {
			return ErrSessionExpired
		}
	}
	return nil
}
