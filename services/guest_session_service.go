package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"volleyball-scoretracker/models"
	"volleyball-scoretracker/repositories"

	"github.com/google/uuid"
)

type GuestSessionService struct {
	Store   repositories.Store
	TTL     time.Duration
	Metrics *Metrics
	Logger  *slog.Logger
	Now     func() time.Time
}

func NewGuestSessionService(store repositories.Store, ttl time.Duration, metrics *Metrics, logger *slog.Logger) *GuestSessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GuestSessionService{
		Store:   store,
		TTL:     ttl,
		Metrics: metrics,
		Logger:  logger,
		Now:     time.Now,
	}
}

// CreateSession starts a guest session that expires after the configured TTL.
func (s *GuestSessionService) CreateSession(ctx context.Context) (*models.GuestSession, error) {
	now := s.Now()
	session := &models.GuestSession{
		ID:        uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.TTL),
	}

	err := runInTx(ctx, s.Store, func(tx repositories.Tx) error {
		if err := tx.CreateGuestSession(session); err != nil {
			return infra(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Metrics.guestSession("created", 1)
	s.Logger.InfoContext(ctx, "guest session created",
		slog.String("session_id", session.ID),
		slog.Time("expires_at", session.ExpiresAt),
	)
	return session, nil
}

// IsValid reports whether the session exists and has not expired.
func (s *GuestSessionService) IsValid(ctx context.Context, sessionID string) (bool, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return false, nil
	}

	var valid bool
	err := runInTx(ctx, s.Store, func(tx repositories.Tx) error {
		session, err := tx.GetGuestSession(sessionID)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		if err != nil {
			return infra(err)
		}
		valid = session.ValidAt(s.Now())
		return nil
	})
	return valid, err
}

// DeleteSession ends a session. Matches it owns are left in place.
func (s *GuestSessionService) DeleteSession(ctx context.Context, sessionID string) error {
	if _, err := uuid.Parse(sessionID); err != nil {
		return nil
	}
	err := runInTx(ctx, s.Store, func(tx repositories.Tx) error {
		if err := tx.DeleteGuestSession(sessionID); err != nil {
			return infra(err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.Metrics.guestSession("deleted", 1)
	s.Logger.InfoContext(ctx, "guest session deleted", slog.String("session_id", sessionID))
	return nil
}

// DeleteExpired removes every session that expired before now.
func (s *GuestSessionService) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var removed int64
	err := runInTx(ctx, s.Store, func(tx repositories.Tx) error {
		n, err := tx.DeleteExpiredGuestSessions(now)
		if err != nil {
			return infra(err)
		}
		removed = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.Metrics.guestSession("expired", int(removed))
	return removed, nil
}
