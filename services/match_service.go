// services/match_service.go
package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"volleyball-scoretracker/models"
	"volleyball-scoretracker/repositories"
	"volleyball-scoretracker/scoring"
	"volleyball-scoretracker/utils"

	"github.com/google/uuid"
)

// ScoresheetQueue accepts completed matches for archiving. Enqueue must not
// block.
type ScoresheetQueue interface {
	Enqueue(m models.Match) bool
}

type MatchService struct {
	Store   repositories.Store
	Guard   *Guard
	Metrics *Metrics
	Archive ScoresheetQueue
	Logger  *slog.Logger
	Now     func() time.Time
}

func NewMatchService(store repositories.Store, metrics *Metrics, archive ScoresheetQueue, logger *slog.Logger) *MatchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MatchService{
		Store:   store,
		Guard:   NewGuard(time.Now),
		Metrics: metrics,
		Archive: archive,
		Logger:  logger,
		Now:     time.Now,
	}
}

// CreateMatch starts a new match owned by caller.
func (s *MatchService) CreateMatch(ctx context.Context, caller models.Owner, team1Name, team2Name string) (*models.Match, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	team1Name = utils.NormalizeTeamName(team1Name)
	team2Name = utils.NormalizeTeamName(team2Name)
	if team1Name == "" || team2Name == "" {
		return nil, ErrInvalidTeamName
	}

	m := &models.Match{
		ID:         uuid.NewString(),
		Slug:       utils.MatchSlug(team1Name, team2Name),
		Team1Name:  team1Name,
		Team2Name:  team2Name,
		CurrentSet: 1,
		Status:     models.StatusInProgress,
		Sets:       []models.SetScore{},
	}
	m.SetOwner(caller)

	err := runInTx(ctx, s.Store, func(tx repositories.Tx) error {
		if err := s.Guard.CheckCaller(tx, caller); err != nil {
			return err
		}
		if account, ok := caller.(models.AccountOwner); ok {
			if _, err := tx.GetAccount(account.AccountID); err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					return ErrUnauthorized
				}
				return infra(err)
			}
		}
		if err := tx.CreateMatch(m); err != nil {
			return infra(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Metrics.matchCreated()
	s.Logger.InfoContext(ctx, "match created",
		slog.String("match_id", m.ID),
		slog.String("slug", m.Slug),
		slog.String("owner", m.Owner().OwnerID()),
	)
	return m, nil
}

// ListMatches returns all of the caller's matches, newest first.
func (s *MatchService) ListMatches(ctx context.Context, caller models.Owner) ([]models.Match, error) {
	return s.list(ctx, caller, nil)
}

// ListActiveMatches returns the caller's matches that are in progress.
func (s *MatchService) ListActiveMatches(ctx context.Context, caller models.Owner) ([]models.Match, error) {
	status := models.StatusInProgress
	return s.list(ctx, caller, &status)
}

func (s *MatchService) list(ctx context.Context, caller models.Owner, status *models.MatchStatus) ([]models.Match, error) {
	var matches []models.Match
	err := runInTx(ctx, s.Store, func(tx repositories.Tx) error {
		if err := s.Guard.CheckCaller(tx, caller); err != nil {
			return err
		}
		found, err := tx.ListMatches(caller, status)
		if err != nil {
			return infra(err)
		}
		matches = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	if matches == nil {
		matches = []models.Match{}
	}
	return matches, nil
}

func (s *MatchService) GetMatch(ctx context.Context, caller models.Owner, matchID string) (*models.Match, error) {
	var m *models.Match
	err := runInTx(ctx, s.Store, func(tx repositories.Tx) error {
		found, err := s.Guard.AuthorizeRead(tx, matchID, caller)
		if err != nil {
			return err
		}
		m = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Statistics counts the caller's matches by status.
func (s *MatchService) Statistics(ctx context.Context, caller models.Owner) (scoring.Statistics, error) {
	matches, err := s.ListMatches(ctx, caller)
	if err != nil {
		return scoring.Statistics{}, err
	}
	return scoring.Aggregate(matches), nil
}

func (s *MatchService) ScorePoint(ctx context.Context, caller models.Owner, matchID string, team models.Team) (*models.Match, error) {
	m, err := s.mutate(ctx, caller, matchID, "score", func(m *models.Match, now time.Time) (scoring.Outcome, error) {
		return scoring.ScorePoint(m, team, now)
	})
	if err != nil {
		return nil, err
	}
	s.Metrics.pointScored(string(team))
	return m, nil
}

func (s *MatchService) UndoLastPoint(ctx context.Context, caller models.Owner, matchID string) (*models.Match, error) {
	m, err := s.mutate(ctx, caller, matchID, "undo", func(m *models.Match, now time.Time) (scoring.Outcome, error) {
		return scoring.Outcome{}, scoring.UndoLastPoint(m, now)
	})
	if err != nil {
		return nil, err
	}
	s.Metrics.pointUndone()
	return m, nil
}

func (s *MatchService) EditCurrentSetScore(ctx context.Context, caller models.Owner, matchID string, score1, score2 int) (*models.Match, error) {
	return s.mutate(ctx, caller, matchID, "edit_score", func(m *models.Match, now time.Time) (scoring.Outcome, error) {
		return scoring.EditCurrentSetScore(m, score1, score2, now)
	})
}

func (s *MatchService) EditCompletedSet(ctx context.Context, caller models.Owner, matchID string, setNumber, points1, points2 int) (*models.Match, error) {
	return s.mutate(ctx, caller, matchID, "edit_set", func(m *models.Match, _ time.Time) (scoring.Outcome, error) {
		return scoring.EditCompletedSet(m, setNumber, points1, points2)
	})
}

func (s *MatchService) ResetCurrentSet(ctx context.Context, caller models.Owner, matchID string) (*models.Match, error) {
	return s.mutate(ctx, caller, matchID, "reset_set", func(m *models.Match, now time.Time) (scoring.Outcome, error) {
		return scoring.Outcome{}, scoring.ResetCurrentSet(m, now)
	})
}

func (s *MatchService) TogglePause(ctx context.Context, caller models.Owner, matchID string) (*models.Match, error) {
	return s.mutate(ctx, caller, matchID, "pause", func(m *models.Match, _ time.Time) (scoring.Outcome, error) {
		return scoring.Outcome{}, scoring.TogglePause(m)
	})
}

// DeleteMatch removes the match and its set history.
func (s *MatchService) DeleteMatch(ctx context.Context, caller models.Owner, matchID string) error {
	err := runInTx(ctx, s.Store, func(tx repositories.Tx) error {
		m, err := s.Guard.Authorize(tx, matchID, caller)
		if err != nil {
			return err
		}
		if err := tx.DeleteMatch(m.ID); err != nil {
			return infra(err)
		}
		return nil
	})
	if err != nil {
		s.rejected(ctx, "delete", matchID, err)
		return err
	}
	s.Logger.InfoContext(ctx, "match deleted", slog.String("match_id", matchID))
	return nil
}

// mutate is the single read-modify-write path: lock, authorize, apply, save.
// Nothing is written when apply fails.
func (s *MatchService) mutate(
	ctx context.Context,
	caller models.Owner,
	matchID string,
	op string,
	apply func(m *models.Match, now time.Time) (scoring.Outcome, error),
) (*models.Match, error) {
	var (
		updated *models.Match
		outcome scoring.Outcome
	)
	err := runInTx(ctx, s.Store, func(tx repositories.Tx) error {
		m, err := s.Guard.Authorize(tx, matchID, caller)
		if err != nil {
			return err
		}
		outcome, err = apply(m, s.Now())
		if err != nil {
			return err
		}
		if err := tx.SaveMatch(m); err != nil {
			return infra(err)
		}
		updated = m
		return nil
	})
	if err != nil {
		s.rejected(ctx, op, matchID, err)
		return nil, err
	}

	s.committed(ctx, op, updated, outcome)
	return updated, nil
}

func (s *MatchService) committed(ctx context.Context, op string, m *models.Match, out scoring.Outcome) {
	s.Metrics.transition(out.SetCompleted, out.MatchCompleted, out.MatchReopened)

	if out.SetCompleted && out.CompletedSet != nil {
		s.Logger.InfoContext(ctx, "set completed",
			slog.String("match_id", m.ID),
			slog.Int("set_number", out.CompletedSet.SetNumber),
			slog.Int("team1_points", out.CompletedSet.Team1Points),
			slog.Int("team2_points", out.CompletedSet.Team2Points),
		)
	}
	if out.MatchReopened {
		s.Logger.InfoContext(ctx, "match reopened by set correction",
			slog.String("match_id", m.ID),
			slog.Int("current_set", m.CurrentSet),
		)
	}
	if out.MatchCompleted {
		s.Logger.InfoContext(ctx, "match completed",
			slog.String("match_id", m.ID),
			slog.Int("team1_sets", m.Team1Sets),
			slog.Int("team2_sets", m.Team2Sets),
		)
		if s.Archive != nil && !s.Archive.Enqueue(*m) {
			s.Logger.WarnContext(ctx, "scoresheet queue full, skipping archive", slog.String("match_id", m.ID))
		}
	}

	s.Logger.DebugContext(ctx, "match updated",
		slog.String("op", op),
		slog.String("match_id", m.ID),
		slog.String("status", string(m.Status)),
	)
}

func (s *MatchService) rejected(ctx context.Context, op, matchID string, err error) {
	s.Metrics.operationRejected(op)
	level := slog.LevelDebug
	if errors.Is(err, ErrInfrastructure) {
		level = slog.LevelError
	}
	s.Logger.Log(ctx, level, "match operation rejected",
		slog.String("op", op),
		slog.String("match_id", matchID),
		slog.Any("error", err),
	)
}
