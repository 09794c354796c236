package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"volleyball-scoretracker/models"
)

// Uploader stores a finished scoresheet. utils.R2Uploader satisfies it.
type Uploader interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) error
}

// Scoresheet is the archived record of a completed match.
type Scoresheet struct {
	MatchID    string            `json:"match_id"`
	Slug       string            `json:"slug"`
	Team1Name  string            `json:"team1_name"`
	Team2Name  string            `json:"team2_name"`
	Team1Sets  int               `json:"team1_sets"`
	Team2Sets  int               `json:"team2_sets"`
	Winner     string            `json:"winner"`
	Sets       []models.SetScore `json:"sets"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	ArchivedAt time.Time         `json:"archived_at"`
}

func NewScoresheet(m models.Match, archivedAt time.Time) Scoresheet {
	winner := m.Team2Name
	if m.Team1Sets > m.Team2Sets {
		winner = m.Team1Name
	}
	return Scoresheet{
		MatchID:    m.ID,
		Slug:       m.Slug,
		Team1Name:  m.Team1Name,
		Team2Name:  m.Team2Name,
		Team1Sets:  m.Team1Sets,
		Team2Sets:  m.Team2Sets,
		Winner:     winner,
		Sets:       m.Sets,
		StartedAt:  m.CreatedAt,
		FinishedAt: m.UpdatedAt,
		ArchivedAt: archivedAt,
	}
}

// ScoresheetKey is the object key a match's scoresheet is stored under.
func ScoresheetKey(matchID string) string {
	return fmt.Sprintf("scoresheets/%s.json", matchID)
}

// ScoresheetArchiver uploads scoresheets for completed matches off the
// request path. Failed uploads are logged and dropped.
type ScoresheetArchiver struct {
	uploader Uploader
	queue    chan models.Match
	logger   *slog.Logger
	timeout  time.Duration
	now      func() time.Time
}

func NewScoresheetArchiver(uploader Uploader, buffer int, logger *slog.Logger) *ScoresheetArchiver {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScoresheetArchiver{
		uploader: uploader,
		queue:    make(chan models.Match, buffer),
		logger:   logger,
		timeout:  30 * time.Second,
		now:      time.Now,
	}
}

// Enqueue hands m to the worker. It reports false when the queue is full.
func (a *ScoresheetArchiver) Enqueue(m models.Match) bool {
	select {
	case a.queue <- m:
		return true
	default:
		return false
	}
}

// Run uploads queued scoresheets until ctx is cancelled, then drains what
// is already queued.
func (a *ScoresheetArchiver) Run(ctx context.Context) {
	a.logger.Info("scoresheet archiver started")
	for {
		select {
		case <-ctx.Done():
			a.drain()
			a.logger.Info("scoresheet archiver stopped")
			return
		case m := <-a.queue:
			// an upload already started finishes under its own timeout
			a.archive(context.WithoutCancel(ctx), m)
		}
	}
}

// Start runs the worker on a context of its own so it keeps accepting
// scoresheets while the server finishes in-flight requests. stop cancels it
// and blocks until everything already queued has been uploaded.
func (a *ScoresheetArchiver) Start() (stop func()) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		a.Run(ctx)
	}()
	return func() {
		cancel()
		<-done
	}
}

func (a *ScoresheetArchiver) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	for {
		select {
		case m := <-a.queue:
			a.archive(ctx, m)
		default:
			return
		}
	}
}

func (a *ScoresheetArchiver) archive(ctx context.Context, m models.Match) {
	body, err := json.Marshal(NewScoresheet(m, a.now()))
	if err != nil {
		a.logger.Error("failed to encode scoresheet", slog.String("match_id", m.ID), slog.Any("error", err))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	key := ScoresheetKey(m.ID)
	if err := a.uploader.Upload(ctx, key, body, "application/json"); err != nil {
		a.logger.Error("failed to archive scoresheet", slog.String("match_id", m.ID), slog.Any("error", err))
		return
	}
	a.logger.Info("scoresheet archived", slog.String("match_id", m.ID), slog.String("key", key))
}
