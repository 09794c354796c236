// services/scheduler.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartCleanupScheduler purges expired guest sessions every interval. The
// caller owns the returned scheduler and must shut it down.
func (s *GuestSessionService) StartCleanupScheduler(ctx context.Context, interval time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { s.purgeExpired(ctx) }),
		gocron.WithName("guest-session-cleanup"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("failed to schedule guest session cleanup: %w", err)
	}

	sched.Start()
	s.Logger.Info("guest session cleanup scheduled", slog.Duration("interval", interval))
	return sched, nil
}

func (s *GuestSessionService) purgeExpired(ctx context.Context) {
	n, err := s.DeleteExpired(ctx, s.Now())
	if err != nil {
		s.Logger.ErrorContext(ctx, "guest session cleanup failed", slog.Any("error", err))
		return
	}
	if n > 0 {
		s.Logger.InfoContext(ctx, "expired guest sessions removed", slog.Int64("count", n))
	}
}
