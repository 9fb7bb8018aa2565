package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/langtogether/langtogether-api/internal/config"
	"github.com/langtogether/langtogether-api/internal/redact"
)

// sweepTimeout bounds one run of a job.
const sweepTimeout = 30 * time.Second

const invitationExpiryJob = "invitation_expiry"

// Scheduler owns the gocron scheduler and its jobs.
type Scheduler struct {
	cron   *gocron.Scheduler
	logger *slog.Logger
}

// NewScheduler registers the invitation sweep every
// cfg.InvitationSweepMinutes. Jobs never overlap.
func NewScheduler(cfg config.JobsConfig, sweeper *InvitationSweeper, logger *slog.Logger) (*Scheduler, error) {
	if sweeper == nil {
		return nil, errors.New("sweeper cannot be nil")
	}
	if cfg.InvitationSweepMinutes <= 0 {
		return nil, fmt.Errorf("invalid sweep interval: %d minutes", cfg.InvitationSweepMinutes)
	}
	if logger == nil {
		logger = slog.Default()
	}

	cron := gocron.NewScheduler(time.UTC)
	cron.SingletonModeAll()

	s := &Scheduler{cron: cron, logger: logger.With(slog.String("component", "scheduler"))}

	_, err := cron.Every(cfg.InvitationSweepMinutes).Minutes().Tag(invitationExpiryJob).Do(func() {
		_ = s.runJob(context.Background(), invitationExpiryJob, func(ctx context.Context) error {
			_, err := sweeper.Sweep(ctx)
			return err
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule invitation expiry: %w", err)
	}

	return s, nil
}

// runJob runs one tick of a job under sweepTimeout and logs its outcome with
// the job name. A failed tick is retried by the next one.
func (s *Scheduler) runJob(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, sweepTimeout)
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	log := s.logger.With(slog.String("job", name), slog.Duration("duration", time.Since(start)))
	if err != nil {
		log.Warn("scheduled job failed", slog.String("error", redact.Error(err)))
		return err
	}
	log.Debug("scheduled job finished")
	return nil
}

// Run starts the jobs and blocks until ctx is cancelled, then stops them.
func (s *Scheduler) Run(ctx context.Context) error {
	s.cron.StartAsync()
	s.logger.Info("scheduler started", slog.Int("jobs", len(s.cron.Jobs())))

	<-ctx.Done()

	s.cron.Stop()
	s.logger.Info("scheduler stopped")
	return nil
}
