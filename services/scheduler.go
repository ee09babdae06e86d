package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrTimeLimitExceeded is reported by jobs that stop early because their soft
// time limit ran out. Work done before that point is kept.
var ErrTimeLimitExceeded = errors.New("soft time limit exceeded")

// DefaultSoftTimeLimit bounds a single job run.
const DefaultSoftTimeLimit = time.Hour

type Job func(ctx context.Context) error

// Scheduler runs jobs on cron schedules. A tick is skipped while the previous
// run of the same job is still going, and panics are recovered.
type Scheduler struct {
	cron      *cron.Cron
	log       *slog.Logger
	softLimit time.Duration
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewScheduler(log *slog.Logger, softLimit time.Duration) *Scheduler {
	if softLimit <= 0 {
		softLimit = DefaultSoftTimeLimit
	}
	cronLog := cron.PrintfLogger(slog.NewLogLogger(log.Handler(), slog.LevelInfo))
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		log:       log,
		softLimit: softLimit,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (s *Scheduler) Register(name, spec string, job Job) error {
	if _, err := s.cron.AddFunc(spec, func() { _ = s.run(name, job) }); err != nil {
		return fmt.Errorf("register %s (%q): %w", name, spec, err)
	}
	s.log.Info("job registered", "job", name, "schedule", spec)
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started")
}

// Stop cancels running jobs and returns a context that is done once they have returned.
func (s *Scheduler) Stop() context.Context {
	s.cancel()
	return s.cron.Stop()
}

func (s *Scheduler) run(name string, job Job) error {
	ctx, cancel := context.WithTimeout(s.ctx, s.softLimit)
	defer cancel()

	start := time.Now()
	err := job(ctx)
	took := time.Since(start)
	jobDuration.WithLabelValues(name).Observe(took.Seconds())

	switch {
	case err == nil:
		s.log.Info("job finished", "job", name, "took", took)
	case errors.Is(err, ErrTimeLimitExceeded), errors.Is(err, context.DeadlineExceeded):
		s.log.Warn("job stopped at soft time limit", "job", name, "limit", s.softLimit, "err", err)
	default:
		s.log.Error("job failed", "job", name, "took", took, "err", err)
	}
	return err
}
