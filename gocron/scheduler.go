// Package gocron refreshes docver caches on a fixed interval using gocron.
package gocron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/docver"
	"github.com/go-co-op/gocron/v2"
)

// DefaultTimeout bounds a single scheduled refresh.
const DefaultTimeout = time.Minute

// Scheduler periodically calls a Refresher. A refresh still running when the
// next one is due delays it rather than overlapping it.
type Scheduler struct {
	scheduler gocron.Scheduler
	refresher docver.Refresher
	timeout   time.Duration
	logger    *slog.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithTimeout bounds each refresh.
func WithTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		s.timeout = d
	}
}

// WithLogger sets the logger for refresh failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// NewScheduler creates a Scheduler that refreshes r every interval.
func NewScheduler(r docver.Refresher, interval time.Duration, opts ...Option) (*Scheduler, error) {
	if interval <= 0 {
		return nil, docver.Errorf(docver.EINVALID, "refresh interval must be positive")
	}

	gs, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	s := &Scheduler{
		scheduler: gs,
		refresher: r,
		timeout:   DefaultTimeout,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}

	_, err = gs.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.refresh),
		gocron.WithName("refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = gs.Shutdown()
		return nil, fmt.Errorf("schedule refresh: %w", err)
	}
	return s, nil
}

// Start begins running scheduled refreshes.
func (s *Scheduler) Start() {
	s.scheduler.Start()
}

// Shutdown stops the scheduler and waits for a running refresh to finish.
func (s *Scheduler) Shutdown() error {
	return s.scheduler.Shutdown()
}

func (s *Scheduler) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	begin := time.Now()
	if err := s.refresher.Refresh(ctx); err != nil {
		s.logger.Error("scheduled refresh failed", "err", err)
		return
	}
	s.logger.Debug("scheduled refresh", "duration", time.Since(begin))
}
