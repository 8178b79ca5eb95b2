/**
 * @description
 * Cron scheduler setup. The scheduler is an explicit object owned by the
 * application context and injected where needed, so tests drive the engine's
 * Tick directly instead of waiting on wall-clock timers.
 *
 * Two independent entries run here: the lifecycle tick and the bill due-date
 * reminder job. They are registered separately and never coupled.
 */
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/icreditbank/banking-service/internal/config"
	"github.com/robfig/cron/v3"
)

// Scheduler manages the periodic timers.
type Scheduler struct {
	cron   *cron.Cron
	engine *LifecycleEngine
	jobs   *Jobs
	logger *slog.Logger
	config config.Config
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(engine *LifecycleEngine, jobs *Jobs, logger *slog.Logger, cfg config.Config) *Scheduler {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	c := cron.New(cron.WithChain(cron.Recover(cronLogger)))

	return &Scheduler{
		cron:   c,
		engine: engine,
		jobs:   jobs,
		logger: logger,
		config: cfg,
	}
}

// Start registers the timers and starts the cron scheduler.
func (s *Scheduler) Start() {
	tickSpec := fmt.Sprintf("@every %ds", s.config.TickIntervalSeconds)
	if _, err := s.cron.AddFunc(tickSpec, func() { s.engine.Tick(time.Now()) }); err != nil {
		s.logger.Error("failed to schedule lifecycle tick", "error", err)
	} else {
		s.logger.Info("scheduled lifecycle tick", "schedule", tickSpec)
	}

	if _, err := s.cron.AddFunc(s.config.BillReminderSchedule, s.jobs.ProcessDueBillReminders); err != nil {
		s.logger.Error("failed to schedule bill reminder job", "error", err)
	} else {
		s.logger.Info("scheduled bill reminder job", "schedule", s.config.BillReminderSchedule)
	}

	s.cron.Start()
}

// Stop gracefully stops the cron scheduler.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
