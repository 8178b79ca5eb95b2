/**
 * @description
 * Scheduled job implementations. The due-date reminder job is independent of
 * the lifecycle tick and must stay that way: the two timers are uncoupled.
 */
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/icreditbank/banking-service/internal/config"
	"github.com/icreditbank/banking-service/internal/notify"
	"github.com/icreditbank/banking-service/internal/store"
)

// Jobs contains the logic for all scheduled tasks outside the lifecycle tick.
type Jobs struct {
	repo     store.Repository
	notifier notify.Notifier
	logger   *slog.Logger
	cfg      config.Config

	now func() time.Time
}

// NewJobs creates a new Jobs runner.
func NewJobs(repo store.Repository, notifier notify.Notifier, logger *slog.Logger, cfg config.Config) *Jobs {
	return &Jobs{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
	}
}

// ProcessDueBillReminders emails a reminder for every unpaid bill falling due
// within the reminder window.
func (j *Jobs) ProcessDueBillReminders() {
	j.logger.Info("starting bill reminder job")
	ctx := context.Background()

	if j.cfg.BillReminderEmail == "" {
		j.logger.Info("no reminder contact configured; skipping bill reminder job")
		return
	}

	bills, err := j.repo.ListUnpaidBills(ctx)
	if err != nil {
		j.logger.Error("failed to list unpaid bills", "error", err)
		return
	}

	now := j.now()
	horizon := now.Add(j.cfg.BillReminderWindow())
	count := 0
	for _, bill := range bills {
		if bill.DueDate.After(horizon) {
			continue
		}
		subject := fmt.Sprintf("Upcoming bill: %s", bill.Payee)
		body := fmt.Sprintf("Your %s bill of %d cents is due on %s.", bill.Payee, bill.Amount, bill.DueDate.Format("Jan 2, 2006"))
		if !j.notifier.SendEmail(ctx, j.cfg.BillReminderEmail, subject, body) {
			j.logger.Warn("bill reminder dispatch reported failure", "bill_id", bill.ID)
			continue
		}
		count++
	}

	j.logger.Info("bill reminder job finished", "reminders_sent", count)
}
