/**
 * @description
 * The lifecycle engine: a single-pass, timer-driven state-transition function
 * over every non-terminal transaction, plus the explicit clearance operation
 * that releases a compliance hold.
 *
 * Key rules:
 * - Dwell elapsed time is measured from the SUBMITTED timestamp for the main
 *   path, and from the CLEARANCE_GRANTED timestamp after a hold is released.
 * - A transaction advances at most one step per tick, even when several dwell
 *   thresholds have already elapsed, so every intermediate state stays
 *   observable.
 * - A hold (`flagged_awaiting_clearance`) never times out. It exits only via
 *   Authorize, so compliance holds are resolved by a human action.
 * - Arrival fires the external notification fan-out on a goroutine; dispatch
 *   failure or latency never touches the state machine.
 *
 * @dependencies
 * - internal/store: Repository access.
 * - internal/notify: Fire-and-forget dispatch.
 * - pkg/rabbitmq: Lifecycle event publishing.
 */

package app

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/icreditbank/banking-service/internal/config"
	"github.com/icreditbank/banking-service/internal/domain"
	"github.com/icreditbank/banking-service/internal/notify"
	"github.com/icreditbank/banking-service/internal/store"
	"github.com/icreditbank/banking-service/pkg/rabbitmq"
)

// AuthorizeOutcome reports what an Authorize call did. The UI's retry paths
// call Authorize defensively, so an invalid state is an outcome, not an error.
type AuthorizeOutcome int

const (
	// AuthorizeApplied means the hold was released and the transaction moved
	// to clearance_granted.
	AuthorizeApplied AuthorizeOutcome = iota
	// AuthorizeNotFound means the transaction id could not be resolved.
	AuthorizeNotFound
	// AuthorizeInvalidState means the transaction was not holding; nothing
	// was mutated.
	AuthorizeInvalidState
)

// LifecycleEngine advances transaction state over time and handles the
// clearance sub-flow.
type LifecycleEngine struct {
	repo     store.Repository
	notifier notify.Notifier
	events   rabbitmq.Publisher
	exchange string
	logger   *slog.Logger
	cfg      config.Config

	now func() time.Time
}

// NewLifecycleEngine creates a lifecycle engine.
func NewLifecycleEngine(repo store.Repository, notifier notify.Notifier, events rabbitmq.Publisher, logger *slog.Logger, cfg config.Config) *LifecycleEngine {
	return &LifecycleEngine{
		repo:     repo,
		notifier: notifier,
		events:   events,
		exchange: cfg.EventExchange,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Tick runs one state-advancement pass across all non-terminal transactions.
// The next state for the whole store is computed from the snapshot taken at
// the top of the pass, so a tick is a pure function of (store state, now).
// Calling it again with no elapsed time is a no-op.
func (e *LifecycleEngine) Tick(now time.Time) {
	ctx := context.Background()

	txs, err := e.repo.ListActiveTransactions(ctx)
	if err != nil {
		e.logger.Error("lifecycle tick could not list transactions", "error", err)
		return
	}

	for i := range txs {
		tx := &txs[i]
		next, ok := e.nextStatus(tx, now)
		if !ok {
			continue
		}

		if err := e.repo.AppendTransactionStatus(ctx, tx.ID, next, now); err != nil {
			e.logger.Error("lifecycle transition failed", "transaction_id", tx.ID, "from", tx.Status, "to", next, "error", err)
			continue
		}
		e.logger.Info("lifecycle transition", "transaction_id", tx.ID, "from", tx.Status, "to", next)

		if next == domain.StatusFundsArrived {
			go e.notifyArrival(tx, now)
		}
	}
}

// nextStatus computes the single eligible transition for a transaction, if
// any. The switch is exhaustive over the status enumeration.
func (e *LifecycleEngine) nextStatus(tx *domain.Transaction, now time.Time) (domain.Status, bool) {
	anchor, ok := tx.StatusTimestamps[domain.StatusSubmitted]
	if !ok {
		anchor = tx.CreatedAt
	}
	elapsed := now.Sub(anchor)

	switch tx.Status {
	case domain.StatusSubmitted:
		if elapsed < e.cfg.DwellSubmitted() {
			return "", false
		}
		if tx.RequiresAuth {
			return domain.StatusFlaggedAwaitingClearance, true
		}
		return domain.StatusConverting, true

	case domain.StatusConverting:
		if elapsed < e.cfg.DwellConverting() {
			return "", false
		}
		return domain.StatusInTransit, true

	case domain.StatusInTransit:
		if elapsed < e.cfg.DwellInTransit() {
			return "", false
		}
		return domain.StatusFundsArrived, true

	case domain.StatusClearanceGranted:
		granted, ok := tx.StatusTimestamps[domain.StatusClearanceGranted]
		if !ok || now.Sub(granted) < e.cfg.DwellClearance() {
			return "", false
		}
		return domain.StatusInTransit, true

	case domain.StatusFlaggedAwaitingClearance, domain.StatusAwaitingAuthorization:
		// Holds exit only through an explicit human action.
		return "", false

	case domain.StatusFundsArrived:
		return "", false

	default:
		return "", false
	}
}

// Authorize releases a compliance hold. With the code method the caller has
// validated a clearance code out-of-band; with the fee method the caller has
// confirmed the release fee is payable. Either way the transaction moves to
// clearance_granted and continues through the timer-driven path from there.
//
// Calling Authorize on a transaction not in flagged_awaiting_clearance
// mutates nothing and reports AuthorizeInvalidState.
func (e *LifecycleEngine) Authorize(ctx context.Context, transactionID uuid.UUID, method domain.AuthorizeMethod) AuthorizeOutcome {
	tx, err := e.repo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		e.logger.Warn("authorize on unknown transaction", "transaction_id", transactionID)
		return AuthorizeNotFound
	}

	if tx.Status != domain.StatusFlaggedAwaitingClearance {
		e.logger.Warn("authorize on transaction outside hold state", "transaction_id", transactionID, "status", tx.Status)
		return AuthorizeInvalidState
	}

	if method == domain.AuthorizeByFee {
		if err := e.repo.SetClearanceFeePaid(ctx, transactionID); err != nil {
			e.logger.Error("could not record clearance fee", "transaction_id", transactionID, "error", err)
			return AuthorizeNotFound
		}
	}

	if err := e.repo.AppendTransactionStatus(ctx, transactionID, domain.StatusClearanceGranted, e.now()); err != nil {
		e.logger.Error("could not grant clearance", "transaction_id", transactionID, "error", err)
		return AuthorizeNotFound
	}

	e.logger.Info("clearance granted", "transaction_id", transactionID, "method", method)
	return AuthorizeApplied
}

// ClearanceFee returns the release fee for the fee-based authorization path.
func (e *LifecycleEngine) ClearanceFee(sendAmount int64) int64 {
	return int64(math.Round(float64(sendAmount) * e.cfg.ClearanceFeePercent / 100))
}

func (e *LifecycleEngine) notifyArrival(tx *domain.Transaction, at time.Time) {
	ctx := context.Background()

	if tx.Recipient.Email != "" {
		subject := "Your transfer has arrived"
		body := fmt.Sprintf("Transfer %s to %s has been delivered.", tx.ID, tx.Recipient.Name)
		if !e.notifier.SendEmail(ctx, tx.Recipient.Email, subject, body) {
			e.logger.Warn("arrival email dispatch reported failure", "transaction_id", tx.ID)
		}
	}
	if tx.Recipient.Phone != "" {
		msg := fmt.Sprintf("Your funds from transfer %s have arrived.", tx.ID)
		if !e.notifier.SendSMS(ctx, tx.Recipient.Phone, msg) {
			e.logger.Warn("arrival sms dispatch reported failure", "transaction_id", tx.ID)
		}
	}

	if err := e.events.Publish(ctx, e.exchange, "transfer.arrived", domain.TransferArrivedEvent{
		TransactionID: tx.ID,
		ReceiveAmount: tx.ReceiveAmount,
		Currency:      tx.ReceiveCurrency,
		RecipientName: tx.Recipient.Name,
		Timestamp:     at,
	}); err != nil {
		e.logger.Warn("arrival event publish failed", "transaction_id", tx.ID, "error", err)
	}
}
