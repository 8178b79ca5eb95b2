/**
 * @description
 * This file contains the core business logic for money-movement creation and
 * the account directory operations. The `Service` struct coordinates the
 * repository, the notification dispatcher, and the event producer.
 *
 * Key features:
 * - Creates transaction records in SUBMITTED state, mutating the source
 *   account balance atomically with the insert.
 * - Applies the compliance risk heuristic (cross-border or high amount) that
 *   flags a transaction for authorization.
 * - Publishes receipt notifications and lifecycle events fire-and-forget.
 *
 * @dependencies
 * - github.com/google/uuid: For UUID generation.
 * - internal/domain, internal/store: Domain models and data access.
 * - internal/notify, pkg/rabbitmq: External side channels.
 */

package app

import (
	"context"
	"errors"
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

var (
	// ErrInvalidAmount is returned when a creation request carries a
	// non-positive send amount, a negative fee, or a non-positive rate.
	ErrInvalidAmount = errors.New("invalid amount")
)

// Service provides the core business logic for the banking session.
type Service struct {
	repo     store.Repository
	notifier notify.Notifier
	events   rabbitmq.Publisher
	exchange string
	logger   *slog.Logger
	cfg      config.Config

	now func() time.Time
}

// NewService creates a new banking service instance.
func NewService(repo store.Repository, notifier notify.Notifier, events rabbitmq.Publisher, logger *slog.Logger, cfg config.Config) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		events:   events,
		exchange: cfg.EventExchange,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
	}
}

// CreateTransfer validates a creation request, builds the transaction record
// in SUBMITTED state, and mutates the source account balance atomically with
// the insert.
//
// Funds sufficiency is deliberately NOT checked here: callers perform the
// pre-check so that split payments can run one aggregate check before issuing
// several creations, and linked/external accounts are allowed to float.
func (s *Service) CreateTransfer(ctx context.Context, req domain.CreateTransferRequest) (*domain.Transaction, error) {
	if req.SendAmount <= 0 || req.Fee < 0 || req.ExchangeRate <= 0 {
		return nil, ErrInvalidAmount
	}

	account, err := s.repo.FindAccountByID(ctx, req.SourceAccountID)
	if err != nil {
		s.logger.Warn("transfer creation against unknown account", "account_id", req.SourceAccountID)
		return nil, fmt.Errorf("failed to find source account: %w", err)
	}

	now := s.now()
	txType := req.Type
	if txType != domain.TypeCredit {
		txType = domain.TypeDebit
	}

	fee := req.Fee
	if txType == domain.TypeCredit {
		// Deposits never carry a fee.
		fee = 0
	}

	tx := &domain.Transaction{
		ID:              uuid.New(),
		Type:            txType,
		SourceAccountID: account.ID,
		Recipient:       req.Recipient,
		SendAmount:      req.SendAmount,
		Fee:             fee,
		ExchangeRate:    req.ExchangeRate,
		ReceiveAmount:   int64(math.Round(float64(req.SendAmount) * req.ExchangeRate)),
		ReceiveCurrency: req.ReceiveCurrency,
		Status:          domain.StatusSubmitted,
		StatusTimestamps: map[domain.Status]time.Time{
			domain.StatusSubmitted: now,
		},
		RequiresAuth:     s.requiresAuth(req),
		Purpose:          req.Purpose,
		Description:      req.Description,
		EstimatedArrival: now.Add(s.cfg.DwellInTransit()),
		CreatedAt:        now,
	}

	// The debit is computed once here and never recomputed for this
	// transaction; a credit increases the balance by the send amount.
	delta := -(tx.SendAmount + tx.Fee)
	if tx.Type == domain.TypeCredit {
		delta = tx.SendAmount
	}
	if err := s.repo.AdjustAccountBalance(ctx, account.ID, delta); err != nil {
		return nil, fmt.Errorf("failed to adjust source account balance: %w", err)
	}

	if err := s.repo.InsertTransaction(ctx, tx); err != nil {
		// Compensate the balance mutation so creation stays all-or-nothing.
		if rbErr := s.repo.AdjustAccountBalance(ctx, account.ID, -delta); rbErr != nil {
			s.logger.Error("could not roll back balance after insert failure", "account_id", account.ID, "error", rbErr)
		}
		return nil, fmt.Errorf("failed to insert transaction record: %w", err)
	}

	s.logger.Info("transfer created", "transaction_id", tx.ID, "type", tx.Type, "send_amount", tx.SendAmount, "fee", tx.Fee, "requires_auth", tx.RequiresAuth)

	// Receipt side channels are fire-and-forget: their failure must not roll
	// back or delay the created transaction.
	go s.sendReceipt(tx)

	return tx, nil
}

// requiresAuth applies the compliance risk heuristic at creation time.
func (s *Service) requiresAuth(req domain.CreateTransferRequest) bool {
	if req.Recipient.Country != "" && req.Recipient.Country != s.cfg.DomesticCountry {
		return true
	}
	return req.SendAmount >= s.cfg.HighAmountThresholdCents
}

func (s *Service) sendReceipt(tx *domain.Transaction) {
	ctx := context.Background()

	if tx.Recipient.Email != "" {
		subject := "Transfer receipt"
		body := fmt.Sprintf("Transfer %s of %d cents to %s has been submitted.", tx.ID, tx.SendAmount, tx.Recipient.Name)
		if !s.notifier.SendEmail(ctx, tx.Recipient.Email, subject, body) {
			s.logger.Warn("receipt email dispatch reported failure", "transaction_id", tx.ID)
		}
	}
	if tx.Recipient.Phone != "" {
		msg := fmt.Sprintf("A transfer of %d cents to %s is on its way.", tx.SendAmount, tx.Recipient.Name)
		if !s.notifier.SendSMS(ctx, tx.Recipient.Phone, msg) {
			s.logger.Warn("receipt sms dispatch reported failure", "transaction_id", tx.ID)
		}
	}

	if err := s.events.Publish(ctx, s.exchange, "transfer.created", domain.TransferCreatedEvent{
		TransactionID: tx.ID,
		Type:          tx.Type,
		SendAmount:    tx.SendAmount,
		Fee:           tx.Fee,
		RecipientName: tx.Recipient.Name,
		Timestamp:     tx.CreatedAt,
	}); err != nil {
		s.logger.Warn("created event publish failed", "transaction_id", tx.ID, "error", err)
	}
}

// GetTransaction retrieves a single transaction by id.
func (s *Service) GetTransaction(ctx context.Context, transactionID uuid.UUID) (*domain.Transaction, error) {
	return s.repo.FindTransactionByID(ctx, transactionID)
}

// ListTransactions retrieves the full history, most recent first.
func (s *Service) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	return s.repo.ListTransactions(ctx)
}

// GetAccount retrieves a single account by id.
func (s *Service) GetAccount(ctx context.Context, accountID uuid.UUID) (*domain.Account, error) {
	return s.repo.FindAccountByID(ctx, accountID)
}

// ListAccounts retrieves the session's accounts.
func (s *Service) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return s.repo.ListAccounts(ctx)
}

// UpdateAccountNickname renames an account. This is the only account mutation
// outside balance changes.
func (s *Service) UpdateAccountNickname(ctx context.Context, accountID uuid.UUID, nickname string) error {
	return s.repo.UpdateAccountNickname(ctx, accountID, nickname)
}

// ListHoldings retrieves an account's crypto holdings.
func (s *Service) ListHoldings(ctx context.Context, accountID uuid.UUID) ([]domain.CryptoHolding, error) {
	return s.repo.ListHoldings(ctx, accountID)
}
