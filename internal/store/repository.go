/**
 * @description
 * This file defines the `Repository` interface, the contract for all data
 * access the application needs. The business logic never touches the backing
 * collections directly; keeping the contract here makes the service and the
 * lifecycle engine trivial to test against stubs.
 *
 * @dependencies
 * - context, time: Standard Go libraries.
 * - github.com/google/uuid: For identities.
 * - internal/domain: For the domain models.
 */

package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/icreditbank/banking-service/internal/domain"
)

var (
	// ErrAccountNotFound is returned when an account id cannot be resolved.
	ErrAccountNotFound = errors.New("account not found")
	// ErrTransactionNotFound is returned when a transaction id cannot be resolved.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrHoldingNotFound is returned when no holding exists for a symbol.
	ErrHoldingNotFound = errors.New("holding not found")
	// ErrBillNotFound is returned when a bill id cannot be resolved.
	ErrBillNotFound = errors.New("bill not found")
)

// Repository defines the set of methods for interacting with the session's
// data. The implementation owns all state; callers receive copies.
type Repository interface {
	// Account methods
	CreateAccount(ctx context.Context, account *domain.Account) error
	FindAccountByID(ctx context.Context, accountID uuid.UUID) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	AdjustAccountBalance(ctx context.Context, accountID uuid.UUID, delta int64) error
	UpdateAccountNickname(ctx context.Context, accountID uuid.UUID, nickname string) error

	// Transaction methods. Insertion is at the head (most-recent-first order
	// is what the display surface expects); records are never deleted.
	InsertTransaction(ctx context.Context, tx *domain.Transaction) error
	FindTransactionByID(ctx context.Context, transactionID uuid.UUID) (*domain.Transaction, error)
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
	ListActiveTransactions(ctx context.Context) ([]domain.Transaction, error)
	AppendTransactionStatus(ctx context.Context, transactionID uuid.UUID, status domain.Status, at time.Time) error
	SetClearanceFeePaid(ctx context.Context, transactionID uuid.UUID) error

	// Crypto holding methods
	FindHolding(ctx context.Context, accountID uuid.UUID, symbol string) (*domain.CryptoHolding, error)
	UpsertHolding(ctx context.Context, holding *domain.CryptoHolding) error
	DeleteHolding(ctx context.Context, accountID uuid.UUID, symbol string) error
	ListHoldings(ctx context.Context, accountID uuid.UUID) ([]domain.CryptoHolding, error)

	// Bill methods
	CreateBill(ctx context.Context, bill *domain.Bill) error
	FindBillByID(ctx context.Context, billID uuid.UUID) (*domain.Bill, error)
	ListUnpaidBills(ctx context.Context) ([]domain.Bill, error)
	MarkBillPaid(ctx context.Context, billID uuid.UUID) error

	// Payment record methods
	AppendSubscriptionPayment(ctx context.Context, p domain.SubscriptionPayment) error
	AppendBillPayment(ctx context.Context, p domain.BillPayment) error
	AppendAirtimePurchase(ctx context.Context, p domain.AirtimePurchase) error
	AppendDonation(ctx context.Context, d domain.Donation) error
}
