/**
 * @description
 * This file defines the core domain models for money movement: the Transaction
 * record, the Recipient snapshot attached to it, and the request DTOs accepted
 * by the application service.
 *
 * @notes
 * - Amounts are stored as `int64` in the smallest currency unit (cents), which
 *   avoids floating-point inaccuracies with financial data. Exchange rates are
 *   the one float in the model; the converted amount is rounded once at
 *   creation and never recomputed.
 * - `Recipient` is embedded by value. Once a transaction is created, edits to
 *   the underlying recipient record must never retroactively alter history.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType classifies the direction of the balance effect.
type TransactionType string

const (
	TypeDebit  TransactionType = "debit"
	TypeCredit TransactionType = "credit"
)

// AuthorizeMethod selects how a compliance hold is released.
type AuthorizeMethod string

const (
	AuthorizeByCode AuthorizeMethod = "code"
	AuthorizeByFee  AuthorizeMethod = "fee"
)

// Recipient is a point-in-time snapshot of the counterparty, not a live
// reference to a saved recipient record.
type Recipient struct {
	Name          string `json:"name"`
	BankName      string `json:"bank_name"`
	Country       string `json:"country"`
	AccountNumber string `json:"account_number"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
}

// Transaction is the central ledger record for any money movement in the
// session. It is created once, then mutated only by status transitions.
type Transaction struct {
	ID               uuid.UUID            `json:"id"`
	Type             TransactionType      `json:"type"`
	SourceAccountID  uuid.UUID            `json:"source_account_id"`
	Recipient        Recipient            `json:"recipient"`
	SendAmount       int64                `json:"send_amount"` // in cents
	Fee              int64                `json:"fee"`         // in cents
	ExchangeRate     float64              `json:"exchange_rate"`
	ReceiveAmount    int64                `json:"receive_amount"` // in recipient currency minor units
	ReceiveCurrency  string               `json:"receive_currency"`
	Status           Status               `json:"status"`
	StatusTimestamps map[Status]time.Time `json:"status_timestamps"`
	RequiresAuth     bool                 `json:"requires_auth"`
	ClearanceFeePaid bool                 `json:"clearance_fee_paid"`
	Purpose          string               `json:"purpose,omitempty"`
	Description      string               `json:"description,omitempty"`
	EstimatedArrival time.Time            `json:"estimated_arrival"`
	CreatedAt        time.Time            `json:"created_at"`
}

// Clone returns a deep copy, including the status timestamp map, so that
// callers outside the store can never mutate a stored record in place.
func (t *Transaction) Clone() *Transaction {
	cp := *t
	cp.StatusTimestamps = make(map[Status]time.Time, len(t.StatusTimestamps))
	for k, v := range t.StatusTimestamps {
		cp.StatusTimestamps[k] = v
	}
	return &cp
}

// CreateTransferRequest is the DTO for creating a new money movement.
// Fee is derived from the delivery-speed selection made by the caller;
// sufficiency of funds is also the caller's concern (split payments perform
// one aggregate pre-check before issuing several creations).
type CreateTransferRequest struct {
	SourceAccountID uuid.UUID       `json:"source_account_id"`
	Type            TransactionType `json:"type"`
	Recipient       Recipient       `json:"recipient"`
	SendAmount      int64           `json:"send_amount"` // in cents
	Fee             int64           `json:"fee"`         // in cents
	ExchangeRate    float64         `json:"exchange_rate"`
	ReceiveCurrency string          `json:"receive_currency"`
	Purpose         string          `json:"purpose"`
	Description     string          `json:"description"`
}
