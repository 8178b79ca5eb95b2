/**
 * @description
 * Models for the secondary payment flows: crypto holdings, subscription and
 * bill payments, airtime purchases, and donations. These all follow one
 * pattern: verify funds, debit the source account, append a record.
 *
 * @notes
 * - Crypto unit amounts are fractional, so they use float64. The average buy
 *   price is a running weighted average maintained on buys only; sells reduce
 *   the amount and leave the cost basis untouched.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// HoldingEpsilon is the threshold below which a holding is pruned to avoid
// floating-point residue after a full sell.
const HoldingEpsilon = 1e-6

// CryptoHolding is a position in a tradable asset, keyed by account and symbol.
type CryptoHolding struct {
	AccountID   uuid.UUID `json:"account_id"`
	Symbol      string    `json:"symbol"`
	Amount      float64   `json:"amount"`        // in units
	AvgBuyPrice float64   `json:"avg_buy_price"` // in cents per unit
	UpdatedAt   time.Time `json:"updated_at"`
}

// SubscriptionPayment records one billing cycle paid for a subscription.
type SubscriptionPayment struct {
	ID        uuid.UUID `json:"id"`
	AccountID uuid.UUID `json:"account_id"`
	Provider  string    `json:"provider"`
	Amount    int64     `json:"amount"` // in cents
	PaidAt    time.Time `json:"paid_at"`
}

// BillPayment records a settled bill.
type BillPayment struct {
	ID        uuid.UUID `json:"id"`
	AccountID uuid.UUID `json:"account_id"`
	BillID    uuid.UUID `json:"bill_id"`
	Payee     string    `json:"payee"`
	Amount    int64     `json:"amount"` // in cents
	PaidAt    time.Time `json:"paid_at"`
}

// AirtimePurchase records a mobile top-up.
type AirtimePurchase struct {
	ID          uuid.UUID `json:"id"`
	AccountID   uuid.UUID `json:"account_id"`
	PhoneNumber string    `json:"phone_number"`
	Amount      int64     `json:"amount"` // in cents
	PurchasedAt time.Time `json:"purchased_at"`
}

// Donation records a charitable payment.
type Donation struct {
	ID        uuid.UUID `json:"id"`
	AccountID uuid.UUID `json:"account_id"`
	Charity   string    `json:"charity"`
	Amount    int64     `json:"amount"` // in cents
	DonatedAt time.Time `json:"donated_at"`
}
