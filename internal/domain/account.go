/**
 * @description
 * Account and bill models. Accounts are owned exclusively by the session;
 * balances change only through the lifecycle engine and the payment flows,
 * and the nickname is the only other mutable field.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// AccountType tags the product category of an account.
type AccountType string

const (
	AccountChecking       AccountType = "checking"
	AccountSavings        AccountType = "savings"
	AccountBusiness       AccountType = "business"
	AccountExternalLinked AccountType = "external_linked"
)

// AccountStatus is the operational state of an account.
type AccountStatus string

const (
	AccountActive AccountStatus = "active"
	AccountFrozen AccountStatus = "frozen"
)

// Account holds a single-currency balance in cents. Linked/external accounts
// are allowed to float negative; the balance checks in the payment flows do
// not apply to money movement created against them.
type Account struct {
	ID       uuid.UUID     `json:"id"`
	Type     AccountType   `json:"type"`
	Status   AccountStatus `json:"status"`
	Nickname string        `json:"nickname"`
	Number   string        `json:"number"`
	Currency string        `json:"currency"`
	Balance  int64         `json:"balance"` // in cents
}

// Bill is a registered payable with a due date, used by the bill-pay flow and
// the due-date reminder job.
type Bill struct {
	ID      uuid.UUID `json:"id"`
	Payee   string    `json:"payee"`
	Amount  int64     `json:"amount"` // in cents
	DueDate time.Time `json:"due_date"`
	Paid    bool      `json:"paid"`
}
