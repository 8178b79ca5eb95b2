/**
 * @description
 * Session seeding helpers. A fresh session starts with a small set of demo
 * accounts and registered bills; everything else is created through the
 * application service at runtime.
 */

package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/icreditbank/banking-service/internal/domain"
)

// SeedAccount describes one account to provision at session start.
type SeedAccount struct {
	Type     domain.AccountType
	Nickname string
	Number   string
	Balance  int64
}

// SeedBill describes one registered bill to provision at session start.
type SeedBill struct {
	Payee     string
	Amount    int64
	DueInDays int
}

// SeedAccounts creates the given accounts and returns their generated ids in
// order.
func SeedAccounts(ctx context.Context, repo Repository, seeds []SeedAccount) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(seeds))
	for _, seed := range seeds {
		account := &domain.Account{
			ID:       uuid.New(),
			Type:     seed.Type,
			Status:   domain.AccountActive,
			Nickname: seed.Nickname,
			Number:   seed.Number,
			Currency: "USD",
			Balance:  seed.Balance,
		}
		if err := repo.CreateAccount(ctx, account); err != nil {
			return nil, err
		}
		ids = append(ids, account.ID)
	}
	return ids, nil
}

// SeedBills registers the given bills with due dates relative to now.
func SeedBills(ctx context.Context, repo Repository, seeds []SeedBill) error {
	now := time.Now()
	for _, seed := range seeds {
		bill := &domain.Bill{
			ID:      uuid.New(),
			Payee:   seed.Payee,
			Amount:  seed.Amount,
			DueDate: now.AddDate(0, 0, seed.DueInDays),
		}
		if err := repo.CreateBill(ctx, bill); err != nil {
			return err
		}
	}
	return nil
}
