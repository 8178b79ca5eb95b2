/**
 * @description
 * The secondary payment flows: crypto buys/sells, subscription payments, bill
 * payments, airtime purchases, and donations. They share one pattern: look up
 * the source account, verify the balance covers the cost, atomically debit
 * the balance and append a domain record, and report a boolean. Insufficient
 * funds is a `false` return, never an error — the caller checks the flag.
 *
 * @notes
 * - Unlike transfer creation, these flows DO check funds internally; the
 *   asymmetry is deliberate (transfers participate in aggregate pre-checked
 *   split payments, these do not).
 * - Crypto cost basis is a running weighted average maintained on buys only.
 *   Sells reduce the amount and prune the holding below a small epsilon.
 */

package app

import (
	"context"
	"math"

	"github.com/google/uuid"
	"github.com/icreditbank/banking-service/internal/domain"
)

// debitIfCovered verifies the account balance covers cost and debits it.
// Returns false, mutating nothing, when the account is unknown or short.
func (s *Service) debitIfCovered(ctx context.Context, accountID uuid.UUID, cost int64) bool {
	account, err := s.repo.FindAccountByID(ctx, accountID)
	if err != nil {
		s.logger.Warn("payment against unknown account", "account_id", accountID)
		return false
	}
	if account.Balance < cost {
		s.logger.Info("payment declined for insufficient funds", "account_id", accountID, "balance", account.Balance, "cost", cost)
		return false
	}
	if err := s.repo.AdjustAccountBalance(ctx, accountID, -cost); err != nil {
		return false
	}
	return true
}

// BuyCrypto purchases units of an asset at the given unit price, maintaining
// the weighted-average cost basis across buys.
func (s *Service) BuyCrypto(ctx context.Context, accountID uuid.UUID, symbol string, units float64, unitPriceCents int64) bool {
	if units <= 0 || unitPriceCents <= 0 {
		return false
	}
	cost := int64(math.Round(units * float64(unitPriceCents)))
	if !s.debitIfCovered(ctx, accountID, cost) {
		return false
	}

	holding, err := s.repo.FindHolding(ctx, accountID, symbol)
	if err != nil {
		holding = &domain.CryptoHolding{AccountID: accountID, Symbol: symbol}
	}

	newAmount := holding.Amount + units
	holding.AvgBuyPrice = (holding.AvgBuyPrice*holding.Amount + float64(cost)) / newAmount
	holding.Amount = newAmount
	holding.UpdatedAt = s.now()

	if err := s.repo.UpsertHolding(ctx, holding); err != nil {
		s.logger.Error("could not persist holding after buy", "account_id", accountID, "symbol", symbol, "error", err)
		return false
	}
	s.logger.Info("crypto bought", "account_id", accountID, "symbol", symbol, "units", units, "cost", cost)
	return true
}

// SellCrypto liquidates units of a holding at the given unit price. The
// average cost basis is untouched; the holding is pruned once its amount
// falls below the epsilon to avoid floating-point residue.
func (s *Service) SellCrypto(ctx context.Context, accountID uuid.UUID, symbol string, units float64, unitPriceCents int64) bool {
	if units <= 0 || unitPriceCents <= 0 {
		return false
	}

	holding, err := s.repo.FindHolding(ctx, accountID, symbol)
	if err != nil || holding.Amount < units {
		return false
	}

	proceeds := int64(math.Round(units * float64(unitPriceCents)))
	if err := s.repo.AdjustAccountBalance(ctx, accountID, proceeds); err != nil {
		return false
	}

	holding.Amount -= units
	holding.UpdatedAt = s.now()
	if holding.Amount < domain.HoldingEpsilon {
		if err := s.repo.DeleteHolding(ctx, accountID, symbol); err != nil {
			s.logger.Error("could not prune emptied holding", "account_id", accountID, "symbol", symbol, "error", err)
		}
	} else if err := s.repo.UpsertHolding(ctx, holding); err != nil {
		s.logger.Error("could not persist holding after sell", "account_id", accountID, "symbol", symbol, "error", err)
		return false
	}
	s.logger.Info("crypto sold", "account_id", accountID, "symbol", symbol, "units", units, "proceeds", proceeds)
	return true
}

// PaySubscription debits one billing cycle for a subscription provider.
func (s *Service) PaySubscription(ctx context.Context, accountID uuid.UUID, provider string, amount int64) bool {
	if amount <= 0 || !s.debitIfCovered(ctx, accountID, amount) {
		return false
	}
	_ = s.repo.AppendSubscriptionPayment(ctx, domain.SubscriptionPayment{
		ID:        uuid.New(),
		AccountID: accountID,
		Provider:  provider,
		Amount:    amount,
		PaidAt:    s.now(),
	})
	s.logger.Info("subscription paid", "account_id", accountID, "provider", provider, "amount", amount)
	return true
}

// PayBill settles a registered bill from the given account.
func (s *Service) PayBill(ctx context.Context, accountID uuid.UUID, billID uuid.UUID) bool {
	bill, err := s.repo.FindBillByID(ctx, billID)
	if err != nil || bill.Paid {
		return false
	}
	if !s.debitIfCovered(ctx, accountID, bill.Amount) {
		return false
	}
	if err := s.repo.MarkBillPaid(ctx, billID); err != nil {
		return false
	}
	_ = s.repo.AppendBillPayment(ctx, domain.BillPayment{
		ID:        uuid.New(),
		AccountID: accountID,
		BillID:    bill.ID,
		Payee:     bill.Payee,
		Amount:    bill.Amount,
		PaidAt:    s.now(),
	})
	s.logger.Info("bill paid", "account_id", accountID, "bill_id", billID, "payee", bill.Payee, "amount", bill.Amount)
	return true
}

// BuyAirtime purchases a mobile top-up.
func (s *Service) BuyAirtime(ctx context.Context, accountID uuid.UUID, phoneNumber string, amount int64) bool {
	if amount <= 0 || !s.debitIfCovered(ctx, accountID, amount) {
		return false
	}
	_ = s.repo.AppendAirtimePurchase(ctx, domain.AirtimePurchase{
		ID:          uuid.New(),
		AccountID:   accountID,
		PhoneNumber: phoneNumber,
		Amount:      amount,
		PurchasedAt: s.now(),
	})
	s.logger.Info("airtime purchased", "account_id", accountID, "phone", phoneNumber, "amount", amount)
	return true
}

// Donate sends a charitable payment.
func (s *Service) Donate(ctx context.Context, accountID uuid.UUID, charity string, amount int64) bool {
	if amount <= 0 || !s.debitIfCovered(ctx, accountID, amount) {
		return false
	}
	_ = s.repo.AppendDonation(ctx, domain.Donation{
		ID:        uuid.New(),
		AccountID: accountID,
		Charity:   charity,
		Amount:    amount,
		DonatedAt: s.now(),
	})
	s.logger.Info("donation made", "account_id", accountID, "charity", charity, "amount", amount)
	return true
}
