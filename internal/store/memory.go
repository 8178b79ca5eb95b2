/**
 * @description
 * In-memory implementation of the Repository interface. All session state —
 * accounts, the insertion-ordered transaction list, crypto holdings, bills and
 * payment records — lives here for the lifetime of the process.
 *
 * Key invariants enforced at this layer:
 * - Transactions are inserted at the head and never removed.
 * - A status timestamp, once recorded, is never overwritten; re-appending an
 *   already-recorded status only moves the current status pointer.
 * - Every read hands out a copy, so callers cannot mutate stored records
 *   without going through a repository method.
 *
 * @notes
 * - The HTTP layer serves requests concurrently, so a mutex guards the
 *   read-compute-write cycle even though the lifecycle itself is timer-driven.
 */

package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/icreditbank/banking-service/internal/domain"
)

// MemoryStore is the volatile, session-owned repository.
type MemoryStore struct {
	mu sync.Mutex

	accounts     map[uuid.UUID]*domain.Account
	accountOrder []uuid.UUID

	transactions []*domain.Transaction // index 0 is the most recent
	txByID       map[uuid.UUID]*domain.Transaction

	holdings map[uuid.UUID]map[string]*domain.CryptoHolding

	bills []*domain.Bill

	subscriptionPayments []domain.SubscriptionPayment
	billPayments         []domain.BillPayment
	airtimePurchases     []domain.AirtimePurchase
	donations            []domain.Donation
}

var _ Repository = (*MemoryStore)(nil)

// NewMemoryStore creates an empty session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[uuid.UUID]*domain.Account),
		txByID:   make(map[uuid.UUID]*domain.Transaction),
		holdings: make(map[uuid.UUID]map[string]*domain.CryptoHolding),
	}
}

func (m *MemoryStore) CreateAccount(_ context.Context, account *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *account
	m.accounts[cp.ID] = &cp
	m.accountOrder = append(m.accountOrder, cp.ID)
	return nil
}

func (m *MemoryStore) FindAccountByID(_ context.Context, accountID uuid.UUID) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	acct, ok := m.accounts[accountID]
	if !ok {
		return nil, ErrAccountNotFound
	}
	cp := *acct
	return &cp, nil
}

func (m *MemoryStore) ListAccounts(_ context.Context) ([]domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.Account, 0, len(m.accountOrder))
	for _, id := range m.accountOrder {
		out = append(out, *m.accounts[id])
	}
	return out, nil
}

func (m *MemoryStore) AdjustAccountBalance(_ context.Context, accountID uuid.UUID, delta int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	acct, ok := m.accounts[accountID]
	if !ok {
		return ErrAccountNotFound
	}
	acct.Balance += delta
	return nil
}

func (m *MemoryStore) UpdateAccountNickname(_ context.Context, accountID uuid.UUID, nickname string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	acct, ok := m.accounts[accountID]
	if !ok {
		return ErrAccountNotFound
	}
	acct.Nickname = nickname
	return nil
}

func (m *MemoryStore) InsertTransaction(_ context.Context, tx *domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := tx.Clone()
	m.transactions = append([]*domain.Transaction{cp}, m.transactions...)
	m.txByID[cp.ID] = cp
	return nil
}

func (m *MemoryStore) FindTransactionByID(_ context.Context, transactionID uuid.UUID) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx, ok := m.txByID[transactionID]
	if !ok {
		return nil, ErrTransactionNotFound
	}
	return tx.Clone(), nil
}

func (m *MemoryStore) ListTransactions(_ context.Context) ([]domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.Transaction, 0, len(m.transactions))
	for _, tx := range m.transactions {
		out = append(out, *tx.Clone())
	}
	return out, nil
}

func (m *MemoryStore) ListActiveTransactions(_ context.Context) ([]domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.Transaction
	for _, tx := range m.transactions {
		if !tx.Status.Terminal() {
			out = append(out, *tx.Clone())
		}
	}
	return out, nil
}

func (m *MemoryStore) AppendTransactionStatus(_ context.Context, transactionID uuid.UUID, status domain.Status, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx, ok := m.txByID[transactionID]
	if !ok {
		return ErrTransactionNotFound
	}
	tx.Status = status
	// Append-only: a duplicate tick firing for a status already recorded must
	// not overwrite the original entry timestamp.
	if _, exists := tx.StatusTimestamps[status]; !exists {
		tx.StatusTimestamps[status] = at
	}
	return nil
}

func (m *MemoryStore) SetClearanceFeePaid(_ context.Context, transactionID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx, ok := m.txByID[transactionID]
	if !ok {
		return ErrTransactionNotFound
	}
	tx.ClearanceFeePaid = true
	return nil
}

func (m *MemoryStore) FindHolding(_ context.Context, accountID uuid.UUID, symbol string) (*domain.CryptoHolding, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	h, ok := m.holdings[accountID][symbol]
	if !ok {
		return nil, ErrHoldingNotFound
	}
	cp := *h
	return &cp, nil
}

func (m *MemoryStore) UpsertHolding(_ context.Context, holding *domain.CryptoHolding) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	bySymbol, ok := m.holdings[holding.AccountID]
	if !ok {
		bySymbol = make(map[string]*domain.CryptoHolding)
		m.holdings[holding.AccountID] = bySymbol
	}
	cp := *holding
	bySymbol[cp.Symbol] = &cp
	return nil
}

func (m *MemoryStore) DeleteHolding(_ context.Context, accountID uuid.UUID, symbol string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	bySymbol, ok := m.holdings[accountID]
	if !ok {
		return ErrHoldingNotFound
	}
	if _, ok := bySymbol[symbol]; !ok {
		return ErrHoldingNotFound
	}
	delete(bySymbol, symbol)
	return nil
}

func (m *MemoryStore) ListHoldings(_ context.Context, accountID uuid.UUID) ([]domain.CryptoHolding, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.CryptoHolding
	for _, h := range m.holdings[accountID] {
		out = append(out, *h)
	}
	return out, nil
}

func (m *MemoryStore) CreateBill(_ context.Context, bill *domain.Bill) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *bill
	m.bills = append(m.bills, &cp)
	return nil
}

func (m *MemoryStore) FindBillByID(_ context.Context, billID uuid.UUID) (*domain.Bill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, b := range m.bills {
		if b.ID == billID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, ErrBillNotFound
}

func (m *MemoryStore) ListUnpaidBills(_ context.Context) ([]domain.Bill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.Bill
	for _, b := range m.bills {
		if !b.Paid {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *MemoryStore) MarkBillPaid(_ context.Context, billID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, b := range m.bills {
		if b.ID == billID {
			b.Paid = true
			return nil
		}
	}
	return ErrBillNotFound
}

func (m *MemoryStore) AppendSubscriptionPayment(_ context.Context, p domain.SubscriptionPayment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscriptionPayments = append(m.subscriptionPayments, p)
	return nil
}

func (m *MemoryStore) AppendBillPayment(_ context.Context, p domain.BillPayment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.billPayments = append(m.billPayments, p)
	return nil
}

func (m *MemoryStore) AppendAirtimePurchase(_ context.Context, p domain.AirtimePurchase) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.airtimePurchases = append(m.airtimePurchases, p)
	return nil
}

func (m *MemoryStore) AppendDonation(_ context.Context, d domain.Donation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.donations = append(m.donations, d)
	return nil
}
