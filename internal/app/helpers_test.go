package app

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/icreditbank/banking-service/internal/config"
	"github.com/icreditbank/banking-service/internal/domain"
	"github.com/icreditbank/banking-service/internal/store"
)

func testConfig() config.Config {
	return config.Config{
		EventExchange:            "icredit.events",
		TickIntervalSeconds:      2,
		DwellSubmittedSeconds:    4,
		DwellConvertingSeconds:   8,
		DwellInTransitSeconds:    12,
		DwellClearanceSeconds:    4,
		ClearanceFeePercent:      15,
		HighAmountThresholdCents: 1_000_000,
		DomesticCountry:          "US",
		BillReminderWindowHours:  72,
		BillReminderEmail:        "customer@example.com",
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// notifierStub records dispatches and always reports success. It signals on
// the channels so tests can wait for fire-and-forget goroutines.
type notifierStub struct {
	mu     sync.Mutex
	emails []string
	smss   []string

	emailCh chan string
	smsCh   chan string
}

func newNotifierStub() *notifierStub {
	return &notifierStub{
		emailCh: make(chan string, 16),
		smsCh:   make(chan string, 16),
	}
}

func (n *notifierStub) SendEmail(_ context.Context, to, subject, _ string) bool {
	n.mu.Lock()
	n.emails = append(n.emails, to+": "+subject)
	n.mu.Unlock()
	n.emailCh <- subject
	return true
}

func (n *notifierStub) SendSMS(_ context.Context, to, message string) bool {
	n.mu.Lock()
	n.smss = append(n.smss, to+": "+message)
	n.mu.Unlock()
	n.smsCh <- message
	return true
}

func (n *notifierStub) emailCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.emails)
}

// publisherStub satisfies rabbitmq.Publisher and records routing keys.
type publisherStub struct {
	mu   sync.Mutex
	keys []string
}

func (p *publisherStub) Publish(_ context.Context, _, routingKey string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
	return nil
}

func (p *publisherStub) Close() {}

// newTestFixture wires a memory store, a seeded checking account, and the
// service/engine pair against stub side channels.
func newTestFixture(t *testing.T, balance int64) (*Service, *LifecycleEngine, *store.MemoryStore, uuid.UUID, *notifierStub) {
	t.Helper()

	repo := store.NewMemoryStore()
	account := &domain.Account{
		ID:       uuid.New(),
		Type:     domain.AccountChecking,
		Status:   domain.AccountActive,
		Nickname: "Everyday Checking",
		Currency: "USD",
		Balance:  balance,
	}
	if err := repo.CreateAccount(context.Background(), account); err != nil {
		t.Fatalf("seeding account: %v", err)
	}

	notifier := newNotifierStub()
	publisher := &publisherStub{}
	cfg := testConfig()
	svc := NewService(repo, notifier, publisher, testLogger(), cfg)
	engine := NewLifecycleEngine(repo, notifier, publisher, testLogger(), cfg)
	return svc, engine, repo, account.ID, notifier
}

// insertTransfer places a transaction directly into the store with a known
// SUBMITTED anchor so dwell arithmetic in tests is exact.
func insertTransfer(t *testing.T, repo *store.MemoryStore, accountID uuid.UUID, anchor time.Time, requiresAuth bool) uuid.UUID {
	t.Helper()

	tx := &domain.Transaction{
		ID:              uuid.New(),
		Type:            domain.TypeDebit,
		SourceAccountID: accountID,
		Recipient: domain.Recipient{
			Name:    "Ada Osei",
			Country: "US",
			Email:   "ada@example.com",
			Phone:   "+15550101",
		},
		SendAmount:      100_000,
		Fee:             1_500,
		ExchangeRate:    1.0,
		ReceiveAmount:   100_000,
		ReceiveCurrency: "USD",
		Status:          domain.StatusSubmitted,
		StatusTimestamps: map[domain.Status]time.Time{
			domain.StatusSubmitted: anchor,
		},
		RequiresAuth: requiresAuth,
		CreatedAt:    anchor,
	}
	if err := repo.InsertTransaction(context.Background(), tx); err != nil {
		t.Fatalf("inserting transaction: %v", err)
	}
	return tx.ID
}

func mustGetTransaction(t *testing.T, repo *store.MemoryStore, id uuid.UUID) *domain.Transaction {
	t.Helper()
	tx, err := repo.FindTransactionByID(context.Background(), id)
	if err != nil {
		t.Fatalf("finding transaction %s: %v", id, err)
	}
	return tx
}
