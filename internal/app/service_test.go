package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/icreditbank/banking-service/internal/domain"
	"github.com/icreditbank/banking-service/internal/store"
)

func domesticRequest(accountID uuid.UUID) domain.CreateTransferRequest {
	return domain.CreateTransferRequest{
		SourceAccountID: accountID,
		Type:            domain.TypeDebit,
		Recipient: domain.Recipient{
			Name:          "Ada Osei",
			BankName:      "First National",
			Country:       "US",
			AccountNumber: "0044-8812",
			Email:         "ada@example.com",
		},
		SendAmount:      100_000,
		Fee:             1_500,
		ExchangeRate:    1.0,
		ReceiveCurrency: "USD",
		Purpose:         "rent",
	}
}

func mustGetAccount(t *testing.T, repo *store.MemoryStore, id uuid.UUID) *domain.Account {
	t.Helper()
	account, err := repo.FindAccountByID(context.Background(), id)
	if err != nil {
		t.Fatalf("finding account %s: %v", id, err)
	}
	return account
}

func TestCreateTransfer_DebitsBalanceExactlyOnce(t *testing.T) {
	svc, engine, repo, accountID, _ := newTestFixture(t, 200_000)

	anchor := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return anchor }

	tx, err := svc.CreateTransfer(context.Background(), domesticRequest(accountID))
	if err != nil {
		t.Fatalf("CreateTransfer: %v", err)
	}
	if tx.Status != domain.StatusSubmitted {
		t.Fatalf("expected submitted, got %s", tx.Status)
	}

	want := int64(200_000 - 100_000 - 1_500)
	if got := mustGetAccount(t, repo, accountID).Balance; got != want {
		t.Fatalf("expected balance %d after creation, got %d", want, got)
	}

	// Carrying the transaction through to terminal must not touch the
	// balance again.
	engine.Tick(anchor.Add(4 * time.Second))
	engine.Tick(anchor.Add(8 * time.Second))
	engine.Tick(anchor.Add(12 * time.Second))
	if got := mustGetTransaction(t, repo, tx.ID).Status; got != domain.StatusFundsArrived {
		t.Fatalf("expected funds_arrived, got %s", got)
	}
	if got := mustGetAccount(t, repo, accountID).Balance; got != want {
		t.Fatalf("balance changed during lifecycle: expected %d, got %d", want, got)
	}
}

func TestCreateTransfer_CreditIgnoresFeeAndAddsFunds(t *testing.T) {
	svc, _, repo, accountID, _ := newTestFixture(t, 50_000)

	req := domesticRequest(accountID)
	req.Type = domain.TypeCredit
	req.SendAmount = 25_000
	req.Fee = 9_999

	tx, err := svc.CreateTransfer(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateTransfer: %v", err)
	}
	if tx.Fee != 0 {
		t.Fatalf("credit must carry zero fee, got %d", tx.Fee)
	}
	if got := mustGetAccount(t, repo, accountID).Balance; got != 75_000 {
		t.Fatalf("expected balance 75000 after credit, got %d", got)
	}
}

func TestCreateTransfer_AllowsOverdraft(t *testing.T) {
	svc, _, repo, accountID, _ := newTestFixture(t, 1_000)

	if _, err := svc.CreateTransfer(context.Background(), domesticRequest(accountID)); err != nil {
		t.Fatalf("CreateTransfer: %v", err)
	}

	// Sufficiency is the caller's pre-check; creation itself never declines.
	if got := mustGetAccount(t, repo, accountID).Balance; got != 1_000-101_500 {
		t.Fatalf("expected negative balance %d, got %d", 1_000-101_500, got)
	}
}

func TestCreateTransfer_UnknownAccount(t *testing.T) {
	svc, _, _, _, _ := newTestFixture(t, 0)

	_, err := svc.CreateTransfer(context.Background(), domesticRequest(uuid.New()))
	if !errors.Is(err, store.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestCreateTransfer_RejectsInvalidAmounts(t *testing.T) {
	svc, _, repo, accountID, _ := newTestFixture(t, 200_000)

	cases := []func(*domain.CreateTransferRequest){
		func(r *domain.CreateTransferRequest) { r.SendAmount = 0 },
		func(r *domain.CreateTransferRequest) { r.SendAmount = -5 },
		func(r *domain.CreateTransferRequest) { r.Fee = -1 },
		func(r *domain.CreateTransferRequest) { r.ExchangeRate = 0 },
	}
	for i, mutate := range cases {
		req := domesticRequest(accountID)
		mutate(&req)
		if _, err := svc.CreateTransfer(context.Background(), req); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("case %d: expected ErrInvalidAmount, got %v", i, err)
		}
	}
	if got := mustGetAccount(t, repo, accountID).Balance; got != 200_000 {
		t.Fatalf("rejected requests must not touch the balance, got %d", got)
	}
}

func TestCreateTransfer_RiskHeuristic(t *testing.T) {
	svc, _, _, accountID, _ := newTestFixture(t, 50_000_000)
	ctx := context.Background()

	domestic := domesticRequest(accountID)
	tx, err := svc.CreateTransfer(ctx, domestic)
	if err != nil {
		t.Fatalf("CreateTransfer: %v", err)
	}
	if tx.RequiresAuth {
		t.Fatal("small domestic transfer should not be flagged")
	}

	crossBorder := domesticRequest(accountID)
	crossBorder.Recipient.Country = "GH"
	tx, err = svc.CreateTransfer(ctx, crossBorder)
	if err != nil {
		t.Fatalf("CreateTransfer: %v", err)
	}
	if !tx.RequiresAuth {
		t.Fatal("cross-border transfer should be flagged")
	}

	highAmount := domesticRequest(accountID)
	highAmount.SendAmount = 1_000_000
	tx, err = svc.CreateTransfer(ctx, highAmount)
	if err != nil {
		t.Fatalf("CreateTransfer: %v", err)
	}
	if !tx.RequiresAuth {
		t.Fatal("high-amount transfer should be flagged")
	}
}

func TestCreateTransfer_RoundsConvertedAmountOnce(t *testing.T) {
	svc, _, _, accountID, _ := newTestFixture(t, 10_000_000)

	req := domesticRequest(accountID)
	req.SendAmount = 100_000
	req.ExchangeRate = 14.3265
	req.ReceiveCurrency = "GHS"

	tx, err := svc.CreateTransfer(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateTransfer: %v", err)
	}
	if tx.ReceiveAmount != 1_432_650 {
		t.Fatalf("expected receive amount 1432650, got %d", tx.ReceiveAmount)
	}
}

func TestListTransactions_NewestFirst(t *testing.T) {
	svc, _, _, accountID, _ := newTestFixture(t, 10_000_000)
	ctx := context.Background()

	first, err := svc.CreateTransfer(ctx, domesticRequest(accountID))
	if err != nil {
		t.Fatalf("CreateTransfer: %v", err)
	}
	second, err := svc.CreateTransfer(ctx, domesticRequest(accountID))
	if err != nil {
		t.Fatalf("CreateTransfer: %v", err)
	}

	txs, err := svc.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}
	if txs[0].ID != second.ID || txs[1].ID != first.ID {
		t.Fatal("expected most recent transaction at the head of the list")
	}
}

func TestCreateTransfer_RecipientIsSnapshot(t *testing.T) {
	svc, _, repo, accountID, _ := newTestFixture(t, 10_000_000)

	req := domesticRequest(accountID)
	tx, err := svc.CreateTransfer(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateTransfer: %v", err)
	}

	// Later edits to the caller's recipient record must never alter history.
	req.Recipient.Name = "Someone Else"
	req.Recipient.AccountNumber = "9999-0000"

	stored := mustGetTransaction(t, repo, tx.ID)
	if stored.Recipient.Name != "Ada Osei" || stored.Recipient.AccountNumber != "0044-8812" {
		t.Fatalf("recipient snapshot was altered: %+v", stored.Recipient)
	}
}

func TestCreateTransfer_SendsReceipt(t *testing.T) {
	svc, _, _, accountID, notifier := newTestFixture(t, 10_000_000)

	if _, err := svc.CreateTransfer(context.Background(), domesticRequest(accountID)); err != nil {
		t.Fatalf("CreateTransfer: %v", err)
	}

	select {
	case subject := <-notifier.emailCh:
		if subject != "Transfer receipt" {
			t.Fatalf("unexpected receipt subject %q", subject)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected receipt email dispatch")
	}
}

func TestUpdateAccountNickname(t *testing.T) {
	svc, _, repo, accountID, _ := newTestFixture(t, 0)
	ctx := context.Background()

	if err := svc.UpdateAccountNickname(ctx, accountID, "House Fund"); err != nil {
		t.Fatalf("UpdateAccountNickname: %v", err)
	}
	if got := mustGetAccount(t, repo, accountID).Nickname; got != "House Fund" {
		t.Fatalf("expected nickname update, got %q", got)
	}

	if err := svc.UpdateAccountNickname(ctx, uuid.New(), "x"); !errors.Is(err, store.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}
