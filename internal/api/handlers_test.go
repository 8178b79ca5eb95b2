package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/icreditbank/banking-service/internal/app"
	"github.com/icreditbank/banking-service/internal/config"
	"github.com/icreditbank/banking-service/internal/domain"
	"github.com/icreditbank/banking-service/internal/notify"
	"github.com/icreditbank/banking-service/internal/store"
	"github.com/icreditbank/banking-service/pkg/rabbitmq"
)

const testSecret = "test-secret"

func testRouter(t *testing.T) (http.Handler, *store.MemoryStore, uuid.UUID) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Config{
		EventExchange:            "icredit.events",
		TickIntervalSeconds:      2,
		DwellSubmittedSeconds:    4,
		DwellConvertingSeconds:   8,
		DwellInTransitSeconds:    12,
		DwellClearanceSeconds:    4,
		ClearanceFeePercent:      15,
		HighAmountThresholdCents: 1_000_000,
		DomesticCountry:          "US",
	}

	repo := store.NewMemoryStore()
	account := &domain.Account{
		ID:       uuid.New(),
		Type:     domain.AccountChecking,
		Status:   domain.AccountActive,
		Nickname: "Everyday Checking",
		Currency: "USD",
		Balance:  2_000_000,
	}
	if err := repo.CreateAccount(context.Background(), account); err != nil {
		t.Fatalf("seeding account: %v", err)
	}

	producer := &rabbitmq.FallbackProducer{}
	notifier := notify.NewLogNotifier(logger)
	service := app.NewService(repo, notifier, producer, logger, cfg)
	engine := app.NewLifecycleEngine(repo, notifier, producer, logger, cfg)

	return Routes(NewHandlers(service, engine), testSecret), repo, account.ID
}

func signedToken(t *testing.T, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "customer-001",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func doRequest(t *testing.T, router http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createTransferBody(accountID uuid.UUID) map[string]interface{} {
	return map[string]interface{}{
		"source_account_id": accountID,
		"type":              "debit",
		"recipient": map[string]string{
			"name":           "Ada Osei",
			"bank_name":      "First National",
			"country":        "US",
			"account_number": "0044-8812",
		},
		"send_amount":      100_000,
		"fee":              1_500,
		"exchange_rate":    1.0,
		"receive_currency": "USD",
	}
}

func TestRoutes_RequireAuthentication(t *testing.T) {
	router, _, accountID := testRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/transfers", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodPost, "/transfers", signedToken(t, "wrong-secret"), createTransferBody(accountID))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with a badly signed token, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health endpoint should be open, got %d", rec.Code)
	}
}

func TestCreateTransferHandler(t *testing.T) {
	router, _, accountID := testRouter(t)
	token := signedToken(t, testSecret)

	rec := doRequest(t, router, http.MethodPost, "/transfers", token, createTransferBody(accountID))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp["status"] != "submitted" {
		t.Fatalf("expected status submitted, got %v", resp["status"])
	}
	if resp["recipient_name"] != "Ada Osei" {
		t.Fatalf("expected recipient name in response, got %v", resp["recipient_name"])
	}
}

func TestCreateTransferHandler_Errors(t *testing.T) {
	router, _, accountID := testRouter(t)
	token := signedToken(t, testSecret)

	body := createTransferBody(uuid.New())
	rec := doRequest(t, router, http.MethodPost, "/transfers", token, body)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown account, got %d", rec.Code)
	}

	body = createTransferBody(accountID)
	body["send_amount"] = 0
	rec = doRequest(t, router, http.MethodPost, "/transfers", token, body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero amount, got %d", rec.Code)
	}
}

func TestAuthorizeTransferHandler(t *testing.T) {
	router, repo, accountID := testRouter(t)
	token := signedToken(t, testSecret)

	// A transaction still in submitted is not authorizable.
	body := createTransferBody(accountID)
	rec := doRequest(t, router, http.MethodPost, "/transfers", token, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var created map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	txID := created["transaction_id"].(string)

	rec = doRequest(t, router, http.MethodPost, fmt.Sprintf("/transfers/%s/authorize", txID), token, map[string]string{"method": "fee"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 outside the hold state, got %d", rec.Code)
	}

	// Force the transaction into the hold state and authorize it.
	id, err := uuid.Parse(txID)
	if err != nil {
		t.Fatalf("parsing id: %v", err)
	}
	if err := repo.AppendTransactionStatus(context.Background(), id, domain.StatusFlaggedAwaitingClearance, time.Now()); err != nil {
		t.Fatalf("forcing hold state: %v", err)
	}

	rec = doRequest(t, router, http.MethodPost, fmt.Sprintf("/transfers/%s/authorize", txID), token, map[string]string{"method": "fee"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var authorized map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &authorized); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if authorized["status"] != "clearance_granted" {
		t.Fatalf("expected clearance_granted, got %v", authorized["status"])
	}
	if authorized["clearance_fee_paid"] != true {
		t.Fatal("expected clearance fee recorded")
	}

	rec = doRequest(t, router, http.MethodPost, fmt.Sprintf("/transfers/%s/authorize", uuid.New()), token, map[string]string{"method": "code"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown id, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodPost, fmt.Sprintf("/transfers/%s/authorize", txID), token, map[string]string{"method": "bribe"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown method, got %d", rec.Code)
	}
}

func TestAccountEndpoints(t *testing.T) {
	router, _, accountID := testRouter(t)
	token := signedToken(t, testSecret)

	rec := doRequest(t, router, http.MethodGet, "/accounts", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var accounts []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &accounts); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("expected 1 account, got %d", len(accounts))
	}

	rec = doRequest(t, router, http.MethodPut, fmt.Sprintf("/accounts/%s/nickname", accountID), token, map[string]string{"nickname": "House Fund"})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodGet, fmt.Sprintf("/accounts/%s", accountID), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var account map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &account); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if account["nickname"] != "House Fund" {
		t.Fatalf("expected renamed account, got %v", account["nickname"])
	}

	rec = doRequest(t, router, http.MethodGet, fmt.Sprintf("/accounts/%s", uuid.New()), token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown account, got %d", rec.Code)
	}
}

func TestPaymentEndpoints(t *testing.T) {
	router, _, accountID := testRouter(t)
	token := signedToken(t, testSecret)

	rec := doRequest(t, router, http.MethodPost, "/crypto/buy", token, map[string]interface{}{
		"account_id":       accountID,
		"symbol":           "BTC",
		"units":            0.5,
		"unit_price_cents": 100_000,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var result struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !result.Success {
		t.Fatal("expected successful crypto buy")
	}

	rec = doRequest(t, router, http.MethodGet, fmt.Sprintf("/accounts/%s/holdings", accountID), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	// A declined payment is still a 200 with success=false.
	rec = doRequest(t, router, http.MethodPost, "/payments/donation", token, map[string]interface{}{
		"account_id": accountID,
		"charity":    "Red Cross",
		"amount":     100_000_000,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if result.Success {
		t.Fatal("expected declined donation")
	}
}
