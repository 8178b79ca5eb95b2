/**
 * @description
 * This file contains the HTTP handlers for the banking service's API
 * endpoints. Handlers parse incoming requests, call the appropriate methods
 * on the application service or lifecycle engine, and write the response.
 * They are the bridge between the web layer and the business logic.
 *
 * @dependencies
 * - encoding/json, net/http: Standard Go libraries.
 * - internal/app, internal/domain, internal/store: Service logic, models, and
 *   custom errors.
 */

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/icreditbank/banking-service/internal/app"
	"github.com/icreditbank/banking-service/internal/domain"
	"github.com/icreditbank/banking-service/internal/store"
)

// Handlers holds the application service and lifecycle engine used by the
// HTTP layer.
type Handlers struct {
	service *app.Service
	engine  *app.LifecycleEngine
}

// NewHandlers creates the handler set.
func NewHandlers(service *app.Service, engine *app.LifecycleEngine) *Handlers {
	return &Handlers{service: service, engine: engine}
}

// transferResponse mirrors what the client dashboard renders for one
// transaction.
type transferResponse struct {
	TransactionID    string  `json:"transaction_id"`
	Type             string  `json:"type"`
	Status           string  `json:"status"`
	StatusLabel      string  `json:"status_label"`
	SendAmount       int64   `json:"send_amount"`
	Fee              int64   `json:"fee"`
	ExchangeRate     float64 `json:"exchange_rate"`
	ReceiveAmount    int64   `json:"receive_amount"`
	ReceiveCurrency  string  `json:"receive_currency"`
	RecipientName    string  `json:"recipient_name"`
	RequiresAuth     bool    `json:"requires_auth"`
	ClearanceFeePaid bool    `json:"clearance_fee_paid"`
	EstimatedArrival string  `json:"estimated_arrival"`
	CreatedAt        string  `json:"created_at"`
}

func buildTransferResponse(tx *domain.Transaction) transferResponse {
	return transferResponse{
		TransactionID:    tx.ID.String(),
		Type:             string(tx.Type),
		Status:           string(tx.Status),
		StatusLabel:      tx.Status.Label(),
		SendAmount:       tx.SendAmount,
		Fee:              tx.Fee,
		ExchangeRate:     tx.ExchangeRate,
		ReceiveAmount:    tx.ReceiveAmount,
		ReceiveCurrency:  tx.ReceiveCurrency,
		RecipientName:    tx.Recipient.Name,
		RequiresAuth:     tx.RequiresAuth,
		ClearanceFeePaid: tx.ClearanceFeePaid,
		EstimatedArrival: tx.EstimatedArrival.Format("2006-01-02T15:04:05Z07:00"),
		CreatedAt:        tx.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// CreateTransferHandler handles POST /transfers.
func (h *Handlers) CreateTransferHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	tx, err := h.service.CreateTransfer(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrAccountNotFound):
			h.writeError(w, http.StatusNotFound, "Source account not found")
		case errors.Is(err, app.ErrInvalidAmount):
			h.writeError(w, http.StatusBadRequest, "Amounts must be positive and the exchange rate greater than zero")
		default:
			h.writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	h.writeJSON(w, http.StatusCreated, buildTransferResponse(tx))
}

// AuthorizeTransferHandler handles POST /transfers/{id}/authorize.
func (h *Handlers) AuthorizeTransferHandler(w http.ResponseWriter, r *http.Request) {
	transactionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid transaction id")
		return
	}

	var req struct {
		Method domain.AuthorizeMethod `json:"method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if req.Method != domain.AuthorizeByCode && req.Method != domain.AuthorizeByFee {
		h.writeError(w, http.StatusBadRequest, "Method must be 'code' or 'fee'")
		return
	}

	switch h.engine.Authorize(r.Context(), transactionID, req.Method) {
	case app.AuthorizeNotFound:
		h.writeError(w, http.StatusNotFound, "Transaction not found")
	case app.AuthorizeInvalidState:
		h.writeError(w, http.StatusConflict, "Transaction is not awaiting clearance")
	case app.AuthorizeApplied:
		tx, err := h.service.GetTransaction(r.Context(), transactionID)
		if err != nil {
			h.writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		h.writeJSON(w, http.StatusOK, buildTransferResponse(tx))
	}
}

// ListTransfersHandler handles GET /transfers.
func (h *Handlers) ListTransfersHandler(w http.ResponseWriter, r *http.Request) {
	txs, err := h.service.ListTransactions(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	out := make([]transferResponse, 0, len(txs))
	for i := range txs {
		out = append(out, buildTransferResponse(&txs[i]))
	}
	h.writeJSON(w, http.StatusOK, out)
}

// GetTransferHandler handles GET /transfers/{id}.
func (h *Handlers) GetTransferHandler(w http.ResponseWriter, r *http.Request) {
	transactionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid transaction id")
		return
	}
	tx, err := h.service.GetTransaction(r.Context(), transactionID)
	if err != nil {
		h.writeError(w, http.StatusNotFound, "Transaction not found")
		return
	}
	h.writeJSON(w, http.StatusOK, buildTransferResponse(tx))
}

// ListAccountsHandler handles GET /accounts.
func (h *Handlers) ListAccountsHandler(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.ListAccounts(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	h.writeJSON(w, http.StatusOK, accounts)
}

// GetAccountHandler handles GET /accounts/{id}.
func (h *Handlers) GetAccountHandler(w http.ResponseWriter, r *http.Request) {
	accountID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid account id")
		return
	}
	account, err := h.service.GetAccount(r.Context(), accountID)
	if err != nil {
		h.writeError(w, http.StatusNotFound, "Account not found")
		return
	}
	h.writeJSON(w, http.StatusOK, account)
}

// UpdateNicknameHandler handles PUT /accounts/{id}/nickname.
func (h *Handlers) UpdateNicknameHandler(w http.ResponseWriter, r *http.Request) {
	accountID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid account id")
		return
	}
	var req struct {
		Nickname string `json:"nickname"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if err := h.service.UpdateAccountNickname(r.Context(), accountID, req.Nickname); err != nil {
		h.writeError(w, http.StatusNotFound, "Account not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListHoldingsHandler handles GET /accounts/{id}/holdings.
func (h *Handlers) ListHoldingsHandler(w http.ResponseWriter, r *http.Request) {
	accountID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid account id")
		return
	}
	holdings, err := h.service.ListHoldings(r.Context(), accountID)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	h.writeJSON(w, http.StatusOK, holdings)
}

// paymentResult is the shared response for the boolean payment flows.
type paymentResult struct {
	Success bool `json:"success"`
}

// BuyCryptoHandler handles POST /crypto/buy.
func (h *Handlers) BuyCryptoHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccountID      uuid.UUID `json:"account_id"`
		Symbol         string    `json:"symbol"`
		Units          float64   `json:"units"`
		UnitPriceCents int64     `json:"unit_price_cents"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	ok := h.service.BuyCrypto(r.Context(), req.AccountID, req.Symbol, req.Units, req.UnitPriceCents)
	h.writeJSON(w, http.StatusOK, paymentResult{Success: ok})
}

// SellCryptoHandler handles POST /crypto/sell.
func (h *Handlers) SellCryptoHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccountID      uuid.UUID `json:"account_id"`
		Symbol         string    `json:"symbol"`
		Units          float64   `json:"units"`
		UnitPriceCents int64     `json:"unit_price_cents"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	ok := h.service.SellCrypto(r.Context(), req.AccountID, req.Symbol, req.Units, req.UnitPriceCents)
	h.writeJSON(w, http.StatusOK, paymentResult{Success: ok})
}

// PaySubscriptionHandler handles POST /payments/subscription.
func (h *Handlers) PaySubscriptionHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccountID uuid.UUID `json:"account_id"`
		Provider  string    `json:"provider"`
		Amount    int64     `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	ok := h.service.PaySubscription(r.Context(), req.AccountID, req.Provider, req.Amount)
	h.writeJSON(w, http.StatusOK, paymentResult{Success: ok})
}

// PayBillHandler handles POST /payments/bill.
func (h *Handlers) PayBillHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccountID uuid.UUID `json:"account_id"`
		BillID    uuid.UUID `json:"bill_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	ok := h.service.PayBill(r.Context(), req.AccountID, req.BillID)
	h.writeJSON(w, http.StatusOK, paymentResult{Success: ok})
}

// BuyAirtimeHandler handles POST /payments/airtime.
func (h *Handlers) BuyAirtimeHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccountID   uuid.UUID `json:"account_id"`
		PhoneNumber string    `json:"phone_number"`
		Amount      int64     `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	ok := h.service.BuyAirtime(r.Context(), req.AccountID, req.PhoneNumber, req.Amount)
	h.writeJSON(w, http.StatusOK, paymentResult{Success: ok})
}

// DonateHandler handles POST /payments/donation.
func (h *Handlers) DonateHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccountID uuid.UUID `json:"account_id"`
		Charity   string    `json:"charity"`
		Amount    int64     `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	ok := h.service.Donate(r.Context(), req.AccountID, req.Charity, req.Amount)
	h.writeJSON(w, http.StatusOK, paymentResult{Success: ok})
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
