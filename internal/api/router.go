/**
 * @description
 * This file sets up the HTTP router for the banking service. It defines the
 * API endpoints, associates them with their handlers, and applies middleware
 * for logging, panic recovery, CORS, and authentication.
 *
 * @dependencies
 * - net/http: Standard Go library for HTTP functionality.
 * - github.com/go-chi/chi/v5, github.com/go-chi/cors: Routing and CORS.
 */

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Routes creates and returns the router for the banking service.
func Routes(h *Handlers, jwtSecret string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("healthy"))
	})

	// Group routes that require authentication.
	r.Group(func(r chi.Router) {
		r.Use(SessionAuthMiddleware(jwtSecret))

		r.Post("/transfers", h.CreateTransferHandler)
		r.Get("/transfers", h.ListTransfersHandler)
		r.Get("/transfers/{id}", h.GetTransferHandler)
		r.Post("/transfers/{id}/authorize", h.AuthorizeTransferHandler)

		r.Get("/accounts", h.ListAccountsHandler)
		r.Get("/accounts/{id}", h.GetAccountHandler)
		r.Put("/accounts/{id}/nickname", h.UpdateNicknameHandler)
		r.Get("/accounts/{id}/holdings", h.ListHoldingsHandler)

		r.Post("/crypto/buy", h.BuyCryptoHandler)
		r.Post("/crypto/sell", h.SellCryptoHandler)

		r.Post("/payments/subscription", h.PaySubscriptionHandler)
		r.Post("/payments/bill", h.PayBillHandler)
		r.Post("/payments/airtime", h.BuyAirtimeHandler)
		r.Post("/payments/donation", h.DonateHandler)
	})

	return r
}
