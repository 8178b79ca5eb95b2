/**
 * @description
 * This is the main entry point for the banking service. It initializes every
 * component — configuration, the in-memory session store, the event producer,
 * the notification dispatcher, the lifecycle engine, the scheduler, and the
 * HTTP server — wires them together, and runs until interrupted.
 *
 * @dependencies
 * - log/slog, net/http: Standard Go libraries for logging and the server.
 * - github.com/joho/godotenv: For loading .env files during local development.
 * - The service's internal packages and the RabbitMQ producer.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/icreditbank/banking-service/internal/api"
	"github.com/icreditbank/banking-service/internal/app"
	"github.com/icreditbank/banking-service/internal/config"
	"github.com/icreditbank/banking-service/internal/notify"
	"github.com/icreditbank/banking-service/internal/store"
	"github.com/icreditbank/banking-service/pkg/rabbitmq"
	"github.com/joho/godotenv"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Load .env file for local development.
	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Error("config load failed", "error", err)
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		logger.Error("jwt secret must be configured", "env", "JWT_SECRET")
		os.Exit(1)
	}

	logger.Info("starting banking service", "port", cfg.ServerPort)

	// The event producer is optional: the state machine never depends on the
	// broker being up.
	var producer rabbitmq.Publisher
	if cfg.RabbitMQURL != "" {
		p, err := rabbitmq.NewEventProducer(cfg.RabbitMQURL)
		if err != nil {
			logger.Warn("rabbitmq producer unavailable; using fallback", "error", err)
			producer = &rabbitmq.FallbackProducer{}
		} else {
			defer p.Close()
			logger.Info("rabbitmq producer connected")
			producer = p
		}
	} else {
		producer = &rabbitmq.FallbackProducer{}
	}

	var notifier notify.Notifier
	if _, ok := producer.(*rabbitmq.FallbackProducer); ok {
		notifier = notify.NewLogNotifier(logger)
	} else {
		notifier = notify.NewEventNotifier(producer, cfg.EventExchange, logger)
	}

	repository := store.NewMemoryStore()
	seedSession(repository, logger)

	service := app.NewService(repository, notifier, producer, logger, cfg)
	engine := app.NewLifecycleEngine(repository, notifier, producer, logger, cfg)
	jobs := app.NewJobs(repository, notifier, logger, cfg)

	scheduler := app.NewScheduler(engine, jobs, logger, cfg)
	scheduler.Start()
	defer scheduler.Stop()

	handlers := api.NewHandlers(service, engine)
	router := api.Routes(handlers, cfg.JWTSecret)

	serverAddr := fmt.Sprintf(":%s", cfg.ServerPort)
	server := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "addr", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped unexpectedly", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("shutdown started")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}

	logger.Info("shutdown complete")
}

// seedSession provisions the demo accounts and bills the session starts with.
// All of this state is volatile and lives only as long as the process.
func seedSession(repo store.Repository, logger *slog.Logger) {
	ctx := context.Background()

	accounts := []store.SeedAccount{
		{Type: "checking", Nickname: "Everyday Checking", Number: "1001-2290", Balance: 542_375},
		{Type: "savings", Nickname: "Rainy Day Savings", Number: "1001-2291", Balance: 1_286_000},
		{Type: "business", Nickname: "Studio LLC", Number: "2001-0034", Balance: 3_470_150},
		{Type: "external_linked", Nickname: "Linked Brokerage", Number: "9001-7755", Balance: 0},
	}
	ids, err := store.SeedAccounts(ctx, repo, accounts)
	if err != nil {
		logger.Error("account seeding failed", "error", err)
		return
	}
	for i, id := range ids {
		logger.Info("seeded account", "account_id", id, "nickname", accounts[i].Nickname)
	}

	bills := []store.SeedBill{
		{Payee: "City Power & Light", Amount: 12_240, DueInDays: 2},
		{Payee: "Metro Water", Amount: 6_410, DueInDays: 9},
		{Payee: "Vista Internet", Amount: 7_999, DueInDays: 20},
	}
	if err := store.SeedBills(ctx, repo, bills); err != nil {
		logger.Error("bill seeding failed", "error", err)
	}
}
