// File: cmd/app/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"membership-billing/internal/config"
	"membership-billing/internal/domain/ports/adapter"
	pg "membership-billing/internal/infra/db/postgres"
	"membership-billing/internal/infra/logging"
	"membership-billing/internal/infra/metrics"
	"membership-billing/internal/infra/notify"
	red "membership-billing/internal/infra/redis"
	"membership-billing/internal/infra/sched"
	"membership-billing/internal/infra/web"
	"membership-billing/internal/infra/worker"
	"membership-billing/internal/usecase"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("developer mode enabled")
	}
	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()
	txManager := pg.NewTxManager(pool)

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()
	deduper := red.NewDeduper(redisClient)

	// ---- Repositories ----
	planRepo := pg.NewPlanRepo(pool)
	entRepo := pg.NewEntitlementRepo(pool)
	txRepo := pg.NewTransactionRepo(pool)
	notifLogRepo := pg.NewNotificationLogRepo(pool)

	// ---- Notification channels ----
	catalog, err := notify.NewCatalog(notify.TemplatesFS)
	if err != nil {
		log.Fatalf("notification templates: %v", err)
	}
	var channels []adapter.ChannelSender
	if cfg.Channels.Telegram.Token != "" {
		tg, err := notify.NewTelegramSender(cfg.Channels.Telegram.Token, cfg.Channels.Telegram.RatePerSecond)
		if err != nil {
			log.Fatalf("telegram channel: %v", err)
		}
		channels = append(channels, notify.WithBreaker(tg, *logger))
	}
	if cfg.Channels.Email.Host != "" {
		channels = append(channels, notify.WithBreaker(notify.NewEmailSender(cfg.Channels.Email), *logger))
	}
	if cfg.Channels.WhatsApp.BaseURL != "" {
		channels = append(channels, notify.WithBreaker(notify.NewWhatsAppSender(cfg.Channels.WhatsApp), *logger))
	}
	channels = append(channels, notify.NewInAppSender(redisClient))
	logger.Info().Int("channels", len(channels)).Msg("notification channels configured")

	// ---- Worker pool + notifier ----
	wpool := worker.NewPool(cfg.Worker.PoolSize, *logger)
	wpool.Start(ctx)
	fanoutUC := usecase.NewFanoutUseCase(catalog, notifLogRepo, cfg.Worker.DispatchWindow, logger)
	notifier := notify.NewService(fanoutUC, channels, wpool, deduper, cfg.Worker.DedupeTTL, *logger)

	// ---- Use cases ----
	quoteUC := usecase.NewProrationUseCase()
	entUC := usecase.NewEntitlementUseCase(entRepo, logger)
	txUC := usecase.NewTransactionUseCase(txRepo, planRepo, entUC, txManager, notifier, cfg.Billing.PendingTTL, logger)
	ops := web.NewStaticDirectory(cfg.Admin.OperatorIDs)
	confirmUC := usecase.NewConfirmationUseCase(txUC, ops, logger)

	// ---- HTTP server ----
	auth := web.NewAuthManager(cfg.Admin.JWTSecret, !cfg.Runtime.Dev, "", cfg.Admin.SessionTTL)
	srv := web.NewServer(planRepo, entUC, quoteUC, txUC, confirmUC, auth, logger)
	server := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Admin.Port), Handler: srv.Router()}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Expiry worker ----
	expiry := sched.NewExpiryWorker(cfg.Billing.ExpirySweep, cfg.Billing.ExpiryBatchMax, txRepo, txUC, logger)
	go func() { _ = expiry.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown error")
	}
	wpool.Stop()
}
