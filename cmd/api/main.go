package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/contracts-service/internal/api/http"
	"github.com/spec-kit/contracts-service/internal/api/http/handlers"
	"github.com/spec-kit/contracts-service/internal/auth"
	"github.com/spec-kit/contracts-service/internal/config"
	"github.com/spec-kit/contracts-service/internal/events"
	"github.com/spec-kit/contracts-service/internal/observability"
	"github.com/spec-kit/contracts-service/internal/persistence"
	"github.com/spec-kit/contracts-service/internal/repository"
	"github.com/spec-kit/contracts-service/internal/service"
	"github.com/spec-kit/contracts-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	store := repository.NewPostgresStore(pg.PoolHandle(), cfg.Ledger.TxTimeout())
	profileCache := persistence.NewProfileCache(redis, time.Duration(cfg.Auth.ProfileCacheTTLSec)*time.Second)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	ledgerService := service.NewLedgerService(store, dispatcher, logger, metrics, cfg.Ledger)
	contractService := service.NewContractService(store, logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notify)
	cacheWorker := worker.NewBalanceCacheWorker(profileCache, logger)
	worker.StartWorkers(dispatcher, notificationService, cacheWorker)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	callerIdentity := auth.NewCallerIdentity(tokens, store, profileCache)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:           handlers.NewAuthHandler(tokens, store),
		Contracts:      handlers.NewContractsHandler(contractService),
		Jobs:           handlers.NewJobsHandler(contractService, ledgerService),
		Balances:       handlers.NewBalancesHandler(ledgerService),
		CallerIdentity: callerIdentity,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
