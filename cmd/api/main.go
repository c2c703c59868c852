package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"savingsadmin/internal/config"
	"savingsadmin/internal/domain"
	"savingsadmin/internal/gateway/monnify"
	handler "savingsadmin/internal/handler/http"
	"savingsadmin/internal/logger"
	"savingsadmin/internal/port"
	"savingsadmin/internal/repository/memory"
	"savingsadmin/internal/repository/migration"
	"savingsadmin/internal/repository/postgresql"
	"savingsadmin/internal/service"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Init(cfg.Logger.LoggerLevel, cfg.Logger.Pretty)

	repos, locker, closeStore := openStore(cfg)
	defer closeStore()

	client := monnify.NewClient(monnify.Config{
		BaseURL:             cfg.Gateway.BaseURL,
		APIKey:              cfg.Gateway.APIKey,
		SecretKey:           cfg.Gateway.SecretKey,
		WalletAccountNumber: cfg.Gateway.WalletAccountNumber,
		Currency:            cfg.Gateway.Currency,
		Timeout:             cfg.Gateway.Timeout,
		TokenTTL:            cfg.Gateway.TokenTTL,
	})

	opts := service.Options{
		DefaultFees: domain.FeeSettings{
			CompletedPlanFeePercentage: decimal.NewFromFloat(cfg.Fees.DefaultCompletedPlanPercentage),
			BrokenPlanFeePercentage:    decimal.NewFromFloat(cfg.Fees.DefaultBrokenPlanPercentage),
		},
		SyncConcurrency: cfg.Sync.MaxConcurrency,
	}

	withdrawals := service.NewWithdrawalService(repos, locker, client, opts)
	contributions := service.NewContributionService(repos, locker, opts)
	fees := service.NewFeeService(repos.Fees, opts)
	savings := service.NewSavingsService(repos)

	router := handler.NewRouter(
		handler.NewWithdrawalHandler(withdrawals),
		handler.NewAdminHandler(savings, contributions, fees, client),
		cfg.Token.AuthToken,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("addr", srv.Addr).Str("storage", cfg.Storage.Driver).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func openStore(cfg *config.Config) (service.Repositories, port.Locker, func()) {
	if cfg.Storage.Driver == "memory" {
		logger.Warn().Msg("using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return service.Repositories{
			Withdrawals:  store.Withdrawals(),
			Savings:      store.Savings(),
			Transactions: store.Transactions(),
			Fees:         store.FeeSettings(),
		}, memory.NewLocker(), func() {}
	}

	db, err := sql.Open("postgres", cfg.DB.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}
	db.SetMaxOpenConns(cfg.DB.MaxOpenConnection)
	db.SetMaxIdleConns(cfg.DB.MaxIdleConnection)
	db.SetConnMaxLifetime(cfg.DB.ConnectionLifetime)

	if err := db.Ping(); err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	if cfg.DB.RunMigrations {
		if err := migration.RunMigrations(db); err != nil {
			logger.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	repos := service.Repositories{
		Withdrawals:  postgresql.NewWithdrawalRepository(db),
		Savings:      postgresql.NewSavingsRepository(db),
		Transactions: postgresql.NewTransactionRepository(db),
		Fees:         postgresql.NewFeeSettingsRepository(db),
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close database")
		}
	}
	return repos, postgresql.NewLocker(db), closeDB
}
