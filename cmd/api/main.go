package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fastprodman/storefront/internal/api"
	"github.com/fastprodman/storefront/internal/clients/binance"
	"github.com/fastprodman/storefront/internal/config"
	"github.com/fastprodman/storefront/internal/infra/logging"
	"github.com/fastprodman/storefront/internal/infra/pgutils"
	"github.com/fastprodman/storefront/internal/infra/redislock"
	pgnotifications "github.com/fastprodman/storefront/internal/repos/notifications/postgres"
	"github.com/fastprodman/storefront/internal/services/balance"
	"github.com/fastprodman/storefront/internal/services/notify"
	"github.com/fastprodman/storefront/internal/services/purchase"
	"github.com/fastprodman/storefront/internal/services/stock"
	"github.com/fastprodman/storefront/internal/services/topup"
	"github.com/fastprodman/storefront/pkg/shutdownqueue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v\n", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context) (retErr error) {
	cfg := new(apiConfig)

	err := config.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logging.SetupJSON(cfg.Log.Level)

	shutdown := shutdownqueue.New()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		serr := shutdown.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Infra ---
	db, err := pgutils.OpenDB(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	shutdown.Add("postgres", func(context.Context) error {
		return db.Close()
	})

	var guard topup.ReferenceGuard = redislock.Noop{}

	if cfg.Redis.Enabled() {
		rdb, err := redislock.NewClient(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}

		shutdown.Add("redis", func(context.Context) error {
			return rdb.Close()
		})

		guard = redislock.New(rdb, cfg.Redis.LockTTL)
	} else {
		slog.Warn("REDIS_ADDR not set, top-up references are guarded by the database only")
	}

	if cfg.Binance.APIKey == "" || cfg.Binance.SecretKey == "" {
		slog.Warn("Binance credentials not set, every Binance top-up will wait for an admin")
	}

	// --- Services ---
	notifier := notify.New(pgnotifications.New(db))

	handler := api.NewHandler(api.Services{
		Purchases:     purchase.New(db, notifier, cfg.Server.MaxPurchaseQty),
		TopUps:        topup.New(db, binance.New(cfg.Binance), guard, notifier),
		Stock:         stock.New(db),
		Balance:       balance.New(db, notifier),
		Notifications: notifier,
	})

	// --- HTTP server ---
	srv := api.NewServer(cfg.Server, api.NewRouter(handler, cfg.Server))

	shutdown.Add("http server", func(c context.Context) error {
		slog.Info("Shut down server")

		return srv.Shutdown(c)
	})

	errCh := make(chan error, 1)

	go func() {
		serr := srv.ListenAndServe()
		// http.ErrServerClosed is the normal path during Shutdown
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
			return
		}

		errCh <- nil
	}()

	slog.Info("API started", "port", cfg.Server.Port)

	select {
	case <-ctx.Done():
		return nil
	case serr := <-errCh:
		if serr != nil {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	}
}
