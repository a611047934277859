package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/somah-market/backend/internal/config"
	"github.com/somah-market/backend/internal/env"
	"github.com/somah-market/backend/internal/notify"
	"github.com/somah-market/backend/internal/repository"
	"github.com/somah-market/backend/internal/server"
	"github.com/somah-market/backend/internal/service"
)

func main() {
	env.Load(".env", ".env.local")
	envDefaults := config.EnvDefaults()

	envName := flag.String("env", envDefaults.Env, "")
	port := flag.Int("port", envDefaults.Port, "")
	databaseURL := flag.String("database-url", envDefaults.DatabaseURL, "")
	jwtSecret := flag.String("jwt-secret", envDefaults.JWTSecret, "")
	logJSON := flag.Bool("log-json", envDefaults.LogJSON, "")
	flag.Parse()

	cfg := envDefaults
	cfg.Env = *envName
	cfg.Port = *port
	cfg.DatabaseURL = *databaseURL
	cfg.JWTSecret = *jwtSecret
	cfg.LogJSON = *logJSON

	logger := newLogger(cfg.LogJSON)

	if err := run(cfg, logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func newLogger(jsonOut bool) *slog.Logger {
	var handler slog.Handler
	if jsonOut {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	return slog.New(handler)
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.JWTSecret == "" {
		return errors.New("jwt secret is required")
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("pgxpool.New: %w", err)
	}
	defer pool.Close()

	if err := repository.InitSchema(ctx, pool); err != nil {
		return fmt.Errorf("repository.InitSchema: %w", err)
	}

	users := repository.NewUser(pool)
	stores := repository.NewStore(pool)
	products := repository.NewProduct(pool)
	carts := repository.NewCart(pool)
	orders := repository.NewOrder(pool)
	notifications := repository.NewNotification(pool)

	auth := service.NewAuth(users, cfg.JWTSecret)
	orderSvc := service.NewOrder(orders, carts, products, stores, logger.With("component", "orders"))

	formatter := notify.NewFormatter(stores)

	if cfg.TelegramToken != "" {
		assigner := notify.NewAssigner(orders, formatter)
		channel, err := notify.NewTelegramChannel(cfg.TelegramToken, cfg.TelegramChatID,
			cfg.Handlers, assigner, logger.With("component", "telegram"))
		if err != nil {
			return fmt.Errorf("notify.NewTelegramChannel: %w", err)
		}

		dispatcher := notify.NewDispatcher(notifications, orders, formatter, channel,
			logger.With("component", "dispatcher"))

		go channel.Run(ctx)
		go dispatcher.Run(ctx)
	} else {
		logger.Warn("telegram token not set, order notifications disabled")
	}

	srv := server.New(cfg, server.Deps{
		Auth:      auth,
		Orders:    orderSvc,
		Users:     users,
		Stores:    stores,
		Products:  products,
		Carts:     carts,
		OrderRepo: orders,
		Logger:    logger.With("component", "http"),
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: srv.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", httpServer.Addr, "env", cfg.Env)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("httpServer.ListenAndServe: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("httpServer.Shutdown: %w", err)
	}

	return nil
}
