// Package main запускает HTTP-сервер сервиса GOODFOOD.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/goodfood/internal/auth"
	"github.com/mmeshcher/goodfood/internal/catalog"
	"github.com/mmeshcher/goodfood/internal/config"
	"github.com/mmeshcher/goodfood/internal/handler"
	"github.com/mmeshcher/goodfood/internal/metrics"
	"github.com/mmeshcher/goodfood/internal/middleware"
	"github.com/mmeshcher/goodfood/internal/service"
	"github.com/mmeshcher/goodfood/internal/session"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	// .env необязателен: в проде переменные задаёт окружение.
	_ = godotenv.Load()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	plans, err := catalog.Load()
	if err != nil {
		sugar.Fatalw("catalog initialization error", "error", err.Error())
	}

	store := session.NewStore(func() *session.Machine {
		return session.NewMachine(plans, session.WithFullLogoutReset(cfg.FullLogoutReset))
	}, logger)

	m := metrics.New(store.Len)
	svc := service.NewService(plans, auth.NewLocalAuthenticator(), m)

	if cfg.SessionSecret == "" {
		sugar.Warn("SESSION_SECRET is not set, sessions will not survive a restart")
	}
	sessions := middleware.NewSessionMiddleware(cfg.SessionSecret, store)

	h := handler.NewHandler(svc, logger, sessions,
		handler.WithMetrics(m),
		handler.WithAllowedOrigins(cfg.AllowedOrigins),
	)

	server := &http.Server{
		Addr:              cfg.RunAddress,
		Handler:           h.SetupRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Удаление простаивающих сессий
	g.Go(func() error {
		store.StartEviction(ctx, cfg.SessionTTL)
		return nil
	})

	// Запуск HTTP-сервера
	g.Go(func() error {
		sugar.Infow("starting goodfood server", "addr", cfg.RunAddress, "plans", len(plans.List()))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
