package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fleetpanel/fleetpanel-go/internal/config"
	"github.com/fleetpanel/fleetpanel-go/internal/handler"
	"github.com/fleetpanel/fleetpanel-go/internal/repository"
	"github.com/fleetpanel/fleetpanel-go/internal/session"
	"github.com/fleetpanel/fleetpanel-go/internal/token"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()
	slog.SetDefault(newLogger(cfg))

	appCtx, stopApp := context.WithCancel(context.Background())
	defer stopApp()

	r := handler.NewRouter(appCtx, handler.RouterConfig{
		Backend: repository.NewClient(cfg.BackendURL, cfg.BackendTimeout),
		Codec:   token.NewCodec(nil),
		Cookies: session.CookieOptions{
			TTL:    cfg.SessionTTL,
			Secure: cfg.CookieSecure,
		},
		LoginRateRPS:   cfg.LoginRateRPS,
		LoginRateBurst: cfg.LoginRateBurst,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "backend", cfg.BackendURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	stopApp()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

func newLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.Env == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
