package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/sudo-init-do/talktrade/internal/alerts"
	"github.com/sudo-init-do/talktrade/internal/api"
	"github.com/sudo-init-do/talktrade/internal/auth"
	"github.com/sudo-init-do/talktrade/internal/config"
	"github.com/sudo-init-do/talktrade/internal/logger"
	"github.com/sudo-init-do/talktrade/internal/marketplace"
	"github.com/sudo-init-do/talktrade/internal/messaging"
	mware "github.com/sudo-init-do/talktrade/internal/middleware"
	"github.com/sudo-init-do/talktrade/internal/store"
)

func main() {
	cfg := config.Load()
	logger.Setup(cfg.IsProduction())

	ctx := context.Background()
	st, err := store.Open(ctx, cfg)
	if err != nil {
		logger.Error("failed to open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	hub := messaging.NewHub()
	notifiers := marketplace.Notifiers{hub}

	// Email alerts go through asynq on the same Redis the store may use
	if cfg.AlertsEnabled {
		redisOpt := asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}
		queue := asynq.NewClient(redisOpt)
		defer queue.Close()
		notifiers = append(notifiers, alerts.NewNotifier(queue, cfg.AppURL))

		worker := alerts.NewWorker(redisOpt, alerts.NewMailer(cfg))
		if err := worker.Start(); err != nil {
			logger.Error("failed to start alerts worker", "error", err)
			os.Exit(1)
		}
		defer worker.Shutdown()
	}

	data := marketplace.NewLocal(st,
		marketplace.WithNotifier(notifiers),
		marketplace.WithAdminPassword(cfg.AdminPassword),
	)
	if err := data.Bootstrap(ctx); err != nil {
		logger.Error("failed to bootstrap data", "error", err)
		os.Exit(1)
	}

	e := echo.New()
	e.HideBanner = true

	// Basic middleware
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORS())
	e.Use(mware.Metrics())

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "service": "talktrade"})
	})
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	api.New(data, tokens, hub).Routes(e, api.Options{AuthRateLimit: cfg.AuthRateLimit})

	go func() {
		logger.Info("api server listening", "port", cfg.Port, "store", cfg.StoreDriver, "alerts", strconv.FormatBool(cfg.AlertsEnabled))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}
