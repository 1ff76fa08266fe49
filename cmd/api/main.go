package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/emilythestrangee/stackit/backend/internal/config"
	"github.com/emilythestrangee/stackit/backend/internal/database"
	"github.com/emilythestrangee/stackit/backend/internal/handlers"
	"github.com/emilythestrangee/stackit/backend/internal/logging"
	"github.com/emilythestrangee/stackit/backend/internal/notify"
	"github.com/emilythestrangee/stackit/backend/internal/repository"
	"github.com/emilythestrangee/stackit/backend/internal/server"
	"github.com/emilythestrangee/stackit/backend/internal/voting"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(cfg.GinMode)

	db, err := database.New(cfg.Database, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	store := repository.New(db.GetDB())

	sinks := []voting.Notifier{notify.NewDBEmitter(store)}
	var publisher *notify.RedisPublisher
	if cfg.RedisURL != "" {
		publisher, err = notify.NewRedisPublisher(cfg.RedisURL, cfg.NotifyChannel)
		if err != nil {
			logger.WithError(err).Warn("Redis unavailable, notifications are stored only")
		} else {
			sinks = append(sinks, publisher)
			logger.WithField("channel", cfg.NotifyChannel).Info("Publishing notifications to Redis")
		}
	}
	notifier := notify.NewFanout(logger, sinks...)

	svc := voting.NewService(store, notifier, logger)
	handler := handlers.NewHandler(handlers.Deps{
		Store:    store,
		Voting:   svc,
		Notifier: notifier,
		Secret:   []byte(cfg.JWTSecret),
		TokenTTL: cfg.AccessTokenTTL,
		Logger:   logger,
	})

	srv, err := server.New(cfg, db, handler, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to build server")
	}
	httpServer := srv.HTTPServer()

	go func() {
		logger.WithField("addr", httpServer.Addr).Info("Server starting")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	logger.Info("Shutdown signal received, draining requests")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("HTTP server shutdown failed")
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.WithError(err).Warn("Closing Redis client failed")
		}
	}
	if err := db.Close(); err != nil {
		logger.WithError(err).Warn("Closing database failed")
	}
	logger.Info("Shutdown complete")
}
