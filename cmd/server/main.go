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

	"shifty/server/config"
	"shifty/server/internal/api"
	"shifty/server/internal/database"
	"shifty/server/internal/geometry"
	"shifty/server/internal/matching"
	"shifty/server/internal/payments"
	"shifty/server/internal/pricing"
	"shifty/server/internal/processor"
	"shifty/server/internal/queue"
	"shifty/server/internal/scheduler"
	"shifty/server/internal/telegram"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.WithField("log_level", cfg.LogLevel).Warn("Unknown log level, using info")
	}

	if cfg.Catalog.ListingsPath != "" {
		if err := config.LoadListings(cfg.Catalog.ListingsPath); err != nil {
			logger.WithError(err).Fatal("Failed to load listings")
		}
		logger.WithField("path", cfg.Catalog.ListingsPath).Info("Loaded listings catalog")
	}

	weights := pricing.DefaultWeights()
	if cfg.Pricing.WeightsPath != "" {
		weights, err = pricing.LoadWeights(cfg.Pricing.WeightsPath)
		if err != nil {
			logger.WithError(err).Error("Failed to load pricing weights, using defaults")
		}
	}

	logger.Infof("Using database at: %s", cfg.Database.Path)
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}

	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	notifier := telegram.NewService(telegram.Config{
		Enabled:  cfg.Telegram.Enabled,
		BotToken: cfg.Telegram.BotToken,
		ChatID:   cfg.Telegram.ChatID,
	}, logger)

	eventQueue := queue.NewEventQueue(cfg.Webhooks.QueueSize, logger)
	eventProcessor := processor.NewBatchProcessor(db.GetDB(), eventQueue, cfg, notifier, logger)
	eventProcessor.Start()

	sweeper := scheduler.NewScheduler(
		db,
		time.Duration(cfg.Payments.IntentTTL)*time.Minute,
		time.Duration(cfg.Payments.SweepInterval)*time.Second,
		logger,
	)
	sweeper.Start()

	handler := api.NewHandler(
		pricing.NewEstimator(weights),
		matching.NewRanker(time.Now),
		geometry.NewServiceArea(config.CampusNodes),
		payments.NewService(db, eventQueue, cfg.Payments.MinAmount, logger),
		logger,
	)

	gin.SetMode(cfg.Server.Mode)
	router := api.NewRouter(handler, cfg.Server.AllowedOrigins, logger)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Infof("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	sweeper.Stop()
	// Closes the queue after draining it
	eventProcessor.Stop()

	if err := db.Close(); err != nil {
		logger.WithError(err).Error("Failed to close database")
	}

	logger.Info("Server exited")
}
