package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notification_janitor/internal/app"
	"notification_janitor/internal/infra/config"
	idb "notification_janitor/internal/infra/database"
	"notification_janitor/internal/infra/logger"
	"notification_janitor/internal/infra/scheduler"
	"notification_janitor/internal/infra/telegram"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("Could not load application configuration: %v", err)
	}

	logger.Init(cfg)
	mainLogger := logger.Component("main")
	mainLogger.Infof("Configuration loaded. Environment: %s, Driver: %s, Retention: %s, Schedule: %q (%s)",
		cfg.Environment, cfg.DatabaseDriver, cfg.RetentionWindow, cfg.CronSpecRetention, cfg.SchedulerLocation)

	// Initialize Database Connection
	db, err := idb.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		mainLogger.Fatalf("Could not connect to database: %v", err)
	}
	defer db.Close()
	mainLogger.Info("Database connection established successfully.")

	notificationRepo := idb.NewSQLNotificationRepository(db)

	retentionService, err := app.NewRetentionService(notificationRepo, cfg.RetentionWindow)
	if err != nil {
		mainLogger.Fatalf("Could not create retention service: %v", err)
	}

	var reporter app.OutcomeReporter
	if cfg.AlertsEnabled() {
		adapter, err := telegram.NewTelebotAdapter(cfg.TelegramToken)
		if err != nil {
			mainLogger.Fatalf("Could not initialize Telegram alerts: %v", err)
		}
		reporter = telegram.NewAlertReporter(adapter, cfg.AdminTelegramID, logger.Component("alerts"))
		mainLogger.Info("Telegram failure alerts enabled.")
	}

	retentionJob := scheduler.NewRetentionJob(retentionService, reporter, cfg.RetentionTimeout, logger.Component("retention"))

	jobScheduler := scheduler.New(logger.Component("scheduler"), cfg.SchedulerLocation)
	if err := retentionJob.Register(jobScheduler, cfg.CronSpecRetention); err != nil {
		mainLogger.Fatalf("Could not schedule retention job: %v", err)
	}
	jobScheduler.Start()

	if next, err := jobScheduler.Next(scheduler.RetentionJobName); err == nil {
		mainLogger.Infof("Next retention run at %s", next.Format(time.RFC3339))
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received

	mainLogger.Info("Shutting down application...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := jobScheduler.Stop(ctx); err != nil {
		mainLogger.Warnf("Scheduler did not stop cleanly: %v", err)
	}
	mainLogger.Info("Application shut down gracefully.")
}
