package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coldcall_backend/internal/events"
	"coldcall_backend/internal/notify"
	"coldcall_backend/internal/scheduler"
	"coldcall_backend/platform/config"
	"coldcall_backend/platform/db"
	"coldcall_backend/platform/logger"
)

// The worker drains the reminder queue: it consumes scheduled tasks from
// Redis, re-checks each lead and publishes reminder events that the
// notifier turns into emails.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting reminder worker", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	poolCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	pool, err := db.NewPool(poolCtx, cfg)
	cancel()
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)

	var sender notify.Sender = notify.NoopSender{}
	if cfg.GetEmailEnabled() {
		sender = notify.NewSMTPSender(cfg)
		log.Info("email sender initialized", "host", cfg.SMTPHost)
	}
	notifier := notify.NewNotifier(sender, notify.NewDirectory(pool), log)
	notifier.Subscribe(eventBus)

	worker, err := scheduler.NewWorker(cfg, pool, eventBus, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
	log.Info("reminder worker stopped")
}
