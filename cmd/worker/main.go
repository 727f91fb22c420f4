package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"thermalsim/cmd/app"
	"thermalsim/internal/jobs"
	"thermalsim/internal/logging"
	"thermalsim/internal/worker"
)

const (
	dbWaitAttempts = 30
	dbWaitInterval = 2 * time.Second
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "worker.yaml", "path to config file (.yaml/.yml/.json)")
	flag.Parse()

	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}
	logger := logging.New(cfg.Log.Path)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db, err := waitForDatabase(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Error("database not ready", "err", err)
		os.Exit(1)
	}
	store := jobs.NewStore(db)
	if err := store.Migrate(); err != nil {
		logger.Error("migrate", "err", err)
		os.Exit(1)
	}

	consumer, err := worker.New(store, worker.Config{
		URL:      cfg.Queue.URL,
		Queue:    cfg.Queue.Name,
		Prefetch: cfg.Queue.Prefetch,
	}, logger)
	if err != nil {
		logger.Error("build consumer", "err", err)
		os.Exit(1)
	}

	if err := consumer.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("consumer exited", "err", err)
		os.Exit(1)
	}
}

// waitForDatabase retries the connection so the worker can start before the
// database container finishes booting.
func waitForDatabase(ctx context.Context, dsn string) (db *gorm.DB, err error) {
	for attempt := 1; attempt <= dbWaitAttempts; attempt++ {
		db, err = jobs.Open(dsn)
		if err == nil {
			return db, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(dbWaitInterval):
		}
	}
	return nil, err
}
