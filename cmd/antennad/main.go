package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"antenna/internal/catalog"
	"antenna/internal/config"
	"antenna/internal/daemon"
	"antenna/internal/logging"
	"antenna/internal/notifications"
	"antenna/internal/store"
	"antenna/internal/vavoo"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("ensure directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	st, err := store.Open(cfg)
	if err != nil {
		logger.Error("open channel store", logging.Error(err))
		return
	}
	defer st.Close()

	client := vavoo.FromConfig(cfg)
	notifier := notifications.NewService(cfg)

	refresher, err := catalog.New(cfg, client, st, notifier, logger)
	if err != nil {
		logger.Error("create refresher", logging.Error(err))
		return
	}

	d, err := daemon.New(cfg, st, refresher, notifier, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		return
	}

	if err := d.Run(ctx); err != nil {
		logger.Error("daemon run", logging.Error(err))
		return
	}
	logger.Info("antennad shut down")
}
