package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"antenna/internal/catalog"
	"antenna/internal/daemon"
	"antenna/internal/logging"
	"antenna/internal/notifications"
	"antenna/internal/store"
	"antenna/internal/vavoo"
)

func newDaemonRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon-run",
		Short: "Run the antenna daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemonProcess(cmd.Context(), ctx)
		},
	}
}

func runDaemonProcess(cmdCtx context.Context, ctx *commandContext) error {
	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	st, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("open channel store: %w", err)
	}
	defer st.Close()

	client := vavoo.FromConfig(cfg)
	notifier := notifications.NewService(cfg)

	refresher, err := catalog.New(cfg, client, st, notifier, logger)
	if err != nil {
		return fmt.Errorf("create refresher: %w", err)
	}

	d, err := daemon.New(cfg, st, refresher, notifier, logger)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	return d.Run(signalCtx)
}
