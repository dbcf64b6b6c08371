package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"log/slog"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"antenna/internal/catalog"
	"antenna/internal/config"
	"antenna/internal/logging"
	"antenna/internal/notifications"
	"antenna/internal/store"
)

// Daemon owns the catalog store, the background refresher, and the HTTP
// server, and enforces single-instance execution through a lock file.
type Daemon struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *store.Store
	refresher *catalog.Refresher
	notifier  notifications.Service
	api       *apiServer

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
	group   *errgroup.Group
}

// Status represents daemon runtime information.
type Status struct {
	Running         bool
	PID             int
	DatabasePath    string
	LockFilePath    string
	Refreshing      bool
	RefreshInterval time.Duration
	ChannelCount    int
	LastRefresh     *store.Refresh
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, st *store.Store, refresher *catalog.Refresher, notifier notifications.Service, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || st == nil || refresher == nil || logger == nil {
		return nil, errors.New("daemon requires config, store, refresher, and logger")
	}
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}

	lockPath := cfg.LockFilePath()
	d := &Daemon{
		cfg:       cfg,
		logger:    logger,
		store:     st,
		refresher: refresher,
		notifier:  notifier,
		lockPath:  lockPath,
		lock:      flock.New(lockPath),
	}
	api, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.api = api
	return d, nil
}

// Start acquires the daemon lock and launches the HTTP server and the
// background refresher.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another antenna daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	group, groupCtx := errgroup.WithContext(runCtx)

	if err := d.api.start(groupCtx); err != nil {
		cancel()
		_ = d.lock.Unlock()
		return err
	}
	group.Go(func() error {
		return d.refresher.Run(groupCtx)
	})

	d.cancel = cancel
	d.group = group
	d.running.Store(true)
	d.logger.Info("antenna daemon started",
		logging.String("lock", d.lockPath),
		logging.String("bind", d.cfg.Server.Bind))
	return nil
}

// Stop shuts down background processing and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
	}
	if d.group != nil {
		if err := d.group.Wait(); err != nil {
			d.logger.Warn("background worker exited with error", logging.Error(err))
		}
	}
	d.api.stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.cancel = nil
	d.group = nil
	d.logger.Info("antenna daemon stopped")
}

// Run starts the daemon and blocks until ctx is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	d.Stop()
	return nil
}

// Addr reports the bound listener address, for tests that bind port 0.
func (d *Daemon) Addr() string {
	return d.api.addr()
}

// Status reports runtime information about the daemon and its catalog.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:         d.running.Load(),
		PID:             os.Getpid(),
		DatabasePath:    d.store.Path(),
		LockFilePath:    d.lockPath,
		Refreshing:      d.refresher.Refreshing(),
		RefreshInterval: d.refresher.Interval(),
	}
	if count, err := d.store.Count(ctx); err == nil {
		status.ChannelCount = count
	}
	if last, err := d.store.LastRefresh(ctx); err == nil {
		status.LastRefresh = last
	}
	return status
}
