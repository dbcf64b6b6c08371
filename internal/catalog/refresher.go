package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"antenna/internal/channel"
	"antenna/internal/config"
	"antenna/internal/logging"
	"antenna/internal/notifications"
	"antenna/internal/store"
	"antenna/internal/vavoo"
)

// ErrRefreshInProgress is returned when a refresh is requested while another
// one is still running.
var ErrRefreshInProgress = errors.New("catalog refresh already in progress")

// Source provides the upstream signature and channel listing. *vavoo.Client
// satisfies it; tests substitute fakes.
type Source interface {
	Signature(ctx context.Context) (string, error)
	Catalog(ctx context.Context, signature string) ([]vavoo.Item, error)
}

// Refresher periodically rebuilds the channel catalog from the upstream
// listing. A failed refresh leaves the previously stored catalog untouched.
type Refresher struct {
	source   Source
	store    *store.Store
	notifier notifications.Service
	logger   *slog.Logger

	curation channel.Curation
	interval time.Duration

	refreshing chan struct{}
}

// New builds a refresher from configuration. Curation override files are
// loaded once at construction; missing files fall back to the built-in lists.
func New(cfg *config.Config, source Source, st *store.Store, notifier notifications.Service, logger *slog.Logger) (*Refresher, error) {
	if cfg == nil || source == nil || st == nil {
		return nil, errors.New("refresher requires config, source, and store")
	}
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	curation, err := channel.LoadCuration(
		cfg.Catalog.FiltersFile,
		cfg.Catalog.RemovalsFile,
		cfg.Catalog.CategoriesFile,
		cfg.Catalog.IconsFile,
	)
	if err != nil {
		return nil, fmt.Errorf("load curation: %w", err)
	}

	interval := time.Duration(cfg.Catalog.RefreshInterval) * time.Second
	if interval <= 0 {
		interval = time.Hour
	}

	refreshing := make(chan struct{}, 1)
	refreshing <- struct{}{}

	return &Refresher{
		source:     source,
		store:      st,
		notifier:   notifier,
		logger:     logging.WithComponent(logger, "refresher"),
		curation:   curation,
		interval:   interval,
		refreshing: refreshing,
	}, nil
}

// Interval reports the configured refresh period.
func (r *Refresher) Interval() time.Duration {
	return r.interval
}

// Run refreshes immediately and then on every interval tick until ctx is
// cancelled. Refresh failures are logged and reported, never fatal: the
// previously stored catalog keeps serving.
func (r *Refresher) Run(ctx context.Context) error {
	r.refreshLogged(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.refreshLogged(ctx)
		}
	}
}

func (r *Refresher) refreshLogged(ctx context.Context) {
	result, err := r.RefreshNow(ctx)
	switch {
	case errors.Is(err, ErrRefreshInProgress):
		r.logger.Warn("skipping refresh, previous one still running")
	case err != nil:
		r.logger.Error("catalog refresh failed", logging.Error(err))
	default:
		r.logger.Info("catalog refreshed",
			slog.Int("total", result.Total),
			slog.Int("kept", result.Kept),
			slog.Duration("elapsed", result.FinishedAt.Sub(result.StartedAt)))
	}
}

// RefreshNow runs one refresh cycle: fetch the signature and listing, curate
// the channels, and transactionally replace the stored catalog. Only one
// refresh runs at a time; concurrent calls get ErrRefreshInProgress.
func (r *Refresher) RefreshNow(ctx context.Context) (store.Refresh, error) {
	select {
	case <-r.refreshing:
	default:
		return store.Refresh{}, ErrRefreshInProgress
	}
	defer func() { r.refreshing <- struct{}{} }()

	started := time.Now().UTC()
	refresh, err := r.refresh(ctx)
	refresh.StartedAt = started
	refresh.FinishedAt = time.Now().UTC()
	if err != nil {
		refresh.Err = err.Error()
	}

	if recordErr := r.store.RecordRefresh(ctx, refresh); recordErr != nil {
		r.logger.Warn("failed to record refresh", logging.Error(recordErr))
	}

	if err != nil {
		if notifyErr := r.notifier.RefreshFailed(ctx, err); notifyErr != nil {
			r.logger.Warn("refresh failure notification failed", logging.Error(notifyErr))
		}
		return refresh, err
	}
	if notifyErr := r.notifier.RefreshCompleted(ctx, refresh.Total, refresh.Kept, refresh.FinishedAt.Sub(refresh.StartedAt)); notifyErr != nil {
		r.logger.Warn("refresh notification failed", logging.Error(notifyErr))
	}
	return refresh, nil
}

// Refreshing reports whether a refresh cycle is currently running.
func (r *Refresher) Refreshing() bool {
	select {
	case token := <-r.refreshing:
		r.refreshing <- token
		return false
	default:
		return true
	}
}

func (r *Refresher) refresh(ctx context.Context) (store.Refresh, error) {
	signature, err := r.source.Signature(ctx)
	if err != nil {
		return store.Refresh{}, fmt.Errorf("fetch signature: %w", err)
	}

	items, err := r.source.Catalog(ctx, signature)
	if err != nil {
		return store.Refresh{}, fmt.Errorf("fetch catalog: %w", err)
	}

	icons := r.mergedIcons(ctx)

	channels := make([]channel.Channel, 0, len(items))
	for _, item := range items {
		if item.URL == "" || !r.curation.Keep(item.Name) {
			continue
		}
		category := r.curation.Categorize(item.Name)
		channels = append(channels, channel.Channel{
			ID:        channel.NewID(item.Name),
			Name:      item.Name,
			CleanName: channel.CleanName(item.Name),
			URL:       item.URL,
			Genre:     channel.GenreFor(category),
			Category:  category,
			Logo:      icons.Resolve(item.Name),
		})
	}

	if err := r.store.ReplaceChannels(ctx, channels); err != nil {
		return store.Refresh{}, fmt.Errorf("store channels: %w", err)
	}

	return store.Refresh{Total: len(items), Kept: len(channels)}, nil
}

// mergedIcons overlays file-configured icons on the persisted icon table and
// writes any new file entries back so they survive config changes.
func (r *Refresher) mergedIcons(ctx context.Context) channel.Icons {
	merged := channel.Icons{}
	stored, err := r.store.Icons(ctx)
	if err != nil {
		r.logger.Warn("failed to load stored icons", logging.Error(err))
	}
	for name, logo := range stored {
		merged[name] = logo
	}
	for name, logo := range r.curation.Icons {
		merged[name] = logo
	}
	if len(r.curation.Icons) > 0 {
		if err := r.store.UpsertIcons(ctx, r.curation.Icons); err != nil {
			r.logger.Warn("failed to persist icons", logging.Error(err))
		}
	}
	return merged
}
