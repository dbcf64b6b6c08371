package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"antenna/internal/catalog"
	"antenna/internal/logging"
	"antenna/internal/notifications"
	"antenna/internal/store"
	"antenna/internal/vavoo"
)

func newRefreshCommand(ctx *commandContext) *cobra.Command {
	var local bool

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Refresh the channel catalog",
		Long: "Refresh the channel catalog. Asks the running daemon to refresh; " +
			"when no daemon is reachable (or --local is set) the refresh runs " +
			"in-process against the store.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !local {
				done, err := refreshViaDaemon(cmd, ctx)
				if done {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Daemon not reachable, refreshing locally")
			}
			return refreshLocally(cmd, ctx)
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "Refresh in-process instead of asking the daemon")
	return cmd
}

// refreshViaDaemon posts to the daemon API. The bool reports whether the
// daemon handled the request (successfully or not); false means unreachable.
func refreshViaDaemon(cmd *cobra.Command, ctx *commandContext) (bool, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return true, err
	}
	base, err := ctx.apiBaseURL()
	if err != nil {
		return true, err
	}

	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPost, base+"/api/refresh", nil)
	if err != nil {
		return true, err
	}
	if cfg.Server.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.Server.APIToken)
	}

	// Refreshes walk the whole upstream catalog, which can take a while.
	client := &http.Client{Timeout: 10 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return true, fmt.Errorf("read refresh response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return true, fmt.Errorf("refresh failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var result struct {
		Total int `json:"total"`
		Kept  int `json:"kept"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return true, fmt.Errorf("decode refresh response: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Catalog refreshed: kept %d of %d channels\n", result.Kept, result.Total)
	return true, nil
}

func refreshLocally(cmd *cobra.Command, ctx *commandContext) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}

	st, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("open channel store: %w", err)
	}
	defer st.Close()

	client := vavoo.FromConfig(cfg)
	refresher, err := catalog.New(cfg, client, st, notifications.NewService(cfg), logging.NewNop())
	if err != nil {
		return fmt.Errorf("create refresher: %w", err)
	}

	result, err := refresher.RefreshNow(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Catalog refreshed: kept %d of %d channels\n", result.Kept, result.Total)
	return nil
}
