package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type daemonStatus struct {
	Running         bool   `json:"running"`
	PID             int    `json:"pid"`
	DatabasePath    string `json:"database_path"`
	LockFilePath    string `json:"lock_file_path"`
	Refreshing      bool   `json:"refreshing"`
	RefreshInterval string `json:"refresh_interval"`
	ChannelCount    int    `json:"channel_count"`
	LastRefresh     *struct {
		StartedAt  time.Time `json:"started_at"`
		FinishedAt time.Time `json:"finished_at"`
		Total      int       `json:"total"`
		Kept       int       `json:"kept"`
		Error      string    `json:"error,omitempty"`
	} `json:"last_refresh,omitempty"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.apiBaseURL()
			if err != nil {
				return err
			}

			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, base+"/api/status", nil)
			if err != nil {
				return err
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return fmt.Errorf("daemon is not reachable at %s: %w", base, err)
			}
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("read status response: %w", err)
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("status request failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
			}

			var status daemonStatus
			if err := json.Unmarshal(body, &status); err != nil {
				return fmt.Errorf("decode status response: %w", err)
			}

			if jsonOutput {
				return writeJSON(cmd, status)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Running:          %t (pid %d)\n", status.Running, status.PID)
			fmt.Fprintf(out, "Channels:         %d\n", status.ChannelCount)
			fmt.Fprintf(out, "Refreshing:       %t\n", status.Refreshing)
			fmt.Fprintf(out, "Refresh interval: %s\n", status.RefreshInterval)
			fmt.Fprintf(out, "Database:         %s\n", status.DatabasePath)
			fmt.Fprintf(out, "Lock file:        %s\n", status.LockFilePath)
			if last := status.LastRefresh; last != nil {
				fmt.Fprintf(out, "Last refresh:     %s (kept %d of %d)\n",
					last.FinishedAt.Local().Format(time.RFC1123), last.Kept, last.Total)
				if last.Error != "" {
					fmt.Fprintf(out, "Last error:       %s\n", last.Error)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit status as JSON")
	return cmd
}
