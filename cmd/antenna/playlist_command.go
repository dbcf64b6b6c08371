package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"antenna/internal/playlist"
	"antenna/internal/store"
)

func newPlaylistCommand(ctx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "playlist",
		Short: "Write the catalog as an M3U8 playlist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			st, err := store.Open(cfg)
			if err != nil {
				return fmt.Errorf("open channel store: %w", err)
			}
			defer st.Close()

			channels, err := st.List(cmd.Context(), store.ListOptions{})
			if err != nil {
				return fmt.Errorf("list channels: %w", err)
			}

			out := cmd.OutOrStdout()
			if outputPath != "" {
				file, err := os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("create playlist file: %w", err)
				}
				defer file.Close()
				out = file
			}
			if err := playlist.Write(out, channels, cfg.Catalog.EPGURL); err != nil {
				return err
			}
			if outputPath != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d channels to %s\n", len(channels), outputPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the playlist to a file instead of stdout")
	return cmd
}
