package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"antenna/internal/store"
)

func newChannelsCommand(ctx *commandContext) *cobra.Command {
	var genre string
	var category string
	var search string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "channels",
		Short: "List the stored channel catalog",
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

			channels, err := st.List(cmd.Context(), store.ListOptions{
				Genre:    genre,
				Category: category,
				Search:   search,
			})
			if err != nil {
				return fmt.Errorf("list channels: %w", err)
			}

			if jsonOutput {
				return writeJSON(cmd, channels)
			}

			if len(channels) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No channels stored. Run the daemon or `antenna refresh` first.")
				return nil
			}

			rows := make([][]string, 0, len(channels))
			for _, ch := range channels {
				rows = append(rows, []string{ch.ID, ch.CleanName, ch.Category, ch.Genre})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Name", "Category", "Genre"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			fmt.Fprintf(cmd.OutOrStdout(), "%d channels\n", len(channels))
			return nil
		},
	}

	cmd.Flags().StringVar(&genre, "genre", "", "Filter by addon genre (e.g. sports)")
	cmd.Flags().StringVar(&category, "category", "", "Filter by playlist category (e.g. RAI)")
	cmd.Flags().StringVar(&search, "search", "", "Filter by name substring")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit channels as JSON")
	return cmd
}
