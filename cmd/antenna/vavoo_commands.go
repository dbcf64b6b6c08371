package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"antenna/internal/vavoo"
)

func newSignatureCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "signature",
		Short: "Fetch a fresh Vavoo addon signature",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			client := vavoo.FromConfig(cfg)
			signature, err := client.Signature(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch signature: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), signature)
			return nil
		},
	}
}

type resolveResult struct {
	OriginalURL string `json:"original_url"`
	ResolvedURL string `json:"resolved_url,omitempty"`
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
}

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "resolve <url>",
		Short: "Resolve a Vavoo play link to its upstream stream URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			link := args[0]

			client := vavoo.FromConfig(cfg)
			result := resolveResult{OriginalURL: link}

			signature, err := client.Signature(cmd.Context())
			if err == nil {
				resolved, resolveErr := client.Resolve(cmd.Context(), signature, link)
				if resolveErr == nil {
					result.ResolvedURL = resolved
					result.Success = true
				} else {
					result.Error = resolveErr.Error()
				}
			} else {
				result.Error = err.Error()
			}

			if jsonOutput {
				return writeJSON(cmd, result)
			}
			if !result.Success {
				return fmt.Errorf("resolve %s: %s", link, result.Error)
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.ResolvedURL)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the resolution result as JSON")
	return cmd
}
