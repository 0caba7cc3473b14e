package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"fermata/internal/services"
	"fermata/internal/services/audd"
)

func newRecognizeCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "recognize FILE",
		Short: "Identify a local audio file via the AudD recognition API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			opts := []audd.Option{}
			if cfg.Recognition.BaseURL != "" {
				opts = append(opts, audd.WithBaseURL(cfg.Recognition.BaseURL))
			}
			if cfg.Recognition.TimeoutSeconds > 0 {
				opts = append(opts, audd.WithTimeout(time.Duration(cfg.Recognition.TimeoutSeconds)*time.Second))
			}
			client, err := audd.New(cfg.Recognition.APIToken, opts...)
			if err != nil {
				return err
			}

			result, err := client.Recognize(cmd.Context(), args[0])
			if err != nil {
				if errors.Is(err, services.ErrNotFound) {
					fmt.Fprintln(cmd.OutOrStdout(), "No match found")
					return nil
				}
				return err
			}

			rows := [][]string{
				{"Artist", result.Artist},
				{"Title", result.Title},
				{"Album", result.Album},
				{"Released", result.ReleaseDate},
			}
			if result.Label != "" {
				rows = append(rows, []string{"Label", result.Label})
			}
			if result.ISRC != "" {
				rows = append(rows, []string{"ISRC", result.ISRC})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, nil))
			return nil
		},
	}
}
