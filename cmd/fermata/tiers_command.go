package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newTiersCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tiers",
		Short: "Show the configured quality ladder",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(cfg.Downloader.Tiers))
			for i, tier := range cfg.Downloader.Tiers {
				role := ""
				if i == len(cfg.Downloader.Tiers)-1 {
					role = "transcode fallback"
				}
				rows = append(rows, []string{strconv.Itoa(i + 1), tier.Label, tier.Quality, role})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Label", "Quality", "Role"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft},
			))
			fmt.Fprintf(out, "Size budget: %d MiB (margin %d MiB, transcode bitrate %s)\n",
				cfg.Delivery.SizeBudgetMiB, cfg.Delivery.SafetyMarginMiB, cfg.Delivery.TranscodeBitrate)
			return nil
		},
	}
}
