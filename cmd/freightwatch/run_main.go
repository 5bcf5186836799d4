package main

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/laneops/freightwatch/internal/application"
)

const summaryRounding = time.Millisecond

// buildConfig merges the optional config file with flag overrides.
func buildConfig(cmd *cobra.Command) (*application.Config, error) {
	cfg := application.DefaultConfig()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := application.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if v, _ := cmd.Flags().GetString("orders"); v != "" {
		cfg.Inputs.Orders = v
	}
	if v, _ := cmd.Flags().GetString("rates"); v != "" {
		cfg.Inputs.RateCard = v
	}
	if v, _ := cmd.Flags().GetString("capacity"); v != "" {
		cfg.Inputs.WarehouseCapacity = v
	}
	if v, _ := cmd.Flags().GetString("wh-cost"); v != "" {
		cfg.Inputs.WarehouseCost = v
	}
	if v, _ := cmd.Flags().GetString("out"); v != "" {
		cfg.OutputDir = v
	}
	if v, _ := cmd.Flags().GetInt64("seed"); v != 0 {
		cfg.Margin.Seed = v
	}
	if v, _ := cmd.Flags().GetInt("queue-capacity"); v != 0 {
		cfg.Queue.Capacity = v
	}

	if cfg.Inputs.Orders == "" || cfg.Inputs.RateCard == "" {
		return nil, fmt.Errorf("orders and rate card inputs are required (--orders, --rates, or a config file)")
	}
	return cfg, cfg.Validate()
}

func runPipeline(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	log.Info().
		Str("orders", cfg.Inputs.Orders).
		Str("rate_card", cfg.Inputs.RateCard).
		Str("out", cfg.OutputDir).
		Msg("starting pipeline run")

	pipeline := application.NewPipeline(cfg, version, nil)
	summary, err := pipeline.Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("%s run %s: %d orders (%d matched, %d unmatched), %d exceptions, %d margin groups, %d nodes in %s\n",
		appName, summary.RunID, summary.Orders, summary.MatchedOrders, summary.Unmatched,
		summary.Exceptions, summary.MarginGroups, summary.InventoryNodes, summary.Duration.Round(summaryRounding))
	return nil
}
