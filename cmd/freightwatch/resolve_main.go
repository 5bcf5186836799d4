package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/laneops/freightwatch/internal/domain/rate"
	"github.com/laneops/freightwatch/internal/ingest"
	"github.com/laneops/freightwatch/internal/report"
)

func runResolve(cmd *cobra.Command, _ []string) error {
	ordersPath, _ := cmd.Flags().GetString("orders")
	ratesPath, _ := cmd.Flags().GetString("rates")
	outDir, _ := cmd.Flags().GetString("out")
	if ordersPath == "" || ratesPath == "" {
		return fmt.Errorf("--orders and --rates are required")
	}

	orders, err := ingest.LoadOrders(ordersPath)
	if err != nil {
		return err
	}
	card, err := ingest.LoadRateCard(ratesPath)
	if err != nil {
		return err
	}

	resolved := rate.NewResolver().Resolve(orders, card)
	if err := report.WriteCostEstimatedOrders(outDir, resolved); err != nil {
		return err
	}

	matched := 0
	for _, o := range resolved {
		if o.MatchedBandOK {
			matched++
		}
	}
	fmt.Printf("resolved %d orders (%d matched, %d unmatched) to %s\n",
		len(resolved), matched, len(resolved)-matched, outDir)
	return nil
}
