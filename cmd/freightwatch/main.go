package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	appName = "FreightWatch"
	version = "v1.4.0"
)

func main() {
	setupLogging()

	rootCmd := &cobra.Command{
		Use:     "freightwatch",
		Short:   "Freight control-tower batch pipeline",
		Version: version,
		Long: `FreightWatch resolves shipment orders against a freight rate card and derives
risk scores, a prioritized exception queue, and margin/inventory risk proxy
tables from a single snapshot of tabular inputs.`,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline",
		Long:  "Ingest orders, rate card, and warehouse tables; write every derived table plus a run manifest",
		RunE:  runPipeline,
	}
	runCmd.Flags().String("config", "", "YAML config file (flags override it)")
	runCmd.Flags().String("orders", "", "Orders CSV path")
	runCmd.Flags().String("rates", "", "Rate card CSV path")
	runCmd.Flags().String("capacity", "", "Warehouse capacity CSV path (optional)")
	runCmd.Flags().String("wh-cost", "", "Warehouse cost CSV path (optional)")
	runCmd.Flags().String("out", "", "Output directory for derived tables")
	runCmd.Flags().Int64("seed", 0, "Margin table seed (0 keeps the configured seed)")
	runCmd.Flags().Int("queue-capacity", 0, "Exception queue cap (0 keeps the configured cap)")

	resolveCmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve rates only",
		Long:  "Match orders against the rate card and write the cost-estimated orders table, skipping scoring",
		RunE:  runResolve,
	}
	resolveCmd.Flags().String("orders", "", "Orders CSV path")
	resolveCmd.Flags().String("rates", "", "Rate card CSV path")
	resolveCmd.Flags().String("out", "out/analytics", "Output directory")

	monitorCmd := &cobra.Command{
		Use:   "monitor",
		Short: "Start the monitoring HTTP server",
		Long:  "Serves /health and /metrics; run pipelines from the same process via --watch-interval",
		RunE:  runMonitor,
	}
	monitorCmd.Flags().String("addr", "127.0.0.1:8090", "Listen address")
	monitorCmd.Flags().String("config", "", "YAML config file for scheduled runs")
	monitorCmd.Flags().Duration("watch-interval", 0, "Re-run the pipeline at this interval (0 disables)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(monitorCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// setupLogging routes pretty console output to terminals and JSON everywhere
// else.
func setupLogging() {
	zerolog.TimeFieldFormat = time.RFC3339
	if term.IsTerminal(int(os.Stderr.Fd())) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
