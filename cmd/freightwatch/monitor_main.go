package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/laneops/freightwatch/internal/application"
	"github.com/laneops/freightwatch/internal/metrics"
)

func runMonitor(cmd *cobra.Command, _ []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	configPath, _ := cmd.Flags().GetString("config")
	interval, _ := cmd.Flags().GetDuration("watch-interval")

	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid --addr %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("invalid port in --addr %q: %w", addr, err)
	}

	registry := metrics.NewRegistry()
	srvCfg := metrics.DefaultServerConfig()
	srvCfg.Host = host
	srvCfg.Port = port
	server := metrics.NewServer(srvCfg, registry, version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if interval > 0 {
		if configPath == "" {
			return fmt.Errorf("--watch-interval requires --config")
		}
		cfg, err := application.LoadConfig(configPath)
		if err != nil {
			return err
		}
		go watchLoop(ctx, cfg, registry, interval)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("monitor shutdown failed")
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// watchLoop re-runs the pipeline on a fixed interval so the metrics endpoint
// reflects fresh snapshots. Each run is still a complete, independent batch.
func watchLoop(ctx context.Context, cfg *application.Config, registry *metrics.Registry, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	run := func() {
		pipeline := application.NewPipeline(cfg, version, registry)
		if _, err := pipeline.Run(ctx); err != nil {
			log.Error().Err(err).Msg("scheduled pipeline run failed")
		}
	}

	run()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			run()
		}
	}
}
