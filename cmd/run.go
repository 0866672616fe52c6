package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpapi "github.com/affistats/insights-manager/internal/api/http"
	"github.com/affistats/insights-manager/config"
	"github.com/affistats/insights-manager/internal/entity"
	"github.com/affistats/insights-manager/internal/provider"
	"github.com/affistats/insights-manager/internal/provider/bigquery"
	"github.com/affistats/insights-manager/internal/provider/clickhouse"
	"github.com/affistats/insights-manager/internal/provider/sheets"
	"github.com/affistats/insights-manager/internal/service"
	"github.com/affistats/insights-manager/log"
)

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("cannot load a config %v", err.Error())
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := log.New(cfg.Logger)
	slog.SetDefault(logger)

	registry := provider.NewRegistry()
	registry.Register(entity.ProviderGoogleSheets, sheets.New)
	registry.Register(entity.ProviderBigQuery, bigquery.New)
	registry.Register(entity.ProviderClickHouse, clickhouse.New)

	analytics := service.New(provider.NewFactory(registry))

	// Optional provider bootstrap from config; a failure is logged but the
	// service still starts so the settings API can fix it.
	if cfg.Provider.Type != "" && cfg.Provider.Enabled {
		res := analytics.SetDataProvider(ctx, cfg.Provider)
		if !res.Success {
			logger.With("message", res.Message).Warn("bootstrap provider not connected")
		}
	}

	srv := httpapi.New(&cfg.HTTP, analytics)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("cannot start the http server %v", err.Error())
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	select {
	case s := <-sigCh:
		logger.With("signal", s.String()).Warn("signal received, exiting")
		srv.Stop(ctx)
		logger.Info("application exited")
	case <-srv.Done():
		logger.Error("application exited")
	}

	return nil
}
