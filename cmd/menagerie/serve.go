package main

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/spf13/cobra"

	"menagerie/internal/adapters/animals"
	"menagerie/internal/config"
	"menagerie/internal/core"
	"menagerie/internal/server"
)

// The Prometheus collectors live in the default registry, which accepts each
// name once per process.
var promRecorder = sync.OnceValue(func() *core.PrometheusMetricsRecorder {
	return core.NewPrometheusMetricsRecorder(nil)
})

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server (default command)",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listening port (overrides PORT and the config file)")
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(opts.configPath)
		if err != nil {
			return err
		}
		if port > 0 {
			cfg.Server.Port = port
		}
		logger := server.NewLogger(cfg.Log.Level, cfg.Log.Format, opts.stderr)
		slog.SetDefault(logger)
		return serve(cmd, cfg, logger, opts.stdout, opts.stderr)
	}
	return cmd
}

func serve(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, stdout, stderr io.Writer) error {
	ctx := cmd.Context()

	storeOpts := []core.Option{
		core.WithLogger(logger),
		core.WithSeedPath(cfg.Storage.SeedPath),
	}
	if cfg.Metrics.Enabled {
		expvarRec := core.NewExpvarMetricsRecorder(cfg.Metrics.ExpvarName)
		storeOpts = append(storeOpts, core.WithMetricsRecorder(core.MultiMetricsRecorder{expvarRec, promRecorder()}))
	}
	if cfg.Trace.Enabled {
		storeOpts = append(storeOpts, core.WithTracer(core.NewJSONTracer(stderr)))
	}

	backend, err := core.OpenBackend(ctx, cfg.StorageOptions())
	if err != nil {
		logger.Error("open storage failed", "driver", cfg.Storage.Driver, "error", err)
		return fmt.Errorf("open storage: %w", err)
	}
	store, err := core.Open(ctx, backend, storeOpts...)
	if err != nil {
		_ = backend.Close()
		logger.Error("load animals failed", "driver", cfg.Storage.Driver, "error", err)
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("close storage", "error", err)
		}
	}()

	handler := animals.NewHandler(store, logger)
	handler.MaxBodyBytes = cfg.Server.MaxBodyBytes

	return server.Run(ctx, cfg.ServerConfig(version),
		server.WithLogger(logger),
		server.WithReadiness(store.Ready),
		server.WithRoutes(handler.Register),
		server.WithBanner(stdout),
	)
}
