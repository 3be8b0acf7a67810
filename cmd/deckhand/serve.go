package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mohammad-safakhou/deckhand/config"
	"github.com/mohammad-safakhou/deckhand/internal/deck"
	"github.com/mohammad-safakhou/deckhand/internal/host"
	"github.com/mohammad-safakhou/deckhand/internal/host/comhost"
	"github.com/mohammad-safakhou/deckhand/internal/host/memhost"
	"github.com/mohammad-safakhou/deckhand/internal/ledger"
	"github.com/mohammad-safakhou/deckhand/internal/runtime"
	"github.com/mohammad-safakhou/deckhand/internal/server"
	"github.com/mohammad-safakhou/deckhand/mcp"
)

func serveCMD(opts *rootOptions) *cobra.Command {
	var transport, addr string
	var serve = &cobra.Command{
		Use:   "serve",
		Short: "Serve the presentation tools over stdio and/or HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if transport != "" {
				cfg.Server.Transport = transport
			}
			if addr != "" {
				cfg.Server.Address = addr
			}
			cfg.Normalize()
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, opts.verbose)
		},
	}
	serve.Flags().StringVar(&transport, "transport", "", "stdio, http or both (overrides server.transport)")
	serve.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides server.address)")
	return serve
}

func runServe(ctx context.Context, cfg *config.Config, verbose bool) error {
	log, err := runtime.NewLogger(runtime.LogOptions{
		Level:   cfg.General.LogLevel,
		Debug:   cfg.General.Debug || verbose,
		LogFile: cfg.Telemetry.LogFile,
	})
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := runtime.WithShutdown(ctx, "deckhand", log)
	defer stop()

	led, err := ledger.New(ctx, cfg.Storage.Ledger, ledger.Options{
		Host:      cfg.Storage.Redis.Host,
		Port:      cfg.Storage.Redis.Port,
		Password:  cfg.Storage.Redis.Password,
		DB:        cfg.Storage.Redis.DB,
		Timeout:   cfg.Storage.Redis.Timeout,
		KeyPrefix: cfg.Storage.Redis.KeyPrefix,
	})
	if err != nil {
		return fmt.Errorf("ledger: %w", err)
	}
	defer func() { _ = led.Close() }()

	var metrics *runtime.Metrics
	if cfg.Telemetry.Enabled {
		metrics = runtime.NewMetrics()
	}

	conn := newConnector(cfg.Host)
	reg := deck.NewRegistry(conn, led, deck.WithLogger(log.Named("registry")))
	reg.OnChange = metrics.SetSessions
	svc := deck.NewService(reg, deck.NewPlanner(cfg.Export.Dir, cfg.Export.DefaultWidth), log.Named("deck"))

	disp := mcp.NewDispatcher(conn, log.Named("dispatcher"))
	disp.Start()
	defer disp.Stop()

	srv := mcp.NewServer(svc, disp, mcp.Options{
		Version:     version,
		CallTimeout: cfg.Server.CallTimeout,
		Logger:      log,
		Metrics:     metrics,
	})
	log.Info("deckhand starting",
		zap.String("version", version),
		zap.String("driver", cfg.Host.Driver),
		zap.String("transport", cfg.Server.Transport),
		zap.String("ledger", cfg.Storage.Ledger))

	g, gctx := errgroup.WithContext(ctx)
	if cfg.Server.Stdio() {
		g.Go(func() error {
			// The client closing stdin ends the session and the process.
			defer stop()
			return srv.Run(gctx, os.Stdin, os.Stdout)
		})
	}
	if cfg.Server.HTTP() {
		e, err := server.New(server.Options{
			Secret:   []byte(cfg.Server.JWTSecret),
			MCP:      srv,
			Metrics:  metrics,
			Sessions: reg.Len,
			Logger:   log,
		})
		if err != nil {
			return err
		}
		g.Go(func() error { return server.Run(gctx, e, cfg.Server.Address, log) })
	}
	return g.Wait()
}

func newConnector(cfg config.HostConfig) host.Connector {
	if cfg.Driver == config.DriverMemory {
		return memhost.NewConnector(nil)
	}
	return comhost.New(comhost.Options{ProgID: cfg.ProgID, Visible: cfg.Visible})
}
