package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/frametree/internal/config"
	"github.com/vango-dev/frametree/internal/demo"
	"github.com/vango-dev/frametree/internal/errors"
	"github.com/vango-dev/frametree/pkg/construct"
	"github.com/vango-dev/frametree/pkg/inspect"
	"github.com/vango-dev/frametree/pkg/middleware"
)

func serveCmd(configDir *string) *cobra.Command {
	var (
		addr    string
		metrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the frame inspector",
		Long: `Start the inspector HTTP server.

Routes:
  GET  /catalog          registered components
  POST /render           render a YAML fixture body
  GET  /ws               render fixtures over a WebSocket
  GET  /snapshots        list stored snapshots
  PUT  /snapshots/{key}  render and store a fixture
  GET  /metrics          Prometheus metrics (with --metrics)

Examples:
  frametree serve
  frametree serve --addr :8080 --metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configDir)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Inspect.Addr = addr
			}
			if cmd.Flags().Changed("metrics") {
				cfg.Inspect.Metrics = metrics
			}
			return runServe(cmd, cfg)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", config.DefaultInspectAddr, "Listen address")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "Expose Prometheus metrics at /metrics")

	return cmd
}

func runServe(cmd *cobra.Command, cfg *config.Config) error {
	logger := cfg.Logger()

	mw := []construct.Middleware{middleware.OpenTelemetry()}
	opts := []inspect.Option{
		inspect.WithLogger(logger),
		inspect.WithDepthLimits(depthLimits(cfg)),
	}
	if cfg.Inspect.Metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		mw = append(mw, middleware.Prometheus(middleware.WithRegistry(reg)))
		opts = append(opts, inspect.WithMetrics(reg))
	}

	store, err := newStore(cfg)
	if err != nil {
		return err
	}
	opts = append(opts, inspect.WithStore(store))

	s := inspect.New(newConstructor(demo.Registry(), logger, mw...), opts...)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	info(cmd, "Inspector on http://%s (snapshots: %s)", cfg.Inspect.Addr, cfg.Snapshot.Backend)
	if err := s.ListenAndServe(ctx, cfg.Inspect.Addr); err != nil {
		return errors.New("F081").Wrap(err)
	}
	return nil
}
