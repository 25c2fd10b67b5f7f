package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/mte/internal/errors"
	"github.com/vango-dev/mte/internal/scenario"
	"github.com/vango-dev/mte/pkg/inspect"
	"github.com/vango-dev/mte/pkg/mte"
	"github.com/vango-dev/mte/pkg/telemetry"
)

func serveCmd(g *globals) *cobra.Command {
	var (
		port     int
		host     string
		interval time.Duration
		loop     bool
	)

	cmd := &cobra.Command{
		Use:   "serve <scenario>",
		Short: "Serve a scenario in the live inspector",
		Long: `Render a scenario and serve it in the browser. Steps are replayed on a
timer and every client receives the resulting patches over a websocket.

Endpoints:
  /           live page
  /snapshot   current HTML as JSON
  /ws         patch stream
  /metrics    Prometheus metrics (when metrics are enabled)

Examples:
  mte serve todo
  mte serve todo --port=8080 --interval=250ms --loop`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if port > 0 {
				g.cfg.Inspector.Port = port
			}
			if host != "" {
				g.cfg.Inspector.Host = host
			}
			if interval > 0 {
				g.cfg.Inspector.ReplayInterval = interval.String()
			}
			return runServe(g, g.scenarioPath(args[0]), loop)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from mte.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from mte.json)")
	cmd.Flags().DurationVarP(&interval, "interval", "i", 0, "Delay between replayed steps (default from mte.json)")
	cmd.Flags().BoolVarP(&loop, "loop", "l", false, "Restart from the initial data after the last step")

	return cmd
}

func runServe(g *globals, path string, loop bool) error {
	cfg := g.cfg
	s, err := scenario.Load(path)
	if err != nil {
		return err
	}
	if cfg.Strict {
		s.Strict = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	opts := []mte.Option{mte.WithLogger(slog.Default().With("component", "mte", "scenario", s.Name))}

	var metrics *telemetry.Metrics
	if cfg.Metrics.Enabled {
		registry.MustRegister(collectors.NewGoCollector())
		metrics = telemetry.NewMetrics(
			telemetry.WithNamespace(cfg.Metrics.Namespace),
			telemetry.WithRegistry(registry),
		)
		opts = append(opts, mte.WithHooks(metrics))
	}

	r, err := scenario.NewRunner(ctx, s, opts...)
	if err != nil {
		return err
	}
	if metrics != nil {
		cancel := r.Tree().Observe(metrics.ObservePatch)
		defer cancel()
	}

	session := inspect.NewSession(s.Name, r.Tree(), r.View())
	defer session.Close()

	server := inspect.NewServer(session, inspect.ServerOptions{
		Addr:     cfg.InspectorAddress(),
		Metrics:  metrics,
		Gatherer: registry,
	})

	printBanner()
	success("Serving %s at %s", s.Name, cfg.InspectorURL())
	if len(s.Steps) == 0 {
		warn("%s has no steps to replay", s.Name)
	} else {
		info("%d steps, one every %s", len(s.Steps), cfg.ReplayInterval())
	}
	fmt.Println()

	go replay(ctx, server, r, cfg.ReplayInterval(), loop)

	if err := server.ListenAndServe(ctx); err != nil {
		return errors.New("E301").Wrap(err)
	}
	return nil
}

// replay applies the scenario's steps through the server on a ticker.
// Failing steps are logged and broadcast, and replay continues.
func replay(ctx context.Context, server *inspect.Server, r *scenario.Runner, interval time.Duration, loop bool) {
	s := r.Scenario()
	if len(s.Steps) == 0 {
		return
	}
	logger := slog.Default().With("component", "replay", "scenario", s.Name)
	reset := scenario.Step{Op: scenario.OpReplace, Value: s.Data}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	next := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		step := reset
		if next < len(s.Steps) {
			step = s.Steps[next]
		}
		next++
		if next > len(s.Steps) {
			if !loop {
				logger.Info("replay finished")
				return
			}
			next = 0
		}

		err := server.Apply(func(*mte.View) error { return r.Apply(step) })
		if err != nil {
			logger.Warn("step failed", "step", step.String(), "error", err)
			continue
		}
		logger.Debug("step applied", "step", step.String(), "clients", server.ClientCount())
	}
}
