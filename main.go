package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"rrt-planner/planner"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "rrt-planner",
		Short:         "Sampling-based path planning around circular obstacles",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			level, err := parseLogLevel(logLevel)
			if err != nil {
				return err
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(newServeCmd(), newPlanCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var (
		addr     string
		storeDir string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve planning requests over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, addr, storeDir)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&storeDir, "store", "./runs", "run store directory (empty for in-memory)")
	return cmd
}

func newPlanCmd() *cobra.Command {
	var (
		scenarioPath string
		outPath      string
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Run one scenario and print the result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlan(cmd.Context(), scenarioPath, outPath)
		},
	}
	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "scenario YAML file (demo scenario when empty)")
	cmd.Flags().StringVar(&outPath, "out", "", "write the run as GeoJSON to this file")
	return cmd
}

func runServer(ctx context.Context, addr, storeDir string) error {
	logger := slog.Default()

	store, err := OpenRunStore(storeDir, logger.With(slog.String("component", "badger")))
	if err != nil {
		return err
	}
	defer store.Close()

	gin.SetMode(gin.ReleaseMode)
	server := NewServer(planner.New(planner.WithLogger(logger)), store, logger)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("RRT planner server starting",
		slog.String("addr", addr),
		slog.String("store", storeDir),
	)
	logger.Info("Endpoints",
		slog.String("plan", "POST /plan"),
		slog.String("run", "GET /runs/:id"),
		slog.String("lines", "GET /runs/:id/lines"),
		slog.String("geojson", "GET /runs/:id/geojson"),
		slog.String("health", "GET /health"),
		slog.String("metrics", "GET /metrics"),
	)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func runPlan(ctx context.Context, scenarioPath, outPath string) error {
	logger := slog.Default()

	cfg, err := LoadScenario(scenarioPath)
	if err != nil {
		return err
	}

	result, err := planner.New(planner.WithLogger(logger)).Plan(ctx, cfg)
	if err != nil {
		return err
	}

	if result.Found {
		logger.Info("Path found",
			slog.Int("waypoints", len(result.Path)),
			slog.Float64("length", result.Path.Length()),
		)
		logWaypointPreview(logger, result.Path)
	} else {
		logger.Info("No path found", slog.Int("iterations", result.Iterations))
	}

	if outPath == "" {
		return nil
	}

	fc, err := RunFeatureCollection(NewRunRecord(cfg, result))
	if err != nil {
		return fmt.Errorf("export run: %w", err)
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode run: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	logger.Info("Run written", slog.String("file", outPath))
	return nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
