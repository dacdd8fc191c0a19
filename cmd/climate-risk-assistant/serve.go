package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/climate-risk-assistant/internal/api/http"
	"github.com/i474232898/climate-risk-assistant/internal/config"
	"github.com/i474232898/climate-risk-assistant/internal/observability"
	"github.com/i474232898/climate-risk-assistant/internal/scheduler"
	"github.com/i474232898/climate-risk-assistant/internal/weather"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the risk report HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		return serve(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, cfg *config.AppConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	d, err := buildDeps(ctx, cfg, log, metrics)
	if err != nil {
		return err
	}
	defer d.close()

	// Readiness prober on the canary coordinate.
	prober := scheduler.New(
		d.gateway,
		d.store,
		weather.Coordinate{Lat: cfg.ProbeLat, Lon: cfg.ProbeLon},
		cfg.ProbeInterval,
		cfg.RequestTimeout,
		nil,
		log,
		metrics,
	)
	if err := prober.Start(); err != nil {
		return err
	}
	defer prober.Stop()

	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          cfg.RequestTimeout + 5*time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	httpapi.RegisterOps(app, serviceName, prober, nil)
	httpapi.RegisterRoutes(app, d.service)

	return run(ctx, app, cfg.Port, log)
}

// run serves app until a termination signal or ctx ends, then shuts it down.
// A listener failure is returned immediately.
func run(ctx context.Context, app *fiber.App, port string, log *charmlog.Logger) error {
	listenErr := make(chan error, 1)
	go func() {
		log.Info("listening", "port", port)
		listenErr <- app.Listen(":" + port)
	}()

	// Wait for termination signal or a failed listener.
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-listenErr:
		if err != nil {
			return fmt.Errorf("fiber server stopped: %w", err)
		}
		return nil
	case <-sigCtx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("error during shutdown", "error", err)
	}
	log.Info("stopped")
	return nil
}
