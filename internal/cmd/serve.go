package cmd

import (
	"context"
	"net/http"
	"time"

	"github.com/fulmenhq/gofulmen/signals"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/fightpath/fightpath/internal/config"
	"github.com/fightpath/fightpath/internal/core/engine"
	errwrap "github.com/fightpath/fightpath/internal/errors"
	"github.com/fightpath/fightpath/internal/metrics"
	"github.com/fightpath/fightpath/internal/observability"
	"github.com/fightpath/fightpath/internal/server"
	"github.com/fightpath/fightpath/internal/server/handlers"
)

// telemetryHealthChecker ensures telemetry system and exporter are available
type telemetryHealthChecker struct{}

func (telemetryHealthChecker) CheckHealth(ctx context.Context) error {
	if observability.TelemetrySystem == nil || observability.PrometheusExporter == nil {
		return errwrap.NewInternalError("telemetry system not initialized")
	}
	return nil
}

// tokenHealthChecker fails while no API token is configured
type tokenHealthChecker struct {
	cfg *config.Config
}

func (t tokenHealthChecker) CheckHealth(ctx context.Context) error {
	if err := t.cfg.RequireToken(); err != nil {
		return errwrap.NewConfigInvalidError(err.Error())
	}
	return nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve fights and positions over HTTP",
	Long: `Start the HTTP server with graceful shutdown support.

Routes:
  GET /v1/reports/{code}/fights
  GET /v1/reports/{code}/fights/{id}/positions?at=<ms>[&actor=<id>][&normalize=true]
  GET /v1/reports/{code}/fights/{id}/frames[?rate=<fps>][&normalize=true]
  GET /v1/reports/{code}/fights/{id}/trajectories
  GET /health, /health/{live,ready,startup}, /version, /metrics

Signal Handling:
  • Ctrl+C (SIGINT) or SIGTERM: Graceful shutdown
  • Ctrl+C twice within 2s: Force quit
  • SIGHUP: Re-read the config file`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "localhost", "server host")
	serveCmd.Flags().IntP("port", "p", 8080, "server port")

	_ = viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return &configError{err: err}
	}

	observability.InitServerLogger(config.AppName, cfg.Logging.Level, cfg.Logging.Profile)
	logger := observability.ServerLogger

	if cfg.Metrics.Enabled {
		if err := observability.InitMetrics(cfg.Metrics.Port); err != nil {
			logger.Error("Failed to initialize metrics", zap.Error(err))
			return errwrap.WrapInternal(cmd.Context(), err, "metrics initialization failed")
		}
		metrics.SetServerStartTime(time.Now().Unix())
	}

	client := newClient(cfg, logger)
	cache := engine.NewFightCache(newOrchestrator(cfg, client, logger), cfg.Server.CacheEntries)
	cache.LoadTimeout = cfg.Server.WriteTimeout

	logger.Info("Initializing server",
		zap.String("version", versionInfo.Version),
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.Int("metrics_port", observability.GetMetricsPort()),
		zap.String("api", cfg.API.URL))

	if cfg.Health.Enabled {
		hm := handlers.InitHealthManager(versionInfo.Version)
		hm.RegisterChecker("api_token", tokenHealthChecker{cfg: cfg})
		hm.RegisterChecker("quota", handlers.QuotaHealth{Gate: client.Gate})
		if cfg.Metrics.Enabled {
			hm.RegisterChecker("telemetry", telemetryHealthChecker{})
		}
	}

	srv := server.New(server.Options{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		Loader:       cache,
		SampleRate:   cfg.Sampling.Rate,
		Endpoint:     cfg.API.URL,
		AdminToken:   cfg.Server.AdminToken,
	})

	// Shutdown handlers run LIFO: the server stops before the logger flushes.
	signals.OnShutdown(func(ctx context.Context) error {
		if err := logger.Sync(); err != nil {
			logger.Debug("Logger sync returned error (may be benign)", zap.Error(err))
		}
		return nil
	})
	signals.OnShutdown(func(ctx context.Context) error {
		shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errwrap.WrapInternal(ctx, err, "server shutdown failed")
		}
		logger.Info("HTTP server stopped gracefully")
		return nil
	})

	signals.OnReload(func(ctx context.Context) error {
		if err := viper.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				logger.Info("No config file found - using defaults and environment variables")
				return nil
			}
			logger.Error("Failed to reload config file",
				zap.String("file", viper.ConfigFileUsed()),
				zap.Error(err))
			return errwrap.WrapInternal(ctx, err, "config reload failed")
		}
		reloaded, err := config.Load(viper.GetViper())
		if err != nil {
			logger.Error("Reloaded config is invalid; keeping current settings", zap.Error(err))
			return nil
		}
		logger.Info("Configuration reloaded; listener and API settings apply after restart",
			zap.String("file", viper.ConfigFileUsed()),
			zap.String("log_level", reloaded.Logging.Level))
		return nil
	})

	if err := signals.EnableDoubleTap(signals.DoubleTapConfig{
		Window:  2 * time.Second,
		Message: "Press Ctrl+C again within 2 seconds to force quit",
	}); err != nil {
		logger.Warn("Failed to enable double-tap force quit", zap.Error(err))
	}

	errChan := make(chan error, 2)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()
	go func() {
		if err := signals.Listen(cmd.Context()); err != nil {
			logger.Error("Signal handler error", zap.Error(err))
			errChan <- err
		}
	}()

	if err := <-errChan; err != nil {
		return errwrap.WrapInternal(cmd.Context(), err, "server error")
	}
	return nil
}
