package cmd

import (
	"fmt"
	"runtime"

	"github.com/fulmenhq/gofulmen/crucible"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/fightpath/fightpath/internal/config"
	"github.com/fightpath/fightpath/internal/observability"
)

var envInfoCmd = &cobra.Command{
	Use:   "envinfo",
	Short: "Display environment information",
	Long:  "Display environment, configuration, and version information.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		log := observability.CLILogger
		version := crucible.GetVersion()

		log.Info("=== fightpath Environment Information ===")
		log.Info("")

		log.Info("Application:")
		log.Info("  Name:       " + config.AppName)
		log.Info("  Version:    " + versionInfo.Version)
		log.Info("  Commit:     " + versionInfo.Commit)
		log.Info("  Built:      " + versionInfo.BuildDate)
		log.Info("")

		log.Info("SSOT:")
		log.Info("  Gofulmen:   "+version.Gofulmen, zap.String("gofulmen_version", version.Gofulmen))
		log.Info("  Crucible:   "+version.Crucible, zap.String("crucible_version", version.Crucible))
		log.Info("")

		log.Info("Runtime:")
		log.Info("  Go Version: "+runtime.Version(), zap.String("go_version", runtime.Version()))
		log.Info("  GOOS:       "+runtime.GOOS, zap.String("goos", runtime.GOOS))
		log.Info("  GOARCH:     "+runtime.GOARCH, zap.String("goarch", runtime.GOARCH))
		log.Info(fmt.Sprintf("  NumCPU:     %d", runtime.NumCPU()), zap.Int("num_cpu", runtime.NumCPU()))
		log.Info("")

		cfg, err := loadConfig()
		if err != nil {
			log.Warn("Config load failed", zap.Error(err))
			return
		}

		configFile := viper.ConfigFileUsed()
		if configFile == "" {
			configFile = config.DefaultConfigPath() + " (not found)"
		}

		log.Info("API:")
		log.Info("  URL:             "+cfg.API.URL, zap.String("api_url", cfg.API.URL))
		log.Info("  Token:           "+setOrNot(cfg.RequireToken() == nil))
		log.Info("  Timeout:         " + cfg.API.Timeout.String())
		log.Info(fmt.Sprintf("  Quota Threshold: %.0f", cfg.API.QuotaThreshold), zap.Float64("quota_threshold", cfg.API.QuotaThreshold))
		log.Info("")

		log.Info("Pipeline:")
		log.Info(fmt.Sprintf("  Ingest Workers:  %d", cfg.Ingest.Workers), zap.Int("workers", cfg.Ingest.Workers))
		log.Info(fmt.Sprintf("  Sample Rate:     %g fps", cfg.Sampling.Rate), zap.Float64("sample_rate", cfg.Sampling.Rate))
		log.Info("")

		log.Info("Server:")
		log.Info("  Host:            "+cfg.Server.Host, zap.String("host", cfg.Server.Host))
		log.Info(fmt.Sprintf("  Port:            %d", cfg.Server.Port), zap.Int("port", cfg.Server.Port))
		log.Info(fmt.Sprintf("  Cache Entries:   %d", cfg.Server.CacheEntries))
		log.Info("  Admin Endpoint:  " + setOrNot(cfg.Server.AdminToken != ""))
		log.Info(fmt.Sprintf("  Metrics:         %t (port %d)", cfg.Metrics.Enabled, cfg.Metrics.Port), zap.Int("metrics_port", cfg.Metrics.Port))
		log.Info("  Log Level:       "+cfg.Logging.Level, zap.String("log_level", cfg.Logging.Level))
		log.Info("  Log Profile:     "+cfg.Logging.Profile, zap.String("log_profile", cfg.Logging.Profile))
		log.Info("  Config File:     "+configFile, zap.String("config_file", configFile))
		log.Info("")

		log.Info("=== End Environment Information ===")
	},
}

func setOrNot(set bool) string {
	if set {
		return "(set)"
	}
	return "(not set)"
}

func init() {
	rootCmd.AddCommand(envInfoCmd)
}
