package cmd

import (
	"net/http"

	"github.com/fulmenhq/gofulmen/logging"

	"github.com/fightpath/fightpath/internal/config"
	"github.com/fightpath/fightpath/internal/core/engine"
	"github.com/fightpath/fightpath/internal/core/fflogs"
	"github.com/fightpath/fightpath/internal/observability"
)

// newClient builds the API client with one quota gate for the process.
func newClient(cfg *config.Config, logger *logging.Logger) *fflogs.Client {
	gate := engine.NewQuotaGate(cfg.API.QuotaThreshold)
	gate.Logger = logger

	return &fflogs.Client{
		Endpoint:   cfg.API.URL,
		Token:      cfg.API.Token,
		UserAgent:  cfg.API.UserAgent,
		HTTPClient: &http.Client{Timeout: cfg.API.Timeout},
		Gate:       gate,
		Logger:     logger,
	}
}

// newOrchestrator wires the fetch and ingest pipeline onto client.
func newOrchestrator(cfg *config.Config, client *fflogs.Client, logger *logging.Logger) *engine.Orchestrator {
	return &engine.Orchestrator{
		Reports:  client,
		Fetcher:  &engine.EventFetcher{Source: client, Logger: logger},
		Ingester: &engine.Ingester{Workers: cfg.Ingest.Workers, Logger: logger},
		Logger:   logger,
	}
}

// setupCLI loads the config, requires a token, and returns a ready pipeline.
func setupCLI() (*config.Config, *fflogs.Client, *engine.Orchestrator, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, &configError{err: err}
	}
	if err := cfg.RequireToken(); err != nil {
		return nil, nil, nil, &configError{err: err}
	}

	logger := observability.Logger()
	client := newClient(cfg, logger)
	return cfg, client, newOrchestrator(cfg, client, logger), nil
}
