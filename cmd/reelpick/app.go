// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/reelpick/internal/api"
	"github.com/tomtom215/reelpick/internal/config"
	"github.com/tomtom215/reelpick/internal/logging"
	"github.com/tomtom215/reelpick/internal/omdb"
	"github.com/tomtom215/reelpick/internal/recommend"
	"github.com/tomtom215/reelpick/internal/session"
	"github.com/tomtom215/reelpick/internal/suggest"
	"github.com/tomtom215/reelpick/internal/supervisor"
	"github.com/tomtom215/reelpick/internal/supervisor/services"
	"github.com/tomtom215/reelpick/internal/websocket"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// app is the fully wired process.
type app struct {
	cfg      *config.Config
	suggest  *suggest.Client
	omdb     *omdb.Client
	hub      *websocket.Hub
	sessions *session.Registry
	server   *http.Server
}

// newApp builds every component from cfg. Nothing runs until the services
// are added to a supervisor tree.
func newApp(cfg *config.Config) (*app, error) {
	suggestClient := suggest.NewClient(suggest.Config{
		APIKey:      cfg.Suggest.APIKey,
		BaseURL:     cfg.Suggest.BaseURL,
		Model:       cfg.Suggest.Model,
		Temperature: cfg.Suggest.Temperature,
		MaxTokens:   cfg.Suggest.MaxTokens,
		Timeout:     cfg.Suggest.Timeout,
		JSONMode:    cfg.Suggest.JSONMode,
	})
	omdbClient := omdb.NewClient(omdb.Config{
		APIKey:        cfg.OMDb.APIKey,
		BaseURL:       cfg.OMDb.BaseURL,
		PosterBaseURL: cfg.OMDb.PosterBaseURL,
		PosterHeight:  cfg.OMDb.PosterHeight,
		PosterAPI:     cfg.OMDb.PosterAPI,
		Timeout:       cfg.OMDb.Timeout,
		CacheTTL:      cfg.OMDb.CacheTTL,
	})

	recCfg := recommend.Config{
		MaxRetries:   cfg.Recommend.MaxRetries,
		HistorySize:  cfg.Recommend.HistorySize,
		UsePosterAPI: cfg.OMDb.PosterAPI,
	}
	if err := recCfg.Validate(); err != nil {
		return nil, fmt.Errorf("recommend config: %w", err)
	}
	recLogger := logging.WithComponent("recommend")
	factory := func() (*recommend.Orchestrator, error) {
		return recommend.New(suggestClient, omdbClient, recCfg, recLogger)
	}

	hub := websocket.NewHub()
	sessions := session.NewRegistry(session.Config{
		MaxSessions: cfg.Session.MaxSessions,
		IdleTimeout: cfg.Session.IdleTimeout,
	}, factory, hub, logging.WithComponent("session"))

	handler := api.NewHandler(sessions, hub, suggestClient, omdbClient, api.HandlerConfig{
		CORSOrigins:     cfg.Server.CORSOrigins,
		GenerateTimeout: cfg.Recommend.GenerateTimeout,
		Version:         version,
	})

	mwCfg := api.DefaultChiMiddlewareConfig()
	mwCfg.CORSAllowedOrigins = cfg.Server.CORSOrigins
	mwCfg.RateLimitRequests = cfg.Server.RateLimitReqs
	mwCfg.RateLimitWindow = cfg.Server.RateLimitWindow
	mwCfg.RateLimitDisabled = cfg.Server.RateLimitDisabled
	router := api.NewRouter(handler, api.NewChiMiddleware(mwCfg))

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: cfg.Server.Timeout,
		// A generate request stays open for the whole run.
		WriteTimeout: cfg.Recommend.GenerateTimeout + cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	return &app{
		cfg:      cfg,
		suggest:  suggestClient,
		omdb:     omdbClient,
		hub:      hub,
		sessions: sessions,
		server:   server,
	}, nil
}

// supervise adds the app's services to tree, one layer each.
func (a *app) supervise(tree *supervisor.SupervisorTree, configPath string) {
	tree.AddMessagingService(services.NewHubService(a.hub))
	tree.AddMaintenanceService(services.NewSweeperService(
		a.sessions, a.cfg.Session.SweepInterval, logging.WithComponent("supervisor"), a.omdb,
	))
	tree.AddMaintenanceService(services.NewConfigWatcherService(
		configPath, config.WatchConfigFile, reloadLogLevel, logging.WithComponent("supervisor"),
	))
	tree.AddAPIService(services.NewHTTPServerService(
		a.server, a.server.Addr, 10*time.Second, logging.WithComponent("supervisor"),
	))
}

// reloadLogLevel re-reads configuration and applies the log level. Other
// settings need a restart.
func reloadLogLevel() error {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		return err
	}
	logging.SetLevelString(cfg.Logging.Level)
	logging.Info().Str("level", cfg.Logging.Level).Msg("[config] log level applied")
	return nil
}
