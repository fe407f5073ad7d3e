package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/zivahealth/admin-console/internal/config"
	"github.com/zivahealth/admin-console/internal/logging"
	"github.com/zivahealth/admin-console/internal/notify"
	"github.com/zivahealth/admin-console/internal/seed"
	"github.com/zivahealth/admin-console/internal/server"
	"github.com/zivahealth/admin-console/internal/service"
	"github.com/zivahealth/admin-console/internal/upstream"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	client, err := upstream.NewHTTPClient(upstream.Options{
		BaseURL: cfg.Upstream.BaseURL,
		Tokens:  upstream.ContextTokenProvider{},
		Timeout: cfg.Upstream.Timeout,
	})
	if err != nil {
		logger.Error("failed to create platform client", "error", err)
		os.Exit(1)
	}

	aggregator := service.NewAggregator(client, logger)
	healthService := service.NewHealthService(client, notify.LogNotifier{Logger: logger})
	apiHandlers := server.NewAPIHandlers(logger, aggregator, healthService, client, seed.BillingRecords(), seed.Devices())

	router := server.NewRouter(logger, server.RouterDependencies{
		Health:           server.UpstreamHealthService{BaseURL: cfg.Upstream.BaseURL, HTTPClient: &http.Client{Timeout: cfg.Upstream.Timeout}},
		API:              apiHandlers,
		JWTSecret:        cfg.Auth.JWTSecret,
		AllowedOrigins:   parseAllowedOrigins(cfg.HTTP.AllowedOriginsCSV),
		AllowCredentials: true,
	})

	srv := server.New(logger, cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server stopped unexpectedly", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func parseAllowedOrigins(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	var origins []string
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}
