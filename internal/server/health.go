package server

import (
	"context"
	"fmt"
	"net/http"
)

// HealthService defines behaviour for readiness probes.
type HealthService interface {
	Probe(ctx context.Context) error
}

// UpstreamHealthService verifies the platform API is reachable as part of
// health checks. It only checks TCP/HTTP reachability, not authentication.
type UpstreamHealthService struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Probe implements the HealthService interface.
func (s UpstreamHealthService) Probe(ctx context.Context) error {
	if s.BaseURL == "" {
		return nil
	}

	client := s.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL, nil)
	if err != nil {
		return fmt.Errorf("building probe request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("platform unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("platform returned status %d", resp.StatusCode)
	}
	return nil
}
