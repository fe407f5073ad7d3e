// Command stubapi runs a local stand-in for the health-monitoring platform
// API. It serves the same wire shapes the real platform exposes, including
// its quirks, backed by a deterministic generated dataset. Useful for
// frontend development and end-to-end testing without platform credentials.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/zivahealth/admin-console/internal/config"
	"github.com/zivahealth/admin-console/internal/domain"
	"github.com/zivahealth/admin-console/internal/logging"
	"github.com/zivahealth/admin-console/internal/seed"
	"github.com/zivahealth/admin-console/internal/upstream"
)

func main() {
	var (
		addr     = flag.String("addr", ":9090", "listen address")
		numUsers = flag.Int("users", 40, "number of generated users")
		rngSeed  = flag.Int64("seed", 42, "random seed for the generated dataset")
	)
	flag.Parse()

	logger := logging.New(config.LoggingConfig{Level: "info", Format: "text"})

	cfg := seed.DefaultConfig()
	cfg.NumUsers = *numUsers
	cfg.Seed = *rngSeed
	ds := seed.Generate(cfg)

	client := upstream.NewMemoryClient().
		SeedProfiles(ds.Profiles).
		SeedHealthProfiles(ds.HealthProfiles).
		SeedEvents(ds.Events)

	logger.Info("stub platform dataset ready",
		"profiles", len(ds.Profiles),
		"healthProfiles", len(ds.HealthProfiles),
		"events", len(ds.Events),
	)

	srv := &http.Server{
		Addr:              *addr,
		Handler:           newStubHandler(client),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("stub platform API listening", "addr", *addr)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("stub server stopped unexpectedly", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func newStubHandler(client *upstream.MemoryClient) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/profile/profiles", requireBearer(func(w http.ResponseWriter, r *http.Request) {
		profiles, _ := client.ListProfiles(r.Context())
		writeJSON(w, http.StatusOK, profiles)
	}))

	mux.HandleFunc("/api/v1/profile/profiles/", requireBearer(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r.URL.Path, "/api/v1/profile/profiles/")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid profile id"})
			return
		}

		switch r.Method {
		case http.MethodGet:
			profile, err := client.GetProfile(r.Context(), id)
			if errors.Is(err, upstream.ErrNotFound) {
				writeJSON(w, http.StatusNotFound, map[string]string{"message": "profile not found"})
				return
			}
			writeJSON(w, http.StatusOK, profile)
		case http.MethodPut:
			var update domain.ProfileUpdate
			if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid body"})
				return
			}
			profile, err := client.UpdateProfile(r.Context(), id, update)
			if errors.Is(err, upstream.ErrNotFound) {
				writeJSON(w, http.StatusNotFound, map[string]string{"message": "profile not found"})
				return
			}
			writeJSON(w, http.StatusOK, profile)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))

	mux.HandleFunc("/api/v1/health-profile/health-profiles", requireBearer(func(w http.ResponseWriter, r *http.Request) {
		profiles, _ := client.ListHealthProfiles(r.Context())
		writeJSON(w, http.StatusOK, profiles)
	}))

	mux.HandleFunc("/api/v1/health-profile/health-profiles/profile/", requireBearer(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r.URL.Path, "/api/v1/health-profile/health-profiles/profile/")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid profile id"})
			return
		}
		hp, _ := client.GetHealthProfileByProfile(r.Context(), id)
		// The real platform wraps this lookup in an array; reproduce that so
		// the console's normalization path gets exercised.
		if hp == nil {
			writeJSON(w, http.StatusOK, []domain.HealthProfile{})
			return
		}
		writeJSON(w, http.StatusOK, []domain.HealthProfile{*hp})
	}))

	mux.HandleFunc("/api/v1/health-profile/health-profiles/", requireBearer(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		id, err := pathID(r.URL.Path, "/api/v1/health-profile/health-profiles/")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid health profile id"})
			return
		}

		var payload struct {
			RiskGroup *domain.RiskGroup `json:"riskGroup"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid body"})
			return
		}
		if payload.RiskGroup != nil && !payload.RiskGroup.Valid() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid risk group"})
			return
		}

		if err := client.UpdateRiskGroup(r.Context(), id, payload.RiskGroup); errors.Is(err, upstream.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "health profile not found"})
			return
		}
		// The real platform returns an unreliable body here; an empty object
		// is as good as any.
		writeJSON(w, http.StatusOK, map[string]any{})
	}))

	mux.HandleFunc("/api/v1/event/events", requireBearer(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		eventQuery := domain.EventQuery{
			Limit:  queryInt(query.Get("limit"), 10),
			Offset: queryInt(query.Get("offset"), 0),
		}
		if v := query.Get("profileId"); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid profileId"})
				return
			}
			eventQuery.ProfileID = &id
		}

		page, _ := client.ListEvents(r.Context(), eventQuery)
		writeJSON(w, http.StatusOK, page)
	}))

	return mux
}

// requireBearer accepts any non-empty bearer token, mirroring how the stub
// is used: auth shape enforced, credentials not checked.
func requireBearer(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") || strings.TrimPrefix(header, "Bearer ") == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "missing bearer token"})
			return
		}
		next(w, r)
	}
}

func pathID(path, prefix string) (int64, error) {
	raw := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func queryInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
