package upstream

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zivahealth/admin-console/internal/domain"
)

func newTestClient(t *testing.T, handler http.Handler) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewHTTPClient(Options{
		BaseURL: srv.URL,
		Tokens:  StaticTokenProvider{AccessToken: "test-token"},
	})
	if err != nil {
		t.Fatalf("failed to build client: %v", err)
	}
	return client
}

func TestNewHTTPClientRequiresBaseURL(t *testing.T) {
	_, err := NewHTTPClient(Options{Tokens: StaticTokenProvider{AccessToken: "t"}})
	if !errors.Is(err, ErrMissingBaseURL) {
		t.Fatalf("expected ErrMissingBaseURL, got %v", err)
	}
}

func TestListProfilesSendsBearerToken(t *testing.T) {
	var gotAuth, gotPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": 1, "email": "ava@example.com"}]`))
	}))

	profiles, err := client.ListProfiles(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer test-token" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if gotPath != "/api/v1/profile/profiles" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if len(profiles) != 1 || profiles[0].Email != "ava@example.com" {
		t.Fatalf("unexpected profiles: %+v", profiles)
	}
}

func TestMissingTokenIsAPrecondition(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	t.Cleanup(srv.Close)

	client, err := NewHTTPClient(Options{BaseURL: srv.URL, Tokens: StaticTokenProvider{}})
	if err != nil {
		t.Fatalf("failed to build client: %v", err)
	}

	if _, err := client.ListProfiles(context.Background()); !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
	if called {
		t.Fatal("expected no request without a token")
	}
}

func TestContextTokenProviderForwardsCallerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	client, err := NewHTTPClient(Options{BaseURL: srv.URL, Tokens: ContextTokenProvider{}})
	if err != nil {
		t.Fatalf("failed to build client: %v", err)
	}

	ctx := WithToken(context.Background(), "caller-token")
	if _, err := client.ListProfiles(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer caller-token" {
		t.Fatalf("expected forwarded token, got %q", gotAuth)
	}

	if _, err := client.ListProfiles(context.Background()); !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken without a context token, got %v", err)
	}
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "401 maps to ErrUnauthorized",
			status: http.StatusUnauthorized,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrUnauthorized) {
					t.Fatalf("expected ErrUnauthorized, got %v", err)
				}
			},
		},
		{
			name:   "404 maps to ErrNotFound",
			status: http.StatusNotFound,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrNotFound) {
					t.Fatalf("expected ErrNotFound, got %v", err)
				}
			},
		},
		{
			name:   "500 carries the upstream message",
			status: http.StatusInternalServerError,
			body:   `{"message": "database unavailable"}`,
			check: func(t *testing.T, err error) {
				var statusErr *StatusError
				if !errors.As(err, &statusErr) {
					t.Fatalf("expected StatusError, got %v", err)
				}
				if statusErr.Status != http.StatusInternalServerError || statusErr.Message != "database unavailable" {
					t.Fatalf("unexpected StatusError: %+v", statusErr)
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))

			_, err := client.ListProfiles(context.Background())
			tc.check(t, err)
		})
	}
}

func TestGetHealthProfileByProfileNormalizesShapes(t *testing.T) {
	bodies := map[string]string{
		"/api/v1/health-profile/health-profiles/profile/1": `[{"id": 10, "profileId": 1, "riskGroup": "moderate"}]`,
		"/api/v1/health-profile/health-profiles/profile/2": `{"id": 11, "profileId": 2}`,
		"/api/v1/health-profile/health-profiles/profile/3": `[]`,
	}
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(bodies[r.URL.Path]))
	}))

	hp, err := client.GetHealthProfileByProfile(context.Background(), 1)
	if err != nil || hp == nil || hp.ID != 10 || *hp.RiskGroup != domain.RiskGroupModerate {
		t.Fatalf("array shape: got %+v, err %v", hp, err)
	}

	hp, err = client.GetHealthProfileByProfile(context.Background(), 2)
	if err != nil || hp == nil || hp.ID != 11 {
		t.Fatalf("object shape: got %+v, err %v", hp, err)
	}

	hp, err = client.GetHealthProfileByProfile(context.Background(), 3)
	if err != nil || hp != nil {
		t.Fatalf("empty shape: got %+v, err %v", hp, err)
	}
}

func TestUpdateRiskGroupSendsPatchAndIgnoresBody(t *testing.T) {
	var gotMethod, gotPath, gotBody string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		// Deliberately junk response body; the client must not care.
		_, _ = w.Write([]byte(`{"unexpected": [1,2,3]}`))
	}))

	group := domain.RiskGroupHigh
	if err := client.UpdateRiskGroup(context.Background(), 10, &group); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodPatch {
		t.Fatalf("expected PATCH, got %s", gotMethod)
	}
	if gotPath != "/api/v1/health-profile/health-profiles/10" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotBody != `{"riskGroup":"high"}` {
		t.Fatalf("unexpected body %q", gotBody)
	}
}

func TestUpdateRiskGroupClearSendsNull(t *testing.T) {
	var gotBody string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		_, _ = w.Write([]byte(`{}`))
	}))

	if err := client.UpdateRiskGroup(context.Background(), 10, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotBody != `{"riskGroup":null}` {
		t.Fatalf("expected explicit null, got %q", gotBody)
	}
}

func TestListEventsBuildsQueryAndDefaultsData(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"data": null, "total": 0, "offset": 0, "limit": 1, "totalPages": 0}`))
	}))

	profileID := int64(4)
	page, err := client.ListEvents(context.Background(), domain.EventQuery{
		ProfileID: &profileID,
		Limit:     1,
		Search:    "spike",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Data == nil {
		t.Fatal("expected non-nil data slice")
	}
	if gotQuery != "limit=1&profileId=4&search=spike" {
		t.Fatalf("unexpected query %q", gotQuery)
	}
}

func TestProfileHasEvents(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("limit") != "1" {
			t.Errorf("expected limit=1 existence check, got %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"data": [], "total": 12, "offset": 0, "limit": 1, "totalPages": 12}`))
	}))

	has, err := client.ProfileHasEvents(context.Background(), 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Existence comes from the envelope total, not the page contents.
	if !has {
		t.Fatal("expected events to exist")
	}
}
