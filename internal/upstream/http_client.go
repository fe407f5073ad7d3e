package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/zivahealth/admin-console/internal/domain"
)

// Options configures an HTTP client for the platform API.
type Options struct {
	BaseURL string
	Tokens  TokenProvider
	// HTTPClient overrides the transport, primarily for tests. Defaults to
	// a client with the configured timeout.
	HTTPClient *http.Client
	Timeout    time.Duration
}

// ErrMissingBaseURL indicates the platform base URL is not provided.
var ErrMissingBaseURL = fmt.Errorf("upstream: base URL is required")

// NewHTTPClient builds a Client speaking to the remote platform API.
func NewHTTPClient(opts Options) (Client, error) {
	if opts.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if opts.Tokens == nil {
		return nil, fmt.Errorf("upstream: token provider is required")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &apiClient{
		base:   strings.TrimRight(opts.BaseURL, "/"),
		tokens: opts.Tokens,
		http:   httpClient,
	}, nil
}

type apiClient struct {
	base   string
	tokens TokenProvider
	http   *http.Client
}

func (c *apiClient) ListProfiles(ctx context.Context) ([]domain.UserProfile, error) {
	var profiles []domain.UserProfile
	if err := c.getJSON(ctx, "/api/v1/profile/profiles", nil, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (c *apiClient) GetProfile(ctx context.Context, id int64) (domain.UserProfile, error) {
	var profile domain.UserProfile
	path := fmt.Sprintf("/api/v1/profile/profiles/%d", id)
	if err := c.getJSON(ctx, path, nil, &profile); err != nil {
		return domain.UserProfile{}, err
	}
	return profile, nil
}

func (c *apiClient) UpdateProfile(ctx context.Context, id int64, update domain.ProfileUpdate) (domain.UserProfile, error) {
	path := fmt.Sprintf("/api/v1/profile/profiles/%d", id)
	body, err := c.do(ctx, http.MethodPut, path, nil, update)
	if err != nil {
		return domain.UserProfile{}, err
	}

	var profile domain.UserProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return domain.UserProfile{}, fmt.Errorf("decode updated profile: %w", err)
	}
	return profile, nil
}

func (c *apiClient) ListHealthProfiles(ctx context.Context) ([]domain.HealthProfile, error) {
	var profiles []domain.HealthProfile
	if err := c.getJSON(ctx, "/api/v1/health-profile/health-profiles", nil, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (c *apiClient) GetHealthProfileByProfile(ctx context.Context, profileID int64) (*domain.HealthProfile, error) {
	path := fmt.Sprintf("/api/v1/health-profile/health-profiles/profile/%d", profileID)
	body, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	return NormalizeHealthProfilePayload(body)
}

func (c *apiClient) UpdateRiskGroup(ctx context.Context, healthProfileID int64, group *domain.RiskGroup) error {
	path := fmt.Sprintf("/api/v1/health-profile/health-profiles/%d", healthProfileID)
	payload := struct {
		RiskGroup *domain.RiskGroup `json:"riskGroup"`
	}{RiskGroup: group}

	// The response body for this endpoint is inconsistent upstream, so it
	// is discarded; only the status signal matters.
	_, err := c.do(ctx, http.MethodPatch, path, nil, payload)
	return err
}

func (c *apiClient) ListEvents(ctx context.Context, query domain.EventQuery) (domain.EventPage, error) {
	params := url.Values{}
	if query.ProfileID != nil {
		params.Set("profileId", strconv.FormatInt(*query.ProfileID, 10))
	}
	if query.Limit > 0 {
		params.Set("limit", strconv.Itoa(query.Limit))
	}
	if query.Offset > 0 {
		params.Set("offset", strconv.Itoa(query.Offset))
	}
	if query.Search != "" {
		params.Set("search", query.Search)
	}
	if query.StartDate != "" {
		params.Set("startDate", query.StartDate)
	}
	if query.EndDate != "" {
		params.Set("endDate", query.EndDate)
	}
	if query.SortBy != "" {
		params.Set("sortBy", query.SortBy)
	}
	if query.SortOrder != "" {
		params.Set("sortOrder", query.SortOrder)
	}

	var page domain.EventPage
	if err := c.getJSON(ctx, "/api/v1/event/events", params, &page); err != nil {
		return domain.EventPage{}, err
	}
	if page.Data == nil {
		page.Data = []domain.Event{}
	}
	return page, nil
}

func (c *apiClient) ProfileHasEvents(ctx context.Context, profileID int64) (bool, error) {
	page, err := c.ListEvents(ctx, domain.EventQuery{ProfileID: &profileID, Limit: 1})
	if err != nil {
		return false, err
	}
	return page.Total > 0, nil
}

func (c *apiClient) getJSON(ctx context.Context, path string, params url.Values, dst any) error {
	body, err := c.do(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func (c *apiClient) do(ctx context.Context, method, path string, params url.Values, payload any) ([]byte, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := c.base + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", path, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &StatusError{
			Status:  resp.StatusCode,
			Message: upstreamMessage(body),
		}
	}

	return body, nil
}

// upstreamMessage extracts the platform's error message field when present.
func upstreamMessage(body []byte) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	if envelope.Message != "" {
		return envelope.Message
	}
	return envelope.Error
}
