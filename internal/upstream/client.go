package upstream

import (
	"context"
	"errors"
	"fmt"

	"github.com/zivahealth/admin-console/internal/domain"
)

// Client is the contract for the remote health-monitoring platform API. The
// console consumes it read-mostly; the only writes are partial profile
// updates and risk-group changes.
type Client interface {
	ListProfiles(ctx context.Context) ([]domain.UserProfile, error)
	GetProfile(ctx context.Context, id int64) (domain.UserProfile, error)
	UpdateProfile(ctx context.Context, id int64, update domain.ProfileUpdate) (domain.UserProfile, error)
	ListHealthProfiles(ctx context.Context) ([]domain.HealthProfile, error)
	GetHealthProfileByProfile(ctx context.Context, profileID int64) (*domain.HealthProfile, error)
	// UpdateRiskGroup changes a single health profile's risk group. The
	// upstream response body is unreliable for this endpoint, so only the
	// success or failure signal is returned.
	UpdateRiskGroup(ctx context.Context, healthProfileID int64, group *domain.RiskGroup) error
	ListEvents(ctx context.Context, query domain.EventQuery) (domain.EventPage, error)
	// ProfileHasEvents reports whether at least one event exists for the
	// profile, via a limit-1 listing.
	ProfileHasEvents(ctx context.Context, profileID int64) (bool, error)
}

// TokenProvider supplies the bearer token attached to every upstream call.
// Token ownership (refresh, storage) belongs to the authentication
// collaborator, not to this package.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

var (
	// ErrNoToken is a precondition failure: no call is attempted without a
	// bearer token.
	ErrNoToken = errors.New("upstream: no access token available")
	// ErrUnauthorized marks a 401 from the platform so the caller can force
	// re-authentication instead of treating it as a transient fault.
	ErrUnauthorized = errors.New("upstream: unauthorized")
	// ErrNotFound marks a 404 for a single-record lookup.
	ErrNotFound = errors.New("upstream: not found")
)

// StatusError captures a non-2xx upstream response outside the dedicated
// sentinel cases.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream: unexpected status %d", e.Status)
	}
	return fmt.Sprintf("upstream: status %d: %s", e.Status, e.Message)
}

// StaticTokenProvider returns a fixed token, used by CLI tools and tests.
type StaticTokenProvider struct {
	AccessToken string
}

func (p StaticTokenProvider) Token(context.Context) (string, error) {
	if p.AccessToken == "" {
		return "", ErrNoToken
	}
	return p.AccessToken, nil
}

type tokenContextKey struct{}

// WithToken stores the caller's bearer token on the context so per-request
// providers can forward it.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey{}, token)
}

// ContextTokenProvider forwards the token carried on the request context.
// The server's auth middleware is responsible for placing it there.
type ContextTokenProvider struct{}

func (ContextTokenProvider) Token(ctx context.Context) (string, error) {
	token, ok := ctx.Value(tokenContextKey{}).(string)
	if !ok || token == "" {
		return "", ErrNoToken
	}
	return token, nil
}
