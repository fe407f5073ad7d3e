package service

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/zivahealth/admin-console/internal/domain"
	"github.com/zivahealth/admin-console/internal/upstream"
)

// Aggregator merges the platform's independently fetched collections into
// one denormalized view model per user. Every call produces a fresh slice;
// nothing is cached or shared.
type Aggregator struct {
	client upstream.Client
	logger *slog.Logger
}

// NewAggregator constructs an Aggregator over the given platform client.
func NewAggregator(client upstream.Client, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		client: client,
		logger: logger,
	}
}

// CombineProfiles fetches user and health profiles concurrently (first
// failure aborts the whole aggregation), attaches each user's health profile
// by owning-profile ID, then resolves per-user event activity with one
// existence check per user, all dispatched before any is awaited. A failed
// existence check defaults that user to no events; it never fails the
// aggregation. The output has exactly one entry per user, in input order.
func (a *Aggregator) CombineProfiles(ctx context.Context) ([]domain.CombinedUserProfile, error) {
	var (
		users          []domain.UserProfile
		healthProfiles []domain.HealthProfile
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fetched, err := a.client.ListProfiles(gctx)
		if err != nil {
			return err
		}
		users = fetched
		return nil
	})
	g.Go(func() error {
		fetched, err := a.client.ListHealthProfiles(gctx)
		if err != nil {
			return err
		}
		healthProfiles = fetched
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Last write wins when the API returns duplicate satellite records for
	// one profile.
	byProfile := make(map[int64]domain.HealthProfile, len(healthProfiles))
	for _, hp := range healthProfiles {
		byProfile[hp.ProfileID] = hp
	}

	combined := make([]domain.CombinedUserProfile, len(users))
	var wg sync.WaitGroup
	for i, user := range users {
		combined[i] = domain.CombinedUserProfile{UserProfile: user}
		if hp, ok := byProfile[user.ID]; ok {
			clone := hp.Clone()
			combined[i].HealthProfile = &clone
		}

		wg.Add(1)
		go func(idx int, profileID int64) {
			defer wg.Done()
			hasEvents, err := a.client.ProfileHasEvents(ctx, profileID)
			if err != nil {
				// Secondary enrichment: fail open to "no events".
				a.logger.Debug("event existence check failed", "profileId", profileID, "error", err)
				hasEvents = false
			}
			combined[idx].HasEvents = hasEvents
		}(i, user.ID)
	}
	wg.Wait()

	return combined, nil
}

// CombinedProfile fetches one user with its health profile and activity
// flag, used for the detail view.
func (a *Aggregator) CombinedProfile(ctx context.Context, profileID int64) (domain.CombinedUserProfile, error) {
	user, err := a.client.GetProfile(ctx, profileID)
	if err != nil {
		return domain.CombinedUserProfile{}, err
	}

	combined := domain.CombinedUserProfile{UserProfile: user}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		hp, err := a.client.GetHealthProfileByProfile(ctx, profileID)
		if err != nil {
			a.logger.Debug("health profile lookup failed", "profileId", profileID, "error", err)
			return
		}
		combined.HealthProfile = hp
	}()
	go func() {
		defer wg.Done()
		hasEvents, err := a.client.ProfileHasEvents(ctx, profileID)
		if err != nil {
			a.logger.Debug("event existence check failed", "profileId", profileID, "error", err)
			return
		}
		combined.HasEvents = hasEvents
	}()
	wg.Wait()

	return combined, nil
}
