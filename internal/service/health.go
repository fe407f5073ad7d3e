package service

import (
	"context"
	"fmt"
	"time"

	"github.com/zivahealth/admin-console/internal/domain"
	"github.com/zivahealth/admin-console/internal/notify"
	"github.com/zivahealth/admin-console/internal/upstream"
)

// HealthService performs the console's write paths: risk-group changes with
// optimistic semantics and partial profile updates. Every call emits exactly
// one notification describing its outcome.
type HealthService struct {
	client   upstream.Client
	notifier notify.Notifier
	nowFn    func() time.Time
}

// NewHealthService constructs a HealthService.
func NewHealthService(client upstream.Client, notifier notify.Notifier) *HealthService {
	return &HealthService{
		client:   client,
		notifier: notifier,
		nowFn:    time.Now,
	}
}

// WithClock overrides the time provider (used primarily in tests).
func (s *HealthService) WithClock(nowFn func() time.Time) {
	if nowFn != nil {
		s.nowFn = nowFn
	}
}

// UpdateRiskGroup changes a health profile's risk group and returns the
// profile the caller should display. On success the update is synthesized
// locally with a refreshed timestamp, because the upstream PATCH response
// cannot be trusted for display. On failure the returned profile is the
// untouched pre-call snapshot, so displayed state rolls back exactly.
func (s *HealthService) UpdateRiskGroup(ctx context.Context, profile domain.HealthProfile, group *domain.RiskGroup) (domain.HealthProfile, error) {
	snapshot := profile.Clone()

	if group != nil && !group.Valid() {
		err := fmt.Errorf("invalid risk group %q", *group)
		s.notifier.Error("Failed to update risk group", err.Error())
		return snapshot, err
	}

	if err := s.client.UpdateRiskGroup(ctx, profile.ID, group); err != nil {
		s.notifier.Error("Failed to update risk group", err.Error())
		return snapshot, err
	}

	updated := snapshot.Clone()
	if group != nil {
		g := *group
		updated.RiskGroup = &g
	} else {
		updated.RiskGroup = nil
	}
	updated.UpdatedAt = s.nowFn().UTC()

	s.notifier.Success("Risk group updated", "Risk group changed to "+domain.RiskGroupLabel(updated.RiskGroup))
	return updated, nil
}

// UpdateProfile submits a partial profile update and returns the persisted
// profile from upstream.
func (s *HealthService) UpdateProfile(ctx context.Context, id int64, update domain.ProfileUpdate) (domain.UserProfile, error) {
	updated, err := s.client.UpdateProfile(ctx, id, update)
	if err != nil {
		s.notifier.Error("Failed to update profile", err.Error())
		return domain.UserProfile{}, err
	}
	s.notifier.Success("Profile updated", "Changes were saved")
	return updated, nil
}
