package upstream

import (
	"context"
	"sync"
	"time"

	"github.com/zivahealth/admin-console/internal/domain"
)

// MemoryClient is an in-memory implementation of the Client interface used
// for unit testing and for the local stub of the platform API. It is safe
// for concurrent use.
type MemoryClient struct {
	mu             sync.Mutex
	profiles       []domain.UserProfile
	healthProfiles []domain.HealthProfile
	events         []domain.Event

	profilesErr       error
	healthProfilesErr error
	eventsErr         error
	eventsErrByID     map[int64]error
	updateErr         error
	riskGroupErr      error

	riskGroupCalls []RiskGroupCall
	nowFn          func() time.Time
}

// RiskGroupCall records one UpdateRiskGroup invocation for assertions.
type RiskGroupCall struct {
	HealthProfileID int64
	Group           *domain.RiskGroup
}

// NewMemoryClient instantiates an empty in-memory client.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		eventsErrByID: make(map[int64]error),
		nowFn:         time.Now,
	}
}

// SeedProfiles replaces the stored user profiles.
func (m *MemoryClient) SeedProfiles(profiles []domain.UserProfile) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles = append([]domain.UserProfile(nil), profiles...)
	return m
}

// SeedHealthProfiles replaces the stored health profiles.
func (m *MemoryClient) SeedHealthProfiles(profiles []domain.HealthProfile) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.healthProfiles = append([]domain.HealthProfile(nil), profiles...)
	return m
}

// SeedEvents replaces the stored events.
func (m *MemoryClient) SeedEvents(events []domain.Event) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append([]domain.Event(nil), events...)
	return m
}

// WithProfilesError forces ListProfiles and GetProfile to fail.
func (m *MemoryClient) WithProfilesError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profilesErr = err
	return m
}

// WithHealthProfilesError forces health profile reads to fail.
func (m *MemoryClient) WithHealthProfilesError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.healthProfilesErr = err
	return m
}

// WithEventsError forces all event reads to fail.
func (m *MemoryClient) WithEventsError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventsErr = err
	return m
}

// WithEventsErrorFor forces the event-existence check for one profile to fail.
func (m *MemoryClient) WithEventsErrorFor(profileID int64, err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventsErrByID[profileID] = err
	return m
}

// WithUpdateError forces UpdateProfile to fail.
func (m *MemoryClient) WithUpdateError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateErr = err
	return m
}

// WithRiskGroupError forces UpdateRiskGroup to fail.
func (m *MemoryClient) WithRiskGroupError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.riskGroupErr = err
	return m
}

// WithClock overrides the time source used for synthesized timestamps.
func (m *MemoryClient) WithClock(nowFn func() time.Time) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	if nowFn != nil {
		m.nowFn = nowFn
	}
	return m
}

func (m *MemoryClient) ListProfiles(context.Context) ([]domain.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.profilesErr != nil {
		return nil, m.profilesErr
	}
	return append([]domain.UserProfile(nil), m.profiles...), nil
}

func (m *MemoryClient) GetProfile(_ context.Context, id int64) (domain.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.profilesErr != nil {
		return domain.UserProfile{}, m.profilesErr
	}
	for _, p := range m.profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.UserProfile{}, ErrNotFound
}

func (m *MemoryClient) UpdateProfile(_ context.Context, id int64, update domain.ProfileUpdate) (domain.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return domain.UserProfile{}, m.updateErr
	}
	for i := range m.profiles {
		if m.profiles[i].ID != id {
			continue
		}
		if update.FirstName != nil {
			m.profiles[i].FirstName = update.FirstName
		}
		if update.LastName != nil {
			m.profiles[i].LastName = update.LastName
		}
		if update.PhoneNumber != nil {
			m.profiles[i].PhoneNumber = update.PhoneNumber
		}
		if update.AvatarURL != nil {
			m.profiles[i].AvatarURL = update.AvatarURL
		}
		m.profiles[i].UpdatedAt = m.nowFn().UTC()
		return m.profiles[i], nil
	}
	return domain.UserProfile{}, ErrNotFound
}

func (m *MemoryClient) ListHealthProfiles(context.Context) ([]domain.HealthProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.healthProfilesErr != nil {
		return nil, m.healthProfilesErr
	}
	out := make([]domain.HealthProfile, 0, len(m.healthProfiles))
	for _, hp := range m.healthProfiles {
		out = append(out, hp.Clone())
	}
	return out, nil
}

func (m *MemoryClient) GetHealthProfileByProfile(_ context.Context, profileID int64) (*domain.HealthProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.healthProfilesErr != nil {
		return nil, m.healthProfilesErr
	}
	for _, hp := range m.healthProfiles {
		if hp.ProfileID == profileID {
			clone := hp.Clone()
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *MemoryClient) UpdateRiskGroup(_ context.Context, healthProfileID int64, group *domain.RiskGroup) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	call := RiskGroupCall{HealthProfileID: healthProfileID}
	if group != nil {
		g := *group
		call.Group = &g
	}
	m.riskGroupCalls = append(m.riskGroupCalls, call)

	if m.riskGroupErr != nil {
		return m.riskGroupErr
	}
	for i := range m.healthProfiles {
		if m.healthProfiles[i].ID != healthProfileID {
			continue
		}
		m.healthProfiles[i].RiskGroup = call.Group
		m.healthProfiles[i].UpdatedAt = m.nowFn().UTC()
		return nil
	}
	return ErrNotFound
}

func (m *MemoryClient) ListEvents(_ context.Context, query domain.EventQuery) (domain.EventPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.eventsErr != nil {
		return domain.EventPage{}, m.eventsErr
	}
	if query.ProfileID != nil {
		if err := m.eventsErrByID[*query.ProfileID]; err != nil {
			return domain.EventPage{}, err
		}
	}

	matched := make([]domain.Event, 0, len(m.events))
	for _, ev := range m.events {
		if query.ProfileID != nil && ev.ProfileID != *query.ProfileID {
			continue
		}
		matched = append(matched, ev)
	}

	total := len(matched)
	limit := query.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := query.Offset
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	totalPages := (total + limit - 1) / limit
	return domain.EventPage{
		Data:       append([]domain.Event(nil), matched[offset:end]...),
		Total:      total,
		Offset:     offset,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

func (m *MemoryClient) ProfileHasEvents(ctx context.Context, profileID int64) (bool, error) {
	page, err := m.ListEvents(ctx, domain.EventQuery{ProfileID: &profileID, Limit: 1})
	if err != nil {
		return false, err
	}
	return page.Total > 0, nil
}

// RiskGroupCalls returns a snapshot of recorded UpdateRiskGroup calls.
func (m *MemoryClient) RiskGroupCalls() []RiskGroupCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RiskGroupCall(nil), m.riskGroupCalls...)
}
