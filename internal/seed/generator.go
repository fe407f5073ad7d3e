package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/zivahealth/admin-console/internal/domain"
)

// Config drives the synthetic platform dataset.
type Config struct {
	NumUsers int
	// HealthProfileChance is the probability a user has a health profile.
	HealthProfileChance float64
	// EventChance is the probability a user has any events at all.
	EventChance  float64
	MaxEventsPer int
	Seed         int64
}

// DefaultConfig returns baseline settings for a believable demo dataset.
func DefaultConfig() Config {
	return Config{
		NumUsers:            40,
		HealthProfileChance: 0.8,
		EventChance:         0.6,
		MaxEventsPer:        6,
		Seed:                42,
	}
}

// Dataset contains generated platform records.
type Dataset struct {
	Profiles       []domain.UserProfile
	HealthProfiles []domain.HealthProfile
	Events         []domain.Event
}

var (
	firstNames = []string{"Ava", "Noah", "Mia", "Liam", "Zoe", "Ethan", "Ivy", "Lucas", "Nora", "Owen", "Ruby", "Felix"}
	lastNames  = []string{"Hart", "Nguyen", "Silva", "Berg", "Okafor", "Laine", "Moreau", "Kovac", "Tanaka", "Reyes"}
	genders    = []string{"female", "male", "other"}
	riskGroups = []domain.RiskGroup{
		domain.RiskGroupHigh,
		domain.RiskGroupModerate,
		domain.RiskGroupAverage,
		domain.RiskGroupControl,
	}
	frequencies = []string{"daily", "weekly", "biweekly", "monthly"}
)

// Generate synthesizes a deterministic dataset for the given config.
func Generate(cfg Config) Dataset {
	if cfg.NumUsers <= 0 {
		cfg.NumUsers = DefaultConfig().NumUsers
	}
	if cfg.MaxEventsPer <= 0 {
		cfg.MaxEventsPer = DefaultConfig().MaxEventsPer
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	now := time.Now().UTC().Truncate(time.Hour)

	var ds Dataset
	healthID := int64(1)
	eventID := int64(1)

	for i := 0; i < cfg.NumUsers; i++ {
		id := int64(i + 1)
		first := firstNames[rng.Intn(len(firstNames))]
		last := lastNames[rng.Intn(len(lastNames))]
		email := fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), id)

		createdAt := now.Add(-time.Duration(rng.Intn(365*24)) * time.Hour)
		lastLogin := now.Add(-time.Duration(rng.Intn(30*24)) * time.Hour)
		dob := fmt.Sprintf("%d-%02d-%02d", 1950+rng.Intn(55), 1+rng.Intn(12), 1+rng.Intn(28))
		gender := genders[rng.Intn(len(genders))]

		profile := domain.UserProfile{
			ID:          id,
			Email:       email,
			FirstName:   &first,
			LastName:    &last,
			IsActive:    rng.Float64() < 0.85,
			LastLoginAt: lastLogin,
			CreatedAt:   createdAt,
			UpdatedAt:   createdAt,
			DateOfBirth: &dob,
			Gender:      &gender,
		}
		ds.Profiles = append(ds.Profiles, profile)

		if rng.Float64() < cfg.HealthProfileChance {
			hp := domain.HealthProfile{
				ID:        healthID,
				ProfileID: id,
				Frequency: frequencies[rng.Intn(len(frequencies))],
				CreatedAt: createdAt,
				UpdatedAt: createdAt,
			}
			// Roughly one in five assigned profiles stays unassigned.
			if rng.Float64() < 0.8 {
				g := riskGroups[rng.Intn(len(riskGroups))]
				hp.RiskGroup = &g
			}
			ds.HealthProfiles = append(ds.HealthProfiles, hp)
			healthID++
		}

		if rng.Float64() < cfg.EventChance {
			n := 1 + rng.Intn(cfg.MaxEventsPer)
			for j := 0; j < n; j++ {
				when := now.Add(-time.Duration(rng.Intn(90*24)) * time.Hour)
				ds.Events = append(ds.Events, domain.Event{
					ID:        eventID,
					ProfileID: id,
					Date:      when,
					CreatedAt: when,
				})
				eventID++
			}
		}
	}

	return ds
}
