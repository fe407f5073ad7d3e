package service

import (
	"testing"

	"github.com/zivahealth/admin-console/internal/domain"
)

func combinedWithGroup(g *domain.RiskGroup) domain.CombinedUserProfile {
	return domain.CombinedUserProfile{
		HealthProfile: &domain.HealthProfile{RiskGroup: g},
	}
}

func TestRiskGroupDistribution(t *testing.T) {
	profiles := []domain.CombinedUserProfile{
		combinedWithGroup(riskGroup(domain.RiskGroupHigh)),
		combinedWithGroup(riskGroup(domain.RiskGroupHigh)),
		combinedWithGroup(riskGroup(domain.RiskGroupControl)),
		combinedWithGroup(nil),
		{}, // no health profile at all counts as unassigned
		combinedWithGroup(riskGroup(domain.RiskGroupAverage)),
	}

	slices := RiskGroupDistribution(profiles)
	if len(slices) != 5 {
		t.Fatalf("expected 5 segments, got %d", len(slices))
	}

	byGroup := make(map[string]RiskGroupSlice, len(slices))
	for _, s := range slices {
		byGroup[s.Group] = s
	}

	if got := byGroup["high"]; got.Count != 2 || got.Percent != 33.3 {
		t.Fatalf("unexpected high segment: %+v", got)
	}
	if got := byGroup["moderate"]; got.Count != 0 || got.Percent != 0 {
		t.Fatalf("unexpected moderate segment: %+v", got)
	}
	if got := byGroup["unassigned"]; got.Count != 2 || got.Label != "Unassigned" {
		t.Fatalf("unexpected unassigned segment: %+v", got)
	}

	// Segment order is fixed; unassigned renders last.
	if slices[0].Group != "high" || slices[4].Group != "unassigned" {
		t.Fatalf("unexpected segment order: %+v", slices)
	}
}

func TestRiskGroupDistributionEmpty(t *testing.T) {
	slices := RiskGroupDistribution(nil)
	if len(slices) != 5 {
		t.Fatalf("expected 5 segments, got %d", len(slices))
	}
	for _, s := range slices {
		if s.Count != 0 || s.Percent != 0 {
			t.Fatalf("expected empty segment, got %+v", s)
		}
	}
}

func TestSummarize(t *testing.T) {
	profiles := []domain.CombinedUserProfile{
		{UserProfile: domain.UserProfile{IsActive: true}, HasEvents: true},
		{UserProfile: domain.UserProfile{IsActive: true}},
		{UserProfile: domain.UserProfile{IsActive: false}, HasEvents: true},
	}

	got := Summarize(profiles)
	if got.Total != 3 || got.Active != 2 || got.WithEvents != 2 {
		t.Fatalf("unexpected summary: %+v", got)
	}
}
