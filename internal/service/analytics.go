package service

import (
	"math"

	"github.com/zivahealth/admin-console/internal/domain"
)

// RiskGroupSlice is one segment of the risk-group distribution chart.
type RiskGroupSlice struct {
	Group   string  `json:"group"`
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// ActivitySummary aggregates headline counts for the dashboard cards.
type ActivitySummary struct {
	Total      int `json:"total"`
	Active     int `json:"active"`
	WithEvents int `json:"withEvents"`
}

// riskGroupOrder fixes chart segment ordering; unassigned renders last.
var riskGroupOrder = []*domain.RiskGroup{
	riskGroupPtr(domain.RiskGroupHigh),
	riskGroupPtr(domain.RiskGroupModerate),
	riskGroupPtr(domain.RiskGroupAverage),
	riskGroupPtr(domain.RiskGroupControl),
	nil,
}

// RiskGroupDistribution rolls combined profiles up into per-group counts
// and percentages. Percentages are rounded to one decimal and computed over
// all profiles, including unassigned ones.
func RiskGroupDistribution(profiles []domain.CombinedUserProfile) []RiskGroupSlice {
	counts := make(map[string]int)
	for _, p := range profiles {
		counts[riskGroupKey(p)]++
	}

	total := len(profiles)
	slices := make([]RiskGroupSlice, 0, len(riskGroupOrder))
	for _, group := range riskGroupOrder {
		key := "unassigned"
		if group != nil {
			key = string(*group)
		}
		count := counts[key]
		percent := 0.0
		if total > 0 {
			percent = math.Round(float64(count)/float64(total)*1000) / 10
		}
		slices = append(slices, RiskGroupSlice{
			Group:   key,
			Label:   domain.RiskGroupLabel(group),
			Count:   count,
			Percent: percent,
		})
	}
	return slices
}

// Summarize counts total, active, and event-active users in one pass.
func Summarize(profiles []domain.CombinedUserProfile) ActivitySummary {
	summary := ActivitySummary{Total: len(profiles)}
	for _, p := range profiles {
		if p.IsActive {
			summary.Active++
		}
		if p.HasEvents {
			summary.WithEvents++
		}
	}
	return summary
}

func riskGroupKey(p domain.CombinedUserProfile) string {
	if p.HealthProfile == nil || p.HealthProfile.RiskGroup == nil {
		return "unassigned"
	}
	return string(*p.HealthProfile.RiskGroup)
}

func riskGroupPtr(g domain.RiskGroup) *domain.RiskGroup {
	return &g
}
