package domain

import "time"

// RiskGroup classifies a health profile. The upstream API stores it as a
// nullable string; a nil pointer means the profile is unassigned.
type RiskGroup string

const (
	RiskGroupHigh     RiskGroup = "high"
	RiskGroupModerate RiskGroup = "moderate"
	RiskGroupAverage  RiskGroup = "average"
	RiskGroupControl  RiskGroup = "control"
)

// Valid reports whether g is one of the closed set of risk groups.
func (g RiskGroup) Valid() bool {
	switch g {
	case RiskGroupHigh, RiskGroupModerate, RiskGroupAverage, RiskGroupControl:
		return true
	}
	return false
}

// Label returns the human-readable form shown in tables and notifications.
func (g RiskGroup) Label() string {
	switch g {
	case RiskGroupHigh:
		return "High Risk"
	case RiskGroupModerate:
		return "Moderate Risk"
	case RiskGroupAverage:
		return "Average Risk"
	case RiskGroupControl:
		return "Control Group"
	}
	return "Unassigned"
}

// RiskGroupLabel is the nil-tolerant form of Label.
func RiskGroupLabel(g *RiskGroup) string {
	if g == nil {
		return "Unassigned"
	}
	return g.Label()
}

// HealthProfile is the one-to-one satellite record keyed by the owning
// profile's ID. The API may return zero or many per profile; duplicates are
// resolved by the aggregation layer.
type HealthProfile struct {
	ID        int64      `json:"id"`
	ProfileID int64      `json:"profileId"`
	Frequency string     `json:"frequency"`
	RiskGroup *RiskGroup `json:"riskGroup"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Clone returns a deep copy so optimistic updates can snapshot and restore
// the profile without aliasing the RiskGroup pointer.
func (p HealthProfile) Clone() HealthProfile {
	out := p
	if p.RiskGroup != nil {
		g := *p.RiskGroup
		out.RiskGroup = &g
	}
	return out
}
