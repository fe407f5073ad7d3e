package upstream

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/zivahealth/admin-console/internal/domain"
)

// NormalizeHealthProfilePayload maps the three response shapes the
// health-profile-by-profile endpoint is known to produce onto one optional
// record: an empty body or empty array means no profile, a non-empty array
// yields its first element, and a bare object yields itself. The backend
// contract here is unstable, so all variants are handled rather than
// guessing which one is canonical.
func NormalizeHealthProfilePayload(body []byte) (*domain.HealthProfile, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	switch trimmed[0] {
	case '[':
		var profiles []domain.HealthProfile
		if err := json.Unmarshal(trimmed, &profiles); err != nil {
			return nil, fmt.Errorf("decode health profile list: %w", err)
		}
		if len(profiles) == 0 {
			return nil, nil
		}
		first := profiles[0]
		return &first, nil
	case '{':
		var profile domain.HealthProfile
		if err := json.Unmarshal(trimmed, &profile); err != nil {
			return nil, fmt.Errorf("decode health profile: %w", err)
		}
		return &profile, nil
	default:
		return nil, fmt.Errorf("unexpected health profile payload: %s", snippet(trimmed))
	}
}

func snippet(body []byte) string {
	const max = 64
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
