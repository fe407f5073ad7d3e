// Package display holds the single-pass derivations tables sort and search
// on: display names, ages, relative login times, and status labels.
package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/zivahealth/admin-console/internal/domain"
)

// Name derives the display name for a profile: first+last, then either
// alone, then the email local part.
func Name(p domain.UserProfile) string {
	first := deref(p.FirstName)
	last := deref(p.LastName)
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	case last != "":
		return last
	}
	if at := strings.Index(p.Email, "@"); at > 0 {
		return p.Email[:at]
	}
	return p.Email
}

// Initials returns up to two uppercase initials for the avatar fallback.
func Initials(p domain.UserProfile) string {
	parts := strings.Fields(Name(p))
	initials := ""
	for _, part := range parts {
		initials += strings.ToUpper(part[:1])
		if len(initials) == 2 {
			break
		}
	}
	return initials
}

// dateOfBirth layouts seen upstream, tried in order.
var birthLayouts = []string{"2006-01-02", time.RFC3339}

// Age computes whole years from a date of birth at the reference time.
// A missing or unparseable date yields ok=false.
func Age(dateOfBirth *string, at time.Time) (int, bool) {
	if dateOfBirth == nil || *dateOfBirth == "" {
		return 0, false
	}

	var born time.Time
	parsed := false
	for _, layout := range birthLayouts {
		if t, err := time.Parse(layout, *dateOfBirth); err == nil {
			born = t
			parsed = true
			break
		}
	}
	if !parsed {
		return 0, false
	}

	years := at.Year() - born.Year()
	anniversary := time.Date(at.Year(), born.Month(), born.Day(), 0, 0, 0, 0, time.UTC)
	if at.Before(anniversary) {
		years--
	}
	if years < 0 {
		return 0, false
	}
	return years, true
}

// TimeSinceLogin buckets a last-login timestamp the way the dashboard shows
// it: "Just now", hours, "Yesterday", days, then a formatted date.
func TimeSinceLogin(lastLogin, now time.Time) string {
	hours := int(now.Sub(lastLogin).Hours())
	switch {
	case hours < 1:
		return "Just now"
	case hours < 24:
		return fmt.Sprintf("%dh ago", hours)
	case hours < 48:
		return "Yesterday"
	case hours < 168:
		return fmt.Sprintf("%dd ago", hours/24)
	}
	return lastLogin.Format("Jan 2, 2006")
}

// ActiveLabel maps the boolean active flag to its table label.
func ActiveLabel(active bool) string {
	if active {
		return "Active"
	}
	return "Inactive"
}

// BatteryLevel buckets a device battery percentage for badge colouring.
func BatteryLevel(battery int) string {
	switch {
	case battery < 30:
		return "low"
	case battery < 60:
		return "medium"
	}
	return "high"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
