package domain

// CombinedUserProfile is the denormalized, read-only merge of a user profile
// with its health profile and activity flag. It is rebuilt on every fetch
// cycle and never written back; mutations go through the underlying records.
type CombinedUserProfile struct {
	UserProfile
	HealthProfile *HealthProfile `json:"healthProfile,omitempty"`
	HasEvents     bool           `json:"hasEvents"`
}
