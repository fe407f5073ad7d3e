package domain

import "time"

// UserProfile is the canonical identity record owned by the platform API.
// Optional fields are pointers so that "absent" and "empty" stay distinct
// across the wire.
type UserProfile struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	FirstName   *string   `json:"firstName"`
	LastName    *string   `json:"lastName"`
	PhoneNumber *string   `json:"phoneNumber"`
	AvatarURL   *string   `json:"avatarUrl"`
	IsActive    bool      `json:"isActive"`
	LastLoginAt time.Time `json:"lastLoginAt"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	// DateOfBirth arrives either as a bare date or a full timestamp
	// depending on how the profile was created upstream, so it is kept
	// as the raw string and parsed where needed.
	DateOfBirth *string `json:"dateOfBirth"`
	Gender      *string `json:"gender"`
}

// ProfileUpdate carries the subset of profile fields the console may change.
// Nil fields are omitted from the request body and left untouched upstream.
type ProfileUpdate struct {
	FirstName   *string `json:"firstName,omitempty"`
	LastName    *string `json:"lastName,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	AvatarURL   *string `json:"avatarUrl,omitempty"`
}
