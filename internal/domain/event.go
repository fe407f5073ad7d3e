package domain

import "time"

// Event is an append-only activity record owned by the platform API. The
// console only reads events, to derive activity flags and timelines.
type Event struct {
	ID        int64      `json:"id"`
	ProfileID int64      `json:"profileId"`
	Date      time.Time  `json:"date"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`
}

// EventPage mirrors the upstream paging envelope for event listings.
type EventPage struct {
	Data       []Event `json:"data"`
	Total      int     `json:"total"`
	Offset     int     `json:"offset"`
	Limit      int     `json:"limit"`
	TotalPages int     `json:"totalPages"`
}

// EventQuery captures the supported upstream event listing parameters.
// Zero values are omitted from the request.
type EventQuery struct {
	ProfileID *int64
	Limit     int
	Offset    int
	Search    string
	StartDate string
	EndDate   string
	SortBy    string
	SortOrder string
}
