package model

import "time"

// Sponsor is an organization paying for guest access.  Sponsors are owned
// by the partnerships service and are read-only from the panel's point of
// view.
//
// Fields:
//  ID        – sponsors.id
//  Name      – display name shown in the sponsor selector.
//  DailyRate – rate charged per guest day, already formatted (e.g. "$500").
//  Notes     – optional free text.
type Sponsor struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	DailyRate string    `json:"dailyRate" db:"daily_rate"`
	Notes     *string   `json:"notes" db:"notes"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Page is one slice of a paginated listing.  Count is the total number of
// rows the service matched, not len(Results).
type Page[T any] struct {
	Count   int `json:"count"`
	Results []T `json:"results"`
}
