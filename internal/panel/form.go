package panel

import (
	"strings"
	"time"
)

// dateLayout is what a date input submits.
const dateLayout = "2006-01-02"

// FormValues are the raw fields of the create form, kept as typed so a
// failed submission can be shown again unchanged.
type FormValues struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	ExpiresAt string `json:"expiresAt"`
}

// CreateForm is the state of the create-pass surface.
type CreateForm struct {
	Open       bool       `json:"open"`
	Submitting bool       `json:"submitting"`
	Values     FormValues `json:"values"`
	Error      string     `json:"error,omitempty"`
}

// Notice is a transient success message.
type Notice struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// parseExpiry reads an optional expiration date.  A bare date means
// midnight UTC of that day.  Dates before today (UTC) are rejected.
func parseExpiry(raw string, now time.Time) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		t, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, ErrInvalidExpiry
		}
	}
	t = t.UTC()
	today := now.UTC().Truncate(24 * time.Hour)
	if t.Before(today) {
		return nil, ErrExpiryInPast
	}
	return &t, nil
}

func (v FormValues) input(expiresAt *time.Time) CreatePassInput {
	return CreatePassInput{
		FirstName: v.FirstName,
		LastName:  v.LastName,
		Email:     v.Email,
		ExpiresAt: expiresAt,
	}
}
