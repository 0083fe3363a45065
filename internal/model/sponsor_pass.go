package model

import "time"

// PassStatus is the lifecycle state of a sponsor pass.  The only
// transition is active -> revoked.
type PassStatus string

const (
	PassActive  PassStatus = "active"
	PassRevoked PassStatus = "revoked"
)

// Valid reports whether s is a known status.
func (s PassStatus) Valid() bool {
	return s == PassActive || s == PassRevoked
}

// SponsorPass is a credential issued to a named guest under a sponsor.
// RevokedAt is non-nil exactly when Status is PassRevoked.  ExpiresAt is
// nil for passes that never expire.
type SponsorPass struct {
	ID          int64      `json:"id" db:"id"`
	Sponsor     int64      `json:"sponsor" db:"sponsor_id"`
	SponsorName string     `json:"sponsorName" db:"-"`
	FirstName   string     `json:"firstName" db:"first_name"`
	LastName    string     `json:"lastName" db:"last_name"`
	Email       string     `json:"email" db:"email"`
	Status      PassStatus `json:"status" db:"status"`
	ExpiresAt   *time.Time `json:"expiresAt" db:"expires_at"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
	RevokedAt   *time.Time `json:"revokedAt" db:"revoked_at"`
}

// HolderName is the name used in confirmations and notices.
func (p SponsorPass) HolderName() string {
	return p.FirstName + " " + p.LastName
}

// Active reports whether the pass can still be revoked.
func (p SponsorPass) Active() bool {
	return p.Status == PassActive
}
