package utils // package utils provides helpers for host tokens and date display

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// HostToken is a signed session token as issued by the wallet host.
type HostToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewHostToken signs an HS256 JWT carrying the manager id as subject and
// the given role.  The wallet host issues these in production; this is
// used for local development and tests.
func NewHostToken(secret, managerID, role string, ttl time.Duration) (HostToken, error) {
	if secret == "" {
		return HostToken{}, errors.New("empty signing secret")
	}
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":  managerID,
		"role": role,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return HostToken{}, err
	}
	return HostToken{Token: signed, Exp: exp}, nil
}
