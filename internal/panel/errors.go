package panel

import (
	"errors"

	"github.com/iliyamo/sponsor-pass-manager/internal/passapi"
)

// ErrorKind classifies a failed call to the partnerships service.
type ErrorKind string

const (
	KindSponsorLoad ErrorKind = "sponsor_load"
	KindPassLoad    ErrorKind = "pass_load"
	KindPassCreate  ErrorKind = "pass_create"
	KindPassRevoke  ErrorKind = "pass_revoke"
)

var fallbackMessages = map[ErrorKind]string{
	KindSponsorLoad: "Failed to load sponsors",
	KindPassLoad:    "Failed to load passes",
	KindPassCreate:  "Failed to create pass",
	KindPassRevoke:  "Failed to revoke pass",
}

// Error is what the panel shows when a service call fails.  Message is the
// service's own message when it sent one, otherwise the fallback for Kind.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Message: messageOf(kind, err), Err: err}
}

func messageOf(kind ErrorKind, err error) string {
	var apiErr *passapi.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fallbackMessages[kind]
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallbackMessages[kind]
}

// Guard errors.  These never reach the partnerships service.
var (
	ErrNoSponsorSelected = errors.New("no sponsor selected")
	ErrUnknownSponsor    = errors.New("sponsor not found")
	ErrMissingHolder     = errors.New("first name, last name and email are required")
	ErrInvalidExpiry     = errors.New("expiration date must be a valid date")
	ErrExpiryInPast      = errors.New("expiration date cannot be in the past")
	ErrSubmitInProgress  = errors.New("a pass is already being created")
	ErrPassNotRevocable  = errors.New("pass is not an active pass of the current list")
	ErrNoPendingRevoke   = errors.New("no revocation awaiting confirmation for this pass")
)
