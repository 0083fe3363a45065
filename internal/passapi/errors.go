package passapi

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors returned by Service implementations.  The HTTP surface of
// the partnerships service maps them to status codes and Client maps the
// status codes back, so callers can use errors.Is on either side.
var (
	ErrSponsorNotFound = errors.New("sponsor not found")
	ErrPassNotFound    = errors.New("pass not found")
	ErrAlreadyRevoked  = errors.New("pass already revoked")
	ErrInvalidPass     = errors.New("firstName, lastName and email are required")
)

// APIError is a non-2xx answer from the partnerships service.  Message is
// the text the service put in its error body, verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("partnerships: unexpected status %d", e.Status)
}

// Is lets errors.Is match an APIError against the sentinels above.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrSponsorNotFound, ErrPassNotFound:
		return e.Status == http.StatusNotFound && e.Message == target.Error()
	case ErrAlreadyRevoked:
		return e.Status == http.StatusConflict
	case ErrInvalidPass:
		return e.Status == http.StatusBadRequest && e.Message == target.Error()
	}
	return false
}

// StatusFor maps a Service error to the HTTP status the partnerships
// surface answers with.
func StatusFor(err error) int {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Status
	case errors.Is(err, ErrSponsorNotFound), errors.Is(err, ErrPassNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyRevoked):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidPass):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
