// Package repository is the MySQL storage of the partnerships backend.  It
// reuses the passapi sentinel errors so the HTTP layer maps storage
// failures the same way whichever Service backs it.
package repository

import (
	"errors"

	"github.com/iliyamo/sponsor-pass-manager/internal/passapi"
)

var (
	// ErrSponsorNotFound is returned when a sponsor id has no row.
	ErrSponsorNotFound = passapi.ErrSponsorNotFound
	// ErrPassNotFound is returned when a pass id has no row.
	ErrPassNotFound = passapi.ErrPassNotFound
	// ErrAlreadyRevoked is returned when revoking a revoked pass.
	ErrAlreadyRevoked = passapi.ErrAlreadyRevoked
	// ErrCorruptStatus flags a row whose status column holds an unknown
	// value.
	ErrCorruptStatus = errors.New("unknown pass status in storage")
)
