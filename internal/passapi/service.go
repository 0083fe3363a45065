// Package passapi is the boundary to the partnerships service that owns
// sponsors and sponsor passes.  The panel never persists anything itself;
// every read and write goes through a Service.
package passapi

import (
	"context"
	"time"

	"github.com/iliyamo/sponsor-pass-manager/internal/model"
)

// PageParams selects a window of a listing.  Offset is zero-based.
type PageParams struct {
	Limit  int
	Offset int
}

// ListAllParams is PageParams plus the revoked switch of the "all passes"
// endpoint.  The panel always sends IncludeRevoked=true.
type ListAllParams struct {
	Limit          int
	Offset         int
	IncludeRevoked bool
}

// CreatePassRequest is the body of a create call.  ExpiresAt is optional.
type CreatePassRequest struct {
	Sponsor   int64      `json:"sponsor"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Email     string     `json:"email"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// RevokePassRequest identifies the pass to revoke.
type RevokePassRequest struct {
	ID int64 `json:"id"`
}

// Service is the set of partnerships calls the panel consumes.  Listing
// endpoints are not guaranteed to scope results to a single sponsor.
type Service interface {
	ListSponsors(ctx context.Context) (model.Page[model.Sponsor], error)
	ListActiveSponsorPasses(ctx context.Context, p PageParams) (model.Page[model.SponsorPass], error)
	ListAllSponsorPasses(ctx context.Context, p ListAllParams) (model.Page[model.SponsorPass], error)
	CreateSponsorPass(ctx context.Context, req CreatePassRequest) (model.SponsorPass, error)
	RevokeSponsorPass(ctx context.Context, req RevokePassRequest) error
}
