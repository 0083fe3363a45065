package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/sponsor-pass-manager/internal/model"
	"github.com/iliyamo/sponsor-pass-manager/internal/passapi"
)

// Store serves passapi.Service from MySQL.
type Store struct {
	Sponsors *SponsorRepo
	Passes   *PassRepo
	now      func() time.Time
}

var _ passapi.Service = (*Store)(nil)

// NewStore builds a Store over db.
func NewStore(db *sql.DB) *Store {
	return &Store{Sponsors: NewSponsorRepo(db), Passes: NewPassRepo(db), now: time.Now}
}

func (s *Store) ListSponsors(ctx context.Context) (model.Page[model.Sponsor], error) {
	list, err := s.Sponsors.List(ctx)
	if err != nil {
		return model.Page[model.Sponsor]{}, err
	}
	return model.Page[model.Sponsor]{Count: len(list), Results: list}, nil
}

func (s *Store) ListActiveSponsorPasses(ctx context.Context, p passapi.PageParams) (model.Page[model.SponsorPass], error) {
	return s.list(ctx, false, p.Limit, p.Offset)
}

func (s *Store) ListAllSponsorPasses(ctx context.Context, p passapi.ListAllParams) (model.Page[model.SponsorPass], error) {
	return s.list(ctx, p.IncludeRevoked, p.Limit, p.Offset)
}

func (s *Store) list(ctx context.Context, includeRevoked bool, limit, offset int) (model.Page[model.SponsorPass], error) {
	passes, total, err := s.Passes.List(ctx, includeRevoked, limit, offset)
	if err != nil {
		return model.Page[model.SponsorPass]{}, err
	}
	return model.Page[model.SponsorPass]{Count: total, Results: passes}, nil
}

func (s *Store) CreateSponsorPass(ctx context.Context, req passapi.CreatePassRequest) (model.SponsorPass, error) {
	p := model.SponsorPass{
		Sponsor:   req.Sponsor,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.TrimSpace(req.Email),
		ExpiresAt: req.ExpiresAt,
	}
	if p.FirstName == "" || p.LastName == "" || p.Email == "" {
		return model.SponsorPass{}, passapi.ErrInvalidPass
	}
	if _, err := s.Sponsors.GetByID(ctx, req.Sponsor); err != nil {
		return model.SponsorPass{}, err
	}
	return s.Passes.Create(ctx, p)
}

func (s *Store) RevokeSponsorPass(ctx context.Context, req passapi.RevokePassRequest) error {
	return s.Passes.Revoke(ctx, req.ID, s.now())
}
