package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/sponsor-pass-manager/internal/model"
)

// SponsorRepo reads the sponsors table.
type SponsorRepo struct {
	db *sql.DB
}

// NewSponsorRepo constructs a SponsorRepo with the provided DB handle.
func NewSponsorRepo(db *sql.DB) *SponsorRepo {
	return &SponsorRepo{db: db}
}

const sponsorColumns = "id, name, daily_rate, notes, created_at, updated_at"

func scanSponsor(row interface{ Scan(...any) error }) (model.Sponsor, error) {
	var (
		s     model.Sponsor
		notes sql.NullString
	)
	if err := row.Scan(&s.ID, &s.Name, &s.DailyRate, &notes, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return model.Sponsor{}, err
	}
	if notes.Valid {
		s.Notes = &notes.String
	}
	return s, nil
}

// List returns every sponsor ordered by id.
func (r *SponsorRepo) List(ctx context.Context) ([]model.Sponsor, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+sponsorColumns+" FROM sponsors ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Sponsor{}
	for rows.Next() {
		s, err := scanSponsor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetByID fetches one sponsor.  It returns ErrSponsorNotFound when no row
// matches.
func (r *SponsorRepo) GetByID(ctx context.Context, id int64) (model.Sponsor, error) {
	s, err := scanSponsor(r.db.QueryRowContext(ctx, "SELECT "+sponsorColumns+" FROM sponsors WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Sponsor{}, ErrSponsorNotFound
	}
	return s, err
}
