package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/sponsor-pass-manager/internal/model"
)

// PassRepo persists sponsor passes.  Listing is global across sponsors, the
// way the partnerships API exposes it.
type PassRepo struct {
	db *sql.DB
}

// NewPassRepo constructs a PassRepo with the provided DB handle.
func NewPassRepo(db *sql.DB) *PassRepo {
	return &PassRepo{db: db}
}

const passSelect = `SELECT p.id, p.sponsor_id, s.name, p.first_name, p.last_name, p.email, p.status,
       p.expires_at, p.created_at, p.updated_at, p.revoked_at
  FROM sponsor_passes p
  JOIN sponsors s ON s.id = p.sponsor_id`

func scanPass(row interface{ Scan(...any) error }) (model.SponsorPass, error) {
	var (
		p                  model.SponsorPass
		status             string
		expires, revokedAt sql.NullTime
	)
	if err := row.Scan(&p.ID, &p.Sponsor, &p.SponsorName, &p.FirstName, &p.LastName, &p.Email, &status,
		&expires, &p.CreatedAt, &p.UpdatedAt, &revokedAt); err != nil {
		return model.SponsorPass{}, err
	}
	p.Status = model.PassStatus(status)
	if !p.Status.Valid() {
		return model.SponsorPass{}, fmt.Errorf("pass %d: %w: %q", p.ID, ErrCorruptStatus, status)
	}
	if expires.Valid {
		t := expires.Time.UTC()
		p.ExpiresAt = &t
	}
	if revokedAt.Valid {
		t := revokedAt.Time.UTC()
		p.RevokedAt = &t
	}
	return p, nil
}

// List returns one page of passes ordered by id plus the total number of
// matching rows.  Revoked passes are only included when includeRevoked is
// set.
func (r *PassRepo) List(ctx context.Context, includeRevoked bool, limit, offset int) ([]model.SponsorPass, int, error) {
	where := " WHERE p.status = 'active'"
	if includeRevoked {
		where = ""
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sponsor_passes p"+where).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, passSelect+where+" ORDER BY p.id LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []model.SponsorPass{}
	for rows.Next() {
		p, err := scanPass(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// GetByID fetches one pass with its sponsor name.
func (r *PassRepo) GetByID(ctx context.Context, id int64) (model.SponsorPass, error) {
	p, err := scanPass(r.db.QueryRowContext(ctx, passSelect+" WHERE p.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.SponsorPass{}, ErrPassNotFound
	}
	return p, err
}

// Create inserts an active pass and returns the stored row.
func (r *PassRepo) Create(ctx context.Context, p model.SponsorPass) (model.SponsorPass, error) {
	const q = `INSERT INTO sponsor_passes (sponsor_id, first_name, last_name, email, status, expires_at)
	           VALUES (?, ?, ?, ?, 'active', ?)`
	var expires sql.NullTime
	if p.ExpiresAt != nil {
		expires = sql.NullTime{Time: p.ExpiresAt.UTC(), Valid: true}
	}
	res, err := r.db.ExecContext(ctx, q, p.Sponsor, p.FirstName, p.LastName, p.Email, expires)
	if err != nil {
		return model.SponsorPass{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.SponsorPass{}, err
	}
	return r.GetByID(ctx, id)
}

// Revoke moves an active pass to revoked inside a transaction.  The status
// never goes back, so revoking twice returns ErrAlreadyRevoked.
func (r *PassRepo) Revoke(ctx context.Context, id int64, at time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var status string
	err = tx.QueryRowContext(ctx, "SELECT status FROM sponsor_passes WHERE id = ? FOR UPDATE", id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPassNotFound
	}
	if err != nil {
		return err
	}
	if model.PassStatus(status) == model.PassRevoked {
		return ErrAlreadyRevoked
	}

	const upd = `UPDATE sponsor_passes SET status = 'revoked', revoked_at = ?, updated_at = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, upd, at.UTC(), at.UTC(), id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
