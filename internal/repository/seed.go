package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/iliyamo/sponsor-pass-manager/internal/model"
	"github.com/iliyamo/sponsor-pass-manager/internal/passapi"
)

type seedStatement struct {
	query string
	args  []any
}

const (
	seedSponsorSQL = `INSERT INTO sponsors (id, name, daily_rate, notes, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`
	seedPassSQL = `INSERT INTO sponsor_passes
  (id, sponsor_id, first_name, last_name, email, status, expires_at, created_at, updated_at, revoked_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
)

// seedStatements turns a data set into inserts that keep the given ids.
// Sponsors come first so every pass finds its sponsor row.
func seedStatements(sponsors []model.Sponsor, passes []model.SponsorPass) []seedStatement {
	out := make([]seedStatement, 0, len(sponsors)+len(passes))
	for _, s := range sponsors {
		var notes sql.NullString
		if s.Notes != nil {
			notes = sql.NullString{String: *s.Notes, Valid: true}
		}
		out = append(out, seedStatement{seedSponsorSQL, []any{
			s.ID, s.Name, s.DailyRate, notes, s.CreatedAt.UTC(), s.UpdatedAt.UTC(),
		}})
	}
	for _, p := range passes {
		out = append(out, seedStatement{seedPassSQL, []any{
			p.ID, p.Sponsor, p.FirstName, p.LastName, p.Email, string(p.Status),
			nullTime(p.ExpiresAt), p.CreatedAt.UTC(), p.UpdatedAt.UTC(), nullTime(p.RevokedAt),
		}})
	}
	return out
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

// SeedDemoData loads the demo data set into an empty database and reports
// whether it did.  Nothing is written once any sponsor exists.
func SeedDemoData(ctx context.Context, db *sql.DB) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM sponsors FOR UPDATE`).Scan(&n); err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	for i, st := range seedStatements(passapi.DemoSponsors(), passapi.DemoPasses()) {
		if _, err := tx.ExecContext(ctx, st.query, st.args...); err != nil {
			return false, fmt.Errorf("seed statement %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}
