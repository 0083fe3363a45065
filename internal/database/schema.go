package database

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS sponsors (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name       VARCHAR(255) NOT NULL,
		daily_rate VARCHAR(32) NOT NULL,
		notes      TEXT NULL,
		created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		updated_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6) ON UPDATE CURRENT_TIMESTAMP(6)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS sponsor_passes (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		sponsor_id BIGINT UNSIGNED NOT NULL,
		first_name VARCHAR(255) NOT NULL,
		last_name  VARCHAR(255) NOT NULL,
		email      VARCHAR(320) NOT NULL,
		status     ENUM('active','revoked') NOT NULL DEFAULT 'active',
		expires_at DATETIME(6) NULL,
		created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		updated_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		revoked_at DATETIME(6) NULL,
		KEY idx_sponsor_passes_status (status, id),
		CONSTRAINT fk_sponsor_passes_sponsor FOREIGN KEY (sponsor_id) REFERENCES sponsors(id),
		CONSTRAINT chk_sponsor_passes_revoked CHECK ((status = 'revoked') = (revoked_at IS NOT NULL))
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates the partnerships tables when missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}
