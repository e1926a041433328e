package entities

import (
	"database/sql"
	"time"
)

type Share struct {
	ID           string         `db:"id"`
	DocumentID   string         `db:"document_id"`
	SharedWithID string         `db:"shared_with_id"`
	CanEdit      bool           `db:"can_edit"`
	CanDelete    bool           `db:"can_delete"`
	SharedAt     time.Time      `db:"shared_at"`
	ExpiresAt    sql.NullTime   `db:"expires_at"`
	RevokedAt    sql.NullTime   `db:"revoked_at"`
	RevokedBy    sql.NullString `db:"revoked_by"`
}
