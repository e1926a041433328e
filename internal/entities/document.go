package entities

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type Document struct {
	ID           string         `db:"id"`
	OwnerID      string         `db:"owner_id"`
	Title        string         `db:"title"`
	FileName     string         `db:"file_name"`
	FilePath     string         `db:"file_path"`
	Mime         string         `db:"mime"`
	Size         int64          `db:"size"`
	Type         string         `db:"type"`
	Description  sql.NullString `db:"description"`
	Tags         pq.StringArray `db:"tags"`
	IsPublic     bool           `db:"is_public"`
	EntityType   sql.NullString `db:"entity_type"`
	EntityID     sql.NullString `db:"entity_id"`
	ViewCount    int64          `db:"view_count"`
	LastViewedAt sql.NullTime   `db:"last_viewed_at"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	DeletedAt    sql.NullTime   `db:"deleted_at"`
	DeletedBy    sql.NullString `db:"deleted_by"`
}
