package models

import "time"

// Share is a revocable per-user grant on a document. At most one active
// (revoked_at IS NULL) share exists per (document, user) pair; re-sharing
// the same pair updates the grant in place.
type Share struct {
	ID           string     `json:"id"`
	DocumentID   string     `json:"document_id"`
	SharedWithID string     `json:"shared_with_id"`
	CanEdit      bool       `json:"can_edit"`
	CanDelete    bool       `json:"can_delete"`
	SharedAt     time.Time  `json:"shared_at"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	RevokedAt    *time.Time `json:"revoked_at,omitempty"`
	RevokedBy    string     `json:"revoked_by,omitempty"`
}

func (s *Share) IsActive() bool {
	return s.RevokedAt == nil
}

// SharePatch is a partial permission update; nil fields are left untouched.
type SharePatch struct {
	CanEdit   *bool `json:"can_edit"`
	CanDelete *bool `json:"can_delete"`
}
