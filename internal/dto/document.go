package dto

import (
	"mime/multipart"
	"time"

	"docvault/internal/models"
)

type UploadDocumentRequest struct {
	Meta UploadMeta
	File multipart.File
}

type UploadMeta struct {
	Title       string   `json:"title"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	IsPublic    bool     `json:"public"`
	EntityType  string   `json:"entity_type"`
	EntityID    string   `json:"entity_id"`
}

type DocumentResponse struct {
	ID           string     `json:"id"`
	OwnerID      string     `json:"owner_id"`
	Title        string     `json:"title"`
	FileName     string     `json:"file_name"`
	Mime         string     `json:"mime"`
	Size         int64      `json:"size"`
	Type         string     `json:"type"`
	Description  string     `json:"description,omitempty"`
	Tags         []string   `json:"tags"`
	IsPublic     bool       `json:"public"`
	EntityType   string     `json:"entity_type,omitempty"`
	EntityID     string     `json:"entity_id,omitempty"`
	ViewCount    int64      `json:"view_count"`
	LastViewedAt *time.Time `json:"last_viewed,omitempty"`
	CreatedAt    time.Time  `json:"created"`
	UpdatedAt    time.Time  `json:"updated"`
	DeletedAt    *time.Time `json:"deleted,omitempty"`
}

func NewDocumentResponse(doc *models.Document) DocumentResponse {
	resp := DocumentResponse{
		ID:           doc.ID,
		OwnerID:      doc.OwnerID,
		Title:        doc.Title,
		FileName:     doc.FileName,
		Mime:         doc.Mime,
		Size:         doc.Size,
		Type:         string(doc.Type),
		Description:  doc.Description,
		Tags:         doc.Tags,
		IsPublic:     doc.IsPublic,
		ViewCount:    doc.ViewCount,
		LastViewedAt: doc.LastViewedAt,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
		DeletedAt:    doc.DeletedAt,
	}

	if doc.Entity != nil {
		resp.EntityType = string(doc.Entity.Type)
		resp.EntityID = doc.Entity.ID
	}

	return resp
}

type LinkRequest struct {
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
}

type UnlinkRequest struct {
	EntityType string `json:"entity_type"`
}

type UpsertSharesRequest struct {
	UserIDs   []string   `json:"user_ids"`
	CanEdit   bool       `json:"can_edit"`
	CanDelete bool       `json:"can_delete"`
	ExpiresAt *time.Time `json:"expires_at"`
}

type ShareResponse struct {
	ID           string     `json:"id"`
	DocumentID   string     `json:"document_id"`
	SharedWithID string     `json:"shared_with_id"`
	CanEdit      bool       `json:"can_edit"`
	CanDelete    bool       `json:"can_delete"`
	SharedAt     time.Time  `json:"shared_at"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

func NewShareResponse(share *models.Share) ShareResponse {
	return ShareResponse{
		ID:           share.ID,
		DocumentID:   share.DocumentID,
		SharedWithID: share.SharedWithID,
		CanEdit:      share.CanEdit,
		CanDelete:    share.CanDelete,
		SharedAt:     share.SharedAt,
		ExpiresAt:    share.ExpiresAt,
	}
}
