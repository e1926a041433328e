package models

import (
	"strings"
	"time"
)

type DocType string

const (
	DocTypeReport       DocType = "report"
	DocTypePresentation DocType = "presentation"
	DocTypeSpreadsheet  DocType = "spreadsheet"
	DocTypeImage        DocType = "image"
	DocTypeArchive      DocType = "archive"
	DocTypeText         DocType = "text"
	DocTypeOther        DocType = "other"
)

var docTypes = map[DocType]bool{
	DocTypeReport:       true,
	DocTypePresentation: true,
	DocTypeSpreadsheet:  true,
	DocTypeImage:        true,
	DocTypeArchive:      true,
	DocTypeText:         true,
	DocTypeOther:        true,
}

func (t DocType) IsValid() bool {
	return docTypes[t]
}

// DocTypeFromMime picks a document category for uploads that carry no explicit type.
func DocTypeFromMime(mime string) DocType {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return DocTypeImage
	case mime == "application/pdf" || mime == "application/msword",
		strings.HasPrefix(mime, "application/vnd.openxmlformats-officedocument.wordprocessingml"):
		return DocTypeReport
	case strings.HasPrefix(mime, "application/vnd.openxmlformats-officedocument.presentationml"),
		mime == "application/vnd.ms-powerpoint":
		return DocTypePresentation
	case strings.HasPrefix(mime, "application/vnd.openxmlformats-officedocument.spreadsheetml"),
		mime == "application/vnd.ms-excel", mime == "text/csv":
		return DocTypeSpreadsheet
	case mime == "application/zip" || mime == "application/gzip" || mime == "application/x-tar":
		return DocTypeArchive
	case strings.HasPrefix(mime, "text/"):
		return DocTypeText
	default:
		return DocTypeOther
	}
}

type Document struct {
	ID           string     `json:"id"`
	OwnerID      string     `json:"owner_id"`
	Title        string     `json:"title"`
	FileName     string     `json:"file_name"`
	FilePath     string     `json:"file_path"`
	Mime         string     `json:"mime"`
	Size         int64      `json:"size"`
	Type         DocType    `json:"type"`
	Description  string     `json:"description"`
	Tags         []string   `json:"tags"`
	IsPublic     bool       `json:"is_public"`
	Entity       *EntityRef `json:"entity,omitempty"`
	ViewCount    int64      `json:"view_count"`
	LastViewedAt *time.Time `json:"last_viewed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
	DeletedBy    string     `json:"deleted_by,omitempty"`
}

func (d *Document) IsTrashed() bool {
	return d.DeletedAt != nil
}

// DocumentPatch is a partial metadata update; nil fields are left untouched.
type DocumentPatch struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Type        *DocType  `json:"type"`
	Tags        *[]string `json:"tags"`
	IsPublic    *bool     `json:"is_public"`
}

func (p DocumentPatch) IsValid() bool {
	if p.Type != nil && !p.Type.IsValid() {
		return false
	}
	return true
}

type DocumentFilter struct {
	Search     string
	Type       DocType
	EntityType EntityType
	EntityID   string
	Tag        string
	Page       int
	Limit      int
}

func (f DocumentFilter) IsValid() bool {
	if f.Type != "" && !f.Type.IsValid() {
		return false
	}
	if f.EntityType != "" && !f.EntityType.IsValid() {
		return false
	}
	if f.EntityID != "" && f.EntityType == "" {
		return false
	}
	return true
}
