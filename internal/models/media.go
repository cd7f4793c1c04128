package models

import (
	"time"
)

// MediaAsset is an uploaded file kept in object storage
type MediaAsset struct {
	ID          string    `json:"id" db:"id"`
	StorageKey  string    `json:"storage_key" db:"storage_key"`
	PublicURL   string    `json:"public_url" db:"public_url"`
	FileName    string    `json:"file_name" db:"file_name"`
	ContentType string    `json:"content_type" db:"content_type"`
	Size        int64     `json:"size" db:"size"`
	UploadedBy  string    `json:"uploaded_by" db:"uploaded_by"`
	UploadedAt  time.Time `json:"uploaded_at" db:"uploaded_at"`

	// UsedBy lists ids of articles referencing PublicURL; computed on read
	UsedBy []string `json:"used_by" db:"-"`
}
