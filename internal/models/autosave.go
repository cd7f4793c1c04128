package models

import (
	"time"
)

// AutosaveStatus reports the autosave state of one article
type AutosaveStatus struct {
	ArticleID   string     `json:"article_id"`
	Dirty       bool       `json:"dirty"`
	LastSavedAt *time.Time `json:"lastSavedAt,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
}

// SweepResult is the outcome of one scheduled-publish pass
type SweepResult struct {
	Success        bool       `json:"success"`
	PublishedCount int        `json:"publishedCount"`
	Published      []*Article `json:"-"`
}
