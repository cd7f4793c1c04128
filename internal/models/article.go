package models

import (
	"time"
)

// ArticleStatus is the publication state of an article
type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusPublished ArticleStatus = "published"
	StatusScheduled ArticleStatus = "scheduled"
)

// ValidStatuses defines allowed article statuses
var ValidStatuses = map[ArticleStatus]bool{
	StatusDraft:     true,
	StatusPublished: true,
	StatusScheduled: true,
}

// Article represents an article in the system
type Article struct {
	ID             string        `json:"id" db:"id"`
	Slug           string        `json:"slug" db:"slug"`
	Title          string        `json:"title" db:"title"`
	Content        string        `json:"content" db:"content"`
	CategoryID     *string       `json:"category_id,omitempty" db:"category_id"`
	Category       *Category     `json:"category,omitempty" db:"-"`
	Author         string        `json:"author" db:"author"`
	Status         ArticleStatus `json:"status" db:"status"`
	ThumbnailURL   string        `json:"thumbnail_url,omitempty" db:"thumbnail_url"`
	ThumbnailAlt   string        `json:"thumbnail_alt,omitempty" db:"thumbnail_alt"`
	SEOTitle       string        `json:"seo_title,omitempty" db:"seo_title"`
	SEODescription string        `json:"seo_description,omitempty" db:"seo_description"`
	Tags           []string      `json:"tags" db:"tags"`
	Views          int           `json:"views" db:"views"`
	PublishedAt    *time.Time    `json:"published_at,omitempty" db:"published_at"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" db:"updated_at"`
}

// ArticleFilter narrows admin listings
type ArticleFilter struct {
	Status     ArticleStatus
	CategoryID string
	Search     string
	Page       int
	Limit      int
}

// Offset returns the row offset for the filter's page
func (f ArticleFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// ArticleList is a page of admin listing results with an exact total
type ArticleList struct {
	Articles []*Article `json:"articles"`
	Total    int        `json:"total"`
	Page     int        `json:"page"`
	Limit    int        `json:"limit"`
}

// ArticleInput carries the editable fields of an article from the editor.
// Nil pointers are left unchanged on update.
type ArticleInput struct {
	Title          *string        `json:"title" validate:"omitempty,max=300"`
	Content        *string        `json:"content"`
	CategoryID     *string        `json:"category_id" validate:"omitempty,category_ref"`
	Author         *string        `json:"author" validate:"omitempty,max=100"`
	Status         *ArticleStatus `json:"status" validate:"omitempty,article_status"`
	Slug           *string        `json:"slug" validate:"omitempty,slug"`
	ThumbnailURL   *string        `json:"thumbnail_url" validate:"omitempty,clearable_url"`
	ThumbnailAlt   *string        `json:"thumbnail_alt" validate:"omitempty,max=300"`
	SEOTitle       *string        `json:"seo_title" validate:"omitempty,max=70"`
	SEODescription *string        `json:"seo_description" validate:"omitempty,max=160"`
	Tags           []string       `json:"tags" validate:"omitempty,max=20,dive,min=1,max=50"`
	PublishedAt    *time.Time     `json:"published_at"`
}

// HasBody reports whether the input carries a non-empty title or content
func (in *ArticleInput) HasBody() bool {
	return (in.Title != nil && *in.Title != "") || (in.Content != nil && *in.Content != "")
}
