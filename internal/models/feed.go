package models

import (
	"time"
)

// FeedDateLayout formats publish dates for feed cards
const FeedDateLayout = "2006.01.02"

// FeedQuery is a validated feed page request
type FeedQuery struct {
	Page     int    `form:"page" json:"page" validate:"gte=1"`
	Limit    int    `form:"limit" json:"limit" validate:"gte=1,lte=50"`
	Category string `form:"category" json:"category"`
}

// Offset returns the row offset of the requested page
func (q FeedQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// CategoryLabel is the display part of a category joined onto a summary
type CategoryLabel struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// ArticleSummary is a feed card
type ArticleSummary struct {
	ID           string         `json:"id"`
	Slug         string         `json:"slug"`
	Title        string         `json:"title"`
	Category     *CategoryLabel `json:"category,omitempty"`
	ThumbnailURL string         `json:"thumbnail_url,omitempty"`
	Date         string         `json:"date"`
	PublishedAt  time.Time      `json:"published_at"`
}

// FeedPage is the feed endpoint response
type FeedPage struct {
	Articles []ArticleSummary `json:"articles"`
	HasMore  bool             `json:"hasMore"`
}
