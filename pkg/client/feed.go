package client

import (
	"context"

	"github.com/pickteum-api/internal/models"
)

// MergeArticles appends incoming to existing, dropping any article whose id is already present.
// Order is preserved.
func MergeArticles(existing, incoming []models.ArticleSummary) []models.ArticleSummary {
	seen := make(map[string]bool, len(existing)+len(incoming))
	for _, a := range existing {
		seen[a.ID] = true
	}

	merged := existing[:len(existing):len(existing)]
	for _, a := range incoming {
		if seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		merged = append(merged, a)
	}
	return merged
}

// FeedAccumulator loads feed pages one after another into a single de-duplicated list,
// the way an infinite-scroll reader does
type FeedAccumulator struct {
	client   *Client
	category string
	limit    int

	page     int
	articles []models.ArticleSummary
	hasMore  bool
}

// NewFeedAccumulator starts an accumulator before the first page
func NewFeedAccumulator(client *Client, category string, limit int) *FeedAccumulator {
	return &FeedAccumulator{
		client:   client,
		category: category,
		limit:    limit,
		articles: []models.ArticleSummary{},
		hasMore:  true,
	}
}

// Next fetches the following page and returns how many new articles it added.
// It does nothing once the feed is exhausted.
func (a *FeedAccumulator) Next(ctx context.Context) (int, error) {
	if !a.hasMore {
		return 0, nil
	}

	page, err := a.client.FeedPage(ctx, a.category, a.page+1, a.limit)
	if err != nil {
		return 0, err
	}

	before := len(a.articles)
	a.articles = MergeArticles(a.articles, page.Articles)
	a.page++
	a.hasMore = page.HasMore
	return len(a.articles) - before, nil
}

// Articles returns everything loaded so far
func (a *FeedAccumulator) Articles() []models.ArticleSummary {
	return a.articles
}

// HasMore reports whether another page is available
func (a *FeedAccumulator) HasMore() bool {
	return a.hasMore
}

// Pages reports how many pages have been loaded
func (a *FeedAccumulator) Pages() int {
	return a.page
}
