package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pickteum-api/internal/models"
	"github.com/pickteum-api/internal/repository"
	"github.com/rs/zerolog"
)

// feedLocation is the zone feed dates are shown in
var feedLocation = loadLocation("Asia/Seoul", 9*60*60)

func loadLocation(name string, offset int) *time.Location {
	if loc, err := time.LoadLocation(name); err == nil {
		return loc
	}
	return time.FixedZone("KST", offset)
}

// feedService is the concrete implementation of FeedService
type feedService struct {
	articles   repository.ArticleRepository
	categories CategoryService
	log        zerolog.Logger
}

// newFeedService creates a new FeedService
func newFeedService(articles repository.ArticleRepository, categories CategoryService, log zerolog.Logger) *feedService {
	return &feedService{
		articles:   articles,
		categories: categories,
		log:        log.With().Str("service", "feed").Logger(),
	}
}

// Page returns one page of published articles for q.Category, newest first.
// One row beyond the limit is fetched so HasMore is exact.
func (s *feedService) Page(ctx context.Context, q models.FeedQuery) (*models.FeedPage, error) {
	categoryID := ""
	if q.Category != "" && q.Category != models.AllCategories {
		category, err := s.categories.Resolve(ctx, q.Category)
		if err != nil {
			return nil, err
		}
		categoryID = category.ID
	}

	rows, err := s.articles.ListPublished(ctx, categoryID, q.Offset(), q.Limit+1)
	if err != nil {
		return nil, fmt.Errorf("failed to query feed: %w", err)
	}

	hasMore := len(rows) > q.Limit
	if hasMore {
		rows = rows[:q.Limit]
	}

	page := &models.FeedPage{
		Articles: make([]models.ArticleSummary, 0, len(rows)),
		HasMore:  hasMore,
	}
	for _, a := range rows {
		page.Articles = append(page.Articles, summarize(a))
	}

	s.log.Debug().
		Int("page", q.Page).
		Int("limit", q.Limit).
		Str("category", q.Category).
		Int("returned", len(page.Articles)).
		Bool("has_more", hasMore).
		Msg("Feed page served")

	return page, nil
}

func summarize(a *models.Article) models.ArticleSummary {
	summary := models.ArticleSummary{
		ID:           a.ID,
		Slug:         a.Slug,
		Title:        a.Title,
		ThumbnailURL: a.ThumbnailURL,
	}
	if a.Category != nil {
		summary.Category = &models.CategoryLabel{Name: a.Category.Name, Color: a.Category.Color}
	}
	if a.PublishedAt != nil {
		summary.PublishedAt = *a.PublishedAt
		summary.Date = a.PublishedAt.In(feedLocation).Format(models.FeedDateLayout)
	}
	return summary
}
