package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pickteum-api/internal/models"
	"github.com/pickteum-api/internal/repository"
	"github.com/pickteum-api/internal/slug"
	"github.com/pickteum-api/internal/validation"
	"github.com/rs/zerolog"
)

// articleService is the concrete implementation of ArticleService
type articleService struct {
	repos *repository.Repositories
	now   func() time.Time
	log   zerolog.Logger
}

// newArticleService creates a new ArticleService
func newArticleService(repos *repository.Repositories, now func() time.Time, log zerolog.Logger) *articleService {
	return &articleService{
		repos: repos,
		now:   now,
		log:   log.With().Str("service", "article").Logger(),
	}
}

// Create validates the editor input and inserts a new article with a unique slug
func (s *articleService) Create(ctx context.Context, in *models.ArticleInput) (*models.Article, error) {
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, validation.Errors{{Field: "title", Message: "is required"}}
	}

	now := s.now().UTC()
	article := &models.Article{
		ID:        uuid.New().String(),
		Status:    models.StatusDraft,
		Tags:      []string{},
		CreatedAt: now,
	}

	if err := s.apply(ctx, article, in, now, true); err != nil {
		return nil, err
	}

	if err := s.repos.Article.Create(ctx, article); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to create article: %w", err)
	}

	s.log.Info().
		Str("article_id", article.ID).
		Str("slug", article.Slug).
		Str("status", string(article.Status)).
		Msg("Article created")

	return article, nil
}

// Update applies the non-nil input fields to an existing article
func (s *articleService) Update(ctx context.Context, id string, in *models.ArticleInput) (*models.Article, error) {
	article, err := s.repos.Article.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load article: %w", err)
	}
	if article == nil {
		return nil, ErrNotFound
	}

	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return nil, validation.Errors{{Field: "title", Message: "must not be empty"}}
	}

	if err := s.apply(ctx, article, in, s.now().UTC(), false); err != nil {
		return nil, err
	}

	if err := s.repos.Article.Update(ctx, article); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateSlug):
			return nil, ErrSlugTaken
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update article: %w", err)
	}

	s.log.Debug().Str("article_id", article.ID).Str("status", string(article.Status)).Msg("Article updated")
	return article, nil
}

// apply copies input fields onto article and enforces slug, category and lifecycle rules
func (s *articleService) apply(ctx context.Context, article *models.Article, in *models.ArticleInput, now time.Time, creating bool) error {
	prevStatus := article.Status
	prevPublishedAt := article.PublishedAt

	if in.Title != nil {
		article.Title = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		article.Content = *in.Content
	}
	if in.Author != nil {
		article.Author = *in.Author
	}
	if in.ThumbnailURL != nil {
		article.ThumbnailURL = *in.ThumbnailURL
	}
	if in.ThumbnailAlt != nil {
		article.ThumbnailAlt = *in.ThumbnailAlt
	}
	if in.SEOTitle != nil {
		article.SEOTitle = *in.SEOTitle
	}
	if in.SEODescription != nil {
		article.SEODescription = *in.SEODescription
	}
	if in.Tags != nil {
		article.Tags = normalizeTags(in.Tags)
	}
	if in.Status != nil {
		article.Status = *in.Status
	}
	if in.PublishedAt != nil {
		t := in.PublishedAt.UTC()
		article.PublishedAt = &t
	}

	if in.CategoryID != nil {
		if err := s.applyCategory(ctx, article, *in.CategoryID); err != nil {
			return err
		}
	}

	timeChanged := !samePublishTime(prevPublishedAt, article.PublishedAt)

	// The sweep may publish an article while the editor still holds the scheduled form
	if prevStatus == models.StatusPublished && article.Status == models.StatusScheduled &&
		!timeChanged && article.PublishedAt != nil && !article.PublishedAt.After(now) {
		article.Status = models.StatusPublished
	}

	rescheduled := creating || article.Status != prevStatus || timeChanged
	if errs := validation.ValidateLifecycle(article.Status, article.PublishedAt, now, rescheduled); len(errs) > 0 {
		return validation.Errors(errs)
	}

	switch article.Status {
	case models.StatusDraft:
		article.PublishedAt = nil
	case models.StatusPublished:
		if article.PublishedAt == nil {
			article.PublishedAt = &now
		}
	}

	if err := s.applySlug(ctx, article, in.Slug, creating); err != nil {
		return err
	}

	article.UpdatedAt = now
	return nil
}

func (s *articleService) applyCategory(ctx context.Context, article *models.Article, categoryID string) error {
	if categoryID == "" {
		article.CategoryID = nil
		article.Category = nil
		return nil
	}
	category, err := s.repos.Category.GetByID(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("failed to load category: %w", err)
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	article.CategoryID = &category.ID
	article.Category = category
	return nil
}

// applySlug honours an explicit slug, otherwise derives one from the title on create
func (s *articleService) applySlug(ctx context.Context, article *models.Article, requested *string, creating bool) error {
	if requested != nil && *requested != "" && *requested != article.Slug {
		taken, err := s.repos.Article.SlugExists(ctx, *requested, article.ID)
		if err != nil {
			return fmt.Errorf("failed to check slug: %w", err)
		}
		if taken {
			return ErrSlugTaken
		}
		article.Slug = *requested
		return nil
	}

	if !creating && article.Slug != "" {
		return nil
	}

	unique, err := slug.Unique(ctx, slug.Make(article.Title), func(ctx context.Context, candidate string) (bool, error) {
		return s.repos.Article.SlugExists(ctx, candidate, article.ID)
	})
	if err != nil {
		return err
	}
	article.Slug = unique
	return nil
}

// Delete removes an article permanently
func (s *articleService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repos.Article.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}
	s.log.Info().Str("article_id", id).Msg("Article deleted")
	return nil
}

// Get returns any article by id, for the admin editor
func (s *articleService) Get(ctx context.Context, id string) (*models.Article, error) {
	article, err := s.repos.Article.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load article: %w", err)
	}
	if article == nil {
		return nil, ErrNotFound
	}
	return article, nil
}

// GetPublished returns a published article by slug and counts the view
func (s *articleService) GetPublished(ctx context.Context, articleSlug string) (*models.Article, error) {
	article, err := s.repos.Article.GetPublishedBySlug(ctx, articleSlug)
	if err != nil {
		return nil, fmt.Errorf("failed to load article: %w", err)
	}
	if article == nil {
		return nil, ErrNotFound
	}

	if err := s.repos.Article.IncrementViews(ctx, article.ID); err != nil {
		s.log.Warn().Err(err).Str("article_id", article.ID).Msg("Failed to increment views")
	} else {
		article.Views++
	}
	return article, nil
}

// List returns a page of the admin content list
func (s *articleService) List(ctx context.Context, filter models.ArticleFilter) (*models.ArticleList, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	articles, total, err := s.repos.Article.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}

	return &models.ArticleList{
		Articles: articles,
		Total:    total,
		Page:     filter.Page,
		Limit:    filter.Limit,
	}, nil
}

// Publish makes an article visible immediately, whatever its current status
func (s *articleService) Publish(ctx context.Context, id string) (*models.Article, error) {
	article, err := s.repos.Article.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load article: %w", err)
	}
	if article == nil {
		return nil, ErrNotFound
	}
	if article.Status == models.StatusPublished {
		return article, nil
	}

	now := s.now().UTC()
	article.Status = models.StatusPublished
	article.PublishedAt = &now
	article.UpdatedAt = now

	if err := s.repos.Article.Update(ctx, article); err != nil {
		return nil, fmt.Errorf("failed to publish article: %w", err)
	}

	s.log.Info().Str("article_id", article.ID).Str("slug", article.Slug).Msg("Article published manually")
	return article, nil
}

// samePublishTime reports whether two optional publish times are the same instant
func samePublishTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// normalizeTags trims tags and drops blanks and duplicates, keeping first-seen order
func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
