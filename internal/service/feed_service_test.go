package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pickteum-api/internal/models"
	"github.com/pickteum-api/internal/service"
)

func seedFeed(t *testing.T, f *fixture) {
	t.Helper()
	ctx := context.Background()

	politics := &models.Category{ID: "cat-politics", Name: "정치", Color: "#ef4444", SortOrder: 1}
	economy := &models.Category{ID: "cat-economy", Name: "경제", Color: "#f59e0b", SortOrder: 2}
	f.categories.Create(ctx, politics)
	f.categories.Create(ctx, economy)

	base := time.Date(2025, 3, 14, 20, 0, 0, 0, time.UTC)
	seed := []struct {
		id       string
		category *models.Category
		offset   time.Duration
		status   models.ArticleStatus
	}{
		{"a1", politics, 0, models.StatusPublished},
		{"a2", economy, -time.Hour, models.StatusPublished},
		{"a3", politics, -2 * time.Hour, models.StatusPublished},
		{"a4", economy, -3 * time.Hour, models.StatusPublished},
		{"a5", economy, -4 * time.Hour, models.StatusPublished},
		{"d1", politics, 0, models.StatusDraft},
		{"s1", economy, time.Hour, models.StatusScheduled},
	}
	for _, s := range seed {
		a := &models.Article{
			ID:       s.id,
			Slug:     s.id,
			Title:    "Article " + s.id,
			Status:   s.status,
			Category: s.category,
		}
		id := s.category.ID
		a.CategoryID = &id
		if s.status != models.StatusDraft {
			a.PublishedAt = timePtr(base.Add(s.offset))
		}
		if err := f.articles.Create(ctx, a); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}
}

func TestFeedService_AllCategories(t *testing.T) {
	f := newFixture()
	seedFeed(t, f)

	page, err := f.svc.Feed.Page(context.Background(), models.FeedQuery{Page: 1, Limit: 10, Category: models.AllCategories})
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}

	if len(page.Articles) != 5 {
		t.Fatalf("Expected 5 published articles, got %d", len(page.Articles))
	}
	if page.HasMore {
		t.Error("Expected hasMore=false when everything fits")
	}
	if page.Articles[0].ID != "a1" || page.Articles[4].ID != "a5" {
		t.Errorf("Expected newest first, got %s..%s", page.Articles[0].ID, page.Articles[4].ID)
	}
}

func TestFeedService_ExactHasMore(t *testing.T) {
	f := newFixture()
	seedFeed(t, f)
	ctx := context.Background()

	page, _ := f.svc.Feed.Page(ctx, models.FeedQuery{Page: 1, Limit: 5, Category: models.AllCategories})
	if page.HasMore {
		t.Error("Expected hasMore=false when the page is exactly full")
	}

	seen := make(map[string]bool)
	for p := 1; p <= 3; p++ {
		page, err := f.svc.Feed.Page(ctx, models.FeedQuery{Page: p, Limit: 2, Category: models.AllCategories})
		if err != nil {
			t.Fatalf("Page %d failed: %v", p, err)
		}
		wantMore := p < 3
		if page.HasMore != wantMore {
			t.Errorf("Page %d: expected hasMore=%v, got %v", p, wantMore, page.HasMore)
		}
		for _, a := range page.Articles {
			if seen[a.ID] {
				t.Errorf("Article %s returned on more than one page", a.ID)
			}
			seen[a.ID] = true
		}
	}
	if len(seen) != 5 {
		t.Errorf("Expected 5 distinct articles across pages, got %d", len(seen))
	}
}

func TestFeedService_CategoryFilter(t *testing.T) {
	f := newFixture()
	seedFeed(t, f)

	page, err := f.svc.Feed.Page(context.Background(), models.FeedQuery{Page: 1, Limit: 10, Category: "경제"})
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}
	if len(page.Articles) != 3 {
		t.Fatalf("Expected 3 economy articles, got %d", len(page.Articles))
	}
	for _, a := range page.Articles {
		if a.Category == nil || a.Category.Name != "경제" {
			t.Errorf("Unexpected category on %s: %v", a.ID, a.Category)
		}
	}
}

func TestFeedService_UnknownCategory(t *testing.T) {
	f := newFixture()
	seedFeed(t, f)

	_, err := f.svc.Feed.Page(context.Background(), models.FeedQuery{Page: 1, Limit: 10, Category: "날씨"})
	if !errors.Is(err, service.ErrCategoryNotFound) {
		t.Errorf("Expected ErrCategoryNotFound, got %v", err)
	}
}

func TestFeedService_DateInSeoulTime(t *testing.T) {
	f := newFixture()
	seedFeed(t, f)

	page, _ := f.svc.Feed.Page(context.Background(), models.FeedQuery{Page: 1, Limit: 1, Category: models.AllCategories})

	// 20:00 UTC on the 14th is the morning of the 15th in Seoul
	if page.Articles[0].Date != "2025.03.15" {
		t.Errorf("Expected date 2025.03.15, got %s", page.Articles[0].Date)
	}
	if page.Articles[0].Category.Color != "#ef4444" {
		t.Errorf("Expected category color, got %s", page.Articles[0].Category.Color)
	}
}

func TestFeedService_PastTheEnd(t *testing.T) {
	f := newFixture()
	seedFeed(t, f)

	page, err := f.svc.Feed.Page(context.Background(), models.FeedQuery{Page: 9, Limit: 10, Category: models.AllCategories})
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}
	if len(page.Articles) != 0 || page.HasMore {
		t.Errorf("Expected an empty final page, got %d articles hasMore=%v", len(page.Articles), page.HasMore)
	}
}
