package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pickteum-api/internal/mocks"
	"github.com/pickteum-api/internal/models"
	"github.com/pickteum-api/internal/repository"
)

func ptrTime(t time.Time) *time.Time { return &t }

func TestMockArticleRepository_DuplicateSlug(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	ctx := context.Background()

	if err := repo.Create(ctx, &models.Article{ID: "a1", Slug: "hello", Status: models.StatusDraft}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	err := repo.Create(ctx, &models.Article{ID: "a2", Slug: "hello", Status: models.StatusDraft})
	if !errors.Is(err, repository.ErrDuplicateSlug) {
		t.Errorf("Expected ErrDuplicateSlug, got %v", err)
	}

	exists, _ := repo.SlugExists(ctx, "hello", "")
	if !exists {
		t.Error("Slug should exist")
	}
	exists, _ = repo.SlugExists(ctx, "hello", "a1")
	if exists {
		t.Error("Slug owned by the excluded article should not count")
	}
}

func TestMockArticleRepository_ReturnsCopies(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	ctx := context.Background()

	repo.Create(ctx, &models.Article{ID: "a1", Slug: "s", Title: "Original", Tags: []string{"x"}})

	got, _ := repo.GetByID(ctx, "a1")
	got.Title = "Changed"
	got.Tags[0] = "y"

	again, _ := repo.GetByID(ctx, "a1")
	if again.Title != "Original" || again.Tags[0] != "x" {
		t.Errorf("Stored article was mutated through a returned value: %+v", again)
	}
}

func TestMockArticleRepository_ListPublishedOrdering(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	catID := "cat-1"

	repo.Create(ctx, &models.Article{ID: "a", Slug: "a", Status: models.StatusPublished, PublishedAt: ptrTime(base)})
	repo.Create(ctx, &models.Article{ID: "b", Slug: "b", Status: models.StatusPublished, PublishedAt: ptrTime(base.Add(time.Hour)), CategoryID: &catID})
	repo.Create(ctx, &models.Article{ID: "c", Slug: "c", Status: models.StatusPublished, PublishedAt: ptrTime(base.Add(time.Hour))})
	repo.Create(ctx, &models.Article{ID: "d", Slug: "d", Status: models.StatusDraft})

	all, err := repo.ListPublished(ctx, "", 0, 10)
	if err != nil {
		t.Fatalf("ListPublished failed: %v", err)
	}
	want := []string{"c", "b", "a"}
	if len(all) != len(want) {
		t.Fatalf("Expected %d articles, got %d", len(want), len(all))
	}
	for i, id := range want {
		if all[i].ID != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, all[i].ID)
		}
	}

	filtered, _ := repo.ListPublished(ctx, catID, 0, 10)
	if len(filtered) != 1 || filtered[0].ID != "b" {
		t.Errorf("Expected only article b for category, got %v", filtered)
	}

	page2, _ := repo.ListPublished(ctx, "", 2, 2)
	if len(page2) != 1 || page2[0].ID != "a" {
		t.Errorf("Expected article a on the second page, got %v", page2)
	}
}

func TestMockArticleRepository_PublishDue(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	repo.Create(ctx, &models.Article{ID: "due", Slug: "due", Status: models.StatusScheduled, PublishedAt: ptrTime(now.Add(-time.Minute))})
	repo.Create(ctx, &models.Article{ID: "exact", Slug: "exact", Status: models.StatusScheduled, PublishedAt: ptrTime(now)})
	repo.Create(ctx, &models.Article{ID: "later", Slug: "later", Status: models.StatusScheduled, PublishedAt: ptrTime(now.Add(time.Minute))})

	published, err := repo.PublishDue(ctx, now)
	if err != nil {
		t.Fatalf("PublishDue failed: %v", err)
	}
	if len(published) != 2 {
		t.Errorf("Expected 2 published, got %d", len(published))
	}

	again, _ := repo.PublishDue(ctx, now)
	if len(again) != 0 {
		t.Errorf("Expected second pass to publish nothing, got %d", len(again))
	}

	later, _ := repo.GetByID(ctx, "later")
	if later.Status != models.StatusScheduled {
		t.Errorf("Expected future article to stay scheduled, got %s", later.Status)
	}
}

func TestMockArticleRepository_CountByStatus(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	ctx := context.Background()

	repo.Create(ctx, &models.Article{ID: "1", Slug: "1", Status: models.StatusDraft})
	repo.Create(ctx, &models.Article{ID: "2", Slug: "2", Status: models.StatusDraft})
	repo.Create(ctx, &models.Article{ID: "3", Slug: "3", Status: models.StatusPublished})

	counts, err := repo.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("CountByStatus failed: %v", err)
	}
	if counts[models.StatusDraft] != 2 {
		t.Errorf("Expected 2 drafts, got %d", counts[models.StatusDraft])
	}
	if counts[models.StatusPublished] != 1 {
		t.Errorf("Expected 1 published, got %d", counts[models.StatusPublished])
	}
}

func TestMockCategoryRepository_DuplicateName(t *testing.T) {
	repo := mocks.NewMockCategoryRepository()
	ctx := context.Background()

	if err := repo.Create(ctx, &models.Category{ID: "c1", Name: "경제"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	err := repo.Create(ctx, &models.Category{ID: "c2", Name: "경제"})
	if !errors.Is(err, repository.ErrDuplicateName) {
		t.Errorf("Expected ErrDuplicateName, got %v", err)
	}

	found, _ := repo.GetByName(ctx, "경제")
	if found == nil || found.ID != "c1" {
		t.Errorf("Expected category c1, got %v", found)
	}
}

func TestMockCategoryRepository_ListOrder(t *testing.T) {
	repo := mocks.NewMockCategoryRepository()
	ctx := context.Background()

	repo.BatchInsert(ctx, []*models.Category{
		{ID: "3", Name: "사회", SortOrder: 3},
		{ID: "1", Name: "정치", SortOrder: 1},
		{ID: "2", Name: "경제", SortOrder: 2},
	})

	list, _ := repo.List(ctx)
	for i, want := range []string{"정치", "경제", "사회"} {
		if list[i].Name != want {
			t.Errorf("Position %d: expected %s, got %s", i, want, list[i].Name)
		}
	}
}
