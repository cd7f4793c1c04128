package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pickteum-api/internal/config"
	"github.com/pickteum-api/internal/mocks"
	"github.com/pickteum-api/internal/models"
	"github.com/pickteum-api/internal/service"
	"github.com/rs/zerolog"
)

func scheduleArticle(t *testing.T, f *fixture, title string, at time.Time) *models.Article {
	t.Helper()
	article, err := f.svc.Article.Create(context.Background(), &models.ArticleInput{
		Title:       strPtr(title),
		Status:      statusPtr(models.StatusScheduled),
		PublishedAt: timePtr(at),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return article
}

func TestSchedulerService_SweepPublishesDue(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	soon := scheduleArticle(t, f, "Soon", testNow.Add(10*time.Minute))
	later := scheduleArticle(t, f, "Later", testNow.Add(2*time.Hour))

	result, err := f.svc.Scheduler.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if !result.Success || result.PublishedCount != 0 {
		t.Errorf("Expected nothing due yet, got %+v", result)
	}

	f.clock.Advance(time.Hour)

	result, err = f.svc.Scheduler.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if result.PublishedCount != 1 {
		t.Fatalf("Expected 1 published, got %d", result.PublishedCount)
	}
	if result.Published[0].ID != soon.ID {
		t.Errorf("Expected %s published, got %s", soon.ID, result.Published[0].ID)
	}

	stored, _ := f.articles.GetByID(ctx, soon.ID)
	if stored.Status != models.StatusPublished {
		t.Errorf("Expected stored status published, got %s", stored.Status)
	}
	if !stored.PublishedAt.Equal(testNow.Add(10 * time.Minute)) {
		t.Errorf("Expected published_at to keep the scheduled time, got %v", stored.PublishedAt)
	}

	stored, _ = f.articles.GetByID(ctx, later.ID)
	if stored.Status != models.StatusScheduled {
		t.Errorf("Expected later article still scheduled, got %s", stored.Status)
	}
}

func TestSchedulerService_SweepIsIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	scheduleArticle(t, f, "One", testNow.Add(time.Minute))
	scheduleArticle(t, f, "Two", testNow.Add(time.Minute))
	f.clock.Advance(time.Hour)

	first, _ := f.svc.Scheduler.Sweep(ctx)
	second, _ := f.svc.Scheduler.Sweep(ctx)

	if first.PublishedCount != 2 {
		t.Errorf("Expected 2 on the first pass, got %d", first.PublishedCount)
	}
	if second.PublishedCount != 0 {
		t.Errorf("Expected 0 on the second pass, got %d", second.PublishedCount)
	}
}

func TestSchedulerService_SweepFailure(t *testing.T) {
	f := newFixture()
	f.articles.PublishDueFunc = func(ctx context.Context, now time.Time) ([]*models.Article, error) {
		return nil, errors.New("connection refused")
	}

	result, err := f.svc.Scheduler.Sweep(context.Background())
	if err == nil {
		t.Fatal("Expected an error")
	}
	if result == nil || result.Success {
		t.Errorf("Expected success=false, got %+v", result)
	}
}

func TestSchedulerService_StartRunsImmediatePass(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	due := scheduleArticle(t, f, "Due", testNow.Add(time.Minute))
	f.clock.Advance(time.Hour)

	if err := f.svc.Scheduler.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer f.svc.Scheduler.Stop()

	stored, _ := f.articles.GetByID(ctx, due.ID)
	if stored.Status != models.StatusPublished {
		t.Errorf("Expected the startup pass to publish, got %s", stored.Status)
	}

	// Starting twice is a no-op
	if err := f.svc.Scheduler.Start(ctx); err != nil {
		t.Errorf("Second Start failed: %v", err)
	}
}

func TestSchedulerService_InvalidSpec(t *testing.T) {
	repos, _, _, _ := mocks.NewRepositories()
	cfg := testConfig()
	cfg.Scheduler = config.SchedulerConfig{Enabled: true, Spec: "every now and then"}

	svc := service.NewServicesWithClock(repos, nil, mocks.NewMockObjectStore(), cfg, time.Now, zerolog.Nop())

	if err := svc.Scheduler.Start(context.Background()); err == nil {
		t.Error("Expected an error for an invalid cron spec")
		svc.Scheduler.Stop()
	}
}
