package service_test

import (
	"sync"
	"time"

	"github.com/pickteum-api/internal/cache"
	"github.com/pickteum-api/internal/config"
	"github.com/pickteum-api/internal/mocks"
	"github.com/pickteum-api/internal/models"
	"github.com/pickteum-api/internal/service"
	"github.com/rs/zerolog"
)

// fakeClock is a settable time source shared by every service under test
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{t: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	svc        *service.Services
	articles   *mocks.MockArticleRepository
	categories *mocks.MockCategoryRepository
	media      *mocks.MockMediaRepository
	objects    *mocks.MockObjectStore
	kv         *cache.MemoryStore
	clock      *fakeClock
	cfg        *config.Config
}

func testConfig() *config.Config {
	return &config.Config{
		Redis:     config.RedisConfig{CacheTTL: time.Minute},
		Scheduler: config.SchedulerConfig{Enabled: true, Spec: "@every 60s", TriggerToken: "cron-token"},
		Autosave:  config.AutosaveConfig{Interval: 30 * time.Second},
		Media: config.MediaConfig{
			MaxUploadSize: 5 * 1024 * 1024,
			AllowedTypes:  []string{"image/jpeg", "image/png", "image/gif", "image/webp"},
		},
		Admin: config.AdminConfig{Username: "admin", Password: "secret", SessionTTL: time.Hour},
	}
}

var testNow = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	repos, articles, categories, media := mocks.NewRepositories()
	objects := mocks.NewMockObjectStore()
	kv := cache.NewMemoryStore()
	clock := newFakeClock(testNow)
	cfg := testConfig()

	return &fixture{
		svc:        service.NewServicesWithClock(repos, kv, objects, cfg, clock.Now, zerolog.Nop()),
		articles:   articles,
		categories: categories,
		media:      media,
		objects:    objects,
		kv:         kv,
		clock:      clock,
		cfg:        cfg,
	}
}

func strPtr(s string) *string { return &s }

func statusPtr(s models.ArticleStatus) *models.ArticleStatus { return &s }

func timePtr(t time.Time) *time.Time { return &t }
