package service

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"time"

	"github.com/pickteum-api/internal/cache"
	"github.com/pickteum-api/internal/config"
	"github.com/pickteum-api/internal/models"
	"github.com/pickteum-api/internal/repository"
	"github.com/pickteum-api/internal/storage"
	"github.com/pickteum-api/internal/validation"
	"github.com/rs/zerolog"
)

// ArticleService defines the interface for article authoring and reading
type ArticleService interface {
	Create(ctx context.Context, in *models.ArticleInput) (*models.Article, error)
	Update(ctx context.Context, id string, in *models.ArticleInput) (*models.Article, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*models.Article, error)
	GetPublished(ctx context.Context, slug string) (*models.Article, error)
	List(ctx context.Context, filter models.ArticleFilter) (*models.ArticleList, error)
	Publish(ctx context.Context, id string) (*models.Article, error)
}

// FeedService defines the interface for the public article feed
type FeedService interface {
	Page(ctx context.Context, q models.FeedQuery) (*models.FeedPage, error)
}

// CategoryService defines the interface for category management and lookup
type CategoryService interface {
	List(ctx context.Context) ([]*models.Category, error)
	Resolve(ctx context.Context, name string) (*models.Category, error)
	Create(ctx context.Context, in *models.CategoryInput) (*models.Category, error)
	Update(ctx context.Context, id string, in *models.CategoryInput) (*models.Category, error)
	Delete(ctx context.Context, id string) error
	SeedDefaults(ctx context.Context) (int, error)
}

// SchedulerService defines the interface for the scheduled-publish sweep
type SchedulerService interface {
	Sweep(ctx context.Context) (*models.SweepResult, error)
	Start(ctx context.Context) error
	Stop()
}

// AutosaveService defines the interface for draft autosave
type AutosaveService interface {
	Stage(ctx context.Context, id string, in *models.ArticleInput) error
	Flush(ctx context.Context) int
	Status(id string) models.AutosaveStatus
	StartProcessor(ctx context.Context)
	StopProcessor()
}

// MediaService defines the interface for media uploads
type MediaService interface {
	Upload(ctx context.Context, req *UploadRequest) (*models.MediaAsset, error)
	List(ctx context.Context, page, limit int) ([]*models.MediaAsset, error)
	Delete(ctx context.Context, id string) error
}

// SessionService defines the interface for admin sessions
type SessionService interface {
	Login(ctx context.Context, username, password string) (*models.Session, error)
	Get(ctx context.Context, token string) (*models.Session, error)
	Logout(ctx context.Context, token string) error
}

// ExportService defines the interface for article export
type ExportService interface {
	StreamArticles(ctx context.Context, w http.ResponseWriter, format string) error
	GetCounts(ctx context.Context) (map[models.ArticleStatus]int, error)
}

// DatabaseHealth is the slice of the database handle the health and metrics endpoints read
type DatabaseHealth interface {
	HealthCheck(ctx context.Context) error
	Stats() sql.DBStats
}

// UploadRequest carries one uploaded file
type UploadRequest struct {
	Body       io.Reader
	FileName   string
	Size       int64
	UploadedBy string
}

// Services holds all service interfaces
type Services struct {
	Article   ArticleService
	Feed      FeedService
	Category  CategoryService
	Scheduler SchedulerService
	Autosave  AutosaveService
	Media     MediaService
	Session   SessionService
	Export    ExportService
	Validator *validation.Validator

	// Database is optional; health and metrics skip it when nil
	Database DatabaseHealth
}

// NewServices creates all services
func NewServices(
	repos *repository.Repositories,
	kv cache.Store,
	objects storage.ObjectStore,
	cfg *config.Config,
	log zerolog.Logger,
) *Services {
	return NewServicesWithClock(repos, kv, objects, cfg, time.Now, log)
}

// NewServicesWithClock creates all services reading the current time from now
func NewServicesWithClock(
	repos *repository.Repositories,
	kv cache.Store,
	objects storage.ObjectStore,
	cfg *config.Config,
	now func() time.Time,
	log zerolog.Logger,
) *Services {
	categorySvc := newCategoryService(repos.Category, kv, cfg.Redis.CacheTTL, log)
	articleSvc := newArticleService(repos, now, log)
	schedulerSvc := newSchedulerService(repos.Article, cfg.Scheduler.Spec, now, log)
	autosaveSvc := newAutosaveService(articleSvc, repos.Article, cfg.Autosave.Interval, now, log)

	return &Services{
		Article:   articleSvc,
		Feed:      newFeedService(repos.Article, categorySvc, log),
		Category:  categorySvc,
		Scheduler: schedulerSvc,
		Autosave:  autosaveSvc,
		Media:     newMediaService(repos, objects, &cfg.Media, now, log),
		Session:   newSessionService(kv, &cfg.Admin, now, log),
		Export:    newExportService(repos, log),
		Validator: validation.NewValidator(),
	}
}
