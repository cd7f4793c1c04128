package repository

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/pickteum-api/internal/database"
	"github.com/pickteum-api/internal/models"
)

// ErrDuplicateSlug is returned when an insert or update collides with an existing slug
var ErrDuplicateSlug = errors.New("duplicate slug")

// ErrDuplicateName is returned when a category name is already taken
var ErrDuplicateName = errors.New("duplicate name")

// ArticleRepository defines the interface for article data operations.
// Lookups return (nil, nil) when no row matches.
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	Update(ctx context.Context, article *models.Article) error
	Delete(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (*models.Article, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*models.Article, error)
	IncrementViews(ctx context.Context, id string) error
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	List(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, int, error)
	ListPublished(ctx context.Context, categoryID string, offset, limit int) ([]*models.Article, error)
	PublishDue(ctx context.Context, now time.Time) ([]*models.Article, error)
	CountByStatus(ctx context.Context) (map[models.ArticleStatus]int, error)
	StreamAll(ctx context.Context, callback func(*models.Article) error) error
}

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	BatchInsert(ctx context.Context, categories []*models.Category) (int, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (*models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
	List(ctx context.Context) ([]*models.Category, error)
	Count(ctx context.Context) (int, error)
}

// MediaRepository defines the interface for media asset records
type MediaRepository interface {
	Create(ctx context.Context, asset *models.MediaAsset) error
	GetByID(ctx context.Context, id string) (*models.MediaAsset, error)
	List(ctx context.Context, offset, limit int) ([]*models.MediaAsset, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Article  ArticleRepository
	Category CategoryRepository
	Media    MediaRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Article:  NewArticleRepo(db),
		Category: NewCategoryRepo(db),
		Media:    NewMediaRepo(db),
	}
}

// uniqueViolation reports whether err is a Postgres unique violation on the named constraint
func uniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "23505" && pqErr.Constraint == constraint
}

// nullString maps an empty string to a SQL NULL
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
