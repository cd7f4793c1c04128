package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pickteum-api/internal/cache"
	"github.com/pickteum-api/internal/models"
	"github.com/pickteum-api/internal/repository"
	"github.com/rs/zerolog"
)

const (
	categoryListKey       = "category:list"
	categoryNameKeyPrefix = "category:name:"
)

// categoryService is the concrete implementation of CategoryService.
// Reads go through the cache; every write invalidates it.
type categoryService struct {
	repo repository.CategoryRepository
	kv   cache.Store
	ttl  time.Duration
	log  zerolog.Logger
}

// newCategoryService creates a new CategoryService
func newCategoryService(repo repository.CategoryRepository, kv cache.Store, ttl time.Duration, log zerolog.Logger) *categoryService {
	return &categoryService{
		repo: repo,
		kv:   kv,
		ttl:  ttl,
		log:  log.With().Str("service", "category").Logger(),
	}
}

// List returns every category in display order
func (s *categoryService) List(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	if s.getCached(ctx, categoryListKey, &categories) {
		return categories, nil
	}

	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	s.setCached(ctx, categoryListKey, categories)
	return categories, nil
}

// Resolve looks a category up by display name
func (s *categoryService) Resolve(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrCategoryNotFound
	}

	key := categoryNameKeyPrefix + name
	var category models.Category
	if s.getCached(ctx, key, &category) {
		return &category, nil
	}

	found, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up category %q: %w", name, err)
	}
	if found == nil {
		return nil, ErrCategoryNotFound
	}

	s.setCached(ctx, key, found)
	return found, nil
}

// Create adds a category
func (s *categoryService) Create(ctx context.Context, in *models.CategoryInput) (*models.Category, error) {
	category := &models.Category{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.Name),
		Color:     in.Color,
		SortOrder: in.SortOrder,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return nil, ErrCategoryNameTaken
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.invalidate(ctx, category.Name)
	s.log.Info().Str("category_id", category.ID).Str("name", category.Name).Msg("Category created")
	return category, nil
}

// Update renames, recolors or reorders a category
func (s *categoryService) Update(ctx context.Context, id string, in *models.CategoryInput) (*models.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load category: %w", err)
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	oldName := category.Name
	category.Name = strings.TrimSpace(in.Name)
	category.Color = in.Color
	category.SortOrder = in.SortOrder

	if err := s.repo.Update(ctx, category); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateName):
			return nil, ErrCategoryNameTaken
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	s.invalidate(ctx, oldName, category.Name)
	return category, nil
}

// Delete removes a category
func (s *categoryService) Delete(ctx context.Context, id string) error {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load category: %w", err)
	}
	if category == nil {
		return ErrCategoryNotFound
	}

	if _, err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	s.invalidate(ctx, category.Name)
	s.log.Info().Str("category_id", id).Str("name", category.Name).Msg("Category deleted")
	return nil
}

// SeedDefaults inserts the default category set when no categories exist
func (s *categoryService) SeedDefaults(ctx context.Context) (int, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	defaults := make([]*models.Category, len(models.DefaultCategories))
	for i, c := range models.DefaultCategories {
		c.ID = uuid.New().String()
		c.CreatedAt = now
		defaults[i] = &c
	}

	inserted, err := s.repo.BatchInsert(ctx, defaults)
	if err != nil {
		return 0, fmt.Errorf("failed to seed categories: %w", err)
	}

	s.invalidate(ctx)
	s.log.Info().Int("count", inserted).Msg("Seeded default categories")
	return inserted, nil
}

// getCached decodes a cached value into dst. Cache failures are logged and treated as misses.
func (s *categoryService) getCached(ctx context.Context, key string, dst interface{}) bool {
	if s.kv == nil {
		return false
	}
	data, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Discarding undecodable cache entry")
		return false
	}
	return true
}

func (s *categoryService) setCached(ctx context.Context, key string, v interface{}) {
	if s.kv == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.kv.Set(ctx, key, data, s.ttl); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}

func (s *categoryService) invalidate(ctx context.Context, names ...string) {
	if s.kv == nil {
		return
	}
	keys := []string{categoryListKey}
	for _, n := range names {
		keys = append(keys, categoryNameKeyPrefix+n)
	}
	if err := s.kv.Delete(ctx, keys...); err != nil {
		s.log.Warn().Err(err).Msg("Cache invalidation failed")
	}
}
