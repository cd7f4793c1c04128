package mocks

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pickteum-api/internal/models"
	"github.com/pickteum-api/internal/repository"
)

var (
	_ repository.ArticleRepository  = (*MockArticleRepository)(nil)
	_ repository.CategoryRepository = (*MockCategoryRepository)(nil)
	_ repository.MediaRepository    = (*MockMediaRepository)(nil)
)

// NewRepositories bundles fresh in-memory repositories
func NewRepositories() (*repository.Repositories, *MockArticleRepository, *MockCategoryRepository, *MockMediaRepository) {
	articles := NewMockArticleRepository()
	categories := NewMockCategoryRepository()
	media := NewMockMediaRepository()
	return &repository.Repositories{Article: articles, Category: categories, Media: media}, articles, categories, media
}

func copyArticle(a *models.Article) *models.Article {
	c := *a
	if a.Tags != nil {
		c.Tags = append([]string(nil), a.Tags...)
	}
	if a.PublishedAt != nil {
		t := *a.PublishedAt
		c.PublishedAt = &t
	}
	if a.CategoryID != nil {
		id := *a.CategoryID
		c.CategoryID = &id
	}
	if a.Category != nil {
		cat := *a.Category
		c.Category = &cat
	}
	return &c
}

// MockArticleRepository is an in-memory ArticleRepository. Stored values are copies.
type MockArticleRepository struct {
	mu       sync.Mutex
	Articles map[string]*models.Article

	InsertError    error
	UpdateError    error
	ListError      error
	PublishDueFunc func(ctx context.Context, now time.Time) ([]*models.Article, error)
	UpdateCalls    int
	ViewIncrements int
}

func NewMockArticleRepository() *MockArticleRepository {
	return &MockArticleRepository{
		Articles: make(map[string]*models.Article),
	}
}

func (m *MockArticleRepository) slugTaken(slug, excludeID string) bool {
	for id, a := range m.Articles {
		if a.Slug == slug && id != excludeID {
			return true
		}
	}
	return false
}

func (m *MockArticleRepository) Create(ctx context.Context, article *models.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.InsertError != nil {
		return m.InsertError
	}
	if m.slugTaken(article.Slug, "") {
		return repository.ErrDuplicateSlug
	}
	m.Articles[article.ID] = copyArticle(article)
	return nil
}

func (m *MockArticleRepository) Update(ctx context.Context, article *models.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateCalls++
	if m.UpdateError != nil {
		return m.UpdateError
	}
	existing, ok := m.Articles[article.ID]
	if !ok {
		return sql.ErrNoRows
	}
	if m.slugTaken(article.Slug, article.ID) {
		return repository.ErrDuplicateSlug
	}
	stored := copyArticle(article)
	stored.Views = existing.Views
	stored.CreatedAt = existing.CreatedAt
	m.Articles[article.ID] = stored
	return nil
}

func (m *MockArticleRepository) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.Articles[id]
	delete(m.Articles, id)
	return ok, nil
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id string) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.Articles[id]
	if !ok {
		return nil, nil
	}
	return copyArticle(a), nil
}

func (m *MockArticleRepository) GetPublishedBySlug(ctx context.Context, slug string) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.Articles {
		if a.Slug == slug && a.Status == models.StatusPublished {
			return copyArticle(a), nil
		}
	}
	return nil, nil
}

func (m *MockArticleRepository) IncrementViews(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if a, ok := m.Articles[id]; ok {
		a.Views++
		m.ViewIncrements++
	}
	return nil
}

func (m *MockArticleRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slugTaken(slug, excludeID), nil
}

func (m *MockArticleRepository) List(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListError != nil {
		return nil, 0, m.ListError
	}

	matched := make([]*models.Article, 0)
	for _, a := range m.Articles {
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.CategoryID != "" && (a.CategoryID == nil || *a.CategoryID != filter.CategoryID) {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(a.Title), strings.ToLower(filter.Search)) {
			continue
		}
		matched = append(matched, copyArticle(a))
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].UpdatedAt.Equal(matched[j].UpdatedAt) {
			return matched[i].UpdatedAt.After(matched[j].UpdatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	return paginate(matched, filter.Offset(), filter.Limit), len(matched), nil
}

func (m *MockArticleRepository) ListPublished(ctx context.Context, categoryID string, offset, limit int) ([]*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListError != nil {
		return nil, m.ListError
	}

	matched := make([]*models.Article, 0)
	for _, a := range m.Articles {
		if a.Status != models.StatusPublished {
			continue
		}
		if categoryID != "" && (a.CategoryID == nil || *a.CategoryID != categoryID) {
			continue
		}
		matched = append(matched, copyArticle(a))
	}

	sort.Slice(matched, func(i, j int) bool {
		pi, pj := publishedAt(matched[i]), publishedAt(matched[j])
		if !pi.Equal(pj) {
			return pi.After(pj)
		}
		return matched[i].ID > matched[j].ID
	})

	return paginate(matched, offset, limit), nil
}

func (m *MockArticleRepository) PublishDue(ctx context.Context, now time.Time) ([]*models.Article, error) {
	if m.PublishDueFunc != nil {
		return m.PublishDueFunc(ctx, now)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var published []*models.Article
	for _, a := range m.Articles {
		if a.Status != models.StatusScheduled || a.PublishedAt == nil || a.PublishedAt.After(now) {
			continue
		}
		a.Status = models.StatusPublished
		a.UpdatedAt = now
		published = append(published, copyArticle(a))
	}
	return published, nil
}

func (m *MockArticleRepository) CountByStatus(ctx context.Context) (map[models.ArticleStatus]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	counts := make(map[models.ArticleStatus]int)
	for _, a := range m.Articles {
		counts[a.Status]++
	}
	return counts, nil
}

func (m *MockArticleRepository) StreamAll(ctx context.Context, callback func(*models.Article) error) error {
	m.mu.Lock()
	all := make([]*models.Article, 0, len(m.Articles))
	for _, a := range m.Articles {
		all = append(all, copyArticle(a))
	}
	m.mu.Unlock()

	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })

	for _, a := range all {
		if err := callback(a); err != nil {
			return err
		}
	}
	return nil
}

func publishedAt(a *models.Article) time.Time {
	if a.PublishedAt == nil {
		return time.Time{}
	}
	return *a.PublishedAt
}

func paginate(articles []*models.Article, offset, limit int) []*models.Article {
	if offset >= len(articles) {
		return []*models.Article{}
	}
	end := offset + limit
	if end > len(articles) {
		end = len(articles)
	}
	return articles[offset:end]
}

// MockCategoryRepository is an in-memory CategoryRepository
type MockCategoryRepository struct {
	mu         sync.Mutex
	Categories map[string]*models.Category

	InsertError      error
	BatchInsertCalls int
	GetByNameCalls   int
	ListCalls        int
}

func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories: make(map[string]*models.Category),
	}
}

func (m *MockCategoryRepository) nameTaken(name, excludeID string) bool {
	for id, c := range m.Categories {
		if c.Name == name && id != excludeID {
			return true
		}
	}
	return false
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.InsertError != nil {
		return m.InsertError
	}
	if m.nameTaken(category.Name, "") {
		return repository.ErrDuplicateName
	}
	c := *category
	m.Categories[category.ID] = &c
	return nil
}

func (m *MockCategoryRepository) BatchInsert(ctx context.Context, categories []*models.Category) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.BatchInsertCalls++
	if m.InsertError != nil {
		return 0, m.InsertError
	}
	for _, category := range categories {
		c := *category
		m.Categories[category.ID] = &c
	}
	return len(categories), nil
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Categories[category.ID]; !ok {
		return sql.ErrNoRows
	}
	if m.nameTaken(category.Name, category.ID) {
		return repository.ErrDuplicateName
	}
	c := *category
	m.Categories[category.ID] = &c
	return nil
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.Categories[id]
	delete(m.Categories, id)
	return ok, nil
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.Categories[id]
	if !ok {
		return nil, nil
	}
	out := *c
	return &out, nil
}

func (m *MockCategoryRepository) GetByName(ctx context.Context, name string) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetByNameCalls++
	for _, c := range m.Categories {
		if c.Name == name {
			out := *c
			return &out, nil
		}
	}
	return nil, nil
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ListCalls++
	out := make([]*models.Category, 0, len(m.Categories))
	for _, c := range m.Categories {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (m *MockCategoryRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Categories), nil
}

// MockMediaRepository is an in-memory MediaRepository
type MockMediaRepository struct {
	mu     sync.Mutex
	Assets map[string]*models.MediaAsset

	InsertError error
}

func NewMockMediaRepository() *MockMediaRepository {
	return &MockMediaRepository{
		Assets: make(map[string]*models.MediaAsset),
	}
}

func (m *MockMediaRepository) Create(ctx context.Context, asset *models.MediaAsset) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.InsertError != nil {
		return m.InsertError
	}
	a := *asset
	m.Assets[asset.ID] = &a
	return nil
}

func (m *MockMediaRepository) GetByID(ctx context.Context, id string) (*models.MediaAsset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.Assets[id]
	if !ok {
		return nil, nil
	}
	out := *a
	return &out, nil
}

func (m *MockMediaRepository) List(ctx context.Context, offset, limit int) ([]*models.MediaAsset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := make([]*models.MediaAsset, 0, len(m.Assets))
	for _, a := range m.Assets {
		cp := *a
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].UploadedAt.Equal(all[j].UploadedAt) {
			return all[i].UploadedAt.After(all[j].UploadedAt)
		}
		return all[i].ID > all[j].ID
	})

	if offset >= len(all) {
		return []*models.MediaAsset{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *MockMediaRepository) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.Assets[id]
	delete(m.Assets, id)
	return ok, nil
}
