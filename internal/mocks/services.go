package mocks

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/pickteum-api/internal/models"
	"github.com/pickteum-api/internal/service"
	"github.com/pickteum-api/internal/storage"
)

// MockObjectStore keeps uploaded objects in memory
type MockObjectStore struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Types   map[string]string
	BaseURL string

	PutError    error
	DeleteError error
}

// Verify interface compliance
var _ storage.ObjectStore = (*MockObjectStore)(nil)

func NewMockObjectStore() *MockObjectStore {
	return &MockObjectStore{
		Objects: make(map[string][]byte),
		Types:   make(map[string]string),
		BaseURL: "https://cdn.test",
	}
}

func (m *MockObjectStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if m.PutError != nil {
		return m.PutError
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: declared %d, read %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[key] = data
	m.Types[key] = contentType
	return nil
}

func (m *MockObjectStore) Delete(ctx context.Context, key string) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, key)
	delete(m.Types, key)
	return nil
}

func (m *MockObjectStore) PublicURL(key string) string {
	return storage.PublicURL(m.BaseURL, key)
}

// Has reports whether key is stored
func (m *MockObjectStore) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Objects[key]
	return ok
}

// MockFeedService is a mock implementation of FeedService
type MockFeedService struct {
	PageFunc func(ctx context.Context, q models.FeedQuery) (*models.FeedPage, error)
	Queries  []models.FeedQuery
}

// Verify interface compliance
var _ service.FeedService = (*MockFeedService)(nil)

func NewMockFeedService() *MockFeedService {
	return &MockFeedService{}
}

func (m *MockFeedService) Page(ctx context.Context, q models.FeedQuery) (*models.FeedPage, error) {
	m.Queries = append(m.Queries, q)
	if m.PageFunc != nil {
		return m.PageFunc(ctx, q)
	}
	return &models.FeedPage{Articles: []models.ArticleSummary{}}, nil
}

// MockExportService is a mock implementation of ExportService
type MockExportService struct {
	StreamArticlesFunc func(ctx context.Context, w http.ResponseWriter, format string) error
	Counts             map[models.ArticleStatus]int
	CountsError        error
	Formats            []string
}

// Verify interface compliance
var _ service.ExportService = (*MockExportService)(nil)

func NewMockExportService() *MockExportService {
	return &MockExportService{
		Counts: make(map[models.ArticleStatus]int),
	}
}

func (m *MockExportService) StreamArticles(ctx context.Context, w http.ResponseWriter, format string) error {
	m.Formats = append(m.Formats, format)
	if m.StreamArticlesFunc != nil {
		return m.StreamArticlesFunc(ctx, w, format)
	}
	w.Write([]byte(strings.ToUpper(format)))
	return nil
}

func (m *MockExportService) GetCounts(ctx context.Context) (map[models.ArticleStatus]int, error) {
	if m.CountsError != nil {
		return nil, m.CountsError
	}
	return m.Counts, nil
}

// MockSchedulerService is a mock implementation of SchedulerService
type MockSchedulerService struct {
	SweepFunc func(ctx context.Context) (*models.SweepResult, error)
	Sweeps    int
	Started   bool
}

// Verify interface compliance
var _ service.SchedulerService = (*MockSchedulerService)(nil)

func NewMockSchedulerService() *MockSchedulerService {
	return &MockSchedulerService{}
}

func (m *MockSchedulerService) Sweep(ctx context.Context) (*models.SweepResult, error) {
	m.Sweeps++
	if m.SweepFunc != nil {
		return m.SweepFunc(ctx)
	}
	return &models.SweepResult{Success: true}, nil
}

func (m *MockSchedulerService) Start(ctx context.Context) error {
	m.Started = true
	return nil
}

func (m *MockSchedulerService) Stop() {
	m.Started = false
}


// MockDatabase is a mock implementation of service.DatabaseHealth
type MockDatabase struct {
	PingError error
	PoolStats sql.DBStats
}

var _ service.DatabaseHealth = (*MockDatabase)(nil)

func (m *MockDatabase) HealthCheck(ctx context.Context) error {
	return m.PingError
}

func (m *MockDatabase) Stats() sql.DBStats {
	return m.PoolStats
}
