package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pickteum-api/internal/models"
	"github.com/pickteum-api/internal/repository"
	"github.com/rs/zerolog"
)

// ExportFormats lists the supported export formats
var ExportFormats = map[string]bool{"ndjson": true, "json": true, "csv": true}

// exportService is the concrete implementation of ExportService
type exportService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

// newExportService creates a new ExportService
func newExportService(repos *repository.Repositories, log zerolog.Logger) *exportService {
	return &exportService{
		repos: repos,
		log:   log.With().Str("service", "export").Logger(),
	}
}

// StreamArticles streams every article in the specified format
func (s *exportService) StreamArticles(ctx context.Context, w http.ResponseWriter, format string) error {
	s.log.Info().Str("format", format).Msg("Starting articles export")

	switch format {
	case "ndjson":
		return s.streamNDJSON(ctx, w)
	case "json":
		return s.streamJSON(ctx, w)
	case "csv":
		return s.streamCSV(ctx, w)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func (s *exportService) streamNDJSON(ctx context.Context, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Content-Disposition", "attachment; filename=articles.ndjson")

	flusher, _ := w.(http.Flusher)
	count := 0

	err := s.repos.Article.StreamAll(ctx, func(article *models.Article) error {
		data, err := json.Marshal(article)
		if err != nil {
			return err
		}
		w.Write(data)
		w.Write([]byte("\n"))
		count++

		// Flush every 100 records for streaming
		if count%100 == 0 && flusher != nil {
			flusher.Flush()
		}
		return nil
	})

	s.log.Info().Int("count", count).Msg("Articles export completed")
	return err
}

func (s *exportService) streamJSON(ctx context.Context, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=articles.json")

	w.Write([]byte("["))
	first := true

	err := s.repos.Article.StreamAll(ctx, func(article *models.Article) error {
		if !first {
			w.Write([]byte(","))
		}
		first = false

		data, err := json.Marshal(article)
		if err != nil {
			return err
		}
		w.Write(data)
		return nil
	})

	w.Write([]byte("]"))
	return err
}

func (s *exportService) streamCSV(ctx context.Context, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=articles.csv")

	writer := csv.NewWriter(w)
	defer writer.Flush()

	writer.Write([]string{"id", "slug", "title", "category", "author", "status", "tags", "views", "published_at", "created_at", "updated_at"})

	return s.repos.Article.StreamAll(ctx, func(article *models.Article) error {
		category := ""
		if article.Category != nil {
			category = article.Category.Name
		}
		publishedAt := ""
		if article.PublishedAt != nil {
			publishedAt = article.PublishedAt.UTC().Format(time.RFC3339)
		}
		return writer.Write([]string{
			article.ID,
			article.Slug,
			article.Title,
			category,
			article.Author,
			string(article.Status),
			strings.Join(article.Tags, "|"),
			strconv.Itoa(article.Views),
			publishedAt,
			article.CreatedAt.UTC().Format(time.RFC3339),
			article.UpdatedAt.UTC().Format(time.RFC3339),
		})
	})
}

// GetCounts returns article counts per status, with zero entries for empty statuses
func (s *exportService) GetCounts(ctx context.Context) (map[models.ArticleStatus]int, error) {
	counts, err := s.repos.Article.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count articles: %w", err)
	}
	for status := range models.ValidStatuses {
		if _, ok := counts[status]; !ok {
			counts[status] = 0
		}
	}
	return counts, nil
}
