package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/pickteum-api/internal/config"
	"github.com/pickteum-api/internal/models"
	"github.com/pickteum-api/internal/repository"
	"github.com/pickteum-api/internal/storage"
	"github.com/rs/zerolog"
)

// sniffLen is how much of an upload is read to detect its content type
const sniffLen = 3072

// mediaService is the concrete implementation of MediaService
type mediaService struct {
	repos   *repository.Repositories
	objects storage.ObjectStore
	cfg     *config.MediaConfig
	now     func() time.Time
	log     zerolog.Logger
}

// newMediaService creates a new MediaService
func newMediaService(repos *repository.Repositories, objects storage.ObjectStore, cfg *config.MediaConfig, now func() time.Time, log zerolog.Logger) *mediaService {
	return &mediaService{
		repos:   repos,
		objects: objects,
		cfg:     cfg,
		now:     now,
		log:     log.With().Str("service", "media").Logger(),
	}
}

// Upload checks size and sniffed content type, stores the bytes and records the asset
func (s *mediaService) Upload(ctx context.Context, req *UploadRequest) (*models.MediaAsset, error) {
	if req.Size <= 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrInvalidMedia)
	}
	if req.Size > s.cfg.MaxUploadSize {
		return nil, fmt.Errorf("%w: file too large, max size is %d MB", ErrInvalidMedia, s.cfg.MaxUploadSize/(1024*1024))
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(req.Body, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:n]

	detected := mimetype.Detect(head)
	contentType := detected.String()
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	if !s.allowed(contentType) {
		return nil, fmt.Errorf("%w: content type %s is not allowed", ErrInvalidMedia, contentType)
	}

	now := s.now().UTC()
	id := uuid.New().String()
	key := path.Join("media", now.Format("2006/01"), id+detected.Extension())

	body := io.MultiReader(bytes.NewReader(head), req.Body)
	if err := s.objects.Put(ctx, key, body, req.Size, contentType); err != nil {
		return nil, err
	}

	asset := &models.MediaAsset{
		ID:          id,
		StorageKey:  key,
		PublicURL:   s.objects.PublicURL(key),
		FileName:    path.Base(req.FileName),
		ContentType: contentType,
		Size:        req.Size,
		UploadedBy:  req.UploadedBy,
		UploadedAt:  now,
		UsedBy:      []string{},
	}

	if err := s.repos.Media.Create(ctx, asset); err != nil {
		// Don't leave an orphaned object behind
		if delErr := s.objects.Delete(ctx, key); delErr != nil {
			s.log.Error().Err(delErr).Str("key", key).Msg("Failed to remove orphaned object")
		}
		return nil, fmt.Errorf("failed to record media asset: %w", err)
	}

	s.log.Info().
		Str("media_id", asset.ID).
		Str("key", key).
		Str("content_type", contentType).
		Int64("size", req.Size).
		Msg("Media uploaded")

	return asset, nil
}

func (s *mediaService) allowed(contentType string) bool {
	for _, t := range s.cfg.AllowedTypes {
		if t == contentType {
			return true
		}
	}
	return false
}

// List returns a page of assets with UsedBy computed by scanning article content and thumbnails
func (s *mediaService) List(ctx context.Context, page, limit int) ([]*models.MediaAsset, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	assets, err := s.repos.Media.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list media: %w", err)
	}
	if len(assets) == 0 {
		return assets, nil
	}

	for _, a := range assets {
		a.UsedBy = []string{}
	}

	err = s.repos.Article.StreamAll(ctx, func(article *models.Article) error {
		for _, a := range assets {
			if article.ThumbnailURL == a.PublicURL || strings.Contains(article.Content, a.PublicURL) {
				a.UsedBy = append(a.UsedBy, article.ID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan media usage: %w", err)
	}

	return assets, nil
}

// Delete removes the object and its record
func (s *mediaService) Delete(ctx context.Context, id string) error {
	asset, err := s.repos.Media.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load media asset: %w", err)
	}
	if asset == nil {
		return ErrNotFound
	}

	if err := s.objects.Delete(ctx, asset.StorageKey); err != nil {
		return err
	}
	if _, err := s.repos.Media.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete media record: %w", err)
	}

	s.log.Info().Str("media_id", id).Str("key", asset.StorageKey).Msg("Media deleted")
	return nil
}
