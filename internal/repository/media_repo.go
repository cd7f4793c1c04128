package repository

import (
	"context"
	"database/sql"

	"github.com/pickteum-api/internal/database"
	"github.com/pickteum-api/internal/models"
)

// mediaRepo is the concrete implementation of MediaRepository
type mediaRepo struct {
	db *database.DB
}

// NewMediaRepo creates a new media repository
func NewMediaRepo(db *database.DB) MediaRepository {
	return &mediaRepo{db: db}
}

// Create inserts a media asset record
func (r *mediaRepo) Create(ctx context.Context, asset *models.MediaAsset) error {
	query := `
		INSERT INTO media_assets (id, storage_key, public_url, file_name, content_type, size, uploaded_by, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		asset.ID, asset.StorageKey, asset.PublicURL, asset.FileName, asset.ContentType,
		asset.Size, asset.UploadedBy, asset.UploadedAt,
	)
	return err
}

// GetByID retrieves a media asset by ID
func (r *mediaRepo) GetByID(ctx context.Context, id string) (*models.MediaAsset, error) {
	query := `
		SELECT id, storage_key, public_url, file_name, content_type, size, uploaded_by, uploaded_at
		FROM media_assets WHERE id = $1
	`
	var a models.MediaAsset
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.StorageKey, &a.PublicURL, &a.FileName, &a.ContentType, &a.Size, &a.UploadedBy, &a.UploadedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns media assets newest first
func (r *mediaRepo) List(ctx context.Context, offset, limit int) ([]*models.MediaAsset, error) {
	query := `
		SELECT id, storage_key, public_url, file_name, content_type, size, uploaded_by, uploaded_at
		FROM media_assets ORDER BY uploaded_at DESC, id DESC LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assets := make([]*models.MediaAsset, 0)
	for rows.Next() {
		var a models.MediaAsset
		if err := rows.Scan(
			&a.ID, &a.StorageKey, &a.PublicURL, &a.FileName, &a.ContentType, &a.Size, &a.UploadedBy, &a.UploadedAt,
		); err != nil {
			return nil, err
		}
		assets = append(assets, &a)
	}
	return assets, rows.Err()
}

// Delete removes a media asset record
func (r *mediaRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM media_assets WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
