package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/pickteum-api/internal/database"
	"github.com/pickteum-api/internal/models"
)

// categoryRepo is the concrete implementation of CategoryRepository
type categoryRepo struct {
	db *database.DB
}

// NewCategoryRepo creates a new category repository
func NewCategoryRepo(db *database.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

// Create inserts a new category
func (r *categoryRepo) Create(ctx context.Context, category *models.Category) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO categories (id, name, color, sort_order, created_at) VALUES ($1, $2, $3, $4, $5)",
		category.ID, category.Name, category.Color, category.SortOrder, category.CreatedAt,
	)
	if uniqueViolation(err, "categories_name_key") {
		return ErrDuplicateName
	}
	return err
}

// BatchInsert inserts multiple categories using PostgreSQL COPY
func (r *categoryRepo) BatchInsert(ctx context.Context, categories []*models.Category) (int, error) {
	if len(categories) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("categories",
		"id", "name", "color", "sort_order", "created_at",
	))
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, c := range categories {
		if _, err := stmt.ExecContext(ctx, c.ID, c.Name, c.Color, c.SortOrder, c.CreatedAt); err != nil {
			return 0, err
		}
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return len(categories), nil
}

// Update overwrites name, color and ordering
func (r *categoryRepo) Update(ctx context.Context, category *models.Category) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE categories SET name = $1, color = $2, sort_order = $3 WHERE id = $4",
		category.Name, category.Color, category.SortOrder, category.ID,
	)
	if uniqueViolation(err, "categories_name_key") {
		return ErrDuplicateName
	}
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a category; articles keep existing with a null category
func (r *categoryRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// GetByID retrieves a category by ID
func (r *categoryRepo) GetByID(ctx context.Context, id string) (*models.Category, error) {
	return r.getOne(ctx, "SELECT id, name, color, sort_order, created_at FROM categories WHERE id = $1", id)
}

// GetByName retrieves a category by its display name
func (r *categoryRepo) GetByName(ctx context.Context, name string) (*models.Category, error) {
	return r.getOne(ctx, "SELECT id, name, color, sort_order, created_at FROM categories WHERE name = $1", name)
}

func (r *categoryRepo) getOne(ctx context.Context, query string, arg string) (*models.Category, error) {
	var c models.Category
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&c.ID, &c.Name, &c.Color, &c.SortOrder, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories in display order
func (r *categoryRepo) List(ctx context.Context) ([]*models.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, color, sort_order, created_at FROM categories ORDER BY sort_order, name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]*models.Category, 0)
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &c.SortOrder, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

// Count returns the total number of categories
func (r *categoryRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&count)
	return count, err
}
