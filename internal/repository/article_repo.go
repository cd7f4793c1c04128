package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/pickteum-api/internal/database"
	"github.com/pickteum-api/internal/models"
)

const articleColumns = `a.id, a.slug, a.title, a.content, a.category_id, a.author, a.status,
	a.thumbnail_url, a.thumbnail_alt, a.seo_title, a.seo_description, a.tags, a.views,
	a.published_at, a.created_at, a.updated_at,
	c.id, c.name, c.color, c.sort_order`

const articleFrom = `FROM articles a LEFT JOIN categories c ON c.id = a.category_id`

// articleRepo is the concrete implementation of ArticleRepository
type articleRepo struct {
	db *database.DB
}

// NewArticleRepo creates a new article repository
func NewArticleRepo(db *database.DB) ArticleRepository {
	return &articleRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanArticle reads one row selected with articleColumns
func scanArticle(row rowScanner) (*models.Article, error) {
	var article models.Article
	var categoryID, catID, catName, catColor sql.NullString
	var catOrder sql.NullInt64
	var publishedAt sql.NullTime
	var status string

	err := row.Scan(
		&article.ID, &article.Slug, &article.Title, &article.Content, &categoryID,
		&article.Author, &status, &article.ThumbnailURL, &article.ThumbnailAlt,
		&article.SEOTitle, &article.SEODescription, pq.Array(&article.Tags), &article.Views,
		&publishedAt, &article.CreatedAt, &article.UpdatedAt,
		&catID, &catName, &catColor, &catOrder,
	)
	if err != nil {
		return nil, err
	}

	article.Status = models.ArticleStatus(status)
	if article.Tags == nil {
		article.Tags = []string{}
	}
	if categoryID.Valid {
		article.CategoryID = &categoryID.String
	}
	if catID.Valid {
		article.Category = &models.Category{
			ID:        catID.String,
			Name:      catName.String,
			Color:     catColor.String,
			SortOrder: int(catOrder.Int64),
		}
	}
	if publishedAt.Valid {
		t := publishedAt.Time
		article.PublishedAt = &t
	}
	return &article, nil
}

// Create inserts a new article
func (r *articleRepo) Create(ctx context.Context, article *models.Article) error {
	query := `
		INSERT INTO articles (id, slug, title, content, category_id, author, status, thumbnail_url,
			thumbnail_alt, seo_title, seo_description, tags, views, published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := r.db.ExecContext(ctx, query,
		article.ID, article.Slug, article.Title, article.Content, article.CategoryID,
		article.Author, string(article.Status), article.ThumbnailURL, article.ThumbnailAlt,
		article.SEOTitle, article.SEODescription, pq.Array(tagsOrEmpty(article.Tags)), article.Views,
		article.PublishedAt, article.CreatedAt, article.UpdatedAt,
	)
	if uniqueViolation(err, "articles_slug_key") {
		return ErrDuplicateSlug
	}
	return err
}

// Update overwrites the editable fields of an article
func (r *articleRepo) Update(ctx context.Context, article *models.Article) error {
	query := `
		UPDATE articles SET
			slug = $1, title = $2, content = $3, category_id = $4, author = $5, status = $6,
			thumbnail_url = $7, thumbnail_alt = $8, seo_title = $9, seo_description = $10,
			tags = $11, published_at = $12, updated_at = $13
		WHERE id = $14
	`
	res, err := r.db.ExecContext(ctx, query,
		article.Slug, article.Title, article.Content, article.CategoryID, article.Author,
		string(article.Status), article.ThumbnailURL, article.ThumbnailAlt, article.SEOTitle,
		article.SEODescription, pq.Array(tagsOrEmpty(article.Tags)), article.PublishedAt,
		article.UpdatedAt, article.ID,
	)
	if uniqueViolation(err, "articles_slug_key") {
		return ErrDuplicateSlug
	}
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an article; it reports whether a row was deleted
func (r *articleRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM articles WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// GetByID retrieves an article by ID
func (r *articleRepo) GetByID(ctx context.Context, id string) (*models.Article, error) {
	query := `SELECT ` + articleColumns + ` ` + articleFrom + ` WHERE a.id = $1`

	article, err := scanArticle(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return article, err
}

// GetPublishedBySlug retrieves a published article by slug
func (r *articleRepo) GetPublishedBySlug(ctx context.Context, slug string) (*models.Article, error) {
	query := `SELECT ` + articleColumns + ` ` + articleFrom + `
		WHERE a.slug = $1 AND a.status = 'published'`

	article, err := scanArticle(r.db.QueryRowContext(ctx, query, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return article, err
}

// IncrementViews bumps the view counter
func (r *articleRepo) IncrementViews(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "UPDATE articles SET views = views + 1 WHERE id = $1", id)
	return err
}

// SlugExists checks if a slug is used by any article other than excludeID
func (r *articleRepo) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM articles WHERE slug = $1 AND ($2::uuid IS NULL OR id <> $2::uuid))",
		slug, nullString(excludeID),
	).Scan(&exists)
	return exists, err
}

// List returns one page of the admin listing and the total number of matches
func (r *articleRepo) List(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, int, error) {
	var where []string
	var args []interface{}

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, fmt.Sprintf("a.status = $%d", len(args)))
	}
	if filter.CategoryID != "" {
		args = append(args, filter.CategoryID)
		where = append(where, fmt.Sprintf("a.category_id = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		where = append(where, fmt.Sprintf("a.title ILIKE $%d", len(args)))
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles a"+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, filter.Offset())
	query := fmt.Sprintf(`SELECT %s %s%s
		ORDER BY a.updated_at DESC, a.id DESC
		LIMIT $%d OFFSET $%d`, articleColumns, articleFrom, clause, len(args)-1, len(args))

	articles, err := r.query(ctx, query, args...)
	return articles, total, err
}

// ListPublished returns published articles newest first.
// An empty categoryID means every category.
func (r *articleRepo) ListPublished(ctx context.Context, categoryID string, offset, limit int) ([]*models.Article, error) {
	query := `SELECT ` + articleColumns + ` ` + articleFrom + `
		WHERE a.status = 'published' AND ($1::uuid IS NULL OR a.category_id = $1::uuid)
		ORDER BY a.published_at DESC, a.id DESC
		LIMIT $2 OFFSET $3`

	return r.query(ctx, query, nullString(categoryID), limit, offset)
}

// PublishDue flips every scheduled article whose publish time has passed to published,
// returning the transitioned rows. Rows already published are never matched again.
func (r *articleRepo) PublishDue(ctx context.Context, now time.Time) ([]*models.Article, error) {
	query := `
		UPDATE articles SET status = 'published', updated_at = $1
		WHERE status = 'scheduled' AND published_at <= $1
		RETURNING id, slug, title, published_at
	`
	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var published []*models.Article
	for rows.Next() {
		article := &models.Article{Status: models.StatusPublished}
		var publishedAt time.Time
		if err := rows.Scan(&article.ID, &article.Slug, &article.Title, &publishedAt); err != nil {
			return nil, err
		}
		article.PublishedAt = &publishedAt
		published = append(published, article)
	}
	return published, rows.Err()
}

// CountByStatus returns article counts keyed by status
func (r *articleRepo) CountByStatus(ctx context.Context) (map[models.ArticleStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM articles GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.ArticleStatus]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[models.ArticleStatus(status)] = count
	}
	return counts, rows.Err()
}

// StreamAll streams all articles for export and media usage scans
func (r *articleRepo) StreamAll(ctx context.Context, callback func(*models.Article) error) error {
	query := `SELECT ` + articleColumns + ` ` + articleFrom + ` ORDER BY a.created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return err
		}
		if err := callback(article); err != nil {
			return err
		}
	}

	return rows.Err()
}

func (r *articleRepo) query(ctx context.Context, query string, args ...interface{}) ([]*models.Article, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	articles := make([]*models.Article, 0)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
