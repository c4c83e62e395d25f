package category

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-catalog/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const categoryColumns = `id::text, title, slug, COALESCE(description, ''), created_at, updated_at`

func (r *postgresRepo) List(ctx context.Context) ([]domain.Category, error) {
	q := fmt.Sprintf(`SELECT %s FROM categories ORDER BY title ASC`, categoryColumns)
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("category repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Title, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("category repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	q := fmt.Sprintf(`SELECT %s FROM categories WHERE id::text = $1`, categoryColumns)
	return r.get(ctx, q, id)
}

func (r *postgresRepo) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	q := fmt.Sprintf(`SELECT %s FROM categories WHERE slug = $1`, categoryColumns)
	return r.get(ctx, q, slug)
}

func (r *postgresRepo) get(ctx context.Context, q, arg string) (*domain.Category, error) {
	var c domain.Category
	err := r.pool.QueryRow(ctx, q, arg).Scan(&c.ID, &c.Title, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("category repo: get %s error=%v", arg, err)
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepo) Create(ctx context.Context, c domain.Category) (*domain.Category, error) {
	const q = `
INSERT INTO categories (id, title, slug, description)
VALUES ($1, $2, $3, $4)
RETURNING created_at, updated_at
`
	c.ID = uuid.NewString()
	err := r.pool.QueryRow(ctx, q, c.ID, c.Title, c.Slug, c.Description).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		r.logger.Printf("category repo: create slug=%s error=%v", c.Slug, err)
		return nil, mapPgError(err)
	}
	return &c, nil
}

func (r *postgresRepo) Update(ctx context.Context, c domain.Category) (*domain.Category, error) {
	const q = `
UPDATE categories
SET title = $2, slug = $3, description = $4, updated_at = now()
WHERE id::text = $1
RETURNING created_at, updated_at
`
	err := r.pool.QueryRow(ctx, q, c.ID, c.Title, c.Slug, c.Description).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("category repo: update id=%s error=%v", c.ID, err)
		return nil, mapPgError(err)
	}
	return &c, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id::text = $1`, id)
	if err != nil {
		r.logger.Printf("category repo: delete id=%s error=%v", id, err)
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// mapPgError translates constraint violations into domain sentinels. Deleting a
// category still referenced by products trips the RESTRICT foreign key.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23503":
		return fmt.Errorf("%w: %s", domain.ErrCategoryInUse, pgErr.ConstraintName)
	case "23505":
		return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.ConstraintName)
	case "23514":
		return fmt.Errorf("%w: %s", domain.ErrValidation, pgErr.ConstraintName)
	}
	return err
}
