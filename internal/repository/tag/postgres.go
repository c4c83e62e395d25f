package tag

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

const tagColumns = `id::text, label, created_at, updated_at`

func (r *postgresRepo) List(ctx context.Context) ([]domain.Tag, error) {
	q := fmt.Sprintf(`SELECT %s FROM tags ORDER BY label ASC`, tagColumns)
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("tag repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Tag
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.Label, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("tag repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Tag, error) {
	q := fmt.Sprintf(`SELECT %s FROM tags WHERE id::text = $1`, tagColumns)
	return r.get(ctx, q, id)
}

func (r *postgresRepo) GetByLabel(ctx context.Context, label string) (*domain.Tag, error) {
	q := fmt.Sprintf(`SELECT %s FROM tags WHERE label = $1`, tagColumns)
	return r.get(ctx, q, label)
}

func (r *postgresRepo) get(ctx context.Context, q, arg string) (*domain.Tag, error) {
	var t domain.Tag
	err := r.pool.QueryRow(ctx, q, arg).Scan(&t.ID, &t.Label, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("tag repo: get %s error=%v", arg, err)
		return nil, err
	}
	return &t, nil
}

func (r *postgresRepo) Create(ctx context.Context, t domain.Tag) (*domain.Tag, error) {
	const q = `
INSERT INTO tags (id, label)
VALUES ($1, $2)
RETURNING created_at, updated_at
`
	t.ID = uuid.NewString()
	err := r.pool.QueryRow(ctx, q, t.ID, t.Label).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		r.logger.Printf("tag repo: create label=%s error=%v", t.Label, err)
		return nil, mapPgError(err)
	}
	return &t, nil
}

func (r *postgresRepo) Update(ctx context.Context, t domain.Tag) (*domain.Tag, error) {
	const q = `
UPDATE tags
SET label = $2, updated_at = now()
WHERE id::text = $1
RETURNING created_at, updated_at
`
	err := r.pool.QueryRow(ctx, q, t.ID, t.Label).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("tag repo: update id=%s error=%v", t.ID, err)
		return nil, mapPgError(err)
	}
	return &t, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tags WHERE id::text = $1`, id)
	if err != nil {
		r.logger.Printf("tag repo: delete id=%s error=%v", id, err)
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23505":
		return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.ConstraintName)
	case "23514":
		return fmt.Errorf("%w: %s", domain.ErrValidation, pgErr.ConstraintName)
	}
	return err
}
