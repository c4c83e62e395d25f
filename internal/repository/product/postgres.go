package product

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

// Search returns products matching every provided criterion, ordered by title,
// with category and tags resolved. Two queries total regardless of result size.
func (r *postgresRepo) Search(ctx context.Context, f Filter) ([]domain.Product, error) {
	q, args := buildSearchQuery(f)
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("product repo: search error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProductWithCategory(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: search rows error=%v", err)
		return nil, err
	}

	if err := r.attachTags(ctx, result); err != nil {
		r.logger.Printf("product repo: attach tags error=%v", err)
		return nil, err
	}
	r.logger.Printf("product repo: search text=%q category=%q tags=%d count=%d",
		f.Search, f.CategoryID, len(f.TagIDs), len(result))
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	q := searchBaseQuery + "\n  AND p.id::text = $1"
	row := r.pool.QueryRow(ctx, q, id)
	p, err := scanProductWithCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}
	one := []domain.Product{*p}
	if err := r.attachTags(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Product, tagIDs []string) (*domain.Product, error) {
	const q = `
INSERT INTO products (id, title, slug, description, unit_price, inventory, is_active, category_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8::uuid)
RETURNING created_at, updated_at
`
	p.ID = uuid.NewString()
	created, err := r.writeWithTags(ctx, tagIDs, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, q, p.ID, p.Title, p.Slug, p.Description, p.UnitPrice, p.Inventory, p.IsActive, p.CategoryID).
			Scan(&p.CreatedAt, &p.UpdatedAt)
	}, &p)
	if err != nil {
		r.logger.Printf("product repo: create slug=%s error=%v", p.Slug, err)
		return nil, err
	}
	return created, nil
}

func (r *postgresRepo) Update(ctx context.Context, p domain.Product, tagIDs []string) (*domain.Product, error) {
	const q = `
UPDATE products
SET title = $2, slug = $3, description = $4, unit_price = $5, inventory = $6, is_active = $7, category_id = $8::uuid, updated_at = now()
WHERE id::text = $1
RETURNING created_at, updated_at
`
	updated, err := r.writeWithTags(ctx, tagIDs, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, q, p.ID, p.Title, p.Slug, p.Description, p.UnitPrice, p.Inventory, p.IsActive, p.CategoryID).
			Scan(&p.CreatedAt, &p.UpdatedAt)
	}, &p)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			r.logger.Printf("product repo: update id=%s error=%v", p.ID, err)
		}
		return nil, err
	}
	return updated, nil
}

// UpsertBySlug inserts or refreshes a product keyed by its slug. The importer
// relies on it for idempotent re-runs.
func (r *postgresRepo) UpsertBySlug(ctx context.Context, p domain.Product, tagIDs []string) (*domain.Product, error) {
	const q = `
INSERT INTO products (id, title, slug, description, unit_price, inventory, is_active, category_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8::uuid)
ON CONFLICT (slug) DO UPDATE SET
    title = EXCLUDED.title,
    description = EXCLUDED.description,
    unit_price = EXCLUDED.unit_price,
    inventory = EXCLUDED.inventory,
    is_active = EXCLUDED.is_active,
    category_id = EXCLUDED.category_id,
    updated_at = now()
RETURNING id::text, created_at, updated_at
`
	id := uuid.NewString()
	upserted, err := r.writeWithTags(ctx, tagIDs, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, q, id, p.Title, p.Slug, p.Description, p.UnitPrice, p.Inventory, p.IsActive, p.CategoryID).
			Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	}, &p)
	if err != nil {
		r.logger.Printf("product repo: upsert slug=%s error=%v", p.Slug, err)
		return nil, err
	}
	return upserted, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id::text = $1`, id)
	if err != nil {
		r.logger.Printf("product repo: delete id=%s error=%v", id, err)
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// writeWithTags runs the product write and the tag membership replacement in
// one transaction.
func (r *postgresRepo) writeWithTags(ctx context.Context, tagIDs []string, write func(pgx.Tx) error, out *domain.Product) (*domain.Product, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := write(tx); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, mapPgError(err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM product_tags WHERE product_id::text = $1`, out.ID); err != nil {
		return nil, mapPgError(err)
	}
	for _, tagID := range tagIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO product_tags (product_id, tag_id) VALUES ($1::uuid, $2::uuid) ON CONFLICT DO NOTHING`,
			out.ID, tagID); err != nil {
			return nil, mapPgError(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	res := *out
	one := []domain.Product{res}
	if err := r.attachTags(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// attachTags loads the tags for every product in the slice with a single query.
func (r *postgresRepo) attachTags(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]string, len(products))
	byID := make(map[string]*domain.Product, len(products))
	for i := range products {
		ids[i] = products[i].ID
		products[i].Tags = []domain.Tag{}
		byID[products[i].ID] = &products[i]
	}

	const q = `
SELECT pt.product_id::text, t.id::text, t.label, t.created_at, t.updated_at
FROM product_tags pt
JOIN tags t ON t.id = pt.tag_id
WHERE pt.product_id::text = ANY($1)
ORDER BY t.label ASC
`
	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			productID string
			t         domain.Tag
		)
		if err := rows.Scan(&productID, &t.ID, &t.Label, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return err
		}
		if p, ok := byID[productID]; ok {
			p.Tags = append(p.Tags, t)
		}
	}
	return rows.Err()
}

func scanProductWithCategory(row pgx.Row) (*domain.Product, error) {
	var (
		p domain.Product
		c domain.Category
	)
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Description, &p.UnitPrice, &p.Inventory, &p.IsActive, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt,
		&c.ID, &c.Title, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Category = &c
	return &p, nil
}

// mapPgError translates constraint violations into domain sentinels. On product
// writes a foreign key failure means the referenced category or tag is unknown.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23503":
		return fmt.Errorf("%w: %s", domain.ErrValidation, pgErr.ConstraintName)
	case "23505":
		return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.ConstraintName)
	case "23514":
		return fmt.Errorf("%w: %s", domain.ErrValidation, pgErr.ConstraintName)
	}
	return err
}
