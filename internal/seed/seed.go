package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type productSeed struct {
	Title        string
	Slug         string
	Description  string
	UnitPrice    string
	Inventory    int
	CategorySlug string
	TagLabels    []string
}

// Apply inserts basic catalog data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	categories := map[string]struct{ title, description string }{
		"electronics": {"Electronics", "Phones, audio and accessories"},
		"home-office": {"Home Office", "Desks, chairs and workspace gear"},
	}
	categoryIDs := make(map[string]string, len(categories))
	for slug, c := range categories {
		id, err := ensureCategory(ctx, pool, c.title, slug, c.description)
		if err != nil {
			return fmt.Errorf("ensure category %s: %w", slug, err)
		}
		categoryIDs[slug] = id
	}

	tagIDs := make(map[string]string)
	for _, label := range []string{"Eco-Friendly", "Best Seller", "New Arrival"} {
		id, err := ensureTag(ctx, pool, label)
		if err != nil {
			return fmt.Errorf("ensure tag %s: %w", label, err)
		}
		tagIDs[label] = id
	}

	products := []productSeed{
		{
			Title:        "Wireless Earbuds",
			Slug:         "wireless-earbuds",
			Description:  "High quality wireless earbuds with noise cancellation",
			UnitPrice:    "99.99",
			Inventory:    25,
			CategorySlug: "electronics",
			TagLabels:    []string{"Eco-Friendly", "Best Seller"},
		},
		{
			Title:        "Bluetooth Speaker",
			Slug:         "bluetooth-speaker",
			Description:  "Portable Bluetooth speaker with deep bass",
			UnitPrice:    "49.99",
			Inventory:    40,
			CategorySlug: "electronics",
			TagLabels:    []string{"Eco-Friendly"},
		},
		{
			Title:        "Standing Desk",
			Slug:         "standing-desk",
			Description:  "Adjustable standing desk with bamboo top",
			UnitPrice:    "349.00",
			Inventory:    8,
			CategorySlug: "home-office",
			TagLabels:    []string{"New Arrival"},
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, categoryIDs[p.CategorySlug], tagIDs, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Slug, err)
		}
	}

	return nil
}

func ensureCategory(ctx context.Context, pool *pgxpool.Pool, title, slug, description string) (string, error) {
	const q = `
INSERT INTO categories (title, slug, description)
VALUES ($1, $2, $3)
ON CONFLICT (slug) DO UPDATE
SET title = EXCLUDED.title,
    description = EXCLUDED.description,
    updated_at = now()
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, title, slug, description).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func ensureTag(ctx context.Context, pool *pgxpool.Pool, label string) (string, error) {
	const q = `
INSERT INTO tags (label)
VALUES ($1)
ON CONFLICT (label) DO UPDATE SET updated_at = now()
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, label).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, categoryID string, tagIDs map[string]string, p productSeed) error {
	const q = `
INSERT INTO products (title, slug, description, unit_price, inventory, is_active, category_id)
VALUES ($1, $2, $3, $4, $5, TRUE, $6)
ON CONFLICT (slug) DO UPDATE
SET title = EXCLUDED.title,
    description = EXCLUDED.description,
    unit_price = EXCLUDED.unit_price,
    inventory = EXCLUDED.inventory,
    category_id = EXCLUDED.category_id,
    updated_at = now()
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, p.Title, p.Slug, p.Description, p.UnitPrice, p.Inventory, categoryID).Scan(&id); err != nil {
		return err
	}

	if _, err := pool.Exec(ctx, `DELETE FROM product_tags WHERE product_id = $1`, id); err != nil {
		return err
	}
	for _, label := range p.TagLabels {
		if _, err := pool.Exec(ctx,
			`INSERT INTO product_tags (product_id, tag_id) VALUES ($1, $2)`,
			id, tagIDs[label],
		); err != nil {
			return err
		}
	}
	return nil
}
