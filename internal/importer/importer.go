package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"storefront-catalog/internal/domain"
)

type ProductWriter interface {
	UpsertBySlug(ctx context.Context, p domain.Product, tagIDs []string) (*domain.Product, error)
}

type CategoryResolver interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	Create(ctx context.Context, c domain.Category) (*domain.Category, error)
}

type TagResolver interface {
	GetByLabel(ctx context.Context, label string) (*domain.Tag, error)
	Create(ctx context.Context, t domain.Tag) (*domain.Tag, error)
}

// CSVImporter reads catalog CSV exports and inserts/updates products.
// Expected columns: title, slug, description, unit_price, inventory,
// category, tags. The category column holds a category slug; tags holds
// "|"-separated tag labels. Missing categories and tags are created.
type CSVImporter struct {
	reader     *csv.Reader
	products   ProductWriter
	categories CategoryResolver
	tags       TagResolver

	categoryIDs map[string]string
	tagIDs      map[string]string
}

func NewCSVImporter(r io.Reader, products ProductWriter, categories CategoryResolver, tags TagResolver) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		products:    products,
		categories:  categories,
		tags:        tags,
		categoryIDs: map[string]string{},
		tagIDs:      map[string]string{},
	}
}

// Run parses CSV rows and upserts one product per row, keyed by slug.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	imported := 0
	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		line++

		if err := i.importRow(ctx, record, index); err != nil {
			return imported, fmt.Errorf("row %d: %w", line, err)
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) importRow(ctx context.Context, record []string, index map[string]int) error {
	title := pick(record, index, "title")
	slug := pick(record, index, "slug")
	priceStr := pick(record, index, "unit_price")
	categorySlug := pick(record, index, "category")
	if title == "" || priceStr == "" || categorySlug == "" {
		return fmt.Errorf("missing required fields (title, unit_price, category)")
	}
	if slug == "" {
		slug = domain.Slugify(title)
	}

	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return fmt.Errorf("parse unit_price %q: %w", priceStr, err)
	}
	if price.LessThan(domain.MinUnitPrice) {
		return fmt.Errorf("unit_price %s below minimum %s", price, domain.MinUnitPrice)
	}

	inventory := 0
	if s := pick(record, index, "inventory"); s != "" {
		inventory, err = strconv.Atoi(s)
		if err != nil || inventory < 0 {
			return fmt.Errorf("invalid inventory %q", s)
		}
	}

	categoryID, err := i.resolveCategory(ctx, categorySlug)
	if err != nil {
		return fmt.Errorf("resolve category %q: %w", categorySlug, err)
	}

	tagIDs := []string{}
	for _, label := range splitTags(pick(record, index, "tags")) {
		id, err := i.resolveTag(ctx, label)
		if err != nil {
			return fmt.Errorf("resolve tag %q: %w", label, err)
		}
		tagIDs = append(tagIDs, id)
	}

	p := domain.Product{
		Title:       title,
		Slug:        slug,
		Description: pick(record, index, "description"),
		UnitPrice:   price,
		Inventory:   inventory,
		IsActive:    true,
		CategoryID:  categoryID,
	}
	if _, err := i.products.UpsertBySlug(ctx, p, tagIDs); err != nil {
		return fmt.Errorf("upsert product %q: %w", slug, err)
	}
	return nil
}

func (i *CSVImporter) resolveCategory(ctx context.Context, slug string) (string, error) {
	if id, ok := i.categoryIDs[slug]; ok {
		return id, nil
	}
	c, err := i.categories.GetBySlug(ctx, slug)
	if errors.Is(err, domain.ErrNotFound) {
		c, err = i.categories.Create(ctx, domain.Category{Title: titleFromSlug(slug), Slug: slug})
	}
	if err != nil {
		return "", err
	}
	i.categoryIDs[slug] = c.ID
	return c.ID, nil
}

func (i *CSVImporter) resolveTag(ctx context.Context, label string) (string, error) {
	if id, ok := i.tagIDs[label]; ok {
		return id, nil
	}
	t, err := i.tags.GetByLabel(ctx, label)
	if errors.Is(err, domain.ErrNotFound) {
		t, err = i.tags.Create(ctx, domain.Tag{Label: label})
	}
	if err != nil {
		return "", err
	}
	i.tagIDs[label] = t.ID
	return t.ID, nil
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var labels []string
	for _, part := range strings.Split(raw, "|") {
		if part = strings.TrimSpace(part); part != "" {
			labels = append(labels, part)
		}
	}
	return labels
}

func titleFromSlug(slug string) string {
	words := strings.Split(slug, "-")
	for j, w := range words {
		if w != "" {
			words[j] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
