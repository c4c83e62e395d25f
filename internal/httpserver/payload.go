package httpserver

import (
	"time"

	"github.com/shopspring/decimal"

	"storefront-catalog/internal/domain"
)

// searchPayload is the page context the storefront template consumes. Every
// field is populated on every branch, including the degraded ones.
type searchPayload struct {
	Products         []productPayload  `json:"products"`
	Categories       []categoryPayload `json:"categories"`
	Tags             []tagPayload      `json:"tags"`
	SearchQuery      string            `json:"searchQuery"`
	SelectedCategory string            `json:"selectedCategory"`
	SelectedTags     []string          `json:"selectedTags"`
	ClearFiltersURL  string            `json:"clearFiltersUrl"`
}

type categoryPayload struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type tagPayload struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"createdAt"`
}

type productPayload struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Slug        string           `json:"slug"`
	Description string           `json:"description,omitempty"`
	UnitPrice   decimal.Decimal  `json:"unitPrice"`
	Inventory   int              `json:"inventory"`
	IsActive    bool             `json:"isActive"`
	Category    *categoryPayload `json:"category,omitempty"`
	Tags        []tagPayload     `json:"tags"`
	CreatedAt   time.Time        `json:"createdAt"`
}

func toCategoryPayload(c domain.Category) categoryPayload {
	return categoryPayload{
		ID:          c.ID,
		Title:       c.Title,
		Slug:        c.Slug,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
}

func toCategoryPayloads(categories []domain.Category) []categoryPayload {
	out := make([]categoryPayload, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryPayload(c))
	}
	return out
}

func toTagPayload(t domain.Tag) tagPayload {
	return tagPayload{ID: t.ID, Label: t.Label, CreatedAt: t.CreatedAt}
}

func toTagPayloads(tags []domain.Tag) []tagPayload {
	out := make([]tagPayload, 0, len(tags))
	for _, t := range tags {
		out = append(out, toTagPayload(t))
	}
	return out
}

func toProductPayload(p domain.Product) productPayload {
	out := productPayload{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Description: p.Description,
		UnitPrice:   p.UnitPrice,
		Inventory:   p.Inventory,
		IsActive:    p.IsActive,
		Tags:        make([]tagPayload, 0, len(p.Tags)),
		CreatedAt:   p.CreatedAt,
	}
	if p.Category != nil {
		cat := toCategoryPayload(*p.Category)
		out.Category = &cat
	}
	for _, t := range p.Tags {
		out.Tags = append(out.Tags, toTagPayload(t))
	}
	return out
}

func toProductPayloads(products []domain.Product) []productPayload {
	out := make([]productPayload, 0, len(products))
	for _, p := range products {
		out = append(out, toProductPayload(p))
	}
	return out
}
