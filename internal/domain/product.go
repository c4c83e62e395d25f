package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product belongs to exactly one category and carries zero or more tags.
// Deactivated products stay listed; is_active only matters to storefront rendering.
type Product struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Description string          `json:"description,omitempty"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Inventory   int             `json:"inventory"`
	IsActive    bool            `json:"isActive"`
	CategoryID  string          `json:"categoryId"`
	Category    *Category       `json:"category,omitempty"`
	Tags        []Tag           `json:"tags"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// MinUnitPrice is the lowest unit price a product may carry.
var MinUnitPrice = decimal.NewFromInt(1)
