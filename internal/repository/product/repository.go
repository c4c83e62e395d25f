package product

import (
	"context"

	"storefront-catalog/internal/domain"
)

// Filter carries the optional search criteria for the storefront product view.
// Zero values mean "no constraint".
type Filter struct {
	Search     string
	CategoryID string
	TagIDs     []string
}

type Repository interface {
	Search(ctx context.Context, f Filter) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product, tagIDs []string) (*domain.Product, error)
	Update(ctx context.Context, p domain.Product, tagIDs []string) (*domain.Product, error)
	UpsertBySlug(ctx context.Context, p domain.Product, tagIDs []string) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}
