package category

import (
	"context"

	"storefront-catalog/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Category, error)
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	Create(ctx context.Context, c domain.Category) (*domain.Category, error)
	Update(ctx context.Context, c domain.Category) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
}
