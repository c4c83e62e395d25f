package tag

import (
	"context"

	"storefront-catalog/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Tag, error)
	GetByID(ctx context.Context, id string) (*domain.Tag, error)
	GetByLabel(ctx context.Context, label string) (*domain.Tag, error)
	Create(ctx context.Context, t domain.Tag) (*domain.Tag, error)
	Update(ctx context.Context, t domain.Tag) (*domain.Tag, error)
	Delete(ctx context.Context, id string) error
}
