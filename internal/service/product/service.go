package product

import (
	"context"

	"storefront-catalog/internal/domain"
	productrepo "storefront-catalog/internal/repository/product"
)

// Service is a thin pass-through; product writes never touch the reference
// data cache, which only holds categories and tags.
type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Search(ctx context.Context, f productrepo.Filter) ([]domain.Product, error) {
	return s.repo.Search(ctx, f)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, p domain.Product, tagIDs []string) (*domain.Product, error) {
	if p.Slug == "" {
		p.Slug = domain.Slugify(p.Title)
	}
	return s.repo.Create(ctx, p, tagIDs)
}

func (s *Service) Update(ctx context.Context, p domain.Product, tagIDs []string) (*domain.Product, error) {
	if p.Slug == "" {
		p.Slug = domain.Slugify(p.Title)
	}
	return s.repo.Update(ctx, p, tagIDs)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
