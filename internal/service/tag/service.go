package tag

import (
	"context"
	"time"

	"storefront-catalog/internal/cache"
	"storefront-catalog/internal/domain"
	tagrepo "storefront-catalog/internal/repository/tag"
)

// cacheKey is independent from the category key; invalidating one never
// touches the other.
const cacheKey = "tags"

// Service mirrors the category service for the tag reference list.
type Service struct {
	repo  tagrepo.Repository
	cache cache.Store
	ttl   time.Duration
}

func New(repo tagrepo.Repository, store cache.Store, ttl time.Duration) *Service {
	return &Service{repo: repo, cache: store, ttl: ttl}
}

// List returns the full tag list, get-or-populate against the cache.
func (s *Service) List(ctx context.Context) ([]domain.Tag, error) {
	var cached []domain.Tag
	hit, err := s.cache.GetJSON(ctx, cacheKey, &cached)
	if err != nil {
		return nil, err
	}
	if hit {
		return cached, nil
	}

	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetJSON(ctx, cacheKey, list, s.ttl); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Tag, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, t domain.Tag) (*domain.Tag, error) {
	created, err := s.repo.Create(ctx, t)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Delete(ctx, cacheKey); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) Update(ctx context.Context, t domain.Tag) (*domain.Tag, error) {
	updated, err := s.repo.Update(ctx, t)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Delete(ctx, cacheKey); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return s.cache.Delete(ctx, cacheKey)
}
