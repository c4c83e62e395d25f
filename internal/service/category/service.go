package category

import (
	"context"
	"time"

	"storefront-catalog/internal/cache"
	"storefront-catalog/internal/domain"
	categoryrepo "storefront-catalog/internal/repository/category"
)

// cacheKey is the single fixed key the category reference list lives under.
const cacheKey = "categories"

// Service serves the category reference list through the cache and owns its
// invalidation: every write path deletes the key before returning, so a
// same-process reader never sees a stale list.
type Service struct {
	repo  categoryrepo.Repository
	cache cache.Store
	ttl   time.Duration
}

func New(repo categoryrepo.Repository, store cache.Store, ttl time.Duration) *Service {
	return &Service{repo: repo, cache: store, ttl: ttl}
}

// List returns the full category list, get-or-populate against the cache.
func (s *Service) List(ctx context.Context) ([]domain.Category, error) {
	var cached []domain.Category
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

func (s *Service) Get(ctx context.Context, id string) (*domain.Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, c domain.Category) (*domain.Category, error) {
	if c.Slug == "" {
		c.Slug = domain.Slugify(c.Title)
	}
	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Delete(ctx, cacheKey); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) Update(ctx context.Context, c domain.Category) (*domain.Category, error) {
	if c.Slug == "" {
		c.Slug = domain.Slugify(c.Title)
	}
	updated, err := s.repo.Update(ctx, c)
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
