package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront-catalog/internal/cache"
	"storefront-catalog/internal/domain"
	productrepo "storefront-catalog/internal/repository/product"
)

type stubProductService struct {
	products   []domain.Product
	err        error
	lastFilter productrepo.Filter
}

func (s *stubProductService) Search(_ context.Context, f productrepo.Filter) ([]domain.Product, error) {
	s.lastFilter = f
	return s.products, s.err
}

func (s *stubProductService) Get(_ context.Context, _ string) (*domain.Product, error) {
	return nil, domain.ErrNotFound
}

func (s *stubProductService) Create(_ context.Context, p domain.Product, _ []string) (*domain.Product, error) {
	return &p, s.err
}

func (s *stubProductService) Update(_ context.Context, p domain.Product, _ []string) (*domain.Product, error) {
	return &p, s.err
}

func (s *stubProductService) Delete(_ context.Context, _ string) error {
	return s.err
}

type stubCategoryService struct {
	categories []domain.Category
	listErr    error
	deleteErr  error
	created    *domain.Category
}

func (s *stubCategoryService) List(_ context.Context) ([]domain.Category, error) {
	return s.categories, s.listErr
}

func (s *stubCategoryService) Get(_ context.Context, _ string) (*domain.Category, error) {
	return nil, domain.ErrNotFound
}

func (s *stubCategoryService) Create(_ context.Context, c domain.Category) (*domain.Category, error) {
	s.created = &c
	return &c, nil
}

func (s *stubCategoryService) Update(_ context.Context, c domain.Category) (*domain.Category, error) {
	return &c, nil
}

func (s *stubCategoryService) Delete(_ context.Context, _ string) error {
	return s.deleteErr
}

type stubTagService struct {
	tags    []domain.Tag
	listErr error
}

func (s *stubTagService) List(_ context.Context) ([]domain.Tag, error) {
	return s.tags, s.listErr
}

func (s *stubTagService) Get(_ context.Context, _ string) (*domain.Tag, error) {
	return nil, domain.ErrNotFound
}

func (s *stubTagService) Create(_ context.Context, t domain.Tag) (*domain.Tag, error) {
	return &t, nil
}

func (s *stubTagService) Update(_ context.Context, t domain.Tag) (*domain.Tag, error) {
	return &t, nil
}

func (s *stubTagService) Delete(_ context.Context, _ string) error {
	return nil
}

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func testDeps(products *stubProductService, categories *stubCategoryService, tags *stubTagService) Deps {
	return Deps{
		CategorySvc:   categories,
		TagSvc:        tags,
		ProductSvc:    products,
		JWTSecret:     "test-secret",
		AdminUser:     "admin",
		AdminPassword: "admin",
	}
}

func testRouter(t *testing.T, deps Deps) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router, err := buildRouter(logDiscard(), nil, deps)
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router
}

func TestSearchHandler_PassesCriteriaAndAssemblesPayload(t *testing.T) {
	prodSvc := &stubProductService{products: []domain.Product{{
		ID:        "p1",
		Title:     "Wireless Earbuds",
		Slug:      "wireless-earbuds",
		UnitPrice: decimal.RequireFromString("99.99"),
		Category:  &domain.Category{ID: "c1", Title: "Electronics"},
		Tags:      []domain.Tag{{ID: "t1", Label: "Eco-Friendly"}},
	}}}
	catSvc := &stubCategoryService{categories: []domain.Category{{ID: "c1", Title: "Electronics"}}}
	tagSvc := &stubTagService{tags: []domain.Tag{{ID: "t1", Label: "Eco-Friendly"}}}
	router := testRouter(t, testDeps(prodSvc, catSvc, tagSvc))

	req := httptest.NewRequest(http.MethodGet, "/products?search=wireless+earbuds&category=c1&tags=t1&tags=t2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	if prodSvc.lastFilter.Search != "wireless earbuds" || prodSvc.lastFilter.CategoryID != "c1" {
		t.Fatalf("unexpected filter %+v", prodSvc.lastFilter)
	}
	if len(prodSvc.lastFilter.TagIDs) != 2 {
		t.Fatalf("expected both tag ids forwarded, got %v", prodSvc.lastFilter.TagIDs)
	}

	var payload searchPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if len(payload.Products) != 1 || payload.Products[0].Title != "Wireless Earbuds" {
		t.Fatalf("unexpected products %+v", payload.Products)
	}
	if payload.Products[0].Category == nil || payload.Products[0].Category.Title != "Electronics" {
		t.Fatalf("expected resolved category, got %+v", payload.Products[0].Category)
	}
	if payload.SearchQuery != "wireless earbuds" || payload.SelectedCategory != "c1" {
		t.Fatalf("selection not echoed: %+v", payload)
	}
	if payload.ClearFiltersURL != "/products" {
		t.Fatalf("expected canonical clear-filters url, got %q", payload.ClearFiltersURL)
	}
}

func TestSearchHandler_PersistenceFailureDegrades(t *testing.T) {
	prodSvc := &stubProductService{err: errors.New("connection refused")}
	router := testRouter(t, testDeps(prodSvc, &stubCategoryService{}, &stubTagService{}))

	req := httptest.NewRequest(http.MethodGet, "/products?search=wireless&tags=t1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("degraded page must still be 200, got %d", rec.Code)
	}

	var payload searchPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if len(payload.Products) != 0 || len(payload.Categories) != 0 || len(payload.Tags) != 0 {
		t.Fatalf("expected empty collections, got %+v", payload)
	}
	if payload.ClearFiltersURL != placeholderLink {
		t.Fatalf("expected placeholder link, got %q", payload.ClearFiltersURL)
	}
	// Selection still echoed so the template can re-render the filter controls.
	if payload.SearchQuery != "wireless" || len(payload.SelectedTags) != 1 {
		t.Fatalf("expected selection echoed on degraded page, got %+v", payload)
	}
	// Every collection must serialize as [], never null.
	for _, frag := range []string{`"products":[]`, `"categories":[]`, `"tags":[]`, `"selectedTags":["t1"]`} {
		if !strings.Contains(rec.Body.String(), frag) {
			t.Fatalf("missing %s in body %s", frag, rec.Body.String())
		}
	}
}

func TestSearchHandler_RefDataPersistenceFailureDegrades(t *testing.T) {
	catSvc := &stubCategoryService{listErr: errors.New("relation does not exist")}
	router := testRouter(t, testDeps(&stubProductService{}, catSvc, &stubTagService{}))

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected degraded 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"clearFiltersUrl":"#"`) {
		t.Fatalf("expected placeholder link, got %s", rec.Body.String())
	}
}

func TestSearchHandler_CacheFailurePropagates(t *testing.T) {
	tagSvc := &stubTagService{listErr: fmt.Errorf("%w: dial tcp: refused", cache.ErrUnavailable)}
	router := testRouter(t, testDeps(&stubProductService{}, &stubCategoryService{}, tagSvc))

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("cache failure must not be absorbed, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestSearchHandler_RouteFallbackUsesRequestPath(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	// No route registered under the search name: resolution must fall back to
	// the request path and the page must still render.
	router.GET("/store/items", searchHandler(
		testDeps(&stubProductService{}, &stubCategoryService{}, &stubTagService{}),
		newRouteTable(), logDiscard()))

	req := httptest.NewRequest(http.MethodGet, "/store/items?search=x", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var payload searchPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.ClearFiltersURL != "/store/items" {
		t.Fatalf("expected request-path fallback, got %q", payload.ClearFiltersURL)
	}
}

func TestSearchHandler_NoCriteria(t *testing.T) {
	prodSvc := &stubProductService{}
	router := testRouter(t, testDeps(prodSvc, &stubCategoryService{}, &stubTagService{}))

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if prodSvc.lastFilter.Search != "" || prodSvc.lastFilter.CategoryID != "" || len(prodSvc.lastFilter.TagIDs) != 0 {
		t.Fatalf("expected zero-value filter, got %+v", prodSvc.lastFilter)
	}
}
