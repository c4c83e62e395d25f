package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront-catalog/internal/domain"
)

func authedRequest(t *testing.T, method, url, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	token, err := generateAdminToken("test-secret", "admin")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestCreateCategory_Succeeds(t *testing.T) {
	catSvc := &stubCategoryService{}
	router := testRouter(t, testDeps(&stubProductService{}, catSvc, &stubTagService{}))

	req := authedRequest(t, http.MethodPost, "/admin/categories",
		`{"title":"Electronics","slug":"electronics","description":"Electronic items"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if catSvc.created == nil || catSvc.created.Slug != "electronics" {
		t.Fatalf("service not invoked correctly: %+v", catSvc.created)
	}
}

func TestCreateCategory_RejectsBadSlugAndMissingTitle(t *testing.T) {
	router := testRouter(t, testDeps(&stubProductService{}, &stubCategoryService{}, &stubTagService{}))

	for _, body := range []string{
		`{"title":"Electronics","slug":"Bad Slug!"}`,
		`{"slug":"electronics"}`,
	} {
		req := authedRequest(t, http.MethodPost, "/admin/categories", body)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %s, got %d", body, rec.Code)
		}
	}
}

func TestDeleteCategory_InUseConflicts(t *testing.T) {
	catSvc := &stubCategoryService{deleteErr: domain.ErrCategoryInUse}
	router := testRouter(t, testDeps(&stubProductService{}, catSvc, &stubTagService{}))

	req := authedRequest(t, http.MethodDelete, "/admin/categories/c1", "")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 while products exist, got %d", rec.Code)
	}
}

func TestCreateProduct_EnforcesPriceFloor(t *testing.T) {
	router := testRouter(t, testDeps(&stubProductService{}, &stubCategoryService{}, &stubTagService{}))

	req := authedRequest(t, http.MethodPost, "/admin/products",
		`{"title":"Freebie","unitPrice":"0.99","inventory":1,"categoryId":"c1"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for sub-minimum price, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestCreateProduct_Succeeds(t *testing.T) {
	router := testRouter(t, testDeps(&stubProductService{}, &stubCategoryService{}, &stubTagService{}))

	req := authedRequest(t, http.MethodPost, "/admin/products",
		`{"title":"Wireless Earbuds","unitPrice":"99.99","inventory":10,"categoryId":"c1","tagIds":["t1","t2"]}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"isActive":true`) {
		t.Fatalf("expected isActive to default true, got %s", rec.Body.String())
	}
}
