package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront-catalog/internal/domain"
	productrepo "storefront-catalog/internal/repository/product"
)

type categoryRequest struct {
	Title       string `json:"title" binding:"required"`
	Slug        string `json:"slug" binding:"omitempty,slug"`
	Description string `json:"description"`
}

type tagRequest struct {
	Label string `json:"label" binding:"required"`
}

type productRequest struct {
	Title       string   `json:"title" binding:"required"`
	Slug        string   `json:"slug" binding:"omitempty,slug"`
	Description string   `json:"description"`
	UnitPrice   string   `json:"unitPrice" binding:"required"`
	Inventory   int      `json:"inventory" binding:"min=0"`
	IsActive    *bool    `json:"isActive"`
	CategoryID  string   `json:"categoryId" binding:"required"`
	TagIDs      []string `json:"tagIds"`
}

// writeDomainError maps repository sentinels onto HTTP statuses.
func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrCategoryInUse):
		c.JSON(http.StatusConflict, gin.H{"error": "category still has products"})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func listCategoriesHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := deps.CategorySvc.List(c.Request.Context())
		if err != nil {
			writeDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCategoryPayloads(categories))
	}
}

func createCategoryHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req categoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		created, err := deps.CategorySvc.Create(c.Request.Context(), domain.Category{
			Title:       req.Title,
			Slug:        req.Slug,
			Description: req.Description,
		})
		if err != nil {
			writeDomainError(c, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

func updateCategoryHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req categoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		updated, err := deps.CategorySvc.Update(c.Request.Context(), domain.Category{
			ID:          c.Param("id"),
			Title:       req.Title,
			Slug:        req.Slug,
			Description: req.Description,
		})
		if err != nil {
			writeDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func deleteCategoryHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := deps.CategorySvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			writeDomainError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func listTagsHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		tags, err := deps.TagSvc.List(c.Request.Context())
		if err != nil {
			writeDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, toTagPayloads(tags))
	}
}

func createTagHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req tagRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		created, err := deps.TagSvc.Create(c.Request.Context(), domain.Tag{Label: req.Label})
		if err != nil {
			writeDomainError(c, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

func updateTagHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req tagRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		updated, err := deps.TagSvc.Update(c.Request.Context(), domain.Tag{
			ID:    c.Param("id"),
			Label: req.Label,
		})
		if err != nil {
			writeDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func deleteTagHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := deps.TagSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			writeDomainError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func listProductsHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := deps.ProductSvc.Search(c.Request.Context(), productrepo.Filter{})
		if err != nil {
			writeDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, toProductPayloads(products))
	}
}

func createProductHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, tagIDs, ok := bindProductRequest(c)
		if !ok {
			return
		}
		created, err := deps.ProductSvc.Create(c.Request.Context(), *product, tagIDs)
		if err != nil {
			writeDomainError(c, err)
			return
		}
		c.JSON(http.StatusCreated, toProductPayload(*created))
	}
}

func updateProductHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, tagIDs, ok := bindProductRequest(c)
		if !ok {
			return
		}
		product.ID = c.Param("id")
		updated, err := deps.ProductSvc.Update(c.Request.Context(), *product, tagIDs)
		if err != nil {
			writeDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, toProductPayload(*updated))
	}
}

func deleteProductHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := deps.ProductSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			writeDomainError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// bindProductRequest validates the payload and enforces the price floor before
// anything reaches the database.
func bindProductRequest(c *gin.Context) (*domain.Product, []string, bool) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, nil, false
	}
	price, err := decimal.NewFromString(req.UnitPrice)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unitPrice is not a decimal"})
		return nil, nil, false
	}
	if price.LessThan(domain.MinUnitPrice) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unitPrice must be at least 1"})
		return nil, nil, false
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	return &domain.Product{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
		UnitPrice:   price,
		Inventory:   req.Inventory,
		IsActive:    isActive,
		CategoryID:  req.CategoryID,
	}, req.TagIDs, true
}
