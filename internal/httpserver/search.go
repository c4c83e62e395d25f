package httpserver

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-catalog/internal/cache"
	productrepo "storefront-catalog/internal/repository/product"
)

// placeholderLink renders as a dead link when the canonical search URL is not
// available in a degraded response.
const placeholderLink = "#"

// searchHandler serves the storefront search view: optional `search`,
// `category` and repeatable `tags` query parameters, combined conjunctively.
//
// A persistence failure anywhere in the flow degrades to an empty results page
// rather than an error page. A cache failure is not recovered and turns into a
// processing failure. Both outcomes carry every payload field.
func searchHandler(deps Deps, routes *routeTable, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		// Parameters are parsed before anything can fail so the degraded
		// payload still echoes the caller's selection.
		searchQuery := c.Query("search")
		categoryID := c.Query("category")
		tagIDs := c.QueryArray("tags")
		if tagIDs == nil {
			tagIDs = []string{}
		}

		degraded := func(err error) {
			logger.Printf("search: persistence failure, serving degraded page: %v", err)
			c.JSON(http.StatusOK, searchPayload{
				Products:         []productPayload{},
				Categories:       []categoryPayload{},
				Tags:             []tagPayload{},
				SearchQuery:      searchQuery,
				SelectedCategory: categoryID,
				SelectedTags:     tagIDs,
				ClearFiltersURL:  placeholderLink,
			})
		}

		products, err := deps.ProductSvc.Search(ctx, productrepo.Filter{
			Search:     searchQuery,
			CategoryID: categoryID,
			TagIDs:     tagIDs,
		})
		if err != nil {
			degraded(err)
			return
		}

		categories, err := deps.CategorySvc.List(ctx)
		if err != nil {
			refDataFailure(c, degraded, logger, err)
			return
		}
		tags, err := deps.TagSvc.List(ctx)
		if err != nil {
			refDataFailure(c, degraded, logger, err)
			return
		}

		clearFilters, err := routes.Reverse(productSearchRoute)
		if err != nil {
			logger.Printf("search: resolve clear-filters url: %v", err)
			clearFilters = c.Request.URL.Path
		}

		c.JSON(http.StatusOK, searchPayload{
			Products:         toProductPayloads(products),
			Categories:       toCategoryPayloads(categories),
			Tags:             toTagPayloads(tags),
			SearchQuery:      searchQuery,
			SelectedCategory: categoryID,
			SelectedTags:     tagIDs,
			ClearFiltersURL:  clearFilters,
		})
	}
}

// refDataFailure routes a reference-data error to the right recovery: database
// trouble degrades the page, cache trouble is the one failure class this
// handler does not absorb.
func refDataFailure(c *gin.Context, degraded func(error), logger *log.Logger, err error) {
	if errors.Is(err, cache.ErrUnavailable) {
		logger.Printf("search: reference data cache failure: %v", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "reference data unavailable"})
		return
	}
	degraded(err)
}
