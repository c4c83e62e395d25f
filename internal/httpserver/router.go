package httpserver

import (
	"context"
	"log"
	"regexp"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/time/rate"

	"storefront-catalog/internal/domain"
	productrepo "storefront-catalog/internal/repository/product"
)

// CategoryService is the reference-data surface the handlers need; the
// concrete service behind it owns the cache policy.
type CategoryService interface {
	List(ctx context.Context) ([]domain.Category, error)
	Get(ctx context.Context, id string) (*domain.Category, error)
	Create(ctx context.Context, c domain.Category) (*domain.Category, error)
	Update(ctx context.Context, c domain.Category) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
}

type TagService interface {
	List(ctx context.Context) ([]domain.Tag, error)
	Get(ctx context.Context, id string) (*domain.Tag, error)
	Create(ctx context.Context, t domain.Tag) (*domain.Tag, error)
	Update(ctx context.Context, t domain.Tag) (*domain.Tag, error)
	Delete(ctx context.Context, id string) error
}

type ProductService interface {
	Search(ctx context.Context, f productrepo.Filter) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product, tagIDs []string) (*domain.Product, error)
	Update(ctx context.Context, p domain.Product, tagIDs []string) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// Deps carries the collaborators and settings the router wires together.
type Deps struct {
	CategorySvc   CategoryService
	TagSvc        TagService
	ProductSvc    ProductService
	JWTSecret     string
	AdminUser     string
	AdminPassword string
	SearchRPS     float64
	SearchBurst   int
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// buildRouter wires the storefront and admin routes.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return slugPattern.MatchString(fl.Field().String())
		}); err != nil {
			return nil, err
		}
	}

	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	routes := newRouteTable()
	const productSearchPath = "/products"
	routes.register(productSearchRoute, productSearchPath)

	rps := deps.SearchRPS
	if rps <= 0 {
		rps = 20
	}
	burst := deps.SearchBurst
	if burst <= 0 {
		burst = 40
	}
	router.GET(productSearchPath, rateLimit(rate.Limit(rps), burst), searchHandler(deps, routes, logger))

	admin := router.Group("/admin")
	admin.POST("/token", tokenHandler(deps))

	authed := admin.Group("", adminAuth(deps.JWTSecret))
	{
		authed.GET("/categories", listCategoriesHandler(deps))
		authed.POST("/categories", createCategoryHandler(deps))
		authed.PUT("/categories/:id", updateCategoryHandler(deps))
		authed.DELETE("/categories/:id", deleteCategoryHandler(deps))

		authed.GET("/tags", listTagsHandler(deps))
		authed.POST("/tags", createTagHandler(deps))
		authed.PUT("/tags/:id", updateTagHandler(deps))
		authed.DELETE("/tags/:id", deleteTagHandler(deps))

		authed.GET("/products", listProductsHandler(deps))
		authed.POST("/products", createProductHandler(deps))
		authed.PUT("/products/:id", updateProductHandler(deps))
		authed.DELETE("/products/:id", deleteProductHandler(deps))
	}

	return router, nil
}
