package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/time/rate"

	"github.com/techone/pos-api/internal/api/handler"
	"github.com/techone/pos-api/internal/api/middleware"
	"github.com/techone/pos-api/internal/core/domain"
	"github.com/techone/pos-api/internal/core/ports"
	"github.com/techone/pos-api/internal/core/service"
	"github.com/techone/pos-api/internal/infrastructure/config"
	mongodb "github.com/techone/pos-api/internal/infrastructure/db/mongo"
	"github.com/techone/pos-api/internal/ratelimit"
)

// Deps carries everything the router needs to assemble the request path.
type Deps struct {
	Config     *config.Config
	Logger     zerolog.Logger
	Audit      zerolog.Logger
	DB         *mongo.Database
	Redis      *redis.Client // nil when the in-memory rotation store is used
	TokenStore ports.RefreshTokenStore
	Credential domain.Credential
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("pos"))
	// Coarse per-IP throttle in front of everything; the fixed-window limiter
	// below handles the sensitive endpoint classes.
	e.Use(echomiddleware.RateLimiter(echomiddleware.NewRateLimiterMemoryStoreWithConfig(
		echomiddleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(d.Config.Rate.GeneralRPS),
			Burst:     d.Config.Rate.GeneralBurst,
			ExpiresIn: 3 * time.Minute,
		},
	)))

	// --- Dependencies ---
	productRepo := mongodb.NewProductRepository(d.DB)
	saleRepo := mongodb.NewSaleRepository(d.DB)

	limiter := ratelimit.New(d.Config.Rate.Window, map[string]int{
		service.RateClassAuth:  d.Config.Rate.AuthLimit,
		service.RateClassSales: d.Config.Rate.SalesLimit,
	}, nil)

	tokenService := service.NewTokenService(
		d.Config.Auth.JWTSecret,
		d.Config.Auth.AccessTTL,
		d.Config.Auth.RefreshTTL,
		d.TokenStore,
		nil,
	)
	authService := service.NewAuthService(d.Credential, tokenService, limiter, d.Config.Auth.GrantedScopes, d.Logger, d.Audit)
	productService := service.NewProductService(productRepo)
	saleService := service.NewSaleService(productRepo, saleRepo, service.SaleConfig{
		TaxRatePercent:   d.Config.Sale.TaxRatePercent,
		TaxCode:          d.Config.Sale.TaxCode,
		AllowCustomItems: d.Config.Sale.AllowCustomItems,
		IDHashSalt:       d.Config.Sale.IDHashSalt,
		ClerkCode:        d.Config.Sale.ClerkCode,
		StoreCode:        d.Config.Sale.StoreCode,
		PosID:            d.Config.Sale.PosID,
	}, d.Logger, nil)

	authHandler := handler.NewAuthHandler(authService, handler.CookieSettings{
		Name:     d.Config.Cookie.Name,
		Path:     d.Config.Cookie.Path,
		Secure:   d.Config.Cookie.Secure,
		SameSite: d.Config.Cookie.SameSiteMode(),
	})
	productHandler := handler.NewProductHandler(productService)
	saleHandler := handler.NewSaleHandler(saleService)
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.DB, d.Redis)

	// --- Open routes ---
	e.GET("/healthz", healthHandler.Liveness)
	e.GET("/healthz/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Auth routes (admission handled inside the orchestrator) ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/refresh", authHandler.Refresh)
	e.POST("/auth/logout", authHandler.Logout)

	// --- Protected routes ---
	apiGroup := e.Group("/api", middleware.Auth(tokenService))
	apiGroup.GET("/products", productHandler.List, middleware.RequireScope("items:read"))
	apiGroup.GET("/products/:code", productHandler.Get, middleware.RequireScope("items:read"))
	apiGroup.POST("/purchase", saleHandler.Create,
		middleware.RequireScope("sales:write"),
		middleware.ClassRateLimit(limiter, service.RateClassSales),
	)
	apiGroup.GET("/sales", saleHandler.List, middleware.RequireScope("sales:read"))
	apiGroup.GET("/sales/summary", saleHandler.Summary, middleware.RequireScope("sales:read"))
	apiGroup.DELETE("/sales/:id", saleHandler.Delete, middleware.RequireScope("sales:delete"))

	return e
}
