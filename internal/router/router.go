package router

import (
	"time"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"partsdesk/internal/config"
	"partsdesk/internal/handler"
	"partsdesk/internal/middleware"
	"partsdesk/internal/repository"
	"partsdesk/internal/service"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	partRepo := repository.NewPartRepository(db)
	priceRepo := repository.NewPricePointRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	pricingSvc := service.NewPricingService(partRepo, priceRepo, rdb)
	partSvc := service.NewPartService(partRepo, priceRepo, pricingSvc)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	partsH := handler.NewPartsHandler(partSvc)
	priceH := handler.NewPriceHandler(pricingSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.POST("/register", middleware.LoginRateLimiter(), authH.Register)
	r.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	r.POST("/auth/refresh", authH.Refresh)

	// Inventory view is public; the browser session fetches it before login.
	r.GET("/parts", partsH.List)
	r.GET("/parts/:id/price", priceH.GetPrice)

	// Mutating routes require a bearer credential.
	authed := r.Group("", middleware.JWTAuth(cfg.JWTSecret))
	{
		authed.POST("/parts", partsH.Create)
		authed.PATCH("/parts/:id/sell", partsH.Sell)
		authed.PATCH("/parts/:id/status", partsH.UpdateStatus)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
