package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/sitesutra/construction_erp_app/cmd/docs"
	"github.com/sitesutra/construction_erp_app/internal/adapters/notify"
	portssvc "github.com/sitesutra/construction_erp_app/internal/core/ports/services"
	"github.com/sitesutra/construction_erp_app/internal/middleware"
	"github.com/sitesutra/construction_erp_app/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	hub *notify.Hub,
	uploader portssvc.Uploader,
) {

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	r.Use(cors.New(corsConfig(cfg)))

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services, hub, uploader)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
	hub *notify.Hub,
	uploader portssvc.Uploader,
) {
	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		rate, _ = limiter.NewRateFromFormatted("100-M")
	}
	ipLimiter := limiter.New(memory.NewStore(), rate)

	v1 := r.Group("/api/v1", middleware.RateLimit(ipLimiter))

	// The WebSocket handshake authenticates itself via a query token,
	// so it registers before AuthMiddleware applies.
	registerNotificationRoutes(v1, hub, cfg.JWTSecret)

	// Apply AuthMiddleware to everything else in the v1 group
	v1.Use(middleware.AuthMiddleware(cfg.JWTSecret))

	// Delegate route registration to specific handlers, passing required services
	registerLedgerRoutes(v1, service.Ledger)
	registerAccountRoutes(v1, service.Account)
	registerStockRoutes(v1, service.Stock)
	registerMaterialRoutes(v1, service.Material)
	registerMaterialRequestRoutes(v1, service.MaterialRequest)
	registerPurchaseOrderRoutes(v1, service.PurchaseOrder)
	registerPaymentRoutes(v1, service.Payment)
	registerPayrollRoutes(v1, service.Payroll)
	registerProjectRoutes(v1, service.Project, service.Ledger)
	registerVendorRoutes(v1, service.Vendor)
	registerAttachmentRoutes(v1, uploader)
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	if len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
	}
	return corsCfg
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
