package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
	limitermemory "github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/SscSPs/ledger_service/cmd/docs"
	portssvc "github.com/SscSPs/ledger_service/internal/core/ports/services"
	"github.com/SscSPs/ledger_service/internal/middleware"
	"github.com/SscSPs/ledger_service/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// metricsHandler serves /metrics when non-nil.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	metricsHandler http.Handler,
) error {
	if err := registerValidators(); err != nil {
		return err
	}

	r.GET("/health", getHealth)
	if metricsHandler != nil {
		r.GET("/metrics", gin.WrapH(metricsHandler))
	}

	if err := setupAPIV1Routes(r, cfg, services); err != nil {
		return err
	}

	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
) error {
	v1 := r.Group("/api/v1")
	if cfg.JWTSecret != "" {
		v1.Use(middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))
	}

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		return fmt.Errorf("invalid RATE_LIMIT %q: %w", cfg.RateLimit, err)
	}
	transferLimiter := limiter.New(limitermemory.NewStore(), rate)

	registerAccountRoutes(v1, service.Account, service.Ledger)
	registerTransferRoutes(v1, service.Ledger, middleware.RateLimit(transferLimiter))
	registerLedgerRoutes(v1, service.Ledger)
	return nil
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
