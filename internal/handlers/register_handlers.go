package handlers

import (
	"net/http"

	"github.com/SscSPs/donation_ledger/cmd/docs"
	portssvc "github.com/SscSPs/donation_ledger/internal/core/ports/services"
	"github.com/SscSPs/donation_ledger/internal/middleware"
	"github.com/SscSPs/donation_ledger/internal/platform/config"
	"github.com/SscSPs/donation_ledger/internal/platform/metrics"
	"github.com/SscSPs/donation_ledger/internal/utils/validation"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	recorder *metrics.Recorder,
) {
	// Amounts are decimals; numeric binding tags need the custom type registered
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.RegisterDecimalType(v)
	}

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/", getHome)

	if recorder != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(recorder.Registry, promhttp.HandlerOpts{})))
	}

	registerWebhookRoutes(r, cfg.WebhookSecret, services.Payment)

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerWalletRoutes(v1, service.Wallet, service.Transfer)
	registerTransactionRoutes(v1, service.Wallet, service.Transfer)
	registerTransferRoutes(v1, service.Wallet, service.Transfer)
	registerDonationRoutes(v1, service.Wallet, service.Donation, service.Transfer)
	registerFeeRoutes(v1, service.Fee)
	registerExchangeRateRoutes(v1, service.ExchangeRate)
	registerPaymentRoutes(v1, service.Wallet, service.Payment)
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
