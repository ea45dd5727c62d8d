package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"btrips/internal/handler"
	"btrips/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	CustomerHandler      *handler.CustomerHandler
	PaymentMethodHandler *handler.PaymentMethodHandler
	ChargeHandler        *handler.ChargeHandler
	RatingHandler        *handler.RatingHandler
	PlacesHandler        *handler.PlacesHandler
	LocationHandler      *handler.LocationHandler
	RedisClient          *redis.Client
	NewRelicApp          *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	if deps.RedisClient != nil {
		router.Use(middleware.Idempotency(deps.RedisClient))
	}

	// The payment endpoints are POST-only; anything else is rejected
	// explicitly rather than routed to a 404.
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, handler.ErrorResponse{
			Success: false,
			Error:   "Method not allowed. Use POST.",
		})
	})

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		v1.POST("/customers", deps.CustomerHandler.CreateCustomer)

		methods := v1.Group("/payment-methods")
		{
			methods.POST("/attach", deps.PaymentMethodHandler.Attach)
			methods.POST("/detach", deps.PaymentMethodHandler.Detach)
		}

		charges := v1.Group("/charges")
		{
			charges.POST("/ride", deps.ChargeHandler.ChargeRide)
			charges.POST("/invoice", deps.ChargeHandler.AdminInvoice)
		}

		v1.POST("/ratings", deps.RatingHandler.SubmitRating)

		places := v1.Group("/places")
		{
			places.POST("/autocomplete", deps.PlacesHandler.Autocomplete)
			places.POST("/details", deps.PlacesHandler.Details)
		}

		v1.GET("/locations/presets", deps.LocationHandler.ListPresets)
	}

	return router
}
