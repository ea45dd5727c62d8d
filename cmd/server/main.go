package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"firebase.google.com/go/v4/auth"
	"github.com/joho/godotenv"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"btrips/internal/app"
	"btrips/internal/config"
	"btrips/internal/handler"
	"btrips/internal/identity"
	"btrips/internal/payment"
	"btrips/internal/places"
	rediscache "btrips/internal/redis"
	fsrepo "btrips/internal/repository/firestore"
	"btrips/internal/service"
)

func main() {
	// Load .env in development; the file is optional.
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic first so downstream clients can be instrumented.
	var nrApp *newrelic.Application
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
		)
		if err != nil {
			logger.Warn("failed to initialize New Relic", zap.Error(err))
			nrApp = nil
		} else {
			logger.Info("New Relic enabled", zap.String("app", cfg.NewRelic.AppName))
		}
	}

	// Firebase: Firestore document store and Auth identity provider.
	fbApp, err := app.NewFirebaseApp(ctx, cfg.Firebase)
	if err != nil {
		logger.Fatal("failed to initialize firebase", zap.Error(err))
	}
	fsClient, err := app.NewFirestoreClient(ctx, fbApp)
	if err != nil {
		logger.Fatal("failed to connect to firestore", zap.Error(err))
	}
	defer fsClient.Close()
	authClient, err := app.NewAuthClient(ctx, fbApp)
	if err != nil {
		logger.Fatal("failed to initialize firebase auth", zap.Error(err))
	}
	logger.Info("connected to Firestore", zap.String("project", cfg.Firebase.ProjectID))

	// Redis backs the idempotency middleware and the places cache; the
	// service runs without it, minus those guarantees.
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = app.NewRedisClient(ctx, cfg.Redis, nrApp)
		if err != nil {
			logger.Warn("redis unavailable, idempotency and caching disabled", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	placesClient, err := places.NewGoogleClient(cfg.Places.APIKey)
	if err != nil {
		logger.Fatal("failed to initialize places client", zap.Error(err))
	}

	server := wireServer(serverDeps{
		cfg:          cfg,
		logger:       logger,
		nrApp:        nrApp,
		fsClient:     fsClient,
		authClient:   authClient,
		redisClient:  redisClient,
		placesClient: placesClient,
	})

	go func() {
		logger.Info("starting server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}

type serverDeps struct {
	cfg          *config.Config
	logger       *zap.Logger
	nrApp        *newrelic.Application
	fsClient     *firestore.Client
	authClient   *auth.Client
	redisClient  *redis.Client
	placesClient places.Client
}

// wireServer builds the dependency graph and returns the HTTP server.
func wireServer(deps serverDeps) *http.Server {
	customerRepo := fsrepo.NewCustomerRepository(deps.fsClient)
	rideStore := fsrepo.NewRideStore(deps.fsClient)
	invoiceRepo := fsrepo.NewInvoiceRepository(deps.fsClient)
	profileRepo := fsrepo.NewProfileRepository(deps.fsClient)
	locationRepo := fsrepo.NewLocationRepository(deps.fsClient)

	gateway := payment.NewStripeGateway(deps.cfg.Stripe.SecretKey, deps.cfg.Stripe.Currency)
	resolver := identity.NewFirebaseResolver(deps.authClient)
	var placesCache *rediscache.PlacesCache
	if deps.redisClient != nil {
		placesCache = rediscache.NewPlacesCache(deps.redisClient)
	}

	customerService := service.NewCustomerService(customerRepo, gateway, deps.logger)
	methodService := service.NewPaymentMethodService(customerRepo, gateway, deps.logger)
	chargeService := service.NewChargeService(customerRepo, rideStore, invoiceRepo, resolver, gateway,
		deps.cfg.Billing.RideInvoicePrefixes, deps.logger)
	ratingService := service.NewRatingService(rideStore, profileRepo, deps.logger)
	placesService := service.NewPlacesService(deps.placesClient, placesCache, deps.logger)

	router := app.NewRouter(app.RouterDeps{
		CustomerHandler:      handler.NewCustomerHandler(customerService),
		PaymentMethodHandler: handler.NewPaymentMethodHandler(methodService),
		ChargeHandler:        handler.NewChargeHandler(chargeService),
		RatingHandler:        handler.NewRatingHandler(ratingService),
		PlacesHandler:        handler.NewPlacesHandler(placesService),
		LocationHandler:      handler.NewLocationHandler(locationRepo),
		RedisClient:          deps.redisClient,
		NewRelicApp:          deps.nrApp,
	})

	return &http.Server{
		Addr:         ":" + deps.cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  deps.cfg.Server.ReadTimeout,
		WriteTimeout: deps.cfg.Server.WriteTimeout,
	}
}
