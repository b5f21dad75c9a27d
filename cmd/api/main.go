package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"furniture-admin/internal/application/command"
	"furniture-admin/internal/application/query"
	"furniture-admin/internal/config"
	"furniture-admin/internal/domain/repository"
	"furniture-admin/internal/infrastructure/bus"
	httpHandler "furniture-admin/internal/infrastructure/http"
	"furniture-admin/internal/infrastructure/mongo"
	"furniture-admin/internal/infrastructure/orderapi"
	jwtutil "furniture-admin/pkg/jwt"
	"furniture-admin/pkg/logger"
	"furniture-admin/pkg/middleware"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	middleware.SetLogger(log)

	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}
	location, err := cfg.Location()
	if err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}

	log.WithFields(logrus.Fields{
		"order_source": cfg.OrderSource,
		"timezone":     location.String(),
	}).Info("Starting furniture admin dashboard API")

	// Invoices are always rendered by the store backend
	storeClient := orderapi.NewClient(&orderapi.Config{
		BaseURL: cfg.OrderAPIBaseURL,
		Timeout: cfg.OrderAPITimeout,
	}, logger.WithComponent(log, "orderapi"))

	orderSource, healthCheck, closeSource, err := newOrderSource(cfg, storeClient, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize order source")
	}
	defer closeSource()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Event bus with the audit subscriber
	eventBus := bus.NewInMemoryEventBus()
	if err := eventBus.Subscribe("OrderStatusChanged", bus.NewOrderAuditHandler(logger.WithComponent(log, "audit"))); err != nil {
		log.WithError(err).Fatal("Failed to subscribe audit handler")
	}
	if err := eventBus.Start(ctx); err != nil {
		log.WithError(err).Fatal("Failed to start event bus")
	}
	defer eventBus.Stop()

	// Query and command handlers
	dashboardHandler := query.NewRevenueDashboardHandler(orderSource, location, logger.WithComponent(log, "dashboard"))
	listOrdersHandler := query.NewListOrdersHandler(orderSource)
	getOrderHandler := query.NewGetOrderHandler(orderSource)
	getOrderInvoiceHandler := query.NewGetOrderInvoiceHandler(orderSource, storeClient)
	updateOrderStatusHandler := command.NewUpdateOrderStatusHandler(orderSource, eventBus, logger.WithComponent(log, "orders"))

	router := httpHandler.NewRouter(httpHandler.RouterConfig{
		DashboardController: httpHandler.NewHTTPAdminDashboardController(dashboardHandler),
		OrderController:     httpHandler.NewHTTPOrderController(listOrdersHandler, getOrderHandler, updateOrderStatusHandler, getOrderInvoiceHandler),
		Verifier:            jwtutil.NewCredentialVerifier(cfg.JWTSecret),
		RequestTimeout:      cfg.RequestTimeout,
		HealthCheck:         healthCheck,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("Server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}
	log.Info("Server stopped")
}

// newOrderSource builds the configured order source, its readiness check
// (nil when there is nothing to ping) and its cleanup func.
func newOrderSource(cfg *config.Config, storeClient *orderapi.Client, log *logrus.Logger) (repository.OrderSource, func(context.Context) error, func(), error) {
	switch cfg.OrderSource {
	case config.OrderSourceMongo:
		mongoClient, err := mongo.NewMongoClient(&mongo.MongoConfig{
			URI:      cfg.MongoURI,
			Database: cfg.MongoDatabase,
			Username: cfg.MongoUsername,
			Password: cfg.MongoPassword,
			Timeout:  cfg.MongoTimeout,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		log.WithField("database", cfg.MongoDatabase).Info("Connected to MongoDB")

		closeFn := func() {
			if err := mongoClient.Close(); err != nil {
				log.WithError(err).Error("Error closing MongoDB connection")
			}
		}
		repo := mongo.NewMongoOrderRepository(mongoClient.GetDatabase(), cfg.MongoCollection, logger.WithComponent(log, "mongo"))
		return repo, mongoClient.Ping, closeFn, nil
	default:
		return storeClient, nil, func() {}, nil
	}
}
