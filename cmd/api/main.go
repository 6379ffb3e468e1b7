package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/wms-platform/materials-service/internal/api/middleware"
	"github.com/wms-platform/materials-service/internal/application"
	"github.com/wms-platform/materials-service/internal/domain"
	"github.com/wms-platform/materials-service/internal/infrastructure/kafka"
	"github.com/wms-platform/materials-service/internal/infrastructure/memory"
	"github.com/wms-platform/materials-service/internal/infrastructure/mongodb"
	"github.com/wms-platform/materials-service/pkg/logging"
	"github.com/wms-platform/materials-service/pkg/metrics"
)

const serviceName = "materials-service"

func main() {
	logger := logging.New(logging.DefaultConfig(serviceName))
	logger.SetDefault()

	config := loadConfig()

	// MongoDB connection
	ctx, cancel := context.WithTimeout(context.Background(), config.MongoConnectTimeout)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(config.MongoURI).
		SetMaxPoolSize(config.MongoMaxPoolSize).
		SetMinPoolSize(config.MongoMinPoolSize)

	mongoClient, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to MongoDB")
		os.Exit(1)
	}
	if err := mongoClient.Ping(ctx, readpref.Primary()); err != nil {
		logger.WithError(err).Error("Failed to ping MongoDB")
		os.Exit(1)
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	db := mongoClient.Database(config.MongoDatabase)
	logger.Info("Connected to MongoDB", "database", config.MongoDatabase)

	// Repositories
	itemRepo := mongodb.NewItemRepository(db)
	warehouseRepo := mongodb.NewWarehouseRepository(db)
	txRepo := mongodb.NewTransactionRepository(db)
	requestRepo := mongodb.NewRequestRepository(db)
	userRepo := mongodb.NewUserRepository(db)
	activityRepo := mongodb.NewActivityRepository(db)

	// Activity publisher: Kafka when brokers are configured, no-op otherwise
	var publisher domain.ActivityPublisher = memory.NopPublisher{}
	var kafkaPublisher *kafka.ActivityPublisher
	if len(config.KafkaBrokers) > 0 {
		kafkaPublisher = kafka.NewActivityPublisher(config.KafkaBrokers, config.KafkaActivityTopic, logger)
		publisher = kafkaPublisher
		logger.Info("Kafka activity publisher enabled", "topic", config.KafkaActivityTopic)
	} else {
		logger.Warn("Kafka brokers not configured, activity events will not be published")
	}

	// Services
	appMetrics := metrics.New(serviceName)
	recorder := application.NewActivityRecorder(activityRepo, publisher, logger, appMetrics)
	transactionService := application.NewTransactionService(txRepo, itemRepo, warehouseRepo, userRepo, recorder, logger, appMetrics)
	requestService := application.NewRequestService(requestRepo, txRepo, itemRepo, warehouseRepo, userRepo, recorder, logger, appMetrics)
	catalogService := application.NewCatalogService(itemRepo, warehouseRepo, userRepo, txRepo, requestRepo, recorder, logger)

	// Router
	if config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.InitValidator()

	router := gin.New()
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.RequestID())
	router.Use(middleware.ActorID())
	router.Use(middleware.Logger(logger))
	router.Use(appMetrics.Middleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": serviceName})
	})
	router.GET("/ready", func(c *gin.Context) {
		pingCtx, pingCancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer pingCancel()
		if err := mongoClient.Ping(pingCtx, readpref.Primary()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "reason": "mongodb unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	router.GET("/metrics", appMetrics.Handler())

	v1 := router.Group("/api/v1")
	{
		transactions := v1.Group("/transactions")
		{
			transactions.POST("", submitTransactionHandler(transactionService, logger))
			transactions.GET("", listTransactionsHandler(transactionService, logger))
			transactions.GET("/:transactionId", getTransactionHandler(transactionService, logger))
			transactions.POST("/:transactionId/decide", decideTransactionHandler(transactionService, logger))
			transactions.POST("/:transactionId/approve-partial", approvePartialHandler(transactionService, logger))
			transactions.POST("/:transactionId/receive", receiveTransactionHandler(transactionService, logger))
		}

		requests := v1.Group("/requests")
		{
			requests.POST("", createRequestHandler(requestService, logger))
			requests.GET("", listRequestsHandler(requestService, logger))
			requests.GET("/:requestId", getRequestHandler(requestService, logger))
			requests.POST("/:requestId/decide", decideRequestHandler(requestService, logger))
			requests.POST("/:requestId/ship", shipRequestHandler(requestService, logger))
			requests.POST("/:requestId/complete", completeRequestHandler(requestService, logger))
		}

		items := v1.Group("/items")
		{
			items.POST("", createItemHandler(catalogService, logger))
			items.GET("", listItemsHandler(catalogService, logger))
			items.GET("/:itemId", getItemHandler(catalogService, logger))
			items.PUT("/:itemId", updateItemHandler(catalogService, logger))
			items.DELETE("/:itemId", deleteItemHandler(catalogService, logger))
		}

		warehouses := v1.Group("/warehouses")
		{
			warehouses.POST("", createWarehouseHandler(catalogService, logger))
			warehouses.GET("", listWarehousesHandler(catalogService, logger))
			warehouses.PUT("/:warehouseId", updateWarehouseHandler(catalogService, logger))
			warehouses.DELETE("/:warehouseId", removeWarehouseHandler(catalogService, logger))
		}

		v1.GET("/users", listUsersHandler(catalogService, logger))
		v1.GET("/activity", listActivityHandler(recorder, logger))
		v1.GET("/stats", statsHandler(catalogService, logger))
	}

	srv := &http.Server{
		Addr:         config.ServerAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("Server error")
		}
	}()
	logger.Info("Server started", "addr", config.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.WithError(err).Error("Failed to close Kafka publisher")
		}
	}

	logger.Info("Server stopped")
}

// Config holds application configuration
type Config struct {
	ServerAddr          string
	Environment         string
	MongoURI            string
	MongoDatabase       string
	MongoConnectTimeout time.Duration
	MongoMaxPoolSize    uint64
	MongoMinPoolSize    uint64
	KafkaBrokers        []string
	KafkaActivityTopic  string
}

func loadConfig() *Config {
	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	return &Config{
		ServerAddr:          getEnv("SERVER_ADDR", ":8020"),
		Environment:         getEnv("ENVIRONMENT", "development"),
		MongoURI:            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:       getEnv("MONGODB_DATABASE", "materials_db"),
		MongoConnectTimeout: 10 * time.Second,
		MongoMaxPoolSize:    100,
		MongoMinPoolSize:    10,
		KafkaBrokers:        brokers,
		KafkaActivityTopic:  getEnv("KAFKA_ACTIVITY_TOPIC", "materials.activity"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
