package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/mikiasgoitom/Pawgram/internal/domain/contract"
	handlerHttp "github.com/mikiasgoitom/Pawgram/internal/handler/http"
	redisclient "github.com/mikiasgoitom/Pawgram/internal/infrastructure/cache"
	"github.com/mikiasgoitom/Pawgram/internal/infrastructure/config"
	database "github.com/mikiasgoitom/Pawgram/internal/infrastructure/database"
	"github.com/mikiasgoitom/Pawgram/internal/infrastructure/jwt"
	"github.com/mikiasgoitom/Pawgram/internal/infrastructure/logger"
	"github.com/mikiasgoitom/Pawgram/internal/infrastructure/repository/mongodb"
	"github.com/mikiasgoitom/Pawgram/internal/infrastructure/store"
	"github.com/mikiasgoitom/Pawgram/internal/infrastructure/validator"
	"github.com/mikiasgoitom/Pawgram/internal/metrics"
	"github.com/mikiasgoitom/Pawgram/internal/usecase"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Get MongoDB URI and DB name from environment
	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		log.Fatal("MONGODB_URI environment variable not set")
	}
	dbName := os.Getenv("MONGODB_DB_NAME")
	if dbName == "" {
		log.Fatal("MONGODB_DB_NAME environment variable not set")
	}

	// Establish MongoDB connection
	mongoClient, err := database.NewMongoDBClient(mongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongoClient.Disconnect()

	// Register custom validators
	validator.RegisterCustomValidators()
	metrics.Initialize()

	// Initialize Gin router
	router := gin.Default()

	// Dependency Injection: Repositories
	feedRepo := mongodb.NewFeedRepository(mongoClient.Client.Database(dbName))

	// Dependency Injection: Services
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}
	jwtManager := jwt.NewJWTManager(jwtSecret)
	jwtService := jwt.NewJWTService(jwtManager)
	appLogger, err := logger.NewZapLogger(os.Getenv("APP_MODE"))
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	appConfig := config.NewConfig()
	appValidator := validator.NewValidator()

	// Dependency Injection: Usecases
	newAuthorCache := func() contract.IAuthorCache {
		return store.NewAuthorCacheStore(feedRepo, appLogger)
	}
	feedUsecase := usecase.NewFeedUsecase(feedRepo, newAuthorCache, appLogger, appConfig, appValidator)
	defer feedUsecase.CloseAll()

	// Optional Dependency Injection: Redis feed page cache
	var feedCache contract.IFeedCache
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		rdb := redisclient.NewRedisFromURL(context.Background(), redisURL)
		if rdb != nil {
			defer redisclient.Close(rdb)
			cacheStore := store.NewFeedCacheStore(rdb, appConfig.GetFeedPageTTL())
			feedUsecase.SetFeedCache(cacheStore)
			feedCache = cacheStore
		}
	}

	// Setup API routes
	appRouter := handlerHttp.NewRouter(feedUsecase, feedCache, jwtService)
	appRouter.SetupRoutes(router)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	appLogger.Infof("Server running on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
