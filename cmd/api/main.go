package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"base64-api/internal/api/controllers"
	"base64-api/internal/api/handlers"
	"base64-api/internal/config"
	"base64-api/internal/database"
	"base64-api/internal/middleware"
	"base64-api/internal/repository"
	"base64-api/internal/services"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	// Initialize database connection
	db, err := database.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Get underlying *sql.DB instance for connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Failed to get underlying *sql.DB instance:", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}

	rateLimitConfig := config.NewRateLimitConfig()
	cacheConfig := config.NewCacheConfig()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	apiKeyRepo := repository.NewAPIKeyRepository(db)
	usageLogRepo := repository.NewUsageLogRepository(db)
	ipRateLimitRepo := repository.NewIPRateLimitRepository(db)

	// The API key cache is optional; without Redis every validation hits
	// the database.
	var cacheService services.CacheService
	if cacheConfig.Enabled() {
		redisCache, err := services.NewRedisCacheService(cacheConfig)
		if err != nil {
			log.Printf("Warning: Redis unavailable, running without API key cache: %v", err)
		} else {
			cacheService = redisCache
		}
	}

	// Initialize services
	apiKeyService := services.NewAPIKeyService(apiKeyRepo, cacheService, rateLimitConfig.DefaultKeyLimit)
	authService := services.NewAuthService(userRepo, apiKeyService, jwtSecret)
	quotaService := services.NewQuotaService(ipRateLimitRepo, usageLogRepo, rateLimitConfig)
	usageService := services.NewUsageService(usageLogRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	convertHandler := handlers.NewConvertHandler()
	keyHandler := handlers.NewKeyHandler(apiKeyService)
	usageHandler := handlers.NewUsageHandler(usageService)

	// Initialize middleware
	rateLimiter := middleware.NewRateLimiter(quotaService)
	usageLogger := middleware.NewUsageLogger(usageService, rateLimitConfig)

	// Initialize router
	router := mux.NewRouter()

	// Public routes
	router.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	router.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	router.HandleFunc("/health", controllers.HealthCheckHandler(db)).Methods("GET")

	// Metered conversion route: identity -> quota -> usage log -> codec
	convertRouter := router.PathPrefix("/convert").Subrouter()
	convertRouter.Use(middleware.Identity(apiKeyService, rateLimitConfig))
	convertRouter.Use(rateLimiter.RateLimit)
	convertRouter.Use(usageLogger.LogUsage)
	convertRouter.HandleFunc("", convertHandler.Convert).Methods("POST")

	// Key management routes (session auth)
	keysRouter := router.PathPrefix("/keys").Subrouter()
	keysRouter.Use(middleware.AuthMiddleware(authService))
	keysRouter.HandleFunc("", keyHandler.ListKeys).Methods("GET")
	keysRouter.HandleFunc("", keyHandler.CreateKey).Methods("POST")
	keysRouter.HandleFunc("/{id}", keyHandler.DeleteKey).Methods("DELETE")

	// Usage history (session auth)
	usageRouter := router.PathPrefix("/usage").Subrouter()
	usageRouter.Use(middleware.AuthMiddleware(authService))
	usageRouter.HandleFunc("", usageHandler.GetUserLogs).Methods("GET")

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
		},
		MaxAge: 300,
	})

	// Create server with timeouts
	srv := &http.Server{
		Handler:      corsMiddleware.Handler(router),
		Addr:         ":" + getPort(),
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	// Start server
	log.Printf("Server starting on port %s...", getPort())
	log.Fatal(srv.ListenAndServe())
}

func getPort() string {
	port := os.Getenv("PORT")
	if port == "" {
		port = "5050"
	}
	return port
}
