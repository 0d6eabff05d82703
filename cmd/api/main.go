package main

import (
	"log"
	"net/http"
	"time"

	"ai-gateway-api/internal/api/handlers"
	"ai-gateway-api/internal/config"
	"ai-gateway-api/internal/database"
	"ai-gateway-api/internal/logger"
	"ai-gateway-api/internal/middleware"
	"ai-gateway-api/internal/models"
	"ai-gateway-api/internal/providers"
	"ai-gateway-api/internal/repository"
	"ai-gateway-api/internal/services"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	logger.SetLevel(cfg.LogLevel)

	// Initialize database connection
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Summary caching is optional; the gateway runs uncached when redis is
	// unreachable.
	var cacheService services.CacheService
	if redisCache, err := services.NewRedisCacheService(config.NewCacheConfig()); err != nil {
		log.Printf("Warning: running without usage summary cache: %v", err)
	} else {
		cacheService = redisCache
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	usageRepo := repository.NewUsageRepository(db)

	// One adapter per provider family, keyed for the router's dispatch table
	adapters := map[models.ProviderFamily]providers.Client{
		models.FamilyGPT:    providers.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIMock),
		models.FamilyClaude: providers.NewAnthropicClient(cfg.AnthropicAPIKey),
		models.FamilyLlama:  providers.NewLlamaClient(cfg.LlamaAPIKey, cfg.LlamaMock),
	}

	// Initialize services
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	usageService := services.NewUsageService(usageRepo, cacheService)
	modelRouter := services.NewModelRouter(adapters, cfg.ProviderTimeout)
	costService := services.NewCostService()
	gatewayService := services.NewGatewayService(modelRouter, costService, usageService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	generateHandler := handlers.NewGenerateHandler(gatewayService)
	usageHandler := handlers.NewUsageHandler(usageService)

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute)

	// Initialize router
	router := mux.NewRouter()

	// Public routes
	router.HandleFunc("/register", authHandler.Register).Methods("POST")
	router.HandleFunc("/token", authHandler.Token).Methods("POST")
	router.HandleFunc("/health", handlers.HealthCheckHandler(db)).Methods("GET")

	// Protected routes
	protected := router.NewRoute().Subrouter()
	protected.Use(middleware.AuthMiddleware(authService))
	protected.Use(rateLimiter.RateLimit)
	protected.HandleFunc("/generate", generateHandler.Generate).Methods("POST")
	protected.HandleFunc("/usage", usageHandler.List).Methods("GET")
	protected.HandleFunc("/usage/summary", usageHandler.Summary).Methods("GET")

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
		},
		AllowCredentials: true,
		MaxAge:           300,
	})

	// Create server with timeouts
	srv := &http.Server{
		Handler:      corsMiddleware.Handler(middleware.LoggingMiddleware(router)),
		Addr:         ":" + cfg.Port,
		WriteTimeout: cfg.ProviderTimeout + 15*time.Second,
		ReadTimeout:  15 * time.Second,
	}

	// Start server
	log.Printf("Server starting on port %s...", cfg.Port)
	log.Fatal(srv.ListenAndServe())
}
