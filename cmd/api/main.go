package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	pkgvalidator "github.com/alexdong/TranscribeMe/pkg/validator"

	_ "github.com/alexdong/TranscribeMe/docs"
	"github.com/alexdong/TranscribeMe/internal/adapter/handler"
	"github.com/alexdong/TranscribeMe/internal/adapter/repository"
	"github.com/alexdong/TranscribeMe/internal/infrastructure/cache"
	"github.com/alexdong/TranscribeMe/internal/infrastructure/database"
	"github.com/alexdong/TranscribeMe/internal/usecase/pipeline"
	"github.com/alexdong/TranscribeMe/internal/usecase/policy"
	"github.com/alexdong/TranscribeMe/internal/usecase/transcripts"
	pkgai "github.com/alexdong/TranscribeMe/pkg/ai"
	"github.com/alexdong/TranscribeMe/pkg/config"
	"github.com/alexdong/TranscribeMe/pkg/twilio"
)

// @title           TranscribeMe API
// @version         0.1.0
// @description     Phone-based transcription service. Callers leave a voice message and receive a link to the formatted transcript by SMS.

// @host      localhost:8080
// @BasePath  /

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Run migrations only when explicitly enabled in config.
	// Production deployments should manage schema via sql-migrate in CI/CD.
	if cfg.Database.AutoMigrate {
		if cfg.IsProduction() {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or manage schema with sql-migrate.")
		}
		log.Println("🔄 Applying SQL migrations (development only) ...")
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	} else {
		log.Println("🔄 Skipping migrations; use sql-migrate for schema migrations in CI/CD/production")
	}

	// Initialize the delivery guard. Redis keeps the at-most-once SMS
	// guarantee across restarts; the in-process store covers single-instance
	// development setups.
	var guard pipeline.GuardStore
	if cfg.Redis.Enabled {
		log.Println("📦 Connecting to Redis...")
		redisClient, err := cache.NewRedisClient(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		guard = cache.NewRedisStore(redisClient)
	} else {
		log.Println("📦 Redis disabled, using in-process delivery guard")
		guard = cache.NewMemoryStore()
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	transcriptRepo := repository.NewTranscriptRepository(db)
	outcomeRepo := repository.NewOutcomeRepository(db)

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Twilio client
	log.Println("📞 Initializing Twilio client...")
	twilioClient, err := twilio.New(&twilio.Config{
		AccountSID:  cfg.Twilio.AccountSID,
		AuthToken:   cfg.Twilio.AuthToken,
		PhoneNumber: cfg.Twilio.PhoneNumber,
	})
	if err != nil {
		log.Fatalf("Failed to initialize Twilio client: %v", err)
	}

	// Initialize transcription providers
	log.Println("🤖 Initializing transcription providers...")
	openaiClient := pkgai.NewOpenAIClient(&pkgai.OpenAIConfig{
		APIKey:       cfg.OpenAI.APIKey,
		BaseURL:      cfg.OpenAI.BaseURL,
		ChatModel:    cfg.OpenAI.ChatModel,
		WhisperModel: cfg.OpenAI.WhisperModel,
		MaxTokens:    cfg.OpenAI.MaxTokens,
		Temperature:  cfg.OpenAI.Temperature,
	})

	transcribers := []pipeline.Transcriber{openaiClient}
	if cfg.AssemblyAI.APIKey != "" {
		transcribers = append(transcribers, pkgai.NewAssemblyAIClient(cfg.AssemblyAI.APIKey))
		log.Println("✅ AssemblyAI fallback transcription enabled")
	} else {
		log.Println("⚠️  ASSEMBLYAI_API_KEY not set, running without fallback transcription")
	}

	// Initialize transcript store
	log.Println("🗂️  Initializing transcript store...")
	store := transcripts.NewStore(
		transcriptRepo,
		cfg.Transcript.TokenBytes,
		cfg.RetentionPeriod(),
		cfg.Transcript.SweepInterval,
		logger,
	)
	if err := store.StartSweeper(context.Background()); err != nil {
		log.Fatalf("Failed to start transcript sweeper: %v", err)
	}

	// Initialize caller policy
	log.Println("🔒 Initializing caller policy...")
	callerPolicy := policy.NewCallerPolicy(cfg.Call.AllowedCountryCodes)

	// Initialize call pipeline
	log.Println("🚀 Initializing call pipeline...")
	pipelineService := pipeline.NewService(
		callerPolicy,
		store,
		outcomeRepo,
		twilioClient,
		transcribers,
		openaiClient,
		twilioClient,
		guard,
		pipeline.Options{
			PublicBaseURL:      cfg.Server.PublicBaseURL,
			MaxDurationSeconds: cfg.Call.MaxDurationSeconds,
			SummaryMaxChars:    cfg.Transcript.SummaryMaxChars,
			GuardTTL:           cfg.RetentionPeriod(),
		},
		logger,
	)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	webhookHandler := handler.NewTwilioWebhookHandler(
		pipelineService,
		twilioClient.AuthToken(),
		cfg.Server.PublicBaseURL,
		cfg.Twilio.ValidateSignatures,
		logger,
	)
	transcriptHandler := handler.NewTranscriptHandler(store, logger)
	adminHandler := handler.NewAdminHandler(pipelineService, logger)

	router := handler.NewRouter(cfg, webhookHandler, transcriptHandler, adminHandler)
	router.Setup(e)

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
	}

	// Let in-flight calls finish before the process exits. Work that outlives
	// the deadline is logged and abandoned; Twilio's callback retry will hit
	// the recorded outcome after the next start.
	if err := pipelineService.Shutdown(ctx); err != nil {
		log.Printf("⚠️  Pipeline did not drain before deadline: %v", err)
	}

	if err := store.StopSweeper(); err != nil {
		log.Printf("⚠️  Failed to stop transcript sweeper: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
