// Package main is the entry point for the API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/stylie-ai/stylist-platform/internal/blob"
	"github.com/stylie-ai/stylist-platform/internal/config"
	"github.com/stylie-ai/stylist-platform/internal/docstore"
	"github.com/stylie-ai/stylist-platform/internal/handler"
	"github.com/stylie-ai/stylist-platform/internal/llm"
	"github.com/stylie-ai/stylist-platform/internal/middleware"
	natsclient "github.com/stylie-ai/stylist-platform/internal/nats"
	"github.com/stylie-ai/stylist-platform/internal/service"
	"github.com/stylie-ai/stylist-platform/internal/store"
	"github.com/stylie-ai/stylist-platform/pkg/cache"
	"github.com/stylie-ai/stylist-platform/pkg/logger"
	"github.com/stylie-ai/stylist-platform/pkg/tracing"
)

func main() {
	cfg := config.Load()

	var (
		log *logger.Logger
		err error
	)
	if cfg.Env == "development" {
		log, err = logger.NewDevelopment()
	} else {
		log, err = logger.New(cfg.LogLevel)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	logger.SetGlobal(log)

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	log.Info("starting API server",
		zap.String("store", cfg.StoreBackend),
		zap.String("llm_provider", cfg.LLMProvider),
	)

	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "stylie-api", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer func() { _ = tracing.Shutdown(context.Background(), tp) }()
		}
	}

	// Document store
	var db docstore.Store
	switch cfg.StoreBackend {
	case config.StoreFirestore:
		fs, err := docstore.NewFirestore(ctx, cfg.GCPProjectID, credentialOptions(cfg)...)
		if err != nil {
			log.Fatal("failed to connect to Firestore", zap.Error(err))
		}
		defer fs.Close()
		db = fs
	default:
		log.Warn("using in-memory document store; data is lost on restart")
		db = docstore.NewMemory()
	}

	// Result cache
	var resultCache cache.Cache = cache.NewMemory()
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Fatal("failed to configure Redis cache", zap.Error(err))
		}
		defer rc.Close()
		resultCache = rc
	}

	// Image storage
	var blobs blob.Storage
	if cfg.ImageBucket != "" {
		gcs, err := blob.NewGCS(ctx, cfg.ImageBucket, cfg.GCPCredentialsFile)
		if err != nil {
			log.Fatal("failed to create storage client", zap.Error(err))
		}
		defer gcs.Close()
		blobs = gcs
	} else {
		blobs = blob.NewMemory("local")
	}

	// Model gateway
	baseURL := ""
	apiKey := cfg.OpenAIAPIKey
	if cfg.LLMProvider == string(llm.ProviderAnthropic) {
		apiKey = cfg.AnthropicAPIKey
	} else {
		baseURL = cfg.OpenAIBaseURL
	}
	gateway, err := llm.NewClient(llm.Provider(cfg.LLMProvider), apiKey, baseURL)
	if err != nil {
		log.Fatal("failed to create LLM client", zap.Error(err))
	}
	images, _ := gateway.(llm.ImageGenerator)
	if images == nil && cfg.OpenAIAPIKey != "" {
		oa, err := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
		if err != nil {
			log.Warn("image generation disabled", zap.Error(err))
		} else {
			images = oa
		}
	}

	// Turn journal (optional)
	var (
		journal   service.TurnJournal
		readiness handler.Readiness
	)
	if cfg.NATSURL != "" {
		natsClient, err := natsclient.Connect(ctx, natsclient.Config{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
		}, log)
		if err != nil {
			log.Fatal("failed to connect to NATS", zap.Error(err))
		}
		defer natsClient.Close()

		j := natsclient.NewJournal(natsClient)
		if err := j.EnsureStream(ctx); err != nil {
			log.Fatal("failed to ensure stream", zap.Error(err))
		}
		journal, readiness = j, j
	}

	// Initialize services
	profileSvc := service.NewProfileService(store.NewProfiles(db), resultCache, cfg.CacheTTL, log)
	chatSvc := service.NewChatService(store.NewSessions(db), profileSvc, gateway, journal, service.ChatConfig{
		Model:       cfg.LLMModel,
		Temperature: cfg.LLMTemperature,
		MaxTokens:   cfg.LLMMaxTokens,
	}, log)
	wardrobeSvc := service.NewWardrobeService(store.NewWardrobe(db), log)
	mediaSvc := service.NewMediaService(images, blobs, profileSvc, log)
	accountSvc := service.NewAccountService(store.NewAccounts(db), profileSvc, log)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(readiness)
	chatHandler := handler.NewChatHandler(chatSvc, log)
	profileHandler := handler.NewProfileHandler(profileSvc, log)
	wardrobeHandler := handler.NewWardrobeHandler(wardrobeSvc, log)
	mediaHandler := handler.NewMediaHandler(mediaSvc, log)
	accountHandler := handler.NewAccountHandler(accountSvc, log)

	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.CORSAllowOrigins))

	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		r.Route("/chat", func(r chi.Router) {
			r.Post("/", chatHandler.Send)
			r.Get("/", chatHandler.List)
			r.Delete("/{chatId}", chatHandler.Delete)
		})

		r.Post("/profile", profileHandler.Upsert)
		r.Get("/profile", profileHandler.Get)

		r.Route("/wardrobe", func(r chi.Router) {
			r.Post("/", wardrobeHandler.Add)
			r.Get("/", wardrobeHandler.List)
			r.Delete("/{itemId}", wardrobeHandler.Delete)
		})

		r.Post("/image", mediaHandler.GenerateImage)
		r.Post("/upload/profile-photo", mediaHandler.UploadProfilePhoto)
		r.Post("/upload/wardrobe-item", mediaHandler.UploadWardrobeItem)

		r.Post("/account/link", accountHandler.Link)
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}

func credentialOptions(cfg *config.Config) []option.ClientOption {
	if cfg.GCPCredentialsFile == "" {
		return nil
	}
	return []option.ClientOption{option.WithCredentialsFile(cfg.GCPCredentialsFile)}
}
