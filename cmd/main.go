package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/bazaar-labs/bazaarbot/internal/ai"
	"github.com/bazaar-labs/bazaarbot/internal/bazaar"
	"github.com/bazaar-labs/bazaarbot/internal/config"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer logger.Sync()

	// --- DB ---
	// Opened once here and injected; components never reach for a global
	// handle. A missing DATABASE_URL degrades to an inert repo, a supplied
	// but unreachable one is an operator mistake and fails fast.
	var repo bazaar.Repo
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, running without persistence")
		repo = bazaar.NewDisabledRepo(logger)
	} else {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("db open error", zap.Error(err))
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			logger.Fatal("db ping error", zap.Error(err))
		}

		if err := bazaar.RunMigrations(db, cfg.MigrationsPath); err != nil {
			logger.Fatal("migrations failed", zap.Error(err))
		}

		repo = bazaar.NewRepo(db, logger)
	}

	// --- AI flows ---
	var (
		extractor ai.Extractor
		replier   ai.Replier
	)
	if cfg.OpenAIAPIKey == "" {
		disabled := ai.NewDisabled(logger)
		extractor, replier = disabled, disabled
	} else {
		client := ai.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, logger)
		extractor, replier = client, client
	}

	// --- Twilio ---
	twilio := bazaar.NewTwilioOutbound(
		cfg.TwilioAccountSID,
		cfg.TwilioAuthToken,
		cfg.TwilioWhatsAppNumber,
		logger,
	)

	// --- Module wiring ---
	svc := bazaar.NewService(repo, extractor, replier, twilio, twilio, cfg.PublicBaseURL, logger)
	handler := bazaar.NewHandler(svc, logger)
	storefront := bazaar.NewStorefront(repo, logger)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	bazaar.RegisterRoutes(r, handler, storefront)

	logger.Info("listening", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
