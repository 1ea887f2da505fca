package main

import (
	"context"
	"log"

	"github.com/shubh-37/ideaforge/config"
	"github.com/shubh-37/ideaforge/internal/ai"
	authpkg "github.com/shubh-37/ideaforge/internal/auth"
	"github.com/shubh-37/ideaforge/internal/database"
	"github.com/shubh-37/ideaforge/internal/engine"
	"github.com/shubh-37/ideaforge/internal/notify"
	"github.com/shubh-37/ideaforge/internal/search"
	serverpkg "github.com/shubh-37/ideaforge/internal/server"
)

func main() {
	log.Println("🚀 IdeaForge Backend Starting...")

	// Load configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	ctx := context.Background()

	// Connect to database
	db, err := database.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Create tables
	if err := db.CreateTables(ctx); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	// Create repositories
	ideaRepo := database.NewIdeaRepository(db)

	// External service adapters
	llm := ai.NewClient(cfg.GeminiKey)
	aiService := ai.NewService(llm)
	searcher := search.NewClient(cfg.TavilyKey)

	// Optional Slack notifier
	var notifier engine.Notifier
	if cfg.SlackToken != "" {
		notifier = notify.NewSlackNotifier(cfg.SlackToken, cfg.SlackChannelID)
		log.Println("✅ Slack notifications enabled")
	}

	// Enrichment engine
	eng := engine.New(ideaRepo, aiService, searcher, notifier)

	// Token verification
	var verifier authpkg.Verifier
	if cfg.AuthDevSubject != "" {
		log.Printf("⚠️ Auth dev bypass active (subject: %s)", cfg.AuthDevSubject)
		verifier = authpkg.StaticVerifier{SubjectID: cfg.AuthDevSubject}
	} else {
		verifier, err = authpkg.NewJWKSVerifier(ctx, cfg.AuthJWKSURL, cfg.AuthIssuer)
		if err != nil {
			log.Fatalf("Failed to initialize auth: %v", err)
		}
	}

	srv := serverpkg.NewServer(eng, verifier, db.Health, ":"+cfg.Port)

	log.Println("✅ System initialized successfully")

	if err := serverpkg.Run(srv); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
