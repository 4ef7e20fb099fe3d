package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"

	"github.com/ignite/outreach/internal/api"
	"github.com/ignite/outreach/internal/assembler"
	"github.com/ignite/outreach/internal/auth"
	"github.com/ignite/outreach/internal/compose"
	"github.com/ignite/outreach/internal/config"
	"github.com/ignite/outreach/internal/format"
	"github.com/ignite/outreach/internal/gmailapi"
	"github.com/ignite/outreach/internal/mailing"
	"github.com/ignite/outreach/internal/scraper"
	"github.com/ignite/outreach/internal/storage"
)

func main() {
	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("Connected to database")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Sessions: Redis when configured, in-process map otherwise.
	var sessions auth.SessionStore
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to ping redis: %v", err)
		}
		defer rdb.Close()
		sessions = auth.NewRedisSessions(rdb)
		log.Printf("Using Redis sessions at %s", cfg.Redis.Addr)
	} else {
		sessions = auth.NewMemorySessions(ctx)
		log.Println("Using in-memory sessions")
	}

	authManager := auth.NewManager(auth.NewUserStore(db), sessions, cfg.Auth)
	registry := format.NewRegistry(db)
	flows := assembler.NewManager()
	mailStore := mailing.NewStore(db)

	var transport mailing.Transport
	requireCreds := false
	switch cfg.Mail.Provider {
	case "ses":
		transport, err = mailing.NewSESTransport(ctx, cfg.Mail.SES)
		if err != nil {
			log.Fatalf("Failed to initialize SES transport: %v", err)
		}
		log.Printf("Mail transport: SES (%s)", cfg.Mail.SES.Region)
	default:
		transport = mailing.NewGmailTransport(cfg.Mail)
		requireCreds = true
		log.Printf("Mail transport: Gmail SMTP (%s:%d)", cfg.Mail.SMTPHost, cfg.Mail.SMTPPort)
	}
	pipeline := mailing.NewPipeline(mailStore, transport, requireCreds)

	var gmailClient *gmailapi.Client
	if gmailapi.Configured(cfg.GmailAPI) {
		gmailClient = gmailapi.NewClient(cfg.GmailAPI)
		log.Println("Gmail thread lookup enabled")
	}

	var composeClient *compose.Client
	if cfg.Inference.Enabled && cfg.Inference.APIToken != "" {
		composeClient = compose.NewClient(cfg.Inference)
		log.Printf("Draft generation enabled (model %s)", cfg.Inference.Model)
	}

	var finder scraper.PeopleFinder
	if cfg.Scraper.Enabled {
		finder = scraper.New(cfg.Scraper)
		log.Println("LinkedIn scraper enabled")
	}

	var uploads storage.Storage
	if cfg.Uploads.Backend == "s3" {
		uploads, err = storage.NewS3(ctx, cfg.Uploads.S3Bucket, cfg.Uploads.S3Region)
		if err != nil {
			log.Fatalf("Failed to initialize S3 uploads: %v", err)
		}
		log.Printf("Uploads: s3://%s", cfg.Uploads.S3Bucket)
	} else {
		uploads, err = storage.NewLocal(cfg.Uploads.LocalPath)
		if err != nil {
			log.Fatalf("Failed to initialize local uploads: %v", err)
		}
		log.Printf("Uploads: %s", cfg.Uploads.LocalPath)
	}

	handlers := &api.Handlers{
		Auth:      auth.NewHandlers(authManager, flows.Drop),
		Format:    format.NewHandlers(registry),
		Assembler: assembler.NewHandlers(flows, registry),
		Mailing:   mailing.NewHandlers(pipeline, mailStore, mailing.NewRenderer()),
		Threads:   gmailapi.NewHandlers(gmailClient),
		Compose:   compose.NewHandlers(composeClient),
		Scraper:   scraper.NewHandlers(finder),
		Uploads:   storage.NewHandlers(uploads, cfg.Uploads.MaxSizeMB),
	}

	allowedOrigins := []string{"http://localhost:3000", "http://localhost:5173"}
	if origin := os.Getenv("ALLOWED_ORIGIN"); origin != "" {
		allowedOrigins = append(allowedOrigins, origin)
	}
	router := api.SetupRoutes(handlers, authManager, allowedOrigins)

	addr := fmt.Sprintf("%s:%d", cfg.Server.GetHost(), cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Listening on http://%s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
