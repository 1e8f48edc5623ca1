package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nik/article-hub/internal/api"
	"github.com/nik/article-hub/internal/auth"
	"github.com/nik/article-hub/internal/config"
	"github.com/nik/article-hub/internal/mailer"
	"github.com/nik/article-hub/internal/repository"
	"github.com/nik/article-hub/internal/repository/postgres"
	"github.com/nik/article-hub/internal/repository/redisdb"
	"github.com/nik/article-hub/internal/repository/s3store"
	"github.com/nik/article-hub/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Initialize token denylist store
	redisClient := redisdb.NewClient(cfg.RedisAddr, cfg.RedisDB)
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}

	// Initialize blob store client
	s3Client, err := s3store.NewClient(context.Background(), cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey)
	if err != nil {
		log.Fatalf("failed to create s3 client: %v", err)
	}

	// Initialize repositories
	repos := &repository.Repositories{
		User:     postgres.NewUserRepository(db),
		Article:  postgres.NewArticleRepository(db, cfg.SearchLanguage),
		Blob:     s3store.NewBlobRepository(s3Client, cfg.S3Bucket),
		Denylist: redisdb.NewDenylist(redisClient),
	}

	// Initialize token codec and services
	codec, err := auth.LoadCodec(cfg.JWTPrivateKeyPath, cfg.JWTPublicKeyPath, cfg.JWTAlgorithm)
	if err != nil {
		log.Fatalf("failed to load JWT keys: %v", err)
	}
	tokens := auth.NewTokenService(codec, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	services := service.NewServices(repos, tokens, mailer.New(cfg))

	// Initialize router
	router := api.NewRouter(services)

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("ERROR [main] closing redis client: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	log.Println("Server stopped")
}
