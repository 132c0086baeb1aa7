package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/S-Stepanov-1/contacts-api/internal/config"
	"github.com/S-Stepanov-1/contacts-api/internal/infrastructure/dynamo"
	s3infra "github.com/S-Stepanov-1/contacts-api/internal/infrastructure/s3"
	"github.com/S-Stepanov-1/contacts-api/internal/infrastructure/smtp"
	"github.com/S-Stepanov-1/contacts-api/internal/infrastructure/token"
	"github.com/S-Stepanov-1/contacts-api/internal/ratelimit"
	transporthttp "github.com/S-Stepanov-1/contacts-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	tokens, err := token.NewProvider(cfg.JWTSecret, token.TTLs{
		Access:        cfg.AccessTTL,
		Refresh:       cfg.RefreshTTL,
		EmailVerify:   cfg.VerifyTTL,
		PasswordReset: cfg.ResetTTL,
	})
	if err != nil {
		log.Fatalf("token provider: %v", err)
	}

	// Rate limiting runs against Redis when an address is configured so all
	// replicas share one window; otherwise each process counts on its own.
	var limiter ratelimit.Limiter
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		limiter = ratelimit.NewRedis(rdb, "", cfg.RateLimitMax, cfg.RateLimitWindow)
	} else {
		log.Println("REDIS_ADDR not set, using in-process rate limiting")
		limiter = ratelimit.NewMemory(cfg.RateLimitMax, cfg.RateLimitWindow)
	}

	// S3 store for avatars.
	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)

	// SMTP mailer.
	mailer := smtp.NewMailer(cfg)
	notifier := smtp.NewNotifier(mailer, cfg.PublicBaseURL)

	deps := &transporthttp.Deps{
		UserRepo:    dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		ContactRepo: dynamo.NewContactRepo(dynamoClient, cfg.DynamoTables.Contacts),
		Pinger:      dynamo.NewPinger(dynamoClient),
		S3Store:     s3Store,
		Notifier:    notifier,
		Tokens:      tokens,
		Limiter:     limiter,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
