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

	"github.com/email-otp-api/internal/config"
	"github.com/email-otp-api/internal/infrastructure/dynamo"
	"github.com/email-otp-api/internal/infrastructure/identitytoolkit"
	"github.com/email-otp-api/internal/infrastructure/smtp"
	transporthttp "github.com/email-otp-api/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap the users table (creates it if it doesn't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.UsersTable)

	// SMTP mailer.
	mailer := smtp.NewMailer(cfg)

	// Identity-provider mirror (optional — verification works without it,
	// the record in DynamoDB stays the source of truth).
	var identity identitytoolkit.Provider
	if p, err := identitytoolkit.NewProvider(context.Background(), cfg); err == nil {
		identity = p
	} else {
		log.Printf("WARN: identity provider not available: %v", err)
	}

	deps := &transporthttp.Deps{
		UserStore: dynamo.NewUserRepo(dynamoClient, cfg.UsersTable),
		Mailer:    mailer,
		Identity:  identity,
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
