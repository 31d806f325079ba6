package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"shinypath-api/res/auth"
	"shinypath-api/res/mail/resend"
	"shinypath-api/res/notification"
	"shinypath-api/res/pricing"
	"shinypath-api/res/store"
	"shinypath-api/res/store/postgresql"
	"shinypath-api/sys/http"
)

var logger = log.New(os.Stdout, "(cmd/main.go)", log.LstdFlags|log.LUTC|log.Llongfile)

const pricingCacheTTL = 5 * time.Minute

func main() {
	// Load .env file in development
	// Try multiple locations: current dir, shinypath-api/, parent dir
	err := godotenv.Load()
	if err != nil {
		err = godotenv.Load("shinypath-api/.env")
	}
	if err != nil {
		err = godotenv.Load(".env")
	}
	if err != nil {
		logger.Printf("Note: .env file not found, using system environment variables")
	}

	port := readRequiredEnvVar("PORT")
	environment := readRequiredEnvVar("ENVIRONMENT")
	dbURL := readRequiredEnvVar("DATABASE_POSTGRES_URL")

	jwtSecret := readRequiredEnvVar("AUTH_JWT_SECRET")
	googleClientID := readRequiredEnvVar("AUTH_GOOGLE_CLIENT_ID")
	googleClientSecret := readRequiredEnvVar("AUTH_GOOGLE_CLIENT_SECRET")
	googleRedirectURL := readRequiredEnvVar("AUTH_GOOGLE_REDIRECT_URL")

	// Mail delivery degrades to log-only when the key is absent
	resendAPIKey := readOptionalEnvVar("RESEND_API_KEY", "")
	resendAPIURL := readOptionalEnvVar("RESEND_API_URL", "https://api.resend.com")

	frontendURL := readOptionalEnvVar("FRONTEND_URL", "http://localhost:3000")
	adminURL := readOptionalEnvVar("ADMIN_PANEL_URL", frontendURL+"/admin/submissions")
	globalAdminEmail := readOptionalEnvVar("GLOBAL_ADMIN_EMAIL", "")

	storeInstance, err := postgresql.Connect(dbURL)
	if err != nil {
		logger.Fatalf("Error connecting to database: %s", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := storeInstance.RunMigrations(ctx); err != nil {
		logger.Fatalf("Error running database migrations: %s", err)
	}

	// Promote the configured admin if the account already exists. First
	// sign-ins are handled by the auth handler itself.
	if globalAdminEmail != "" {
		if err := bootstrapGlobalAdmin(ctx, storeInstance, globalAdminEmail); err != nil {
			logger.Printf("Warning: Failed to bootstrap global admin: %v", err)
		}
	}

	authInstance := auth.New(jwtSecret, googleClientID, googleClientSecret, googleRedirectURL)

	mailService := resend.New(resendAPIKey, resendAPIURL, 10*time.Second,
		log.New(os.Stdout, "(res/mail/resend)", log.LstdFlags|log.LUTC))

	dispatcher := notification.NewDispatcher(storeInstance, mailService, adminURL,
		log.New(os.Stdout, "(res/notification)", log.LstdFlags|log.LUTC))
	go dispatcher.Run(ctx)

	pricingCache := pricing.NewCache(storeInstance.PricingConfigs(), pricingCacheTTL,
		log.New(os.Stdout, "(res/pricing)", log.LstdFlags|log.LUTC))

	server := http.NewServer(&http.Config{
		Logger:      log.New(os.Stdout, "(sys/http)", log.LstdFlags|log.LUTC),
		Store:       storeInstance,
		Auth:        authInstance,
		Pricing:     pricingCache,
		Notifier:    dispatcher,
		Environment: environment,
		FrontendURL: frontendURL,
		AdminEmail:  globalAdminEmail,
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("Starting server on :%s (environment: %s)", port, environment)
		serverErr <- server.Run(ctx, fmt.Sprintf(":%s", port))
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Fatalf("Server failed: %v", err)
		}
	case <-ctx.Done():
		logger.Printf("Shutdown signal received, draining connections")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Printf("Error during shutdown: %s", err)
		}
	}
}

func readRequiredEnvVar(name string) string {
	val, ok := os.LookupEnv(name)
	if !ok {
		logger.Fatalf("Env variable not set: %s", name)
	}
	return val
}

func readOptionalEnvVar(name, fallback string) string {
	if val, ok := os.LookupEnv(name); ok {
		return val
	}
	return fallback
}

func bootstrapGlobalAdmin(ctx context.Context, storeInstance store.Store, email string) error {
	user, err := storeInstance.Users().GetByEmail(ctx, email)
	if err != nil {
		// Usually just means the account has not signed in yet; the auth
		// handler promotes it at first sign-in instead.
		return fmt.Errorf("failed to find user with email %s: %w", email, err)
	}

	if user.Role == store.UserRoleAdmin {
		return nil
	}

	adminRole := store.UserRoleAdmin
	if _, err := storeInstance.Users().Update(ctx, user.ID, nil, &adminRole); err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}

	logger.Printf("Successfully promoted user %s to admin", email)
	return nil
}
