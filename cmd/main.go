package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	anthropicclient "github.com/taqh/notra-sub001/clients/anthropic"
	githubclient "github.com/taqh/notra-sub001/clients/github"
	qstashclient "github.com/taqh/notra-sub001/clients/qstash"
	resendclient "github.com/taqh/notra-sub001/clients/resend"
	s3client "github.com/taqh/notra-sub001/clients/s3"
	"github.com/taqh/notra-sub001/config"
	"github.com/taqh/notra-sub001/core"
	"github.com/taqh/notra-sub001/db"
	"github.com/taqh/notra-sub001/handlers"
	"github.com/taqh/notra-sub001/middleware"
	"github.com/taqh/notra-sub001/services/generation"
	"github.com/taqh/notra-sub001/services/integrations"
	"github.com/taqh/notra-sub001/services/notifications"
	"github.com/taqh/notra-sub001/services/notificationsettings"
	"github.com/taqh/notra-sub001/services/organizations"
	"github.com/taqh/notra-sub001/services/posts"
	"github.com/taqh/notra-sub001/services/triggers"
	"github.com/taqh/notra-sub001/services/txmanager"
	"github.com/taqh/notra-sub001/services/uploads"
	"github.com/taqh/notra-sub001/services/users"
	"github.com/taqh/notra-sub001/services/webhooklogs"
	"github.com/taqh/notra-sub001/usecases/automation"
)

func main() {
	if err := run(); err != nil {
		log.Printf("❌ Fatal error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	// Initialize error alert middleware
	alertMiddleware := middleware.NewErrorAlertMiddleware(middleware.SlackAlertConfig{
		WebhookURL:  cfg.SlackAlertWebhookURL,
		Environment: cfg.Environment,
		AppName:     "notra",
		LogsURL:     cfg.ServerLogsURL,
	})

	// Initialize database connection
	dbConn, err := db.NewConnection(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	// Initialize Redis connection for the run log
	redisConn, err := db.NewRedisConnection(cfg.RedisConfig.URL, cfg.RedisConfig.Password)
	if err != nil {
		return err
	}
	defer redisConn.Close()

	// Initialize repositories with shared connection
	usersRepo := db.NewPostgresUsersRepository(dbConn, cfg.DatabaseSchema)
	orgsRepo := db.NewPostgresOrganizationsRepository(dbConn, cfg.DatabaseSchema)
	integrationsRepo := db.NewPostgresIntegrationsRepository(dbConn, cfg.DatabaseSchema)
	reposRepo := db.NewPostgresRepositoriesRepository(dbConn, cfg.DatabaseSchema)
	outputsRepo := db.NewPostgresOutputsRepository(dbConn, cfg.DatabaseSchema)
	triggersRepo := db.NewPostgresTriggersRepository(dbConn, cfg.DatabaseSchema)
	postsRepo := db.NewPostgresPostsRepository(dbConn, cfg.DatabaseSchema)
	settingsRepo := db.NewPostgresNotificationSettingsRepository(dbConn, cfg.DatabaseSchema)
	webhookLogsRepo := db.NewRedisWebhookLogsRepository(redisConn)

	// Initialize transaction manager
	txManager := txmanager.NewTransactionManager(dbConn)

	// Initialize external clients
	tokenCipher, err := core.NewTokenCipher(cfg.TokenEncryptionKey)
	if err != nil {
		return err
	}
	githubClient := githubclient.NewGitHubClient()
	schedulerClient := qstashclient.NewQStashClient(cfg.SchedulerConfig.Token, cfg.SchedulerConfig.CallbackToken)
	agentClient := anthropicclient.NewAgentClient(cfg.AnthropicConfig.APIKey)
	emailClient := resendclient.NewResendClient(cfg.ResendConfig.APIKey)
	storageClient, err := s3client.NewS3Client(context.Background(), s3client.Config{
		Region:          cfg.StorageConfig.Region,
		Endpoint:        cfg.StorageConfig.Endpoint,
		AccessKeyID:     cfg.StorageConfig.AccessKeyID,
		SecretAccessKey: cfg.StorageConfig.SecretAccessKey,
		Bucket:          cfg.StorageConfig.Bucket,
		PublicBaseURL:   cfg.StorageConfig.PublicBaseURL,
	})
	if err != nil {
		return err
	}

	// Initialize services
	usersService := users.NewUsersService(usersRepo, orgsRepo, txManager, storageClient)
	organizationsService := organizations.NewOrganizationsService(orgsRepo)
	triggersService := triggers.NewTriggersService(
		triggersRepo,
		reposRepo,
		schedulerClient,
		cfg.SchedulerConfig.DestinationURL,
	)
	integrationsService := integrations.NewIntegrationsService(
		integrationsRepo,
		reposRepo,
		outputsRepo,
		triggersService,
		githubClient,
		tokenCipher,
		txManager,
	)
	postsService := posts.NewPostsService(postsRepo)
	settingsService := notificationsettings.NewNotificationSettingsService(settingsRepo)
	webhookLogsService := webhooklogs.NewWebhookLogsService(webhookLogsRepo)
	notificationsService := notifications.NewNotificationsService(
		settingsService,
		organizationsService,
		usersRepo,
		emailClient,
		cfg.ResendConfig.FromAddress,
	)
	generationService := generation.NewGenerationService(
		integrationsService,
		postsService,
		githubClient,
		agentClient,
	)
	uploadsService := uploads.NewUploadsService(storageClient)

	automationUseCase := automation.NewAutomationUseCase(
		triggersService,
		integrationsService,
		generationService,
		webhookLogsService,
		notificationsService,
		organizationsService,
		schedulerClient,
		cfg.SchedulerConfig.DestinationURL,
	)

	dashboardHandler := handlers.NewDashboardHTTPHandler(
		usersService,
		organizationsService,
		integrationsService,
		triggersService,
		postsService,
		settingsService,
		webhookLogsService,
		uploadsService,
	)
	automationHandler := handlers.NewAutomationHTTPHandler(
		dashboardHandler,
		automationUseCase,
		cfg.SchedulerConfig.CallbackToken,
	)
	authMiddleware := middleware.NewClerkAuthMiddleware(usersService, cfg.ClerkConfig.SecretKey)

	// Create a new router
	router := mux.NewRouter()
	apiRouter := router.PathPrefix("/api").Subrouter()

	dashboardHandler.SetupEndpoints(apiRouter, authMiddleware)
	automationHandler.SetupEndpoints(apiRouter, authMiddleware)

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			log.Printf("❌ Failed to write health check response: %v", err)
		}
	}).Methods("GET")

	// Configure CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSAllowedOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Callback-Token"},
		AllowCredentials: true,
	})

	handler := alertMiddleware.HTTPMiddleware(corsHandler.Handler(router))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in background so we can handle shutdown signals
	errCh := make(chan error, 1)
	go func() {
		log.Printf("🚀 Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Printf("⚠️ Received signal %s, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Printf("✅ Server stopped cleanly")
	return nil
}
