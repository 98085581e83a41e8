package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smashvision-backend/config"
	"smashvision-backend/internal/api"
	"smashvision-backend/internal/auth"
	"smashvision-backend/internal/db"
	"smashvision-backend/internal/livesync"
	"smashvision-backend/internal/remote"
	"smashvision-backend/internal/snapshot"
	"smashvision-backend/internal/store"

	"github.com/SherClockHolmes/webpush-go"
)

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "smashvision-backend ", log.LstdFlags)

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	// Check for VAPID keys
	if cfg.Push.PublicKey == "" || cfg.Push.PrivateKey == "" {
		logger.Fatalf("VAPID keys must be configured. Please generate them and add them to your config file.")
	}

	webpushOptions := webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	logger.Println("data store initialized")

	remoteClient := remote.NewClient(&cfg.Remote)

	// The live client turns cloud push events into reload signals for the
	// snapshot service and serves the overlay for the camera endpoints.
	tokens := auth.NewHTTPTokenSource(cfg.Auth.TokenURL, cfg.Auth.APIKey,
		time.Duration(cfg.Auth.TimeoutSeconds)*time.Second)
	liveClient := livesync.New(livesync.Options{
		BaseURL:              cfg.WebSocket.BaseURL,
		Tokens:               tokens,
		MaxReconnectAttempts: cfg.WebSocket.MaxReconnectAttempts,
		ReconnectBaseDelay:   cfg.WebSocket.ReconnectBaseDelay,
		ReconnectMaxDelay:    cfg.WebSocket.ReconnectMaxDelay,
		StalenessWindow:      cfg.WebSocket.StalenessWindow,
	})
	liveClient.Connect()

	// Initialize and run the snapshot sync in the background
	syncSvc := snapshot.NewService(cfg, appStore, remoteClient, liveClient.Reloads())
	go syncSvc.Run(ctx)

	// Initialize router
	router := api.NewRouter(&cfg.Server, appStore, &webpushOptions, liveClient, remoteClient)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	liveClient.Disconnect()

	// Create a deadline to wait for.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
