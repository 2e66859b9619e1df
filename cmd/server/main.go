package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/tankscope/telemetry-service/internal/anomaly"
	"github.com/tankscope/telemetry-service/internal/api"
	"github.com/tankscope/telemetry-service/internal/auth"
	"github.com/tankscope/telemetry-service/internal/config"
	"github.com/tankscope/telemetry-service/internal/database"
	"github.com/tankscope/telemetry-service/internal/kafka"
	"github.com/tankscope/telemetry-service/internal/redis"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Connect to database
	db, err := database.New(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := runMigrations(cfg.Database.ConnectionString()); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	defer db.Close()
	log.Println("Connected to PostgreSQL database")

	// Seed the default admin account on first boot
	if err := seedAdmin(db); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	// Connect to Redis
	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v (continuing without cache)", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Println("Connected to Redis cache")
	}

	// Sessions live in Redis when available, in memory otherwise
	var sessionStore auth.SessionStore = auth.NewMemorySessionStore()
	if redisClient != nil {
		sessionStore = redisClient
	}
	authService := auth.NewService(sessionStore, time.Duration(cfg.Auth.TokenTTLDays)*24*time.Hour)

	// Create Kafka producer
	producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer producer.Close()
	log.Printf("Kafka producer initialized (brokers: %v)", cfg.Kafka.Brokers)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create and start Kafka consumer for telemetry readings
	consumer := kafka.NewReadingsConsumer(
		cfg.Kafka.Brokers,
		cfg.Kafka.ReadingsTopic,
		cfg.Kafka.ConsumerGroup,
		db,
	)
	go func() {
		log.Printf("Starting Kafka readings consumer for topic: %s (group: %s-readings)",
			cfg.Kafka.ReadingsTopic, cfg.Kafka.ConsumerGroup)
		if err := consumer.Start(ctx); err != nil {
			log.Printf("Kafka readings consumer error: %v", err)
		}
	}()

	// Set up HTTP handler and routes
	handlerCfg := api.HandlerConfig{
		Readings:     db,
		Reports:      db,
		Users:        db,
		Integrations: db,
		Producer:     producer,
		Auth:         authService,
		Detector: anomaly.New(anomaly.Config{
			Window:     cfg.Detector.Window,
			MinSamples: cfg.Detector.MinSamples,
			Threshold:  cfg.Detector.Threshold,
		}),
		DB: db,
	}
	if redisClient != nil {
		handlerCfg.Cache = redisClient
		handlerCfg.Stream = redisClient
	}
	handler := api.NewHandler(handlerCfg)
	router := api.SetupRoutes(handler)

	// Create HTTP server
	addr := cfg.Server.Host + ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Cancel context to stop Kafka consumer
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	if err := consumer.Close(); err != nil {
		log.Printf("Error closing Kafka readings consumer: %v", err)
	}

	log.Println("Server stopped")
}

func seedAdmin(db *database.DB) error {
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}
	hash, salt, err := auth.HashPassword(password, "")
	if err != nil {
		return err
	}
	return db.SeedAdminUser(hash, salt)
}

func runMigrations(databaseUrl string) error {
	m, err := migrate.New("file://./db/migrations", databaseUrl)
	if err != nil {
		return err
	}

	// Apply all available migrations up to the latest version
	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	// ErrNoChange simply means the database was already current
	if err == migrate.ErrNoChange {
		log.Println("No migrations to apply; database is up to date.")
	}

	return nil
}
