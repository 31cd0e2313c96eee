package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"dispatch/cmd"
	"dispatch/internal/adapters/out/postgres/driverrepo"
	"dispatch/internal/adapters/out/postgres/orderrepo"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := mustConnectDB(configs)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     configs.RedisAddr,
		Password: configs.RedisPassword,
	})

	root := cmd.NewCompositionRoot(configs, gormDB, redisClient, logger)

	jobManager := root.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start background jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(root, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	// A missing .env file is fine in containerized deployments where the
	// environment is injected directly.
	_ = godotenv.Load(".env")

	return cmd.Config{
		HTTPPort:           envOrDefault("HTTP_PORT", "8080"),
		DBHost:             envOrDefault("DB_HOST", "localhost"),
		DBPort:             envOrDefault("DB_PORT", "5432"),
		DBUser:             envOrDefault("DB_USER", "postgres"),
		DBPassword:         envOrDefault("DB_PASSWORD", ""),
		DBName:             envOrDefault("DB_NAME", "dispatch"),
		DBSslMode:          envOrDefault("DB_SSLMODE", "disable"),
		RedisAddr:          envOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      envOrDefault("REDIS_PASSWORD", ""),
		GeocoderBaseURL:    envOrDefault("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
		GeocoderRegion:     envOrDefault("GEOCODER_REGION", "India"),
		LocationStaleAfter: envDuration("LOCATION_STALE_AFTER", 15*time.Minute),
		LivePositionTTL:    envDuration("LIVE_POSITION_TTL", 2*time.Minute),
	}
}

func envOrDefault(key string, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	value, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("Invalid duration in %s: %v", key, err)
	}
	return value
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	db, err := gorm.Open(gormpostgres.Open(configs.DBConnectionString()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&driverrepo.DriverDTO{}, &orderrepo.OrderDTO{}); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	return db
}

func startWebServer(root cmd.CompositionRoot, port string) {
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	server := root.CreateServer()
	if err := server.RegisterRoutes(e); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
