package config

import (
	"context"
	"fmt"
	"os"

	"go.mongodb.org/mongo-driver/mongo"

	"catalog-service/internal/repository"
)

type Config struct {
	// Database
	MongoURI string
	MongoDB  string
	RedisURL string
	NATSURL  string

	// Server
	Port        string
	Environment string

	// JWT
	JWTSecret string
}

func Load() *Config {
	return &Config{
		// Database
		MongoURI: getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGODB_DATABASE", "catalog"),
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),
		NATSURL:  getEnv("NATS_URL", ""),

		// Server
		Port:        getEnv("PORT", "8083"),
		Environment: getEnv("ENVIRONMENT", "development"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "dev-secret"),
	}
}

// InitDB connects to MongoDB and ensures the catalog indexes exist.
func InitDB(ctx context.Context, cfg *Config) (*mongo.Database, error) {
	client, err := repository.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := client.Database(cfg.MongoDB)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		return nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}
	return db, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
