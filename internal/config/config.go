// Package config loads runtime settings from the environment, with
// development defaults matching docker-compose.
package config

import (
	"fmt"
	"os"
)

// Config holds everything the server needs to start.
type Config struct {
	Addr          string
	PostgresDSN   string
	RedisAddr     string
	RedisPassword string
	JWTSecret     string
}

// Load reads the environment. Call godotenv.Load first if a .env file should
// be honored.
func Load() Config {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		getenv("DB_HOST", "localhost"),
		getenv("DB_USER", "user"),
		getenv("DB_PASSWORD", "password"),
		getenv("DB_NAME", "whisperwalldb"),
		getenv("DB_PORT", "5432"),
	)

	return Config{
		Addr:          getenv("ADDR", ":8080"),
		PostgresDSN:   dsn,
		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		JWTSecret:     getenv("JWT_SECRET", "dev-only-secret"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
