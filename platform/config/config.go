package config

import (
	"fmt"
	"os"
	"strconv"

	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	Port       string
	SocketPort string
	Env        string

	JWTSecret string

	// Empty RedisURL / DBAddr keep game state and room records in memory.
	RedisURL   string
	DBUser     string
	DBAddr     string
	DBPassword string
	DBName     string

	ConfigDir      string
	CreditPolicy   string
	AllowedOrigins string
	LogLevel       string
	LogFormat      string
	Seed           int64
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:           getenv("SERVER_PORT", "4101"),
		SocketPort:     getenv("SOCKET_PORT", "8000"),
		Env:            getenv("ENVIRONMENT", "development"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		RedisURL:       os.Getenv("REDIS_URL"),
		DBUser:         os.Getenv("DB_USER"),
		DBAddr:         os.Getenv("DB_ADDR"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         os.Getenv("DB_NAME"),
		ConfigDir:      os.Getenv("GAME_CONFIG_DIR"),
		CreditPolicy:   getenv("MAX_CREDIT_FORMULA", "income"),
		AllowedOrigins: getenv("ALLOWED_ORIGINS", "http://localhost:3000"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		LogFormat:      getenv("LOG_FORMAT", "text"),
	}

	if cfg.JWTSecret == "" {
		if cfg.Env == "production" {
			return nil, fmt.Errorf("JWT_SECRET environment variable is required")
		}
		cfg.JWTSecret = "secret"
	}

	if seed := os.Getenv("SHUFFLE_SEED"); seed != "" {
		n, err := strconv.ParseInt(seed, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("SHUFFLE_SEED: %w", err)
		}
		cfg.Seed = n
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
