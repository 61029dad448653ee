package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment. A .env file is
// loaded when present; real environment variables always win.
type Config struct {
	DatabaseURL     string
	ServerAddr      string
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Load reads configuration from the environment. DATABASE_URL and JWT_SECRET are
// required; everything else has a default.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] no .env file found, using system environment")
	}

	cfg := &Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		ServerAddr:      getEnv("SERVER_ADDR", ":8080"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		AccessTokenTTL:  getDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL: getDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		MaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 20),
		MaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 10),
		ConnMaxLifetime: getDuration("DB_CONN_MAX_LIFETIME", time.Hour),
	}

	if cfg.DatabaseURL == "" {
		return nil, errMissing("DATABASE_URL")
	}
	if cfg.JWTSecret == "" {
		return nil, errMissing("JWT_SECRET")
	}
	return cfg, nil
}

type missingEnvError string

func (e missingEnvError) Error() string {
	return string(e) + " environment variable is required"
}

func errMissing(key string) error { return missingEnvError(key) }

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[WARN] %s: invalid integer %q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("[WARN] %s: invalid duration %q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
