package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Firebase FirebaseConfig
	Redis    RedisConfig
	Database DatabaseConfig
	Archive  ArchiveConfig
	App      AppConfig
}

type ServerConfig struct {
	Host           string
	Port           string
	RequestTimeout time.Duration
}

type FirebaseConfig struct {
	// CredentialsJSON holds the service account key inline (FIREBASE_CREDENTIALS).
	// CredentialsPath points at a key file on disk. When both are empty the
	// client falls back to Application Default Credentials.
	CredentialsJSON string
	CredentialsPath string
	ProjectID       string
	Collection      string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

type ArchiveConfig struct {
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("HOST", "0.0.0.0"),
			Port:           getEnv("PORT", "8080"),
			RequestTimeout: time.Duration(getEnvAsInt("REQUEST_TIMEOUT_SECONDS", 120)) * time.Second,
		},
		Firebase: FirebaseConfig{
			CredentialsJSON: os.Getenv("FIREBASE_CREDENTIALS"),
			CredentialsPath: os.Getenv("FIREBASE_CREDENTIALS_PATH"),
			ProjectID:       os.Getenv("FIREBASE_PROJECT_ID"),
			Collection:      getEnv("FIRESTORE_COLLECTION", "movimento_aeronaves"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "movements"),
		},
		Archive: ArchiveConfig{
			Bucket:    getEnv("ARCHIVE_BUCKET", ""),
			Region:    getEnv("ARCHIVE_REGION", "us-east-1"),
			AccessKey: os.Getenv("ARCHIVE_ACCESS_KEY"),
			SecretKey: os.Getenv("ARCHIVE_SECRET_KEY"),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT_SECONDS must be positive")
	}

	if c.Firebase.Collection == "" {
		return fmt.Errorf("FIRESTORE_COLLECTION is required")
	}

	return nil
}

// Addr returns the listen address in host:port form.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// DatabaseConfigured reports whether enough of the DB config is set to connect.
func (c *Config) DatabaseConfigured() bool {
	return c.Database.Host != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}
