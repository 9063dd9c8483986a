package config

import (
	"os"
	"strconv"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// AuthConfig holds JWT settings for the principal middleware.
type AuthConfig struct {
	JWTSecret   string
	TokenTTLSec int
	// DemoPassword enables the shared-secret login endpoint when non-empty.
	// Deployments behind an external identity provider leave it unset and the
	// endpoint stays disabled.
	DemoPassword string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost string
	Port    string
	// AllowArchivedRestore toggles the archived -> stored edge in the
	// front-door transition table (compatibility with existing data).
	AllowArchivedRestore bool
	// PresignTTLSec bounds download URL lifetimes.
	PresignTTLSec int
	// ActivityQueueSize bounds the in-flight audit record buffer.
	ActivityQueueSize int
	Database          DatabaseConfig
	MinIO             MinIOConfig
	Auth              AuthConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:              getEnv("APP_HOST", "localhost:8080"),
		Port:                 getEnv("PORT", "8080"), // default only for non-sensitive value
		AllowArchivedRestore: getEnvBool("ALLOW_ARCHIVED_RESTORE", true),
		PresignTTLSec:        getEnvInt("PRESIGN_TTL_SEC", 900),
		ActivityQueueSize:    getEnvInt("ACTIVITY_QUEUE_SIZE", 256),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Auth: AuthConfig{
			JWTSecret:    getEnv("JWT_SECRET", ""),
			TokenTTLSec:  getEnvInt("JWT_TTL_SEC", 3600),
			DemoPassword: getEnv("LOGIN_DEMO_PASSWORD", ""),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
