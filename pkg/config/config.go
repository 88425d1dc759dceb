package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// DatabaseConfig holds the PostgreSQL connection settings
type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// DSN builds a lib/pq connection string
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Load reads an optional .env file and registers defaults for every setting.
// Environment variables always win over defaults.
func Load() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}

	// Database
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "microclimate")
	viper.SetDefault("DB_PASSWORD", "microclimate")
	viper.SetDefault("DB_NAME", "microclimate_grid")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)

	// Server
	viper.SetDefault("SERVER_PORT", "8059")
	viper.SetDefault("SERVER_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	viper.SetDefault("JWT_SECRET", "")

	// Logging
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")

	// Export archive (disabled when the bucket is empty)
	viper.SetDefault("EXPORT_ARCHIVE_BUCKET", "")
	viper.SetDefault("EXPORT_ARCHIVE_INTERVAL", "0s")
	viper.SetDefault("AWS_REGION", "us-east-1")

	viper.AutomaticEnv()
	return nil
}

// Database returns the database settings
func Database() DatabaseConfig {
	return DatabaseConfig{
		Host:         viper.GetString("DB_HOST"),
		Port:         viper.GetString("DB_PORT"),
		User:         viper.GetString("DB_USER"),
		Password:     viper.GetString("DB_PASSWORD"),
		Name:         viper.GetString("DB_NAME"),
		SSLMode:      viper.GetString("DB_SSLMODE"),
		MaxOpenConns: viper.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: viper.GetInt("DB_MAX_IDLE_CONNS"),
	}
}

func ServerPort() string          { return viper.GetString("SERVER_PORT") }
func JWTSecret() string           { return viper.GetString("JWT_SECRET") }
func ExportArchiveBucket() string { return viper.GetString("EXPORT_ARCHIVE_BUCKET") }
func AWSRegion() string           { return viper.GetString("AWS_REGION") }

// ExportArchiveInterval is the period of scheduled archiving, zero disables it
func ExportArchiveInterval() time.Duration {
	return viper.GetDuration("EXPORT_ARCHIVE_INTERVAL")
}

// AllowedOrigins returns the CORS allow-list
func AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(viper.GetString("SERVER_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// SetupLogging configures the global zerolog logger from LOG_LEVEL and LOG_FORMAT
func SetupLogging() {
	level, err := zerolog.ParseLevel(viper.GetString("LOG_LEVEL"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if viper.GetString("LOG_FORMAT") == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
