package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns the GORM/pgx connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// URL returns the database URL used by the migration tool.
func (c DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// SMTPConfig holds outbound mail settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// GeocoderConfig holds geocoding API settings.
type GeocoderConfig struct {
	BaseURL string
	APIKey  string
}

// SweepConfig holds lifecycle sweep settings.
type SweepConfig struct {
	Interval time.Duration
	// ExpireElapsed short-circuits the ongoing promotion for bookings whose
	// check-out has already passed, so fully elapsed stays expire instead of
	// completing. Off by default to keep the historical behavior.
	ExpireElapsed bool
}

// ServiceConfig holds all configuration for the booking server.
type ServiceConfig struct {
	Port         string
	AppEnv       string
	JWTSecret    string
	UploadRoot   string
	KafkaBrokers []string
	RedisAddr    string
	DB           DatabaseConfig
	SMTP         SMTPConfig
	Geocoder     GeocoderConfig
	Sweep        SweepConfig
}

// Load reads configuration from the environment with the PAWS prefix.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("PAWS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("PORT", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("UPLOAD_ROOT", "uploads")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("REDIS_ADDR", "localhost:6379")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "pawsitively")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("SMTP_HOST", "localhost")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_FROM", "bookings@pawsitivelybooked.com")

	v.SetDefault("GEOCODER_BASE_URL", "https://maps.gomaps.pro/maps/api/geocode/json")

	v.SetDefault("SWEEP_INTERVAL", "15m")
	v.SetDefault("SWEEP_EXPIRE_ELAPSED", false)

	cfg := &ServiceConfig{
		Port:         v.GetString("PORT"),
		AppEnv:       v.GetString("APP_ENV"),
		JWTSecret:    v.GetString("JWT_SECRET"),
		UploadRoot:   v.GetString("UPLOAD_ROOT"),
		KafkaBrokers: strings.Split(v.GetString("KAFKA_BROKERS"), ","),
		RedisAddr:    v.GetString("REDIS_ADDR"),
		DB: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		SMTP: SMTPConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			Username: v.GetString("SMTP_USERNAME"),
			Password: v.GetString("SMTP_PASSWORD"),
			From:     v.GetString("SMTP_FROM"),
		},
		Geocoder: GeocoderConfig{
			BaseURL: v.GetString("GEOCODER_BASE_URL"),
			APIKey:  v.GetString("GEOCODER_API_KEY"),
		},
		Sweep: SweepConfig{
			Interval:      v.GetDuration("SWEEP_INTERVAL"),
			ExpireElapsed: v.GetBool("SWEEP_EXPIRE_ELAPSED"),
		},
	}

	if cfg.AppEnv != "development" && cfg.JWTSecret == "" {
		return nil, fmt.Errorf("PAWS_JWT_SECRET is required outside development")
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-only-secret"
	}

	return cfg, nil
}
