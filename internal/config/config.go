package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// AttendanceConfig holds the company-wide fallbacks the attendance core uses
// when a company has no geofence or shift assignment of its own.
type AttendanceConfig struct {
	CompanyLatitude   float64
	CompanyLongitude  float64
	PunchRadiusMeters float64
	GeofenceEnabled   bool
	DefaultTimezone   string
}

func Load() (*Config, error) {
	// .env is optional; environment variables win in deployment.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hrms-saas"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Attendance configuration
	companyLat, err := strconv.ParseFloat(getEnv("COMPANY_LATITUDE", "0"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid COMPANY_LATITUDE: %w", err)
	}
	companyLng, err := strconv.ParseFloat(getEnv("COMPANY_LONGITUDE", "0"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid COMPANY_LONGITUDE: %w", err)
	}
	punchRadius, err := strconv.ParseFloat(getEnv("PUNCH_RADIUS_METERS", "100"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid PUNCH_RADIUS_METERS: %w", err)
	}
	geofenceEnabled, err := strconv.ParseBool(getEnv("GEOFENCE_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid GEOFENCE_ENABLED: %w", err)
	}

	config.Attendance = AttendanceConfig{
		CompanyLatitude:   companyLat,
		CompanyLongitude:  companyLng,
		PunchRadiusMeters: punchRadius,
		GeofenceEnabled:   geofenceEnabled,
		DefaultTimezone:   getEnv("DEFAULT_TIMEZONE", "UTC"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Attendance.PunchRadiusMeters <= 0 {
		return fmt.Errorf("PUNCH_RADIUS_METERS must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
