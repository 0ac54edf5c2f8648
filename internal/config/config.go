package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Import   ImportConfig
	Geo      GeoConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	PoolMin  int
	PoolMax  int
	// Migrate applies pending schema migrations at startup.
	Migrate bool
}

// DSN returns the connection string for the configured database.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Name,
	)
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Origins []string
}

// ImportConfig holds limits for spreadsheet imports.
type ImportConfig struct {
	SheetName      string
	MaxUploadBytes int64
	MaxRows        int
	HeaderRows     int
	Timeout        time.Duration
}

// GeoConfig is the region imported projects must fall inside, plus the
// coordinates used when a row leaves them blank.
type GeoConfig struct {
	MinLat     float64
	MaxLat     float64
	MinLng     float64
	MaxLng     float64
	DefaultLat float64
	DefaultLng float64
}

// Load reads configuration from environment variables.
// It uses viper to read values and provides sensible defaults for development.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_HOST", "host.docker.internal")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "propdesk")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_POOL_MIN", 2)
	v.SetDefault("DB_POOL_MAX", 10)
	v.SetDefault("DB_MIGRATE", true)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:3001")

	v.SetDefault("IMPORT_SHEET_NAME", "Projects")
	v.SetDefault("IMPORT_MAX_UPLOAD_BYTES", 10<<20)
	v.SetDefault("IMPORT_MAX_ROWS", 100)
	v.SetDefault("IMPORT_HEADER_ROWS", 3)
	v.SetDefault("IMPORT_TIMEOUT", "60s")

	// Bangalore metro area
	v.SetDefault("GEO_MIN_LAT", 12.5)
	v.SetDefault("GEO_MAX_LAT", 13.5)
	v.SetDefault("GEO_MIN_LNG", 77.0)
	v.SetDefault("GEO_MAX_LNG", 78.0)
	v.SetDefault("GEO_DEFAULT_LAT", 12.9716)
	v.SetDefault("GEO_DEFAULT_LNG", 77.5946)

	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("PORT"),
			Env:  v.GetString("ENV"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			PoolMin:  v.GetInt("DB_POOL_MIN"),
			PoolMax:  v.GetInt("DB_POOL_MAX"),
			Migrate:  v.GetBool("DB_MIGRATE"),
		},
		CORS: CORSConfig{
			Origins: parseOrigins(v.GetString("CORS_ORIGINS")),
		},
		Import: ImportConfig{
			SheetName:      v.GetString("IMPORT_SHEET_NAME"),
			MaxUploadBytes: v.GetInt64("IMPORT_MAX_UPLOAD_BYTES"),
			MaxRows:        v.GetInt("IMPORT_MAX_ROWS"),
			HeaderRows:     v.GetInt("IMPORT_HEADER_ROWS"),
			Timeout:        v.GetDuration("IMPORT_TIMEOUT"),
		},
		Geo: GeoConfig{
			MinLat:     v.GetFloat64("GEO_MIN_LAT"),
			MaxLat:     v.GetFloat64("GEO_MAX_LAT"),
			MinLng:     v.GetFloat64("GEO_MIN_LNG"),
			MaxLng:     v.GetFloat64("GEO_MAX_LNG"),
			DefaultLat: v.GetFloat64("GEO_DEFAULT_LAT"),
			DefaultLng: v.GetFloat64("GEO_DEFAULT_LNG"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Port == "" {
		return fmt.Errorf("DB_PORT is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Database.PoolMin < 0 {
		return fmt.Errorf("DB_POOL_MIN must be non-negative")
	}
	if c.Database.PoolMax < 1 {
		return fmt.Errorf("DB_POOL_MAX must be at least 1")
	}
	if c.Database.PoolMin > c.Database.PoolMax {
		return fmt.Errorf("DB_POOL_MIN must be less than or equal to DB_POOL_MAX")
	}

	if len(c.CORS.Origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS is required")
	}

	if c.Import.SheetName == "" {
		return fmt.Errorf("IMPORT_SHEET_NAME is required")
	}
	if c.Import.MaxUploadBytes < 1 {
		return fmt.Errorf("IMPORT_MAX_UPLOAD_BYTES must be at least 1")
	}
	if c.Import.MaxRows < 1 {
		return fmt.Errorf("IMPORT_MAX_ROWS must be at least 1")
	}
	if c.Import.HeaderRows < 0 {
		return fmt.Errorf("IMPORT_HEADER_ROWS must be non-negative")
	}
	if c.Import.Timeout <= 0 {
		return fmt.Errorf("IMPORT_TIMEOUT must be positive")
	}

	return c.Geo.validate()
}

func (g GeoConfig) validate() error {
	if g.MinLat < -90 || g.MaxLat > 90 || g.MinLat >= g.MaxLat {
		return fmt.Errorf("GEO_MIN_LAT/GEO_MAX_LAT must be an increasing range within [-90, 90]")
	}
	if g.MinLng < -180 || g.MaxLng > 180 || g.MinLng >= g.MaxLng {
		return fmt.Errorf("GEO_MIN_LNG/GEO_MAX_LNG must be an increasing range within [-180, 180]")
	}
	if g.DefaultLat < g.MinLat || g.DefaultLat > g.MaxLat ||
		g.DefaultLng < g.MinLng || g.DefaultLng > g.MaxLng {
		return fmt.Errorf("GEO_DEFAULT_LAT/GEO_DEFAULT_LNG must fall inside the configured region")
	}
	return nil
}

// parseOrigins splits a comma-separated string of origins into a slice.
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
