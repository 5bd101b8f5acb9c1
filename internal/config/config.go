// Package config handles configuration loading for the sweet shop service.
package config

import (
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is used when JWT_SECRET is not set. Deployments must
// override it.
const DefaultJWTSecret = "sweetshop-development-secret-change-me"

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// CookieConfig controls the auth cookie attributes.
type CookieConfig struct {
	Domain   string
	Path     string
	Secure   bool
	SameSite http.SameSite
}

// Config holds all configuration for the sweet shop service.
type Config struct {
	StoreDriver    string
	DatabaseURL    string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	DBForceIPv4    bool
	AutoMigrate    bool
	RedisHost      string
	RedisPort      string
	RedisPassword  string
	JWTSecret      string
	Port           string
	Environment    string
	LogLevel       slog.Level
	AllowedOrigins []string
	Cookie         CookieConfig
	StaticDir      string
	SwaggerHost    string
	AdminEmail     string
	AdminPassword  string
}

// LoadEnvFile overlays variables from a dotenv file. A missing file is
// not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

// Load reads configuration from environment variables.
func Load() *Config {
	environment := GetEnv("ENVIRONMENT", "development")
	return &Config{
		StoreDriver:    strings.ToLower(GetEnv("STORE_DRIVER", DriverPostgres)),
		DatabaseURL:    GetEnv("DATABASE_URL", ""),
		DBHost:         GetEnv("DB_HOST", "localhost"),
		DBPort:         GetEnv("DB_PORT", "5432"),
		DBUser:         GetEnv("DB_USER", "postgres"),
		DBPassword:     GetEnv("DB_PASSWORD", ""),
		DBName:         GetEnv("DB_NAME", "sweetshop"),
		DBSSLMode:      GetEnv("DB_SSLMODE", "disable"),
		DBForceIPv4:    parseBool(GetEnv("DB_FORCE_IPV4", "false"), false),
		AutoMigrate:    parseBool(GetEnv("DB_AUTO_MIGRATE", "true"), true),
		RedisHost:      GetEnv("REDIS_HOST", ""),
		RedisPort:      GetEnv("REDIS_PORT", "6379"),
		RedisPassword:  GetEnv("REDIS_PASSWORD", ""),
		JWTSecret:      GetEnv("JWT_SECRET", ""),
		Port:           GetEnv("PORT", "8080"),
		Environment:    environment,
		LogLevel:       parseLevel(GetEnv("LOG_LEVEL", "info")),
		AllowedOrigins: splitList(GetEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		Cookie: CookieConfig{
			Domain:   GetEnv("COOKIE_DOMAIN", ""),
			Path:     "/",
			Secure:   parseBool(GetEnv("COOKIE_SECURE", ""), environment == "production"),
			SameSite: http.SameSiteLaxMode,
		},
		StaticDir:     GetEnv("STATIC_DIR", ""),
		SwaggerHost:   GetEnv("SWAGGER_HOST", ""),
		AdminEmail:    GetEnv("ADMIN_EMAIL", ""),
		AdminPassword: GetEnv("ADMIN_PASSWORD", ""),
	}
}

// SigningSecret returns the configured JWT secret and whether the
// built-in default had to be used.
func (c *Config) SigningSecret() (string, bool) {
	if c.JWTSecret == "" {
		return DefaultJWTSecret, true
	}
	return c.JWTSecret, false
}

// RedisEnabled reports whether a revocation store is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// GetEnv returns the value of key or defaultValue when unset or empty.
func GetEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBool(value string, defaultValue bool) bool {
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func parseLevel(value string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimRight(strings.TrimSpace(part), "/"); p != "" {
			out = append(out, p)
		}
	}
	return out
}
