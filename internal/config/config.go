package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the application configuration.
type Config struct {
	Server struct {
		Port        int
		Host        string
		Environment string
		StaticDir   string
	}
	Maps struct {
		APIKey string
	}
	Emissions struct {
		FunctionURL string
	}
	RoutesAPI struct {
		// BaseURL of a remote routing API. Empty means in-process.
		BaseURL string
	}
	HTTPClient struct {
		Timeout int // seconds
	}
	Session struct {
		TTLMinutes int
	}
	Database struct {
		Enabled  bool
		Driver   string
		Host     string
		Port     string
		Name     string
		User     string
		Password string
		SSLMode  string
	}
	GRPC struct {
		HealthPort int
	}
	Logging struct {
		Level string
	}
}

// LoadConfig reads an optional .env file and then the environment.
func LoadConfig() *Config {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.Server.Port = getEnvInt("SERVER_PORT", 8080)
	cfg.Server.Host = getEnv("SERVER_HOST", "0.0.0.0")
	cfg.Server.Environment = getEnv("ENVIRONMENT", "development")
	cfg.Server.StaticDir = getEnv("STATIC_DIR", "./static")

	cfg.Maps.APIKey = getEnv("MAPS_API_KEY", "")
	cfg.Emissions.FunctionURL = getEnv("EMISSIONS_FUNCTION_URL", "")
	cfg.RoutesAPI.BaseURL = strings.TrimRight(getEnv("ROUTES_API_BASE_URL", ""), "/")
	cfg.HTTPClient.Timeout = getEnvInt("HTTP_CLIENT_TIMEOUT_SECONDS", 30)
	cfg.Session.TTLMinutes = getEnvInt("SESSION_TTL_MINUTES", 60)

	cfg.Database.Enabled = getEnvBool("DB_ENABLED", false)
	cfg.Database.Driver = getEnv("DB_DRIVER", "postgres")
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnv("DB_PORT", defaultDBPort(cfg.Database.Driver))
	cfg.Database.Name = getEnv("DB_NAME", "eco_routes")
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "")
	cfg.Database.SSLMode = getEnv("DB_SSL_MODE", "disable")

	cfg.GRPC.HealthPort = getEnvInt("GRPC_HEALTH_PORT", 9090)

	cfg.Logging.Level = getEnv("LOG_LEVEL", "info")

	return cfg
}

// ClientTimeout is the timeout of every outbound HTTP client.
func (c *Config) ClientTimeout() time.Duration {
	return time.Duration(c.HTTPClient.Timeout) * time.Second
}

// SessionTTL is how long an idle browser session is kept.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLMinutes) * time.Minute
}

func defaultDBPort(driver string) string {
	if driver == "mysql" {
		return "3306"
	}
	return "5432"
}

// getEnv returns the variable or the default when it is unset or empty.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the variable as int, or the default when unset or invalid.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
