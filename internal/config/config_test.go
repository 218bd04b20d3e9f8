package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "DB_DRIVER", "DB_PORT", "DB_ENABLED", "ROUTES_API_BASE_URL", "HTTP_CLIENT_TIMEOUT_SECONDS"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Database.Enabled || cfg.Database.Driver != "postgres" || cfg.Database.Port != "5432" {
		t.Errorf("database = %+v", cfg.Database)
	}
	if cfg.ClientTimeout() != 30*time.Second {
		t.Errorf("timeout = %v", cfg.ClientTimeout())
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("DB_ENABLED", "true")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("DB_PORT", "")
	t.Setenv("ROUTES_API_BASE_URL", "http://routes.internal/")
	t.Setenv("SESSION_TTL_MINUTES", "5")

	cfg := LoadConfig()
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if !cfg.Database.Enabled || cfg.Database.Port != "3306" {
		t.Errorf("database = %+v", cfg.Database)
	}
	if cfg.RoutesAPI.BaseURL != "http://routes.internal" {
		t.Errorf("base url = %q", cfg.RoutesAPI.BaseURL)
	}
	if cfg.SessionTTL() != 5*time.Minute {
		t.Errorf("ttl = %v", cfg.SessionTTL())
	}
}

func TestInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "eighty")
	t.Setenv("DB_ENABLED", "maybe")

	cfg := LoadConfig()
	if cfg.Server.Port != 8080 || cfg.Database.Enabled {
		t.Errorf("cfg = %+v", cfg.Server)
	}
}
