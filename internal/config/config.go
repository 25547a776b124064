package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates every setting the service reads.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	WS       WSConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ws, err := loadWSConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:   server,
		Database: loadDatabaseConfig(),
		WS:       ws,
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Allow passing ":8080" or "127.0.0.1:8080" directly.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// DatabaseConfig describes the SQLite database location.
type DatabaseConfig struct {
	Path string
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Path: getEnvOrDefault("DATABASE_PATH", "roomwire.db"),
	}
}

// WSConfig describes websocket connection handling.
type WSConfig struct {
	AllowAllOrigins bool
	PingInterval    time.Duration
	ReadTimeout     time.Duration
}

func loadWSConfig() (WSConfig, error) {
	allowAll, err := parseBoolEnv("WS_ALLOW_ALL_ORIGINS", true)
	if err != nil {
		return WSConfig{}, err
	}

	pingSeconds := 54
	if override, err := parseOptionalIntEnv("WS_PING_INTERVAL_SECONDS"); err != nil {
		return WSConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return WSConfig{}, fmt.Errorf("WS_PING_INTERVAL_SECONDS must be positive, got %d", *override)
		}
		pingSeconds = *override
	}

	readSeconds := 60
	if override, err := parseOptionalIntEnv("WS_READ_TIMEOUT_SECONDS"); err != nil {
		return WSConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return WSConfig{}, fmt.Errorf("WS_READ_TIMEOUT_SECONDS must be positive, got %d", *override)
		}
		readSeconds = *override
	}

	return WSConfig{
		AllowAllOrigins: allowAll,
		PingInterval:    time.Duration(pingSeconds) * time.Second,
		ReadTimeout:     time.Duration(readSeconds) * time.Second,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
