package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config keeps runtime settings for the server and the chat client.
type Config struct {
	Server ServerConfig
	Store  StoreConfig
	Bot    BotConfig
}

type ServerConfig struct {
	GRPCAddr    string
	HTTPAddr    string
	Environment string
}

type StoreConfig struct {
	// Driver is one of sqlite, postgres or mysql.
	Driver string
	DSN    string
	Debug  bool
}

type BotConfig struct {
	TelegramToken  string
	ServerAddr     string
	ReportInterval time.Duration
	// DigestAt is an optional HH:MM time for an extra daily digest.
	DigestAt string
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Load reads configuration from environment variables with sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			GRPCAddr:    getEnv("GRPC_ADDR", ":50051"),
			HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getEnv("STORE_DRIVER", DriverSQLite)),
			DSN:    getEnv("DATABASE_URL", ""),
			Debug:  getEnvAsBool("STORE_DEBUG", false),
		},
		Bot: BotConfig{
			TelegramToken:  getEnv("TELEGRAM_TOKEN", ""),
			ServerAddr:     getEnv("SERVER_ADDR", "localhost:50051"),
			ReportInterval: parseInterval(getEnv("REPORT_INTERVAL_HOURS", "")),
			DigestAt:       getEnv("DIGEST_AT", ""),
		},
	}

	switch cfg.Store.Driver {
	case DriverSQLite:
		if cfg.Store.DSN == "" {
			cfg.Store.DSN = "task_manager.db"
		}
	case DriverPostgres, DriverMySQL:
		if cfg.Store.DSN == "" {
			return cfg, fmt.Errorf("DATABASE_URL is required for driver %q", cfg.Store.Driver)
		}
	default:
		return cfg, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}

	if cfg.Bot.ReportInterval == 0 {
		cfg.Bot.ReportInterval = 5 * time.Hour
	}

	return cfg, nil
}

// ValidateBot checks the settings only the chat client needs.
func (c *Config) ValidateBot() error {
	if c.Bot.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required")
	}
	if c.Bot.ServerAddr == "" {
		return fmt.Errorf("SERVER_ADDR is required")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// LogFlags adds source locations to log lines in development.
func (c *Config) LogFlags() int {
	if c.IsDevelopment() {
		return log.LstdFlags | log.Lshortfile
	}
	return log.LstdFlags
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return defaultValue
	}
	return value
}

func parseInterval(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}
