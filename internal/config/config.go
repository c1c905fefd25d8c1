// Package config provides application configuration loaded from environment variables.
package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	ProviderSQLite   = "sqlite"
	ProviderPostgres = "postgres"
	ProviderMySQL    = "mysql"

	defaultSQLiteFile = "products.db"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	App      AppConfig
	AI       AIConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
	StaticDir      string
	ReadTimeout    int // seconds
	WriteTimeout   int // seconds
}

// DatabaseConfig selects the relational provider.
type DatabaseConfig struct {
	Provider       string
	Connection     string
	LogLevel       string
	ConnectRetries int
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Env      string
	LogLevel string
}

// AIConfig configures the optional assistant. Empty APIKey disables it.
// Timeout bounds one question, tool rounds included, and stays under the
// server write timeout so the reply is not cut off.
type AIConfig struct {
	APIKey  string
	Model   string
	Timeout int // seconds
}

// Dev reports whether the app runs outside production.
func (a AppConfig) Dev() bool {
	return a.Env != "production"
}

// Load reads configuration from environment variables.
// Postgres and MySQL are only selected when a connection string is present;
// otherwise the local SQLite file is used.
func Load() *Config {
	writeTimeout := getEnvInt("SERVER_WRITE_TIMEOUT", 60)
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"*"}),
			StaticDir:      getEnv("STATIC_DIR", "./wwwroot"),
			ReadTimeout:    getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout:   writeTimeout,
		},
		Database: loadDatabase(),
		App: AppConfig{
			Env:      getEnv("APP_ENV", "development"),
			LogLevel: getEnv("LOG_LEVEL", "info"),
		},
		AI: AIConfig{
			APIKey:  os.Getenv("GEMINI_API_KEY"),
			Model:   getEnv("GEMINI_MODEL", "gemini-2.0-flash-001"),
			Timeout: assistantTimeout(getEnvInt("AI_TIMEOUT", 45), writeTimeout),
		},
	}
}

// assistantTimeout keeps the assistant deadline a few seconds inside the
// write timeout, and at least one second.
func assistantTimeout(wanted, writeTimeout int) int {
	limit := writeTimeout - 5
	if limit < 1 {
		limit = 1
	}
	if wanted <= 0 || wanted > limit {
		return limit
	}
	return wanted
}

func loadDatabase() DatabaseConfig {
	cfg := DatabaseConfig{
		Provider:       strings.ToLower(strings.TrimSpace(os.Getenv("DB_PROVIDER"))),
		Connection:     strings.TrimSpace(os.Getenv("DB_CONNECTION")),
		LogLevel:       getEnv("DB_LOG_LEVEL", "warn"),
		ConnectRetries: getEnvInt("DB_CONNECT_RETRIES", 5),
	}
	switch cfg.Provider {
	case ProviderPostgres, "postgresql", ProviderMySQL:
		if cfg.Provider == "postgresql" {
			cfg.Provider = ProviderPostgres
		}
		if cfg.Connection != "" {
			return cfg
		}
	}
	cfg.Provider = ProviderSQLite
	if cfg.Connection == "" || !looksLikeSQLite(cfg.Connection) {
		cfg.Connection = defaultSQLiteFile
	}
	return cfg
}

// looksLikeSQLite rejects server DSNs left over from a provider switch.
func looksLikeSQLite(conn string) bool {
	lower := strings.ToLower(conn)
	return !strings.Contains(lower, "host=") && !strings.Contains(lower, "://") && !strings.Contains(lower, "@tcp(")
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated variable, dropping blanks.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
