package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// DBConfig holds database configuration
type DBConfig struct {
	Driver          string // pgx or sqlite
	URL             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// GetDSN returns the connection string for the configured driver
func (c *DBConfig) GetDSN() string {
	if c.Driver == "sqlite" {
		return c.SQLitePath
	}
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level       string
	Environment string
	ServiceName string
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Prefix string
}

// ShopConfig holds settings of the counter itself
type ShopConfig struct {
	Location *time.Location // business dates are computed in this timezone
}

// SessionConfig holds settings of the per-caller session store
type SessionConfig struct {
	CookieName string
	TTL        time.Duration
	MaxEntries int
}

// SettlementConfig holds settings of the shift close retry loop
type SettlementConfig struct {
	MaxRetries   int
	RetryBackoff time.Duration
}

// ExportConfig holds settings of the optional report exports
type ExportConfig struct {
	ChromePath           string
	DriveCredentialsFile string
	DriveFolderID        string
}

// DriveEnabled reports whether shift reports should be archived to Google Drive
func (c *ExportConfig) DriveEnabled() bool {
	return c.DriveCredentialsFile != "" && c.DriveFolderID != ""
}

// Config holds all configuration
type Config struct {
	ServiceName string
	DB          DBConfig
	Server      ServerConfig
	Log         LogConfig
	Metrics     MetricsConfig
	Shop        ShopConfig
	Session     SessionConfig
	Settlement  SettlementConfig
	Export      ExportConfig
}

// Load loads configuration from environment variables.
// A .env file in the working directory is applied first when present.
func Load(serviceName string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env is optional, real environments set variables directly
		fmt.Printf("Warning: .env file not found, using environment variables\n")
	}

	tzName := getEnv("SHOP_TIMEZONE", "America/Bogota")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid SHOP_TIMEZONE %q: %w", tzName, err)
	}

	env := getEnv("APP_ENV", "development")
	config := &Config{
		ServiceName: serviceName,
		DB: DBConfig{
			Driver:          getEnv("DB_DRIVER", "sqlite"),
			URL:             getEnv("DATABASE_URL", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Name:            getEnv("DB_NAME", "pedidos"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			SQLitePath:      getEnv("SQLITE_PATH", "pedidos.db"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  env,
		},
		Log: LogConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Environment: env,
			ServiceName: serviceName,
		},
		Metrics: MetricsConfig{
			Prefix: getEnv("METRICS_PREFIX", "pos"),
		},
		Shop: ShopConfig{
			Location: loc,
		},
		Session: SessionConfig{
			CookieName: getEnv("SESSION_COOKIE", "pos_session"),
			TTL:        getEnvAsDuration("SESSION_TTL", 12*time.Hour),
			MaxEntries: getEnvAsInt("SESSION_MAX", 1024),
		},
		Settlement: SettlementConfig{
			MaxRetries:   getEnvAsInt("SETTLEMENT_MAX_RETRIES", 5),
			RetryBackoff: getEnvAsDuration("SETTLEMENT_RETRY_BACKOFF", 50*time.Millisecond),
		},
		Export: ExportConfig{
			ChromePath:           getEnv("CHROME_PATH", ""),
			DriveCredentialsFile: getEnv("DRIVE_CREDENTIALS_FILE", ""),
			DriveFolderID:        getEnv("DRIVE_REPORTS_FOLDER_ID", ""),
		},
	}

	if config.DB.Driver != "pgx" && config.DB.Driver != "sqlite" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q, use pgx or sqlite", config.DB.Driver)
	}

	return config, nil
}

// LogFields returns the configuration as zap fields, without secrets
func (c *Config) LogFields() []zap.Field {
	return []zap.Field{
		zap.String("service", c.ServiceName),
		zap.String("environment", c.Server.Env),
		zap.String("db_driver", c.DB.Driver),
		zap.String("db_host", c.DB.Host),
		zap.String("db_name", c.DB.Name),
		zap.String("server_port", c.Server.Port),
		zap.String("shop_timezone", c.Shop.Location.String()),
		zap.Bool("drive_archive", c.Export.DriveEnabled()),
	}
}

// Helper function to get environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as integers
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as durations
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
