package config

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/silver-potato-kebab/trade-tracker/internal/logging"
	"github.com/silver-potato-kebab/trade-tracker/internal/model"
	"github.com/silver-potato-kebab/trade-tracker/internal/validation"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Grid     GridConfig
	Snapshot SnapshotConfig
	Risk     RiskConfig
	Logging  logging.Config
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// GridConfig holds the column layout of the ledger grid.
type GridConfig struct {
	LayoutPath string
	Kinds      map[string]validation.Kind
}

// SnapshotConfig holds the autosave schedule. An empty Cron disables autosave.
type SnapshotConfig struct {
	Cron string
}

// RiskConfig holds the position sizing defaults.
type RiskConfig struct {
	Percentage  float64
	AccountSize float64
}

// Layout is the YAML grid layout file: a validation kind per column.
//
//	columns:
//	  ticker: alpha
//	  cost: price
type Layout struct {
	Columns map[string]string `yaml:"columns"`
}

// DefaultLayout returns the built-in column layout.
func DefaultLayout() Layout {
	return Layout{Columns: map[string]string{
		model.ColOpenDate:      "none",
		model.ColTicker:        "alpha",
		model.ColLongShort:     "alpha",
		model.ColOpenShares:    "integer",
		model.ColOpenPrice:     "price",
		model.ColCost:          "price",
		model.ColTotalCost:     "none",
		model.ColCostBasis:     "none",
		model.ColCloseDate:     "none",
		model.ColCloseShares:   "integer",
		model.ColClosePrice:    "price",
		model.ColProceeds:      "signed_price",
		model.ColProfitLoss:    "none",
		model.ColNetPercentage: "none",
	}}
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/trade_tracker.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost")),
		},
		Grid: GridConfig{
			LayoutPath: os.Getenv("GRID_LAYOUT_PATH"),
		},
		Snapshot: SnapshotConfig{
			Cron: os.Getenv("SNAPSHOT_CRON"),
		},
		Logging: logging.Config{
			Level:           getEnv("LOG_LEVEL", "INFO"),
			Format:          getEnv("LOG_FORMAT", "json"),
			DetailedLogging: getEnv("LOG_DETAILED", "false") == "true",
			TracingEnabled:  getEnv("LOG_TRACING_ENABLED", "false") == "true",
		},
	}

	var err error
	if config.Risk.Percentage, err = getEnvFloat("RISK_PERCENTAGE", 2); err != nil {
		return nil, err
	}
	if config.Risk.AccountSize, err = getEnvFloat("ACCOUNT_SIZE", 1500); err != nil {
		return nil, err
	}

	layout := DefaultLayout()
	if config.Grid.LayoutPath != "" {
		if layout, err = LoadLayout(config.Grid.LayoutPath); err != nil {
			return nil, err
		}
	}
	if config.Grid.Kinds, err = layout.Kinds(); err != nil {
		return nil, err
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// LoadLayout reads a YAML grid layout file.
func LoadLayout(path string) (Layout, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("failed to read grid layout: %w", err)
	}

	var l Layout
	if err := yaml.Unmarshal(b, &l); err != nil {
		return Layout{}, fmt.Errorf("failed to parse grid layout %s: %w", path, err)
	}
	if len(l.Columns) == 0 {
		return Layout{}, fmt.Errorf("grid layout %s declares no columns", path)
	}
	return l, nil
}

// Kinds resolves the layout into validation kinds. An unknown kind returns
// *apperrors.ConfigurationError; an unknown column is also rejected.
func (l Layout) Kinds() (map[string]validation.Kind, error) {
	for _, column := range slices.Sorted(maps.Keys(l.Columns)) {
		if !slices.Contains(model.GridColumns, column) {
			return nil, fmt.Errorf("grid layout: unknown column %q", column)
		}
	}
	return validation.ValidateLayout(l.Columns)
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return f, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
