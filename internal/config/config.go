package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DatabaseURL     string
	Port            string
	Env             string
	LogLevel        string
	GeneratorDays   int
	GeneratorSeed   int64
	GeneratorStart  time.Time
	RefreshInterval time.Duration
	ReportDir       string
}

// Load reads an optional .env file and then the process environment.
// Malformed values keep their defaults and are returned as warnings.
func Load() (*Config, []string) {
	var warnings []string
	if err := godotenv.Load(); err != nil {
		warnings = append(warnings, "No .env file found, using system environment")
	}

	cfg := &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("GO_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		ReportDir:   getEnv("REPORT_DIR", "."),
	}

	var err error
	if cfg.GeneratorDays, err = strconv.Atoi(getEnv("GENERATOR_DAYS", "7")); err != nil || cfg.GeneratorDays <= 0 {
		warnings = append(warnings, fmt.Sprintf("invalid GENERATOR_DAYS, using 7: %v", err))
		cfg.GeneratorDays = 7
	}
	if cfg.GeneratorSeed, err = strconv.ParseInt(getEnv("GENERATOR_SEED", "42"), 10, 64); err != nil {
		warnings = append(warnings, fmt.Sprintf("invalid GENERATOR_SEED, using 42: %v", err))
		cfg.GeneratorSeed = 42
	}
	if cfg.GeneratorStart, err = time.Parse("2006-01-02", getEnv("GENERATOR_START", "2024-02-01")); err != nil {
		warnings = append(warnings, fmt.Sprintf("invalid GENERATOR_START, using 2024-02-01: %v", err))
		cfg.GeneratorStart = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	}
	if cfg.RefreshInterval, err = time.ParseDuration(getEnv("REFRESH_INTERVAL", "15m")); err != nil || cfg.RefreshInterval < 0 {
		warnings = append(warnings, fmt.Sprintf("invalid REFRESH_INTERVAL, using 15m: %v", err))
		cfg.RefreshInterval = 15 * time.Minute
	}

	return cfg, warnings
}

// Window returns the observation range covered by the generator settings
func (c *Config) Window() (time.Time, time.Time) {
	return c.GeneratorStart, c.GeneratorStart.Add(time.Duration(c.GeneratorDays) * 24 * time.Hour)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
